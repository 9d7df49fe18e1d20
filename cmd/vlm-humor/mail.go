package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ZB56/VLM-humor/internal/config"
	"github.com/ZB56/VLM-humor/internal/filter"
	"github.com/ZB56/VLM-humor/internal/mailparse"
	"github.com/ZB56/VLM-humor/internal/thread"
)

func runMail(args []string, g globalFlags) error {
	var (
		path           string
		output         = "emails.json"
		minLen         string
		domains        string
		keywords       string
		pattern        string
		allSubjects    bool
		keepQuotes     bool
		keepSignatures bool
		groupThreads   bool
	)

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--output" && i+1 < len(args):
			i++
			output = args[i]
		case strings.HasPrefix(args[i], "--output="):
			output = strings.TrimPrefix(args[i], "--output=")
		case args[i] == "--min-length" && i+1 < len(args):
			i++
			minLen = args[i]
		case strings.HasPrefix(args[i], "--min-length="):
			minLen = strings.TrimPrefix(args[i], "--min-length=")
		case args[i] == "--domains" && i+1 < len(args):
			i++
			domains = args[i]
		case strings.HasPrefix(args[i], "--domains="):
			domains = strings.TrimPrefix(args[i], "--domains=")
		case args[i] == "--keywords" && i+1 < len(args):
			i++
			keywords = args[i]
		case strings.HasPrefix(args[i], "--keywords="):
			keywords = strings.TrimPrefix(args[i], "--keywords=")
		case args[i] == "--pattern" && i+1 < len(args):
			i++
			pattern = args[i]
		case strings.HasPrefix(args[i], "--pattern="):
			pattern = strings.TrimPrefix(args[i], "--pattern=")
		case args[i] == "--all-subjects":
			allSubjects = true
		case args[i] == "--keep-quotes":
			keepQuotes = true
		case args[i] == "--keep-signatures":
			keepSignatures = true
		case args[i] == "--group-threads":
			groupThreads = true
		case strings.HasPrefix(args[i], "-") && args[i] != "-":
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			if path != "" {
				return fmt.Errorf("unexpected argument: %s", args[i])
			}
			path = args[i]
		}
	}

	if path == "" {
		return fmt.Errorf("usage: vlm-humor mail <path> [--output FILE] [--min-length N] [--domains d1,d2] [--keywords x,y] [--all-subjects] [--pattern GLOB] [--keep-quotes] [--keep-signatures] [--group-threads]")
	}

	rc, err := config.ResolveConfig(config.ResolveOptions{
		ConfigPath:        g.configPath,
		CLIMinBody:        minLen,
		CLIMailDomains:    domains,
		CLIMailKeywords:   keywords,
		CLIAllSubjects:    allSubjects,
		CLIKeepQuotes:     keepQuotes,
		CLIKeepSignatures: keepSignatures,
		CLIGroupThreads:   groupThreads,
		CLIPattern:        pattern,
	})
	if err != nil {
		return err
	}
	if g.verbose {
		printResolved(rc)
	}

	parser := mailparse.NewParser(mailparse.Options{
		MinBodyLength:  rc.MinBodyLength.Int(mailparse.DefaultMinBodyLength),
		KeepQuotes:     !rc.StripQuotes.Bool(true),
		KeepSignatures: !rc.StripSignatures.Bool(true),
	})
	sc, err := parser.Open(path, rc.DirPattern.Value)
	if err != nil {
		return err
	}

	mails, err := filter.CollectMail(sc, filter.MailQuery{
		Domains:  rc.MailDomains.SplitList(),
		Keywords: rc.MailKeywords.SplitList(),
	})
	if err != nil {
		return err
	}

	if rc.GroupThreads.Bool(false) {
		threads := thread.Group(mails)
		if err := writeJSON(output, threads); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Extracted %d emails in %d threads -> %s\n", len(mails), len(threads), destName(output))
		return nil
	}

	if err := writeJSON(output, mails); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Extracted %d emails -> %s\n", len(mails), destName(output))
	return nil
}
