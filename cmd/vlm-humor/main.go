package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ZB56/VLM-humor/internal/config"
)

const version = "0.1.0-dev"

type globalFlags struct {
	configPath string
	verbose    bool
}

func main() {
	var g globalFlags
	args, err := parseGlobalFlags(os.Args[1:], &g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	switch args[0] {
	case "notes":
		if err := runNotes(args[1:], g); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mail":
		if err := runMail(args[1:], g); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := runMCP(args[1:], g); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version", "--version", "-v":
		fmt.Printf("vlm-humor %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

// parseGlobalFlags consumes leading global flags and returns what remains,
// starting at the subcommand.
func parseGlobalFlags(args []string, g *globalFlags) ([]string, error) {
	for len(args) > 0 {
		switch {
		case args[0] == "--config" && len(args) > 1:
			g.configPath = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--config="):
			g.configPath = strings.TrimPrefix(args[0], "--config=")
			args = args[1:]
		case args[0] == "--verbose":
			g.verbose = true
			args = args[1:]
		default:
			return args, nil
		}
	}
	return args, nil
}

// writeJSON writes v as 2-space-indented JSON to the named file, or to
// stdout when output is "-".
func writeJSON(output string, v interface{}) error {
	if output == "-" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", output, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	return nil
}

func destName(output string) string {
	if output == "-" {
		return "stdout"
	}
	return output
}

func printResolved(rc config.ResolvedConfig) {
	fmt.Fprintf(os.Stderr, "config file: %s\n", rc.ConfigPath)
	printValue("notes.min_content_length", rc.MinContentLength)
	printValue("notes.tags", rc.NoteTags)
	printValue("notes.keywords", rc.NoteKeywords)
	printValue("mail.min_body_length", rc.MinBodyLength)
	printValue("mail.strip_quotes", rc.StripQuotes)
	printValue("mail.strip_signatures", rc.StripSignatures)
	printValue("mail.domains", rc.MailDomains)
	printValue("mail.keywords", rc.MailKeywords)
	printValue("mail.group_threads", rc.GroupThreads)
	printValue("mail.pattern", rc.DirPattern)
}

func printValue(name string, v config.ResolvedValue) {
	if v.Source == config.SourceUnknown {
		return
	}
	from := ""
	if v.From != "" {
		from = " via " + v.From
	}
	fmt.Fprintf(os.Stderr, "  %s = %q (%s%s)\n", name, v.Value, v.Source, from)
}

func printUsage() {
	fmt.Printf(`vlm-humor %s — Humor corpus extraction from notes and email

Usage:
  vlm-humor [--config PATH] [--verbose] <command> [arguments]

Commands:
  notes <path>        Extract note records from an ENEX file or directory
  mail <path>         Extract email records from an mbox, message file, or directory
  mcp                 Serve the extractors over the Model Context Protocol (stdio)
  version             Print version

Notes Flags:
  --output FILE       Write records to FILE (default notes.json, - for stdout)
  --min-length N      Minimum cleaned content length in bytes (default 50)
  --tags a,b          Keep notes carrying any listed tag
  --keywords x,y      Keep notes whose content contains any keyword

Mail Flags:
  --output FILE       Write records to FILE (default emails.json, - for stdout)
  --min-length N      Minimum cleaned body length in bytes (default 20)
  --domains d1,d2     Keep messages whose sender domain matches exactly
  --keywords x,y      Subject vocabulary (default: fantasy football terms)
  --all-subjects      Keep every subject
  --pattern GLOB      Message files to read from a directory (default *.eml)
  --keep-quotes       Keep quoted reply lines in bodies
  --keep-signatures   Keep signature blocks in bodies
  --group-threads     Write a thread mapping instead of an array

Flags:
  --config PATH       Config file (default ~/.vlm-humor/config.yaml)
  --verbose           Print resolved settings to stderr
  -h, --help          Show this help message
  -v, --version       Print version

Documentation:
  https://github.com/ZB56/VLM-humor
`, version)
}
