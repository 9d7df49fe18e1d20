package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ZB56/VLM-humor/internal/config"
	"github.com/ZB56/VLM-humor/internal/enex"
	"github.com/ZB56/VLM-humor/internal/filter"
)

func runNotes(args []string, g globalFlags) error {
	var (
		path     string
		output   = "notes.json"
		minLen   string
		tags     string
		keywords string
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
		case args[i] == "--tags" && i+1 < len(args):
			i++
			tags = args[i]
		case strings.HasPrefix(args[i], "--tags="):
			tags = strings.TrimPrefix(args[i], "--tags=")
		case args[i] == "--keywords" && i+1 < len(args):
			i++
			keywords = args[i]
		case strings.HasPrefix(args[i], "--keywords="):
			keywords = strings.TrimPrefix(args[i], "--keywords=")
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
		return fmt.Errorf("usage: vlm-humor notes <path> [--output FILE] [--min-length N] [--tags a,b] [--keywords x,y]")
	}

	rc, err := config.ResolveConfig(config.ResolveOptions{
		ConfigPath:      g.configPath,
		CLIMinContent:   minLen,
		CLINoteTags:     tags,
		CLINoteKeywords: keywords,
	})
	if err != nil {
		return err
	}
	if g.verbose {
		printResolved(rc)
	}

	parser := enex.NewParser(enex.Options{
		MinContentLength: rc.MinContentLength.Int(enex.DefaultMinContentLength),
	})
	sc, err := parser.Open(path)
	if err != nil {
		return err
	}

	notes, err := filter.CollectNotes(sc, filter.NoteQuery{
		Tags:     rc.NoteTags.SplitList(),
		Keywords: rc.NoteKeywords.SplitList(),
	})
	if err != nil {
		return err
	}

	if err := writeJSON(output, notes); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Extracted %d notes -> %s\n", len(notes), destName(output))
	return nil
}
