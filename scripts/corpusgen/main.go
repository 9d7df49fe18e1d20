// corpusgen generates a synthetic fantasy-league corpus for benchmarks and
// manual runs: an ENEX archive and an mbox container. After writing both it
// reads them back through the extractors and reports what survived, so a
// broken generator shows up immediately.
//
// Run: go run ./scripts/corpusgen --out /tmp/corpus --notes 500 --emails 500
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZB56/VLM-humor/internal/enex"
	"github.com/ZB56/VLM-humor/internal/filter"
	"github.com/ZB56/VLM-humor/internal/mailparse"
	"github.com/ZB56/VLM-humor/internal/thread"
)

type report struct {
	GeneratedAt   time.Time `json:"generated_at"`
	OutDir        string    `json:"out_dir"`
	Seed          int64     `json:"seed"`
	ArchivePath   string    `json:"archive_path"`
	ArchiveBytes  int64     `json:"archive_bytes"`
	MboxPath      string    `json:"mbox_path"`
	MboxBytes     int64     `json:"mbox_bytes"`
	NotesWritten  int       `json:"notes_written"`
	NotesKept     int       `json:"notes_kept"`
	EmailsWritten int       `json:"emails_written"`
	EmailsKept    int       `json:"emails_kept"`
	Threads       int       `json:"threads"`
}

var subjects = []string{
	"Fantasy Waiver Wire",
	"Trade block update",
	"Lineup decisions",
	"Draft recap",
	"Keeper deadline",
	"Roster moves",
	"Matchup preview",
	"Standings check",
	"Lunch on Friday",
	"Car pool",
}

var sentences = []string{
	"Somebody drafted a kicker in the second round again. ",
	"The veto vote failed because nobody reads the bylaws. ",
	"His entire bench is on bye and he still might win. ",
	"The deadline is Thursday at noon, not midnight. ",
	"Autopick took a punter and honestly it was an upgrade. ",
	"Claims clear at 3am so set yours tonight. ",
	"The commissioner reversed the score correction twice. ",
	"Start him against that secondary, I am begging you. ",
}

func main() {
	outDir := flag.String("out", "corpus", "Output directory")
	notes := flag.Int("notes", 500, "Number of notes to generate")
	emails := flag.Int("emails", 500, "Number of emails to generate")
	seed := flag.Int64("seed", 42, "Random seed")
	flag.Parse()

	if err := run(*outDir, *notes, *emails, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(outDir string, notes, emails int, seed int64) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}
	rng := rand.New(rand.NewSource(seed))

	archivePath := filepath.Join(outDir, "export.enex")
	if err := os.WriteFile(archivePath, []byte(genArchive(notes, rng)), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", archivePath, err)
	}
	mboxPath := filepath.Join(outDir, "league.mbox")
	if err := os.WriteFile(mboxPath, []byte(genMbox(emails, rng)), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", mboxPath, err)
	}

	rep := report{
		GeneratedAt:   time.Now().UTC(),
		OutDir:        outDir,
		Seed:          seed,
		ArchivePath:   archivePath,
		MboxPath:      mboxPath,
		NotesWritten:  notes,
		EmailsWritten: emails,
	}
	if info, err := os.Stat(archivePath); err == nil {
		rep.ArchiveBytes = info.Size()
	}
	if info, err := os.Stat(mboxPath); err == nil {
		rep.MboxBytes = info.Size()
	}

	// Read everything back through the extractors as a self-check.
	sc, err := enex.NewParser(enex.Options{}).Open(archivePath)
	if err != nil {
		return err
	}
	kept, err := filter.CollectNotes(sc, filter.NoteQuery{})
	if err != nil {
		return err
	}
	rep.NotesKept = len(kept)

	msc, err := mailparse.NewParser(mailparse.Options{}).OpenMbox(mboxPath)
	if err != nil {
		return err
	}
	mails, err := filter.CollectMail(msc, filter.MailQuery{Keywords: []string{}})
	if err != nil {
		return err
	}
	rep.EmailsKept = len(mails)
	rep.Threads = len(thread.Group(mails))

	out, _ := json.MarshalIndent(rep, "", "  ")
	fmt.Println(string(out))
	return nil
}

func genArchive(n int, rng *rand.Rand) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<en-export export-date=\"20240101T000000Z\" application=\"Evernote\">\n")
	for i := 0; i < n; i++ {
		b.WriteString("  <note>\n")
		fmt.Fprintf(&b, "    <title>%s %05d</title>\n", subjects[rng.Intn(len(subjects))], i)
		b.WriteString("    <content><![CDATA[<en-note>")
		k := 2 + rng.Intn(6)
		for j := 0; j < k; j++ {
			b.WriteString("<div>")
			b.WriteString(sentences[rng.Intn(len(sentences))])
			b.WriteString("</div>")
		}
		b.WriteString("</en-note>]]></content>\n")
		fmt.Fprintf(&b, "    <created>2023%02d%02dT120000Z</created>\n", 1+rng.Intn(12), 1+rng.Intn(28))
		if i%3 == 0 {
			b.WriteString("    <tag>funny</tag>\n")
		}
		b.WriteString("  </note>\n")
	}
	b.WriteString("</en-export>\n")
	return b.String()
}

func genMbox(n int, rng *rand.Rand) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "From commish@leaguehq.com Mon Sep  4 10:%02d:00 2023\n", i%60)
		b.WriteString("From: Commish Dave <dave@leaguehq.com>\n")
		b.WriteString("To: league@leaguehq.com\n")
		subj := subjects[rng.Intn(len(subjects))]
		if i%3 == 1 {
			subj = "Re: " + subj
		}
		fmt.Fprintf(&b, "Subject: %s\n", subj)
		fmt.Fprintf(&b, "Date: Mon, 04 Sep 2023 10:%02d:00 -0400\n", i%60)
		b.WriteString("\n")
		k := 1 + rng.Intn(4)
		for j := 0; j < k; j++ {
			b.WriteString(sentences[rng.Intn(len(sentences))])
			b.WriteString("\n")
		}
		b.WriteString("> quoted reply that the cleaner drops\n")
		b.WriteString("--\n")
		b.WriteString("Dave\n")
		b.WriteString("\n")
	}
	return b.String()
}
