// bench_slo.go — SLO benchmark for the extraction pipelines.
// Run: go run ./scripts/bench --notes export.enex --mail league.mbox [--iterations N]
//
// Generates a JSON report with p50/p95/p99 latencies per pipeline pass.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ZB56/VLM-humor/internal/enex"
	"github.com/ZB56/VLM-humor/internal/filter"
	"github.com/ZB56/VLM-humor/internal/mailparse"
)

type BenchResult struct {
	Pipeline   string  `json:"pipeline"`
	Iterations int     `json:"iterations"`
	Records    int     `json:"records"`
	P50Ms      float64 `json:"p50_ms"`
	P95Ms      float64 `json:"p95_ms"`
	P99Ms      float64 `json:"p99_ms"`
	MinMs      float64 `json:"min_ms"`
	MaxMs      float64 `json:"max_ms"`
	MeanMs     float64 `json:"mean_ms"`
	Pass       bool    `json:"pass"`
	SLOMs      float64 `json:"slo_ms"`
}

type BenchReport struct {
	GeneratedAt string        `json:"generated_at"`
	NotesPath   string        `json:"notes_path,omitempty"`
	MailPath    string        `json:"mail_path,omitempty"`
	Results     []BenchResult `json:"results"`
	AllPass     bool          `json:"all_pass"`
}

func main() {
	notesPath := flag.String("notes", "", "Path to an .enex archive or directory to benchmark")
	mailPath := flag.String("mail", "", "Path to an mbox or message directory to benchmark")
	pattern := flag.String("pattern", "", "Glob for message files when --mail is a directory")
	iterations := flag.Int("iterations", 20, "Number of iterations per benchmark")
	outFile := flag.String("out", "", "Output JSON file (default: stdout)")
	flag.Parse()

	if *notesPath == "" && *mailPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: bench_slo --notes export.enex and/or --mail league.mbox")
		os.Exit(1)
	}

	report := BenchReport{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		NotesPath:   *notesPath,
		MailPath:    *mailPath,
		AllPass:     true,
	}

	fmt.Fprintf(os.Stderr, "Extraction SLO Benchmark\n")
	fmt.Fprintf(os.Stderr, "  Iterations: %d\n\n", *iterations)

	if *notesPath != "" {
		times, records := benchmarkNotes(*notesPath, *iterations)
		r := computeResult("extract_notes", times, records, 2000)
		report.Results = append(report.Results, r)
		if !r.Pass {
			report.AllPass = false
		}
	}

	if *mailPath != "" {
		times, records := benchmarkMail(*mailPath, *pattern, *iterations)
		r := computeResult("extract_mail", times, records, 2000)
		report.Results = append(report.Results, r)
		if !r.Pass {
			report.AllPass = false
		}
	}

	for _, r := range report.Results {
		status := "✅ PASS"
		if !r.Pass {
			status = "❌ FAIL"
		}
		fmt.Fprintf(os.Stderr, "  %s: %d records, p50=%.1fms p95=%.1fms p99=%.1fms (SLO: %.0fms) %s\n",
			r.Pipeline, r.Records, r.P50Ms, r.P95Ms, r.P99Ms, r.SLOMs, status)
	}

	if report.AllPass {
		fmt.Fprintf(os.Stderr, "\n✅ All SLOs met\n")
	} else {
		fmt.Fprintf(os.Stderr, "\n❌ Some SLOs missed\n")
	}

	jsonBytes, _ := json.MarshalIndent(report, "", "  ")
	if *outFile != "" {
		os.WriteFile(*outFile, jsonBytes, 0o644)
		fmt.Fprintf(os.Stderr, "\nReport written to %s\n", *outFile)
	} else {
		fmt.Println(string(jsonBytes))
	}
}

func benchmarkNotes(path string, iterations int) ([]float64, int) {
	p := enex.NewParser(enex.Options{})
	var times []float64
	records := 0
	for i := 0; i < iterations; i++ {
		start := time.Now()
		sc, err := p.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", path, err)
			os.Exit(1)
		}
		notes, err := filter.CollectNotes(sc, filter.NoteQuery{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
			os.Exit(1)
		}
		times = append(times, float64(time.Since(start).Microseconds())/1000.0)
		records = len(notes)
	}
	return times, records
}

func benchmarkMail(path, pattern string, iterations int) ([]float64, int) {
	p := mailparse.NewParser(mailparse.Options{})
	var times []float64
	records := 0
	for i := 0; i < iterations; i++ {
		start := time.Now()
		sc, err := p.Open(path, pattern)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", path, err)
			os.Exit(1)
		}
		mails, err := filter.CollectMail(sc, filter.MailQuery{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
			os.Exit(1)
		}
		times = append(times, float64(time.Since(start).Microseconds())/1000.0)
		records = len(mails)
	}
	return times, records
}

func computeResult(name string, times []float64, records int, sloMs float64) BenchResult {
	sort.Float64s(times)
	n := len(times)
	if n == 0 {
		return BenchResult{Pipeline: name, SLOMs: sloMs}
	}

	sum := 0.0
	for _, t := range times {
		sum += t
	}

	p95 := times[int(float64(n)*0.95)]
	return BenchResult{
		Pipeline:   name,
		Iterations: n,
		Records:    records,
		P50Ms:      times[n/2],
		P95Ms:      p95,
		P99Ms:      times[int(float64(n)*0.99)],
		MinMs:      times[0],
		MaxMs:      times[n-1],
		MeanMs:     sum / float64(n),
		SLOMs:      sloMs,
		Pass:       p95 <= sloMs,
	}
}
