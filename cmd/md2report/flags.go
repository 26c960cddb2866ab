package main

import (
	"fmt"
	"time"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all flags for the md2report command.
type cliFlags struct {
	baseDir   string
	company   string
	languages []string
	sections  string
	css       string
	workers   int
	timeout   time.Duration
	seed      int64
	verbose   bool
	version   bool
}

// parseFlags parses command-line arguments into cliFlags.
// args is the full argument list including the program name.
func parseFlags(args []string) (*cliFlags, error) {
	fs := flag.NewFlagSet("md2report", flag.ContinueOnError)
	f := &cliFlags{}

	fs.StringVarP(&f.baseDir, "base-dir", "d", ".", "report directory containing markdown/ (one subdirectory per language when several are given)")
	fs.StringVarP(&f.company, "company", "c", "", "company name shown on the cover and in the footer")
	fs.StringSliceVarP(&f.languages, "languages", "l", []string{"English"}, "languages to render, one report each")
	fs.StringVar(&f.sections, "sections", "", "YAML file overriding the section order (id/title pairs)")
	fs.StringVar(&f.css, "css", "", "CSS file appended after the built-in style sheet")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel reports (0 = auto from CPU count)")
	fs.DurationVar(&f.timeout, "timeout", 0, "PDF render timeout (0 = default)")
	fs.Int64Var(&f.seed, "chart-seed", 0, "fix chart color randomness (0 = time-seeded)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log pipeline diagnostics to stderr")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	if f.version {
		return f, nil
	}
	if f.company == "" {
		return nil, fmt.Errorf("%w: --company is required", ErrUsage)
	}
	if len(f.languages) == 0 {
		return nil, fmt.Errorf("%w: --languages must name at least one language", ErrUsage)
	}
	return f, nil
}
