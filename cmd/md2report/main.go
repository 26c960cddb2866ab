package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"

	md2report "github.com/haruda/go-md2report"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	flags, err := parseFlags(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
	if flags.version {
		fmt.Println("md2report " + Version)
		return
	}

	log := newLogger(flags.verbose)

	// Error ignored: maxprocs.Set only fails on an invalid GOMAXPROCS
	// env value, in which case runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Debug(fmt.Sprintf(format, args...))
	}))

	opts := []md2report.Option{md2report.WithLogger(log)}
	if flags.timeout > 0 {
		opts = append(opts, md2report.WithTimeout(flags.timeout))
	}
	if flags.seed != 0 {
		opts = append(opts, md2report.WithChartSeed(flags.seed))
	}
	if css, err := loadExtraCSS(flags.css); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	} else if css != "" {
		opts = append(opts, md2report.WithExtraCSS(css))
	}

	poolSize := md2report.ResolvePoolSize(flags.workers)
	if poolSize > len(flags.languages) {
		poolSize = len(flags.languages)
	}
	log.Debug("worker pool sized", "size", poolSize)

	pool := md2report.NewServicePool(poolSize, opts...)
	defer pool.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flags, pool, log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		// os.Exit skips deferred calls, so release the browsers here.
		_ = pool.Close()
		os.Exit(exitCodeFor(err))
	}
}

// newLogger builds the CLI logger: debug-level text on stderr when
// verbose, warnings and errors otherwise.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
