package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	md2report "github.com/haruda/go-md2report"
	"github.com/haruda/go-md2report/internal/fileutil"
)

// run renders one report per language, drawing services from the pool
// so at most pool.Size() browsers are alive at once.
func run(ctx context.Context, flags *cliFlags, pool *md2report.ServicePool, log *slog.Logger) error {
	order, err := loadSectionOrder(flags.sections)
	if err != nil {
		return err
	}

	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	for _, language := range flags.languages {
		wg.Add(1)
		go func() {
			defer wg.Done()

			svc := pool.Acquire()
			defer pool.Release(svc)

			baseDir := languageBaseDir(flags.baseDir, language, len(flags.languages) > 1)
			path, err := svc.GenerateFromDirectory(ctx, baseDir, flags.company, language, order)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", language, err))
				mu.Unlock()
				return
			}
			log.Info("report written", "language", language, "path", path)
			fmt.Println(path)
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

// languageBaseDir resolves the report directory for one language.
// Multi-language runs keep one subdirectory per language; a single
// language uses the base directory itself unless a matching
// subdirectory exists.
func languageBaseDir(baseDir, language string, multi bool) string {
	sub := filepath.Join(baseDir, language)
	if multi || fileutil.DirExists(sub) {
		return sub
	}
	return baseDir
}

// loadExtraCSS reads the --css file, if any.
func loadExtraCSS(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the --css flag
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(data), nil
}
