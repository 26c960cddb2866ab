package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	md2report "github.com/haruda/go-md2report"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitGeneral},
		{"usage", ErrUsage, ExitUsage},
		{"no sections", md2report.ErrNoSections, ExitUsage},
		{"base dir missing", md2report.ErrBaseDirMissing, ExitIO},
		{"no content", md2report.ErrNoContent, ExitIO},
		{"write pdf", md2report.ErrWritePDF, ExitIO},
		{"sections file", ErrReadSections, ExitIO},
		{"css file", ErrReadCSS, ExitIO},
		{"file not found", os.ErrNotExist, ExitIO},
		{"browser connect", md2report.ErrBrowserConnect, ExitBrowser},
		{"pdf generation", md2report.ErrPDFGeneration, ExitBrowser},
		{"wrapped", fmt.Errorf("English: %w", md2report.ErrBaseDirMissing), ExitIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
