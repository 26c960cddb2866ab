package main

import (
	"errors"
	"os"

	md2report "github.com/haruda/go-md2report"
)

// CLI sentinel errors.
var (
	ErrUsage        = errors.New("invalid usage")
	ErrReadSections = errors.New("failed to read sections file")
	ErrReadCSS      = errors.New("failed to read CSS file")
)

// Exit codes follow Unix conventions: 0=success, 1=general, 2=usage.
const (
	ExitSuccess = 0
	ExitGeneral = 1
	ExitUsage   = 2
	ExitIO      = 3
	ExitBrowser = 4
)

// exitCodeFor maps an error to the process exit code. Wrapped errors
// are matched with errors.Is, so all error paths wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, md2report.ErrBrowserConnect) ||
		errors.Is(err, md2report.ErrPageCreate) ||
		errors.Is(err, md2report.ErrPageLoad) ||
		errors.Is(err, md2report.ErrPDFGeneration) {
		return ExitBrowser
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, md2report.ErrBaseDirMissing) ||
		errors.Is(err, md2report.ErrNoContent) ||
		errors.Is(err, md2report.ErrWritePDF) ||
		errors.Is(err, ErrReadSections) ||
		errors.Is(err, ErrReadCSS) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, md2report.ErrNoSections) {
		return ExitUsage
	}

	return ExitGeneral
}
