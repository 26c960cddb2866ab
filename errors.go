package md2report

import "errors"

// Sentinel errors for library operations.
var (
	// Precondition violations, reported before any processing starts.
	ErrBaseDirMissing = errors.New("base directory does not exist")
	ErrNoSections     = errors.New("no sections to process")

	// Document-fatal failures. The caller gets "no PDF produced";
	// the final render step additionally leaves a debug HTML file.
	ErrNoContent      = errors.New("no non-empty sections found")
	ErrTemplateRender = errors.New("document template rendering failed")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrWritePDF       = errors.New("failed to write PDF file")

	// Browser failures.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
)
