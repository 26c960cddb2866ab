package md2report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Example demonstrates generating a report from a directory of section
// Markdown files. The PDF step is replaced with a stub here; real use
// needs Chrome available for the headless renderer.
func Example() {
	base, err := os.MkdirTemp("", "report")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(base)

	markdownDir := filepath.Join(base, "markdown")
	if err := os.MkdirAll(markdownDir, 0o755); err != nil {
		fmt.Println("error:", err)
		return
	}
	overview := "A short look at the company.\n\n## Highlights\n\nSteady growth.\n"
	if err := os.WriteFile(filepath.Join(markdownDir, "overview.md"), []byte(overview), 0o644); err != nil {
		fmt.Println("error:", err)
		return
	}

	svc := New(WithChartSeed(1))
	defer svc.Close()
	svc.pdf = &fakePDF{} // real use: leave the default headless Chrome renderer

	path, err := svc.GenerateFromDirectory(context.Background(), base, "Acme Corp", "English",
		[]SectionRef{{ID: "overview", Title: "Overview"}})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(filepath.Base(path))
	// Output: Acme_Corp_English_Report.pdf
}
