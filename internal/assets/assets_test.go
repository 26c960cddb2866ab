package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadStyle(t *testing.T) {
	css, err := LoadStyle("report")
	if err != nil {
		t.Fatalf("LoadStyle(report) error = %v", err)
	}
	if !strings.Contains(css, ".graph-figure") {
		t.Error("report style missing .graph-figure rule")
	}
	if !strings.Contains(css, ".toc-entry") {
		t.Error("report style missing .toc-entry rule")
	}
}

func TestLoadStyleNotFound(t *testing.T) {
	_, err := LoadStyle("nonexistent")
	if !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(nonexistent) = %v, want ErrStyleNotFound", err)
	}
}

func TestLoadTemplate(t *testing.T) {
	tmpl, err := LoadTemplate("report")
	if err != nil {
		t.Fatalf("LoadTemplate(report) error = %v", err)
	}
	for _, want := range []string{"{{.Company}}", "{{.TOC}}", "{{range .Sections}}", "section-cover"} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("report template missing %q", want)
		}
	}
}

func TestValidateAssetName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "report", false},
		{"hyphenated", "report-dark", false},
		{"empty", "", true},
		{"dot", "report.css", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"traversal", "..", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAssetName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAssetName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("error %v is not ErrInvalidAssetName", err)
			}
		})
	}
}
