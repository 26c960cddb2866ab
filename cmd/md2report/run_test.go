package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLanguageBaseDir(t *testing.T) {
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "Japanese"), 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		language string
		multi    bool
		want     string
	}{
		{"single language, no subdir", "English", false, base},
		{"single language, subdir exists", "Japanese", false, filepath.Join(base, "Japanese")},
		{"multi language always uses subdir", "English", true, filepath.Join(base, "English")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := languageBaseDir(base, tt.language, tt.multi); got != tt.want {
				t.Errorf("languageBaseDir = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadExtraCSS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brand.css")
	if err := os.WriteFile(path, []byte(".brand { color: teal; }"), 0o644); err != nil {
		t.Fatal(err)
	}

	css, err := loadExtraCSS(path)
	if err != nil {
		t.Fatalf("loadExtraCSS: %v", err)
	}
	if css != ".brand { color: teal; }" {
		t.Errorf("css = %q", css)
	}

	if css, err := loadExtraCSS(""); err != nil || css != "" {
		t.Errorf("empty path: css=%q err=%v", css, err)
	}

	if _, err := loadExtraCSS(filepath.Join(t.TempDir(), "nope.css")); err == nil {
		t.Error("missing file accepted")
	}
}
