package chart

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validBlock = `<GRAPH_JSON>
{
	"type": "bar",
	"title": "Segment Revenue",
	"description": "Revenue by segment, FY2024",
	"source": "Annual report [SS3]",
	"data": {
		"labels": ["Cloud", "Devices"],
		"datasets": [{"label": "FY2024", "data": [120, 80]}]
	}
}
</GRAPH_JSON>`

func TestProcessReplacesBlockWithFigure(t *testing.T) {
	dir := t.TempDir()
	engine := NewEngine(WithSeed(1))

	md := "# Section\n\nIntro text.\n\n" + validBlock + "\n\nClosing text.\n"
	out, err := engine.Process(md, dir)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if strings.Contains(out, "<GRAPH_JSON>") {
		t.Error("output still contains a chart block")
	}
	if !strings.Contains(out, `<figure class="graph-figure" data-graph-type="bar">`) {
		t.Errorf("output missing figure element:\n%s", out)
	}
	if !strings.Contains(out, "<figcaption>Revenue by segment, FY2024</figcaption>") {
		t.Error("output missing figcaption")
	}
	if !strings.Contains(out, "Intro text.") || !strings.Contains(out, "Closing text.") {
		t.Error("surrounding Markdown was not preserved")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d files in graphs dir, want 1", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "graph_bar_") || !strings.HasSuffix(name, ".png") {
		t.Errorf("image name = %q, want graph_bar_<hash>.png", name)
	}
	if !strings.Contains(out, `src="graphs/`+name+`"`) {
		t.Errorf("figure src does not reference %q", name)
	}
}

func TestProcessStripsCitationMarkers(t *testing.T) {
	dir := t.TempDir()
	out, err := NewEngine(WithSeed(1)).Process(validBlock, dir)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if strings.Contains(out, "[SS3]") {
		t.Error("citation marker survived in source line")
	}
	if !strings.Contains(out, `<p class="graph-source">Annual report</p>`) {
		t.Errorf("output missing cleaned source line:\n%s", out)
	}
}

func TestProcessFileNameIgnoresKeyOrder(t *testing.T) {
	a := `<GRAPH_JSON>{"type":"pie","data":{"labels":["A"],"datasets":[{"data":[1]}]}}</GRAPH_JSON>`
	b := `<GRAPH_JSON>{"data":{"datasets":[{"data":[1]}],"labels":["A"]},"type":"pie"}</GRAPH_JSON>`

	dirA, dirB := t.TempDir(), t.TempDir()
	if _, err := NewEngine(WithSeed(1)).Process(a, dirA); err != nil {
		t.Fatal(err)
	}
	if _, err := NewEngine(WithSeed(1)).Process(b, dirB); err != nil {
		t.Fatal(err)
	}

	nameIn := func(dir string) string {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) != 1 {
			t.Fatalf("reading %s: err=%v entries=%d", dir, err, len(entries))
		}
		return entries[0].Name()
	}
	if na, nb := nameIn(dirA), nameIn(dirB); na != nb {
		t.Errorf("key order changed the image name: %q vs %q", na, nb)
	}
}

func TestProcessReusesExistingImage(t *testing.T) {
	dir := t.TempDir()
	engine := NewEngine(WithSeed(1))

	if _, err := engine.Process(validBlock, dir); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(dir)
	path := filepath.Join(dir, entries[0].Name())

	// Overwrite with a sentinel; a second run must not re-render.
	if err := os.WriteFile(path, []byte("sentinel"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Process(validBlock, dir); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "sentinel" {
		t.Error("existing image was re-rendered")
	}
}

func TestProcessDropsInvalidBlocks(t *testing.T) {
	tests := []struct {
		name  string
		block string
	}{
		{
			name:  "malformed JSON",
			block: `<GRAPH_JSON>{"type": "bar", "data":</GRAPH_JSON>`,
		},
		{
			name:  "missing datasets",
			block: `<GRAPH_JSON>{"type":"bar","data":{"labels":["A"]}}</GRAPH_JSON>`,
		},
		{
			name:  "placeholder values",
			block: `<GRAPH_JSON>{"type":"bar","data":{"labels":["A"],"datasets":[{"data":["[VALUE_1]"]}]}}</GRAPH_JSON>`,
		},
		{
			name:  "unsupported type",
			block: `<GRAPH_JSON>{"type":"bubble","data":{"labels":["A"],"datasets":[{"data":[1]}]}}</GRAPH_JSON>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			out, err := NewEngine(WithSeed(1)).Process("before\n"+tt.block+"\nafter", dir)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if !strings.Contains(out, "<!-- chart removed:") {
				t.Errorf("output missing removal comment:\n%s", out)
			}
			if strings.Contains(out, "<figure") {
				t.Error("invalid block still produced a figure")
			}
			if !strings.Contains(out, "before") || !strings.Contains(out, "after") {
				t.Error("surrounding text was not preserved")
			}
		})
	}
}

func TestProcessMultipleBlocks(t *testing.T) {
	dir := t.TempDir()
	md := validBlock + "\n\nmiddle\n\n" +
		`<GRAPH_JSON>{"type":"line","data":{"labels":["Q1","Q2"],"datasets":[{"label":"S","data":[1,2]}]}}</GRAPH_JSON>`
	out, err := NewEngine(WithSeed(1)).Process(md, dir)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got := strings.Count(out, "<figure"); got != 2 {
		t.Errorf("got %d figures, want 2", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("got %d images, want 2", len(entries))
	}
}

func TestProcessWithoutBlocksLeavesMarkdownAlone(t *testing.T) {
	md := "# Plain\n\nNo charts here.\n"
	out, err := NewEngine().Process(md, filepath.Join(t.TempDir(), "never-created"))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if out != md {
		t.Errorf("Process() = %q, want input unchanged", out)
	}
}

func TestProcessCaseInsensitiveTags(t *testing.T) {
	dir := t.TempDir()
	md := `<graph_json>{"type":"bar","data":{"labels":["A"],"datasets":[{"data":[1]}]}}</graph_json>`
	out, err := NewEngine(WithSeed(1)).Process(md, dir)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !strings.Contains(out, "<figure") {
		t.Errorf("lowercase tags were not matched:\n%s", out)
	}
}
