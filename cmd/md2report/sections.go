package main

import (
	"fmt"
	"os"

	md2report "github.com/haruda/go-md2report"
	"github.com/haruda/go-md2report/internal/yamlutil"
)

// defaultSectionOrder is the built-in report structure: the chapters of
// a company research report, in reading order. A --sections file
// replaces it wholesale.
var defaultSectionOrder = []md2report.SectionRef{
	{ID: "basic", Title: "Basic Information"},
	{ID: "vision", Title: "Vision Analysis"},
	{ID: "management_strategy", Title: "Management Strategy"},
	{ID: "management_message", Title: "Management Message"},
	{ID: "crisis", Title: "Crisis Management"},
	{ID: "digital_transformation", Title: "Digital Transformation Analysis"},
	{ID: "financial", Title: "Financial Analysis"},
	{ID: "competitive", Title: "Competitive Landscape"},
	{ID: "regulatory", Title: "Regulatory Environment"},
	{ID: "business_structure", Title: "Business Structure"},
	{ID: "strategy_research", Title: "Strategy Research"},
}

// sectionsConfig is the schema of a --sections YAML file.
type sectionsConfig struct {
	Sections []sectionEntry `yaml:"sections"`
}

type sectionEntry struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
}

// loadSectionOrder returns the section order to use: the parsed config
// file when path is given, the built-in default otherwise. Unknown keys
// in the file are rejected so typos surface instead of silently
// dropping a section.
func loadSectionOrder(path string) ([]md2report.SectionRef, error) {
	if path == "" {
		return defaultSectionOrder, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the --sections flag
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadSections, err)
	}

	var cfg sectionsConfig
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadSections, err)
	}
	if len(cfg.Sections) == 0 {
		return nil, fmt.Errorf("%w: %s lists no sections", ErrReadSections, path)
	}

	order := make([]md2report.SectionRef, 0, len(cfg.Sections))
	for i, entry := range cfg.Sections {
		if entry.ID == "" {
			return nil, fmt.Errorf("%w: section %d in %s has no id", ErrReadSections, i, path)
		}
		title := entry.Title
		if title == "" {
			title = entry.ID
		}
		order = append(order, md2report.SectionRef{ID: entry.ID, Title: title})
	}
	return order, nil
}
