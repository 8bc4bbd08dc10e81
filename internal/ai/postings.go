package ai

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type postingsFile struct {
	Postings []postingEntry `yaml:"postings"`
}

type postingEntry struct {
	ID                  string `yaml:"id"`
	Title               string `yaml:"title"`
	Department          string `yaml:"department"`
	Location            string `yaml:"location"`
	Requirements        string `yaml:"requirements"`
	Responsibilities    string `yaml:"responsibilities"`
	InterviewGuidelines string `yaml:"interview_guidelines"`
	Active              *bool  `yaml:"active"`
}

// DecodePostings reads a YAML document with a top-level "postings" list.
// Entries without an explicit active flag are active.
func DecodePostings(data []byte) ([]JobPosting, error) {
	var file postingsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode postings: %w", err)
	}

	postings := make([]JobPosting, 0, len(file.Postings))
	for i, entry := range file.Postings {
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			return nil, fmt.Errorf("posting %d: title is required", i+1)
		}

		active := true
		if entry.Active != nil {
			active = *entry.Active
		}

		postings = append(postings, JobPosting{
			ID:                  strings.TrimSpace(entry.ID),
			Title:               title,
			Department:          entry.Department,
			Location:            entry.Location,
			Requirements:        entry.Requirements,
			Responsibilities:    entry.Responsibilities,
			InterviewGuidelines: entry.InterviewGuidelines,
			Active:              active,
		})
	}

	return postings, nil
}
