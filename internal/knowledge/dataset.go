package knowledge

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed fallback.yaml
var fallbackYAML []byte

// Dataset is an immutable in-memory corpus. It serves reads when the durable
// store is unavailable and seeds an empty store.
type Dataset struct {
	items []Item
}

type datasetFile struct {
	Items []datasetEntry `yaml:"items"`
}

type datasetEntry struct {
	ID       string   `yaml:"id"`
	Category string   `yaml:"category"`
	Question string   `yaml:"question"`
	Answer   string   `yaml:"answer"`
	Keywords []string `yaml:"keywords"`
	Phase    *int     `yaml:"phase"`
	Active   *bool    `yaml:"active"`
}

// LoadDataset parses the embedded fallback corpus.
func LoadDataset() (*Dataset, error) {
	return ParseDataset(fallbackYAML)
}

// ParseDataset parses a YAML corpus. Entries are active unless stated otherwise.
func ParseDataset(data []byte) (*Dataset, error) {
	var file datasetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse knowledge dataset: %w", err)
	}

	items := make([]Item, 0, len(file.Items))
	seen := make(map[string]struct{}, len(file.Items))
	for i, entry := range file.Items {
		item := Item{
			ID:       strings.TrimSpace(entry.ID),
			Category: strings.TrimSpace(entry.Category),
			Question: strings.TrimSpace(entry.Question),
			Answer:   strings.TrimSpace(entry.Answer),
			Keywords: NormalizeKeywords(entry.Keywords),
			Phase:    entry.Phase,
			Active:   entry.Active == nil || *entry.Active,
		}
		if item.ID == "" {
			item.ID = fmt.Sprintf("dataset-%03d", i+1)
		}
		if _, ok := seen[item.ID]; ok {
			return nil, fmt.Errorf("parse knowledge dataset: duplicate id %q", item.ID)
		}
		seen[item.ID] = struct{}{}
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("parse knowledge dataset: entry %q: %w", item.ID, err)
		}
		items = append(items, item)
	}

	return &Dataset{items: items}, nil
}

// Items returns a copy of the corpus in file order.
func (d *Dataset) Items() []Item {
	if d == nil {
		return nil
	}
	result := make([]Item, len(d.items))
	for i, item := range d.items {
		item.Keywords = append([]string(nil), item.Keywords...)
		if item.Phase != nil {
			phase := *item.Phase
			item.Phase = &phase
		}
		result[i] = item
	}
	return result
}

func (d *Dataset) Search(_ context.Context, query string, filter Filter, limit int) ([]Match, error) {
	return Rank(query, d.Items(), filter, limit), nil
}

func (d *Dataset) ByCategory(_ context.Context, category string) ([]Item, error) {
	return Select(d.Items(), Filter{Category: category}), nil
}

func (d *Dataset) ByPhase(_ context.Context, phase int) ([]Item, error) {
	return Select(d.Items(), Filter{Phase: &phase}), nil
}
