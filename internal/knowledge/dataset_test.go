package knowledge

import (
	"context"
	"errors"
	"testing"
)

func TestLoadDatasetEmbedded(t *testing.T) {
	dataset, err := LoadDataset()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := dataset.Items()
	if len(items) == 0 {
		t.Fatal("expected embedded items")
	}

	for _, item := range items {
		if !item.Active {
			t.Fatalf("expected item %s to be active", item.ID)
		}
		if err := item.Validate(); err != nil {
			t.Fatalf("invalid item %s: %v", item.ID, err)
		}
	}
}

func TestDatasetItemsReturnsCopy(t *testing.T) {
	dataset, err := LoadDataset()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := dataset.Items()
	if items[0].Phase == nil {
		t.Fatal("expected the first dataset entry to carry a phase")
	}
	phase := *items[0].Phase

	items[0].Question = "mutated"
	items[0].Keywords[0] = "mutated"
	*items[0].Phase = phase + 100

	again := dataset.Items()
	if again[0].Question == "mutated" || again[0].Keywords[0] == "mutated" {
		t.Fatal("dataset must not be mutable through Items")
	}
	if *again[0].Phase != phase {
		t.Fatalf("dataset phase changed through Items: got %d, want %d", *again[0].Phase, phase)
	}
}

func TestDatasetReads(t *testing.T) {
	dataset, err := LoadDataset()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	matches, err := dataset.Search(ctx, "interview", Filter{}, 3)
	if err != nil || len(matches) == 0 {
		t.Fatalf("expected matches, got %v (%v)", matches, err)
	}

	byCategory, _ := dataset.ByCategory(ctx, "entrevistas")
	if len(byCategory) == 0 {
		t.Fatal("expected items for category")
	}

	byPhase, _ := dataset.ByPhase(ctx, 2)
	for _, item := range byPhase {
		if item.Phase == nil || *item.Phase != 2 {
			t.Fatalf("unexpected phase for %s", item.ID)
		}
	}
	if len(byPhase) == 0 {
		t.Fatal("expected items for phase 2")
	}
}

func TestParseDataset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr error
		count   int
	}{
		{
			name:  "defaults",
			data:  "items:\n  - category: A\n    question: Q\n    answer: R\n    keywords: [' Uno ', uno, DOS]\n  - category: B\n    question: Q2\n    answer: R2\n    active: false\n",
			count: 2,
		},
		{name: "missing answer", data: "items:\n  - category: A\n    question: Q\n", wantErr: ErrInvalidItem},
		{name: "duplicate id", data: "items:\n  - {id: x, category: A, question: Q, answer: R}\n  - {id: x, category: A, question: Q, answer: R}\n"},
		{name: "malformed", data: "items: [", count: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dataset, err := ParseDataset([]byte(tt.data))
			if tt.count <= 0 {
				if err == nil {
					t.Fatal("expected error")
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			items := dataset.Items()
			if len(items) != tt.count {
				t.Fatalf("expected %d items, got %d", tt.count, len(items))
			}
			if items[0].ID != "dataset-001" || !items[0].Active || items[1].Active {
				t.Fatalf("unexpected defaults %+v", items)
			}
			if len(items[0].Keywords) != 2 || items[0].Keywords[0] != "uno" || items[0].Keywords[1] != "dos" {
				t.Fatalf("unexpected keywords %v", items[0].Keywords)
			}
		})
	}
}
