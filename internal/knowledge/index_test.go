package knowledge

import (
	"testing"
)

func intPtr(v int) *int { return &v }

func rankingCorpus() []Item {
	return []Item{
		{ID: "C", Category: "Plataforma", Question: "¿Cómo publicar una vacante?", Answer: "Desde el panel.", Keywords: []string{"vacante"}, Active: true},
		{ID: "B", Category: "Entrevistas", Question: "Guía de entrevista técnica para backend", Answer: "Incluye un caso práctico.", Keywords: []string{"técnica"}, Phase: intPtr(3), Active: true},
		{ID: "A", Category: "Entrevistas", Question: "¿Quién participa?", Answer: "El líder del área.", Keywords: []string{"entrevista", "técnica"}, Phase: intPtr(2), Active: true},
	}
}

func TestRankOrdersByScore(t *testing.T) {
	matches := Rank("Entrevista Técnica", rankingCorpus(), Filter{}, 0)

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(matches), matches)
	}
	if matches[0].Item.ID != "A" || matches[0].Score != 6 {
		t.Fatalf("expected A with 6, got %s with %d", matches[0].Item.ID, matches[0].Score)
	}
	if matches[1].Item.ID != "B" || matches[1].Score != 5 {
		t.Fatalf("expected B with 5, got %s with %d", matches[1].Item.ID, matches[1].Score)
	}
}

func TestRankTiesKeepCorpusOrder(t *testing.T) {
	items := []Item{
		{ID: "first", Question: "q", Answer: "a", Keywords: []string{"pdf"}, Active: true},
		{ID: "second", Question: "q", Answer: "a", Keywords: []string{"pdf"}, Active: true},
		{ID: "third", Question: "q", Answer: "a", Keywords: []string{"pdf"}, Active: true},
	}

	matches := Rank("pdf", items, Filter{}, 2)

	if len(matches) != 2 || matches[0].Item.ID != "first" || matches[1].Item.ID != "second" {
		t.Fatalf("unexpected order %+v", matches)
	}
}

func TestRankSkipsInactiveAndBlankQuery(t *testing.T) {
	items := []Item{{ID: "x", Question: "entrevista", Keywords: []string{"entrevista"}, Active: false}}

	if got := Rank("entrevista", items, Filter{}, 3); len(got) != 0 {
		t.Fatalf("expected inactive item to be skipped, got %+v", got)
	}
	if got := Rank("   ", rankingCorpus(), Filter{}, 3); got != nil {
		t.Fatalf("expected nil for blank query, got %+v", got)
	}
}

func TestRankWithFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "no filter", filter: Filter{}, want: []string{"A", "B"}},
		{name: "category case insensitive", filter: Filter{Category: "entrevistas"}, want: []string{"A", "B"}},
		{name: "phase", filter: Filter{Phase: intPtr(3)}, want: []string{"B"}},
		{name: "category and phase", filter: Filter{Category: "Entrevistas", Phase: intPtr(2)}, want: []string{"A"}},
		{name: "unknown category", filter: Filter{Category: "Nómina"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			matches := Rank("entrevista técnica", rankingCorpus(), tt.filter, 10)
			if len(matches) != len(tt.want) {
				t.Fatalf("expected %v, got %+v", tt.want, matches)
			}
			for i, id := range tt.want {
				if matches[i].Item.ID != id {
					t.Fatalf("expected %v, got %+v", tt.want, matches)
				}
			}
		})
	}
}

func TestScoreWeights(t *testing.T) {
	item := Item{Question: "Preparar la entrevista", Answer: "Revisa la entrevista y el CV", Keywords: []string{"Entrevista", "cv"}}

	if got := Score("entrevista", item); got != 3+2+1 {
		t.Fatalf("expected 6, got %d", got)
	}
	if got := Score("", item); got != 0 {
		t.Fatalf("expected 0 for empty query, got %d", got)
	}
}

func TestSelect(t *testing.T) {
	items := append(rankingCorpus(), Item{ID: "D", Category: "Entrevistas", Active: false})

	got := Select(items, Filter{Category: "Entrevistas"})
	if len(got) != 2 || got[0].ID != "B" || got[1].ID != "A" {
		t.Fatalf("unexpected selection %+v", got)
	}
}
