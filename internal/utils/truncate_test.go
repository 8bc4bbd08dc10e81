package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "returns empty when limit non-positive", input: "hola mundo", limit: 0, expect: ""},
		{name: "shorter than limit", input: "hola", limit: 10, expect: "hola"},
		{name: "truncates and adds ellipsis", input: "evaluación detallada", limit: 10, expect: "evaluación..."},
		{name: "trims surrounding whitespace", input: "  spaced  ", limit: 5, expect: "space..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want int
	}{
		{in: 500, want: 100},
		{in: -20, want: 0},
		{in: 72, want: 72},
		{in: 0, want: 0},
		{in: 100, want: 100},
	}

	for _, tt := range tests {
		if got := Clamp(tt.in, 0, 100); got != tt.want {
			t.Fatalf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
