package place

import (
	"slices"
	"testing"
)

func collect(s diameterSearch) []int {
	var vals []int
	for !s.done() {
		vals = append(vals, s.get())
		s.next()
	}
	return vals
}

func TestDiameterSearchFromCentre(t *testing.T) {
	got := collect(newDiameterSearch(3, 0, 6))
	want := []int{3, 4, 2, 5, 1, 6, 0}
	if !slices.Equal(got, want) {
		t.Errorf("sequence = %v, want %v", got, want)
	}
}

func TestDiameterSearchSkipsOutOfRangeAtEdges(t *testing.T) {
	tests := []struct {
		name             string
		start, min, max  int
		want             []int
	}{
		{"low edge", 0, 0, 3, []int{0, 1, 2, 3}},
		{"high edge", 3, 0, 3, []int{3, 2, 1, 0}},
		{"near high edge", 2, 0, 3, []int{2, 3, 1, 0}},
		{"asymmetric range", 2, 0, 4, []int{2, 3, 1, 4, 0}},
		{"single value range", 5, 5, 5, []int{5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(newDiameterSearch(tt.start, tt.min, tt.max))
			if !slices.Equal(got, tt.want) {
				t.Errorf("sequence = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiameterSearchNoDuplicates(t *testing.T) {
	for start := 0; start < 8; start++ {
		got := collect(newDiameterSearch(start, 0, 7))
		if len(got) != 8 {
			t.Fatalf("start %d: emitted %d values %v, want all 8", start, len(got), got)
		}
		seen := map[int]bool{}
		for _, v := range got {
			if v < 0 || v > 7 {
				t.Fatalf("start %d: value %d escapes [0, 7]", start, v)
			}
			if seen[v] {
				t.Fatalf("start %d: duplicate value %d in %v", start, v, got)
			}
			seen[v] = true
		}
	}
}

func TestFixedSearchEmitsOnce(t *testing.T) {
	got := collect(newFixedSearch(9))
	if !slices.Equal(got, []int{9}) {
		t.Errorf("fixed sequence = %v, want [9]", got)
	}
}

func TestDiameterSearchReset(t *testing.T) {
	s := newDiameterSearch(1, 0, 3)
	first := collect(s)
	s.next()
	s.next()
	s.reset()
	second := collect(s)
	if !slices.Equal(first, second) {
		t.Errorf("reset should restart the sequence: %v vs %v", first, second)
	}
}
