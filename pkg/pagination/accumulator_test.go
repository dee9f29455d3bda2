package pagination

import (
	"testing"
)

func TestAccumulator_Apply(t *testing.T) {
	tests := []struct {
		name     string
		pages    []PageResult
		expected []string
	}{
		{
			name:     "first page",
			pages:    []PageResult{{Entries: makeEntries("a", 2), Page: 1, TotalPages: 3}},
			expected: []string{"a-1", "a-2"},
		},
		{
			name: "continuation appends in order",
			pages: []PageResult{
				{Entries: makeEntries("a", 2), Page: 1, TotalPages: 3},
				{Entries: makeEntries("b", 2), Page: 2, TotalPages: 3},
			},
			expected: []string{"a-1", "a-2", "b-1", "b-2"},
		},
		{
			name: "page one replaces",
			pages: []PageResult{
				{Entries: makeEntries("a", 2), Page: 1, TotalPages: 3},
				{Entries: makeEntries("b", 2), Page: 2, TotalPages: 3},
				{Entries: makeEntries("c", 1), Page: 1, TotalPages: 1},
			},
			expected: []string{"c-1"},
		},
		{
			name: "duplicates are kept",
			pages: []PageResult{
				{Entries: makeEntries("a", 1), Page: 1, TotalPages: 2},
				{Entries: makeEntries("a", 1), Page: 2, TotalPages: 2},
			},
			expected: []string{"a-1", "a-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := NewAccumulator()
			for _, page := range tt.pages {
				acc.Apply(page)
			}

			got := acc.Entries()
			if len(got) != len(tt.expected) {
				t.Fatalf("Len = %d, want %d", len(got), len(tt.expected))
			}
			for i, want := range tt.expected {
				if got[i].Description != want {
					t.Errorf("entry %d = %q, want %q", i, got[i].Description, want)
				}
			}
		})
	}
}

func TestAccumulator_EntriesIsCopy(t *testing.T) {
	acc := NewAccumulator()
	acc.Apply(PageResult{Entries: makeEntries("a", 1), Page: 1, TotalPages: 1})

	got := acc.Entries()
	got[0].Description = "changed"

	if acc.Entries()[0].Description != "a-1" {
		t.Error("Entries must return a copy")
	}
}

func TestAccumulator_Reset(t *testing.T) {
	acc := NewAccumulator()
	acc.Apply(PageResult{Entries: makeEntries("a", 3), Page: 1, TotalPages: 1})
	acc.Reset()

	if acc.Len() != 0 {
		t.Errorf("Len after Reset = %d, want 0", acc.Len())
	}
}
