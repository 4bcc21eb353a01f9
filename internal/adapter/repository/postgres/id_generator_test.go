package postgres

import (
	"sort"
	"testing"
)

func TestULIDGeneratorMonotonic(t *testing.T) {
	gen := NewULIDGenerator()

	ids := make([]string, 100)
	for i := range ids {
		ids[i] = gen.Generate()
	}

	if !sort.StringsAreSorted(ids) {
		t.Fatal("expected IDs to sort in creation order")
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ID %s", id)
		}
		seen[id] = struct{}{}
	}
}
