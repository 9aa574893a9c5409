package drafts

import (
	"errors"
	"testing"

	"github.com/samvaad/backend/internal/storage/kv"
)

func TestCreateAndGet(t *testing.T) {
	store := NewStore(kv.NewMemory())

	created, err := store.Create("Zoning Update", "2025-03-01", "Rezoning of the north district")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created draft has zero ID")
	}

	got, err := store.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Zoning Update" || got.Date != "2025-03-01" {
		t.Fatalf("got %+v, want the created draft back", got)
	}
}

func TestGetUnknownDraft(t *testing.T) {
	store := NewStore(kv.NewMemory())

	if _, err := store.Get(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(999) error = %v, want ErrNotFound", err)
	}
}

func TestCreateIDsStrictlyIncreasing(t *testing.T) {
	store := NewStore(kv.NewMemory())

	var prev int64
	for i := 0; i < 5; i++ {
		d, err := store.Create("Draft", "2025-03-01", "")
		if err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
		if d.ID <= prev {
			t.Fatalf("ID %d not greater than previous %d", d.ID, prev)
		}
		prev = d.ID
	}
}

func TestListReturnsAllInOrder(t *testing.T) {
	store := NewStore(kv.NewMemory())

	first, _ := store.Create("First", "2025-03-01", "")
	second, _ := store.Create("Second", "2025-03-02", "")

	all, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d drafts, want 2", len(all))
	}
	if all[0].ID != first.ID || all[1].ID != second.ID {
		t.Fatalf("list order = %d, %d, want creation order %d, %d",
			all[0].ID, all[1].ID, first.ID, second.ID)
	}
}

func TestSearchMatchesTitleAndDescription(t *testing.T) {
	store := NewStore(kv.NewMemory())
	store.Create("Zoning Update", "2025-03-01", "North district")
	store.Create("Budget Proposal", "2025-03-02", "Covers zoning fees too")
	store.Create("Park Renovation", "2025-03-03", "Playground equipment")

	cases := []struct {
		term string
		want int
	}{
		{"zoning", 2},
		{"ZONING", 2},
		{"playground", 1},
		{"nothing matches this", 0},
	}

	for _, tc := range cases {
		t.Run(tc.term, func(t *testing.T) {
			matched, err := store.Search(tc.term)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if len(matched) != tc.want {
				t.Fatalf("Search(%q) returned %d drafts, want %d", tc.term, len(matched), tc.want)
			}
		})
	}
}

func TestMalformedCollectionTreatedAsEmpty(t *testing.T) {
	raw := kv.NewMemory()
	if err := raw.Set("drafts", "not json at all"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	store := NewStore(raw)
	all, err := store.List()
	if err != nil {
		t.Fatalf("List must not fail on malformed data: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("got %d drafts from malformed data, want 0", len(all))
	}

	// Writes still work afterwards.
	if _, err := store.Create("Recovered", "2025-03-04", ""); err != nil {
		t.Fatalf("Create after malformed load: %v", err)
	}
}
