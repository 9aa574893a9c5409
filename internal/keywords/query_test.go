package keywords

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/samvaad/backend/internal/reviews"
	"github.com/samvaad/backend/internal/storage/kv"
	"github.com/samvaad/backend/internal/storage/models"
)

type fakeFrequencier struct {
	calls     int
	filenames []string
	sentiment models.Sentiment
	result    map[string]int
	err       error
}

func (f *fakeFrequencier) Frequencies(ctx context.Context, filenames []string, sentiment models.Sentiment) (map[string]int, error) {
	f.calls++
	f.filenames = filenames
	f.sentiment = sentiment
	return f.result, f.err
}

type fakeCache struct {
	entries map[string]map[string]int
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]map[string]int)}
}

func (c *fakeCache) GetKeywords(ctx context.Context, key string) (map[string]int, bool, error) {
	entry, ok := c.entries[key]
	return entry, ok, nil
}

func (c *fakeCache) SetKeywords(ctx context.Context, key string, frequencies map[string]int, ttl time.Duration) error {
	c.sets++
	c.entries[key] = frequencies
	return nil
}

func mixedLedger(t *testing.T, store kv.Store) *reviews.Ledger {
	t.Helper()

	ledger := reviews.NewLedger(store)
	batch := []models.Review{
		{ID: 1, Title: "city plan", Sentiment: models.SentimentPositive, Date: time.Now()},
		{ID: 2, Title: "road noise", Sentiment: models.SentimentNegative, Date: time.Now()},
		{ID: 3, Title: "park fees", Sentiment: models.SentimentPositive, Date: time.Now()},
	}
	if _, err := ledger.Append(1, batch); err != nil {
		t.Fatalf("seed ledger: %v", err)
	}
	return ledger
}

func TestSourceFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"public hearing notes", "public_hearing_notes.pdf"},
		{"comment", "comment.pdf"},
	}

	for _, tc := range cases {
		if got := SourceFilename(tc.in); got != tc.want {
			t.Errorf("SourceFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestForDraftFiltersBySentiment(t *testing.T) {
	ledger := mixedLedger(t, kv.NewMemory())
	client := &fakeFrequencier{result: map[string]int{"budget": 4, "traffic": 2}}
	query := NewQuery(ledger, client, nil, 0)

	got, err := query.ForDraft(context.Background(), 1, models.SentimentPositive)
	if err != nil {
		t.Fatalf("ForDraft: %v", err)
	}

	wantFiles := []string{"city_plan.pdf", "park_fees.pdf"}
	if !reflect.DeepEqual(client.filenames, wantFiles) {
		t.Errorf("sent filenames %v, want %v in ledger order", client.filenames, wantFiles)
	}
	if client.sentiment != models.SentimentPositive {
		t.Errorf("sent sentiment %q, want positive", client.sentiment)
	}
	if !reflect.DeepEqual(got, client.result) {
		t.Errorf("got %v, want the service's map", got)
	}
}

func TestForDraftEmptySelectionSkipsService(t *testing.T) {
	ledger := mixedLedger(t, kv.NewMemory())
	client := &fakeFrequencier{result: map[string]int{"unused": 1}}
	query := NewQuery(ledger, client, nil, 0)

	got, err := query.ForDraft(context.Background(), 1, models.SentimentSuggestive)
	if err != nil {
		t.Fatalf("ForDraft: %v", err)
	}
	if client.calls != 0 {
		t.Errorf("service called %d times for an empty selection, want 0", client.calls)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty map", got)
	}
}

func TestForDraftCacheHitSkipsService(t *testing.T) {
	ledger := mixedLedger(t, kv.NewMemory())
	client := &fakeFrequencier{result: map[string]int{"budget": 4}}
	cache := newFakeCache()
	query := NewQuery(ledger, client, cache, time.Minute)

	first, err := query.ForDraft(context.Background(), 1, models.SentimentPositive)
	if err != nil {
		t.Fatalf("first ForDraft: %v", err)
	}
	if client.calls != 1 || cache.sets != 1 {
		t.Fatalf("after miss: calls=%d sets=%d, want 1 and 1", client.calls, cache.sets)
	}

	second, err := query.ForDraft(context.Background(), 1, models.SentimentPositive)
	if err != nil {
		t.Fatalf("second ForDraft: %v", err)
	}
	if client.calls != 1 {
		t.Errorf("service called %d times, want 1 (second read served from cache)", client.calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cache returned %v, want %v", second, first)
	}
}
