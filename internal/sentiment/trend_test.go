package sentiment

import (
	"testing"
	"time"

	"github.com/samvaad/backend/internal/storage/models"
)

func revAt(s models.Sentiment, year int, month time.Month, day, hour int) models.Review {
	return models.Review{
		Sentiment: s,
		Date:      time.Date(year, month, day, hour, 30, 0, 0, time.Local),
	}
}

func TestBuildTrendEmptyLedger(t *testing.T) {
	if got := BuildTrend(nil); len(got) != 0 {
		t.Fatalf("BuildTrend(nil) = %v, want empty", got)
	}
}

func TestBuildTrendSameDayCollapses(t *testing.T) {
	ledger := []models.Review{
		revAt(models.SentimentPositive, 2025, time.March, 3, 9),
		revAt(models.SentimentNegative, 2025, time.March, 3, 17),
	}

	got := BuildTrend(ledger)
	if len(got) != 1 {
		t.Fatalf("got %d points, want 1", len(got))
	}
	if got[0].Day != "2025-03-03" {
		t.Errorf("day = %q, want 2025-03-03", got[0].Day)
	}
	if got[0].Positive != 1 || got[0].Negative != 1 || got[0].Suggestive != 0 {
		t.Errorf("point = %+v, want positive=1 negative=1", got[0])
	}
}

func TestBuildTrendAppendsLaterDays(t *testing.T) {
	ledger := []models.Review{
		revAt(models.SentimentPositive, 2025, time.March, 3, 9),
		revAt(models.SentimentNegative, 2025, time.March, 3, 17),
		revAt(models.SentimentSuggestive, 2025, time.March, 4, 8),
	}

	got := BuildTrend(ledger)
	if len(got) != 2 {
		t.Fatalf("got %d points, want 2", len(got))
	}
	if got[0].Day != "2025-03-03" || got[1].Day != "2025-03-04" {
		t.Errorf("days = %q, %q, want ascending 2025-03-03, 2025-03-04", got[0].Day, got[1].Day)
	}
	if got[1].Suggestive != 1 || got[1].Positive != 0 || got[1].Negative != 0 {
		t.Errorf("second point = %+v, want suggestive only", got[1])
	}
}

func TestBuildTrendSortedWithoutDuplicates(t *testing.T) {
	ledger := []models.Review{
		revAt(models.SentimentPositive, 2025, time.March, 9, 10),
		revAt(models.SentimentPositive, 2025, time.February, 27, 10),
		revAt(models.SentimentNegative, 2025, time.March, 1, 10),
		revAt(models.SentimentSuggestive, 2025, time.March, 1, 23),
	}

	got := BuildTrend(ledger)
	if len(got) != 3 {
		t.Fatalf("got %d points, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Day >= got[i].Day {
			t.Fatalf("days not strictly ascending: %q then %q", got[i-1].Day, got[i].Day)
		}
	}
}

func TestBuildTrendConservesCounts(t *testing.T) {
	ledger := []models.Review{
		revAt(models.SentimentPositive, 2025, time.March, 3, 9),
		revAt(models.SentimentPositive, 2025, time.March, 4, 9),
		revAt(models.SentimentNegative, 2025, time.March, 4, 10),
		revAt(models.SentimentSuggestive, 2025, time.March, 5, 11),
		revAt(models.SentimentSuggestive, 2025, time.March, 5, 12),
	}

	var positive, negative, suggestive int
	for _, p := range BuildTrend(ledger) {
		positive += p.Positive
		negative += p.Negative
		suggestive += p.Suggestive
	}

	if positive != 2 || negative != 1 || suggestive != 2 {
		t.Fatalf("trend totals = %d/%d/%d, want 2/1/2", positive, negative, suggestive)
	}
}
