package sentiment

import (
	"math"

	"github.com/samvaad/backend/internal/storage/models"
)

// Recompute derives the summary from the full ledger. It never consults a
// previously stored summary, so it cannot drift from the ledger. Percentages
// are rounded independently and need not sum to exactly 100.
func Recompute(ledger []models.Review) models.SentimentSummary {
	var s models.SentimentSummary
	for _, r := range ledger {
		switch r.Sentiment {
		case models.SentimentPositive:
			s.Positive.Count++
		case models.SentimentNegative:
			s.Negative.Count++
		case models.SentimentSuggestive:
			s.Suggestive.Count++
		}
	}

	total := s.Total()
	if total == 0 {
		return s
	}

	s.Positive.Percentage = percentage(s.Positive.Count, total)
	s.Negative.Percentage = percentage(s.Negative.Count, total)
	s.Suggestive.Percentage = percentage(s.Suggestive.Count, total)

	return s
}

func percentage(count, total int) int {
	return int(math.Round(float64(count) / float64(total) * 100))
}
