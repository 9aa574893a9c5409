package sentiment

import (
	"sort"

	"github.com/samvaad/backend/internal/storage/models"
)

const dayFormat = "2006-01-02"

// BuildTrend groups the ledger by local calendar day and emits one point per
// day, ascending. Reviews classified at different times of the same day
// collapse into one point.
func BuildTrend(ledger []models.Review) []models.TrendPoint {
	if len(ledger) == 0 {
		return nil
	}

	byDay := make(map[string]*models.TrendPoint)
	for _, r := range ledger {
		day := r.Date.Local().Format(dayFormat)
		point := byDay[day]
		if point == nil {
			point = &models.TrendPoint{Day: day}
			byDay[day] = point
		}

		switch r.Sentiment {
		case models.SentimentPositive:
			point.Positive++
		case models.SentimentNegative:
			point.Negative++
		case models.SentimentSuggestive:
			point.Suggestive++
		}
	}

	points := make([]models.TrendPoint, 0, len(byDay))
	for _, point := range byDay {
		points = append(points, *point)
	}

	// Day strings are YYYY-MM-DD, so lexical order is chronological order.
	sort.Slice(points, func(i, j int) bool {
		return points[i].Day < points[j].Day
	})

	return points
}
