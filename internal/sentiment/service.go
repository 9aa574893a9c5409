package sentiment

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/samvaad/backend/internal/metrics"
	"github.com/samvaad/backend/internal/reviews"
	"github.com/samvaad/backend/internal/storage/kv"
	"github.com/samvaad/backend/internal/storage/models"
	"github.com/samvaad/backend/pkg/logger"
)

// Service is the read side for derived sentiment state. The ledger and its
// cached summary are persisted as two separate writes, so the cached summary
// can lag the ledger; every read recomputes from the ledger and repairs the
// cached copy when the two disagree.
type Service struct {
	ledger *reviews.Ledger
	store  kv.Store
}

func NewService(ledger *reviews.Ledger, store kv.Store) *Service {
	return &Service{ledger: ledger, store: store}
}

func SummaryKey(draftID int64) string {
	return fmt.Sprintf("sentimentSummary_%d", draftID)
}

// Summary returns the summary recomputed from the ledger. The stored copy is
// only compared against it, never returned.
func (s *Service) Summary(draftID int64) (models.SentimentSummary, error) {
	ledger, err := s.ledger.GetAll(draftID)
	if err != nil {
		return models.SentimentSummary{}, err
	}

	summary := Recompute(ledger)
	s.repairCached(draftID, summary)

	return summary, nil
}

// Trend is always derived at read time and never persisted.
func (s *Service) Trend(draftID int64) ([]models.TrendPoint, error) {
	ledger, err := s.ledger.GetAll(draftID)
	if err != nil {
		return nil, err
	}

	return BuildTrend(ledger), nil
}

func (s *Service) repairCached(draftID int64, summary models.SentimentSummary) {
	key := SummaryKey(draftID)

	raw, ok, err := s.store.Get(key)
	if err != nil {
		logger.Warn("Cached summary unreadable", zap.Int64("draft_id", draftID), zap.Error(err))
		return
	}

	if ok {
		var cached models.SentimentSummary
		if err := json.Unmarshal([]byte(raw), &cached); err == nil && cached == summary {
			return
		}
	} else if summary.Total() == 0 {
		// Nothing stored and nothing to store.
		return
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return
	}

	if err := s.store.Set(key, string(data)); err != nil {
		logger.Warn("Failed to repair cached summary", zap.Int64("draft_id", draftID), zap.Error(err))
		return
	}

	metrics.SummaryRepairs.Inc()
	logger.Info("Cached summary repaired from ledger", zap.Int64("draft_id", draftID))
}
