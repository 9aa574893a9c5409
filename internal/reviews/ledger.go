package reviews

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/samvaad/backend/internal/storage/kv"
	"github.com/samvaad/backend/internal/storage/models"
	"github.com/samvaad/backend/pkg/logger"
)

// Ledger is the append-only, per-draft ordered collection of reviews.
// No delete or update operation exists; derived summaries and trends are
// always recomputable from what Append has written.
type Ledger struct {
	store kv.Store
}

func NewLedger(store kv.Store) *Ledger {
	return &Ledger{store: store}
}

func ledgerKey(draftID int64) string {
	return fmt.Sprintf("reviews_%d", draftID)
}

// GetAll returns the draft's reviews in insertion order.
func (l *Ledger) GetAll(draftID int64) ([]models.Review, error) {
	raw, ok, err := l.store.Get(ledgerKey(draftID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var ledger []models.Review
	if err := json.Unmarshal([]byte(raw), &ledger); err != nil {
		logger.Warn("Stored ledger is malformed, treating as empty",
			zap.Int64("draft_id", draftID),
			zap.Error(err),
		)
		return nil, nil
	}

	return ledger, nil
}

// Append writes the batch after the current ledger contents in a single
// durable write and returns the updated ledger.
func (l *Ledger) Append(draftID int64, batch []models.Review) ([]models.Review, error) {
	current, err := l.GetAll(draftID)
	if err != nil {
		return nil, err
	}

	updated := append(current, batch...)
	data, err := json.Marshal(updated)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ledger: %w", err)
	}

	if err := l.store.Set(ledgerKey(draftID), string(data)); err != nil {
		return nil, err
	}

	logger.Debug("Reviews appended",
		zap.Int64("draft_id", draftID),
		zap.Int("batch", len(batch)),
		zap.Int("ledger", len(updated)),
	)

	return updated, nil
}

// NextID returns the next strictly monotonic review ID for a ledger.
func NextID(ledger []models.Review) int64 {
	var maxID int64
	for _, r := range ledger {
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	return maxID + 1
}
