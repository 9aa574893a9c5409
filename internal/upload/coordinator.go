package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samvaad/backend/internal/classifier"
	"github.com/samvaad/backend/internal/metrics"
	"github.com/samvaad/backend/internal/reviews"
	"github.com/samvaad/backend/internal/sentiment"
	"github.com/samvaad/backend/internal/storage/kv"
	"github.com/samvaad/backend/internal/storage/models"
	"github.com/samvaad/backend/pkg/logger"
)

// ErrPartialBatch means the classifier's results could not be matched
// one-to-one to the submitted documents. Nothing is applied.
var ErrPartialBatch = errors.New("classifier returned a partial or mismatched batch")

// Classifier is the outbound contract; satisfied by *classifier.Client.
type Classifier interface {
	Classify(ctx context.Context, docs []models.Document) ([]classifier.Result, error)
}

// Coordinator turns a batch of raw documents into a consistent ledger and
// summary update. The ledger write and the summary write are two separate
// durable writes; if the second fails the next summary read repairs it from
// the ledger, so the stored summary is never treated as authoritative.
type Coordinator struct {
	ledger     *reviews.Ledger
	store      kv.Store
	classifier Classifier

	mu    sync.Mutex
	locks map[int64]*sync.Mutex

	now func() time.Time
}

func NewCoordinator(ledger *reviews.Ledger, store kv.Store, cls Classifier) *Coordinator {
	return &Coordinator{
		ledger:     ledger,
		store:      store,
		classifier: cls,
		locks:      make(map[int64]*sync.Mutex),
		now:        time.Now,
	}
}

// Submit classifies the batch, appends the resulting reviews to the draft's
// ledger in one write and persists the recomputed summary. A classifier
// failure or an unmatchable result set leaves the ledger untouched.
func (c *Coordinator) Submit(ctx context.Context, draftID int64, docs []models.Document) (*models.BatchOutcome, error) {
	if len(docs) == 0 {
		return &models.BatchOutcome{BatchID: uuid.NewString()}, nil
	}

	// Concurrent submits for the same draft would both read the same
	// pre-batch ledger and silently drop one batch on write-back.
	lock := c.draftLock(draftID)
	lock.Lock()
	defer lock.Unlock()

	batchID := uuid.NewString()

	start := time.Now()
	results, err := c.classifier.Classify(ctx, docs)
	metrics.ClassifierDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UploadBatches.WithLabelValues("classifier_failed").Inc()
		return nil, err
	}

	matched, err := matchResults(docs, results)
	if err != nil {
		metrics.UploadBatches.WithLabelValues("partial_batch").Inc()
		logger.Warn("Batch rejected",
			zap.String("batch_id", batchID),
			zap.Int64("draft_id", draftID),
			zap.Error(err),
		)
		return nil, err
	}

	current, err := c.ledger.GetAll(draftID)
	if err != nil {
		metrics.UploadBatches.WithLabelValues("storage_failed").Inc()
		return nil, err
	}

	nextID := reviews.NextID(current)
	now := c.now()
	batch := make([]models.Review, 0, len(matched))
	for i, res := range matched {
		batch = append(batch, models.Review{
			ID:        nextID + int64(i),
			Title:     TitleFromFilename(res.Filename),
			Sentiment: res.Category,
			Date:      now,
			Score:     res.Score,
		})
	}

	updated, err := c.ledger.Append(draftID, batch)
	if err != nil {
		metrics.UploadBatches.WithLabelValues("storage_failed").Inc()
		return nil, err
	}

	summary := sentiment.Recompute(updated)
	if err := c.persistSummary(draftID, summary); err != nil {
		// The ledger write already landed; the stored summary stays stale
		// until the next read repairs it.
		logger.Warn("Summary write failed after ledger append",
			zap.String("batch_id", batchID),
			zap.Int64("draft_id", draftID),
			zap.Error(err),
		)
	}

	metrics.UploadBatches.WithLabelValues("success").Inc()
	metrics.UploadBatchSize.Observe(float64(len(batch)))
	metrics.ReviewsAppended.Add(float64(len(batch)))

	logger.Info("Batch applied",
		zap.String("batch_id", batchID),
		zap.Int64("draft_id", draftID),
		zap.Int("reviews", len(batch)),
		zap.Int("ledger", len(updated)),
	)

	return &models.BatchOutcome{
		BatchID:  batchID,
		Accepted: len(batch),
		Summary:  summary,
	}, nil
}

// matchResults pairs results to submitted documents by filename, in
// submission order. Count mismatches, unknown categories, duplicates and
// missing filenames all reject the whole batch.
func matchResults(docs []models.Document, results []classifier.Result) ([]classifier.Result, error) {
	if len(results) != len(docs) {
		return nil, fmt.Errorf("%w: sent %d documents, got %d results", ErrPartialBatch, len(docs), len(results))
	}

	byName := make(map[string]classifier.Result, len(results))
	for _, res := range results {
		if !res.Category.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q for %s", ErrPartialBatch, res.Category, res.Filename)
		}
		if _, dup := byName[res.Filename]; dup {
			return nil, fmt.Errorf("%w: duplicate result for %s", ErrPartialBatch, res.Filename)
		}
		byName[res.Filename] = res
	}

	matched := make([]classifier.Result, 0, len(docs))
	for _, doc := range docs {
		res, ok := byName[doc.Filename]
		if !ok {
			return nil, fmt.Errorf("%w: no result for %s", ErrPartialBatch, doc.Filename)
		}
		matched = append(matched, res)
	}

	return matched, nil
}

// TitleFromFilename strips the extension and turns separators into spaces:
// "public_hearing-notes.pdf" becomes "public hearing notes".
func TitleFromFilename(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}

func (c *Coordinator) persistSummary(draftID int64, summary models.SentimentSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	return c.store.Set(sentiment.SummaryKey(draftID), string(data))
}

func (c *Coordinator) draftLock(draftID int64) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.locks[draftID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[draftID] = lock
	}
	return lock
}
