package keywords

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/samvaad/backend/internal/metrics"
	"github.com/samvaad/backend/internal/reviews"
	"github.com/samvaad/backend/internal/storage/models"
	"github.com/samvaad/backend/pkg/logger"
	"github.com/samvaad/backend/pkg/utils"
)

// Frequencier is the outbound contract; satisfied by *Client.
type Frequencier interface {
	Frequencies(ctx context.Context, filenames []string, sentiment models.Sentiment) (map[string]int, error)
}

// Cache is the optional read-through cache for frequency maps.
type Cache interface {
	GetKeywords(ctx context.Context, key string) (map[string]int, bool, error)
	SetKeywords(ctx context.Context, key string, frequencies map[string]int, ttl time.Duration) error
}

// Query resolves keyword frequencies for a draft's reviews of one sentiment.
// It holds no state of its own; the ledger decides which files are in scope.
type Query struct {
	ledger *reviews.Ledger
	client Frequencier
	cache  Cache
	ttl    time.Duration
}

// NewQuery builds the query service. cache may be nil.
func NewQuery(ledger *reviews.Ledger, client Frequencier, cache Cache, ttl time.Duration) *Query {
	return &Query{ledger: ledger, client: client, cache: cache, ttl: ttl}
}

// ForDraft filters the draft's ledger by sentiment, rebuilds the source
// filenames and returns the word-frequency map. An empty selection returns an
// empty map without calling the service.
func (q *Query) ForDraft(ctx context.Context, draftID int64, sentiment models.Sentiment) (map[string]int, error) {
	ledger, err := q.ledger.GetAll(draftID)
	if err != nil {
		return nil, err
	}

	var filenames []string
	for _, r := range ledger {
		if r.Sentiment == sentiment {
			filenames = append(filenames, SourceFilename(r.Title))
		}
	}

	if len(filenames) == 0 {
		return map[string]int{}, nil
	}

	key := cacheKey(sentiment, filenames)

	if q.cache != nil {
		frequencies, ok, err := q.cache.GetKeywords(ctx, key)
		if err != nil {
			logger.Warn("Keyword cache read failed", zap.Error(err))
		} else if ok {
			metrics.CacheHits.WithLabelValues("keywords").Inc()
			return frequencies, nil
		} else {
			metrics.CacheMisses.WithLabelValues("keywords").Inc()
		}
	}

	frequencies, err := q.client.Frequencies(ctx, filenames, sentiment)
	if err != nil {
		return nil, err
	}

	if q.cache != nil {
		if err := q.cache.SetKeywords(ctx, key, frequencies, q.ttl); err != nil {
			logger.Warn("Keyword cache write failed", zap.Error(err))
		}
	}

	return frequencies, nil
}

// SourceFilename rebuilds the uploaded filename for a review title. Uploads
// are restricted to PDFs, so the extension is always .pdf.
func SourceFilename(title string) string {
	return strings.ReplaceAll(title, " ", "_") + ".pdf"
}

func cacheKey(sentiment models.Sentiment, filenames []string) string {
	parts := append([]string{string(sentiment)}, filenames...)
	return utils.HashStrings(parts...)
}
