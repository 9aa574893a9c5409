package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/samvaad/backend/internal/storage/models"
	"github.com/samvaad/backend/pkg/circuitbreaker"
	"github.com/samvaad/backend/pkg/logger"
)

// ErrUnavailable covers every transport or service failure uniformly; the
// caller discards the batch and the ledger stays untouched.
var ErrUnavailable = errors.New("classifier unavailable")

// Result is one classified document as returned by the service. The filename
// is echoed back so results can be matched to submissions explicitly instead
// of by array position.
type Result struct {
	Filename string           `json:"filename"`
	Category models.Sentiment `json:"category"`
	Score    int              `json:"score"`
}

type ReviewComment struct {
	ID    int    `json:"id"`
	Text  string `json:"text"`
	Score int    `json:"score"`
}

type ReviewDetail struct {
	OverallScore int             `json:"overallScore"`
	Comments     []ReviewComment `json:"comments"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	cb         *circuitbreaker.CircuitBreaker
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	cb := circuitbreaker.NewCircuitBreaker("classifier", circuitbreaker.Config{
		MaxRequests:      2,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	logger.Info("Classifier client initialized", zap.String("base_url", baseURL))

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cb:         cb,
	}
}

// Classify submits the whole batch in one multipart exchange and returns one
// result per document. The breaker fails fast while the service is down;
// nothing here retries.
func (c *Client) Classify(ctx context.Context, docs []models.Document) ([]Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, doc := range docs {
		part, err := writer.CreateFormFile("files[]", doc.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to build upload form: %w", err)
		}
		if _, err := part.Write(doc.Content); err != nil {
			return nil, fmt.Errorf("failed to build upload form: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}

	var results []Result

	err := c.cb.Execute(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", bytes.NewReader(body.Bytes()))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(&results)
	})

	if err != nil {
		logger.Error("Classification request failed",
			zap.Int("documents", len(docs)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	logger.Debug("Batch classified", zap.Int("documents", len(docs)), zap.Int("results", len(results)))

	return results, nil
}

// ReviewDetail fetches the per-comment analysis for one uploaded file.
func (c *Client) ReviewDetail(ctx context.Context, filename string) (*ReviewDetail, error) {
	var detail ReviewDetail

	err := c.cb.Execute(ctx, func() error {
		endpoint := c.baseURL + "/api/review/" + url.PathEscape(filename)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(&detail)
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &detail, nil
}
