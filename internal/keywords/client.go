package keywords

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/samvaad/backend/internal/storage/models"
	"github.com/samvaad/backend/pkg/logger"
)

var ErrUnavailable = errors.New("keyword service unavailable")

// Client is a stateless passthrough to the external keyword-frequency
// service. Failures surface to the caller with no retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Frequencies asks the service for word frequencies across the named files.
func (c *Client) Frequencies(ctx context.Context, filenames []string, sentiment models.Sentiment) (map[string]int, error) {
	payload := struct {
		Filenames []string         `json:"filenames"`
		Sentiment models.Sentiment `json:"sentiment"`
	}{
		Filenames: filenames,
		Sentiment: sentiment,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal keyword request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/keywords", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var raw map[string]struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	frequencies := make(map[string]int, len(raw))
	for word, entry := range raw {
		frequencies[word] = entry.Count
	}

	logger.Debug("Keywords fetched",
		zap.String("sentiment", string(sentiment)),
		zap.Int("files", len(filenames)),
		zap.Int("words", len(frequencies)),
	)

	return frequencies, nil
}
