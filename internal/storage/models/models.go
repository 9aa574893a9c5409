package models

import "time"

// Sentiment is the category the classifier assigns to a document.
type Sentiment string

const (
	SentimentPositive   Sentiment = "positive"
	SentimentNegative   Sentiment = "negative"
	SentimentSuggestive Sentiment = "suggestive"
)

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentSuggestive:
		return true
	}
	return false
}

// Draft is a consultation draft under which reviews are collected.
type Draft struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// Review is one classified document. Reviews are created only by the upload
// coordinator and never mutated afterwards.
type Review struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Sentiment Sentiment `json:"sentiment"`
	Date      time.Time `json:"date"`
	Score     int       `json:"score"`
}

type SentimentStat struct {
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

// SentimentSummary is fully derived from a draft's review ledger. It is a
// cache, never a source of truth.
type SentimentSummary struct {
	Positive   SentimentStat `json:"positive"`
	Negative   SentimentStat `json:"negative"`
	Suggestive SentimentStat `json:"suggestive"`
}

func (s SentimentSummary) Total() int {
	return s.Positive.Count + s.Negative.Count + s.Suggestive.Count
}

// TrendPoint is one local calendar day's per-sentiment review counts.
// Day is formatted YYYY-MM-DD.
type TrendPoint struct {
	Day        string `json:"day"`
	Positive   int    `json:"positive"`
	Negative   int    `json:"negative"`
	Suggestive int    `json:"suggestive"`
}

// Document is a raw uploaded file handed to the classifier.
type Document struct {
	Filename string
	Content  []byte
}

// BatchOutcome reports what an upload batch did to a draft's ledger.
type BatchOutcome struct {
	BatchID  string           `json:"batch_id"`
	Accepted int              `json:"accepted"`
	Summary  SentimentSummary `json:"summary"`
}
