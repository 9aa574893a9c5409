package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samvaad/backend/internal/storage/models"
)

func TestClassifySendsMultipartBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/upload" {
			t.Errorf("got %s %s, want POST /api/upload", r.Method, r.URL.Path)
		}

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart form: %v", err)
		}
		files := r.MultipartForm.File["files[]"]
		if len(files) != 2 {
			t.Fatalf("got %d files, want 2", len(files))
		}
		if files[0].Filename != "city_plan.pdf" || files[1].Filename != "road-noise.pdf" {
			t.Errorf("filenames = %q, %q, want submission order preserved",
				files[0].Filename, files[1].Filename)
		}

		json.NewEncoder(w).Encode([]Result{
			{Filename: "city_plan.pdf", Category: models.SentimentPositive, Score: 8},
			{Filename: "road-noise.pdf", Category: models.SentimentNegative, Score: 2},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	results, err := client.Classify(context.Background(), []models.Document{
		{Filename: "city_plan.pdf", Content: []byte("plan text")},
		{Filename: "road-noise.pdf", Content: []byte("noise text")},
	})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Filename != "city_plan.pdf" || results[0].Category != models.SentimentPositive || results[0].Score != 8 {
		t.Errorf("first result = %+v", results[0])
	}
}

func TestClassifyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	if _, err := client.Classify(context.Background(), []models.Document{{Filename: "a.pdf"}}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func TestClassifyConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, time.Second)
	if _, err := client.Classify(context.Background(), []models.Document{{Filename: "a.pdf"}}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func TestReviewDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/review/city_plan.pdf" {
			t.Errorf("got %s %s, want GET /api/review/city_plan.pdf", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(ReviewDetail{
			OverallScore: 72,
			Comments: []ReviewComment{
				{ID: 1, Text: "Supports the new bus lanes", Score: 9},
				{ID: 2, Text: "Worried about parking", Score: 3},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	detail, err := client.ReviewDetail(context.Background(), "city_plan.pdf")
	if err != nil {
		t.Fatalf("ReviewDetail: %v", err)
	}
	if detail.OverallScore != 72 {
		t.Errorf("overall score = %d, want 72", detail.OverallScore)
	}
	if len(detail.Comments) != 2 {
		t.Errorf("got %d comments, want 2", len(detail.Comments))
	}
}
