package handlers

import (
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/samvaad/backend/internal/classifier"
	"github.com/samvaad/backend/internal/reviews"
	"github.com/samvaad/backend/internal/sentiment"
	"github.com/samvaad/backend/internal/storage/models"
	"github.com/samvaad/backend/internal/upload"
	"github.com/samvaad/backend/pkg/logger"
)

type ReviewHandler struct {
	coordinator *upload.Coordinator
	ledger      *reviews.Ledger
	sentiments  *sentiment.Service
	detail      *classifier.Client
}

func NewReviewHandler(coordinator *upload.Coordinator, ledger *reviews.Ledger, sentiments *sentiment.Service, detail *classifier.Client) *ReviewHandler {
	return &ReviewHandler{
		coordinator: coordinator,
		ledger:      ledger,
		sentiments:  sentiments,
		detail:      detail,
	}
}

// UploadReviews accepts a multipart batch of PDF documents, sends them
// through the coordinator and returns the batch outcome. Non-PDF files are
// skipped, matching the upstream analysis service's allowlist.
func (h *ReviewHandler) UploadReviews(c *fiber.Ctx) error {
	draftID, err := parseDraftID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid draft id",
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid multipart form",
		})
	}

	files := form.File["files[]"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No selected files",
		})
	}

	var docs []models.Document
	for _, fh := range files {
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
			logger.Warn("Skipping non-PDF upload", zap.String("filename", fh.Filename))
			continue
		}

		f, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Failed to read uploaded file",
			})
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Failed to read uploaded file",
			})
		}

		docs = append(docs, models.Document{Filename: fh.Filename, Content: content})
	}

	if len(docs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No valid PDF files were uploaded",
		})
	}

	outcome, err := h.coordinator.Submit(c.Context(), draftID, docs)
	if err != nil {
		logger.Error("Upload batch failed", zap.Int64("draft_id", draftID), zap.Error(err))
		switch {
		case errors.Is(err, classifier.ErrUnavailable):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Classification service unavailable",
			})
		case errors.Is(err, upload.ErrPartialBatch):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Classification results did not match the uploaded batch",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to process upload",
			})
		}
	}

	return c.JSON(outcome)
}

func (h *ReviewHandler) ListReviews(c *fiber.Ctx) error {
	draftID, err := parseDraftID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid draft id",
		})
	}

	ledger, err := h.ledger.GetAll(draftID)
	if err != nil {
		logger.Error("Failed to read ledger", zap.Int64("draft_id", draftID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read reviews",
		})
	}

	if ledger == nil {
		ledger = []models.Review{}
	}

	return c.JSON(fiber.Map{
		"reviews": ledger,
	})
}

func (h *ReviewHandler) GetSummary(c *fiber.Ctx) error {
	draftID, err := parseDraftID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid draft id",
		})
	}

	summary, err := h.sentiments.Summary(draftID)
	if err != nil {
		logger.Error("Failed to compute summary", zap.Int64("draft_id", draftID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute summary",
		})
	}

	return c.JSON(summary)
}

func (h *ReviewHandler) GetTrend(c *fiber.Ctx) error {
	draftID, err := parseDraftID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid draft id",
		})
	}

	trend, err := h.sentiments.Trend(draftID)
	if err != nil {
		logger.Error("Failed to build trend", zap.Int64("draft_id", draftID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build trend",
		})
	}

	if trend == nil {
		trend = []models.TrendPoint{}
	}

	return c.JSON(fiber.Map{
		"trend": trend,
	})
}

// GetReviewDetail proxies the per-comment analysis for one uploaded file.
func (h *ReviewHandler) GetReviewDetail(c *fiber.Ctx) error {
	filename := c.Params("filename")
	if filename == "" || strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid filename",
		})
	}

	detail, err := h.detail.ReviewDetail(c.Context(), filename)
	if err != nil {
		logger.Error("Failed to fetch review detail", zap.String("filename", filename), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Analysis service unavailable",
		})
	}

	return c.JSON(detail)
}
