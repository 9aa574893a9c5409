package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/samvaad/backend/internal/keywords"
	"github.com/samvaad/backend/internal/storage/models"
	"github.com/samvaad/backend/pkg/logger"
)

type KeywordHandler struct {
	query *keywords.Query
}

func NewKeywordHandler(query *keywords.Query) *KeywordHandler {
	return &KeywordHandler{query: query}
}

// GetKeywords returns word frequencies for the draft's reviews of one
// sentiment, shaped {word: {count}} like the upstream service.
func (h *KeywordHandler) GetKeywords(c *fiber.Ctx) error {
	draftID, err := parseDraftID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid draft id",
		})
	}

	s := models.Sentiment(c.Params("sentiment"))
	if !s.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown sentiment category",
		})
	}

	frequencies, err := h.query.ForDraft(c.Context(), draftID, s)
	if err != nil {
		logger.Error("Keyword query failed",
			zap.Int64("draft_id", draftID),
			zap.String("sentiment", string(s)),
			zap.Error(err),
		)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Keyword service unavailable",
		})
	}

	response := make(map[string]fiber.Map, len(frequencies))
	for word, count := range frequencies {
		response[word] = fiber.Map{"count": count}
	}

	return c.JSON(response)
}
