package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/samvaad/backend/internal/drafts"
	"github.com/samvaad/backend/internal/storage/models"
	"github.com/samvaad/backend/pkg/logger"
)

type DraftHandler struct {
	store *drafts.Store
}

func NewDraftHandler(store *drafts.Store) *DraftHandler {
	return &DraftHandler{store: store}
}

func (h *DraftHandler) CreateDraft(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Date        string `json:"date"`
		Description string `json:"description"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	draft, err := h.store.Create(req.Title, req.Date, req.Description)
	if err != nil {
		logger.Error("Failed to create draft", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create draft",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(draft)
}

func (h *DraftHandler) ListDrafts(c *fiber.Ctx) error {
	var (
		all []models.Draft
		err error
	)

	if search := c.Query("search"); search != "" {
		all, err = h.store.Search(search)
	} else {
		all, err = h.store.List()
	}
	if err != nil {
		logger.Error("Failed to list drafts", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list drafts",
		})
	}

	if all == nil {
		all = []models.Draft{}
	}

	return c.JSON(fiber.Map{
		"drafts": all,
	})
}

func (h *DraftHandler) GetDraft(c *fiber.Ctx) error {
	id, err := parseDraftID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid draft id",
		})
	}

	draft, err := h.store.Get(id)
	if err != nil {
		if errors.Is(err, drafts.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Draft not found",
			})
		}
		logger.Error("Failed to get draft", zap.Int64("draft_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get draft",
		})
	}

	return c.JSON(draft)
}

func parseDraftID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
