package validation

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Config struct {
	MaxTitleLength       int
	MaxDescriptionLength int
	AllowedContentTypes  []string
	Logger               *zap.Logger
}

// Middleware rejects unsupported content types and oversized draft fields
// before a handler sees the request.
func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxTitleLength == 0 {
		cfg.MaxTitleLength = 200
	}
	if cfg.MaxDescriptionLength == 0 {
		cfg.MaxDescriptionLength = 2000
	}
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = []string{"application/json", "multipart/form-data"}
	}

	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodPost || c.Method() == fiber.MethodPut {
			contentType := c.Get("Content-Type")
			if contentType != "" {
				allowed := false
				for _, allowedType := range cfg.AllowedContentTypes {
					if strings.Contains(contentType, allowedType) {
						allowed = true
						break
					}
				}
				if !allowed {
					return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
						"error": "Unsupported content type",
					})
				}
			}
		}

		if c.Method() == fiber.MethodPost && strings.HasSuffix(c.Path(), "/drafts") {
			var req map[string]interface{}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid JSON format",
				})
			}

			title, ok := req["title"].(string)
			if !ok || strings.TrimSpace(title) == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Title is required and must be a string",
				})
			}

			if len(title) > cfg.MaxTitleLength {
				if cfg.Logger != nil {
					cfg.Logger.Warn("Draft title too long",
						zap.String("ip", c.IP()),
						zap.Int("length", len(title)),
					)
				}
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Title exceeds maximum length",
				})
			}

			if description, ok := req["description"].(string); ok && len(description) > cfg.MaxDescriptionLength {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Description exceeds maximum length",
				})
			}
		}

		return c.Next()
	}
}
