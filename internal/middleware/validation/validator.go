package validation

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ecolabel/backend/pkg/logger"
)

var (
	base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/=\s]+$`)
	scriptPattern = regexp.MustCompile(`(?i)(<script|<iframe|javascript:|onerror=|onload=)`)
)

type Config struct {
	MaxImageSize  int
	MaxTextLength int
}

// Middleware rejects malformed analyze payloads before they reach the
// handlers. Size limits guard the OCR backends, which bill per request.
func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxImageSize == 0 {
		cfg.MaxImageSize = 10 * 1024 * 1024
	}
	if cfg.MaxTextLength == 0 {
		cfg.MaxTextLength = 10000
	}

	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodPost {
			contentType := c.Get("Content-Type")
			if contentType != "" && !strings.Contains(contentType, "application/json") {
				return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
					"error": "Unsupported content type",
				})
			}
		}

		path := c.Path()

		if strings.HasSuffix(path, "/analyze/image") {
			var req map[string]interface{}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid JSON format",
				})
			}

			image, ok := req["image"].(string)
			if !ok || image == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Image is required and must be a base64 string",
				})
			}

			if len(image) > cfg.MaxImageSize {
				logger.Warn("Oversized image rejected",
					zap.String("ip", c.IP()),
					zap.Int("size", len(image)),
				)
				return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
					"error": "Image exceeds maximum size",
				})
			}

			payload := image
			if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
				payload = payload[idx+1:]
			}
			if !base64Pattern.MatchString(payload) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Image must be base64 encoded",
				})
			}
		}

		if strings.HasSuffix(path, "/analyze/text") {
			var req map[string]interface{}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid JSON format",
				})
			}

			text, ok := req["text"].(string)
			if !ok || text == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Text is required and must be a string",
				})
			}

			if len(text) > cfg.MaxTextLength {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Text exceeds maximum length",
				})
			}

			if scriptPattern.MatchString(text) {
				logger.Warn("Potential injection attempt",
					zap.String("ip", c.IP()),
				)
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid text content",
				})
			}
		}

		return c.Next()
	}
}
