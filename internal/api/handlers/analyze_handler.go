package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ecolabel/backend/internal/analysis"
	"github.com/ecolabel/backend/internal/ocr"
	"github.com/ecolabel/backend/pkg/logger"
)

type AnalyzeHandler struct {
	engine *analysis.Engine
}

func NewAnalyzeHandler(engine *analysis.Engine) *AnalyzeHandler {
	return &AnalyzeHandler{
		engine: engine,
	}
}

// HandleAnalyzeImage accepts a base64 label photo and runs the full
// OCR and analysis pipeline.
func (h *AnalyzeHandler) HandleAnalyzeImage(c *fiber.Ctx) error {
	var req struct {
		Image    string `json:"image"`
		Provider string `json:"provider"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Image == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image is required",
		})
	}

	image, err := ocr.DecodeImage(req.Image)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid image data",
		})
	}

	response, err := h.engine.AnalyzeImage(c.Context(), image, req.Provider)
	if err != nil {
		return analysisError(c, err, "Failed to analyze image")
	}

	return respond(c, response)
}

// HandleAnalyzeText analyzes label text pasted or typed by the user.
func (h *AnalyzeHandler) HandleAnalyzeText(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Text is required",
		})
	}

	response, err := h.engine.AnalyzeText(c.Context(), req.Text)
	if err != nil {
		return analysisError(c, err, "Failed to analyze text")
	}

	return respond(c, response)
}

// HandleAnalyzeComposition analyzes a manually entered material list.
func (h *AnalyzeHandler) HandleAnalyzeComposition(c *fiber.Ctx) error {
	var req struct {
		Materials []analysis.ManualEntry `json:"materials"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.engine.AnalyzeManual(c.Context(), req.Materials)
	if err != nil {
		return analysisError(c, err, "Failed to analyze composition")
	}

	return respond(c, response)
}

// respond distinguishes the "text readable but no composition found"
// outcome from a full analysis. The former still carries the OCR text
// so the client can offer manual entry.
func respond(c *fiber.Ctx, response *analysis.Response) error {
	if !response.Success {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(response)
	}
	return c.JSON(response)
}

func analysisError(c *fiber.Ctx, err error, fallbackMsg string) error {
	switch {
	case errors.Is(err, analysis.ErrNoInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, analysis.ErrInvalidComposition):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, ocr.ErrInvalidImage):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid image data",
		})
	default:
		logger.Error(fallbackMsg, zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fallbackMsg,
		})
	}
}
