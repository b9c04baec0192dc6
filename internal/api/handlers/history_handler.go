package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ecolabel/backend/internal/storage/models"
	"github.com/ecolabel/backend/internal/storage/sqlite"
	"github.com/ecolabel/backend/pkg/logger"
)

type HistoryHandler struct {
	store *sqlite.Client
}

func NewHistoryHandler(store *sqlite.Client) *HistoryHandler {
	return &HistoryHandler{
		store: store,
	}
}

func (h *HistoryHandler) ListHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	records, err := h.store.ListHistory(limit)
	if err != nil {
		logger.Error("Failed to list analysis history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list history",
		})
	}

	if records == nil {
		records = []models.AnalysisRecord{}
	}

	return c.JSON(fiber.Map{
		"history": records,
		"count":   len(records),
	})
}

func (h *HistoryHandler) GetAnalysis(c *fiber.Ctx) error {
	id := c.Params("id")

	record, err := h.store.GetAnalysis(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Analysis not found",
			})
		}
		logger.Error("Failed to load analysis", zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load analysis",
		})
	}

	return c.JSON(record)
}

func (h *HistoryHandler) SubmitFeedback(c *fiber.Ctx) error {
	var req struct {
		AnalysisID string `json:"analysis_id"`
		Accurate   bool   `json:"accurate"`
		Comment    string `json:"comment"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.AnalysisID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "analysis_id is required",
		})
	}

	if _, err := h.store.GetAnalysis(req.AnalysisID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Analysis not found",
			})
		}
		logger.Error("Failed to load analysis", zap.String("id", req.AnalysisID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store feedback",
		})
	}

	feedback := &models.Feedback{
		AnalysisID: req.AnalysisID,
		Accurate:   req.Accurate,
		Comment:    req.Comment,
	}

	if err := h.store.StoreFeedback(feedback); err != nil {
		logger.Error("Failed to store feedback", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store feedback",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "recorded",
	})
}

func (h *HistoryHandler) ClearHistory(c *fiber.Ctx) error {
	if err := h.store.ClearHistory(); err != nil {
		logger.Error("Failed to clear analysis history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to clear history",
		})
	}

	return c.JSON(fiber.Map{
		"status": "cleared",
	})
}
