package handlers

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/ecolabel/backend/internal/analysis"
	"github.com/ecolabel/backend/internal/ocr"
	"github.com/ecolabel/backend/pkg/logger"
)

// LiveHandler streams analysis progress over a websocket so mobile
// clients can show pipeline stages while OCR is running.
type LiveHandler struct {
	engine *analysis.Engine
}

func NewLiveHandler(engine *analysis.Engine) *LiveHandler {
	return &LiveHandler{
		engine: engine,
	}
}

func (h *LiveHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type     string `json:"type"`
			Image    string `json:"image"`
			Provider string `json:"provider"`
		}

		err := c.ReadJSON(&msg)
		if err != nil {
			logger.Error("Failed to read WebSocket message", zap.Error(err))
			break
		}

		if msg.Type != "analyze" {
			continue
		}

		err = h.streamAnalysis(c, msg.Image, msg.Provider)
		if err != nil {
			logger.Error("Failed to stream analysis", zap.Error(err))
			h.sendError(c, "Failed to analyze image")
		}
	}
}

func (h *LiveHandler) streamAnalysis(c *websocket.Conn, encodedImage, provider string) error {
	ctx := context.Background()

	image, err := ocr.DecodeImage(encodedImage)
	if err != nil {
		h.sendError(c, "Invalid image data")
		return nil
	}

	h.sendStage(c, "received")

	response, err := h.engine.AnalyzeImageWithProgress(ctx, image, provider, func(stage string) {
		h.sendStage(c, stage)
	})
	if err != nil {
		return err
	}

	return c.WriteJSON(map[string]interface{}{
		"type":     "result",
		"analysis": response,
	})
}

func (h *LiveHandler) sendStage(c *websocket.Conn, stage string) {
	msg := map[string]interface{}{
		"type":  "stage",
		"stage": stage,
	}

	if err := c.WriteJSON(msg); err != nil {
		logger.Warn("Failed to send stage update", zap.Error(err))
	}
}

func (h *LiveHandler) sendError(c *websocket.Conn, errorMsg string) {
	msg := map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	}

	c.WriteJSON(msg)
}
