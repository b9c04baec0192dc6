package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ecolabel/backend/internal/catalog"
	"github.com/ecolabel/backend/pkg/logger"
)

type MaterialsHandler struct {
	loader *catalog.Loader
}

func NewMaterialsHandler(loader *catalog.Loader) *MaterialsHandler {
	return &MaterialsHandler{
		loader: loader,
	}
}

func (h *MaterialsHandler) ListMaterials(c *fiber.Ctx) error {
	db, degraded := h.loadCatalog(c)

	return c.JSON(fiber.Map{
		"materials": db.Materials,
		"degraded":  degraded,
	})
}

func (h *MaterialsHandler) GetMaterial(c *fiber.Ctx) error {
	id := c.Params("id")

	db, _ := h.loadCatalog(c)

	material, ok := db.FindByID(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Material not found",
		})
	}

	return c.JSON(material)
}

func (h *MaterialsHandler) ListCertifications(c *fiber.Ctx) error {
	db, degraded := h.loadCatalog(c)

	return c.JSON(fiber.Map{
		"certifications": db.Certifications,
		"degraded":       degraded,
	})
}

func (h *MaterialsHandler) loadCatalog(c *fiber.Ctx) (*catalog.MaterialsDatabase, bool) {
	db, err := h.loader.Load(c.Context())
	if err != nil {
		logger.Error("Materials database load failed, using fallback catalog", zap.Error(err))
		return catalog.FallbackDatabase(), true
	}
	return db, false
}
