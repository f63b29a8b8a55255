package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/btr-engine/backend/internal/metrics"
	"github.com/btr-engine/backend/internal/search"
	"github.com/btr-engine/backend/internal/storage/models"
	"github.com/btr-engine/backend/internal/storage/sqlite"
	"github.com/btr-engine/backend/pkg/logger"
)

// NativeStore persists birth profiles.
type NativeStore interface {
	SaveNative(n *models.Native) error
	GetNative(id string) (*models.Native, error)
	ListNatives(limit int) ([]models.Native, error)
	DeleteNative(id string) error
}

type NativesHandler struct {
	store  NativeStore
	engine *search.Engine
}

func NewNativesHandler(store NativeStore, engine *search.Engine) *NativesHandler {
	return &NativesHandler{
		store:  store,
		engine: engine,
	}
}

func (h *NativesHandler) List(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "100"))
	if err != nil || limit <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be a positive integer",
		})
	}

	natives, err := h.store.ListNatives(limit)
	if err != nil {
		logger.Error("Failed to list natives", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list natives",
		})
	}
	if natives == nil {
		natives = []models.Native{}
	}
	metrics.NativesStored.Set(float64(len(natives)))

	return c.JSON(fiber.Map{
		"natives": natives,
	})
}

// Save validates the birth data before storing it, so every saved native can
// be calculated.
func (h *NativesHandler) Save(c *fiber.Ctx) error {
	var n models.Native
	if err := c.BodyParser(&n); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req := n.Request()
	in, err := req.Validate()
	if err != nil {
		return writeError(c, err)
	}
	n.Gender = string(in.Gender)

	if err := h.store.SaveNative(&n); err != nil {
		logger.Error("Failed to save native", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save native",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(n)
}

func (h *NativesHandler) get(c *fiber.Ctx) (*models.Native, error) {
	n, err := h.store.GetNative(c.Params("id"))
	if errors.Is(err, sqlite.ErrNotFound) {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Native not found",
		})
	}
	if err != nil {
		logger.Error("Failed to get native", zap.String("native_id", c.Params("id")), zap.Error(err))
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get native",
		})
	}
	return n, nil
}

func (h *NativesHandler) Get(c *fiber.Ctx) error {
	n, err := h.get(c)
	if n == nil {
		return err
	}
	return c.JSON(n)
}

// Chart calculates a saved native at its stored birth time.
func (h *NativesHandler) Chart(c *fiber.Ctx) error {
	n, err := h.get(c)
	if n == nil {
		return err
	}

	in, err := n.Request().Validate()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"native": n,
		"result": h.engine.Calculate(in),
	})
}

func (h *NativesHandler) Delete(c *fiber.Ctx) error {
	err := h.store.DeleteNative(c.Params("id"))
	if errors.Is(err, sqlite.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Native not found",
		})
	}
	if err != nil {
		logger.Error("Failed to delete native", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete native",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
