package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/btr-engine/backend/internal/audit"
	rediscache "github.com/btr-engine/backend/internal/cache/redis"
	"github.com/btr-engine/backend/internal/marriage"
	"github.com/btr-engine/backend/internal/metrics"
	"github.com/btr-engine/backend/internal/rectification"
	"github.com/btr-engine/backend/internal/search"
)

type cacheKey struct {
	Op      string         `json:"op"`
	Request search.Request `json:"request"`
	Extra   any            `json:"extra,omitempty"`
}

type ChartHandler struct {
	engine *search.Engine
	cache  Cache
}

func NewChartHandler(engine *search.Engine, cache Cache) *ChartHandler {
	return &ChartHandler{
		engine: engine,
		cache:  cache,
	}
}

func (h *ChartHandler) calculate(in *search.Input) *search.Result {
	res := h.engine.Calculate(in)
	metrics.RectifiedTotal.WithLabelValues(strconv.FormatBool(res.Report.IsRectified)).Inc()
	return res
}

// Calculate returns the chart, Jaimini and Tattwa parts and the rectification
// report for the submitted birth time.
func (h *ChartHandler) Calculate(c *fiber.Ctx) error {
	in, req, err := birthInput(c)
	if err != nil {
		return writeError(c, err)
	}

	return serveCached(c, h.cache, rediscache.KindChart, cacheKey{Op: "chart", Request: req}, func() (any, error) {
		return track("chart", func() (any, error) {
			return h.calculate(in), nil
		})
	})
}

func (h *ChartHandler) Marriage(c *fiber.Ctx) error {
	in, _, err := birthInput(c)
	if err != nil {
		return writeError(c, err)
	}

	report, _ := track("marriage", func() (*marriage.Report, error) {
		return marriage.Analyze(h.engine.Calculate(in).Chart), nil
	})
	return c.JSON(fiber.Map{
		"local_time": in.Local(in.Instant).Format(search.TimeLayout),
		"report":     report,
	})
}

// Audit calculates the chart and lays the reviewer's overrides over the four
// verdict rows.
func (h *ChartHandler) Audit(c *fiber.Ctx) error {
	in, _, err := birthInput(c)
	if err != nil {
		return writeError(c, err)
	}

	var body struct {
		Overrides map[string]string `json:"overrides"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	overrides, err := audit.ParseOverrides(body.Overrides)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	res := h.calculate(in)
	return c.JSON(fiber.Map{
		"local_time":   res.LocalTime,
		"is_rectified": res.Report.IsRectified,
		"panel":        audit.Evaluate(res, in.Gender, overrides),
	})
}

func (h *ChartHandler) Sounds(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"default": rectification.DefaultSound,
		"sounds":  rectification.Sounds(),
	})
}
