package handlers

import (
	"github.com/gofiber/fiber/v2"

	rediscache "github.com/btr-engine/backend/internal/cache/redis"
	"github.com/btr-engine/backend/internal/jaimini"
	"github.com/btr-engine/backend/internal/metrics"
	"github.com/btr-engine/backend/internal/search"
)

type RectifyHandler struct {
	engine *search.Engine
	cache  Cache
}

func NewRectifyHandler(engine *search.Engine, cache Cache) *RectifyHandler {
	return &RectifyHandler{
		engine: engine,
		cache:  cache,
	}
}

// compact drops the per-candidate chart so a sweep stays small on the wire.
func compact(s *search.Sweep) *search.Sweep {
	out := &search.Sweep{
		Candidates:  make([]search.Candidate, len(s.Candidates)),
		Suggestions: make([]search.Candidate, len(s.Suggestions)),
	}
	for i, c := range s.Candidates {
		c.Result = nil
		out.Candidates[i] = c
	}
	for i, c := range s.Suggestions {
		c.Result = nil
		out.Suggestions[i] = c
	}
	return out
}

func (h *RectifyHandler) AutoCorrect(c *fiber.Ctx) error {
	in, _, err := birthInput(c)
	if err != nil {
		return writeError(c, err)
	}

	var body struct {
		Direction int `json:"direction"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	corr, err := track("autocorrect", func() (*search.Correction, error) {
		return h.engine.AutoCorrect(in, body.Direction)
	})
	if err != nil {
		return writeError(c, err)
	}
	metrics.CandidatesEvaluated.WithLabelValues("autocorrect").Add(float64(corr.Evaluated))

	return c.JSON(fiber.Map{
		"found":      true,
		"correction": corr,
	})
}

func (h *RectifyHandler) Sweep(c *fiber.Ctx) error {
	in, req, err := birthInput(c)
	if err != nil {
		return writeError(c, err)
	}

	return serveCached(c, h.cache, rediscache.KindSweep, cacheKey{Op: "sweep", Request: req}, func() (any, error) {
		return track("sweep", func() (any, error) {
			s := h.engine.SweepWindow(in, nil)
			metrics.CandidatesEvaluated.WithLabelValues("sweep").Add(float64(len(s.Candidates)))
			metrics.ConfidenceScore.Observe(float64(s.Candidates[0].Confidence))
			return compact(s), nil
		})
	})
}

func (h *RectifyHandler) Pranapada(c *fiber.Ctx) error {
	in, _, err := birthInput(c)
	if err != nil {
		return writeError(c, err)
	}

	fix, err := track("pranapada", func() (*search.PranapadaFix, error) {
		return h.engine.AutoFixPranapada(in)
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"found": true,
		"fix":   fix,
	})
}

func (h *RectifyHandler) MicroScan(c *fiber.Ctx) error {
	in, _, err := birthInput(c)
	if err != nil {
		return writeError(c, err)
	}

	slits, err := track("microscan", func() ([]jaimini.Slit, error) {
		return h.engine.MicroScanFor(in)
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"found": true,
		"slits": slits,
	})
}

func (h *RectifyHandler) Timeline(c *fiber.Ctx) error {
	in, _, err := birthInput(c)
	if err != nil {
		return writeError(c, err)
	}

	tl, _ := track("timeline", func() (*search.Timeline, error) {
		return h.engine.Timeline(in), nil
	})
	return c.JSON(tl)
}
