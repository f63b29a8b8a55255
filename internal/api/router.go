package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/btr-engine/backend/internal/api/handlers"
	"github.com/btr-engine/backend/internal/metrics"
	"github.com/btr-engine/backend/internal/middleware/validation"
	"github.com/btr-engine/backend/internal/search"
)

const prefix = "/api/v1"

// birthRoutes take a birth request body and are validated by middleware.
var birthRoutes = []string{
	prefix + "/chart",
	prefix + "/rectify/",
	prefix + "/audit",
	prefix + "/marriage",
}

type Deps struct {
	Engine *search.Engine
	Store  handlers.NativeStore
	// Cache may be nil.
	Cache handlers.Cache
	// Ready reports whether backing stores are reachable.
	Ready func() error
	// CacheStatus reports the cache breaker state; nil means no cache.
	CacheStatus func() string
	Logger      *zap.Logger
}

func Register(app *fiber.App, d Deps) {
	chartHandler := handlers.NewChartHandler(d.Engine, d.Cache)
	rectifyHandler := handlers.NewRectifyHandler(d.Engine, d.Cache)
	nativesHandler := handlers.NewNativesHandler(d.Store, d.Engine)
	wsHandler := handlers.NewWebSocketHandler(d.Engine)

	app.Get("/metrics", metrics.MetricsHandler())

	api := app.Group(prefix)
	api.Use(validation.Middleware(validation.Config{
		BirthPaths: birthRoutes,
		Logger:     d.Logger,
	}))

	api.Post("/chart", chartHandler.Calculate)
	api.Post("/audit", chartHandler.Audit)
	api.Post("/marriage", chartHandler.Marriage)
	api.Get("/sounds", chartHandler.Sounds)

	rectify := api.Group("/rectify")
	rectify.Post("/autocorrect", rectifyHandler.AutoCorrect)
	rectify.Post("/sweep", rectifyHandler.Sweep)
	rectify.Post("/pranapada", rectifyHandler.Pranapada)
	rectify.Post("/microscan", rectifyHandler.MicroScan)
	rectify.Post("/timeline", rectifyHandler.Timeline)

	api.Get("/natives", nativesHandler.List)
	api.Post("/natives", nativesHandler.Save)
	api.Get("/natives/:id", nativesHandler.Get)
	api.Get("/natives/:id/chart", nativesHandler.Chart)
	api.Delete("/natives/:id", nativesHandler.Delete)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	api.Get("/ws/sweep", websocket.New(wsHandler.HandleConnection))

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "unavailable",
					"error":  err.Error(),
				})
			}
		}
		cache := "disabled"
		if d.CacheStatus != nil {
			cache = d.CacheStatus()
		}
		return c.JSON(fiber.Map{
			"status": "ready",
			"cache":  cache,
		})
	})
}
