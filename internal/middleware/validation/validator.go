package validation

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/btr-engine/backend/internal/search"
)

const (
	requestKey = "birth_request"
	inputKey   = "birth_input"
)

const maxNameLength = 200

type Config struct {
	// BirthPaths are path prefixes whose JSON body is birth data.
	BirthPaths          []string
	AllowedContentTypes []string
	Logger              *zap.Logger
}

// Middleware rejects unsupported content types and, for birth-data routes,
// validates the body once and stores the result for the handler.
func Middleware(cfg Config) fiber.Handler {
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = []string{"application/json"}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost && c.Method() != fiber.MethodPut {
			return c.Next()
		}

		contentType := c.Get(fiber.HeaderContentType)
		if contentType != "" && !allowed(contentType, cfg.AllowedContentTypes) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
				"error": "Unsupported content type",
			})
		}

		if !matches(c.Path(), cfg.BirthPaths) {
			return c.Next()
		}

		var req search.Request
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid JSON format",
			})
		}

		req.Name = sanitizeString(req.Name)
		if len(req.Name) > maxNameLength {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Name exceeds maximum length",
			})
		}

		in, err := req.Validate()
		if err != nil {
			if !errors.Is(err, search.ErrIncompleteInput) {
				cfg.Logger.Error("Unexpected validation error", zap.Error(err))
			}
			cfg.Logger.Debug("Birth input rejected",
				zap.String("ip", c.IP()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		c.Locals(requestKey, req)
		c.Locals(inputKey, in)
		return c.Next()
	}
}

// Input returns the birth input validated for this request.
func Input(c *fiber.Ctx) (*search.Input, bool) {
	in, ok := c.Locals(inputKey).(*search.Input)
	return in, ok
}

// Request returns the sanitized birth request for this request.
func Request(c *fiber.Ctx) (search.Request, bool) {
	req, ok := c.Locals(requestKey).(search.Request)
	return req, ok
}

func allowed(contentType string, types []string) bool {
	for _, t := range types {
		if strings.Contains(contentType, t) {
			return true
		}
	}
	return false
}

func matches(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func sanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	return input
}
