package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/btr-engine/backend/internal/metrics"
	"github.com/btr-engine/backend/internal/search"
	"github.com/btr-engine/backend/pkg/logger"
)

type WebSocketHandler struct {
	engine *search.Engine
}

func NewWebSocketHandler(engine *search.Engine) *WebSocketHandler {
	return &WebSocketHandler{
		engine: engine,
	}
}

type sweepMessage struct {
	Type string `json:"type"`
	search.Request
}

// parseSweepMessage decodes a client frame. Frames of other types are
// reported as (nil, nil) and ignored.
func parseSweepMessage(data []byte) (*search.Input, error) {
	var msg sweepMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: invalid message", search.ErrIncompleteInput)
	}
	if msg.Type != "sweep" {
		return nil, nil
	}
	return msg.Request.Validate()
}

// HandleConnection streams each sweep candidate as it is evaluated, then the
// ranked suggestions.
func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	log := logger.With(zap.String("remote", c.RemoteAddr().String()))
	log.Info("WebSocket connection established")

	defer func() {
		c.Close()
		log.Info("WebSocket connection closed")
	}()

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("Failed to read WebSocket message", zap.Error(err))
			}
			break
		}

		in, err := parseSweepMessage(data)
		if err != nil {
			h.sendError(c, err.Error())
			continue
		}
		if in == nil {
			continue
		}

		log.Info("Processing WebSocket sweep", zap.Time("instant", in.Instant))

		if err := h.streamSweep(c, in); err != nil {
			log.Error("Failed to stream sweep", zap.Error(err))
			return
		}
	}
}

func (h *WebSocketHandler) streamSweep(c *websocket.Conn, in *search.Input) error {
	if err := h.sendStatus(c, "Sweeping ±10 minutes..."); err != nil {
		return err
	}

	// a failed write stops streaming but the sweep itself runs to the end
	var writeErr error
	s := h.engine.SweepWindow(in, func(cand search.Candidate) {
		if writeErr != nil {
			return
		}
		cand.Result = nil
		writeErr = c.WriteJSON(map[string]interface{}{
			"type":      "candidate",
			"candidate": cand,
		})
	})
	if writeErr != nil {
		return writeErr
	}
	metrics.CandidatesEvaluated.WithLabelValues("sweep").Add(float64(len(s.Candidates)))

	return c.WriteJSON(map[string]interface{}{
		"type":        "complete",
		"suggestions": compact(s).Suggestions,
		"top":         s.Candidates[0].Confidence,
	})
}

func (h *WebSocketHandler) sendStatus(c *websocket.Conn, content string) error {
	return c.WriteJSON(map[string]interface{}{
		"type":    "status",
		"content": content,
	})
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, errorMsg string) {
	msg := map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	}

	if err := c.WriteJSON(msg); err != nil {
		logger.Warn("Failed to send WebSocket error", zap.Error(err))
	}
}
