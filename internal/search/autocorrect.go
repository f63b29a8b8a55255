package search

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/btr-engine/backend/internal/rectification"
	"github.com/btr-engine/backend/pkg/logger"
)

const (
	AutoCorrectStep  = 5 * time.Second
	AutoCorrectSteps = 120
	// MaxAutoCorrectScore ends a scan early.
	MaxAutoCorrectScore = 5.5

	weightGender = 1.0
	weightKunda  = 1.0
	weightKetu   = 1.5
	weightName   = 1.0
	weightPP     = 1.0
)

type Correction struct {
	Instant   time.Time `json:"instant"`
	LocalTime string    `json:"local_time"`
	Offset    int       `json:"offset_seconds"`
	Score     float64   `json:"score"`
	Evaluated int       `json:"evaluated"`
	Result    *Result   `json:"result"`
}

// AutoCorrectScore weighs one evaluated instant out of MaxAutoCorrectScore.
// The Arudha check is not part of it.
func AutoCorrectScore(r *Result) float64 {
	var score float64
	if r.GenderMatch {
		score += weightGender
	}
	if r.Kunda.Match {
		score += weightKunda
	}
	if r.Report.Passed(rectification.CheckKetu) {
		score += weightKetu
	}
	if r.Report.Passed(rectification.CheckName) {
		score += weightName
	}
	if r.Report.Passed(rectification.CheckPP) {
		score += weightPP
	}
	return score
}

type scanResult[T any] struct {
	best      time.Time
	score     float64
	value     T
	evaluated int
	found     bool
}

// scanDirection steps away from start and keeps the best scoring instant with
// its evaluated value, stopping at the first one that reaches
// MaxAutoCorrectScore.
func scanDirection[T any](start time.Time, direction, steps int, step time.Duration, eval func(time.Time) (float64, T)) scanResult[T] {
	res := scanResult[T]{score: -1}
	for i := 1; i <= steps; i++ {
		t := start.Add(time.Duration(i*direction) * step)
		s, v := eval(t)
		res.evaluated++
		if s > res.score {
			res.score = s
			res.best = t
			res.value = v
			res.found = true
		}
		if s >= MaxAutoCorrectScore {
			break
		}
	}
	return res
}

// AutoCorrect scans up to ten minutes forward (direction 1) or backward (-1)
// for the best scoring instant.
func (e *Engine) AutoCorrect(in *Input, direction int) (*Correction, error) {
	return e.autoCorrect(in, direction, AutoCorrectSteps)
}

func (e *Engine) autoCorrect(in *Input, direction, steps int) (*Correction, error) {
	if direction != 1 && direction != -1 {
		return nil, fmt.Errorf("%w: direction must be 1 or -1, got %d", ErrIncompleteInput, direction)
	}

	rise := e.sunriseFor(in, in.Instant)
	scan := scanDirection(in.Instant, direction, steps, AutoCorrectStep, func(t time.Time) (float64, *Result) {
		r := e.evaluate(in, t, rise)
		return AutoCorrectScore(r), r
	})

	logger.Debug("Auto-correct scan finished",
		zap.Int("direction", direction),
		zap.Int("evaluated", scan.evaluated),
		zap.Float64("best_score", scan.score),
	)

	if !scan.found {
		return nil, fmt.Errorf("auto-correct found no candidate: %w", ErrNoResult)
	}
	return &Correction{
		Instant:   scan.best,
		LocalTime: in.Local(scan.best).Format(TimeLayout),
		Offset:    int(scan.best.Sub(in.Instant) / time.Second),
		Score:     scan.score,
		Evaluated: scan.evaluated,
		Result:    scan.value,
	}, nil
}
