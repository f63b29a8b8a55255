package search

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/btr-engine/backend/pkg/logger"
)

const (
	SweepHalfWidth = 600 * time.Second
	SweepStep      = 15 * time.Second
	// SuggestionFloor is the top confidence below which no suggestions are made.
	SuggestionFloor = 50
	suggestionCount = 3
)

type Candidate struct {
	Offset       int     `json:"offset_seconds"`
	LocalTime    string  `json:"local_time"`
	ChecksPassed int     `json:"checks_passed"`
	GenderMatch  bool    `json:"gender_match"`
	KundaMatch   bool    `json:"kunda_match"`
	Confidence   int     `json:"confidence"`
	Body         string  `json:"vighatika_body"`
	Result       *Result `json:"result,omitempty"`
}

type Sweep struct {
	Candidates  []Candidate `json:"candidates"`
	Suggestions []Candidate `json:"suggestions"`
}

// Confidence scores a sweep candidate. A gender match starts at 50, adds 20
// for Kunda and 7.5 per passing check; otherwise the checks alone scale to
// 30. The result is clamped to [0,100].
func Confidence(genderMatch, kundaMatch bool, checksPassed int) float64 {
	var c float64
	if genderMatch {
		c = 50
		if kundaMatch {
			c += 20
		}
		c += 7.5 * float64(checksPassed)
	} else {
		c = 30 * float64(checksPassed) / 4
	}
	return math.Max(0, math.Min(100, c))
}

func newCandidate(in *Input, r *Result) Candidate {
	c := Candidate{
		Offset:       int(r.Instant.Sub(in.Instant) / time.Second),
		LocalTime:    r.LocalTime,
		ChecksPassed: r.Report.Score,
		GenderMatch:  r.GenderMatch,
		KundaMatch:   r.Kunda.Match,
		Body:         "-",
		Result:       r,
	}
	if r.Vighatika != nil {
		c.Body = r.Vighatika.Body
	}
	c.Confidence = int(math.Round(Confidence(c.GenderMatch, c.KundaMatch, c.ChecksPassed)))
	return c
}

// rank sorts by confidence, keeping scan order among equals, and picks the
// suggestions.
func rank(candidates []Candidate) *Sweep {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	s := &Sweep{Candidates: candidates}
	if len(candidates) > 0 && candidates[0].Confidence >= SuggestionFloor {
		n := suggestionCount
		if len(candidates) < n {
			n = len(candidates)
		}
		s.Suggestions = candidates[:n]
	}
	return s
}

// SweepWindow evaluates the 81 instants within ±10 minutes of the request and
// ranks them. visit, if not nil, sees each candidate in scan order.
func (e *Engine) SweepWindow(in *Input, visit func(Candidate)) *Sweep {
	rise := e.sunriseFor(in, in.Instant)
	n := int(2*SweepHalfWidth/SweepStep) + 1
	candidates := make([]Candidate, 0, n)

	for off := -SweepHalfWidth; off <= SweepHalfWidth; off += SweepStep {
		c := newCandidate(in, e.evaluate(in, in.Instant.Add(off), rise))
		if visit != nil {
			visit(c)
		}
		candidates = append(candidates, c)
	}

	s := rank(candidates)
	logger.Debug("Sweep finished",
		zap.Int("candidates", len(s.Candidates)),
		zap.Int("top_confidence", s.Candidates[0].Confidence),
		zap.Int("suggestions", len(s.Suggestions)),
	)
	return s
}
