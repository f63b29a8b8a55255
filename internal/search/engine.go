// Package search drives the chart pipeline over candidate instants: a single
// calculation, directional auto-correct, the fixed-window sweep, the
// Pranapada nearest-match scan, the Jaimini micro-scan and the timeline map.
package search

import (
	"time"

	"github.com/btr-engine/backend/internal/astro"
	"github.com/btr-engine/backend/internal/jaimini"
	"github.com/btr-engine/backend/internal/rectification"
	"github.com/btr-engine/backend/internal/tattwa"
	"github.com/btr-engine/backend/internal/vedic"
)

type Engine struct {
	provider astro.Provider
}

func NewEngine(provider astro.Provider) *Engine {
	return &Engine{provider: provider}
}

// Result is everything derived for one instant.
type Result struct {
	Instant     time.Time                `json:"instant"`
	LocalTime   string                   `json:"local_time"`
	Chart       *vedic.Chart             `json:"chart"`
	Vighatika   *jaimini.VighatikaResult `json:"vighatika,omitempty"`
	Sex         *jaimini.SexResult       `json:"sex,omitempty"`
	Tattwa      *tattwa.Result           `json:"tattwa,omitempty"`
	Kunda       tattwa.KundaResult       `json:"kunda"`
	Report      *rectification.Report    `json:"report"`
	GenderMatch bool                     `json:"gender_match"`
}

// SunriseAvailable reports whether the Jaimini and Tattwa parts were computed.
func (r *Result) SunriseAvailable() bool {
	return r.Vighatika != nil
}

type sunrise struct {
	at time.Time
	ok bool
}

func (e *Engine) sunriseFor(in *Input, t time.Time) *sunrise {
	at, ok := e.provider.Sunrise(in.Observer, t)
	return &sunrise{at: at, ok: ok}
}

// evaluate runs the pipeline for one instant. Scans pass the sunrise of their
// start instant so the Vighatika cycle is not re-anchored per candidate; a nil
// rise uses the chart's own sunrise.
func (e *Engine) evaluate(in *Input, t time.Time, rise *sunrise) *Result {
	chart := vedic.BuildChart(e.provider, t, in.Observer)
	lagnaSign := chart.Lagna.SignIdx
	if rise == nil {
		rise = &sunrise{at: chart.Sunrise, ok: chart.SunriseAvailable}
	}

	res := &Result{
		Instant:   t,
		LocalTime: in.Local(t).Format(TimeLayout),
		Chart:     chart,
		Kunda:     tattwa.Kunda(chart.Lagna.SiderealLon, chart.Body(astro.Moon).SiderealLon),
		Report:    rectification.Analyze(chart, in.Meta),
	}

	if rise.ok {
		vig := jaimini.Vighatika(t, rise.at)
		sex := jaimini.DetermineSex(vig.BodyIndex, false, false, lagnaSign)
		tw := tattwa.Tattwa(t, in.Local(rise.at))
		res.Vighatika = &vig
		res.Sex = &sex
		res.Tattwa = &tw
		res.GenderMatch = sex.Sex == in.Gender
	}
	return res
}

// Calculate evaluates the request's own instant.
func (e *Engine) Calculate(in *Input) *Result {
	return e.evaluate(in, in.Instant, nil)
}

// MicroScan lists the Vighatika slits around a base instant.
func MicroScan(vighatika float64, base time.Time, lagnaSign int) []jaimini.Slit {
	return jaimini.MicroScan(vighatika, base, lagnaSign)
}

// MicroScanFor calculates the request and scans around its Vighatika.
func (e *Engine) MicroScanFor(in *Input) ([]jaimini.Slit, error) {
	res := e.Calculate(in)
	if !res.SunriseAvailable() {
		return nil, astro.ErrNoSunrise
	}
	return MicroScan(res.Vighatika.TotalVighatikas, in.Instant, res.Chart.Lagna.SignIdx), nil
}
