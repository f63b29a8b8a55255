package astro

import (
	"errors"
	"math"
	"time"
)

var ErrNoSunrise = errors.New("sun does not rise at this location and date")

const (
	// Apparent altitude of the solar upper limb at rise, refraction included.
	sunriseAltitude = -0.833
	riseSearchStep  = 10 * time.Minute
	riseSearchSpan  = 24 * time.Hour
)

func (e *Ephemeris) sunAltitude(obs Observer, t time.Time) float64 {
	lambda, _ := sunPosition(dayNumber(t))
	eps := MeanObliquity(t)

	ra := atan2Deg(cosDeg(eps)*sinDeg(lambda), cosDeg(lambda))
	dec := math.Asin(sinDeg(eps)*sinDeg(lambda)) * radToDeg

	lst := e.SiderealTime(t)*15 + obs.Longitude
	ha := lst - ra

	sinAlt := sinDeg(obs.Latitude)*sinDeg(dec) + cosDeg(obs.Latitude)*cosDeg(dec)*cosDeg(ha)
	return math.Asin(math.Max(-1, math.Min(1, sinAlt))) * radToDeg
}

// Sunrise returns the most recent sunrise in the day leading up to t. The
// search anchor is one day before t and walks forward; the second result is
// false when the Sun never crosses the horizon in that span.
func (e *Ephemeris) Sunrise(obs Observer, t time.Time) (time.Time, bool) {
	anchor := t.Add(-riseSearchSpan)

	var (
		found  bool
		latest time.Time
	)
	prevT := anchor
	prevAlt := e.sunAltitude(obs, prevT)
	for cur := anchor.Add(riseSearchStep); !cur.After(t); cur = cur.Add(riseSearchStep) {
		alt := e.sunAltitude(obs, cur)
		if prevAlt < sunriseAltitude && alt >= sunriseAltitude {
			latest = e.refineRise(obs, prevT, cur)
			found = true
		}
		prevT, prevAlt = cur, alt
	}

	// Tail segment when the span is not a whole number of steps.
	if prevT.Before(t) {
		alt := e.sunAltitude(obs, t)
		if prevAlt < sunriseAltitude && alt >= sunriseAltitude {
			latest = e.refineRise(obs, prevT, t)
			found = true
		}
	}

	return latest, found
}

func (e *Ephemeris) refineRise(obs Observer, lo, hi time.Time) time.Time {
	for i := 0; i < 24 && hi.Sub(lo) > time.Millisecond; i++ {
		mid := lo.Add(hi.Sub(lo) / 2)
		if e.sunAltitude(obs, mid) < sunriseAltitude {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}
