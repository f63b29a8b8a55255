package vedic

import (
	"math"
	"time"

	"github.com/btr-engine/backend/internal/astro"
)

const (
	ayanamsaAtJ2000 = 23.85709
	precessionRate  = 0.013969 // degrees per year
	yearMillis      = 365.25 * 24 * 3600 * 1000
)

var ayanamsaEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Ayanamsa is a linear Lahiri model anchored at 2000-01-01. It is an
// approximation and is not meant to match an ephemeris to the arcsecond.
func Ayanamsa(t time.Time) float64 {
	years := float64(t.Sub(ayanamsaEpoch).Milliseconds()) / yearMillis
	return ayanamsaAtJ2000 + precessionRate*years
}

// Sidereal converts a tropical longitude into the sidereal zodiac.
func Sidereal(tropical, ayanamsa float64) float64 {
	return astro.Normalize(tropical - ayanamsa)
}

// Lagna returns the sidereal ascendant for an instant and observer.
func Lagna(p astro.Provider, t time.Time, lat, lon, ayanamsa float64) float64 {
	gast := p.SiderealTime(t)
	lst := math.Mod(gast*15+lon+360, 360) * math.Pi / 180

	eps := p.Obliquity(t) * math.Pi / 180
	phi := lat * math.Pi / 180

	y := math.Cos(lst)
	x := -(math.Sin(lst)*math.Cos(eps) + math.Tan(phi)*math.Sin(eps))

	tropical := math.Atan2(y, x) * 180 / math.Pi
	if tropical < 0 {
		tropical += 360
	}
	return astro.Normalize(tropical - ayanamsa)
}
