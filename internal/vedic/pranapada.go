package vedic

import (
	"math"
	"time"

	"github.com/btr-engine/backend/internal/astro"
)

const (
	pranapadaDegPerHour = 300.0
	day                 = 24 * time.Hour
)

// Pranapada looks up sunrise and computes the Pranapada longitude. When no
// sunrise exists the Sun's sidereal longitude is returned with ok=false.
func Pranapada(p astro.Provider, t time.Time, obs astro.Observer, sunSidereal float64) (float64, bool) {
	rise, ok := p.Sunrise(obs, t)
	if !ok {
		return astro.Normalize(sunSidereal), false
	}
	return PranapadaFromSunrise(t, rise, sunSidereal), true
}

func PranapadaFromSunrise(t, sunrise time.Time, sunSidereal float64) float64 {
	sunSidereal = astro.Normalize(sunSidereal)

	diff := t.Sub(sunrise)
	if diff < 0 {
		diff += day
	}
	movement := diff.Hours() * pranapadaDegPerHour

	var adjustment float64
	switch NatureOf(int(math.Floor(sunSidereal / 30))) {
	case Fixed:
		adjustment = 240
	case Dual:
		adjustment = 120
	}
	return math.Mod(sunSidereal+adjustment+movement, 360)
}
