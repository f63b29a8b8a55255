package vedic

import (
	"time"

	"github.com/btr-engine/backend/internal/astro"
)

// Chart is the sidereal snapshot of one instant. It is built once and never
// mutated.
type Chart struct {
	Instant            time.Time                  `json:"instant"`
	Ayanamsa           float64                    `json:"ayanamsa"`
	Lagna              Placement                  `json:"lagna"`
	Bodies             [astro.BodyCount]Placement `json:"bodies"`
	Pranapada          Placement                  `json:"pranapada"`
	PranapadaAvailable bool                       `json:"pranapada_available"`
	Sunrise            time.Time                  `json:"sunrise,omitempty"`
	SunriseAvailable   bool                       `json:"sunrise_available"`
}

func (c *Chart) Body(b astro.Body) Placement {
	return c.Bodies[b]
}

// Placements returns lagna, the nine bodies, then Pranapada.
func (c *Chart) Placements() []Placement {
	out := make([]Placement, 0, astro.BodyCount+2)
	out = append(out, c.Lagna)
	out = append(out, c.Bodies[:]...)
	out = append(out, c.Pranapada)
	return out
}

// NewChart assembles a chart from already formatted placements.
func NewChart(instant time.Time, ayanamsa float64, lagna Placement, bodies [astro.BodyCount]Placement, pranapada Placement) *Chart {
	return &Chart{
		Instant:            instant,
		Ayanamsa:           ayanamsa,
		Lagna:              lagna,
		Bodies:             bodies,
		Pranapada:          pranapada,
		PranapadaAvailable: true,
	}
}

// BuildChart computes the full sidereal chart for a UTC instant.
func BuildChart(p astro.Provider, t time.Time, obs astro.Observer) *Chart {
	ayanamsa := Ayanamsa(t)
	lagnaDeg := Lagna(p, t, obs.Latitude, obs.Longitude, ayanamsa)
	positions := p.Positions(t)

	var bodies [astro.BodyCount]Placement
	for _, b := range astro.AllBodies() {
		cb := positions.Of(b)
		bodies[b] = FormatPlacement(b.String(), cb.Longitude, cb.Retrograde, ayanamsa, false)
	}

	sunSidereal := Sidereal(positions.Of(astro.Sun).Longitude, ayanamsa)
	chart := &Chart{
		Instant:  t,
		Ayanamsa: ayanamsa,
		Lagna:    FormatPlacement(LagnaName, lagnaDeg, false, 0, true),
		Bodies:   bodies,
	}

	ppLon := sunSidereal
	if rise, ok := p.Sunrise(obs, t); ok {
		chart.Sunrise = rise
		chart.SunriseAvailable = true
		chart.PranapadaAvailable = true
		ppLon = PranapadaFromSunrise(t, rise, sunSidereal)
	}
	chart.Pranapada = FormatPlacement(PranapadaName, ppLon, false, ayanamsa, false)
	return chart
}
