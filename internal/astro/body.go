package astro

import "time"

type Body int

const (
	Sun Body = iota
	Moon
	Mars
	Mercury
	Jupiter
	Venus
	Saturn
	Rahu
	Ketu
)

const BodyCount = 9

var bodyNames = [BodyCount]string{"Sun", "Moon", "Mars", "Mercury", "Jupiter", "Venus", "Saturn", "Rahu", "Ketu"}

func (b Body) String() string {
	if b < 0 || int(b) >= BodyCount {
		return "Unknown"
	}
	return bodyNames[b]
}

// IsNode reports whether b is one of the lunar-node pseudo-bodies.
func (b Body) IsNode() bool {
	return b == Rahu || b == Ketu
}

func AllBodies() [BodyCount]Body {
	return [BodyCount]Body{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn, Rahu, Ketu}
}

func ParseBody(name string) (Body, bool) {
	for i, n := range bodyNames {
		if n == name {
			return Body(i), true
		}
	}
	return 0, false
}

type CelestialBody struct {
	Body       Body    `json:"body"`
	Name       string  `json:"name"`
	Longitude  float64 `json:"tropical_longitude"`
	Retrograde bool    `json:"retrograde"`
}

// Positions is indexed by Body.
type Positions [BodyCount]CelestialBody

func (p Positions) Of(b Body) CelestialBody {
	return p[b]
}

type Observer struct {
	Latitude  float64
	Longitude float64
}

// Provider is the ephemeris surface the sidereal core depends on.
type Provider interface {
	Positions(t time.Time) Positions
	Sunrise(obs Observer, t time.Time) (time.Time, bool)
	SiderealTime(t time.Time) float64
	Obliquity(t time.Time) float64
}
