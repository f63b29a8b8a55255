package astro

import (
	"math"
	"time"
)

const (
	unixEpochJD = 2440587.5
	j2000JD     = 2451545.0
	msPerDay    = 86400000.0
	degToRad    = math.Pi / 180
	radToDeg    = 180 / math.Pi
)

func JulianDay(t time.Time) float64 {
	return float64(t.UnixMilli())/msPerDay + unixEpochJD
}

// JulianCenturies returns centuries since J2000.0.
func JulianCenturies(t time.Time) float64 {
	return (JulianDay(t) - j2000JD) / 36525
}

// MeanObliquity returns the mean obliquity of the ecliptic in degrees.
func MeanObliquity(t time.Time) float64 {
	return 23.4392911 - 46.8150*JulianCenturies(t)/3600
}

// LunarNodes returns the mean Rahu and Ketu longitudes. Ketu is always exactly opposite.
func LunarNodes(t time.Time) (rahu, ketu float64) {
	rahu = Normalize(125.04452 - 1934.13626*JulianCenturies(t))
	ketu = math.Mod(rahu+180, 360)
	return rahu, ketu
}

// Normalize folds an angle into [0,360).
func Normalize(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg -= 360
	}
	return deg
}

func sinDeg(x float64) float64 { return math.Sin(x * degToRad) }
func cosDeg(x float64) float64 { return math.Cos(x * degToRad) }

func atan2Deg(y, x float64) float64 { return Normalize(math.Atan2(y, x) * radToDeg) }
