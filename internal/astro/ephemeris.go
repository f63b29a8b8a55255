package astro

import (
	"math"
	"time"
)

// retroLookback is the interval used to decide apparent retrograde motion.
const retroLookback = 2 * time.Hour

// Ephemeris is an analytic mean-element model (Kepler orbits plus the principal
// lunar and Jupiter/Saturn perturbations). Accuracy is on the order of an
// arcminute for the planets and a few arcminutes for the Moon.
type Ephemeris struct{}

func NewEphemeris() *Ephemeris {
	return &Ephemeris{}
}

type elements struct {
	N, i, w, a, e, M float64
}

// dayNumber counts days from 2000 Jan 0.0.
func dayNumber(t time.Time) float64 {
	return JulianDay(t) - 2451543.5
}

func sunElements(d float64) elements {
	return elements{
		N: 0, i: 0,
		w: 282.9404 + 4.70935e-5*d,
		a: 1.0,
		e: 0.016709 - 1.151e-9*d,
		M: 356.0470 + 0.9856002585*d,
	}
}

func moonElements(d float64) elements {
	return elements{
		N: 125.1228 - 0.0529538083*d,
		i: 5.1454,
		w: 318.0634 + 0.1643573223*d,
		a: 60.2666,
		e: 0.054900,
		M: 115.3654 + 13.0649929509*d,
	}
}

func planetElements(b Body, d float64) elements {
	switch b {
	case Mercury:
		return elements{48.3313 + 3.24587e-5*d, 7.0047 + 5.00e-8*d, 29.1241 + 1.01444e-5*d, 0.387098, 0.205635 + 5.59e-10*d, 168.6562 + 4.0923344368*d}
	case Venus:
		return elements{76.6799 + 2.46590e-5*d, 3.3946 + 2.75e-8*d, 54.8910 + 1.38374e-5*d, 0.723330, 0.006773 - 1.302e-9*d, 48.0052 + 1.6021302244*d}
	case Mars:
		return elements{49.5574 + 2.11081e-5*d, 1.8497 - 1.78e-8*d, 286.5016 + 2.92961e-5*d, 1.523688, 0.093405 + 2.516e-9*d, 18.6021 + 0.5240207766*d}
	case Jupiter:
		return elements{100.4542 + 2.76854e-5*d, 1.3030 - 1.557e-7*d, 273.8777 + 1.64505e-5*d, 5.20256, 0.048498 + 4.469e-9*d, 19.8950 + 0.0830853001*d}
	case Saturn:
		return elements{113.6634 + 2.38980e-5*d, 2.4886 - 1.081e-7*d, 339.3939 + 2.97661e-5*d, 9.55475, 0.055546 - 9.499e-9*d, 316.9670 + 0.0334442282*d}
	}
	return elements{}
}

func solveKepler(M, e float64) float64 {
	M = Normalize(M)
	E := M + e*radToDeg*sinDeg(M)*(1+e*cosDeg(M))
	for iter := 0; iter < 30; iter++ {
		next := E - (E-e*radToDeg*sinDeg(E)-M)/(1-e*cosDeg(E))
		if math.Abs(next-E) < 1e-7 {
			return next
		}
		E = next
	}
	return E
}

// orbitPosition returns ecliptic longitude, latitude and distance relative to
// the orbit's focus.
func orbitPosition(el elements) (lon, lat, r float64) {
	E := solveKepler(el.M, el.e)
	xv := el.a * (cosDeg(E) - el.e)
	yv := el.a * math.Sqrt(1-el.e*el.e) * sinDeg(E)
	v := atan2Deg(yv, xv)
	r = math.Hypot(xv, yv)

	vw := v + el.w
	xh := r * (cosDeg(el.N)*cosDeg(vw) - sinDeg(el.N)*sinDeg(vw)*cosDeg(el.i))
	yh := r * (sinDeg(el.N)*cosDeg(vw) + cosDeg(el.N)*sinDeg(vw)*cosDeg(el.i))
	zh := r * sinDeg(vw) * sinDeg(el.i)

	lon = atan2Deg(yh, xh)
	lat = math.Atan2(zh, math.Hypot(xh, yh)) * radToDeg
	return lon, lat, r
}

func sunPosition(d float64) (lon, r float64) {
	el := sunElements(d)
	E := solveKepler(el.M, el.e)
	xv := cosDeg(E) - el.e
	yv := math.Sqrt(1-el.e*el.e) * sinDeg(E)
	v := atan2Deg(yv, xv)
	return Normalize(v + el.w), math.Hypot(xv, yv)
}

func moonLongitude(d float64) float64 {
	el := moonElements(d)
	lon, _, _ := orbitPosition(el)

	sun := sunElements(d)
	Ms := Normalize(sun.M)
	Mm := Normalize(el.M)
	Ls := Ms + sun.w
	Lm := Mm + el.w + el.N
	D := Lm - Ls
	F := Lm - el.N

	lon += -1.274*sinDeg(Mm-2*D) +
		0.658*sinDeg(2*D) -
		0.186*sinDeg(Ms) -
		0.059*sinDeg(2*Mm-2*D) -
		0.057*sinDeg(Mm-2*D+Ms) +
		0.053*sinDeg(Mm+2*D) +
		0.046*sinDeg(2*D-Ms) +
		0.041*sinDeg(Mm-Ms) -
		0.035*sinDeg(D) -
		0.031*sinDeg(Mm+Ms) -
		0.015*sinDeg(2*F-2*D) +
		0.011*sinDeg(Mm-4*D)
	return Normalize(lon)
}

func planetLongitude(b Body, d float64) float64 {
	el := planetElements(b, d)
	lon, lat, r := orbitPosition(el)

	Mj := planetElements(Jupiter, d).M
	Msat := planetElements(Saturn, d).M
	switch b {
	case Jupiter:
		lon += -0.332*sinDeg(2*Mj-5*Msat-67.6) -
			0.056*sinDeg(2*Mj-2*Msat+21) +
			0.042*sinDeg(3*Mj-5*Msat+21) -
			0.036*sinDeg(Mj-2*Msat) +
			0.022*cosDeg(Mj-Msat) +
			0.023*sinDeg(2*Mj-3*Msat+52) -
			0.016*sinDeg(Mj-5*Msat-69)
	case Saturn:
		lon += 0.812*sinDeg(2*Mj-5*Msat-67.6) -
			0.229*cosDeg(2*Mj-4*Msat-2) +
			0.119*sinDeg(Mj-2*Msat-3) +
			0.046*sinDeg(2*Mj-6*Msat-69) +
			0.014*sinDeg(Mj-3*Msat+32)
	}

	xh := r * cosDeg(lon) * cosDeg(lat)
	yh := r * sinDeg(lon) * cosDeg(lat)

	sunLon, rs := sunPosition(d)
	xs := rs * cosDeg(sunLon)
	ys := rs * sinDeg(sunLon)

	return atan2Deg(yh+ys, xh+xs)
}

// Longitude returns the geocentric tropical ecliptic longitude of a true body.
func (e *Ephemeris) Longitude(b Body, t time.Time) float64 {
	d := dayNumber(t)
	switch b {
	case Sun:
		lon, _ := sunPosition(d)
		return lon
	case Moon:
		return moonLongitude(d)
	case Rahu:
		rahu, _ := LunarNodes(t)
		return rahu
	case Ketu:
		_, ketu := LunarNodes(t)
		return ketu
	}
	return planetLongitude(b, d)
}

func (e *Ephemeris) Positions(t time.Time) Positions {
	var out Positions
	prev := t.Add(-retroLookback)
	for _, b := range AllBodies() {
		cb := CelestialBody{Body: b, Name: b.String()}
		if b.IsNode() {
			cb.Longitude = e.Longitude(b, t)
			cb.Retrograde = true
			out[b] = cb
			continue
		}
		lon := e.Longitude(b, t)
		prevLon := e.Longitude(b, prev)
		retro := lon < prevLon
		if math.Abs(lon-prevLon) > 180 {
			retro = !retro
		}
		cb.Longitude = lon
		cb.Retrograde = retro
		out[b] = cb
	}
	return out
}

// SiderealTime returns Greenwich apparent sidereal time in hours.
func (e *Ephemeris) SiderealTime(t time.Time) float64 {
	jd := JulianDay(t)
	T := (jd - j2000JD) / 36525
	gmst := 280.46061837 + 360.98564736629*(jd-j2000JD) + 0.000387933*T*T - T*T*T/38710000

	omega := 125.04452 - 1934.136261*T
	L := 280.4665 + 36000.7698*T
	Lp := 218.3165 + 481267.8813*T
	dpsi := (-17.20*sinDeg(omega) - 1.32*sinDeg(2*L) - 0.23*sinDeg(2*Lp) + 0.21*sinDeg(2*omega)) / 3600

	gast := Normalize(gmst + dpsi*cosDeg(MeanObliquity(t)))
	return gast / 15
}

func (e *Ephemeris) Obliquity(t time.Time) float64 {
	return MeanObliquity(t)
}
