package vedic

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btr-engine/backend/internal/astro"
)

type stubProvider struct {
	gast      float64
	obliquity float64
	positions astro.Positions
	sunrise   time.Time
	hasRise   bool
}

func (s stubProvider) Positions(time.Time) astro.Positions { return s.positions }
func (s stubProvider) Sunrise(astro.Observer, time.Time) (time.Time, bool) {
	return s.sunrise, s.hasRise
}
func (s stubProvider) SiderealTime(time.Time) float64 { return s.gast }
func (s stubProvider) Obliquity(time.Time) float64    { return s.obliquity }

func TestDivisionalSign_RangeAndDeterminism(t *testing.T) {
	for _, v := range []Varga{D1, D3J, D9, D60} {
		for lon := 0.0; lon < 360; lon += 0.07 {
			got := DivisionalSign(lon, v)
			require.GreaterOrEqual(t, got, 0, "%s at %.2f", v, lon)
			require.LessOrEqual(t, got, 11, "%s at %.2f", v, lon)
			require.Equal(t, got, DivisionalSign(lon, v))
		}
	}
}

func TestDivisionalSign_KnownValues(t *testing.T) {
	tests := []struct {
		name  string
		lon   float64
		varga Varga
		want  int
	}{
		{"D1 Leo", 125.5, D1, 4},
		{"D9 first navamsa of Aries", 0.5, D9, 0},
		{"D9 second navamsa of Aries", 3.4, D9, 1},
		{"D9 first navamsa of Taurus", 30.1, D9, 9},
		{"D9 last navamsa of Pisces", 359.9, D9, 11},
		{"D3J movable first decan", 5, D3J, 0},
		{"D3J movable third decan", 25, D3J, 8},
		{"D3J fixed first decan", 35, D3J, 9},
		{"D3J fixed second decan", 45, D3J, 1},
		{"D3J dual first decan", 65, D3J, 6},
		{"D60 first part", 0.2, D60, 0},
		{"D60 last part of Aries", 29.9, D60, 11},
		{"D60 Taurus third part", 31.2, D60, 3},
		{"negative longitude wraps", -0.5, D1, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DivisionalSign(tt.lon, tt.varga))
		})
	}
}

func TestHasRashiDrishti(t *testing.T) {
	assert.False(t, HasRashiDrishti(0, 1), "Aries does not aspect the adjacent Taurus")
	assert.True(t, HasRashiDrishti(0, 4))
	assert.True(t, HasRashiDrishti(0, 7))
	assert.True(t, HasRashiDrishti(0, 10))
	assert.False(t, HasRashiDrishti(0, 3), "movable signs do not aspect movable signs")

	assert.False(t, HasRashiDrishti(1, 0), "Taurus does not aspect the preceding Aries")
	assert.True(t, HasRashiDrishti(1, 3))
	assert.True(t, HasRashiDrishti(1, 6))
	assert.True(t, HasRashiDrishti(1, 9))

	assert.True(t, HasRashiDrishti(2, 5))
	assert.True(t, HasRashiDrishti(2, 8))
	assert.True(t, HasRashiDrishti(2, 11))
	assert.False(t, HasRashiDrishti(2, 3))

	for s := 0; s < 12; s++ {
		assert.True(t, HasRashiDrishti(s, s), "sign %d", s)
	}
}

func TestHouseFromAndTrines(t *testing.T) {
	assert.Equal(t, 1, HouseFrom(3, 3))
	assert.Equal(t, 5, HouseFrom(0, 4))
	assert.Equal(t, 12, HouseFrom(1, 0))

	for house := 1; house <= 12; house++ {
		want := house == 1 || house == 5 || house == 7 || house == 9
		assert.Equal(t, want, InTrineOrSeventh(house), "house %d", house)
	}
}

func TestAyanamsa(t *testing.T) {
	assert.InDelta(t, 23.85709, Ayanamsa(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)), 1e-12)

	oneYear := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(365.25 * 24 * float64(time.Hour)))
	assert.InDelta(t, 23.85709+0.013969, Ayanamsa(oneYear), 1e-9)

	assert.Less(t, Ayanamsa(time.Date(1985, 5, 20, 0, 0, 0, 0, time.UTC)), 23.85709)
}

func TestLagna_EquatorAtZeroSiderealTime(t *testing.T) {
	p := stubProvider{gast: 0, obliquity: 23.44}
	lagna := Lagna(p, time.Now(), 0, 0, 0)
	assert.InDelta(t, 90, lagna, 1e-9)

	withAyanamsa := Lagna(p, time.Now(), 0, 0, 24)
	assert.InDelta(t, 66, withAyanamsa, 1e-9)
}

func TestPranapadaFromSunrise(t *testing.T) {
	rise := time.Date(2020, 1, 1, 6, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		birth time.Time
		sun   float64
		want  float64
	}{
		{"movable sun one hour after rise", rise.Add(time.Hour), 10, 310},
		{"fixed sun adds 240", rise.Add(time.Hour), 40, 220},
		{"dual sun adds 120", rise.Add(time.Hour), 70, 130},
		{"birth before sunrise wraps a day", rise.Add(-time.Hour), 10, 70},
		{"negative sidereal input is normalized", rise, -20, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PranapadaFromSunrise(tt.birth, rise, tt.sun), 1e-9)
		})
	}
}

func TestPranapada_NoSunriseFallsBackToSun(t *testing.T) {
	p := stubProvider{hasRise: false}
	lon, ok := Pranapada(p, time.Now(), astro.Observer{Latitude: 89}, 123.4)
	assert.False(t, ok)
	assert.Equal(t, 123.4, lon)
}

func TestFormatPlacement_RoundTrip(t *testing.T) {
	ayanamsa := 23.65
	for tropical := 0.5; tropical < 360; tropical += 1.37 {
		p := FormatPlacement("Mars", tropical, false, ayanamsa, false)
		back := math.Mod(p.SiderealLon+ayanamsa, 360)
		assert.InDelta(t, tropical, back, 1e-9)
	}
}

func TestFormatPlacement_Fields(t *testing.T) {
	sun := FormatPlacement("Sun", 10.5+24, false, 24, false)
	assert.Equal(t, KindBody, sun.Kind)
	assert.Equal(t, astro.Sun, sun.Body)
	assert.Equal(t, 0, sun.SignIdx)
	assert.Equal(t, "Aries", sun.Sign)
	assert.Equal(t, DignityExalted, sun.Dignity)
	assert.Equal(t, DMS{Degrees: 10, Minutes: 30, Seconds: 0}, sun.DMS)
	assert.Equal(t, "Ashwini", sun.Nakshatra)
	assert.Equal(t, 4, sun.Pada)

	lagna := FormatPlacement(LagnaName, 30.2, false, 99, true)
	assert.True(t, lagna.IsLagna)
	assert.InDelta(t, 30.2, lagna.SiderealLon, 1e-12)
	assert.Equal(t, "Chandrarekha", lagna.D60Deity, "odd zero-based index reads the deity table in reverse")
	assert.Equal(t, DignityNone, lagna.Dignity)

	pp := FormatPlacement(PranapadaName, 0.2, false, 99, false)
	assert.Equal(t, KindPranapada, pp.Kind)
	assert.InDelta(t, 0.2, pp.SiderealLon, 1e-12)
	assert.Equal(t, "Ghora", pp.D60Deity)
}

func TestSplitDegrees_Truncates(t *testing.T) {
	assert.Equal(t, DMS{Degrees: 15, Minutes: 59, Seconds: 59}, SplitDegrees(15.99999))
	assert.Equal(t, "15° 59' 59\"", SplitDegrees(15.99999).String())
}

func TestDignityOf(t *testing.T) {
	assert.Equal(t, DignityDebilitated, DignityOf(astro.Saturn, 0))
	assert.Equal(t, DignityOwnSign, DignityOf(astro.Mars, 7))
	assert.Equal(t, DignityOwnSign, DignityOf(astro.Rahu, 10))
	assert.Equal(t, DignityNone, DignityOf(astro.Rahu, 2))
	assert.Equal(t, DignityExalted, DignityOf(astro.Venus, 11))
}

func TestSignLords(t *testing.T) {
	assert.Equal(t, []astro.Body{astro.Mars, astro.Ketu}, SignLords(7))
	assert.Equal(t, []astro.Body{astro.Saturn, astro.Rahu}, SignLords(10))
	assert.Equal(t, []astro.Body{astro.Sun}, SignLords(4))
	assert.Equal(t, astro.Jupiter, SignLord(-1))
}

func TestBuildChart(t *testing.T) {
	birth := time.Date(1985, 5, 20, 9, 0, 15, 0, time.UTC)
	chart := BuildChart(astro.NewEphemeris(), birth, astro.Observer{Latitude: 13.6288, Longitude: 79.4192})

	placements := chart.Placements()
	require.Len(t, placements, 11)
	assert.True(t, placements[0].IsLagna)
	assert.Equal(t, PranapadaName, placements[10].Name)
	for i, b := range astro.AllBodies() {
		assert.Equal(t, b.String(), placements[i+1].Name)
	}
	assert.True(t, chart.SunriseAvailable)
	assert.True(t, chart.PranapadaAvailable)
	assert.True(t, chart.Sunrise.Before(birth))
	assert.Equal(t, "Taurus", chart.Body(astro.Sun).Sign)
}
