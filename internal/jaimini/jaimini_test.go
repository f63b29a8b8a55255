package jaimini

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btr-engine/backend/internal/astro"
	"github.com/btr-engine/backend/internal/vedic"
)

var sunrise = time.Date(1985, 5, 20, 0, 10, 0, 0, time.UTC)

func TestVighatika(t *testing.T) {
	tests := []struct {
		name      string
		birth     time.Time
		wantIndex int
		wantBody  astro.Body
	}{
		{"one minute after sunrise", sunrise.Add(time.Minute), 3, astro.Mars},
		{"exact multiple of nine maps to Ketu", sunrise.Add(36 * time.Minute), 9, astro.Ketu},
		{"first vighatika", sunrise.Add(10 * time.Second), 1, astro.Sun},
		{"before sunrise uses previous cycle", sunrise.Add(-time.Minute), 7, astro.Saturn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Vighatika(tt.birth, sunrise)
			assert.Equal(t, tt.wantIndex, got.BodyIndex)
			assert.Equal(t, tt.wantBody, got.RulingBody())
			assert.Equal(t, tt.wantBody.String(), got.Body)
		})
	}

	v := Vighatika(sunrise.Add(time.Minute), sunrise)
	assert.InDelta(t, 1.0, v.MinutesSinceSunrise, 1e-9)
	assert.InDelta(t, 2.5, v.TotalVighatikas, 1e-9)
}

func TestDetermineSex(t *testing.T) {
	assert.Equal(t, SexResult{Sex: vedic.Male, Reason: "Exalted"}, DetermineSex(2, true, false, 0))
	assert.Equal(t, SexResult{Sex: vedic.Female, Reason: "Debilitated"}, DetermineSex(1, false, true, 0))
	assert.Equal(t, vedic.Male, DetermineSex(6, true, true, 0).Sex, "exaltation is checked first")

	want := map[int]vedic.Sex{
		1: vedic.Male, 2: vedic.Female, 3: vedic.Male, 4: vedic.Male, 5: vedic.Male,
		6: vedic.Female, 7: vedic.Male, 8: vedic.Male, 9: vedic.Female,
	}
	for index, sex := range want {
		for lagna := 0; lagna < 12; lagna++ {
			assert.Equal(t, sex, DetermineSex(index, false, false, lagna).Sex, "index %d lagna %d", index, lagna)
		}
	}
	assert.Equal(t, "Vighatika body Moon is FEMALE", DetermineSex(2, false, false, 0).Reason)
}

func TestMicroScan(t *testing.T) {
	base := time.Date(1985, 5, 20, 9, 0, 15, 0, time.UTC)
	slits := MicroScan(100.4, base, 4)
	require.Len(t, slits, 21)

	assert.Equal(t, -10, slits[0].Offset)
	assert.Equal(t, 10, slits[20].Offset)

	center := slits[10]
	assert.Equal(t, 0, center.Offset)
	assert.Equal(t, 100, center.Vighatika)
	assert.Equal(t, 1, center.BodyIndex)
	assert.Equal(t, "Sun", center.Body)
	assert.WithinDuration(t, base.Add(-9600*time.Millisecond), center.Instant, time.Millisecond)

	for i := 1; i < len(slits); i++ {
		assert.WithinDuration(t, slits[i-1].Instant.Add(VighatikaDuration), slits[i].Instant, time.Millisecond)
	}
}

func TestMicroScan_NegativeVighatikas(t *testing.T) {
	slits := MicroScan(3.2, time.Now(), 0)
	require.Len(t, slits, 21)

	first := slits[0]
	assert.Equal(t, -7, first.Vighatika)
	assert.Equal(t, 2, first.BodyIndex)
	assert.Equal(t, vedic.Female, first.Sex)

	zero := slits[7]
	assert.Equal(t, 0, zero.Vighatika)
	assert.Equal(t, 9, zero.BodyIndex)
	assert.Equal(t, "Ketu", zero.Body)

	for _, s := range slits {
		assert.GreaterOrEqual(t, s.BodyIndex, 1)
		assert.LessOrEqual(t, s.BodyIndex, 9)
	}
}
