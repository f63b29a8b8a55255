package tattwa

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/btr-engine/backend/internal/vedic"
)

func TestTattwa(t *testing.T) {
	thursday := time.Date(2020, 1, 2, 6, 0, 0, 0, time.UTC)
	sunday := time.Date(2020, 1, 5, 6, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		sunrise time.Time
		offset  time.Duration
		want    Element
	}{
		{"thursday starts with ether", thursday, 0, Ether},
		{"second sub-period", thursday, 5 * time.Minute, Air},
		{"cycle repeats every 24 minutes", thursday, 30 * time.Minute, Air},
		{"sunday starts with fire", sunday, 10 * time.Minute, Earth},
		{"before sunrise wraps", sunday, -time.Minute, Air},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tattwa(tt.sunrise.Add(tt.offset), tt.sunrise)
			assert.Equal(t, tt.want, got.Element)
			assert.Equal(t, tt.want.String(), got.Name)
			assert.Equal(t, tt.want.Sex(), got.Sex)
		})
	}
}

func TestTattwa_UsesSunriseLocation(t *testing.T) {
	// 20:00 UTC Wednesday is already Thursday in UTC+9.
	utcRise := time.Date(2020, 1, 1, 20, 0, 0, 0, time.UTC)
	local := utcRise.In(time.FixedZone("UTC+9", 9*3600))

	assert.Equal(t, Earth, Tattwa(utcRise, utcRise).Element)
	assert.Equal(t, Ether, Tattwa(utcRise, local).Element)
}

func TestElementSex(t *testing.T) {
	assert.Equal(t, vedic.Male, Ether.Sex())
	assert.Equal(t, vedic.Female, Air.Sex())
	assert.Equal(t, vedic.Male, Fire.Sex())
	assert.Equal(t, vedic.Female, Water.Sex())
	assert.Equal(t, vedic.Male, Earth.Sex())
}

func TestKunda_TrineAndOpposition(t *testing.T) {
	for moonSign := 0; moonSign < 12; moonSign++ {
		moonDeg := float64(moonSign*30) + 12
		for dist := 1; dist <= 12; dist++ {
			kundaSign := (moonSign + dist - 1) % 12
			lagna := (float64(kundaSign*30) + 15) / 81

			got := Kunda(lagna, moonDeg)
			assert.Equal(t, kundaSign, got.KundaSign)
			assert.Equal(t, dist, got.Distance)

			want := dist == 1 || dist == 5 || dist == 7 || dist == 9
			assert.Equal(t, want, got.Match, "moon %d distance %d", moonSign, dist)
		}
	}
}

func TestKunda_Longitude(t *testing.T) {
	got := Kunda(100, 0)
	assert.InDelta(t, 180, got.KundaLon, 1e-9)
	assert.Equal(t, 6, got.KundaSign)
	assert.Equal(t, "Libra", got.SignName)
	assert.Equal(t, 7, got.Distance)
	assert.True(t, got.Match)
}
