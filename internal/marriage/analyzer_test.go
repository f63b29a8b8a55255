package marriage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btr-engine/backend/internal/astro"
	"github.com/btr-engine/backend/internal/vedic"
)

// chart builds an Aries-lagna chart with every body in sign `others` except
// Venus, which sits in venusSign/venusD9.
func chart(venusSign, venusD9 int, retro bool, others int) *vedic.Chart {
	c := &vedic.Chart{}
	c.Lagna = vedic.Placement{Name: vedic.LagnaName, IsLagna: true}
	for _, b := range astro.AllBodies() {
		c.Bodies[b] = vedic.Placement{Name: b.String(), Body: b, SignIdx: others}
	}
	c.Bodies[astro.Venus] = vedic.Placement{Name: "Venus", Body: astro.Venus, SignIdx: venusSign, D9: venusD9, IsRetro: retro}
	return c
}

func TestAnalyze_Favorable(t *testing.T) {
	r := Analyze(chart(1, 1, false, 2))

	require.Len(t, r.Steps, 3)
	assert.Equal(t, Step{Label: "Placement", Check: "Venus in House 2", Result: "Clear", Impact: "Favorable"}, r.Steps[0])
	assert.Equal(t, "Clear", r.Steps[1].Result)
	assert.Equal(t, "D9 House 2", r.Steps[2].Check)
	assert.Equal(t, 0, r.Severity)
	assert.Equal(t, StatusFavorable, r.Conclusion.Status)
}

func TestAnalyze_Severe(t *testing.T) {
	c := chart(5, 7, true, 6)
	c.Bodies[astro.Mars].SignIdx = 5

	r := Analyze(c)
	assert.Equal(t, "CRITICAL", r.Steps[0].Result)
	assert.Equal(t, "Dusthana Lord Mars, Malefic Mars", r.Steps[1].Impact)
	assert.Equal(t, "Afflicted", r.Steps[2].Result)
	assert.Equal(t, "Karma Intensified", r.Steps[2].Impact)
	assert.Equal(t, 17, r.Severity)
	assert.Equal(t, StatusSevere, r.Conclusion.Status)
}

func TestAnalyze_Mixed(t *testing.T) {
	c := chart(7, 1, false, 8)
	c.Bodies[astro.Saturn].SignIdx = 9

	r := Analyze(c)
	assert.Equal(t, "Weakened", r.Steps[0].Result)
	assert.Equal(t, "Malefic Saturn", r.Steps[1].Impact)
	assert.Equal(t, "Surface only", r.Steps[2].Impact)
	assert.Equal(t, 5, r.Severity)
	assert.Equal(t, StatusMixed, r.Conclusion.Status)
}

func TestAspects(t *testing.T) {
	for _, b := range astro.AllBodies() {
		assert.True(t, aspects(b, 0), b.String())
		assert.True(t, aspects(b, 6), b.String())
		assert.False(t, aspects(b, 1), b.String())
	}
	assert.True(t, aspects(astro.Mars, 3))
	assert.True(t, aspects(astro.Mars, 7))
	assert.True(t, aspects(astro.Jupiter, 4))
	assert.True(t, aspects(astro.Jupiter, 8))
	assert.True(t, aspects(astro.Saturn, 2))
	assert.True(t, aspects(astro.Saturn, 9))
	assert.False(t, aspects(astro.Sun, 3))
}
