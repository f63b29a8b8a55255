package rectification

import (
	"github.com/btr-engine/backend/internal/astro"
	"github.com/btr-engine/backend/internal/vedic"
)

const (
	LocaleLocal    = "Local / Birthplace"
	LocaleNearby   = "Neighboring Region"
	LocaleDistant  = "Distant Land"
	defaultPassing = "Natural Circumstances"
)

var continents = [astro.BodyCount]string{
	astro.Sun:     "Central Africa / Deserts",
	astro.Moon:    "North Pole / Cold Coastal Regions",
	astro.Mars:    "South America / Africa",
	astro.Mercury: "Middle East / Trade Hubs",
	astro.Jupiter: "Indian Subcontinent / Holy Lands",
	astro.Venus:   "Southeast Asia / Islands",
	astro.Saturn:  "Western Europe / North America",
	astro.Rahu:    "Far East / High Tech Cities",
	astro.Ketu:    "South America / Isolated Islands",
}

// Indexed by 1-based house from the D60 lagna.
var passings = [13]string{
	"",
	"Natural / Peaceful / Old Age",
	"Eating / Throat / Family dispute",
	"Throat / Short Journey / Skirmish",
	"At home / Heart Failure / Vehicle",
	"Stomach / Children / Chant",
	"Sickness / Enemy attack / Struggle",
	"Travel / Desire / Partner involved",
	"Sudden / Traumatic / Accident",
	"Religious place / Guru / Long Journey",
	"Workplace / Stress / Public Duty",
	"Friend's place / Gain / Group event",
	"Hospital / Foreign Land / Sleep",
}

type PastLifeFinding struct {
	Body      astro.Body `json:"-"`
	Planet    string     `json:"planet"`
	House     int        `json:"house"`
	Location  string     `json:"location"`
	Continent string     `json:"continent"`
	Passing   string     `json:"passing"`
}

func Locale(d60Sign int) string {
	switch vedic.NatureOf(d60Sign) {
	case vedic.Fixed:
		return LocaleLocal
	case vedic.Dual:
		return LocaleNearby
	}
	return LocaleDistant
}

func Passing(house int) string {
	if house < 1 || house > 12 {
		return defaultPassing
	}
	return passings[house]
}

// PastLife reads the lords of the 9th sign from the D60 lagna. The findings
// are descriptive and do not feed the verdict.
func PastLife(c *vedic.Chart) []PastLifeFinding {
	lagna := c.Lagna.D60
	ninth := mod12(lagna + 8)

	var out []PastLifeFinding
	for _, lord := range vedic.SignLords(ninth) {
		d60 := c.Body(lord).D60
		house := vedic.HouseFrom(lagna, d60)
		out = append(out, PastLifeFinding{
			Body:      lord,
			Planet:    lord.String(),
			House:     house,
			Location:  Locale(d60),
			Continent: continents[lord],
			Passing:   Passing(house),
		})
	}
	return out
}
