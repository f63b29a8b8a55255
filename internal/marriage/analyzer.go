// Package marriage reads relationship indications from Venus in D1 and D9.
package marriage

import (
	"fmt"
	"strings"

	"github.com/btr-engine/backend/internal/astro"
	"github.com/btr-engine/backend/internal/vedic"
)

const (
	StatusSevere    = "Severely Challenged"
	StatusMixed     = "Average / Mixed"
	StatusFavorable = "Favorable"

	severeAt = 10
	mixedAt  = 5
)

var (
	dusthanas = []int{6, 8, 12}
	malefics  = map[astro.Body]bool{
		astro.Sun: true, astro.Mars: true, astro.Saturn: true, astro.Rahu: true, astro.Ketu: true,
	}
)

type Step struct {
	Label  string `json:"label"`
	Check  string `json:"check"`
	Result string `json:"result"`
	Impact string `json:"impact"`
}

type Conclusion struct {
	Status      string `json:"status"`
	Description string `json:"description"`
}

type Report struct {
	Steps      []Step     `json:"steps"`
	Severity   int        `json:"severity"`
	Conclusion Conclusion `json:"conclusion"`
}

func isDusthana(house int) bool {
	for _, h := range dusthanas {
		if h == house {
			return true
		}
	}
	return false
}

// aspects reports whether a body in a sign `dist` signs after the target
// aspects it: conjunction and opposition for all, plus the special aspects of
// Mars (4th, 8th), Jupiter (5th, 9th) and Saturn (3rd, 10th).
func aspects(b astro.Body, dist int) bool {
	if dist == 0 || dist == 6 {
		return true
	}
	switch b {
	case astro.Mars:
		return dist == 3 || dist == 7
	case astro.Jupiter:
		return dist == 4 || dist == 8
	case astro.Saturn:
		return dist == 2 || dist == 9
	}
	return false
}

// Analyze scores afflictions to Venus: dusthana placement, aspects from
// dusthana lords and malefics, and the D9 house.
func Analyze(c *vedic.Chart) *Report {
	venus := c.Body(astro.Venus)
	lagna := c.Lagna
	report := &Report{}

	house := vedic.HouseFrom(lagna.SignIdx, venus.SignIdx)
	placement := Step{Label: "Placement", Check: fmt.Sprintf("Venus in House %d", house), Result: "Clear", Impact: "Favorable"}
	inDusthana := isDusthana(house)
	if inDusthana {
		if venus.IsRetro {
			placement.Result, placement.Impact = "CRITICAL", "Very evil relationship karma"
			report.Severity += 10
		} else {
			placement.Result, placement.Impact = "Weakened", "Basic karma unstable"
			report.Severity += 3
		}
	}
	report.Steps = append(report.Steps, placement)

	dLords := make(map[astro.Body]bool, len(dusthanas))
	for _, h := range dusthanas {
		dLords[vedic.SignLord(lagna.SignIdx+h-1)] = true
	}
	var findings []string
	for _, b := range astro.AllBodies() {
		if b == astro.Venus {
			continue
		}
		dist := (c.Body(b).SignIdx - venus.SignIdx + 12) % 12
		if !aspects(b, dist) {
			continue
		}
		if dLords[b] {
			findings = append(findings, "Dusthana Lord "+b.String())
			report.Severity += 2
		}
		if malefics[b] {
			findings = append(findings, "Malefic "+b.String())
			report.Severity += 2
		}
	}
	afflictions := Step{Label: "Afflictions", Check: "External Planetary Aspects", Result: "Clear", Impact: "None"}
	if len(findings) > 0 {
		afflictions.Result, afflictions.Impact = "Afflicted", strings.Join(findings, ", ")
	}
	report.Steps = append(report.Steps, afflictions)

	navHouse := vedic.HouseFrom(lagna.D9, venus.D9)
	navAfflicted := isDusthana(navHouse)
	nav := Step{Label: "Navamsa", Check: fmt.Sprintf("D9 House %d", navHouse), Result: "Supportive", Impact: "Surface only"}
	if navAfflicted {
		nav.Result = "Afflicted"
		report.Severity += 3
	}
	if inDusthana && navAfflicted {
		nav.Impact = "Karma Intensified"
	}
	report.Steps = append(report.Steps, nav)

	switch {
	case report.Severity >= severeAt:
		report.Conclusion = Conclusion{StatusSevere, "Primary indicator is heavily damaged. Relationship instability likely."}
	case report.Severity >= mixedAt:
		report.Conclusion = Conclusion{StatusMixed, "Marriage requires effort; external obstructions present."}
	default:
		report.Conclusion = Conclusion{StatusFavorable, "Venus is stable. Marital happiness (Vivaha Sukha) is indicated."}
	}
	return report
}
