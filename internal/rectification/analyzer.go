// Package rectification runs the four D60 consistency checks (Ketu, name
// sound, Pranapada, Arudha) over a chart and reports a verdict with a trace.
package rectification

import (
	"fmt"
	"strings"

	"github.com/btr-engine/backend/internal/astro"
	"github.com/btr-engine/backend/internal/vedic"
)

// RectifiedThreshold is the number of passing checks needed for a verdict.
const RectifiedThreshold = 3

type CheckID string

const (
	CheckKetu   CheckID = "ketu"
	CheckName   CheckID = "name"
	CheckPP     CheckID = "pp"
	CheckArudha CheckID = "arudha"
)

type Status string

const (
	Pass Status = "PASS"
	Fail Status = "FAIL"
)

type Check struct {
	ID        CheckID `json:"id"`
	Label     string  `json:"label"`
	Status    Status  `json:"status"`
	Score     int     `json:"score"`
	Rationale string  `json:"rationale"`
}

func (c Check) Passed() bool {
	return c.Status == Pass
}

func newCheck(id CheckID, label string, ok bool, rationale string) Check {
	c := Check{ID: id, Label: label, Status: Fail, Rationale: rationale}
	if ok {
		c.Status = Pass
		c.Score = 1
	}
	return c
}

// Metadata carries the user side of the analysis. ForcedSound may be empty or
// AUTO; a nil ForcedArudha means the Arudha Lagna is computed.
type Metadata struct {
	Name         string `json:"name"`
	ForcedSound  string `json:"forced_sound,omitempty"`
	ForcedArudha *int   `json:"forced_arudha,omitempty"`
}

type Report struct {
	IsRectified bool              `json:"is_rectified"`
	Score       int               `json:"score"`
	Checks      [4]Check          `json:"checks"`
	PastLife    []PastLifeFinding `json:"past_life"`
	Trace       string            `json:"trace"`
	D60Lagna    int               `json:"d60_lagna"`
	Sound       string            `json:"sound"`
	SoundSign   int               `json:"sound_sign"`
	ArudhaSign  int               `json:"arudha_sign"`
}

// Check returns the check with the given id.
func (r *Report) Check(id CheckID) (Check, bool) {
	for _, c := range r.Checks {
		if c.ID == id {
			return c, true
		}
	}
	return Check{}, false
}

func (r *Report) Passed(id CheckID) bool {
	c, ok := r.Check(id)
	return ok && c.Passed()
}

// link describes how a sign reaches the D60 lagna: directly (same sign or
// rashi drishti) or through the D60 placement of one of its lords.
type link struct {
	direct bool
	lords  []astro.Body
	all    []astro.Body
}

func (l link) ok() bool {
	return l.direct || len(l.lords) > 0
}

func reaches(sign, target int) bool {
	return sign == target || vedic.HasRashiDrishti(sign, target)
}

func linkTo(c *vedic.Chart, sign, lagnaD60 int) link {
	l := link{all: vedic.SignLords(sign)}
	if reaches(sign, lagnaD60) {
		l.direct = true
		return l
	}
	for _, lord := range l.all {
		if reaches(c.Body(lord).D60, lagnaD60) {
			l.lords = append(l.lords, lord)
		}
	}
	return l
}

func bodyNames(bodies []astro.Body) string {
	names := make([]string, len(bodies))
	for i, b := range bodies {
		names[i] = b.String()
	}
	return strings.Join(names, ", ")
}

func lordPlacements(c *vedic.Chart, bodies []astro.Body) string {
	parts := make([]string, len(bodies))
	for i, b := range bodies {
		parts[i] = fmt.Sprintf("%s in %s", b, vedic.SignName(c.Body(b).D60))
	}
	return strings.Join(parts, ", ")
}

// Analyze runs the four checks against the chart's D60 lagna.
func Analyze(c *vedic.Chart, meta Metadata) *Report {
	lagna := c.Lagna.D60
	lagnaName := vedic.SignName(lagna)

	var trace []string
	trace = append(trace, fmt.Sprintf("--- FORENSIC TRACE: D60 LAGNA [%s] ---", strings.ToUpper(lagnaName)))

	report := &Report{D60Lagna: lagna}

	// Ketu
	ketu := c.Body(astro.Ketu).D60
	kl := linkTo(c, ketu, lagna)
	ketuWhy := fmt.Sprintf("Lagna is %s. Ketu is in %s. ", lagnaName, vedic.SignName(ketu))
	switch {
	case kl.direct:
		ketuWhy += fmt.Sprintf("Ketu itself (%s) aspects Lagna.", vedic.SignName(ketu))
	case len(kl.lords) > 0:
		ketuWhy += fmt.Sprintf("Linked via Ketu Lord(s): %s.", lordPlacements(c, kl.lords))
	default:
		ketuWhy += fmt.Sprintf("No link found from Ketu or its lords (%s).", bodyNames(kl.all))
	}
	trace = append(trace, "[KETU CHECK] "+ketuWhy)
	report.Checks[0] = newCheck(CheckKetu, "Ketu-Dispositor Link", kl.ok(), ketuWhy)

	// Name sound
	sound := ResolveSound(meta.Name, meta.ForcedSound)
	hoda := SoundSign(sound)
	report.Sound, report.SoundSign = sound, hoda
	nl := linkTo(c, hoda, lagna)
	nameWhy := fmt.Sprintf("Sound '%s' maps to %s. ", sound, vedic.SignName(hoda))
	switch {
	case nl.direct:
		nameWhy += fmt.Sprintf("Name Sign (%s) directly aspects Lagna.", vedic.SignName(hoda))
	case len(nl.lords) > 0:
		nameWhy += fmt.Sprintf("Linked via Name Lord(s): %s.", lordPlacements(c, nl.lords))
	default:
		nameWhy += fmt.Sprintf("No link via Sign or Lords (%s).", bodyNames(nl.all))
	}
	trace = append(trace, "[NAME CHECK] "+nameWhy)
	report.Checks[1] = newCheck(CheckName, "Name-Sound Portal", nl.ok(), nameWhy)

	// Pranapada
	ppD9 := c.Pranapada.D9
	moonD9 := c.Body(astro.Moon).D9
	house := vedic.HouseFrom(moonD9, ppD9)
	ppWhy := fmt.Sprintf("Moon is in %s (D9). PP is in %s (D9). This is the %s House (Requires 1, 5, 7, 9).",
		vedic.SignName(moonD9), vedic.SignName(ppD9), ordinal(house))
	if !c.PranapadaAvailable {
		ppWhy += " Sunrise unavailable, Pranapada taken as the Sun."
	}
	trace = append(trace, "[PRANAPADA] "+ppWhy)
	report.Checks[2] = newCheck(CheckPP, "Pranapada Sync", vedic.InTrineOrSeventh(house), ppWhy)

	// Arudha
	al := ArudhaLagna(c)
	if meta.ForcedArudha != nil {
		al = mod12(*meta.ForcedArudha)
	}
	report.ArudhaSign = al
	ll := linkTo(c, al, lagna)
	alWhy := fmt.Sprintf("AL is %s. ", vedic.SignName(al))
	switch {
	case ll.direct:
		alWhy += "AL Sign directly aspects Lagna."
	case len(ll.lords) > 0:
		alWhy += fmt.Sprintf("Linked via AL Lord: %s.", bodyNames(ll.lords))
	default:
		alWhy += "No connection found."
	}
	trace = append(trace, "[ARUDHA] "+alWhy)
	report.Checks[3] = newCheck(CheckArudha, "Sva-Arudha Bridge", ll.ok(), alWhy)

	for _, ch := range report.Checks {
		report.Score += ch.Score
	}
	report.IsRectified = report.Score >= RectifiedThreshold
	report.PastLife = PastLife(c)
	report.Trace = strings.Join(trace, "\n")
	return report
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func mod12(n int) int {
	n %= 12
	if n < 0 {
		n += 12
	}
	return n
}
