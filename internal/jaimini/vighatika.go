// Package jaimini implements the Vighatika (24-second) planetary cycle counted
// from sunrise and the sex-determination rule built on it.
package jaimini

import (
	"fmt"
	"math"
	"time"

	"github.com/btr-engine/backend/internal/astro"
	"github.com/btr-engine/backend/internal/vedic"
)

const (
	VighatikaDuration   = 24 * time.Second
	vighatikasPerMinute = 2.5
	cycleLength         = 9
	day                 = 24 * time.Hour
)

type VighatikaResult struct {
	MinutesSinceSunrise float64 `json:"minutes_since_sunrise"`
	TotalVighatikas     float64 `json:"total_vighatikas"`
	BodyIndex           int     `json:"body_index"`
	Body                string  `json:"body"`
}

// RulingBody is the body of the Vighatika in which the birth falls.
func (v VighatikaResult) RulingBody() astro.Body {
	return cycleBody(v.BodyIndex)
}

// cycleBody maps a 1-based cycle index (Sun=1 .. Ketu=9) onto a body.
func cycleBody(index int) astro.Body {
	return astro.Body(index - 1)
}

// Vighatika counts Vighatikas from sunrise. Births before sunrise belong to
// the previous day's cycle.
func Vighatika(birth, sunrise time.Time) VighatikaResult {
	diff := birth.Sub(sunrise)
	if diff < 0 {
		diff += day
	}
	minutes := diff.Minutes()
	vig := minutes * vighatikasPerMinute

	index := int(math.Ceil(math.Mod(vig, cycleLength)))
	if index == 0 {
		index = cycleLength
	}
	return VighatikaResult{
		MinutesSinceSunrise: minutes,
		TotalVighatikas:     vig,
		BodyIndex:           index,
		Body:                cycleBody(index).String(),
	}
}

type SexResult struct {
	Sex    vedic.Sex `json:"sex"`
	Reason string    `json:"reason"`
}

// Mercury and Saturn are counted as male for a binary choice.
var cycleSex = [cycleLength + 1]vedic.Sex{
	"", vedic.Male, vedic.Female, vedic.Male, vedic.Male,
	vedic.Male, vedic.Female, vedic.Male, vedic.Male, vedic.Female,
}

// DetermineSex applies the tiered rule: exaltation forces male, debilitation
// forces female, otherwise the Vighatika body's own sex decides.
//
// lagnaSign is accepted for the odd/even sign tier (Gemini and Aquarius
// female, Cancer and Pisces male) which is not applied: the body table always
// answers first.
func DetermineSex(index int, exalted, debilitated bool, lagnaSign int) SexResult {
	if exalted {
		return SexResult{Sex: vedic.Male, Reason: "Exalted"}
	}
	if debilitated {
		return SexResult{Sex: vedic.Female, Reason: "Debilitated"}
	}
	if index < 1 || index > cycleLength {
		index = cycleLength
	}
	sex := cycleSex[index]
	return SexResult{
		Sex:    sex,
		Reason: fmt.Sprintf("Vighatika body %s is %s", cycleBody(index), sex),
	}
}
