// Package audit lays a human reviewer's overrides over the automatic verdicts
// of a calculation.
package audit

import (
	"fmt"
	"strings"

	"github.com/btr-engine/backend/internal/rectification"
	"github.com/btr-engine/backend/internal/search"
	"github.com/btr-engine/backend/internal/tattwa"
	"github.com/btr-engine/backend/internal/vedic"
)

type Override string

const (
	Auto       Override = "AUTO"
	ManualPass Override = "PASS"
	ManualFail Override = "FAIL"
)

// Next cycles AUTO -> PASS -> FAIL -> AUTO.
func (o Override) Next() Override {
	switch o {
	case ManualPass:
		return ManualFail
	case ManualFail:
		return Auto
	}
	return ManualPass
}

func ParseOverride(s string) (Override, error) {
	switch o := Override(strings.ToUpper(strings.TrimSpace(s))); o {
	case "", Auto:
		return Auto, nil
	case ManualPass, ManualFail:
		return o, nil
	}
	return "", fmt.Errorf("invalid override %q", s)
}

type RowKey string

const (
	RowD60    RowKey = "d60"
	RowPP     RowKey = "pp"
	RowKunda  RowKey = "kunda"
	RowGender RowKey = "gender"
)

// Overrides maps a row to the reviewer's state; missing rows are AUTO.
type Overrides map[RowKey]Override

// ParseOverrides reads reviewer states keyed by row name.
func ParseOverrides(raw map[string]string) (Overrides, error) {
	out := make(Overrides, len(raw))
	for k, v := range raw {
		key := RowKey(strings.ToLower(strings.TrimSpace(k)))
		switch key {
		case RowD60, RowPP, RowKunda, RowGender:
		default:
			return nil, fmt.Errorf("unknown audit row %q", k)
		}
		o, err := ParseOverride(v)
		if err != nil {
			return nil, err
		}
		out[key] = o
	}
	return out, nil
}

type Row struct {
	Key      RowKey   `json:"key"`
	Label    string   `json:"label"`
	Auto     bool     `json:"auto"`
	Override Override `json:"override"`
	Passed   bool     `json:"passed"`
	Reason   string   `json:"reason"`
	// Nudge is the suggested backward and forward shift in seconds.
	Nudge [2]int `json:"nudge_seconds"`
}

func (r Row) Manual() bool {
	return r.Override == ManualPass || r.Override == ManualFail
}

type Panel struct {
	Rows         [4]Row  `json:"rows"`
	Passed       int     `json:"passed"`
	MatchPercent float64 `json:"match_percent"`
}

func newRow(key RowKey, label string, auto bool, reason string, nudge int, o Override) Row {
	if o == "" {
		o = Auto
	}
	passed := auto
	switch o {
	case ManualPass:
		passed = true
	case ManualFail:
		passed = false
	}
	return Row{
		Key:      key,
		Label:    label,
		Auto:     auto,
		Override: o,
		Passed:   passed,
		Reason:   reason,
		Nudge:    [2]int{-nudge, nudge},
	}
}

func d60Reason(r *rectification.Report) string {
	for _, id := range []rectification.CheckID{rectification.CheckKetu, rectification.CheckName} {
		if c, ok := r.Check(id); ok && c.Passed() {
			return c.Rationale
		}
	}
	return "No Ketu or Name Link in D60."
}

func genderReason(res *search.Result, want vedic.Sex) string {
	body, pred := "-", "-"
	if res.Vighatika != nil {
		body, pred = res.Vighatika.Body, string(res.Sex.Sex)
	}
	if res.GenderMatch {
		return fmt.Sprintf("Vighatika Lord is %s (%s). Matches user input.", body, pred)
	}
	return fmt.Sprintf("Vighatika Lord is %s (%s). User is %s.", body, pred, want)
}

func kundaReason(k tattwa.KundaResult) string {
	moon := vedic.SignName(k.MoonSign)
	if k.Match {
		return fmt.Sprintf("Lagna*81 (%s) is Trine/Opp to Moon (%s).", k.SignName, moon)
	}
	return fmt.Sprintf("Lagna*81 (%s) is NOT in Trine/Opp to Moon (%s).", k.SignName, moon)
}

// Evaluate builds the four auditor rows. A manual PASS counts as passed and a
// manual FAIL as failed, whatever the automatic verdict was.
func Evaluate(res *search.Result, gender vedic.Sex, overrides Overrides) *Panel {
	report := res.Report
	pp, _ := report.Check(rectification.CheckPP)
	ppReason := pp.Rationale
	if ppReason == "" {
		ppReason = "Calculation Error"
	}

	p := &Panel{}
	p.Rows[0] = newRow(RowD60, "D60 Identity", report.IsRectified, d60Reason(report), 120, overrides[RowD60])
	p.Rows[1] = newRow(RowPP, "D9 Pranapada", pp.Passed(), ppReason, 15, overrides[RowPP])
	p.Rows[2] = newRow(RowKunda, "Kunda 81", res.Kunda.Match, kundaReason(res.Kunda), 4, overrides[RowKunda])
	p.Rows[3] = newRow(RowGender, "Gender", res.GenderMatch, genderReason(res, gender), 24, overrides[RowGender])

	for _, r := range p.Rows {
		if r.Passed {
			p.Passed++
		}
	}
	p.MatchPercent = float64(p.Passed) / float64(len(p.Rows)) * 100
	return p
}
