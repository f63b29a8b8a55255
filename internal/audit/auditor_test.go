package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btr-engine/backend/internal/jaimini"
	"github.com/btr-engine/backend/internal/rectification"
	"github.com/btr-engine/backend/internal/search"
	"github.com/btr-engine/backend/internal/tattwa"
	"github.com/btr-engine/backend/internal/vedic"
)

func result(rectified, pp, kunda, gender bool) *search.Result {
	status := func(ok bool) rectification.Status {
		if ok {
			return rectification.Pass
		}
		return rectification.Fail
	}
	report := &rectification.Report{IsRectified: rectified}
	report.Checks[0] = rectification.Check{ID: rectification.CheckKetu, Status: status(rectified), Rationale: "Ketu itself (Cancer) aspects Lagna."}
	report.Checks[1] = rectification.Check{ID: rectification.CheckName, Status: rectification.Fail}
	report.Checks[2] = rectification.Check{ID: rectification.CheckPP, Status: status(pp), Rationale: "pp reason"}
	report.Checks[3] = rectification.Check{ID: rectification.CheckArudha, Status: rectification.Fail}

	sex := vedic.Female
	if gender {
		sex = vedic.Male
	}
	return &search.Result{
		Report:      report,
		Kunda:       tattwa.KundaResult{SignName: "Leo", MoonSign: 0, Match: kunda},
		Vighatika:   &jaimini.VighatikaResult{BodyIndex: 1, Body: "Sun"},
		Sex:         &jaimini.SexResult{Sex: sex},
		GenderMatch: gender,
	}
}

func TestEvaluate_AutoOnly(t *testing.T) {
	p := Evaluate(result(true, false, true, false), vedic.Male, nil)

	assert.Equal(t, 2, p.Passed)
	assert.Equal(t, 50.0, p.MatchPercent)
	assert.Equal(t, RowD60, p.Rows[0].Key)
	assert.Equal(t, "Ketu itself (Cancer) aspects Lagna.", p.Rows[0].Reason)
	assert.Equal(t, "pp reason", p.Rows[1].Reason)
	assert.Equal(t, "Lagna*81 (Leo) is Trine/Opp to Moon (Aries).", p.Rows[2].Reason)
	assert.Equal(t, "Vighatika Lord is Sun (FEMALE). User is MALE.", p.Rows[3].Reason)
	for _, r := range p.Rows {
		assert.Equal(t, Auto, r.Override)
		assert.False(t, r.Manual())
	}
}

func TestEvaluate_Overrides(t *testing.T) {
	p := Evaluate(result(true, false, true, false), vedic.Male, Overrides{
		RowD60:    ManualFail,
		RowPP:     ManualPass,
		RowGender: ManualPass,
	})

	assert.False(t, p.Rows[0].Passed)
	assert.True(t, p.Rows[0].Auto)
	assert.True(t, p.Rows[1].Passed)
	assert.True(t, p.Rows[2].Passed)
	assert.True(t, p.Rows[3].Passed)
	assert.True(t, p.Rows[3].Manual())
	assert.Equal(t, 3, p.Passed)
	assert.Equal(t, 75.0, p.MatchPercent)
}

func TestEvaluate_Nudges(t *testing.T) {
	p := Evaluate(result(false, false, false, true), vedic.Male, nil)
	want := [4][2]int{{-120, 120}, {-15, 15}, {-4, 4}, {-24, 24}}
	for i, r := range p.Rows {
		assert.Equal(t, want[i], r.Nudge, r.Key)
	}
	assert.Equal(t, "No Ketu or Name Link in D60.", p.Rows[0].Reason)
	assert.Equal(t, "Lagna*81 (Leo) is NOT in Trine/Opp to Moon (Aries).", p.Rows[2].Reason)
	assert.Equal(t, "Vighatika Lord is Sun (MALE). Matches user input.", p.Rows[3].Reason)
}

func TestEvaluate_NoSunrise(t *testing.T) {
	res := result(false, false, false, false)
	res.Vighatika, res.Sex = nil, nil

	p := Evaluate(res, vedic.Female, nil)
	assert.Equal(t, "Vighatika Lord is - (-). User is FEMALE.", p.Rows[3].Reason)
	assert.Equal(t, 0, p.Passed)
}

func TestOverride(t *testing.T) {
	assert.Equal(t, ManualPass, Auto.Next())
	assert.Equal(t, ManualFail, ManualPass.Next())
	assert.Equal(t, Auto, ManualFail.Next())

	o, err := ParseOverride(" pass ")
	require.NoError(t, err)
	assert.Equal(t, ManualPass, o)

	o, err = ParseOverride("")
	require.NoError(t, err)
	assert.Equal(t, Auto, o)

	_, err = ParseOverride("maybe")
	assert.Error(t, err)
}

func TestParseOverrides(t *testing.T) {
	o, err := ParseOverrides(map[string]string{"D60": "pass", "kunda": "fail", "pp": ""})
	require.NoError(t, err)
	assert.Equal(t, Overrides{RowD60: ManualPass, RowKunda: ManualFail, RowPP: Auto}, o)

	_, err = ParseOverrides(map[string]string{"arudha": "PASS"})
	assert.Error(t, err)
	_, err = ParseOverrides(map[string]string{"gender": "maybe"})
	assert.Error(t, err)
}
