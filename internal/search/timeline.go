package search

import (
	"time"

	"github.com/btr-engine/backend/internal/astro"
	"github.com/btr-engine/backend/internal/jaimini"
	"github.com/btr-engine/backend/internal/rectification"
	"github.com/btr-engine/backend/internal/tattwa"
	"github.com/btr-engine/backend/internal/vedic"
)

const (
	TimelineStep  = jaimini.VighatikaDuration
	TimelineSteps = 8
)

type Segment struct {
	Offset      int       `json:"offset_seconds"`
	Instant     time.Time `json:"instant"`
	LocalTime   string    `json:"local_time"`
	D60Match    bool      `json:"d60_match"`
	PPMatch     bool      `json:"pp_match"`
	KundaMatch  bool      `json:"kunda_match"`
	GenderMatch bool      `json:"gender_match"`
	Golden      bool      `json:"golden"`
}

type Timeline struct {
	Targets  []string  `json:"targets"`
	Segments []Segment `json:"segments"`
}

// Timeline lays four tracks (D60 link, Pranapada, Kunda, gender) over ±8
// Vighatikas around the request. Only the lagna and Pranapada move; the
// bodies and ayanamsa stay at the request instant. A segment is golden when
// all four tracks hold.
func (e *Engine) Timeline(in *Input) *Timeline {
	center := vedic.BuildChart(e.provider, in.Instant, in.Observer)
	ayanamsa := center.Ayanamsa
	sun := center.Body(astro.Sun).SiderealLon
	moon := center.Body(astro.Moon)

	al := rectification.ArudhaLagna(center)
	if in.Meta.ForcedArudha != nil {
		al = *in.Meta.ForcedArudha
	}
	sound := rectification.ResolveSound(in.Meta.Name, in.Meta.ForcedSound)
	targets := uniqueSigns(center.Body(astro.Ketu).D60, rectification.SoundSign(sound), al)

	tl := &Timeline{}
	for _, s := range targets {
		tl.Targets = append(tl.Targets, vedic.SignName(s))
	}

	for i := -TimelineSteps; i <= TimelineSteps; i++ {
		off := time.Duration(i) * TimelineStep
		t := in.Instant.Add(off)

		lagna := vedic.Lagna(e.provider, t, in.Observer.Latitude, in.Observer.Longitude, ayanamsa)
		lagnaD60 := vedic.DivisionalSign(lagna, vedic.D60)
		pp, _ := vedic.Pranapada(e.provider, t, in.Observer, sun)

		seg := Segment{
			Offset:     int(off / time.Second),
			Instant:    t,
			LocalTime:  in.Local(t).Format(TimeLayout),
			PPMatch:    vedic.InTrineOrSeventh(vedic.HouseFrom(moon.D9, vedic.DivisionalSign(pp, vedic.D9))),
			KundaMatch: tattwa.Kunda(lagna, moon.SiderealLon).Match,
		}
		for _, s := range targets {
			if s == lagnaD60 || vedic.HasRashiDrishti(s, lagnaD60) {
				seg.D60Match = true
				break
			}
		}
		if center.SunriseAvailable {
			vig := jaimini.Vighatika(t, center.Sunrise)
			sex := jaimini.DetermineSex(vig.BodyIndex, false, false, int(lagna/30))
			seg.GenderMatch = sex.Sex == in.Gender
		}
		seg.Golden = seg.D60Match && seg.PPMatch && seg.KundaMatch && seg.GenderMatch
		tl.Segments = append(tl.Segments, seg)
	}
	return tl
}

func uniqueSigns(signs ...int) []int {
	var out []int
	seen := make(map[int]bool, len(signs))
	for _, s := range signs {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
