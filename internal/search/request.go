package search

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/btr-engine/backend/internal/astro"
	"github.com/btr-engine/backend/internal/rectification"
	"github.com/btr-engine/backend/internal/vedic"
)

var (
	ErrIncompleteInput = errors.New("incomplete input")
	ErrNoResult        = errors.New("no result")
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Request is the birth data as a user enters it: local wall-clock date and
// time plus the UTC offset of that clock.
type Request struct {
	Date         string   `json:"date" yaml:"date"`
	Time         string   `json:"time" yaml:"time"`
	TZOffset     *float64 `json:"tz_offset" yaml:"tz_offset"`
	Latitude     *float64 `json:"latitude" yaml:"latitude"`
	Longitude    *float64 `json:"longitude" yaml:"longitude"`
	Name         string   `json:"name" yaml:"name"`
	Gender       string   `json:"gender" yaml:"gender"`
	ForcedSound  string   `json:"forced_sound,omitempty" yaml:"forced_sound,omitempty"`
	ForcedArudha *int     `json:"forced_arudha,omitempty" yaml:"forced_arudha,omitempty"`
}

// Input is a validated Request with the instant already converted to UTC.
type Input struct {
	Instant  time.Time
	TZOffset float64
	Observer astro.Observer
	Gender   vedic.Sex
	Meta     rectification.Metadata
}

func incomplete(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIncompleteInput, fmt.Sprintf(format, args...))
}

func parseClock(s string) (time.Time, error) {
	for _, layout := range []string{TimeLayout, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, incomplete("invalid time %q", s)
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// Validate checks the request and converts the local time to UTC once:
// utc = local - tz hours.
func (r Request) Validate() (*Input, error) {
	date := strings.TrimSpace(r.Date)
	clock := strings.TrimSpace(r.Time)
	if date == "" {
		return nil, incomplete("date is required")
	}
	if clock == "" {
		return nil, incomplete("time is required")
	}
	if !finite(r.TZOffset) {
		return nil, incomplete("timezone offset is required")
	}
	if !finite(r.Latitude) || !finite(r.Longitude) {
		return nil, incomplete("latitude and longitude are required")
	}

	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, incomplete("invalid date %q", r.Date)
	}
	c, err := parseClock(clock)
	if err != nil {
		return nil, err
	}

	tz, lat, lon := *r.TZOffset, *r.Latitude, *r.Longitude
	if tz < -14 || tz > 14 {
		return nil, incomplete("timezone offset %v out of range", tz)
	}
	if lat < -90 || lat > 90 {
		return nil, incomplete("latitude %v out of range", lat)
	}
	if lon < -180 || lon > 180 {
		return nil, incomplete("longitude %v out of range", lon)
	}

	gender := vedic.Male
	if strings.TrimSpace(r.Gender) != "" {
		if gender, err = vedic.ParseSex(r.Gender); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIncompleteInput, err)
		}
	}

	if r.ForcedArudha != nil && (*r.ForcedArudha < 0 || *r.ForcedArudha > 11) {
		return nil, incomplete("forced arudha %d out of range", *r.ForcedArudha)
	}
	sound := strings.TrimSpace(r.ForcedSound)
	if sound != "" && !strings.EqualFold(sound, rectification.AutoSound) && !rectification.IsKnownSound(sound) {
		return nil, incomplete("unknown sound %q", sound)
	}

	local := time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), 0, time.UTC)
	utc := local.Add(-time.Duration(tz * float64(time.Hour)))

	return &Input{
		Instant:  utc,
		TZOffset: tz,
		Observer: astro.Observer{Latitude: lat, Longitude: lon},
		Gender:   gender,
		Meta: rectification.Metadata{
			Name:         r.Name,
			ForcedSound:  sound,
			ForcedArudha: r.ForcedArudha,
		},
	}, nil
}

// Zone is the fixed zone of the request's UTC offset.
func (in *Input) Zone() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+g", in.TZOffset), int(math.Round(in.TZOffset*3600)))
}

// Local renders an instant as wall-clock time in the request's zone.
func (in *Input) Local(t time.Time) time.Time {
	return t.In(in.Zone())
}

// WithInstant returns a copy of the input shifted to another instant.
func (in *Input) WithInstant(t time.Time) *Input {
	out := *in
	out.Instant = t
	return &out
}
