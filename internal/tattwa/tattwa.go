package tattwa

import (
	"math"
	"time"

	"github.com/btr-engine/backend/internal/vedic"
)

type Element int

const (
	Ether Element = iota
	Air
	Fire
	Water
	Earth
)

const (
	elementCount   = 5
	superCycleMins = 24.0
	subPeriodMins  = 4.8
	day            = 24 * time.Hour
)

var elementNames = [elementCount]string{"Akasha (Ether)", "Vayu (Air)", "Tejas (Fire)", "Apas (Water)", "Prithvi (Earth)"}

var elementSex = [elementCount]vedic.Sex{vedic.Male, vedic.Female, vedic.Male, vedic.Female, vedic.Male}

// Starting element of the day's cycle, indexed by time.Weekday.
var weekdayStart = [7]Element{Fire, Water, Fire, Earth, Ether, Water, Air}

func (e Element) String() string {
	if e < 0 || int(e) >= elementCount {
		return "Unknown"
	}
	return elementNames[e]
}

func (e Element) Sex() vedic.Sex {
	return elementSex[e]
}

type Result struct {
	Element Element   `json:"element"`
	Name    string    `json:"name"`
	Sex     vedic.Sex `json:"sex"`
}

// Tattwa returns the element ruling the birth moment. The weekday is read in
// the sunrise value's own location, so callers pass sunrise in local time.
func Tattwa(birth, sunrise time.Time) Result {
	start := weekdayStart[sunrise.Weekday()]

	diff := birth.Sub(sunrise)
	if diff < 0 {
		diff += day
	}
	pos := math.Mod(diff.Minutes(), superCycleMins)
	sub := int(math.Floor(pos / subPeriodMins))

	current := Element((int(start) + sub) % elementCount)
	return Result{Element: current, Name: current.String(), Sex: current.Sex()}
}

type KundaResult struct {
	KundaLon  float64 `json:"kunda_longitude"`
	KundaSign int     `json:"kunda_sign"`
	SignName  string  `json:"sign_name"`
	MoonSign  int     `json:"moon_sign"`
	Distance  int     `json:"distance"`
	Match     bool    `json:"match"`
}

// Kunda multiplies the sidereal lagna by 81 and requires the resulting sign to
// fall 1, 5, 7 or 9 from the Moon's sign.
func Kunda(lagnaDeg, moonDeg float64) KundaResult {
	kundaLon := math.Mod(lagnaDeg*81, 360)
	kundaSign := int(math.Floor(kundaLon / 30))
	moonSign := int(math.Floor(moonDeg / 30))
	dist := vedic.HouseFrom(moonSign, kundaSign)

	return KundaResult{
		KundaLon:  kundaLon,
		KundaSign: kundaSign,
		SignName:  vedic.SignName(kundaSign),
		MoonSign:  moonSign,
		Distance:  dist,
		Match:     vedic.InTrineOrSeventh(dist),
	}
}
