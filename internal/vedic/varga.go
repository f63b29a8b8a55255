package vedic

import (
	"fmt"
	"math"

	"github.com/btr-engine/backend/internal/astro"
)

type Varga string

const (
	D1  Varga = "D1"
	D3J Varga = "D3-J"
	D9  Varga = "D9"
	D60 Varga = "D60"
)

func ParseVarga(s string) (Varga, error) {
	switch Varga(s) {
	case D1, D3J, D9, D60:
		return Varga(s), nil
	}
	return "", fmt.Errorf("unknown varga %q", s)
}

var navamsaStart = [4]int{0, 9, 6, 3}

// DivisionalSign maps a sidereal longitude into the sign of a divisional chart.
func DivisionalSign(lon float64, v Varga) int {
	lon = astro.Normalize(lon)
	sign := int(math.Floor(lon / 30))
	within := math.Mod(lon, 30)

	switch v {
	case D3J:
		decan := int(math.Floor(within / 10))
		start := sign
		switch NatureOf(sign) {
		case Fixed:
			start = (sign + 8) % 12
		case Dual:
			start = (sign + 4) % 12
		}
		return (start + decan*4) % 12
	case D9:
		segment := int(math.Floor(within / (30.0 / 9)))
		return (navamsaStart[sign%4] + segment) % 12
	case D60:
		segment := int(math.Floor(within * 2))
		return (sign + segment) % 12
	default:
		return sign
	}
}

// HouseFrom is the 1-based count from one sign to another.
func HouseFrom(from, to int) int {
	return mod(to-from, 12) + 1
}

// InTrineOrSeventh reports whether a 1-based house count is 1, 5, 7 or 9.
func InTrineOrSeventh(house int) bool {
	switch house {
	case 1, 5, 7, 9:
		return true
	}
	return false
}

// HasRashiDrishti reports whether source aspects target by sign. The relation is
// directional: callers must pass the aspecting sign first.
func HasRashiDrishti(source, target int) bool {
	source, target = mod(source, 12), mod(target, 12)
	if source == target {
		return true
	}
	switch NatureOf(source) {
	case Movable:
		return NatureOf(target) == Fixed && target != (source+1)%12
	case Fixed:
		return NatureOf(target) == Movable && target != mod(source-1, 12)
	default:
		return NatureOf(target) == Dual
	}
}
