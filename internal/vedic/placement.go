package vedic

import (
	"fmt"
	"math"

	"github.com/btr-engine/backend/internal/astro"
)

const (
	LagnaName     = "Lagna"
	PranapadaName = "Pranapada"

	nakshatraSpan = 360.0 / 27
	padaSpan      = nakshatraSpan / 4
)

type Kind string

const (
	KindLagna     Kind = "lagna"
	KindBody      Kind = "body"
	KindPranapada Kind = "pranapada"
)

// DMS is a degree split truncated to whole seconds.
type DMS struct {
	Degrees int `json:"degrees"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

func (d DMS) String() string {
	return fmt.Sprintf("%d° %d' %d\"", d.Degrees, d.Minutes, d.Seconds)
}

func SplitDegrees(deg float64) DMS {
	return DMS{
		Degrees: int(math.Floor(deg)),
		Minutes: int(math.Floor(math.Mod(deg, 1) * 60)),
		Seconds: int(math.Floor(math.Mod(deg*60, 1) * 60)),
	}
}

type Placement struct {
	Name        string     `json:"name"`
	Kind        Kind       `json:"kind"`
	Body        astro.Body `json:"-"`
	IsLagna     bool       `json:"is_lagna"`
	IsRetro     bool       `json:"is_retro"`
	SiderealLon float64    `json:"sidereal_longitude"`
	SignIdx     int        `json:"sign_index"`
	Sign        string     `json:"sign"`
	Degree      float64    `json:"degree_in_sign"`
	DMS         DMS        `json:"dms"`
	D3J         int        `json:"d3j"`
	D9          int        `json:"d9"`
	D60         int        `json:"d60"`
	D60Deity    string     `json:"d60_deity"`
	Dignity     Dignity    `json:"dignity,omitempty"`
	Nakshatra   string     `json:"nakshatra"`
	Pada        int        `json:"pada"`
}

// SignIn returns the placement's sign in the requested varga.
func (p Placement) SignIn(v Varga) int {
	switch v {
	case D3J:
		return p.D3J
	case D9:
		return p.D9
	case D60:
		return p.D60
	}
	return p.SignIdx
}

// FormatPlacement derives the sidereal view of a longitude. Lagna and
// Pranapada are already sidereal and pass through; anything else has the
// ayanamsa subtracted.
func FormatPlacement(name string, lon float64, isRetro bool, ayanamsa float64, isLagna bool) Placement {
	kind := KindBody
	var sidereal float64
	switch {
	case isLagna:
		kind = KindLagna
		sidereal = astro.Normalize(lon)
	case name == PranapadaName:
		kind = KindPranapada
		sidereal = astro.Normalize(lon)
	default:
		sidereal = Sidereal(lon, ayanamsa)
	}

	sign := int(math.Floor(sidereal / 30))
	within := math.Mod(sidereal, 30)

	part := int(math.Floor(within * 2))
	deity := D60Deities[part]
	if sign%2 != 0 {
		deity = D60Deities[59-part]
	}

	p := Placement{
		Name:        name,
		Kind:        kind,
		IsLagna:     isLagna,
		IsRetro:     isRetro,
		SiderealLon: sidereal,
		SignIdx:     sign,
		Sign:        Signs[sign],
		Degree:      within,
		DMS:         SplitDegrees(within),
		D3J:         DivisionalSign(sidereal, D3J),
		D9:          DivisionalSign(sidereal, D9),
		D60:         DivisionalSign(sidereal, D60),
		D60Deity:    deity,
		Nakshatra:   Nakshatras[int(math.Floor(sidereal/nakshatraSpan))%27],
		Pada:        int(math.Floor(math.Mod(sidereal, nakshatraSpan)/padaSpan)) + 1,
	}
	if kind == KindBody {
		if b, ok := astro.ParseBody(name); ok {
			p.Body = b
			p.Dignity = DignityOf(b, sign)
		}
	}
	return p
}
