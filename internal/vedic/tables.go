package vedic

import "github.com/btr-engine/backend/internal/astro"

var Signs = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

var Nakshatras = [27]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni", "Uttara Phalguni",
	"Hasta", "Chitra", "Swati", "Vishakha", "Anuradha", "Jyeshtha",
	"Moola", "Purva Ashadha", "Uttara Ashadha", "Shravana", "Dhanishta",
	"Shatabhisha", "Purva Bhadrapada", "Uttara Bhadrapada", "Revati",
}

var signLords = [12]astro.Body{
	astro.Mars, astro.Venus, astro.Mercury, astro.Moon, astro.Sun, astro.Mercury,
	astro.Venus, astro.Mars, astro.Jupiter, astro.Saturn, astro.Saturn, astro.Jupiter,
}

// Zero-based sign indices; -1 where the body has no entry.
var (
	exaltationSign = [astro.BodyCount]int{0, 1, 9, 5, 3, 11, 6, -1, -1}
	debilitySign   = [astro.BodyCount]int{6, 7, 3, 11, 9, 5, 0, -1, -1}
	ownSigns       = [astro.BodyCount][]int{
		astro.Sun:     {4},
		astro.Moon:    {3},
		astro.Mars:    {0, 7},
		astro.Mercury: {2, 5},
		astro.Jupiter: {8, 11},
		astro.Venus:   {1, 6},
		astro.Saturn:  {9, 10},
		astro.Rahu:    {10},
		astro.Ketu:    {7},
	}
)

var D60Deities = [60]string{
	"Ghora", "Rakshasa", "Deva", "Kubera", "Yaksha", "Kindara", "Bhrashta", "Kulaghna",
	"Garala", "Vahni", "Maya", "Purishaka", "Apampati", "Marutwan", "Kaala", "Sarpa",
	"Amrita", "Indu", "Mridu", "Komala", "Heramba", "Brahma", "Vishnu", "Maheshwara",
	"Deva", "Arudra", "Kalinasana", "Kshitishwara", "Kamalakara", "Gulika", "Mrityu", "Kaala",
	"Davagni", "Ghora", "Adhama", "Kantaka", "Vishadagdha", "Amrita", "Poornachandra", "Vishadagdha",
	"Kulanasa", "Vamshakshaya", "Utpata", "Kaala", "Saumya", "Komala", "Sheetala", "Karaladamshtra",
	"Chandramukhi", "Praveena", "Kaalagni", "Dandayudha", "Nirmala", "Saumya", "Crura", "Atisheetala",
	"Amrita", "Payodhi", "Bhramana", "Chandrarekha",
}

type SignNature int

const (
	Movable SignNature = iota
	Fixed
	Dual
)

func (n SignNature) String() string {
	switch n {
	case Movable:
		return "movable"
	case Fixed:
		return "fixed"
	case Dual:
		return "dual"
	}
	return "unknown"
}

func NatureOf(sign int) SignNature {
	return SignNature(mod(sign, 3))
}

func SignName(sign int) string {
	return Signs[mod(sign, 12)]
}

// SignLord returns the primary lord of a sign.
func SignLord(sign int) astro.Body {
	return signLords[mod(sign, 12)]
}

// SignLords returns every lord of a sign: Scorpio adds Ketu and Aquarius adds Rahu.
func SignLords(sign int) []astro.Body {
	sign = mod(sign, 12)
	lords := []astro.Body{signLords[sign]}
	switch sign {
	case 7:
		lords = append(lords, astro.Ketu)
	case 10:
		lords = append(lords, astro.Rahu)
	}
	return lords
}

type Dignity string

const (
	DignityNone        Dignity = ""
	DignityExalted     Dignity = "Exalted"
	DignityDebilitated Dignity = "Debilitated"
	DignityOwnSign     Dignity = "Own Sign"
)

func DignityOf(b astro.Body, sign int) Dignity {
	if b < 0 || int(b) >= astro.BodyCount {
		return DignityNone
	}
	if exaltationSign[b] == sign {
		return DignityExalted
	}
	if debilitySign[b] == sign {
		return DignityDebilitated
	}
	for _, s := range ownSigns[b] {
		if s == sign {
			return DignityOwnSign
		}
	}
	return DignityNone
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
