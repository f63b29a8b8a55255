package rectification

import (
	"sort"
	"strings"

	"github.com/btr-engine/backend/internal/vedic"
)

// DefaultSound is used when no prefix of a name is found in the Hoda cakra.
const DefaultSound = "mo"

// AutoSound is the value that asks for the sound to be derived from the name.
const AutoSound = "AUTO"

// Hoda cakra: phonetic syllable to zero-based sign index.
var hodaCakra = map[string]int{
	"chu": 0, "che": 0, "cho": 0, "la": 0, "li": 0,
	"lu": 1, "le": 1, "lo": 1, "vi": 1, "vu": 1, "ve": 1, "vo": 1,
	"ka": 2, "ki": 2, "ku": 2, "gh": 2, "cha": 2, "ke": 2, "ko": 2,
	"hi": 3, "hu": 3, "he": 3, "ho": 3, "da": 3,
	"ma": 4, "mi": 4, "mu": 4, "me": 4, "mo": 4,
	"pa": 5, "pi": 5, "pu": 5, "sha": 5,
	"ra": 6, "ri": 6, "ru": 6, "re": 6, "ro": 6, "ta": 6,
	"to": 7, "na": 7, "ni": 7, "nu": 7, "ne": 7, "ya": 7, "yi": 7,
	"ye": 8, "yo": 8, "bha": 8, "bhi": 8, "bhu": 8, "dha": 8,
	"bho": 9, "ja": 9, "ji": 9, "khi": 9, "khu": 9, "khe": 9,
	"gu": 10, "ge": 10, "go": 10, "sa": 10, "si": 10, "su": 10,
	"di": 11, "du": 11, "tha": 11, "jha": 11, "de": 11, "do": 11,
}

// SoundFromName picks the longest (3, 2, then 1 letter) prefix of name that
// appears in the Hoda cakra.
func SoundFromName(name string) string {
	clean := []rune(strings.ToLower(strings.TrimSpace(name)))
	if len(clean) == 0 {
		return DefaultSound
	}
	for n := 3; n >= 1; n-- {
		if len(clean) < n {
			continue
		}
		if _, ok := hodaCakra[string(clean[:n])]; ok {
			return string(clean[:n])
		}
	}
	return DefaultSound
}

// SoundSign maps a sound to its sign. Unknown sounds fall back to Aries.
func SoundSign(sound string) int {
	return hodaCakra[strings.ToLower(sound)]
}

// IsKnownSound reports whether sound is a Hoda cakra key.
func IsKnownSound(sound string) bool {
	_, ok := hodaCakra[strings.ToLower(sound)]
	return ok
}

// ResolveSound returns the forced sound, or the one derived from name when
// forced is empty or AUTO.
func ResolveSound(name, forced string) string {
	if forced == "" || strings.EqualFold(forced, AutoSound) {
		return SoundFromName(name)
	}
	return strings.ToLower(forced)
}

type Sound struct {
	Key      string `json:"key"`
	Sign     int    `json:"sign"`
	SignName string `json:"sign_name"`
}

// Sounds lists the catalog sorted by key.
func Sounds() []Sound {
	out := make([]Sound, 0, len(hodaCakra))
	for k, s := range hodaCakra {
		out = append(out, Sound{Key: k, Sign: s, SignName: vedic.SignName(s)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
