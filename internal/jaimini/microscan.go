package jaimini

import (
	"math"
	"time"

	"github.com/btr-engine/backend/internal/vedic"
)

const microScanHalfWidth = 10

type Slit struct {
	Offset    int       `json:"offset"`
	Instant   time.Time `json:"instant"`
	Vighatika int       `json:"vighatika"`
	BodyIndex int       `json:"body_index"`
	Body      string    `json:"body"`
	Sex       vedic.Sex `json:"sex"`
}

// MicroScan lists the 21 Vighatika slits from -10 to +10 around the floor of
// baseVig. Dignity is not recomputed per slit, so only the body tier of the
// sex rule applies.
func MicroScan(baseVig float64, base time.Time, lagnaSign int) []Slit {
	floor := int(math.Floor(baseVig))
	slits := make([]Slit, 0, 2*microScanHalfWidth+1)
	for i := -microScanHalfWidth; i <= microScanHalfWidth; i++ {
		target := floor + i
		shift := time.Duration((float64(target) - baseVig) * float64(VighatikaDuration))

		index := target % cycleLength
		if index < 0 {
			index += cycleLength
		}
		if index == 0 {
			index = cycleLength
		}

		sex := DetermineSex(index, false, false, lagnaSign)
		slits = append(slits, Slit{
			Offset:    i,
			Instant:   base.Add(shift),
			Vighatika: target,
			BodyIndex: index,
			Body:      cycleBody(index).String(),
			Sex:       sex.Sex,
		})
	}
	return slits
}
