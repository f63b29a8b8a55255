package search

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/btr-engine/backend/internal/astro"
	"github.com/btr-engine/backend/internal/vedic"
	"github.com/btr-engine/backend/pkg/logger"
)

const (
	PranapadaHalfWidth = 900 * time.Second
	PranapadaStep      = 5 * time.Second
)

type PranapadaFix struct {
	Instant   time.Time `json:"instant"`
	LocalTime string    `json:"local_time"`
	Offset    int       `json:"offset_seconds"`
	PPSign    string    `json:"pp_sign"`
	MoonSign  string    `json:"moon_sign"`
	House     int       `json:"house"`
}

// AutoFixPranapada finds the instant nearest the request, within ±15 minutes,
// whose Pranapada falls 1, 5, 7 or 9 from the Moon in D9. The Sun, Moon and
// ayanamsa of the request instant are reused for every offset.
func (e *Engine) AutoFixPranapada(in *Input) (*PranapadaFix, error) {
	ayanamsa := vedic.Ayanamsa(in.Instant)
	pos := e.provider.Positions(in.Instant)
	sun := vedic.Sidereal(pos.Of(astro.Sun).Longitude, ayanamsa)
	moonD9 := vedic.DivisionalSign(vedic.Sidereal(pos.Of(astro.Moon).Longitude, ayanamsa), vedic.D9)

	var best *PranapadaFix
	evaluated := 0
	for off := -PranapadaHalfWidth; off <= PranapadaHalfWidth; off += PranapadaStep {
		t := in.Instant.Add(off)
		pp, _ := vedic.Pranapada(e.provider, t, in.Observer, sun)
		ppD9 := vedic.DivisionalSign(pp, vedic.D9)
		house := vedic.HouseFrom(moonD9, ppD9)
		evaluated++
		if !vedic.InTrineOrSeventh(house) {
			continue
		}
		secs := int(off / time.Second)
		if best == nil || abs(secs) < abs(best.Offset) {
			best = &PranapadaFix{
				Instant:   t,
				LocalTime: in.Local(t).Format(TimeLayout),
				Offset:    secs,
				PPSign:    vedic.SignName(ppD9),
				MoonSign:  vedic.SignName(moonD9),
				House:     house,
			}
		}
	}

	logger.Debug("Pranapada scan finished",
		zap.Int("evaluated", evaluated),
		zap.Bool("found", best != nil),
	)
	if best == nil {
		return nil, fmt.Errorf("no Pranapada alignment within ±15 minutes: %w", ErrNoResult)
	}
	return best, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
