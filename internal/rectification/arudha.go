package rectification

import "github.com/btr-engine/backend/internal/vedic"

// ArudhaLagna counts from the D1 lagna to its lord and the same distance
// again from the lord. Landing on the lagna or its 7th moves the result on by
// nine signs; the two exceptions are applied once each.
func ArudhaLagna(c *vedic.Chart) int {
	asc := c.Lagna.SignIdx
	lord := c.Body(vedic.SignLord(asc)).SignIdx

	gap := mod12(lord - asc)
	al := mod12(lord + gap)
	if al == asc {
		al = mod12(al + 9)
	}
	if al == mod12(asc+6) {
		al = mod12(al + 9)
	}
	return al
}
