package models

import (
	"time"

	"github.com/btr-engine/backend/internal/search"
)

// Native is a saved birth profile. Only the inputs are stored, never the
// calculated charts.
type Native struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Gender       string    `json:"gender"`
	BirthDate    string    `json:"birth_date"`
	BirthTime    string    `json:"birth_time"`
	TZOffset     float64   `json:"tz_offset"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Place        string    `json:"place"`
	ForcedSound  string    `json:"forced_sound,omitempty"`
	ForcedArudha *int      `json:"forced_arudha,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (n *Native) Request() search.Request {
	tz, lat, lon := n.TZOffset, n.Latitude, n.Longitude
	return search.Request{
		Date:         n.BirthDate,
		Time:         n.BirthTime,
		TZOffset:     &tz,
		Latitude:     &lat,
		Longitude:    &lon,
		Name:         n.Name,
		Gender:       n.Gender,
		ForcedSound:  n.ForcedSound,
		ForcedArudha: n.ForcedArudha,
	}
}

// SampleNative is the reference birth seeded into a new store.
func SampleNative() *Native {
	return &Native{
		Name:      "Sample Native",
		Gender:    "MALE",
		BirthDate: "1985-05-20",
		BirthTime: "14:30:15",
		TZOffset:  5.5,
		Latitude:  13.6288,
		Longitude: 79.4192,
		Place:     "Tirupati, India",
	}
}
