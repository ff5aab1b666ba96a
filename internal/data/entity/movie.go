package entity

import "time"

// Movie is the slice of the film catalog the reservation core reads: a
// screening's occupied interval is derived from DurationInMinutes.
type Movie struct {
	Base
	Title             string `db:"title"`
	DurationInMinutes *int   `db:"duration_in_minutes"`
}

func (m *Movie) Length() time.Duration {
	if m.DurationInMinutes == nil {
		return 0
	}
	return time.Duration(*m.DurationInMinutes) * time.Minute
}
