package entity

import (
	"time"

	"github.com/google/uuid"
)

type Screening struct {
	Base
	HallID    uuid.UUID `db:"hall_id"`
	MovieID   uuid.UUID `db:"movie_id"`
	StartTime time.Time `db:"start_time"`

	// Joined from movies, never stored on the screening row.
	DurationMinutes int    `db:"-"`
	MovieTitle      string `db:"-"`
}

// Interval is a half-open time range [Start, Start+Length).
type Interval struct {
	Start  time.Time
	Length time.Duration
}

func (i Interval) End() time.Time {
	return i.Start.Add(i.Length)
}

func (s *Screening) Interval() Interval {
	return Interval{
		Start:  s.StartTime,
		Length: time.Duration(s.DurationMinutes) * time.Minute,
	}
}

func (s *Screening) EndTime() time.Time {
	return s.Interval().End()
}

// HasStarted reports whether the screening start time is at or before now.
func (s *Screening) HasStarted(now time.Time) bool {
	return !s.StartTime.After(now)
}
