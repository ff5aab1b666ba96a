package usecase

import (
	"time"

	"cinema-ticketing/internal/data/entity"

	"github.com/google/uuid"
)

// ScheduleGuard decides whether a screening may occupy an interval of a hall.
type ScheduleGuard struct {
	buffer time.Duration
	lead   time.Duration
	now    func() time.Time
}

func NewScheduleGuard(buffer, lead time.Duration) *ScheduleGuard {
	return &ScheduleGuard{
		buffer: buffer,
		lead:   lead,
		now:    time.Now,
	}
}

// Validate checks proposed against the hall's existing screenings, skipping
// excludeID (the screening being edited, or uuid.Nil). The lead time only
// applies when creating. It has no side effects.
func (g *ScheduleGuard) Validate(proposed entity.Interval, existing []*entity.Screening, excludeID uuid.UUID, creating bool) error {
	if proposed.Length <= 0 {
		return entity.ErrMovieHasNoLength
	}

	now := g.now()
	if proposed.Start.Before(now) {
		return entity.ErrScreeningInPast
	}
	if creating && proposed.Start.Before(now.Add(g.lead)) {
		return entity.ErrScreeningTooSoon
	}

	for _, other := range existing {
		if other.ID == excludeID {
			continue
		}
		if g.overlaps(proposed, other.Interval()) {
			return entity.ErrScreeningOverlap
		}
	}

	return nil
}

// Two intervals are compatible only when one ends at least buffer before
// the other starts.
func (g *ScheduleGuard) overlaps(a, b entity.Interval) bool {
	if !b.End().Add(g.buffer).After(a.Start) {
		return false
	}
	if !a.End().After(b.Start.Add(-g.buffer)) {
		return false
	}
	return true
}
