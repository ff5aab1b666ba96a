package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// SeatStatus is the outward availability of a seat for one viewer. Free
// seats and seats held by somebody else both report SeatUnavailable.
type SeatStatus int

const (
	SeatBooked SeatStatus = iota
	SeatMineUnbooked
	SeatUnavailable
)

func (s SeatStatus) String() string {
	switch s {
	case SeatBooked:
		return "booked"
	case SeatMineUnbooked:
		return "mine"
	case SeatUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("SeatStatus(%d)", int(s))
	}
}

func (s SeatStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SeatState is the viewer-independent snapshot of one seat: enough to
// resolve its status for any user.
type SeatState struct {
	SeatID      uuid.UUID  `json:"seat_id"`
	Row         int        `json:"row"`
	Number      int        `json:"seat"`
	IsBooked    bool       `json:"is_booked"`
	CartOwnerID *uuid.UUID `json:"cart_owner_id,omitempty"`
}

func (s SeatState) Coord() SeatCoord {
	return SeatCoord{Row: s.Row, Number: s.Number}
}

// Resolve maps a seat snapshot to its status for viewer. uuid.Nil is an
// anonymous viewer and never owns a cart.
func (s SeatState) Resolve(viewer uuid.UUID) SeatStatus {
	if s.IsBooked {
		return SeatBooked
	}
	if s.CartOwnerID != nil && viewer != uuid.Nil && *s.CartOwnerID == viewer {
		return SeatMineUnbooked
	}
	return SeatUnavailable
}

// SeatGrid maps every coordinate of a hall to its status for one viewer.
type SeatGrid map[SeatCoord]SeatStatus

// ResolveGrid computes the status of every coordinate of hall. Coordinates
// missing from states resolve to SeatUnavailable.
func ResolveGrid(hall *Hall, states []SeatState, viewer uuid.UUID) SeatGrid {
	byCoord := make(map[SeatCoord]SeatState, len(states))
	for _, st := range states {
		byCoord[st.Coord()] = st
	}

	grid := make(SeatGrid, hall.TotalSeats())
	for row := 1; row <= hall.Rows; row++ {
		for number := 1; number <= hall.SeatsPerRow; number++ {
			coord := SeatCoord{Row: row, Number: number}
			st, ok := byCoord[coord]
			if !ok {
				grid[coord] = SeatUnavailable
				continue
			}
			grid[coord] = st.Resolve(viewer)
		}
	}
	return grid
}
