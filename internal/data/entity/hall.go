package entity

import "github.com/google/uuid"

type Hall struct {
	Base
	CinemaID    uuid.UUID `db:"cinema_id"`
	Name        string    `db:"name"`
	Rows        int       `db:"rows"`
	SeatsPerRow int       `db:"seats_per_row"`
}

func (h *Hall) TotalSeats() int {
	return h.Rows * h.SeatsPerRow
}

// Contains reports whether (row, seat) is a valid 1-based coordinate of the hall.
func (h *Hall) Contains(row, seat int) bool {
	return row >= 1 && row <= h.Rows && seat >= 1 && seat <= h.SeatsPerRow
}

func (h *Hall) GeometryChanged(rows, seatsPerRow int) bool {
	return h.Rows != rows || h.SeatsPerRow != seatsPerRow
}
