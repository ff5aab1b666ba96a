package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Seat struct {
	Base
	ScreeningID uuid.UUID       `db:"screening_id"`
	Row         int             `db:"seat_row"`
	Number      int             `db:"seat_number"`
	Price       decimal.Decimal `db:"price"`
	IsBooked    bool            `db:"is_booked"`
	CartID      *uuid.UUID      `db:"cart_id"`

	// Start of the owning screening, joined in when seats are read through a cart.
	ScreeningStart time.Time `db:"-"`
}

// MaxSeatPrice is the largest amount a NUMERIC(7, 2) price column holds.
var MaxSeatPrice = decimal.RequireFromString("99999.99")

// NormalizePrice rounds to cents and rejects amounts outside [0, MaxSeatPrice].
func NormalizePrice(price decimal.Decimal) (decimal.Decimal, error) {
	rounded := price.Round(2)
	if price.IsNegative() || rounded.GreaterThan(MaxSeatPrice) {
		return decimal.Zero, ErrInvalidPrice
	}
	return rounded, nil
}

// SeatCoord addresses a seat inside a screening's grid.
type SeatCoord struct {
	Row    int `json:"row"`
	Number int `json:"seat"`
}

func (s *Seat) Coord() SeatCoord {
	return SeatCoord{Row: s.Row, Number: s.Number}
}

func (s *Seat) InCart(cartID uuid.UUID) bool {
	return s.CartID != nil && *s.CartID == cartID
}

// NewSeatGrid builds one unbooked, cart-less seat per coordinate of hall,
// row-major, all at the same price.
func NewSeatGrid(screeningID uuid.UUID, hall *Hall, price decimal.Decimal, now time.Time) []*Seat {
	seats := make([]*Seat, 0, hall.TotalSeats())
	for row := 1; row <= hall.Rows; row++ {
		for number := 1; number <= hall.SeatsPerRow; number++ {
			seats = append(seats, &Seat{
				Base:        NewBase(now),
				ScreeningID: screeningID,
				Row:         row,
				Number:      number,
				Price:       price,
			})
		}
	}
	return seats
}
