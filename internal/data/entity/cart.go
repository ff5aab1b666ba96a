package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClaimPolicy decides what happens when a cart claims a seat that another
// open cart already holds.
type ClaimPolicy string

const (
	// ClaimExclusive rejects the claim with ErrSeatUnavailable.
	ClaimExclusive ClaimPolicy = "exclusive"
	// ClaimReassign moves the seat into the claiming cart.
	ClaimReassign ClaimPolicy = "reassign"
)

func ParseClaimPolicy(s string) (ClaimPolicy, error) {
	switch ClaimPolicy(s) {
	case "", ClaimExclusive:
		return ClaimExclusive, nil
	case ClaimReassign:
		return ClaimReassign, nil
	default:
		return "", fmt.Errorf("unknown claim policy %q", s)
	}
}

// Cart is a user's batch of claimed seats. It is Open while IsBooked is
// false and Booked otherwise. Seats holds the seats currently linked to the
// cart; the transition methods mutate both the cart and those seats in
// memory and the caller persists the result in one transaction.
type Cart struct {
	Base
	UserID   uuid.UUID `db:"user_id"`
	Name     string    `db:"name"`
	IsBooked bool      `db:"is_booked"`

	Seats []*Seat `db:"-"`
}

func (c *Cart) OwnedBy(userID uuid.UUID) bool {
	return c.UserID == userID
}

// Claim links seat to the cart. Re-claiming a seat already in this cart is a
// no-op and reports changed=false.
func (c *Cart) Claim(seat *Seat, policy ClaimPolicy) (changed bool, err error) {
	if c.IsBooked {
		return false, ErrAlreadyBooked
	}
	if seat.IsBooked {
		return false, ErrSeatUnavailable
	}
	if seat.InCart(c.ID) {
		return false, nil
	}
	if seat.CartID != nil && policy != ClaimReassign {
		return false, ErrSeatUnavailable
	}

	id := c.ID
	seat.CartID = &id
	c.Seats = append(c.Seats, seat)
	return true, nil
}

// Release unlinks seat from the cart and un-books it. Allowed in both states.
func (c *Cart) Release(seat *Seat) error {
	if !seat.InCart(c.ID) {
		return ErrSeatNotInCart
	}

	seat.IsBooked = false
	seat.CartID = nil
	c.removeSeat(seat.ID)
	return nil
}

// Book flips every seat and the cart to booked. Preconditions are checked
// before anything is mutated.
func (c *Cart) Book() error {
	if c.IsBooked {
		return ErrAlreadyBooked
	}
	if len(c.Seats) == 0 {
		return ErrEmptyCart
	}
	for _, seat := range c.Seats {
		if seat.IsBooked {
			return fmt.Errorf("%w: row %d seat %d", ErrSeatConflict, seat.Row, seat.Number)
		}
	}

	for _, seat := range c.Seats {
		seat.IsBooked = true
	}
	c.IsBooked = true
	return nil
}

func (c *Cart) Cancel() error {
	if !c.IsBooked {
		return ErrNotBooked
	}

	for _, seat := range c.Seats {
		seat.IsBooked = false
	}
	c.IsBooked = false
	return nil
}

// Dissolve prepares the cart for deletion: seats are un-booked first, then
// unlinked. It returns the seats that must be written back.
func (c *Cart) Dissolve() []*Seat {
	released := c.Seats
	if c.IsBooked {
		for _, seat := range released {
			seat.IsBooked = false
		}
		c.IsBooked = false
	}
	for _, seat := range released {
		seat.CartID = nil
	}
	c.Seats = nil
	return released
}

// ExpireStale unlinks every seat whose screening has already started. The
// booked flag is left alone. It returns the unlinked seats.
func (c *Cart) ExpireStale(now time.Time) []*Seat {
	var expired []*Seat
	kept := c.Seats[:0]
	for _, seat := range c.Seats {
		if !seat.ScreeningStart.After(now) {
			seat.CartID = nil
			expired = append(expired, seat)
			continue
		}
		kept = append(kept, seat)
	}
	c.Seats = kept
	return expired
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, seat := range c.Seats {
		total = total.Add(seat.Price)
	}
	return total
}

func (c *Cart) removeSeat(seatID uuid.UUID) {
	for i, s := range c.Seats {
		if s.ID == seatID {
			c.Seats = append(c.Seats[:i], c.Seats[i+1:]...)
			return
		}
	}
}
