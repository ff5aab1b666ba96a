package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestCart() *Cart {
	return &Cart{Base: NewBase(testNow), UserID: uuid.New(), Name: "friday"}
}

func newTestSeat(row, number int) *Seat {
	return &Seat{
		Base:           NewBase(testNow),
		ScreeningID:    uuid.New(),
		Row:            row,
		Number:         number,
		Price:          decimal.RequireFromString("500.00"),
		ScreeningStart: testNow.Add(2 * time.Hour),
	}
}

func claimAll(t *testing.T, cart *Cart, seats ...*Seat) {
	t.Helper()
	for _, seat := range seats {
		changed, err := cart.Claim(seat, ClaimExclusive)
		require.NoError(t, err)
		require.True(t, changed)
	}
}

func TestParseClaimPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    ClaimPolicy
		wantErr bool
	}{
		{in: "", want: ClaimExclusive},
		{in: "exclusive", want: ClaimExclusive},
		{in: "reassign", want: ClaimReassign},
		{in: "steal", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClaimPolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCart_Claim(t *testing.T) {
	t.Run("free seat joins the cart", func(t *testing.T) {
		cart := newTestCart()
		seat := newTestSeat(1, 1)

		changed, err := cart.Claim(seat, ClaimExclusive)

		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, seat.InCart(cart.ID))
		assert.False(t, seat.IsBooked)
		assert.Len(t, cart.Seats, 1)
	})

	t.Run("claiming twice is a no-op", func(t *testing.T) {
		cart := newTestCart()
		seat := newTestSeat(1, 1)
		claimAll(t, cart, seat)

		changed, err := cart.Claim(seat, ClaimExclusive)

		require.NoError(t, err)
		assert.False(t, changed)
		assert.Len(t, cart.Seats, 1)
	})

	t.Run("booked cart rejects claims", func(t *testing.T) {
		cart := newTestCart()
		claimAll(t, cart, newTestSeat(1, 1))
		require.NoError(t, cart.Book())

		seat := newTestSeat(1, 2)
		_, err := cart.Claim(seat, ClaimExclusive)

		assert.ErrorIs(t, err, ErrAlreadyBooked)
		assert.Nil(t, seat.CartID)
	})

	t.Run("booked seat is unavailable under both policies", func(t *testing.T) {
		for _, policy := range []ClaimPolicy{ClaimExclusive, ClaimReassign} {
			other := newTestCart()
			seat := newTestSeat(3, 4)
			claimAll(t, other, seat)
			require.NoError(t, other.Book())

			cart := newTestCart()
			_, err := cart.Claim(seat, policy)

			assert.ErrorIs(t, err, ErrSeatUnavailable, string(policy))
			assert.True(t, seat.InCart(other.ID))
			assert.Empty(t, cart.Seats)
		}
	})

	t.Run("exclusive policy refuses a seat held by another open cart", func(t *testing.T) {
		other := newTestCart()
		seat := newTestSeat(2, 2)
		claimAll(t, other, seat)

		cart := newTestCart()
		_, err := cart.Claim(seat, ClaimExclusive)

		assert.ErrorIs(t, err, ErrSeatUnavailable)
		assert.True(t, seat.InCart(other.ID))
	})

	t.Run("reassign policy moves a seat held by another open cart", func(t *testing.T) {
		other := newTestCart()
		seat := newTestSeat(2, 2)
		claimAll(t, other, seat)

		cart := newTestCart()
		changed, err := cart.Claim(seat, ClaimReassign)

		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, seat.InCart(cart.ID))
	})
}

func TestCart_Release(t *testing.T) {
	t.Run("open cart", func(t *testing.T) {
		cart := newTestCart()
		a, b := newTestSeat(1, 1), newTestSeat(1, 2)
		claimAll(t, cart, a, b)

		require.NoError(t, cart.Release(a))

		assert.Nil(t, a.CartID)
		assert.Equal(t, []*Seat{b}, cart.Seats)
	})

	t.Run("booked cart un-books the seat", func(t *testing.T) {
		cart := newTestCart()
		a, b := newTestSeat(1, 1), newTestSeat(1, 2)
		claimAll(t, cart, a, b)
		require.NoError(t, cart.Book())

		require.NoError(t, cart.Release(a))

		assert.False(t, a.IsBooked)
		assert.Nil(t, a.CartID)
		assert.True(t, b.IsBooked)
		assert.True(t, cart.IsBooked)
	})

	t.Run("seat of another cart", func(t *testing.T) {
		other := newTestCart()
		seat := newTestSeat(1, 1)
		claimAll(t, other, seat)

		err := newTestCart().Release(seat)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.True(t, seat.InCart(other.ID))
	})
}

func TestCart_Book(t *testing.T) {
	t.Run("books every seat", func(t *testing.T) {
		cart := newTestCart()
		seats := []*Seat{newTestSeat(1, 1), newTestSeat(1, 2), newTestSeat(2, 1)}
		claimAll(t, cart, seats...)

		require.NoError(t, cart.Book())

		assert.True(t, cart.IsBooked)
		for _, seat := range seats {
			assert.True(t, seat.IsBooked)
			assert.True(t, seat.InCart(cart.ID))
		}
	})

	t.Run("empty cart", func(t *testing.T) {
		cart := newTestCart()

		assert.ErrorIs(t, cart.Book(), ErrEmptyCart)
		assert.False(t, cart.IsBooked)
	})

	t.Run("already booked", func(t *testing.T) {
		cart := newTestCart()
		claimAll(t, cart, newTestSeat(1, 1))
		require.NoError(t, cart.Book())

		assert.ErrorIs(t, cart.Book(), ErrAlreadyBooked)
	})

	t.Run("conflicting seat leaves everything untouched", func(t *testing.T) {
		cart := newTestCart()
		free, taken := newTestSeat(1, 1), newTestSeat(1, 2)
		claimAll(t, cart, free, taken)
		taken.IsBooked = true

		err := cart.Book()

		assert.ErrorIs(t, err, ErrSeatConflict)
		assert.False(t, cart.IsBooked)
		assert.False(t, free.IsBooked)
	})
}

func TestCart_Cancel(t *testing.T) {
	t.Run("open cart", func(t *testing.T) {
		assert.ErrorIs(t, newTestCart().Cancel(), ErrNotBooked)
	})

	t.Run("book cancel book round trip", func(t *testing.T) {
		cart := newTestCart()
		seats := []*Seat{newTestSeat(1, 1), newTestSeat(1, 2)}
		claimAll(t, cart, seats...)

		require.NoError(t, cart.Book())
		require.NoError(t, cart.Cancel())

		assert.False(t, cart.IsBooked)
		for _, seat := range seats {
			assert.False(t, seat.IsBooked)
			assert.True(t, seat.InCart(cart.ID))
		}

		require.NoError(t, cart.Book())
		assert.True(t, cart.IsBooked)
		for _, seat := range seats {
			assert.True(t, seat.IsBooked)
		}
	})
}

func TestCart_Dissolve(t *testing.T) {
	for _, booked := range []bool{false, true} {
		cart := newTestCart()
		seats := []*Seat{newTestSeat(1, 1), newTestSeat(4, 7)}
		claimAll(t, cart, seats...)
		if booked {
			require.NoError(t, cart.Book())
		}

		released := cart.Dissolve()

		assert.ElementsMatch(t, seats, released)
		assert.Empty(t, cart.Seats)
		assert.False(t, cart.IsBooked)
		for _, seat := range seats {
			assert.False(t, seat.IsBooked)
			assert.Nil(t, seat.CartID)
		}
	}
}

func TestCart_ExpireStale(t *testing.T) {
	cart := newTestCart()
	past, starting, future := newTestSeat(1, 1), newTestSeat(1, 2), newTestSeat(1, 3)
	past.ScreeningStart = testNow.Add(-time.Hour)
	starting.ScreeningStart = testNow
	claimAll(t, cart, past, starting, future)
	require.NoError(t, cart.Book())

	expired := cart.ExpireStale(testNow)

	assert.ElementsMatch(t, []*Seat{past, starting}, expired)
	assert.Equal(t, []*Seat{future}, cart.Seats)
	for _, seat := range expired {
		assert.Nil(t, seat.CartID)
		assert.True(t, seat.IsBooked, "expiry never un-books")
	}
	assert.True(t, future.InCart(cart.ID))

	assert.Empty(t, cart.ExpireStale(testNow), "second pass is a no-op")
}

func TestCart_Total(t *testing.T) {
	cart := newTestCart()
	assert.True(t, cart.Total().IsZero())

	a, b := newTestSeat(1, 1), newTestSeat(1, 2)
	b.Price = decimal.RequireFromString("350.50")
	claimAll(t, cart, a, b)

	assert.Equal(t, "850.50", cart.Total().StringFixed(2))
}
