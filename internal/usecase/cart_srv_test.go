package usecase

import (
	"context"
	"testing"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartFixture struct {
	store     *memStore
	screening *entity.Screening
	now       time.Time
}

func newCartFixture() *cartFixture {
	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newMemStore()
	hall := store.addHall(3, 4)
	movie := store.addMovie(100)
	screening := store.addScreening(hall, movie, now.Add(4*time.Hour))
	return &cartFixture{store: store, screening: screening, now: now}
}

func (f *cartFixture) claim(screening *entity.Screening, row, seat int) *request.ClaimSeatRequest {
	return &request.ClaimSeatRequest{ScreeningID: screening.ID.String(), Row: row, Seat: seat}
}

func TestCartService_ClaimAndBook(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()
	svc := testService(f.store, entity.ClaimExclusive, f.now)
	user := uuid.New()
	cart := f.store.addCart(user)

	_, err := svc.ClaimSeat(ctx, user, cart.ID, f.claim(f.screening, 1, 1))
	require.NoError(t, err)
	_, err = svc.ClaimSeat(ctx, user, cart.ID, f.claim(f.screening, 2, 3))
	require.NoError(t, err)

	// claiming the same seat again is harmless
	_, err = svc.ClaimSeat(ctx, user, cart.ID, f.claim(f.screening, 1, 1))
	require.NoError(t, err)

	detail, err := svc.BookCart(ctx, user, cart.ID)
	require.NoError(t, err)

	assert.True(t, detail.IsBooked)
	assert.Equal(t, 2, detail.SeatCount)
	assert.Equal(t, "1000.00", detail.Total)
	require.Len(t, detail.Screenings, 1)
	assert.Equal(t, 1, detail.Screenings[0].Seats[0].Row)

	assert.True(t, f.store.carts[cart.ID].IsBooked)
	for _, coord := range [][2]int{{1, 1}, {2, 3}} {
		seat := f.store.seatAt(f.screening.ID, coord[0], coord[1])
		assert.True(t, seat.IsBooked)
		assert.True(t, seat.InCart(cart.ID))
	}
}

func TestCartService_ClaimSeatErrors(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()
	svc := testService(f.store, entity.ClaimExclusive, f.now)
	user := uuid.New()
	cart := f.store.addCart(user)

	t.Run("unknown seat", func(t *testing.T) {
		_, err := svc.ClaimSeat(ctx, user, cart.ID, f.claim(f.screening, 9, 9))
		assert.ErrorIs(t, err, entity.ErrNotFound)
	})

	t.Run("cart of another user", func(t *testing.T) {
		_, err := svc.ClaimSeat(ctx, uuid.New(), cart.ID, f.claim(f.screening, 1, 1))
		assert.ErrorIs(t, err, entity.ErrCartNotFound)
		assert.Nil(t, f.store.seatAt(f.screening.ID, 1, 1).CartID)
	})

	t.Run("booked seat", func(t *testing.T) {
		f.store.seatAt(f.screening.ID, 3, 4).IsBooked = true

		_, err := svc.ClaimSeat(ctx, user, cart.ID, f.claim(f.screening, 3, 4))
		assert.ErrorIs(t, err, entity.ErrSeatUnavailable)
	})

	t.Run("booked cart", func(t *testing.T) {
		booked := f.store.addCart(user)
		booked.IsBooked = true

		_, err := svc.ClaimSeat(ctx, user, booked.ID, f.claim(f.screening, 1, 2))
		assert.ErrorIs(t, err, entity.ErrAlreadyBooked)
		assert.Nil(t, f.store.seatAt(f.screening.ID, 1, 2).CartID)
	})
}

func TestCartService_ClaimPolicy(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		policy  entity.ClaimPolicy
		wantErr error
	}{
		{policy: entity.ClaimExclusive, wantErr: entity.ErrSeatUnavailable},
		{policy: entity.ClaimReassign},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			f := newCartFixture()
			svc := testService(f.store, tt.policy, f.now)
			alice, bob := uuid.New(), uuid.New()
			aliceCart, bobCart := f.store.addCart(alice), f.store.addCart(bob)

			_, err := svc.ClaimSeat(ctx, alice, aliceCart.ID, f.claim(f.screening, 2, 2))
			require.NoError(t, err)

			_, err = svc.ClaimSeat(ctx, bob, bobCart.ID, f.claim(f.screening, 2, 2))

			seat := f.store.seatAt(f.screening.ID, 2, 2)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, seat.InCart(aliceCart.ID))
				return
			}
			require.NoError(t, err)
			assert.True(t, seat.InCart(bobCart.ID))
		})
	}
}

func TestCartService_BookFailuresLeaveNoTrace(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		f := newCartFixture()
		svc := testService(f.store, entity.ClaimExclusive, f.now)
		user := uuid.New()
		cart := f.store.addCart(user)

		_, err := svc.BookCart(ctx, user, cart.ID)

		assert.ErrorIs(t, err, entity.ErrEmptyCart)
		assert.False(t, f.store.carts[cart.ID].IsBooked)
	})

	t.Run("seat already booked", func(t *testing.T) {
		f := newCartFixture()
		svc := testService(f.store, entity.ClaimExclusive, f.now)
		user := uuid.New()
		cart := f.store.addCart(user)

		for _, n := range []int{1, 2} {
			_, err := svc.ClaimSeat(ctx, user, cart.ID, f.claim(f.screening, 1, n))
			require.NoError(t, err)
		}
		f.store.seatAt(f.screening.ID, 1, 2).IsBooked = true

		_, err := svc.BookCart(ctx, user, cart.ID)

		assert.ErrorIs(t, err, entity.ErrSeatConflict)
		assert.False(t, f.store.carts[cart.ID].IsBooked)
		assert.False(t, f.store.seatAt(f.screening.ID, 1, 1).IsBooked)
	})

	t.Run("already booked", func(t *testing.T) {
		f := newCartFixture()
		svc := testService(f.store, entity.ClaimExclusive, f.now)
		user := uuid.New()
		cart := f.store.addCart(user)
		_, err := svc.ClaimSeat(ctx, user, cart.ID, f.claim(f.screening, 1, 1))
		require.NoError(t, err)
		_, err = svc.BookCart(ctx, user, cart.ID)
		require.NoError(t, err)

		_, err = svc.BookCart(ctx, user, cart.ID)

		assert.ErrorIs(t, err, entity.ErrAlreadyBooked)
	})
}

func TestCartService_CancelAndRebook(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()
	svc := testService(f.store, entity.ClaimExclusive, f.now)
	user := uuid.New()
	cart := f.store.addCart(user)

	_, err := svc.CancelCart(ctx, user, cart.ID)
	assert.ErrorIs(t, err, entity.ErrNotBooked)

	_, err = svc.ClaimSeat(ctx, user, cart.ID, f.claim(f.screening, 3, 1))
	require.NoError(t, err)
	_, err = svc.BookCart(ctx, user, cart.ID)
	require.NoError(t, err)

	detail, err := svc.CancelCart(ctx, user, cart.ID)
	require.NoError(t, err)
	assert.False(t, detail.IsBooked)

	seat := f.store.seatAt(f.screening.ID, 3, 1)
	assert.False(t, seat.IsBooked)
	assert.True(t, seat.InCart(cart.ID))

	detail, err = svc.BookCart(ctx, user, cart.ID)
	require.NoError(t, err)
	assert.True(t, detail.IsBooked)
	assert.True(t, seat.IsBooked)
}

func TestCartService_ReleaseSeat(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()
	svc := testService(f.store, entity.ClaimExclusive, f.now)
	user := uuid.New()
	cart := f.store.addCart(user)

	claimed, err := svc.ClaimSeat(ctx, user, cart.ID, f.claim(f.screening, 1, 4))
	require.NoError(t, err)
	_, err = svc.BookCart(ctx, user, cart.ID)
	require.NoError(t, err)

	seatID := uuid.MustParse(claimed.ID)
	require.NoError(t, svc.ReleaseSeat(ctx, user, cart.ID, seatID))

	seat := f.store.seats[seatID]
	assert.False(t, seat.IsBooked)
	assert.Nil(t, seat.CartID)

	err = svc.ReleaseSeat(ctx, user, cart.ID, seatID)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	err = svc.ReleaseSeat(ctx, user, cart.ID, uuid.New())
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestCartService_ExpireOnRead(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()
	user := uuid.New()
	cart := f.store.addCart(user)

	early := f.store.addScreening(f.store.halls[f.screening.HallID], f.store.movies[f.screening.MovieID], f.now.Add(time.Hour))

	svc := testService(f.store, entity.ClaimExclusive, f.now)
	_, err := svc.ClaimSeat(ctx, user, cart.ID, f.claim(early, 1, 1))
	require.NoError(t, err)
	_, err = svc.ClaimSeat(ctx, user, cart.ID, f.claim(f.screening, 1, 1))
	require.NoError(t, err)
	_, err = svc.BookCart(ctx, user, cart.ID)
	require.NoError(t, err)

	// two hours later the early screening has started
	later := testService(f.store, entity.ClaimExclusive, f.now.Add(2*time.Hour))
	detail, err := later.GetCart(ctx, user, cart.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, detail.SeatCount)
	assert.Equal(t, "500.00", detail.Total)
	require.Len(t, detail.Screenings, 1)
	assert.Equal(t, f.screening.ID.String(), detail.Screenings[0].ScreeningID)

	expired := f.store.seatAt(early.ID, 1, 1)
	assert.Nil(t, expired.CartID)
	assert.True(t, expired.IsBooked, "expiry keeps the booking")
}

func TestCartService_DeleteCart(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()
	svc := testService(f.store, entity.ClaimExclusive, f.now)
	user := uuid.New()
	cart := f.store.addCart(user)

	for _, n := range []int{1, 2, 3} {
		_, err := svc.ClaimSeat(ctx, user, cart.ID, f.claim(f.screening, 2, n))
		require.NoError(t, err)
	}
	_, err := svc.BookCart(ctx, user, cart.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteCart(ctx, uuid.New(), cart.ID), entity.ErrNotFound)

	require.NoError(t, svc.DeleteCart(ctx, user, cart.ID))

	assert.NotContains(t, f.store.carts, cart.ID)
	for _, n := range []int{1, 2, 3} {
		seat := f.store.seatAt(f.screening.ID, 2, n)
		assert.False(t, seat.IsBooked)
		assert.Nil(t, seat.CartID)
	}
}

func TestCartService_ManageCarts(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()
	svc := testService(f.store, entity.ClaimExclusive, f.now)
	user := uuid.New()

	created, err := svc.CreateCart(ctx, user, &request.CartRequest{Name: "Date night"})
	require.NoError(t, err)
	_, err = svc.CreateCart(ctx, user, &request.CartRequest{Name: "Kids"})
	require.NoError(t, err)
	_, err = svc.CreateCart(ctx, uuid.New(), &request.CartRequest{Name: "Date night"})
	require.NoError(t, err)

	filter := "date"
	page, err := svc.GetCarts(ctx, user, &request.PaginatedRequest{Page: 1, PerPage: 10}, &filter)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, created.ID, page.Data[0].ID)

	cartID := uuid.MustParse(created.ID)
	renamed, err := svc.RenameCart(ctx, user, cartID, &request.CartRequest{Name: "Anniversary"})
	require.NoError(t, err)
	assert.Equal(t, "Anniversary", renamed.Name)

	_, err = svc.RenameCart(ctx, uuid.New(), cartID, &request.CartRequest{Name: "Stolen"})
	assert.ErrorIs(t, err, entity.ErrCartNotFound)
}
