package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeatGrid(t *testing.T) {
	screeningID := uuid.New()
	hall := &Hall{Rows: 3, SeatsPerRow: 4}
	price := decimal.RequireFromString("420.00")

	seats := NewSeatGrid(screeningID, hall, price, testNow)

	require.Len(t, seats, 12)
	seen := make(map[SeatCoord]bool, len(seats))
	for _, seat := range seats {
		assert.True(t, hall.Contains(seat.Row, seat.Number))
		assert.False(t, seen[seat.Coord()], "duplicate %v", seat.Coord())
		seen[seat.Coord()] = true

		assert.Equal(t, screeningID, seat.ScreeningID)
		assert.True(t, price.Equal(seat.Price))
		assert.False(t, seat.IsBooked)
		assert.Nil(t, seat.CartID)
		assert.NotEqual(t, uuid.Nil, seat.ID)
	}
	assert.Equal(t, SeatCoord{Row: 1, Number: 1}, seats[0].Coord())
	assert.Equal(t, SeatCoord{Row: 3, Number: 4}, seats[len(seats)-1].Coord())
}

func TestHall_Geometry(t *testing.T) {
	hall := &Hall{Rows: 5, SeatsPerRow: 10}

	assert.Equal(t, 50, hall.TotalSeats())
	assert.True(t, hall.Contains(5, 10))
	assert.False(t, hall.Contains(0, 1))
	assert.False(t, hall.Contains(6, 1))
	assert.False(t, hall.Contains(1, 11))

	assert.False(t, hall.GeometryChanged(5, 10))
	assert.True(t, hall.GeometryChanged(6, 10))
}

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "0", want: "0.00"},
		{in: "350.505", want: "350.51"},
		{in: "99999.99", want: "99999.99"},
		{in: "99999.994", want: "99999.99"},
		{in: "99999.995", wantErr: true},
		{in: "100000", wantErr: true},
		{in: "-0.01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizePrice(decimal.RequireFromString(tt.in))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPrice)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}
