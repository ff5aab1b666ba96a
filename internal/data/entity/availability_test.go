package entity

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatState_Resolve(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	tests := []struct {
		name   string
		state  SeatState
		viewer uuid.UUID
		want   SeatStatus
	}{
		{name: "booked seat for the owner", state: SeatState{IsBooked: true, CartOwnerID: &owner}, viewer: owner, want: SeatBooked},
		{name: "booked seat for a stranger", state: SeatState{IsBooked: true, CartOwnerID: &owner}, viewer: stranger, want: SeatBooked},
		{name: "booked seat without cart", state: SeatState{IsBooked: true}, viewer: stranger, want: SeatBooked},
		{name: "held seat for the owner", state: SeatState{CartOwnerID: &owner}, viewer: owner, want: SeatMineUnbooked},
		{name: "held seat for a stranger", state: SeatState{CartOwnerID: &owner}, viewer: stranger, want: SeatUnavailable},
		{name: "free seat", state: SeatState{}, viewer: stranger, want: SeatUnavailable},
		{name: "anonymous viewer", state: SeatState{CartOwnerID: &owner}, viewer: uuid.Nil, want: SeatUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Resolve(tt.viewer))
		})
	}
}

func TestResolveGrid(t *testing.T) {
	viewer := uuid.New()
	hall := &Hall{Rows: 2, SeatsPerRow: 3}
	states := []SeatState{
		{Row: 1, Number: 1, IsBooked: true},
		{Row: 1, Number: 2, CartOwnerID: &viewer},
		{Row: 1, Number: 3},
		{Row: 2, Number: 1},
		{Row: 2, Number: 2},
	}

	grid := ResolveGrid(hall, states, viewer)

	require.Len(t, grid, hall.TotalSeats())
	assert.Equal(t, SeatBooked, grid[SeatCoord{Row: 1, Number: 1}])
	assert.Equal(t, SeatMineUnbooked, grid[SeatCoord{Row: 1, Number: 2}])
	assert.Equal(t, SeatUnavailable, grid[SeatCoord{Row: 1, Number: 3}])
	assert.Equal(t, SeatUnavailable, grid[SeatCoord{Row: 2, Number: 3}], "missing seat")
}

func TestSeatStatus_MarshalText(t *testing.T) {
	body, err := json.Marshal(map[string]SeatStatus{"a": SeatBooked, "b": SeatMineUnbooked, "c": SeatUnavailable})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"booked","b":"mine","c":"unavailable"}`, string(body))
}
