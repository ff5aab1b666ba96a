package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type ScreeningRequest struct {
	HallID    string    `json:"hall_id" validate:"required,uuid"`
	MovieID   string    `json:"movie_id" validate:"required,uuid"`
	StartTime time.Time `json:"start_time" validate:"required"`
	// Ticket price of every seat; the configured default applies when omitted.
	Price *decimal.Decimal `json:"price,omitempty"`
}

// The hall of a screening is fixed once it is created.
type ScreeningUpdateRequest struct {
	MovieID   *string    `json:"movie_id,omitempty" validate:"omitempty,uuid"`
	StartTime *time.Time `json:"start_time,omitempty"`
}

type SeatCreateRequest struct {
	Price *decimal.Decimal `json:"price,omitempty"`
}

type SeatPriceRequest struct {
	Price *decimal.Decimal `json:"price" validate:"required"`
}
