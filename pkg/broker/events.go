package broker

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventCartBooked       = "cart.booked"
	EventCartCancelled    = "cart.cancelled"
	EventScreeningCreated = "screening.created"
)

// Event is the envelope written to the queue.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type CartEvent struct {
	CartID uuid.UUID       `json:"cart_id"`
	UserID uuid.UUID       `json:"user_id"`
	Seats  int             `json:"seats"`
	Total  decimal.Decimal `json:"total"`
}

type ScreeningEvent struct {
	ScreeningID uuid.UUID `json:"screening_id"`
	HallID      uuid.UUID `json:"hall_id"`
	MovieID     uuid.UUID `json:"movie_id"`
	StartTime   time.Time `json:"start_time"`
	Seats       int       `json:"seats"`
}
