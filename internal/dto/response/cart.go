package response

import (
	"time"

	"cinema-ticketing/internal/data/entity"
)

type CartResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsBooked  bool      `json:"is_booked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartSeatResponse struct {
	ID    string `json:"id"`
	Row   int    `json:"row"`
	Seat  int    `json:"seat"`
	Price string `json:"price"`
}

type CartScreeningResponse struct {
	ScreeningID string             `json:"screening_id"`
	StartTime   time.Time          `json:"start_time"`
	Seats       []CartSeatResponse `json:"seats"`
}

type CartDetailResponse struct {
	CartResponse
	Screenings []CartScreeningResponse `json:"screenings"`
	SeatCount  int                     `json:"seat_count"`
	Total      string                  `json:"total"`
}

func CartToResponse(cart *entity.Cart) CartResponse {
	return CartResponse{
		ID:        cart.ID.String(),
		Name:      cart.Name,
		IsBooked:  cart.IsBooked,
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
}

// CartToDetailResponse groups the cart's seats by screening, keeping the
// order in which screenings first appear.
func CartToDetailResponse(cart *entity.Cart) CartDetailResponse {
	groups := []CartScreeningResponse{}
	index := map[string]int{}

	for _, seat := range cart.Seats {
		key := seat.ScreeningID.String()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, CartScreeningResponse{
				ScreeningID: key,
				StartTime:   seat.ScreeningStart,
			})
		}
		groups[i].Seats = append(groups[i].Seats, CartSeatResponse{
			ID:    seat.ID.String(),
			Row:   seat.Row,
			Seat:  seat.Number,
			Price: seat.Price.StringFixed(2),
		})
	}

	return CartDetailResponse{
		CartResponse: CartToResponse(cart),
		Screenings:   groups,
		SeatCount:    len(cart.Seats),
		Total:        cart.Total().StringFixed(2),
	}
}
