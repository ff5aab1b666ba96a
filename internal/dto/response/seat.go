package response

import (
	"cinema-ticketing/internal/data/entity"
)

type SeatResponse struct {
	ID          string `json:"id"`
	ScreeningID string `json:"screening_id"`
	Row         int    `json:"row"`
	Seat        int    `json:"seat"`
	Price       string `json:"price"`
	IsBooked    bool   `json:"is_booked"`
}

type SeatDetailResponse struct {
	SeatResponse
	Status entity.SeatStatus `json:"status"`
}

type SeatStatusResponse struct {
	Seat   int               `json:"seat"`
	Status entity.SeatStatus `json:"status"`
}

type SeatRowResponse struct {
	Row   int                  `json:"row"`
	Seats []SeatStatusResponse `json:"seats"`
}

type SeatGridResponse struct {
	ScreeningID string            `json:"screening_id"`
	Rows        int               `json:"rows"`
	SeatsPerRow int               `json:"seats_per_row"`
	Grid        []SeatRowResponse `json:"grid"`
}

func SeatToResponse(seat *entity.Seat) SeatResponse {
	return SeatResponse{
		ID:          seat.ID.String(),
		ScreeningID: seat.ScreeningID.String(),
		Row:         seat.Row,
		Seat:        seat.Number,
		Price:       seat.Price.StringFixed(2),
		IsBooked:    seat.IsBooked,
	}
}

// SeatGridToResponse lays out grid row by row in hall order.
func SeatGridToResponse(screeningID string, hall *entity.Hall, grid entity.SeatGrid) SeatGridResponse {
	rows := make([]SeatRowResponse, 0, hall.Rows)
	for row := 1; row <= hall.Rows; row++ {
		seats := make([]SeatStatusResponse, 0, hall.SeatsPerRow)
		for number := 1; number <= hall.SeatsPerRow; number++ {
			seats = append(seats, SeatStatusResponse{
				Seat:   number,
				Status: grid[entity.SeatCoord{Row: row, Number: number}],
			})
		}
		rows = append(rows, SeatRowResponse{Row: row, Seats: seats})
	}

	return SeatGridResponse{
		ScreeningID: screeningID,
		Rows:        hall.Rows,
		SeatsPerRow: hall.SeatsPerRow,
		Grid:        rows,
	}
}
