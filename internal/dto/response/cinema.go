package response

import (
	"time"

	"cinema-ticketing/internal/data/entity"
)

type CinemaResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

type CinemaDetailResponse struct {
	CinemaResponse
	Halls []HallResponse `json:"halls"`
}

type HallResponse struct {
	ID          string    `json:"id"`
	CinemaID    string    `json:"cinema_id"`
	Name        string    `json:"name"`
	Rows        int       `json:"rows"`
	SeatsPerRow int       `json:"seats_per_row"`
	TotalSeats  int       `json:"total_seats"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Helper converters
func CinemaToResponse(cinema *entity.Cinema) CinemaResponse {
	return CinemaResponse{
		ID:        cinema.ID.String(),
		Name:      cinema.Name,
		City:      cinema.City,
		Address:   cinema.Address,
		CreatedAt: cinema.CreatedAt,
	}
}

func HallToResponse(hall *entity.Hall) HallResponse {
	return HallResponse{
		ID:          hall.ID.String(),
		CinemaID:    hall.CinemaID.String(),
		Name:        hall.Name,
		Rows:        hall.Rows,
		SeatsPerRow: hall.SeatsPerRow,
		TotalSeats:  hall.TotalSeats(),
		CreatedAt:   hall.CreatedAt,
		UpdatedAt:   hall.UpdatedAt,
	}
}

func HallsToResponse(halls []*entity.Hall) []HallResponse {
	out := make([]HallResponse, len(halls))
	for i, hall := range halls {
		out[i] = HallToResponse(hall)
	}
	return out
}
