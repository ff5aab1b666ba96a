package response

import (
	"time"

	"cinema-ticketing/internal/data/entity"
)

type ScreeningResponse struct {
	ID              string    `json:"id"`
	HallID          string    `json:"hall_id"`
	MovieID         string    `json:"movie_id"`
	MovieTitle      string    `json:"movie_title"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
}

type ScreeningDetailResponse struct {
	ScreeningResponse
	Hall HallResponse `json:"hall"`
}

func ScreeningToResponse(screening *entity.Screening) ScreeningResponse {
	return ScreeningResponse{
		ID:              screening.ID.String(),
		HallID:          screening.HallID.String(),
		MovieID:         screening.MovieID.String(),
		MovieTitle:      screening.MovieTitle,
		StartTime:       screening.StartTime,
		EndTime:         screening.EndTime(),
		DurationMinutes: screening.DurationMinutes,
	}
}
