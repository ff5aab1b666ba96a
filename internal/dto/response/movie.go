package response

import "cinema-ticketing/internal/data/entity"

type MovieResponse struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	DurationInMinutes *int   `json:"duration_in_minutes"`
}

func MovieToResponse(movie *entity.Movie) MovieResponse {
	return MovieResponse{
		ID:                movie.ID.String(),
		Title:             movie.Title,
		DurationInMinutes: movie.DurationInMinutes,
	}
}
