package wire

import (
	"cinema-ticketing/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Catalog routes are read-only; cinemas and films are managed elsewhere.
func wireCinema(
	r chi.Router,
	cinemaHandler *adaptor.CinemaHandler,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/cinemas", cinemaHandler.GetCinemas)
	r.Get("/api/cinemas/{cinemaID}", cinemaHandler.GetCinemaByID)

	r.Get("/api/movies", cinemaHandler.GetMovies)
	r.Get("/api/movies/{movieID}", cinemaHandler.GetMovieByID)

	log.Debug("Catalog routes wired")
}
