package wire

import (
	"cinema-ticketing/internal/adaptor"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireScreening(
	r chi.Router,
	screeningHandler *adaptor.ScreeningHandler,
	seatHandler *adaptor.SeatHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/screenings", screeningHandler.GetScreenings)
	r.Get("/api/screenings/{screeningID}", screeningHandler.GetScreening)

	// Seat status depends on the viewer, so a session is read when present
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalSession(repo.Session, log))

		r.Get("/api/screenings/{screeningID}/seats", seatHandler.GetSeatGrid)
		r.Get("/api/screenings/{screeningID}/seats/{row}/{seat}", seatHandler.GetSeat)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/screenings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Post("/", screeningHandler.CreateScreening)
		r.Put("/{screeningID}", screeningHandler.UpdateScreening)
		r.Delete("/{screeningID}", screeningHandler.DeleteScreening)

		r.Post("/{screeningID}/seats", screeningHandler.CreateSeats)
		r.Put("/{screeningID}/seats/{row}/{seat}", seatHandler.UpdateSeatPrice)
	})
}
