package wire

import (
	"cinema-ticketing/internal/adaptor"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireHall(
	r chi.Router,
	hallHandler *adaptor.HallHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/cinemas/{cinemaID}/halls", func(r chi.Router) {
		// Apply middleware chain: AuthSession → Admin
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Get("/", hallHandler.GetHalls)
		r.Post("/", hallHandler.CreateHall)
		r.Get("/{hallID}", hallHandler.GetHall)
		r.Put("/{hallID}", hallHandler.UpdateHall)
		r.Delete("/{hallID}", hallHandler.DeleteHall)
	})
}
