package wire

import (
	"cinema-ticketing/internal/adaptor"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCart(
	r chi.Router,
	cartHandler *adaptor.CartHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Route("/api/carts", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Get("/", cartHandler.GetCarts)
		r.Post("/", cartHandler.CreateCart)

		r.Route("/{cartID}", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Put("/", cartHandler.RenameCart)
			r.Delete("/", cartHandler.DeleteCart)

			r.Post("/book", cartHandler.BookCart)
			r.Post("/cancel", cartHandler.CancelCart)

			r.Post("/seats", cartHandler.ClaimSeat)
			r.Delete("/seats/{seatID}", cartHandler.ReleaseSeat)
		})
	})
}
