package wire

import (
	"fmt"
	"net/http"

	"cinema-ticketing/internal/adaptor"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/middleware"
	"cinema-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the assembled HTTP surface
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	infra usecase.Infra,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) (*App, error) {
	service, err := usecase.NewService(repo, config, infra, logger)
	if err != nil {
		return nil, fmt.Errorf("build services: %w", err)
	}
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, infra, gatherer, logger)

	return &App{
		Router:  router,
		Service: service,
	}, nil
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	infra usecase.Infra,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()
	useGlobalMiddleware(r, infra, logger)

	wireAuth(r, handler.Auth, repo, logger)
	wireCinema(r, handler.Cinema, logger)
	wireHall(r, handler.Hall, repo, logger)
	wireScreening(r, handler.Screening, handler.Seat, repo, logger)
	wireCart(r, handler.Cart, repo, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// useGlobalMiddleware installs the stack shared by every route. Recover sits
// inside Metrics so a recovered panic is counted as a 500.
func useGlobalMiddleware(r chi.Router, infra usecase.Infra, logger *zap.Logger) {
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics(infra.Metrics))
	r.Use(middleware.Recover(logger))
}
