package adaptor

import (
	"net/http"

	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type CinemaHandler struct {
	service usecase.CinemaService
	log     *zap.Logger
}

func NewCinemaHandler(service usecase.CinemaService, log *zap.Logger) *CinemaHandler {
	return &CinemaHandler{
		service: service,
		log:     log.With(zap.String("handler", "cinema")),
	}
}

// GetCinemas handles GET /api/cinemas (public)
func (h *CinemaHandler) GetCinemas(w http.ResponseWriter, r *http.Request) {
	cinemas, err := h.service.GetCinemas(r.Context(), paginationFromQuery(r), optionalQuery(r, "city"))
	if err != nil {
		handleServiceError(w, h.log, err, "get cinemas")
		return
	}

	utils.ResponseSuccess(w, "success", cinemas)
}

// GetCinemaByID handles GET /api/cinemas/{cinemaID} (public)
func (h *CinemaHandler) GetCinemaByID(w http.ResponseWriter, r *http.Request) {
	cinemaID, ok := uuidParam(w, r, "cinemaID")
	if !ok {
		return
	}

	cinema, err := h.service.GetCinemaByID(r.Context(), cinemaID)
	if err != nil {
		handleServiceError(w, h.log, err, "get cinema by ID")
		return
	}

	utils.ResponseSuccess(w, "success", cinema)
}

// GetMovies handles GET /api/movies (public)
func (h *CinemaHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.GetMovies(r.Context(), paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get movies")
		return
	}

	utils.ResponseSuccess(w, "success", movies)
}

// GetMovieByID handles GET /api/movies/{movieID} (public)
func (h *CinemaHandler) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	movieID, ok := uuidParam(w, r, "movieID")
	if !ok {
		return
	}

	movie, err := h.service.GetMovieByID(r.Context(), movieID)
	if err != nil {
		handleServiceError(w, h.log, err, "get movie by ID")
		return
	}

	utils.ResponseSuccess(w, "success", movie)
}
