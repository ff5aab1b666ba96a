package adaptor

import (
	"net/http"

	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type HallHandler struct {
	service usecase.HallService
	log     *zap.Logger
}

func NewHallHandler(service usecase.HallService, log *zap.Logger) *HallHandler {
	return &HallHandler{
		service: service,
		log:     log.With(zap.String("handler", "hall")),
	}
}

// GetHalls handles GET /api/admin/cinemas/{cinemaID}/halls?name=&page=&per_page=
func (h *HallHandler) GetHalls(w http.ResponseWriter, r *http.Request) {
	cinemaID, ok := uuidParam(w, r, "cinemaID")
	if !ok {
		return
	}

	halls, err := h.service.GetHalls(r.Context(), cinemaID, paginationFromQuery(r), optionalQuery(r, "name"))
	if err != nil {
		handleServiceError(w, h.log, err, "get halls")
		return
	}

	utils.ResponseSuccess(w, "success", halls)
}

// GetHall handles GET /api/admin/cinemas/{cinemaID}/halls/{hallID}
func (h *HallHandler) GetHall(w http.ResponseWriter, r *http.Request) {
	cinemaID, ok := uuidParam(w, r, "cinemaID")
	if !ok {
		return
	}
	hallID, ok := uuidParam(w, r, "hallID")
	if !ok {
		return
	}

	hall, err := h.service.GetHall(r.Context(), cinemaID, hallID)
	if err != nil {
		handleServiceError(w, h.log, err, "get hall")
		return
	}

	utils.ResponseSuccess(w, "success", hall)
}

// CreateHall handles POST /api/admin/cinemas/{cinemaID}/halls
func (h *HallHandler) CreateHall(w http.ResponseWriter, r *http.Request) {
	cinemaID, ok := uuidParam(w, r, "cinemaID")
	if !ok {
		return
	}

	var req request.HallRequest
	if !decodeBody(w, r, &req) {
		return
	}

	hall, err := h.service.CreateHall(r.Context(), cinemaID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create hall")
		return
	}

	utils.ResponseCreated(w, "Hall created", hall)
}

// UpdateHall handles PUT /api/admin/cinemas/{cinemaID}/halls/{hallID}
func (h *HallHandler) UpdateHall(w http.ResponseWriter, r *http.Request) {
	cinemaID, ok := uuidParam(w, r, "cinemaID")
	if !ok {
		return
	}
	hallID, ok := uuidParam(w, r, "hallID")
	if !ok {
		return
	}

	var req request.HallUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	hall, err := h.service.UpdateHall(r.Context(), cinemaID, hallID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update hall")
		return
	}

	utils.ResponseSuccess(w, "Hall updated", hall)
}

// DeleteHall handles DELETE /api/admin/cinemas/{cinemaID}/halls/{hallID}
func (h *HallHandler) DeleteHall(w http.ResponseWriter, r *http.Request) {
	cinemaID, ok := uuidParam(w, r, "cinemaID")
	if !ok {
		return
	}
	hallID, ok := uuidParam(w, r, "hallID")
	if !ok {
		return
	}

	if err := h.service.DeleteHall(r.Context(), cinemaID, hallID); err != nil {
		handleServiceError(w, h.log, err, "delete hall")
		return
	}

	utils.ResponseSuccess(w, "Hall deleted", nil)
}
