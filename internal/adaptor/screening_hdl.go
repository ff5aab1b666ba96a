package adaptor

import (
	"net/http"

	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type ScreeningHandler struct {
	service usecase.ScreeningService
	log     *zap.Logger
}

func NewScreeningHandler(service usecase.ScreeningService, log *zap.Logger) *ScreeningHandler {
	return &ScreeningHandler{
		service: service,
		log:     log.With(zap.String("handler", "screening")),
	}
}

// GetScreenings handles GET /api/screenings (public)
func (h *ScreeningHandler) GetScreenings(w http.ResponseWriter, r *http.Request) {
	screenings, err := h.service.GetScreenings(r.Context(), paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get screenings")
		return
	}

	utils.ResponseSuccess(w, "success", screenings)
}

// GetScreening handles GET /api/screenings/{screeningID} (public)
func (h *ScreeningHandler) GetScreening(w http.ResponseWriter, r *http.Request) {
	screeningID, ok := uuidParam(w, r, "screeningID")
	if !ok {
		return
	}

	screening, err := h.service.GetScreening(r.Context(), screeningID)
	if err != nil {
		handleServiceError(w, h.log, err, "get screening")
		return
	}

	utils.ResponseSuccess(w, "success", screening)
}

// CreateScreening handles POST /api/admin/screenings
func (h *ScreeningHandler) CreateScreening(w http.ResponseWriter, r *http.Request) {
	var req request.ScreeningRequest
	if !decodeBody(w, r, &req) {
		return
	}

	screening, err := h.service.CreateScreening(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create screening")
		return
	}

	utils.ResponseCreated(w, "Screening created", screening)
}

// UpdateScreening handles PUT /api/admin/screenings/{screeningID}
func (h *ScreeningHandler) UpdateScreening(w http.ResponseWriter, r *http.Request) {
	screeningID, ok := uuidParam(w, r, "screeningID")
	if !ok {
		return
	}

	var req request.ScreeningUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	screening, err := h.service.UpdateScreening(r.Context(), screeningID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update screening")
		return
	}

	utils.ResponseSuccess(w, "Screening updated", screening)
}

// DeleteScreening handles DELETE /api/admin/screenings/{screeningID}
func (h *ScreeningHandler) DeleteScreening(w http.ResponseWriter, r *http.Request) {
	screeningID, ok := uuidParam(w, r, "screeningID")
	if !ok {
		return
	}

	if err := h.service.DeleteScreening(r.Context(), screeningID); err != nil {
		handleServiceError(w, h.log, err, "delete screening")
		return
	}

	utils.ResponseSuccess(w, "Screening deleted", nil)
}

// CreateSeats handles POST /api/admin/screenings/{screeningID}/seats
func (h *ScreeningHandler) CreateSeats(w http.ResponseWriter, r *http.Request) {
	screeningID, ok := uuidParam(w, r, "screeningID")
	if !ok {
		return
	}

	var req request.SeatCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := h.service.CreateSeats(r.Context(), screeningID, req.Price)
	if err != nil {
		handleServiceError(w, h.log, err, "create seats")
		return
	}

	utils.ResponseCreated(w, "Seats created", map[string]int{"created": created})
}
