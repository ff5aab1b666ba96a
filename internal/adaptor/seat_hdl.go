package adaptor

import (
	"net/http"
	"strconv"

	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SeatHandler struct {
	service usecase.SeatService
	log     *zap.Logger
}

func NewSeatHandler(service usecase.SeatService, log *zap.Logger) *SeatHandler {
	return &SeatHandler{
		service: service,
		log:     log.With(zap.String("handler", "seat")),
	}
}

// GetSeatGrid handles GET /api/screenings/{screeningID}/seats (public, session optional)
func (h *SeatHandler) GetSeatGrid(w http.ResponseWriter, r *http.Request) {
	screeningID, ok := uuidParam(w, r, "screeningID")
	if !ok {
		return
	}

	// uuid.Nil when anonymous
	viewer, _ := utils.GetUserIDFromContext(r.Context())

	grid, err := h.service.GetSeatGrid(r.Context(), screeningID, viewer)
	if err != nil {
		handleServiceError(w, h.log, err, "get seat grid")
		return
	}

	utils.ResponseSuccess(w, "success", grid)
}

// GetSeat handles GET /api/screenings/{screeningID}/seats/{row}/{seat} (public, session optional)
func (h *SeatHandler) GetSeat(w http.ResponseWriter, r *http.Request) {
	screeningID, ok := uuidParam(w, r, "screeningID")
	if !ok {
		return
	}
	row, number, ok := coordinateParams(w, r)
	if !ok {
		return
	}

	viewer, _ := utils.GetUserIDFromContext(r.Context())

	seat, err := h.service.GetSeat(r.Context(), screeningID, row, number, viewer)
	if err != nil {
		handleServiceError(w, h.log, err, "get seat")
		return
	}

	utils.ResponseSuccess(w, "success", seat)
}

// UpdateSeatPrice handles PUT /api/admin/screenings/{screeningID}/seats/{row}/{seat}
func (h *SeatHandler) UpdateSeatPrice(w http.ResponseWriter, r *http.Request) {
	screeningID, ok := uuidParam(w, r, "screeningID")
	if !ok {
		return
	}
	row, number, ok := coordinateParams(w, r)
	if !ok {
		return
	}

	var req request.SeatPriceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	seat, err := h.service.UpdateSeatPrice(r.Context(), screeningID, row, number, *req.Price)
	if err != nil {
		handleServiceError(w, h.log, err, "update seat price")
		return
	}

	utils.ResponseSuccess(w, "Seat price updated", seat)
}

func coordinateParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	row, err := strconv.Atoi(chi.URLParam(r, "row"))
	if err != nil || row < 1 {
		utils.ResponseBadRequest(w, "Invalid row", nil)
		return 0, 0, false
	}

	seat, err := strconv.Atoi(chi.URLParam(r, "seat"))
	if err != nil || seat < 1 {
		utils.ResponseBadRequest(w, "Invalid seat", nil)
		return 0, 0, false
	}

	return row, seat, true
}
