package adaptor

import (
	"net/http"

	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartHandler serves the current user's carts. Every route sits behind
// AuthSession.
type CartHandler struct {
	service usecase.CartService
	log     *zap.Logger
}

func NewCartHandler(service usecase.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		log:     log.With(zap.String("handler", "cart")),
	}
}

// GetCarts handles GET /api/carts
func (h *CartHandler) GetCarts(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	carts, err := h.service.GetCarts(r.Context(), userID, paginationFromQuery(r), optionalQuery(r, "name"))
	if err != nil {
		handleServiceError(w, h.log, err, "get carts")
		return
	}

	utils.ResponseSuccess(w, "success", carts)
}

// CreateCart handles POST /api/carts
func (h *CartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CartRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cart, err := h.service.CreateCart(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create cart")
		return
	}

	utils.ResponseCreated(w, "Cart created", cart)
}

// GetCart handles GET /api/carts/{cartID}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, cartID, ok := h.cartParams(w, r)
	if !ok {
		return
	}

	cart, err := h.service.GetCart(r.Context(), userID, cartID)
	if err != nil {
		handleServiceError(w, h.log, err, "get cart")
		return
	}

	utils.ResponseSuccess(w, "success", cart)
}

// RenameCart handles PUT /api/carts/{cartID}
func (h *CartHandler) RenameCart(w http.ResponseWriter, r *http.Request) {
	userID, cartID, ok := h.cartParams(w, r)
	if !ok {
		return
	}

	var req request.CartRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cart, err := h.service.RenameCart(r.Context(), userID, cartID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "rename cart")
		return
	}

	utils.ResponseSuccess(w, "Cart updated", cart)
}

// DeleteCart handles DELETE /api/carts/{cartID}
func (h *CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	userID, cartID, ok := h.cartParams(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteCart(r.Context(), userID, cartID); err != nil {
		handleServiceError(w, h.log, err, "delete cart")
		return
	}

	utils.ResponseSuccess(w, "Cart deleted", nil)
}

// ClaimSeat handles POST /api/carts/{cartID}/seats
func (h *CartHandler) ClaimSeat(w http.ResponseWriter, r *http.Request) {
	userID, cartID, ok := h.cartParams(w, r)
	if !ok {
		return
	}

	var req request.ClaimSeatRequest
	if !decodeBody(w, r, &req) {
		return
	}

	seat, err := h.service.ClaimSeat(r.Context(), userID, cartID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "claim seat")
		return
	}

	utils.ResponseSuccess(w, "Seat added to cart", seat)
}

// ReleaseSeat handles DELETE /api/carts/{cartID}/seats/{seatID}
func (h *CartHandler) ReleaseSeat(w http.ResponseWriter, r *http.Request) {
	userID, cartID, ok := h.cartParams(w, r)
	if !ok {
		return
	}
	seatID, ok := uuidParam(w, r, "seatID")
	if !ok {
		return
	}

	if err := h.service.ReleaseSeat(r.Context(), userID, cartID, seatID); err != nil {
		handleServiceError(w, h.log, err, "release seat")
		return
	}

	utils.ResponseSuccess(w, "Seat removed from cart", nil)
}

// BookCart handles POST /api/carts/{cartID}/book
func (h *CartHandler) BookCart(w http.ResponseWriter, r *http.Request) {
	userID, cartID, ok := h.cartParams(w, r)
	if !ok {
		return
	}

	cart, err := h.service.BookCart(r.Context(), userID, cartID)
	if err != nil {
		handleServiceError(w, h.log, err, "book cart")
		return
	}

	utils.ResponseSuccess(w, "Cart booked", cart)
}

// CancelCart handles POST /api/carts/{cartID}/cancel
func (h *CartHandler) CancelCart(w http.ResponseWriter, r *http.Request) {
	userID, cartID, ok := h.cartParams(w, r)
	if !ok {
		return
	}

	cart, err := h.service.CancelCart(r.Context(), userID, cartID)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel cart")
		return
	}

	utils.ResponseSuccess(w, "Cart booking cancelled", cart)
}

func (h *CartHandler) cartParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := currentUser(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	cartID, ok := uuidParam(w, r, "cartID")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return userID, cartID, true
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}
