package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/dto/response"
	"cinema-ticketing/pkg/broker"
	"cinema-ticketing/pkg/cache"
	"cinema-ticketing/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService runs the cart state machine. Every operation is scoped to the
// calling user: another user's cart is reported as not found.
type CartService interface {
	GetCarts(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest, nameFilter *string) (*response.PaginatedResponse[response.CartResponse], error)
	GetCart(ctx context.Context, userID, cartID uuid.UUID) (*response.CartDetailResponse, error)
	CreateCart(ctx context.Context, userID uuid.UUID, req *request.CartRequest) (*response.CartResponse, error)
	RenameCart(ctx context.Context, userID, cartID uuid.UUID, req *request.CartRequest) (*response.CartResponse, error)
	DeleteCart(ctx context.Context, userID, cartID uuid.UUID) error

	ClaimSeat(ctx context.Context, userID, cartID uuid.UUID, req *request.ClaimSeatRequest) (*response.SeatResponse, error)
	ReleaseSeat(ctx context.Context, userID, cartID, seatID uuid.UUID) error
	BookCart(ctx context.Context, userID, cartID uuid.UUID) (*response.CartDetailResponse, error)
	CancelCart(ctx context.Context, userID, cartID uuid.UUID) (*response.CartDetailResponse, error)
}

type cartService struct {
	repo      *repository.Repository
	policy    entity.ClaimPolicy
	seatMap   *cache.SeatMapCache
	publisher broker.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
	log       *zap.Logger
}

func NewCartService(repo *repository.Repository, policy entity.ClaimPolicy, infra Infra, log *zap.Logger) CartService {
	return &cartService{
		repo:      repo,
		policy:    policy,
		seatMap:   infra.SeatMap,
		publisher: infra.publisher(),
		metrics:   infra.Metrics,
		now:       time.Now,
		log:       log.With(zap.String("service", "cart")),
	}
}

func (s *cartService) GetCarts(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest, nameFilter *string) (*response.PaginatedResponse[response.CartResponse], error) {
	carts, err := s.repo.Cart.FindByUser(ctx, userID, nameFilter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get carts: %w", err)
	}

	total, err := s.repo.Cart.CountByUser(ctx, userID, nameFilter)
	if err != nil {
		return nil, fmt.Errorf("count carts: %w", err)
	}

	items := make([]response.CartResponse, len(carts))
	for i, cart := range carts {
		items[i] = response.CartToResponse(cart)
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

// GetCart drops seats of screenings that already started before returning
// the cart.
func (s *cartService) GetCart(ctx context.Context, userID, cartID uuid.UUID) (*response.CartDetailResponse, error) {
	var cart *entity.Cart
	var touched []uuid.UUID

	err := s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		var err error
		cart, touched, err = s.loadCart(ctx, tx, userID, cartID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.seatMap.Invalidate(ctx, touched...)
	return s.detail(cart), nil
}

func (s *cartService) CreateCart(ctx context.Context, userID uuid.UUID, req *request.CartRequest) (*response.CartResponse, error) {
	cart := &entity.Cart{
		Base:   entity.NewBase(s.now()),
		UserID: userID,
		Name:   req.Name,
	}

	if err := s.repo.Cart.Create(ctx, cart); err != nil {
		return nil, err
	}

	s.log.Info("Cart created",
		zap.String("cart_id", cart.ID.String()),
		zap.String("user_id", userID.String()),
	)

	resp := response.CartToResponse(cart)
	return &resp, nil
}

func (s *cartService) RenameCart(ctx context.Context, userID, cartID uuid.UUID, req *request.CartRequest) (*response.CartResponse, error) {
	cart, err := s.repo.Cart.FindByIDAndUser(ctx, cartID, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, entity.ErrCartNotFound
	}

	cart.Name = req.Name
	cart.UpdatedAt = s.now()
	if err := s.repo.Cart.Update(ctx, cart); err != nil {
		return nil, err
	}

	resp := response.CartToResponse(cart)
	return &resp, nil
}

// DeleteCart un-books the cart's seats when it is booked, unlinks them and
// removes the cart.
func (s *cartService) DeleteCart(ctx context.Context, userID, cartID uuid.UUID) error {
	var touched []uuid.UUID

	err := s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		cart, expired, err := s.loadCart(ctx, tx, userID, cartID)
		if err != nil {
			return err
		}
		touched = expired

		released := cart.Dissolve()
		if err := s.saveSeats(ctx, tx, released); err != nil {
			return err
		}
		touched = append(touched, screeningsOf(released)...)

		return tx.Cart.Delete(ctx, cart.ID)
	})
	s.metrics.CartTransition("delete", err)
	if err != nil {
		return err
	}

	s.seatMap.Invalidate(ctx, touched...)
	s.log.Info("Cart deleted",
		zap.String("cart_id", cartID.String()),
		zap.String("user_id", userID.String()),
	)
	return nil
}

// ClaimSeat links the seat at the requested coordinate to the cart. The
// cart and seat rows are locked for the rest of the transaction.
func (s *cartService) ClaimSeat(ctx context.Context, userID, cartID uuid.UUID, req *request.ClaimSeatRequest) (*response.SeatResponse, error) {
	screeningID, err := uuid.Parse(req.ScreeningID)
	if err != nil {
		return nil, entity.ErrScreeningNotFound
	}

	var seat *entity.Seat
	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		cart, err := tx.Cart.FindByIDAndUserForUpdate(ctx, cartID, userID)
		if err != nil {
			return err
		}
		if cart == nil {
			return entity.ErrCartNotFound
		}

		seat, err = tx.Seat.FindByCoordinateForUpdate(ctx, screeningID, req.Row, req.Seat)
		if err != nil {
			return err
		}
		if seat == nil {
			return entity.ErrSeatNotFound
		}

		changed, err := cart.Claim(seat, s.policy)
		if err != nil || !changed {
			return err
		}

		seat.UpdatedAt = s.now()
		return tx.Seat.UpdateState(ctx, seat)
	})
	s.metrics.CartTransition("claim", err)
	if err != nil {
		s.log.Debug("Seat claim rejected",
			zap.Error(err),
			zap.String("cart_id", cartID.String()),
			zap.String("screening_id", req.ScreeningID),
			zap.Int("row", req.Row),
			zap.Int("seat", req.Seat),
		)
		return nil, err
	}

	s.seatMap.Invalidate(ctx, seat.ScreeningID)

	resp := response.SeatToResponse(seat)
	return &resp, nil
}

func (s *cartService) ReleaseSeat(ctx context.Context, userID, cartID, seatID uuid.UUID) error {
	var seat *entity.Seat

	err := s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		cart, err := tx.Cart.FindByIDAndUserForUpdate(ctx, cartID, userID)
		if err != nil {
			return err
		}
		if cart == nil {
			return entity.ErrCartNotFound
		}

		seat, err = tx.Seat.FindByIDForUpdate(ctx, seatID)
		if err != nil {
			return err
		}
		if seat == nil {
			return entity.ErrSeatNotInCart
		}

		if err := cart.Release(seat); err != nil {
			return err
		}

		seat.UpdatedAt = s.now()
		return tx.Seat.UpdateState(ctx, seat)
	})
	s.metrics.CartTransition("release", err)
	if err != nil {
		return err
	}

	s.seatMap.Invalidate(ctx, seat.ScreeningID)
	return nil
}

// BookCart books every seat of the cart or none of them.
func (s *cartService) BookCart(ctx context.Context, userID, cartID uuid.UUID) (*response.CartDetailResponse, error) {
	cart, touched, err := s.transition(ctx, userID, cartID, (*entity.Cart).Book)
	s.metrics.CartTransition("book", err)
	if err != nil {
		return nil, err
	}

	s.seatMap.Invalidate(ctx, touched...)
	s.metrics.SeatsBooked(len(cart.Seats))
	s.publish(ctx, broker.EventCartBooked, cart)

	s.log.Info("Cart booked",
		zap.String("cart_id", cart.ID.String()),
		zap.Int("seats", len(cart.Seats)),
		zap.String("total", cart.Total().StringFixed(2)),
	)
	return s.detail(cart), nil
}

func (s *cartService) CancelCart(ctx context.Context, userID, cartID uuid.UUID) (*response.CartDetailResponse, error) {
	cart, touched, err := s.transition(ctx, userID, cartID, (*entity.Cart).Cancel)
	s.metrics.CartTransition("cancel", err)
	if err != nil {
		return nil, err
	}

	s.seatMap.Invalidate(ctx, touched...)
	s.publish(ctx, broker.EventCartCancelled, cart)

	s.log.Info("Cart cancelled",
		zap.String("cart_id", cart.ID.String()),
		zap.Int("seats", len(cart.Seats)),
	)
	return s.detail(cart), nil
}

// transition applies a whole-cart state change to the locked cart and its
// seats, then writes both back in the same transaction.
func (s *cartService) transition(ctx context.Context, userID, cartID uuid.UUID, apply func(*entity.Cart) error) (*entity.Cart, []uuid.UUID, error) {
	var cart *entity.Cart
	var touched []uuid.UUID

	err := s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		var err error
		cart, touched, err = s.loadCart(ctx, tx, userID, cartID)
		if err != nil {
			return err
		}

		if err := apply(cart); err != nil {
			return err
		}

		if err := s.saveSeats(ctx, tx, cart.Seats); err != nil {
			return err
		}
		touched = append(touched, screeningsOf(cart.Seats)...)

		cart.UpdatedAt = s.now()
		return tx.Cart.Update(ctx, cart)
	})
	if err != nil {
		return nil, nil, err
	}

	return cart, touched, nil
}

// loadCart locks the cart and its seats, then expires seats of screenings
// that already started. It returns the screenings whose seats changed.
func (s *cartService) loadCart(ctx context.Context, tx *repository.Repository, userID, cartID uuid.UUID) (*entity.Cart, []uuid.UUID, error) {
	cart, err := tx.Cart.FindByIDAndUserForUpdate(ctx, cartID, userID)
	if err != nil {
		return nil, nil, err
	}
	if cart == nil {
		return nil, nil, entity.ErrCartNotFound
	}

	cart.Seats, err = tx.Seat.FindByCartIDForUpdate(ctx, cart.ID)
	if err != nil {
		return nil, nil, err
	}

	expired := cart.ExpireStale(s.now())
	if len(expired) > 0 {
		if err := s.saveSeats(ctx, tx, expired); err != nil {
			return nil, nil, err
		}
		s.log.Info("Expired seats unlinked from cart",
			zap.String("cart_id", cart.ID.String()),
			zap.Int("seats", len(expired)),
		)
	}

	return cart, screeningsOf(expired), nil
}

func (s *cartService) saveSeats(ctx context.Context, tx *repository.Repository, seats []*entity.Seat) error {
	now := s.now()
	for _, seat := range seats {
		seat.UpdatedAt = now
	}
	return tx.Seat.UpdateStates(ctx, seats)
}

func (s *cartService) detail(cart *entity.Cart) *response.CartDetailResponse {
	sort.SliceStable(cart.Seats, func(i, j int) bool {
		a, b := cart.Seats[i], cart.Seats[j]
		if !a.ScreeningStart.Equal(b.ScreeningStart) {
			return a.ScreeningStart.Before(b.ScreeningStart)
		}
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Number < b.Number
	})

	resp := response.CartToDetailResponse(cart)
	return &resp
}

func (s *cartService) publish(ctx context.Context, eventType string, cart *entity.Cart) {
	event := broker.CartEvent{
		CartID: cart.ID,
		UserID: cart.UserID,
		Seats:  len(cart.Seats),
		Total:  cart.Total(),
	}
	if err := s.publisher.Publish(ctx, eventType, event); err != nil {
		s.log.Warn("Event not published", zap.Error(err), zap.String("type", eventType))
	}
}

func screeningsOf(seats []*entity.Seat) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(seats))
	var ids []uuid.UUID
	for _, seat := range seats {
		if _, ok := seen[seat.ScreeningID]; ok {
			continue
		}
		seen[seat.ScreeningID] = struct{}{}
		ids = append(ids, seat.ScreeningID)
	}
	return ids
}
