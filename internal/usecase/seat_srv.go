package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/dto/response"
	"cinema-ticketing/pkg/cache"
	"cinema-ticketing/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SeatService answers availability questions. viewer is uuid.Nil for an
// anonymous caller.
type SeatService interface {
	GetSeatGrid(ctx context.Context, screeningID, viewer uuid.UUID) (*response.SeatGridResponse, error)
	GetSeat(ctx context.Context, screeningID uuid.UUID, row, number int, viewer uuid.UUID) (*response.SeatDetailResponse, error)
	UpdateSeatPrice(ctx context.Context, screeningID uuid.UUID, row, number int, price decimal.Decimal) (*response.SeatResponse, error)
}

type seatService struct {
	repo    *repository.Repository
	seatMap *cache.SeatMapCache
	metrics *metrics.Metrics
	now     func() time.Time
	log     *zap.Logger
}

func NewSeatService(repo *repository.Repository, infra Infra, log *zap.Logger) SeatService {
	return &seatService{
		repo:    repo,
		seatMap: infra.SeatMap,
		metrics: infra.Metrics,
		now:     time.Now,
		log:     log.With(zap.String("service", "seat")),
	}
}

func (s *seatService) GetSeatGrid(ctx context.Context, screeningID, viewer uuid.UUID) (*response.SeatGridResponse, error) {
	screening, err := s.repo.Screening.FindByID(ctx, screeningID)
	if err != nil {
		return nil, fmt.Errorf("get screening: %w", err)
	}
	if screening == nil {
		return nil, entity.ErrScreeningNotFound
	}

	hall, err := s.repo.Hall.FindByID(ctx, screening.HallID)
	if err != nil {
		return nil, fmt.Errorf("get hall: %w", err)
	}
	if hall == nil {
		return nil, entity.ErrHallNotFound
	}

	states, err := s.seatStates(ctx, screeningID)
	if err != nil {
		return nil, err
	}

	grid := entity.ResolveGrid(hall, states, viewer)
	resp := response.SeatGridToResponse(screeningID.String(), hall, grid)
	return &resp, nil
}

// seatStates reads through the seat map cache.
func (s *seatService) seatStates(ctx context.Context, screeningID uuid.UUID) ([]entity.SeatState, error) {
	states, generation, ok := s.seatMap.Get(ctx, screeningID)
	if ok {
		s.metrics.SeatMapLookup(true)
		return states, nil
	}
	s.metrics.SeatMapLookup(false)

	states, err := s.repo.Seat.FindStatesByScreening(ctx, screeningID)
	if err != nil {
		return nil, fmt.Errorf("get seat states: %w", err)
	}

	s.seatMap.Set(ctx, screeningID, generation, states)
	return states, nil
}

func (s *seatService) GetSeat(ctx context.Context, screeningID uuid.UUID, row, number int, viewer uuid.UUID) (*response.SeatDetailResponse, error) {
	seat, err := s.repo.Seat.FindByCoordinate(ctx, screeningID, row, number)
	if err != nil {
		return nil, fmt.Errorf("get seat: %w", err)
	}
	if seat == nil {
		return nil, entity.ErrSeatNotFound
	}

	state := entity.SeatState{
		SeatID:   seat.ID,
		Row:      seat.Row,
		Number:   seat.Number,
		IsBooked: seat.IsBooked,
	}
	if seat.CartID != nil && viewer != uuid.Nil {
		cart, err := s.repo.Cart.FindByIDAndUser(ctx, *seat.CartID, viewer)
		if err != nil {
			return nil, fmt.Errorf("get cart: %w", err)
		}
		if cart != nil {
			state.CartOwnerID = &cart.UserID
		}
	}

	return &response.SeatDetailResponse{
		SeatResponse: response.SeatToResponse(seat),
		Status:       state.Resolve(viewer),
	}, nil
}

func (s *seatService) UpdateSeatPrice(ctx context.Context, screeningID uuid.UUID, row, number int, price decimal.Decimal) (*response.SeatResponse, error) {
	price, err := entity.NormalizePrice(price)
	if err != nil {
		return nil, err
	}

	seat, err := s.repo.Seat.FindByCoordinate(ctx, screeningID, row, number)
	if err != nil {
		return nil, fmt.Errorf("get seat: %w", err)
	}
	if seat == nil {
		return nil, entity.ErrSeatNotFound
	}

	seat.Price = price
	seat.UpdatedAt = s.now()
	if err := s.repo.Seat.UpdatePrice(ctx, seat.ID, seat.Price, seat.UpdatedAt); err != nil {
		return nil, err
	}

	s.log.Info("Seat re-priced",
		zap.String("seat_id", seat.ID.String()),
		zap.String("price", seat.Price.StringFixed(2)),
	)

	resp := response.SeatToResponse(seat)
	return &resp, nil
}
