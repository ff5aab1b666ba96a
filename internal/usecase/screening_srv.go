package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/dto/response"
	"cinema-ticketing/pkg/broker"
	"cinema-ticketing/pkg/cache"
	"cinema-ticketing/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ScreeningService interface {
	GetScreenings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ScreeningResponse], error)
	GetScreening(ctx context.Context, screeningID uuid.UUID) (*response.ScreeningDetailResponse, error)

	CreateScreening(ctx context.Context, req *request.ScreeningRequest) (*response.ScreeningResponse, error)
	UpdateScreening(ctx context.Context, screeningID uuid.UUID, req *request.ScreeningUpdateRequest) (*response.ScreeningResponse, error)
	DeleteScreening(ctx context.Context, screeningID uuid.UUID) error

	// CreateSeats fills the screening's grid at price and returns the number
	// of seats created. It fails once seats exist.
	CreateSeats(ctx context.Context, screeningID uuid.UUID, price *decimal.Decimal) (int, error)
}

type screeningService struct {
	repo         *repository.Repository
	guard        *ScheduleGuard
	defaultPrice decimal.Decimal
	seatMap      *cache.SeatMapCache
	publisher    broker.Publisher
	metrics      *metrics.Metrics
	now          func() time.Time
	log          *zap.Logger
}

func NewScreeningService(
	repo *repository.Repository,
	guard *ScheduleGuard,
	defaultPrice decimal.Decimal,
	infra Infra,
	log *zap.Logger,
) ScreeningService {
	return &screeningService{
		repo:         repo,
		guard:        guard,
		defaultPrice: defaultPrice,
		seatMap:      infra.SeatMap,
		publisher:    infra.publisher(),
		metrics:      infra.Metrics,
		now:          time.Now,
		log:          log.With(zap.String("service", "screening")),
	}
}

func (s *screeningService) GetScreenings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ScreeningResponse], error) {
	from := s.now()

	screenings, err := s.repo.Screening.FindUpcoming(ctx, from, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get screenings: %w", err)
	}

	total, err := s.repo.Screening.CountUpcoming(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("count screenings: %w", err)
	}

	items := make([]response.ScreeningResponse, len(screenings))
	for i, sc := range screenings {
		items[i] = response.ScreeningToResponse(sc)
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *screeningService) GetScreening(ctx context.Context, screeningID uuid.UUID) (*response.ScreeningDetailResponse, error) {
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

	return &response.ScreeningDetailResponse{
		ScreeningResponse: response.ScreeningToResponse(screening),
		Hall:              response.HallToResponse(hall),
	}, nil
}

// CreateScreening schedules a film in a hall and creates its seats in the
// same transaction. The hall row stays locked while the schedule is checked.
func (s *screeningService) CreateScreening(ctx context.Context, req *request.ScreeningRequest) (*response.ScreeningResponse, error) {
	hallID, err := uuid.Parse(req.HallID)
	if err != nil {
		return nil, entity.ErrHallNotFound
	}
	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, entity.ErrMovieNotFound
	}

	price, err := s.resolvePrice(req.Price)
	if err != nil {
		return nil, err
	}

	screening := &entity.Screening{
		Base:      entity.NewBase(s.now()),
		HallID:    hallID,
		MovieID:   movieID,
		StartTime: req.StartTime,
	}
	var seatCount int

	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		hall, err := tx.Hall.FindByIDForUpdate(ctx, hallID)
		if err != nil {
			return err
		}
		if hall == nil {
			return entity.ErrHallNotFound
		}

		movie, err := tx.Movie.FindByID(ctx, movieID)
		if err != nil {
			return err
		}
		if movie == nil {
			return entity.ErrMovieNotFound
		}

		existing, err := tx.Screening.FindByHallID(ctx, hallID)
		if err != nil {
			return err
		}

		proposed := entity.Interval{Start: screening.StartTime, Length: movie.Length()}
		if err := s.guard.Validate(proposed, existing, uuid.Nil, true); err != nil {
			return err
		}

		screening.DurationMinutes = int(movie.Length() / time.Minute)
		screening.MovieTitle = movie.Title
		if err := tx.Screening.Create(ctx, screening); err != nil {
			return err
		}

		seatCount, err = s.createSeats(ctx, tx, screening.ID, hall, price)
		return err
	})
	if err != nil {
		s.log.Warn("Screening not created",
			zap.Error(err),
			zap.String("hall_id", req.HallID),
			zap.Time("start_time", req.StartTime),
		)
		return nil, err
	}

	s.metrics.ScreeningCreated()
	s.publish(ctx, broker.EventScreeningCreated, broker.ScreeningEvent{
		ScreeningID: screening.ID,
		HallID:      screening.HallID,
		MovieID:     screening.MovieID,
		StartTime:   screening.StartTime,
		Seats:       seatCount,
	})

	s.log.Info("Screening created",
		zap.String("screening_id", screening.ID.String()),
		zap.String("hall_id", screening.HallID.String()),
		zap.Time("start_time", screening.StartTime),
		zap.Int("seats", seatCount),
	)

	resp := response.ScreeningToResponse(screening)
	return &resp, nil
}

// UpdateScreening changes the film or start time. The new interval is
// checked against the rest of the hall's schedule before anything is saved.
func (s *screeningService) UpdateScreening(ctx context.Context, screeningID uuid.UUID, req *request.ScreeningUpdateRequest) (*response.ScreeningResponse, error) {
	var screening *entity.Screening

	err := s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		var err error
		screening, err = tx.Screening.FindByID(ctx, screeningID)
		if err != nil {
			return err
		}
		if screening == nil {
			return entity.ErrScreeningNotFound
		}

		if _, err := tx.Hall.FindByIDForUpdate(ctx, screening.HallID); err != nil {
			return err
		}

		if req.MovieID != nil {
			movieID, err := uuid.Parse(*req.MovieID)
			if err != nil {
				return entity.ErrMovieNotFound
			}
			screening.MovieID = movieID
		}
		if req.StartTime != nil {
			screening.StartTime = *req.StartTime
		}

		movie, err := tx.Movie.FindByID(ctx, screening.MovieID)
		if err != nil {
			return err
		}
		if movie == nil {
			return entity.ErrMovieNotFound
		}
		screening.DurationMinutes = int(movie.Length() / time.Minute)
		screening.MovieTitle = movie.Title

		existing, err := tx.Screening.FindByHallID(ctx, screening.HallID)
		if err != nil {
			return err
		}

		proposed := entity.Interval{Start: screening.StartTime, Length: movie.Length()}
		if err := s.guard.Validate(proposed, existing, screening.ID, false); err != nil {
			return err
		}

		screening.UpdatedAt = s.now()
		return tx.Screening.Update(ctx, screening)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Screening updated",
		zap.String("screening_id", screening.ID.String()),
		zap.Time("start_time", screening.StartTime),
	)

	resp := response.ScreeningToResponse(screening)
	return &resp, nil
}

func (s *screeningService) DeleteScreening(ctx context.Context, screeningID uuid.UUID) error {
	if err := s.repo.Screening.Delete(ctx, screeningID); err != nil {
		return err
	}

	s.seatMap.Invalidate(ctx, screeningID)
	s.log.Info("Screening deleted", zap.String("screening_id", screeningID.String()))
	return nil
}

func (s *screeningService) CreateSeats(ctx context.Context, screeningID uuid.UUID, price *decimal.Decimal) (int, error) {
	amount, err := s.resolvePrice(price)
	if err != nil {
		return 0, err
	}

	var created int
	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		screening, err := tx.Screening.FindByID(ctx, screeningID)
		if err != nil {
			return err
		}
		if screening == nil {
			return entity.ErrScreeningNotFound
		}

		// Serializes concurrent seat creation for the hall's screenings.
		hall, err := tx.Hall.FindByIDForUpdate(ctx, screening.HallID)
		if err != nil {
			return err
		}
		if hall == nil {
			return entity.ErrHallNotFound
		}

		created, err = s.createSeats(ctx, tx, screening.ID, hall, amount)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.seatMap.Invalidate(ctx, screeningID)
	return created, nil
}

func (s *screeningService) createSeats(ctx context.Context, tx *repository.Repository, screeningID uuid.UUID, hall *entity.Hall, price decimal.Decimal) (int, error) {
	count, err := tx.Seat.CountByScreening(ctx, screeningID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, entity.ErrSeatsExist
	}

	seats := entity.NewSeatGrid(screeningID, hall, price, s.now())
	if err := tx.Seat.CreateBatch(ctx, seats); err != nil {
		return 0, err
	}

	return len(seats), nil
}

func (s *screeningService) resolvePrice(price *decimal.Decimal) (decimal.Decimal, error) {
	if price == nil {
		return s.defaultPrice, nil
	}
	return entity.NormalizePrice(*price)
}

func (s *screeningService) publish(ctx context.Context, eventType string, payload any) {
	if err := s.publisher.Publish(ctx, eventType, payload); err != nil {
		s.log.Warn("Event not published", zap.Error(err), zap.String("type", eventType))
	}
}
