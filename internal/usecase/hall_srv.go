package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/dto/response"
	"cinema-ticketing/pkg/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type HallService interface {
	GetHalls(ctx context.Context, cinemaID uuid.UUID, req *request.PaginatedRequest, nameFilter *string) (*response.PaginatedResponse[response.HallResponse], error)
	GetHall(ctx context.Context, cinemaID, hallID uuid.UUID) (*response.HallResponse, error)
	CreateHall(ctx context.Context, cinemaID uuid.UUID, req *request.HallRequest) (*response.HallResponse, error)
	UpdateHall(ctx context.Context, cinemaID, hallID uuid.UUID, req *request.HallUpdateRequest) (*response.HallResponse, error)
	DeleteHall(ctx context.Context, cinemaID, hallID uuid.UUID) error
}

type hallService struct {
	repo    *repository.Repository
	seatMap *cache.SeatMapCache
	now     func() time.Time
	log     *zap.Logger
}

func NewHallService(repo *repository.Repository, seatMap *cache.SeatMapCache, log *zap.Logger) HallService {
	return &hallService{
		repo:    repo,
		seatMap: seatMap,
		now:     time.Now,
		log:     log.With(zap.String("service", "hall")),
	}
}

func (s *hallService) GetHalls(ctx context.Context, cinemaID uuid.UUID, req *request.PaginatedRequest, nameFilter *string) (*response.PaginatedResponse[response.HallResponse], error) {
	if err := s.ensureCinema(ctx, s.repo, cinemaID); err != nil {
		return nil, err
	}

	halls, err := s.repo.Hall.FindPageByCinemaID(ctx, cinemaID, nameFilter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get halls: %w", err)
	}

	total, err := s.repo.Hall.CountByCinemaID(ctx, cinemaID, nameFilter)
	if err != nil {
		return nil, fmt.Errorf("count halls: %w", err)
	}

	return response.NewPaginatedResponse(response.HallsToResponse(halls), req.Page, req.Limit(), total), nil
}

func (s *hallService) GetHall(ctx context.Context, cinemaID, hallID uuid.UUID) (*response.HallResponse, error) {
	hall, err := s.findHall(ctx, s.repo, cinemaID, hallID, false)
	if err != nil {
		return nil, err
	}

	resp := response.HallToResponse(hall)
	return &resp, nil
}

func (s *hallService) CreateHall(ctx context.Context, cinemaID uuid.UUID, req *request.HallRequest) (*response.HallResponse, error) {
	if req.Rows < 1 || req.SeatsPerRow < 1 {
		return nil, entity.ErrInvalidHallSize
	}

	hall := &entity.Hall{
		Base:        entity.NewBase(s.now()),
		CinemaID:    cinemaID,
		Name:        req.Name,
		Rows:        req.Rows,
		SeatsPerRow: req.SeatsPerRow,
	}

	err := s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		if err := s.ensureCinema(ctx, tx, cinemaID); err != nil {
			return err
		}

		taken, err := tx.Hall.ExistsByName(ctx, cinemaID, hall.Name, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return entity.ErrHallNameTaken
		}

		return tx.Hall.Create(ctx, hall)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Hall created",
		zap.String("hall_id", hall.ID.String()),
		zap.String("cinema_id", cinemaID.String()),
		zap.Int("rows", hall.Rows),
		zap.Int("seats_per_row", hall.SeatsPerRow),
	)

	resp := response.HallToResponse(hall)
	return &resp, nil
}

// UpdateHall renames or resizes a hall. Rows and seats per row are frozen
// once any screening exists in the hall.
func (s *hallService) UpdateHall(ctx context.Context, cinemaID, hallID uuid.UUID, req *request.HallUpdateRequest) (*response.HallResponse, error) {
	var hall *entity.Hall

	err := s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		var err error
		hall, err = s.findHall(ctx, tx, cinemaID, hallID, true)
		if err != nil {
			return err
		}

		rows, seatsPerRow := hall.Rows, hall.SeatsPerRow
		if req.Rows != nil {
			rows = *req.Rows
		}
		if req.SeatsPerRow != nil {
			seatsPerRow = *req.SeatsPerRow
		}

		if rows < 1 || seatsPerRow < 1 {
			return entity.ErrInvalidHallSize
		}

		if hall.GeometryChanged(rows, seatsPerRow) {
			scheduled, err := tx.Screening.ExistsByHallID(ctx, hall.ID)
			if err != nil {
				return err
			}
			if scheduled {
				return entity.ErrHallGeometryFixed
			}
			hall.Rows, hall.SeatsPerRow = rows, seatsPerRow
		}

		if req.Name != nil && *req.Name != hall.Name {
			taken, err := tx.Hall.ExistsByName(ctx, cinemaID, *req.Name, hall.ID)
			if err != nil {
				return err
			}
			if taken {
				return entity.ErrHallNameTaken
			}
			hall.Name = *req.Name
		}

		hall.UpdatedAt = s.now()
		return tx.Hall.Update(ctx, hall)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Hall updated", zap.String("hall_id", hall.ID.String()))

	resp := response.HallToResponse(hall)
	return &resp, nil
}

// DeleteHall removes the hall with its screenings and seats.
func (s *hallService) DeleteHall(ctx context.Context, cinemaID, hallID uuid.UUID) error {
	var screeningIDs []uuid.UUID

	err := s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		hall, err := s.findHall(ctx, tx, cinemaID, hallID, true)
		if err != nil {
			return err
		}

		screenings, err := tx.Screening.FindByHallID(ctx, hall.ID)
		if err != nil {
			return err
		}
		for _, sc := range screenings {
			screeningIDs = append(screeningIDs, sc.ID)
		}

		return tx.Hall.Delete(ctx, hall.ID)
	})
	if err != nil {
		return err
	}

	s.seatMap.Invalidate(ctx, screeningIDs...)
	s.log.Info("Hall deleted",
		zap.String("hall_id", hallID.String()),
		zap.Int("screenings", len(screeningIDs)),
	)
	return nil
}

func (s *hallService) ensureCinema(ctx context.Context, repo *repository.Repository, cinemaID uuid.UUID) error {
	cinema, err := repo.Cinema.FindByID(ctx, cinemaID)
	if err != nil {
		return err
	}
	if cinema == nil {
		return entity.ErrCinemaNotFound
	}
	return nil
}

// findHall loads a hall and checks it belongs to cinemaID.
func (s *hallService) findHall(ctx context.Context, repo *repository.Repository, cinemaID, hallID uuid.UUID, lock bool) (*entity.Hall, error) {
	var (
		hall *entity.Hall
		err  error
	)
	if lock {
		hall, err = repo.Hall.FindByIDForUpdate(ctx, hallID)
	} else {
		hall, err = repo.Hall.FindByID(ctx, hallID)
	}
	if err != nil {
		return nil, err
	}
	if hall == nil || hall.CinemaID != cinemaID {
		return nil, entity.ErrHallNotFound
	}
	return hall, nil
}
