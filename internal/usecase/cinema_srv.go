package usecase

import (
	"context"
	"fmt"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CinemaService is the read side of the catalog: cinemas and films are
// maintained outside this service.
type CinemaService interface {
	GetCinemas(ctx context.Context, req *request.PaginatedRequest, cityFilter *string) (*response.PaginatedResponse[response.CinemaResponse], error)
	GetCinemaByID(ctx context.Context, cinemaID uuid.UUID) (*response.CinemaDetailResponse, error)
	GetMovies(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.MovieResponse], error)
	GetMovieByID(ctx context.Context, movieID uuid.UUID) (*response.MovieResponse, error)
}

type cinemaService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCinemaService(repo *repository.Repository, log *zap.Logger) CinemaService {
	return &cinemaService{
		repo: repo,
		log:  log.With(zap.String("service", "cinema")),
	}
}

func (s *cinemaService) GetCinemas(ctx context.Context, req *request.PaginatedRequest, cityFilter *string) (*response.PaginatedResponse[response.CinemaResponse], error) {
	cinemas, err := s.repo.Cinema.FindAll(ctx, req.Limit(), req.Offset(), cityFilter)
	if err != nil {
		return nil, fmt.Errorf("get cinemas: %w", err)
	}

	total, err := s.repo.Cinema.CountAll(ctx, cityFilter)
	if err != nil {
		return nil, fmt.Errorf("count cinemas: %w", err)
	}

	cinemaResponses := make([]response.CinemaResponse, len(cinemas))
	for i, cinema := range cinemas {
		cinemaResponses[i] = response.CinemaToResponse(cinema)
	}

	s.log.Debug("Cinemas retrieved",
		zap.Int("count", len(cinemas)),
		zap.Int64("total", total),
	)

	return response.NewPaginatedResponse(cinemaResponses, req.Page, req.Limit(), total), nil
}

func (s *cinemaService) GetCinemaByID(ctx context.Context, cinemaID uuid.UUID) (*response.CinemaDetailResponse, error) {
	cinema, err := s.repo.Cinema.FindByID(ctx, cinemaID)
	if err != nil {
		return nil, fmt.Errorf("get cinema: %w", err)
	}
	if cinema == nil {
		return nil, entity.ErrCinemaNotFound
	}

	halls, err := s.repo.Hall.FindByCinemaID(ctx, cinemaID)
	if err != nil {
		return nil, fmt.Errorf("get halls: %w", err)
	}

	return &response.CinemaDetailResponse{
		CinemaResponse: response.CinemaToResponse(cinema),
		Halls:          response.HallsToResponse(halls),
	}, nil
}

func (s *cinemaService) GetMovies(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.MovieResponse], error) {
	movies, err := s.repo.Movie.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get movies: %w", err)
	}

	total, err := s.repo.Movie.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count movies: %w", err)
	}

	movieResponses := make([]response.MovieResponse, len(movies))
	for i, movie := range movies {
		movieResponses[i] = response.MovieToResponse(movie)
	}

	return response.NewPaginatedResponse(movieResponses, req.Page, req.Limit(), total), nil
}

func (s *cinemaService) GetMovieByID(ctx context.Context, movieID uuid.UUID) (*response.MovieResponse, error) {
	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return nil, entity.ErrMovieNotFound
	}

	resp := response.MovieToResponse(movie)
	return &resp, nil
}
