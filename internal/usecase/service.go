package usecase

import (
	"fmt"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/pkg/broker"
	"cinema-ticketing/pkg/cache"
	"cinema-ticketing/pkg/metrics"
	"cinema-ticketing/pkg/utils"

	"go.uber.org/zap"
)

// Infra bundles the side channels a service touches after a commit. Every
// member may be nil.
type Infra struct {
	SeatMap   *cache.SeatMapCache
	Publisher broker.Publisher
	Metrics   *metrics.Metrics
}

func (i Infra) publisher() broker.Publisher {
	if i.Publisher == nil {
		return broker.NopPublisher{}
	}
	return i.Publisher
}

type Service struct {
	Auth      AuthService
	Cinema    CinemaService
	Hall      HallService
	Screening ScreeningService
	Seat      SeatService
	Cart      CartService
}

func NewService(repo *repository.Repository, config *utils.Config, infra Infra, log *zap.Logger) (*Service, error) {
	policy, err := entity.ParseClaimPolicy(config.Reservation.ClaimPolicy)
	if err != nil {
		return nil, fmt.Errorf("reservation config: %w", err)
	}

	guard := NewScheduleGuard(config.Reservation.ScreeningBuffer, config.Reservation.ScreeningLead)

	return &Service{
		Auth:      NewAuthService(repo, config, log),
		Cinema:    NewCinemaService(repo, log),
		Hall:      NewHallService(repo, infra.SeatMap, log),
		Screening: NewScreeningService(repo, guard, config.Reservation.DefaultSeatPrice, infra, log),
		Seat:      NewSeatService(repo, infra, log),
		Cart:      NewCartService(repo, policy, infra, log),
	}, nil
}
