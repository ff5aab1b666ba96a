package repository

import (
	"context"
	"errors"

	"cinema-ticketing/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrNoTxRunner is returned by WithinTx on a Repository that was not given a
// way to open transactions.
var ErrNoTxRunner = errors.New("repository has no transaction runner")

// TxRunner runs fn as one unit of work and discards its writes when fn fails.
type TxRunner func(ctx context.Context, fn func(tx *Repository) error) error

type Repository struct {
	User      UserRepository
	Session   SessionRepository
	Cinema    CinemaRepository
	Movie     MovieRepository
	Hall      HallRepository
	Screening ScreeningRepository
	Seat      SeatRepository
	Cart      CartRepository

	runTx TxRunner
	log   *zap.Logger
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepository(db, log)
	repo.runTx = func(ctx context.Context, fn func(tx *Repository) error) error {
		return database.WithTx(ctx, db, func(tx pgx.Tx) error {
			return fn(newRepository(tx, log))
		})
	}
	return repo
}

func newRepository(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:      NewUserRepository(db, log),
		Session:   NewSessionRepository(db, log),
		Cinema:    NewCinemaRepository(db, log),
		Movie:     NewMovieRepository(db, log),
		Hall:      NewHallRepository(db, log),
		Screening: NewScreeningRepository(db, log),
		Seat:      NewSeatRepository(db, log),
		Cart:      NewCartRepository(db, log),
		log:       log,
	}
}

// UseTxRunner sets how WithinTx opens a unit of work. Repositories assembled
// from other implementations of the member interfaces supply their own.
func (r *Repository) UseTxRunner(run TxRunner) {
	r.runTx = run
}

// WithinTx runs fn with a Repository whose every member shares one
// transaction.
func (r *Repository) WithinTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.runTx == nil {
		return ErrNoTxRunner
	}
	return r.runTx(ctx, fn)
}
