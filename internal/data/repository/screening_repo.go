package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ScreeningRepository interface {
	Create(ctx context.Context, screening *entity.Screening) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Screening, error)
	FindUpcoming(ctx context.Context, from time.Time, limit, offset int) ([]*entity.Screening, error)
	CountUpcoming(ctx context.Context, from time.Time) (int64, error)
	FindByHallID(ctx context.Context, hallID uuid.UUID) ([]*entity.Screening, error)
	ExistsByHallID(ctx context.Context, hallID uuid.UUID) (bool, error)
	Update(ctx context.Context, screening *entity.Screening) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type screeningRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewScreeningRepository(db database.Querier, log *zap.Logger) ScreeningRepository {
	return &screeningRepository{
		db:  db,
		log: log.With(zap.String("repository", "screening")),
	}
}

// Film length is not stored on the screening; it is always joined from movies.
const selectScreening = `
	SELECT s.id, s.hall_id, s.movie_id, s.start_time, s.created_at, s.updated_at,
	       COALESCE(m.duration_in_minutes, 0), m.title
	FROM screenings s
	JOIN movies m ON m.id = s.movie_id
`

func (r *screeningRepository) Create(ctx context.Context, screening *entity.Screening) error {
	query := `
		INSERT INTO screenings (id, hall_id, movie_id, start_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		screening.ID,
		screening.HallID,
		screening.MovieID,
		screening.StartTime,
		screening.CreatedAt,
		screening.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create screening",
			zap.Error(err),
			zap.String("movie_id", screening.MovieID.String()),
			zap.String("hall_id", screening.HallID.String()),
			zap.Time("start_time", screening.StartTime),
		)
		return fmt.Errorf("create screening for movie %s hall %s: %w",
			screening.MovieID.String(), screening.HallID.String(), err)
	}

	return nil
}

func (r *screeningRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Screening, error) {
	screening, err := scanScreening(r.db.QueryRow(ctx, selectScreening+` WHERE s.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find screening by ID",
			zap.Error(err),
			zap.String("screening_id", id.String()),
		)
		return nil, fmt.Errorf("find screening by ID %s: %w", id.String(), err)
	}

	return screening, nil
}

func (r *screeningRepository) FindUpcoming(ctx context.Context, from time.Time, limit, offset int) ([]*entity.Screening, error) {
	query := selectScreening + `
		WHERE s.start_time >= $1
		ORDER BY s.start_time, m.title
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, from, limit, offset)
	if err != nil {
		r.log.Error("Failed to find upcoming screenings",
			zap.Error(err),
			zap.Time("from", from),
		)
		return nil, fmt.Errorf("find screenings from %s: %w", from.Format(time.RFC3339), err)
	}

	return r.collect(rows)
}

func (r *screeningRepository) CountUpcoming(ctx context.Context, from time.Time) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM screenings WHERE start_time >= $1`, from).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count upcoming screenings", zap.Error(err))
		return 0, fmt.Errorf("count screenings from %s: %w", from.Format(time.RFC3339), err)
	}

	return total, nil
}

func (r *screeningRepository) FindByHallID(ctx context.Context, hallID uuid.UUID) ([]*entity.Screening, error) {
	query := selectScreening + ` WHERE s.hall_id = $1 ORDER BY s.start_time`

	rows, err := r.db.Query(ctx, query, hallID)
	if err != nil {
		r.log.Error("Failed to find screenings by hall ID",
			zap.Error(err),
			zap.String("hall_id", hallID.String()),
		)
		return nil, fmt.Errorf("find screenings by hall ID %s: %w", hallID.String(), err)
	}

	return r.collect(rows)
}

func (r *screeningRepository) ExistsByHallID(ctx context.Context, hallID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM screenings WHERE hall_id = $1)`, hallID).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check screenings of hall",
			zap.Error(err),
			zap.String("hall_id", hallID.String()),
		)
		return false, fmt.Errorf("check screenings of hall %s: %w", hallID.String(), err)
	}

	return exists, nil
}

func (r *screeningRepository) Update(ctx context.Context, screening *entity.Screening) error {
	query := `
		UPDATE screenings
		SET movie_id = $2, start_time = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		screening.ID,
		screening.MovieID,
		screening.StartTime,
		screening.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update screening",
			zap.Error(err),
			zap.String("screening_id", screening.ID.String()),
		)
		return fmt.Errorf("update screening %s: %w", screening.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrScreeningNotFound
	}

	return nil
}

// Delete removes the screening together with its seats.
func (r *screeningRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM screenings WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete screening",
			zap.Error(err),
			zap.String("screening_id", id.String()),
		)
		return fmt.Errorf("delete screening %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrScreeningNotFound
	}

	r.log.Info("Screening deleted", zap.String("screening_id", id.String()))
	return nil
}

func (r *screeningRepository) collect(rows pgx.Rows) ([]*entity.Screening, error) {
	defer rows.Close()

	var screenings []*entity.Screening
	for rows.Next() {
		screening, err := scanScreening(rows)
		if err != nil {
			r.log.Error("Failed to scan screening row", zap.Error(err))
			return nil, fmt.Errorf("scan screening row: %w", err)
		}
		screenings = append(screenings, screening)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate screening rows: %w", err)
	}

	return screenings, nil
}

func scanScreening(row pgx.Row) (*entity.Screening, error) {
	var screening entity.Screening
	err := row.Scan(
		&screening.ID,
		&screening.HallID,
		&screening.MovieID,
		&screening.StartTime,
		&screening.CreatedAt,
		&screening.UpdatedAt,
		&screening.DurationMinutes,
		&screening.MovieTitle,
	)
	if err != nil {
		return nil, err
	}
	return &screening, nil
}
