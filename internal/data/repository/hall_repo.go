package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type HallRepository interface {
	Create(ctx context.Context, hall *entity.Hall) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Hall, error)
	// FindByIDForUpdate locks the hall row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Hall, error)
	FindByCinemaID(ctx context.Context, cinemaID uuid.UUID) ([]*entity.Hall, error)
	FindPageByCinemaID(ctx context.Context, cinemaID uuid.UUID, nameFilter *string, limit, offset int) ([]*entity.Hall, error)
	CountByCinemaID(ctx context.Context, cinemaID uuid.UUID, nameFilter *string) (int64, error)
	ExistsByName(ctx context.Context, cinemaID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, hall *entity.Hall) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type hallRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewHallRepository(db database.Querier, log *zap.Logger) HallRepository {
	return &hallRepository{
		db:  db,
		log: log.With(zap.String("repository", "hall")),
	}
}

const selectHall = `
	SELECT id, cinema_id, name, rows, seats_per_row, created_at, updated_at
	FROM halls
`

func (r *hallRepository) Create(ctx context.Context, hall *entity.Hall) error {
	query := `
		INSERT INTO halls (id, cinema_id, name, rows, seats_per_row, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		hall.ID,
		hall.CinemaID,
		hall.Name,
		hall.Rows,
		hall.SeatsPerRow,
		hall.CreatedAt,
		hall.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create hall",
			zap.Error(err),
			zap.String("cinema_id", hall.CinemaID.String()),
			zap.String("name", hall.Name),
		)
		return fmt.Errorf("create hall %q in cinema %s: %w", hall.Name, hall.CinemaID.String(), err)
	}

	return nil
}

func (r *hallRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Hall, error) {
	return r.findOne(ctx, selectHall+` WHERE id = $1`, id)
}

func (r *hallRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Hall, error) {
	return r.findOne(ctx, selectHall+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *hallRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Hall, error) {
	hall, err := scanHall(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find hall by ID",
			zap.Error(err),
			zap.String("hall_id", id.String()),
		)
		return nil, fmt.Errorf("find hall by ID %s: %w", id.String(), err)
	}

	return hall, nil
}

func (r *hallRepository) FindByCinemaID(ctx context.Context, cinemaID uuid.UUID) ([]*entity.Hall, error) {
	query := selectHall + ` WHERE cinema_id = $1 ORDER BY name`

	rows, err := r.db.Query(ctx, query, cinemaID)
	if err != nil {
		r.log.Error("Failed to find halls by cinema ID",
			zap.Error(err),
			zap.String("cinema_id", cinemaID.String()),
		)
		return nil, fmt.Errorf("find halls by cinema ID %s: %w", cinemaID.String(), err)
	}
	defer rows.Close()

	var halls []*entity.Hall
	for rows.Next() {
		hall, err := scanHall(rows)
		if err != nil {
			r.log.Error("Failed to scan hall row", zap.Error(err))
			return nil, fmt.Errorf("scan hall row: %w", err)
		}
		halls = append(halls, hall)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate hall rows: %w", err)
	}

	return halls, nil
}

func (r *hallRepository) FindPageByCinemaID(ctx context.Context, cinemaID uuid.UUID, nameFilter *string, limit, offset int) ([]*entity.Hall, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(selectHall)
	queryBuilder.WriteString(` WHERE cinema_id = $1`)

	args := []any{cinemaID}
	argCount := 2

	if nameFilter != nil && *nameFilter != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND name ILIKE $%d", argCount))
		args = append(args, "%"+*nameFilter+"%")
		argCount++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to list halls",
			zap.Error(err),
			zap.String("cinema_id", cinemaID.String()),
			zap.Stringp("name_filter", nameFilter),
		)
		return nil, fmt.Errorf("list halls of cinema %s: %w", cinemaID.String(), err)
	}
	defer rows.Close()

	var halls []*entity.Hall
	for rows.Next() {
		hall, err := scanHall(rows)
		if err != nil {
			r.log.Error("Failed to scan hall row", zap.Error(err))
			return nil, fmt.Errorf("scan hall row: %w", err)
		}
		halls = append(halls, hall)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate hall rows: %w", err)
	}

	return halls, nil
}

func (r *hallRepository) CountByCinemaID(ctx context.Context, cinemaID uuid.UUID, nameFilter *string) (int64, error) {
	query := `SELECT COUNT(*) FROM halls WHERE cinema_id = $1`
	args := []any{cinemaID}

	if nameFilter != nil && *nameFilter != "" {
		query += " AND name ILIKE $2"
		args = append(args, "%"+*nameFilter+"%")
	}

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count halls",
			zap.Error(err),
			zap.String("cinema_id", cinemaID.String()),
		)
		return 0, fmt.Errorf("count halls of cinema %s: %w", cinemaID.String(), err)
	}

	return total, nil
}

// ExistsByName reports whether another hall of the cinema already uses name.
// Pass uuid.Nil as excludeID when creating.
func (r *hallRepository) ExistsByName(ctx context.Context, cinemaID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM halls
			WHERE cinema_id = $1 AND name = $2 AND id <> $3
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, cinemaID, name, excludeID).Scan(&exists); err != nil {
		r.log.Error("Failed to check hall name",
			zap.Error(err),
			zap.String("cinema_id", cinemaID.String()),
			zap.String("name", name),
		)
		return false, fmt.Errorf("check hall name %q in cinema %s: %w", name, cinemaID.String(), err)
	}

	return exists, nil
}

func (r *hallRepository) Update(ctx context.Context, hall *entity.Hall) error {
	query := `
		UPDATE halls
		SET name = $2, rows = $3, seats_per_row = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		hall.ID,
		hall.Name,
		hall.Rows,
		hall.SeatsPerRow,
		hall.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update hall",
			zap.Error(err),
			zap.String("hall_id", hall.ID.String()),
		)
		return fmt.Errorf("update hall %s: %w", hall.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrHallNotFound
	}

	return nil
}

// Delete removes the hall; screenings and their seats go with it.
func (r *hallRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM halls WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete hall",
			zap.Error(err),
			zap.String("hall_id", id.String()),
		)
		return fmt.Errorf("delete hall %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrHallNotFound
	}

	r.log.Info("Hall deleted", zap.String("hall_id", id.String()))
	return nil
}

func scanHall(row pgx.Row) (*entity.Hall, error) {
	var hall entity.Hall
	err := row.Scan(
		&hall.ID,
		&hall.CinemaID,
		&hall.Name,
		&hall.Rows,
		&hall.SeatsPerRow,
		&hall.CreatedAt,
		&hall.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &hall, nil
}
