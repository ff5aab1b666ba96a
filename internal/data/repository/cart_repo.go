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

type CartRepository interface {
	Create(ctx context.Context, cart *entity.Cart) error
	// FindByIDAndUser returns nil when the cart does not exist or belongs to
	// another user.
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Cart, error)
	FindByIDAndUserForUpdate(ctx context.Context, id, userID uuid.UUID) (*entity.Cart, error)
	FindByUser(ctx context.Context, userID uuid.UUID, nameFilter *string, limit, offset int) ([]*entity.Cart, error)
	CountByUser(ctx context.Context, userID uuid.UUID, nameFilter *string) (int64, error)
	Update(ctx context.Context, cart *entity.Cart) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type cartRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCartRepository(db database.Querier, log *zap.Logger) CartRepository {
	return &cartRepository{
		db:  db,
		log: log.With(zap.String("repository", "cart")),
	}
}

const selectCart = `
	SELECT id, user_id, name, is_booked, created_at, updated_at
	FROM carts
`

func (r *cartRepository) Create(ctx context.Context, cart *entity.Cart) error {
	query := `
		INSERT INTO carts (id, user_id, name, is_booked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		cart.ID,
		cart.UserID,
		cart.Name,
		cart.IsBooked,
		cart.CreatedAt,
		cart.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create cart",
			zap.Error(err),
			zap.String("user_id", cart.UserID.String()),
		)
		return fmt.Errorf("create cart for user %s: %w", cart.UserID.String(), err)
	}

	return nil
}

func (r *cartRepository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Cart, error) {
	return r.findOne(ctx, selectCart+` WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *cartRepository) FindByIDAndUserForUpdate(ctx context.Context, id, userID uuid.UUID) (*entity.Cart, error) {
	return r.findOne(ctx, selectCart+` WHERE id = $1 AND user_id = $2 FOR UPDATE`, id, userID)
}

func (r *cartRepository) findOne(ctx context.Context, query string, id, userID uuid.UUID) (*entity.Cart, error) {
	cart, err := scanCart(r.db.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find cart by ID",
			zap.Error(err),
			zap.String("cart_id", id.String()),
		)
		return nil, fmt.Errorf("find cart by ID %s: %w", id.String(), err)
	}

	return cart, nil
}

func (r *cartRepository) FindByUser(ctx context.Context, userID uuid.UUID, nameFilter *string, limit, offset int) ([]*entity.Cart, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(selectCart)
	queryBuilder.WriteString(` WHERE user_id = $1`)

	args := []any{userID}
	argCount := 2

	if nameFilter != nil && *nameFilter != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND name ILIKE $%d", argCount))
		args = append(args, "%"+*nameFilter+"%")
		argCount++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find carts by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Stringp("name_filter", nameFilter),
		)
		return nil, fmt.Errorf("find carts of user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var carts []*entity.Cart
	for rows.Next() {
		cart, err := scanCart(rows)
		if err != nil {
			r.log.Error("Failed to scan cart row", zap.Error(err))
			return nil, fmt.Errorf("scan cart row: %w", err)
		}
		carts = append(carts, cart)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate cart rows: %w", err)
	}

	return carts, nil
}

func (r *cartRepository) CountByUser(ctx context.Context, userID uuid.UUID, nameFilter *string) (int64, error) {
	query := `SELECT COUNT(*) FROM carts WHERE user_id = $1`
	args := []any{userID}

	if nameFilter != nil && *nameFilter != "" {
		query += " AND name ILIKE $2"
		args = append(args, "%"+*nameFilter+"%")
	}

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count carts",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count carts of user %s: %w", userID.String(), err)
	}

	return total, nil
}

func (r *cartRepository) Update(ctx context.Context, cart *entity.Cart) error {
	query := `
		UPDATE carts
		SET name = $2, is_booked = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, cart.ID, cart.Name, cart.IsBooked, cart.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update cart",
			zap.Error(err),
			zap.String("cart_id", cart.ID.String()),
		)
		return fmt.Errorf("update cart %s: %w", cart.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrCartNotFound
	}

	return nil
}

func (r *cartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM carts WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete cart",
			zap.Error(err),
			zap.String("cart_id", id.String()),
		)
		return fmt.Errorf("delete cart %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrCartNotFound
	}

	return nil
}

func scanCart(row pgx.Row) (*entity.Cart, error) {
	var cart entity.Cart
	err := row.Scan(
		&cart.ID,
		&cart.UserID,
		&cart.Name,
		&cart.IsBooked,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}
