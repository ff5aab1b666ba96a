package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type SeatRepository interface {
	CreateBatch(ctx context.Context, seats []*entity.Seat) error
	CountByScreening(ctx context.Context, screeningID uuid.UUID) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Seat, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Seat, error)
	FindByCoordinate(ctx context.Context, screeningID uuid.UUID, row, number int) (*entity.Seat, error)
	FindByCoordinateForUpdate(ctx context.Context, screeningID uuid.UUID, row, number int) (*entity.Seat, error)

	// Seats of a cart carry the start time of their screening.
	FindByCartID(ctx context.Context, cartID uuid.UUID) ([]*entity.Seat, error)
	FindByCartIDForUpdate(ctx context.Context, cartID uuid.UUID) ([]*entity.Seat, error)

	// FindStatesByScreening returns the viewer-independent state of every
	// seat of a screening, with the owner of the holding cart resolved.
	FindStatesByScreening(ctx context.Context, screeningID uuid.UUID) ([]entity.SeatState, error)

	UpdateState(ctx context.Context, seat *entity.Seat) error
	UpdateStates(ctx context.Context, seats []*entity.Seat) error
	UpdatePrice(ctx context.Context, seatID uuid.UUID, price decimal.Decimal, updatedAt time.Time) error
}

type seatRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewSeatRepository(db database.Querier, log *zap.Logger) SeatRepository {
	return &seatRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat")),
	}
}

const selectSeat = `
	SELECT s.id, s.screening_id, s.seat_row, s.seat_number, s.price, s.is_booked, s.cart_id,
	       s.created_at, s.updated_at, sc.start_time
	FROM seats s
	JOIN screenings sc ON sc.id = s.screening_id
`

// Postgres caps a statement at 65535 bind parameters; eight per seat.
const seatInsertChunk = 1000

// CreateBatch inserts seats with multi-row INSERTs. Callers run it inside a
// transaction so a failing chunk leaves no partial grid.
func (r *seatRepository) CreateBatch(ctx context.Context, seats []*entity.Seat) error {
	for start := 0; start < len(seats); start += seatInsertChunk {
		end := min(start+seatInsertChunk, len(seats))
		if err := r.insertSeats(ctx, seats[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *seatRepository) insertSeats(ctx context.Context, seats []*entity.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	// Build batch insert
	var query strings.Builder
	query.WriteString(`INSERT INTO seats (id, screening_id, seat_row, seat_number, price, is_booked, created_at, updated_at) VALUES `)
	args := make([]any, 0, len(seats)*8)

	for i, seat := range seats {
		if i > 0 {
			query.WriteString(", ")
		}
		fmt.Fprintf(&query, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			i*8+1, i*8+2, i*8+3, i*8+4, i*8+5, i*8+6, i*8+7, i*8+8)

		args = append(args,
			seat.ID,
			seat.ScreeningID,
			seat.Row,
			seat.Number,
			seat.Price,
			seat.IsBooked,
			seat.CreatedAt,
			seat.UpdatedAt,
		)
	}

	_, err := r.db.Exec(ctx, query.String(), args...)
	if err != nil {
		r.log.Error("Failed to create batch seats",
			zap.Error(err),
			zap.Int("count", len(seats)),
		)
		return fmt.Errorf("create %d seats: %w", len(seats), err)
	}

	return nil
}

func (r *seatRepository) CountByScreening(ctx context.Context, screeningID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM seats WHERE screening_id = $1`, screeningID).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count seats",
			zap.Error(err),
			zap.String("screening_id", screeningID.String()),
		)
		return 0, fmt.Errorf("count seats of screening %s: %w", screeningID.String(), err)
	}

	return total, nil
}

func (r *seatRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Seat, error) {
	return r.findOne(ctx, selectSeat+` WHERE s.id = $1`, id)
}

func (r *seatRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Seat, error) {
	return r.findOne(ctx, selectSeat+` WHERE s.id = $1 FOR UPDATE OF s`, id)
}

func (r *seatRepository) FindByCoordinate(ctx context.Context, screeningID uuid.UUID, row, number int) (*entity.Seat, error) {
	query := selectSeat + ` WHERE s.screening_id = $1 AND s.seat_row = $2 AND s.seat_number = $3`
	return r.findOne(ctx, query, screeningID, row, number)
}

func (r *seatRepository) FindByCoordinateForUpdate(ctx context.Context, screeningID uuid.UUID, row, number int) (*entity.Seat, error) {
	query := selectSeat + ` WHERE s.screening_id = $1 AND s.seat_row = $2 AND s.seat_number = $3 FOR UPDATE OF s`
	return r.findOne(ctx, query, screeningID, row, number)
}

func (r *seatRepository) findOne(ctx context.Context, query string, args ...any) (*entity.Seat, error) {
	seat, err := scanSeat(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find seat",
			zap.Error(err),
			zap.Any("args", args),
		)
		return nil, fmt.Errorf("find seat: %w", err)
	}

	return seat, nil
}

func (r *seatRepository) FindByCartID(ctx context.Context, cartID uuid.UUID) ([]*entity.Seat, error) {
	return r.findByCart(ctx, selectSeat+` WHERE s.cart_id = $1 ORDER BY sc.start_time, s.seat_row, s.seat_number`, cartID)
}

func (r *seatRepository) FindByCartIDForUpdate(ctx context.Context, cartID uuid.UUID) ([]*entity.Seat, error) {
	return r.findByCart(ctx, selectSeat+` WHERE s.cart_id = $1 ORDER BY s.id FOR UPDATE OF s`, cartID)
}

func (r *seatRepository) findByCart(ctx context.Context, query string, cartID uuid.UUID) ([]*entity.Seat, error) {
	rows, err := r.db.Query(ctx, query, cartID)
	if err != nil {
		r.log.Error("Failed to find seats by cart ID",
			zap.Error(err),
			zap.String("cart_id", cartID.String()),
		)
		return nil, fmt.Errorf("find seats of cart %s: %w", cartID.String(), err)
	}
	defer rows.Close()

	seats := []*entity.Seat{}
	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			r.log.Error("Failed to scan seat row", zap.Error(err))
			return nil, fmt.Errorf("scan seat row: %w", err)
		}
		seats = append(seats, seat)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate seat rows: %w", err)
	}

	return seats, nil
}

func (r *seatRepository) FindStatesByScreening(ctx context.Context, screeningID uuid.UUID) ([]entity.SeatState, error) {
	query := `
		SELECT s.id, s.seat_row, s.seat_number, s.is_booked, c.user_id
		FROM seats s
		LEFT JOIN carts c ON c.id = s.cart_id
		WHERE s.screening_id = $1
		ORDER BY s.seat_row, s.seat_number
	`

	rows, err := r.db.Query(ctx, query, screeningID)
	if err != nil {
		r.log.Error("Failed to find seat states",
			zap.Error(err),
			zap.String("screening_id", screeningID.String()),
		)
		return nil, fmt.Errorf("find seat states of screening %s: %w", screeningID.String(), err)
	}
	defer rows.Close()

	var states []entity.SeatState
	for rows.Next() {
		var st entity.SeatState
		if err := rows.Scan(&st.SeatID, &st.Row, &st.Number, &st.IsBooked, &st.CartOwnerID); err != nil {
			r.log.Error("Failed to scan seat state row", zap.Error(err))
			return nil, fmt.Errorf("scan seat state row: %w", err)
		}
		states = append(states, st)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate seat state rows: %w", err)
	}

	return states, nil
}

// UpdateState writes the booked flag and cart link of a seat.
func (r *seatRepository) UpdateState(ctx context.Context, seat *entity.Seat) error {
	query := `
		UPDATE seats
		SET is_booked = $2, cart_id = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, seat.ID, seat.IsBooked, seat.CartID, seat.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update seat state",
			zap.Error(err),
			zap.String("seat_id", seat.ID.String()),
		)
		return fmt.Errorf("update seat %s: %w", seat.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrSeatNotFound
	}

	return nil
}

func (r *seatRepository) UpdateStates(ctx context.Context, seats []*entity.Seat) error {
	for _, seat := range seats {
		if err := r.UpdateState(ctx, seat); err != nil {
			return err
		}
	}
	return nil
}

func (r *seatRepository) UpdatePrice(ctx context.Context, seatID uuid.UUID, price decimal.Decimal, updatedAt time.Time) error {
	query := `UPDATE seats SET price = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, seatID, price, updatedAt)
	if err != nil {
		r.log.Error("Failed to update seat price",
			zap.Error(err),
			zap.String("seat_id", seatID.String()),
			zap.String("price", price.StringFixed(2)),
		)
		return fmt.Errorf("update price of seat %s: %w", seatID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrSeatNotFound
	}

	return nil
}

func scanSeat(row pgx.Row) (*entity.Seat, error) {
	var seat entity.Seat
	err := row.Scan(
		&seat.ID,
		&seat.ScreeningID,
		&seat.Row,
		&seat.Number,
		&seat.Price,
		&seat.IsBooked,
		&seat.CartID,
		&seat.CreatedAt,
		&seat.UpdatedAt,
		&seat.ScreeningStart,
	)
	if err != nil {
		return nil, err
	}
	return &seat, nil
}
