package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// memStore is an in-memory stand-in for the Postgres repositories. Reads
// hand out copies so services only change stored state through writes.
type memStore struct {
	cinemas    map[uuid.UUID]*entity.Cinema
	movies     map[uuid.UUID]*entity.Movie
	halls      map[uuid.UUID]*entity.Hall
	screenings map[uuid.UUID]*entity.Screening
	seats      map[uuid.UUID]*entity.Seat
	carts      map[uuid.UUID]*entity.Cart
}

func newMemStore() *memStore {
	return &memStore{
		cinemas:    map[uuid.UUID]*entity.Cinema{},
		movies:     map[uuid.UUID]*entity.Movie{},
		halls:      map[uuid.UUID]*entity.Hall{},
		screenings: map[uuid.UUID]*entity.Screening{},
		seats:      map[uuid.UUID]*entity.Seat{},
		carts:      map[uuid.UUID]*entity.Cart{},
	}
}

func (m *memStore) repository() *repository.Repository {
	repo := &repository.Repository{
		Cinema:    &memCinemaRepo{m},
		Movie:     &memMovieRepo{m},
		Hall:      &memHallRepo{m},
		Screening: &memScreeningRepo{m},
		Seat:      &memSeatRepo{m},
		Cart:      &memCartRepo{m},
	}
	repo.UseTxRunner(func(_ context.Context, fn func(tx *repository.Repository) error) error {
		saved := m.snapshot()
		if err := fn(repo); err != nil {
			m.restore(saved)
			return err
		}
		return nil
	})
	return repo
}

type memSnapshot struct {
	cinemas    map[uuid.UUID]entity.Cinema
	movies     map[uuid.UUID]entity.Movie
	halls      map[uuid.UUID]entity.Hall
	screenings map[uuid.UUID]entity.Screening
	seats      map[uuid.UUID]entity.Seat
	carts      map[uuid.UUID]entity.Cart
}

func (m *memStore) snapshot() memSnapshot {
	return memSnapshot{
		cinemas:    saveRows(m.cinemas),
		movies:     saveRows(m.movies),
		halls:      saveRows(m.halls),
		screenings: saveRows(m.screenings),
		seats:      saveRows(m.seats),
		carts:      saveRows(m.carts),
	}
}

// restore rolls the store back in place so pointers held by tests stay valid.
func (m *memStore) restore(s memSnapshot) {
	restoreRows(m.cinemas, s.cinemas)
	restoreRows(m.movies, s.movies)
	restoreRows(m.halls, s.halls)
	restoreRows(m.screenings, s.screenings)
	restoreRows(m.seats, s.seats)
	restoreRows(m.carts, s.carts)
}

func saveRows[T any](live map[uuid.UUID]*T) map[uuid.UUID]T {
	saved := make(map[uuid.UUID]T, len(live))
	for id, row := range live {
		saved[id] = *row
	}
	return saved
}

func restoreRows[T any](live map[uuid.UUID]*T, saved map[uuid.UUID]T) {
	for id := range live {
		if _, ok := saved[id]; !ok {
			delete(live, id)
		}
	}
	for id, row := range saved {
		if p, ok := live[id]; ok {
			*p = row
			continue
		}
		row := row // per-iteration copy (Go 1.22 loop semantics)
		live[id] = &row
	}
}

func (m *memStore) addHall(rows, seatsPerRow int) *entity.Hall {
	cinema := &entity.Cinema{Base: entity.NewBase(time.Now()), Name: "Odeon"}
	m.cinemas[cinema.ID] = cinema

	hall := &entity.Hall{
		Base:        entity.NewBase(time.Now()),
		CinemaID:    cinema.ID,
		Name:        "Hall 1",
		Rows:        rows,
		SeatsPerRow: seatsPerRow,
	}
	m.halls[hall.ID] = hall
	return hall
}

func (m *memStore) addMovie(minutes int) *entity.Movie {
	movie := &entity.Movie{Base: entity.NewBase(time.Now()), Title: "Stalker", DurationInMinutes: &minutes}
	m.movies[movie.ID] = movie
	return movie
}

// addScreening stores a screening of hall and fills its grid at 500.00.
func (m *memStore) addScreening(hall *entity.Hall, movie *entity.Movie, start time.Time) *entity.Screening {
	screening := &entity.Screening{
		Base:      entity.NewBase(time.Now()),
		HallID:    hall.ID,
		MovieID:   movie.ID,
		StartTime: start,
	}
	m.screenings[screening.ID] = screening

	for _, seat := range entity.NewSeatGrid(screening.ID, hall, decimal.RequireFromString("500.00"), time.Now()) {
		m.seats[seat.ID] = seat
	}
	return screening
}

func (m *memStore) addCart(userID uuid.UUID) *entity.Cart {
	cart := &entity.Cart{Base: entity.NewBase(time.Now()), UserID: userID, Name: "weekend"}
	m.carts[cart.ID] = cart
	return cart
}

func (m *memStore) seatAt(screeningID uuid.UUID, row, number int) *entity.Seat {
	for _, seat := range m.seats {
		if seat.ScreeningID == screeningID && seat.Row == row && seat.Number == number {
			return seat
		}
	}
	return nil
}

func (m *memStore) seatCopy(seat *entity.Seat) *entity.Seat {
	c := *seat
	if seat.CartID != nil {
		id := *seat.CartID
		c.CartID = &id
	}
	if sc, ok := m.screenings[seat.ScreeningID]; ok {
		c.ScreeningStart = sc.StartTime
	}
	return &c
}

func (m *memStore) withDuration(sc *entity.Screening) *entity.Screening {
	c := *sc
	if movie, ok := m.movies[sc.MovieID]; ok {
		c.DurationMinutes = int(movie.Length() / time.Minute)
		c.MovieTitle = movie.Title
	}
	return &c
}

func testService(store *memStore, policy entity.ClaimPolicy, now time.Time) *cartService {
	svc := NewCartService(store.repository(), policy, Infra{}, zap.NewNop()).(*cartService)
	svc.now = func() time.Time { return now }
	return svc
}

type memCinemaRepo struct{ m *memStore }

func (r *memCinemaRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Cinema, error) {
	if c, ok := r.m.cinemas[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *memCinemaRepo) FindAll(_ context.Context, limit, offset int, _ *string) ([]*entity.Cinema, error) {
	var out []*entity.Cinema
	for _, c := range r.m.cinemas {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memCinemaRepo) CountAll(_ context.Context, _ *string) (int64, error) {
	return int64(len(r.m.cinemas)), nil
}

type memMovieRepo struct{ m *memStore }

func (r *memMovieRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Movie, error) {
	if movie, ok := r.m.movies[id]; ok {
		cp := *movie
		return &cp, nil
	}
	return nil, nil
}

func (r *memMovieRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Movie, error) {
	var out []*entity.Movie
	for _, movie := range r.m.movies {
		cp := *movie
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memMovieRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.m.movies)), nil
}

type memHallRepo struct{ m *memStore }

func (r *memHallRepo) Create(_ context.Context, hall *entity.Hall) error {
	cp := *hall
	r.m.halls[hall.ID] = &cp
	return nil
}

func (r *memHallRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Hall, error) {
	if hall, ok := r.m.halls[id]; ok {
		cp := *hall
		return &cp, nil
	}
	return nil, nil
}

func (r *memHallRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Hall, error) {
	return r.FindByID(ctx, id)
}

func (r *memHallRepo) FindByCinemaID(_ context.Context, cinemaID uuid.UUID) ([]*entity.Hall, error) {
	var out []*entity.Hall
	for _, hall := range r.m.halls {
		if hall.CinemaID == cinemaID {
			cp := *hall
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memHallRepo) FindPageByCinemaID(_ context.Context, cinemaID uuid.UUID, nameFilter *string, limit, offset int) ([]*entity.Hall, error) {
	halls := r.matching(cinemaID, nameFilter)
	sort.Slice(halls, func(i, j int) bool { return halls[i].Name < halls[j].Name })
	if offset >= len(halls) {
		return nil, nil
	}
	return halls[offset:min(offset+limit, len(halls))], nil
}

func (r *memHallRepo) CountByCinemaID(_ context.Context, cinemaID uuid.UUID, nameFilter *string) (int64, error) {
	return int64(len(r.matching(cinemaID, nameFilter))), nil
}

func (r *memHallRepo) matching(cinemaID uuid.UUID, nameFilter *string) []*entity.Hall {
	var out []*entity.Hall
	for _, hall := range r.m.halls {
		if hall.CinemaID != cinemaID {
			continue
		}
		if nameFilter != nil && !strings.Contains(strings.ToLower(hall.Name), strings.ToLower(*nameFilter)) {
			continue
		}
		cp := *hall
		out = append(out, &cp)
	}
	return out
}

func (r *memHallRepo) ExistsByName(_ context.Context, cinemaID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	for _, hall := range r.m.halls {
		if hall.CinemaID == cinemaID && hall.Name == name && hall.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memHallRepo) Update(_ context.Context, hall *entity.Hall) error {
	if _, ok := r.m.halls[hall.ID]; !ok {
		return entity.ErrHallNotFound
	}
	cp := *hall
	r.m.halls[hall.ID] = &cp
	return nil
}

func (r *memHallRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.m.halls[id]; !ok {
		return entity.ErrHallNotFound
	}
	delete(r.m.halls, id)
	for sid, sc := range r.m.screenings {
		if sc.HallID == id {
			r.m.deleteScreening(sid)
		}
	}
	return nil
}

func (m *memStore) deleteScreening(id uuid.UUID) {
	delete(m.screenings, id)
	for seatID, seat := range m.seats {
		if seat.ScreeningID == id {
			delete(m.seats, seatID)
		}
	}
}

type memScreeningRepo struct{ m *memStore }

func (r *memScreeningRepo) Create(_ context.Context, screening *entity.Screening) error {
	cp := *screening
	r.m.screenings[screening.ID] = &cp
	return nil
}

func (r *memScreeningRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Screening, error) {
	if sc, ok := r.m.screenings[id]; ok {
		return r.m.withDuration(sc), nil
	}
	return nil, nil
}

func (r *memScreeningRepo) FindUpcoming(_ context.Context, from time.Time, limit, offset int) ([]*entity.Screening, error) {
	var out []*entity.Screening
	for _, sc := range r.m.screenings {
		if !sc.StartTime.Before(from) {
			out = append(out, r.m.withDuration(sc))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *memScreeningRepo) CountUpcoming(ctx context.Context, from time.Time) (int64, error) {
	out, _ := r.FindUpcoming(ctx, from, 0, 0)
	return int64(len(out)), nil
}

func (r *memScreeningRepo) FindByHallID(_ context.Context, hallID uuid.UUID) ([]*entity.Screening, error) {
	var out []*entity.Screening
	for _, sc := range r.m.screenings {
		if sc.HallID == hallID {
			out = append(out, r.m.withDuration(sc))
		}
	}
	return out, nil
}

func (r *memScreeningRepo) ExistsByHallID(ctx context.Context, hallID uuid.UUID) (bool, error) {
	out, _ := r.FindByHallID(ctx, hallID)
	return len(out) > 0, nil
}

func (r *memScreeningRepo) Update(_ context.Context, screening *entity.Screening) error {
	if _, ok := r.m.screenings[screening.ID]; !ok {
		return entity.ErrScreeningNotFound
	}
	cp := *screening
	r.m.screenings[screening.ID] = &cp
	return nil
}

func (r *memScreeningRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.m.screenings[id]; !ok {
		return entity.ErrScreeningNotFound
	}
	r.m.deleteScreening(id)
	return nil
}

type memSeatRepo struct{ m *memStore }

func (r *memSeatRepo) CreateBatch(_ context.Context, seats []*entity.Seat) error {
	for _, seat := range seats {
		if r.m.seatAt(seat.ScreeningID, seat.Row, seat.Number) != nil {
			return entity.ErrSeatsExist
		}
		cp := *seat
		r.m.seats[seat.ID] = &cp
	}
	return nil
}

func (r *memSeatRepo) CountByScreening(_ context.Context, screeningID uuid.UUID) (int64, error) {
	var n int64
	for _, seat := range r.m.seats {
		if seat.ScreeningID == screeningID {
			n++
		}
	}
	return n, nil
}

func (r *memSeatRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Seat, error) {
	if seat, ok := r.m.seats[id]; ok {
		return r.m.seatCopy(seat), nil
	}
	return nil, nil
}

func (r *memSeatRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Seat, error) {
	return r.FindByID(ctx, id)
}

func (r *memSeatRepo) FindByCoordinate(_ context.Context, screeningID uuid.UUID, row, number int) (*entity.Seat, error) {
	if seat := r.m.seatAt(screeningID, row, number); seat != nil {
		return r.m.seatCopy(seat), nil
	}
	return nil, nil
}

func (r *memSeatRepo) FindByCoordinateForUpdate(ctx context.Context, screeningID uuid.UUID, row, number int) (*entity.Seat, error) {
	return r.FindByCoordinate(ctx, screeningID, row, number)
}

func (r *memSeatRepo) FindByCartID(_ context.Context, cartID uuid.UUID) ([]*entity.Seat, error) {
	var out []*entity.Seat
	for _, seat := range r.m.seats {
		if seat.InCart(cartID) {
			out = append(out, r.m.seatCopy(seat))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (r *memSeatRepo) FindByCartIDForUpdate(ctx context.Context, cartID uuid.UUID) ([]*entity.Seat, error) {
	return r.FindByCartID(ctx, cartID)
}

func (r *memSeatRepo) FindStatesByScreening(_ context.Context, screeningID uuid.UUID) ([]entity.SeatState, error) {
	var out []entity.SeatState
	for _, seat := range r.m.seats {
		if seat.ScreeningID != screeningID {
			continue
		}
		st := entity.SeatState{SeatID: seat.ID, Row: seat.Row, Number: seat.Number, IsBooked: seat.IsBooked}
		if seat.CartID != nil {
			if cart, ok := r.m.carts[*seat.CartID]; ok {
				owner := cart.UserID
				st.CartOwnerID = &owner
			}
		}
		out = append(out, st)
	}
	return out, nil
}

func (r *memSeatRepo) UpdateState(_ context.Context, seat *entity.Seat) error {
	stored, ok := r.m.seats[seat.ID]
	if !ok {
		return entity.ErrSeatNotFound
	}
	stored.IsBooked = seat.IsBooked
	stored.CartID = nil
	if seat.CartID != nil {
		id := *seat.CartID
		stored.CartID = &id
	}
	stored.UpdatedAt = seat.UpdatedAt
	return nil
}

func (r *memSeatRepo) UpdateStates(ctx context.Context, seats []*entity.Seat) error {
	for _, seat := range seats {
		if err := r.UpdateState(ctx, seat); err != nil {
			return err
		}
	}
	return nil
}

func (r *memSeatRepo) UpdatePrice(_ context.Context, seatID uuid.UUID, price decimal.Decimal, updatedAt time.Time) error {
	stored, ok := r.m.seats[seatID]
	if !ok {
		return entity.ErrSeatNotFound
	}
	stored.Price = price
	stored.UpdatedAt = updatedAt
	return nil
}

type memCartRepo struct{ m *memStore }

func (r *memCartRepo) Create(_ context.Context, cart *entity.Cart) error {
	cp := *cart
	cp.Seats = nil
	r.m.carts[cart.ID] = &cp
	return nil
}

func (r *memCartRepo) FindByIDAndUser(_ context.Context, id, userID uuid.UUID) (*entity.Cart, error) {
	cart, ok := r.m.carts[id]
	if !ok || cart.UserID != userID {
		return nil, nil
	}
	cp := *cart
	return &cp, nil
}

func (r *memCartRepo) FindByIDAndUserForUpdate(ctx context.Context, id, userID uuid.UUID) (*entity.Cart, error) {
	return r.FindByIDAndUser(ctx, id, userID)
}

func (r *memCartRepo) FindByUser(_ context.Context, userID uuid.UUID, nameFilter *string, limit, offset int) ([]*entity.Cart, error) {
	var out []*entity.Cart
	for _, cart := range r.m.carts {
		if cart.UserID != userID {
			continue
		}
		if nameFilter != nil && !strings.Contains(strings.ToLower(cart.Name), strings.ToLower(*nameFilter)) {
			continue
		}
		cp := *cart
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memCartRepo) CountByUser(ctx context.Context, userID uuid.UUID, nameFilter *string) (int64, error) {
	out, _ := r.FindByUser(ctx, userID, nameFilter, 0, 0)
	return int64(len(out)), nil
}

func (r *memCartRepo) Update(_ context.Context, cart *entity.Cart) error {
	stored, ok := r.m.carts[cart.ID]
	if !ok {
		return entity.ErrCartNotFound
	}
	stored.Name = cart.Name
	stored.IsBooked = cart.IsBooked
	stored.UpdatedAt = cart.UpdatedAt
	return nil
}

func (r *memCartRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.m.carts[id]; !ok {
		return entity.ErrCartNotFound
	}
	delete(r.m.carts, id)
	for _, seat := range r.m.seats {
		if seat.InCart(id) {
			seat.CartID = nil
		}
	}
	return nil
}
