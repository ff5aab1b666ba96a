package entity

import (
	"errors"
	"fmt"
)

// Error kinds. Every concrete error below wraps exactly one of these so
// callers can branch with errors.Is on the kind.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidSchedule = errors.New("invalid schedule")
	ErrSeatUnavailable = errors.New("seat unavailable")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrAlreadyBooked   = errors.New("cart already booked")
	ErrSeatConflict    = errors.New("seat already booked")
	ErrNotBooked       = errors.New("cart is not booked")
	ErrConflict        = errors.New("conflict")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
)

var (
	ErrCinemaNotFound    = fmt.Errorf("cinema %w", ErrNotFound)
	ErrMovieNotFound     = fmt.Errorf("movie %w", ErrNotFound)
	ErrHallNotFound      = fmt.Errorf("hall %w", ErrNotFound)
	ErrScreeningNotFound = fmt.Errorf("screening %w", ErrNotFound)
	ErrSeatNotFound      = fmt.Errorf("seat %w", ErrNotFound)
	ErrCartNotFound      = fmt.Errorf("cart %w", ErrNotFound)
	ErrSeatNotInCart     = fmt.Errorf("seat in cart %w", ErrNotFound)
)

var (
	ErrScreeningInPast   = fmt.Errorf("%w: screening start time is in the past", ErrInvalidSchedule)
	ErrScreeningTooSoon  = fmt.Errorf("%w: screening must start at least the lead time from now", ErrInvalidSchedule)
	ErrScreeningOverlap  = fmt.Errorf("%w: another screening is scheduled in this hall at that time", ErrInvalidSchedule)
	ErrMovieHasNoLength  = fmt.Errorf("%w: movie has no duration", ErrInvalidSchedule)
	ErrSeatsExist        = fmt.Errorf("%w: seats already created for screening", ErrConflict)
	ErrHallNameTaken     = fmt.Errorf("%w: hall name already used in this cinema", ErrConflict)
	ErrHallGeometryFixed = fmt.Errorf("%w: hall rows and seats per row cannot change once screenings exist", ErrConflict)
	ErrInvalidPrice      = fmt.Errorf("%w: price must be between 0 and 99999.99", ErrInvalidInput)
	ErrInvalidHallSize   = fmt.Errorf("%w: rows and seats per row must be positive", ErrInvalidInput)
	ErrInvalidCredential = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
)
