package adaptor

import (
	"errors"
	"net/http"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps domain error kinds to HTTP responses. Anything
// unrecognised is logged and reported as 500.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, entity.ErrUnauthorized):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, entity.ErrInvalidInput),
		errors.Is(err, entity.ErrInvalidSchedule):
		log.Warn("Invalid input for "+operation, zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, entity.ErrSeatUnavailable),
		errors.Is(err, entity.ErrEmptyCart),
		errors.Is(err, entity.ErrAlreadyBooked),
		errors.Is(err, entity.ErrSeatConflict),
		errors.Is(err, entity.ErrNotBooked),
		errors.Is(err, entity.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
