package handlers

import (
	"errors"
	"net/http"

	"delivery-marketplace/internal/apperr"
	"delivery-marketplace/internal/service/orders"
)

// respondError maps service errors onto the wire error contract. Specific
// conflict cases come first: they carry their own client-visible details.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, orders.ErrAlreadyAssigned):
		writeDetail(w, r, http.StatusBadRequest, "Order is already assigned to a courier.")
	case errors.Is(err, orders.ErrNotAvailable):
		writeDetail(w, r, http.StatusBadRequest, "Order is not available for assignment.")
	case errors.Is(err, orders.ErrNotUnassignable):
		writeDetail(w, r, http.StatusBadRequest, "Order cannot be unassigned in its current status.")
	case errors.Is(err, apperr.ErrExpiredRollback):
		writeDetail(w, r, http.StatusBadRequest, "Time to revert status has expired.")
	case errors.Is(err, apperr.ErrInvalidTransition):
		writeDetail(w, r, http.StatusBadRequest, "Invalid status transition.")
	case errors.Is(err, apperr.ErrNotFound):
		writeDetail(w, r, http.StatusNotFound, "Not found.")
	case errors.Is(err, apperr.ErrForbidden):
		writeDetail(w, r, http.StatusForbidden, "You do not have permission to perform this action.")
	case errors.Is(err, apperr.ErrConflict):
		writeDetail(w, r, http.StatusConflict, "Conflict.")
	case errors.Is(err, apperr.ErrInvalid):
		writeDetail(w, r, http.StatusBadRequest, "Invalid input.")
	default:
		writeDetail(w, r, http.StatusInternalServerError, "Internal error.")
	}
}
