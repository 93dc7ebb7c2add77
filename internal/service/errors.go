package service

import (
	"errors"
	"log/slog"

	"CasaLinkAPI/internal/adapter"
	"CasaLinkAPI/internal/helper"
)

// mapAdapterError converts thread store sentinel errors into the HTTP error
// envelope. Anything unexpected is logged and collapsed into a generic
// retryable failure so a misbehaving store never crashes a request.
func mapAdapterError(err error) error {
	switch {
	case errors.Is(err, adapter.ErrNotFound):
		return helper.NewNotFoundError("")
	case errors.Is(err, adapter.ErrForbidden):
		return helper.NewForbiddenError("")
	case errors.Is(err, adapter.ErrInvalid):
		return helper.NewBadRequestError("")
	case errors.Is(err, adapter.ErrUnavailable):
		return helper.NewServiceUnavailableError("")
	default:
		slog.Error("Unexpected thread store error", "error", err)
		return helper.NewInternalServerError("")
	}
}
