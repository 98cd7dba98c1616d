package errors

import (
	"context"
	"errors"
	"net"
	"net/url"
)

// MapTransportError maps errors raised while talking to the API to AppError instances.
// It handles:
// - context deadline and cancellation → Timeout/Canceled
// - network timeouts → Timeout
// - dial, DNS and other url.Error failures → Unavailable
//
// AppErrors pass through untouched. Unrecognized errors are returned as-is.
func MapTransportError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, ErrCodeTimeout, "request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return Wrap(err, ErrCodeCanceled, "request canceled")
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Wrap(err, ErrCodeTimeout, "request timed out")
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return Wrap(err, ErrCodeUnavailable, "API unreachable")
	}

	return err
}
