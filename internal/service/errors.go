// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/ipvault/ipvault/internal/media"
)

// Service errors.
var (
	ErrMissingFields        = errors.New("missing required fields")
	ErrSubscriptionRequired = errors.New("address and plan are required")
	ErrAddressRequired      = errors.New("address is required")
	ErrInvalidPlan          = errors.New("invalid plan")
	ErrUnsupportedMedia     = media.ErrUnsupported
)

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
