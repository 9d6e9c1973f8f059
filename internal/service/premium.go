package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ipvault/ipvault/internal/metrics"
	"github.com/ipvault/ipvault/internal/model"
	"github.com/ipvault/ipvault/internal/repository"
)

// SubscribeInput defines input for activating a subscription.
type SubscribeInput struct {
	Address     string
	Plan        string
	PaymentHash string
}

// PremiumService manages mock premium subscriptions.
type PremiumService struct {
	repo    repository.SubscriptionRepository
	now     func() time.Time
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewPremiumService creates a new PremiumService. A nil clock means time.Now.
func NewPremiumService(repo repository.SubscriptionRepository, now func() time.Time, recorder metrics.Recorder, logger *slog.Logger) *PremiumService {
	if now == nil {
		now = time.Now
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PremiumService{
		repo:    repo,
		now:     now,
		metrics: recorder,
		logger:  logger.With("component", "service.premium"),
	}
}

// Status returns the active subscription for address, or nil when there is
// none. Expired records are deleted on read.
func (s *PremiumService) Status(ctx context.Context, address string) (*model.Subscription, error) {
	address = model.NormalizeAddress(address)
	if address == "" {
		return nil, ErrAddressRequired
	}

	sub, err := s.repo.Get(ctx, address)
	if errors.Is(err, repository.ErrSubscriptionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	if sub.IsExpired(s.now()) {
		if err := s.repo.Delete(ctx, address); err != nil {
			s.logger.Warn("failed to delete expired subscription", "address", address, "error", err)
		}
		return nil, nil
	}
	return sub, nil
}

// Subscribe validates the plan and overwrites any existing subscription.
func (s *PremiumService) Subscribe(ctx context.Context, input SubscribeInput) (*model.Subscription, error) {
	address := model.NormalizeAddress(input.Address)
	if address == "" || input.Plan == "" {
		return nil, ErrSubscriptionRequired
	}

	plan := model.Plan(input.Plan)
	details, ok := plan.Details()
	if !ok {
		return nil, ErrInvalidPlan
	}

	now := s.now()
	expiresAt := now.Add(details.Duration).UnixMilli()
	sub := &model.Subscription{
		Address:   address,
		IsPremium: true,
		Plan:      plan,
		ExpiresAt: &expiresAt,
		Discount:  details.Discount,
		StartedAt: now.UnixMilli(),
	}
	if input.PaymentHash != "" {
		hash := input.PaymentHash
		sub.PaymentHash = &hash
	}

	if err := s.repo.Put(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to store subscription: %w", err)
	}

	s.metrics.IncSubscriptionActivated(string(plan))
	s.logger.Info("premium subscription activated",
		"address", address,
		"plan", plan,
		"price", details.Price,
		"expires_at", model.FormatTimestamp(sub.ExpiryTime()),
	)
	return sub, nil
}
