package repository

import (
	"context"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
)

// SubscriptionRepository defines storage and retrieval of subscription
// records.
type SubscriptionRepository interface {
	// Create inserts a new subscription record.
	Create(ctx context.Context, sub *domain.Subscription) error

	// FindByPaymentIntent looks a subscription up by the payment
	// processor's intent id. Returns ErrSubscriptionNotFound when absent.
	FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*domain.Subscription, error)

	// FindActiveByUser returns the user's currently valid subscription.
	// Returns ErrSubscriptionNotFound when none is active.
	FindActiveByUser(ctx context.Context, userID uint) (*domain.Subscription, error)

	// Save persists changes to an existing record.
	Save(ctx context.Context, sub *domain.Subscription) error
}
