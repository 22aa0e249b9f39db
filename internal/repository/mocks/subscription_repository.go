package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
)

// SubscriptionRepository is a mock of repository.SubscriptionRepository.
type SubscriptionRepository struct {
	mock.Mock
}

func (m *SubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *SubscriptionRepository) FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*domain.Subscription, error) {
	args := m.Called(ctx, paymentIntentID)
	if s := args.Get(0); s != nil {
		return s.(*domain.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SubscriptionRepository) FindActiveByUser(ctx context.Context, userID uint) (*domain.Subscription, error) {
	args := m.Called(ctx, userID)
	if s := args.Get(0); s != nil {
		return s.(*domain.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SubscriptionRepository) Save(ctx context.Context, sub *domain.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}
