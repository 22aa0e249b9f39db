package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/repository"
)

// GormSubscriptionRepository is the GORM implementation of
// SubscriptionRepository.
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a GormSubscriptionRepository
// instance.
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	if db == nil {
		panic("database connection cannot be nil for GormSubscriptionRepository")
	}
	return &GormSubscriptionRepository{db: db}
}

func (r *GormSubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	err := r.db.WithContext(ctx).Create(sub).Error
	if err != nil {
		if isDuplicateEntry(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create subscription for user %d: %w", sub.UserID, err)
	}
	return nil
}

func (r *GormSubscriptionRepository) FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := r.db.WithContext(ctx).
		Where("payment_intent_id = ?", paymentIntentID).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("gorm: find subscription by payment intent: %w", err)
	}
	return &sub, nil
}

func (r *GormSubscriptionRepository) FindActiveByUser(ctx context.Context, userID uint) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND valid = ? AND end_date > ?", userID, true, time.Now()).
		Order("end_date DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("gorm: find active subscription for user %d: %w", userID, err)
	}
	return &sub, nil
}

func (r *GormSubscriptionRepository) Save(ctx context.Context, sub *domain.Subscription) error {
	err := r.db.WithContext(ctx).Save(sub).Error
	if err != nil {
		return fmt.Errorf("gorm: save subscription %d: %w", sub.ID, err)
	}
	return nil
}
