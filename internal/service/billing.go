package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/repository"
)

// Plan prices in cents.
const (
	priceMonthly int64 = 1200
	priceYearly  int64 = 9600
)

// WebhookEvent is the payment provider event relevant to billing, already
// verified and narrowed by the gateway.
type WebhookEvent struct {
	Type            string
	PaymentIntentID string
}

// PaymentGateway abstracts the payment provider. The Stripe implementation
// lives in infra; tests substitute a mock.
type PaymentGateway interface {
	// CreateCustomer registers the user with the provider and returns the
	// provider customer id.
	CreateCustomer(ctx context.Context, email string) (string, error)

	// CreatePaymentIntent opens a payment for the amount and returns the
	// intent id and the client secret the frontend confirms with.
	CreatePaymentIntent(ctx context.Context, customerID string, amount int64, plan string) (id, clientSecret string, err error)

	// ParseWebhook verifies a webhook payload signature and extracts the
	// event.
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

// SubscribeResult carries what the frontend needs to confirm payment.
type SubscribeResult struct {
	ClientSecret string `json:"clientSecret"`
	Plan         string `json:"plan"`
	Price        int64  `json:"price"`
}

// BillingService handles subscription purchases. A subscription record is
// created pending at intent time and marked valid when the provider
// confirms payment via webhook.
type BillingService struct {
	subscriptionRepo repository.SubscriptionRepository
	userRepo         repository.UserRepository
	gateway          PaymentGateway
}

// NewBillingService creates a BillingService instance.
func NewBillingService(subscriptionRepo repository.SubscriptionRepository, userRepo repository.UserRepository, gateway PaymentGateway) *BillingService {
	if subscriptionRepo == nil || userRepo == nil || gateway == nil {
		panic("all dependencies must be non-nil for BillingService")
	}
	return &BillingService{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		gateway:          gateway,
	}
}

// Subscribe opens a payment intent for the plan and records a pending
// subscription keyed by the intent id.
func (s *BillingService) Subscribe(ctx context.Context, userID uint, plan string) (*SubscribeResult, error) {
	logCtx := logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"plan":    plan,
	})

	price, err := planPrice(plan)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logCtx.WithError(err).Error("Failed to load user for subscription")
		return nil, ErrInternalServer
	}

	customerID, err := s.gateway.CreateCustomer(ctx, user.Email)
	if err != nil {
		logCtx.WithError(err).Error("Failed to create payment customer")
		return nil, ErrInternalServer
	}

	intentID, clientSecret, err := s.gateway.CreatePaymentIntent(ctx, customerID, price, plan)
	if err != nil {
		logCtx.WithError(err).Error("Failed to create payment intent")
		return nil, ErrInternalServer
	}

	sub := &domain.Subscription{
		UserID:           userID,
		SubscriptionTag:  plan,
		StripeCustomerID: customerID,
		PaymentIntentID:  intentID,
		Price:            price,
		Valid:            false,
	}
	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		logCtx.WithError(err).Error("Failed to record pending subscription")
		return nil, ErrInternalServer
	}

	logCtx.WithField("payment_intent", intentID).Info("Subscription intent created")
	return &SubscribeResult{ClientSecret: clientSecret, Plan: plan, Price: price}, nil
}

// HandleWebhook verifies and dispatches a provider webhook. Unrecognized
// event types are acknowledged without action.
func (s *BillingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		logrus.WithError(err).Warn("Rejected webhook with invalid signature")
		return ErrAuthenticationFailed
	}
	if event.Type != "payment_intent.succeeded" {
		logrus.WithField("event_type", event.Type).Debug("Ignoring webhook event")
		return nil
	}
	return s.CompletePayment(ctx, event.PaymentIntentID)
}

// CompletePayment activates the subscription tied to a confirmed payment
// intent. Idempotent: a replayed webhook for an already-valid subscription
// is a no-op.
func (s *BillingService) CompletePayment(ctx context.Context, paymentIntentID string) error {
	logCtx := logrus.WithField("payment_intent", paymentIntentID)

	sub, err := s.subscriptionRepo.FindByPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			logCtx.Warn("Webhook for unknown payment intent")
			return nil
		}
		logCtx.WithError(err).Error("Failed to load subscription for payment")
		return ErrInternalServer
	}
	if sub.Valid {
		logCtx.Debug("Subscription already active, ignoring replay")
		return nil
	}

	now := time.Now().UTC()
	sub.Valid = true
	sub.StartDate = now
	switch sub.SubscriptionTag {
	case domain.PlanYearly:
		sub.EndDate = now.AddDate(1, 0, 0)
	default:
		sub.EndDate = now.AddDate(0, 1, 0)
	}
	if err := s.subscriptionRepo.Save(ctx, sub); err != nil {
		logCtx.WithError(err).Error("Failed to activate subscription")
		return ErrInternalServer
	}

	logCtx.WithFields(logrus.Fields{
		"user_id": sub.UserID,
		"plan":    sub.SubscriptionTag,
	}).Info("Subscription activated")
	return nil
}

// ActiveSubscription returns the user's current subscription, nil when
// none is active.
func (s *BillingService) ActiveSubscription(ctx context.Context, userID uint) (*domain.Subscription, error) {
	sub, err := s.subscriptionRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return nil, nil
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to load active subscription")
		return nil, ErrInternalServer
	}
	if !sub.Active(time.Now().UTC()) {
		return nil, nil
	}
	return sub, nil
}

func planPrice(plan string) (int64, error) {
	switch plan {
	case domain.PlanMonthly:
		return priceMonthly, nil
	case domain.PlanYearly:
		return priceYearly, nil
	default:
		return 0, ErrInvalidPlan
	}
}
