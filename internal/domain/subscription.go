package domain

import "time"

// Subscription plan tags.
const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"
)

// Subscription tracks a user's paid plan. A record is created when payment
// is initiated (Valid=false) and completed by the payment processor's
// webhook, which sets the period and flips Valid.
type Subscription struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	UserID           uint      `gorm:"index:idx_sub_user;not null" json:"-"`
	SubscriptionTag  string    `gorm:"type:varchar(32)" json:"tag"`
	StripeCustomerID string    `gorm:"type:varchar(191);index:idx_sub_customer" json:"-"`
	PaymentIntentID  string    `gorm:"type:varchar(191);uniqueIndex:idx_sub_intent" json:"-"`
	Price            int64     `json:"price"`
	Valid            bool      `gorm:"default:false" json:"valid"`
	StartDate        time.Time `json:"startDate"`
	EndDate          time.Time `json:"endDate"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"-"`
}

// Active reports whether the subscription is paid up at the given time.
func (s *Subscription) Active(now time.Time) bool {
	return s.Valid && now.Before(s.EndDate)
}
