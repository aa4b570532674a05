package subscriptions

import "time"

// FeaturePremium is the feature gated by an active subscription.
const FeaturePremium = "premium"

type Subscription struct {
	ID                   uint    `gorm:"primaryKey"`
	UserID               string  `gorm:"column:user_id;not null;index:idx_subscriptions_user_id"`
	UserEmail            string  `gorm:"column:user_email;index:idx_subscriptions_user_email"`
	StripeCustomerID     string  `gorm:"column:stripe_customer_id;index:idx_subscriptions_stripe_customer_id"`
	StripeSubscriptionID *string `gorm:"column:stripe_subscription_id;uniqueIndex:idx_subscriptions_stripe_subscription_id"`
	StripePriceID        string  `gorm:"column:stripe_price_id"`
	Status               Status  `gorm:"column:status;type:varchar(20);not null;default:'free'"`

	CurrentPeriodStart *time.Time `gorm:"column:current_period_start"`
	CurrentPeriodEnd   *time.Time `gorm:"column:current_period_end"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FeatureFlag is derived from Subscription.Status and keyed by (user_id, feature_name).
type FeatureFlag struct {
	UserID      string `gorm:"primaryKey;column:user_id"`
	FeatureName string `gorm:"primaryKey;column:feature_name"`
	IsActive    bool   `gorm:"column:is_active;not null;default:false"`
	UpdatedAt   time.Time
}
