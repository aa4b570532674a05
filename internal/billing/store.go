package billing

import (
	"context"
	"errors"
	"time"

	"billing-sync/internal/domain/subscriptions"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists subscription records together with their derived feature flag.
type Store interface {
	FindBySubscriptionID(ctx context.Context, subscriptionID string) (*subscriptions.Subscription, error)
	LatestForUser(ctx context.Context, userID string) (*subscriptions.Subscription, error)
	CustomerIDForUser(ctx context.Context, userID string) (string, error)
	// LinkForCustomer returns the most recent record that ties customerID to a local user.
	LinkForCustomer(ctx context.Context, customerID string) (*subscriptions.Subscription, error)
	Flag(ctx context.Context, userID, feature string) (*subscriptions.FeatureFlag, error)

	// Apply upserts rec by its natural key and sets the premium flag from its status.
	Apply(ctx context.Context, rec *subscriptions.Subscription) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindBySubscriptionID(ctx context.Context, subscriptionID string) (*subscriptions.Subscription, error) {
	var rec subscriptions.Subscription
	err := s.db.WithContext(ctx).
		Where("stripe_subscription_id = ?", subscriptionID).
		First(&rec).Error
	if err != nil {
		return nil, notFoundOr("find subscription", err)
	}
	return &rec, nil
}

func (s *GormStore) LatestForUser(ctx context.Context, userID string) (*subscriptions.Subscription, error) {
	var rec subscriptions.Subscription
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Order("id DESC").
		First(&rec).Error
	if err != nil {
		return nil, notFoundOr("latest subscription", err)
	}
	return &rec, nil
}

func (s *GormStore) CustomerIDForUser(ctx context.Context, userID string) (string, error) {
	var rec subscriptions.Subscription
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND stripe_customer_id <> ''", userID).
		Order("updated_at DESC").
		Order("id DESC").
		First(&rec).Error
	if err != nil {
		return "", notFoundOr("customer for user", err)
	}
	return rec.StripeCustomerID, nil
}

func (s *GormStore) LinkForCustomer(ctx context.Context, customerID string) (*subscriptions.Subscription, error) {
	var rec subscriptions.Subscription
	err := s.db.WithContext(ctx).
		Where("stripe_customer_id = ? AND user_id <> ''", customerID).
		Order("updated_at DESC").
		Order("id DESC").
		First(&rec).Error
	if err != nil {
		return nil, notFoundOr("link for customer", err)
	}
	return &rec, nil
}

func (s *GormStore) Flag(ctx context.Context, userID, feature string) (*subscriptions.FeatureFlag, error) {
	var flag subscriptions.FeatureFlag
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND feature_name = ?", userID, feature).
		First(&flag).Error
	if err != nil {
		return nil, notFoundOr("feature flag", err)
	}
	return &flag, nil
}

func (s *GormStore) Apply(ctx context.Context, rec *subscriptions.Subscription) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertSubscription(tx, rec); err != nil {
			return err
		}
		flag := subscriptions.FeatureFlag{
			UserID:      rec.UserID,
			FeatureName: subscriptions.FeaturePremium,
			IsActive:    rec.Status.Entitled(),
			UpdatedAt:   time.Now(),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "feature_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_active", "updated_at"}),
		}).Create(&flag).Error
	})
	if err != nil {
		return &StoreError{Op: "apply subscription", Err: err}
	}
	return nil
}

func upsertSubscription(tx *gorm.DB, rec *subscriptions.Subscription) error {
	// Records loaded earlier carry their old timestamp; the conflict update copies it verbatim.
	rec.UpdatedAt = time.Now()

	if rec.StripeSubscriptionID != nil && *rec.StripeSubscriptionID != "" {
		row := *rec
		row.ID = 0
		row.CreatedAt = time.Time{}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "stripe_subscription_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"user_id",
				"user_email",
				"stripe_customer_id",
				"stripe_price_id",
				"status",
				"current_period_start",
				"current_period_end",
				"updated_at",
			}),
		}).Create(&row).Error
	}

	// No subscription id yet: one pending row per user.
	rec.StripeSubscriptionID = nil
	var existing subscriptions.Subscription
	err := tx.Where("user_id = ? AND stripe_subscription_id IS NULL", rec.UserID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Create(rec).Error
	case err != nil:
		return err
	}
	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	return tx.Save(rec).Error
}

func notFoundOr(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return &StoreError{Op: op, Err: err}
}
