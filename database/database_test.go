package database

import (
	"testing"

	"billing-sync/internal/domain/admins"
	"billing-sync/internal/domain/subscriptions"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMigrateCreatesTables(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(t.TempDir()+"/migrate.db"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	m := db.Migrator()
	assert.True(t, m.HasTable(&subscriptions.Subscription{}))
	assert.True(t, m.HasTable(&subscriptions.FeatureFlag{}))
	assert.True(t, m.HasTable(&admins.AdminUser{}))
	assert.True(t, m.HasIndex(&subscriptions.Subscription{}, "idx_subscriptions_stripe_subscription_id"))
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
