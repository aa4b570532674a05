package admins

import (
	"context"
	"testing"

	"billing-sync/internal/domain/admins"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(t.TempDir()+"/admins.db"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&admins.AdminUser{}))
	return NewService(db)
}

func TestSeedAndIsAdmin(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.Seed(ctx, []string{" Ada@Example.com ", "", "grace@example.com"}))
	require.NoError(t, s.Seed(ctx, []string{"ada@example.com"}))

	ok, err := s.IsAdmin(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.IsAdmin(ctx, "mallory@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.IsAdmin(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestAddAndRemove(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	u, err := s.Add(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)

	require.NoError(t, s.Remove(ctx, "ada@example.com"))
	assert.ErrorIs(t, s.Remove(ctx, "ada@example.com"), ErrNotFound)

	_, err = s.Add(ctx, "  ")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}
