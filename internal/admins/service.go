package admins

import (
	"context"
	"errors"
	"fmt"

	"billing-sync/internal/domain/admins"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidEmail = errors.New("email is required")
	ErrNotFound     = errors.New("admin user not found")
)

// Service manages the email allowlist that grants admin access.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// IsAdmin reports false, without error, for emails not on the allowlist.
func (s *Service) IsAdmin(ctx context.Context, email string) (bool, error) {
	email = admins.NormalizeEmail(email)
	if email == "" {
		return false, nil
	}
	var u admins.AdminUser
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup admin: %w", err)
	}
	return u.IsAdmin, nil
}

func (s *Service) List(ctx context.Context) ([]admins.AdminUser, error) {
	var out []admins.AdminUser
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return out, nil
}

func (s *Service) Add(ctx context.Context, email string) (*admins.AdminUser, error) {
	email = admins.NormalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidEmail
	}
	u := admins.AdminUser{Email: email, IsAdmin: true}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]any{"is_admin": true}),
	}).Create(&u).Error
	if err != nil {
		return nil, fmt.Errorf("add admin: %w", err)
	}
	return &u, nil
}

func (s *Service) Remove(ctx context.Context, email string) error {
	email = admins.NormalizeEmail(email)
	res := s.db.WithContext(ctx).Where("email = ?", email).Delete(&admins.AdminUser{})
	if res.Error != nil {
		return fmt.Errorf("remove admin: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Seed makes sure every allowlisted email is an admin.
func (s *Service) Seed(ctx context.Context, emails []string) error {
	for _, e := range emails {
		if admins.NormalizeEmail(e) == "" {
			continue
		}
		if _, err := s.Add(ctx, e); err != nil {
			return err
		}
	}
	log.Info().Int("count", len(emails)).Msg("Admin allowlist seeded")
	return nil
}
