package admins

import (
	"strings"
	"time"
)

type AdminUser struct {
	Email     string    `gorm:"primaryKey;column:email" json:"email"`
	IsAdmin   bool      `gorm:"column:is_admin;not null;default:true" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
