package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"billing-sync/internal/admins"
	"billing-sync/internal/app/http/middleware"
	domain "billing-sync/internal/domain/admins"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryAllowlist struct {
	emails map[string]bool
	err    error
}

func (m *memoryAllowlist) IsAdmin(_ context.Context, email string) (bool, error) {
	return m.emails[domain.NormalizeEmail(email)], m.err
}

func (m *memoryAllowlist) List(context.Context) ([]domain.AdminUser, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.AdminUser
	for e := range m.emails {
		out = append(out, domain.AdminUser{Email: e, IsAdmin: true})
	}
	return out, nil
}

func (m *memoryAllowlist) Add(_ context.Context, email string) (*domain.AdminUser, error) {
	if m.err != nil {
		return nil, m.err
	}
	email = domain.NormalizeEmail(email)
	m.emails[email] = true
	return &domain.AdminUser{Email: email, IsAdmin: true}, nil
}

func (m *memoryAllowlist) Remove(_ context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if !m.emails[email] {
		return admins.ErrNotFound
	}
	delete(m.emails, email)
	return nil
}

func newRouter(list Allowlist, caller string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if caller != "" {
			c.Set(middleware.ContextEmail, caller)
		}
	})
	h := NewHandler(list)
	r.GET("/admin/status", h.Status)
	r.GET("/admin/users", h.ListAdmins)
	r.POST("/admin/users", h.AddAdmin)
	r.DELETE("/admin/users/:email", h.RemoveAdmin)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	return rec
}

func TestStatus(t *testing.T) {
	list := &memoryAllowlist{emails: map[string]bool{"root@example.com": true}}

	rec := do(newRouter(list, "Root@Example.com"), http.MethodGet, "/admin/status", "")
	assert.JSONEq(t, `{"is_admin":true}`, rec.Body.String())

	rec = do(newRouter(list, "ada@example.com"), http.MethodGet, "/admin/status", "")
	assert.JSONEq(t, `{"is_admin":false}`, rec.Body.String())

	rec = do(newRouter(list, ""), http.MethodGet, "/admin/status", "")
	assert.JSONEq(t, `{"is_admin":false}`, rec.Body.String())
}

func TestStatusLookupFailure(t *testing.T) {
	list := &memoryAllowlist{emails: map[string]bool{}, err: errors.New("db down")}

	rec := do(newRouter(list, "root@example.com"), http.MethodGet, "/admin/status", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAddListRemove(t *testing.T) {
	list := &memoryAllowlist{emails: map[string]bool{"root@example.com": true}}
	r := newRouter(list, "root@example.com")

	rec := do(r, http.MethodPost, "/admin/users", `{"email":"Ada@Example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"ada@example.com"`)

	rec = do(r, http.MethodGet, "/admin/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got []domain.AdminUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)

	rec = do(r, http.MethodDelete, "/admin/users/ada@example.com", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, list.emails["ada@example.com"])

	rec = do(r, http.MethodDelete, "/admin/users/ada@example.com", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddRejectsInvalidEmail(t *testing.T) {
	list := &memoryAllowlist{emails: map[string]bool{}}
	r := newRouter(list, "root@example.com")

	for _, body := range []string{`{}`, `{"email":"not-an-email"}`} {
		rec := do(r, http.MethodPost, "/admin/users", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Empty(t, list.emails)
}

func TestRemoveSelfRefused(t *testing.T) {
	list := &memoryAllowlist{emails: map[string]bool{"root@example.com": true}}

	rec := do(newRouter(list, "root@example.com"), http.MethodDelete, "/admin/users/ROOT@example.com", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, list.emails["root@example.com"])
}

func TestListEmptyIsArray(t *testing.T) {
	rec := do(newRouter(&memoryAllowlist{emails: map[string]bool{}}, "root@example.com"), http.MethodGet, "/admin/users", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}
