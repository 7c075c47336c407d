package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/eventify/ticketing/internal/core/domain"
)

type tokenResolver struct {
	users map[string]*domain.CurrentUser
	calls int
}

func (r *tokenResolver) CurrentUser(_ context.Context, token string) (*domain.CurrentUser, bool) {
	r.calls++
	u, ok := r.users[token]
	return u, ok
}

func (r *tokenResolver) Resolve(context.Context, domain.Session) (*domain.CurrentUser, bool) {
	return nil, false
}

func runRequireRole(t *testing.T, resolver *tokenResolver, token string) (bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	h := RequireRole(resolver, domain.RoleOrganizer)(func(c echo.Context) error {
		called = true
		if _, ok := CurrentUserFrom(c); !ok {
			t.Fatalf("current user not attached")
		}
		return nil
	})
	err := h(c)
	return called, err
}

func TestRequireRole_Allows(t *testing.T) {
	resolver := &tokenResolver{users: map[string]*domain.CurrentUser{
		"t": {ID: "u1", Role: domain.RoleOrganizer},
	}}
	called, err := runRequireRole(t, resolver, "t")
	if err != nil || !called {
		t.Fatalf("expected organizer through, err=%v called=%v", err, called)
	}
}

func TestRequireRole_WrongRole(t *testing.T) {
	resolver := &tokenResolver{users: map[string]*domain.CurrentUser{
		"t": {ID: "u1", Role: domain.RoleUser},
	}}
	called, err := runRequireRole(t, resolver, "t")
	if called || !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRequireRole_NoSession(t *testing.T) {
	resolver := &tokenResolver{}
	called, err := runRequireRole(t, resolver, "")
	if called || !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRequireRole_ReusesResolvedUser(t *testing.T) {
	resolver := &tokenResolver{}
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(currentUserKey, &domain.CurrentUser{ID: "u1", Role: domain.RoleOrganizer})

	h := RequireRole(resolver, domain.RoleOrganizer)(func(c echo.Context) error { return nil })
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolver.calls != 0 {
		t.Fatalf("expected no extra lookup, got %d", resolver.calls)
	}
}
