package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventify/ticketing/internal/api/handler"
	"github.com/eventify/ticketing/internal/api/middleware"
	"github.com/eventify/ticketing/internal/core/domain"
	"github.com/eventify/ticketing/internal/core/ports"
	"github.com/eventify/ticketing/internal/core/service"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int
}

func (m *memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	clone := *user
	clone.ID = "user-" + strconv.Itoa(m.seq)
	m.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (m *memUsers) UpdateProfile(_ context.Context, id, name, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Name, u.Email = name, email
	clone := *u
	return &clone, nil
}

type emptyDashboard struct{}

func (emptyDashboard) Stats(context.Context, string) (*domain.DashboardStats, error) {
	return &domain.DashboardStats{}, nil
}

func (emptyDashboard) ListEvents(context.Context, string) ([]domain.EventSummary, error) {
	return []domain.EventSummary{}, nil
}

func (emptyDashboard) CreateEvent(context.Context, string, ports.CreateEventInput) (*domain.Event, error) {
	return &domain.Event{ID: "e1"}, nil
}

func (emptyDashboard) ListPublished(context.Context) ([]*domain.Event, error) {
	return []*domain.Event{}, nil
}

var (
	routerOnce sync.Once
	testRouter *echo.Echo
)

// router builds one application for the whole package; request metrics
// register collectors globally and cannot be registered twice.
func router(t *testing.T) *echo.Echo {
	t.Helper()
	routerOnce.Do(func() {
		log := zerolog.Nop()
		users := &memUsers{users: map[string]*domain.User{}}
		tokens, err := service.NewTokenService(service.TokenConfig{Secret: "router-test-secret", TTL: time.Hour})
		if err != nil {
			t.Fatalf("token service: %v", err)
		}
		sessions := service.NewSessionResolver(tokens, users, time.Second, log)
		auth := service.NewAuthService(users, service.NewBcryptHasher(4), tokens, nil, nil, log)

		testRouter = NewRouter(Dependencies{
			Auth:      auth,
			Dashboard: emptyDashboard{},
			Sessions:  sessions,
			Tokens:    tokens,
			Health: map[string]handler.Pinger{
				"mongodb": func(context.Context) error { return nil },
			},
		}, Options{CookieMaxAge: time.Hour, Log: log})
	})
	return testRouter
}

func do(t *testing.T, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router(t).ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, email, role string) *http.Cookie {
	t.Helper()
	rec := do(t, http.MethodPost, "/api/auth/register",
		`{"name":"Test User","email":"`+email+`","password":"correct-horse","role":"`+role+`"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", email, rec.Code, rec.Body.String())
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.CookieName {
			return ck
		}
	}
	t.Fatalf("register %s: no auth cookie", email)
	return nil
}

func TestRouter_AnonymousDashboardRedirects(t *testing.T) {
	rec := do(t, http.MethodGet, "/dashboard/events", "", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/auth/login?callbackUrl=/dashboard/events" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestRouter_OrganizerFlow(t *testing.T) {
	cookie := register(t, "organizer@example.com", "ORGANIZER")

	rec := do(t, http.MethodGet, "/dashboard", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d", rec.Code)
	}

	rec = do(t, http.MethodGet, "/auth/login", "", cookie)
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/dashboard" {
		t.Fatalf("login page: expected redirect to /dashboard, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}

	rec = do(t, http.MethodGet, "/api/dashboard/stats", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", rec.Code)
	}

	rec = do(t, http.MethodGet, "/api/auth/me", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", rec.Code)
	}
}

func TestRouter_DashboardAPIRejectsNonOrganizer(t *testing.T) {
	cookie := register(t, "attendee@example.com", "USER")

	rec := do(t, http.MethodGet, "/api/dashboard/stats", "", cookie)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "Unauthorized" {
		t.Fatalf("unexpected body %v", body)
	}

	rec = do(t, http.MethodGet, "/api/dashboard/stats", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", rec.Code)
	}
}

func TestRouter_RegisterRejectsAdminAndDuplicates(t *testing.T) {
	rec := do(t, http.MethodPost, "/api/auth/register",
		`{"name":"Root","email":"root@example.com","password":"correct-horse","role":"ADMIN"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("admin: expected 400, got %d", rec.Code)
	}

	register(t, "dup@example.com", "USER")
	rec = do(t, http.MethodPost, "/api/auth/register",
		`{"name":"Again","email":"dup@example.com","password":"correct-horse","role":"USER"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate: expected 409, got %d", rec.Code)
	}
}

func TestRouter_LoginFailuresLookAlike(t *testing.T) {
	register(t, "known@example.com", "USER")

	wrong := do(t, http.MethodPost, "/api/auth/login", `{"email":"known@example.com","password":"wrong-password"}`, nil)
	unknown := do(t, http.MethodPost, "/api/auth/login", `{"email":"nobody@example.com","password":"wrong-password"}`, nil)

	if wrong.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for both, got %d and %d", wrong.Code, unknown.Code)
	}
	if wrong.Body.String() != unknown.Body.String() {
		t.Fatalf("failure bodies differ: %q vs %q", wrong.Body.String(), unknown.Body.String())
	}

	ok := do(t, http.MethodPost, "/api/auth/login", `{"email":"known@example.com","password":"correct-horse"}`, nil)
	if ok.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", ok.Code)
	}
}

func TestRouter_PublicAndInfraRoutes(t *testing.T) {
	for _, path := range []string{"/events", "/health", "/health/ready", "/auth/register"} {
		if rec := do(t, http.MethodGet, path, "", nil); rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestAuthRateLimiter_RejectsBeyondBurst(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	e.POST("/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, authRateLimiter(0.001, 2)...)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("expected first two requests within burst, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once burst is spent, got %d", codes[2])
	}
}

func TestAuthRateLimiter_DisabledWithZeroRate(t *testing.T) {
	if mws := authRateLimiter(0, 10); mws != nil {
		t.Fatalf("expected no middleware for zero rate, got %d", len(mws))
	}
}
