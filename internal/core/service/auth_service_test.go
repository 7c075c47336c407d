package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventify/ticketing/internal/core/domain"
	"github.com/eventify/ticketing/internal/core/ports"
)

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	seq    int
	findFn func(ctx context.Context, id string) (*domain.User, error)
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	stored := cloneUser(user)
	stored.ID = "u" + strconv.Itoa(r.seq)
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if r.findFn != nil {
		return r.findFn(ctx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id, name, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Name, u.Email = name, email
	return cloneUser(u), nil
}

type stubThrottle struct {
	blocked  bool
	failures map[string]int
	resets   int
}

func newStubThrottle() *stubThrottle { return &stubThrottle{failures: map[string]int{}} }

func (t *stubThrottle) Allowed(context.Context, string) bool { return !t.blocked }

func (t *stubThrottle) RecordFailure(_ context.Context, email string) { t.failures[email]++ }

func (t *stubThrottle) Reset(_ context.Context, email string) {
	t.resets++
	delete(t.failures, email)
}

type recordingAudit struct {
	events []domain.AuthEvent
}

func (a *recordingAudit) Publish(e domain.AuthEvent) { a.events = append(a.events, e) }

func (a *recordingAudit) types() []domain.AuthEventType {
	out := make([]domain.AuthEventType, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Type)
	}
	return out
}

type countingHasher struct {
	ports.PasswordHasher
	verifies int
}

func (h *countingHasher) Verify(ctx context.Context, password, digest string) (bool, error) {
	h.verifies++
	return h.PasswordHasher.Verify(ctx, password, digest)
}

type authFixture struct {
	svc      *AuthService
	repo     *stubUserRepo
	tokens   *TokenService
	throttle *stubThrottle
	audit    *recordingAudit
	hasher   *countingHasher
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	tokens, err := NewTokenService(TokenConfig{Secret: "test-secret"})
	require.NoError(t, err)

	f := &authFixture{
		repo:     newStubUserRepo(),
		tokens:   tokens,
		throttle: newStubThrottle(),
		audit:    &recordingAudit{},
		hasher:   &countingHasher{PasswordHasher: NewBcryptHasher(bcrypt.MinCost)},
	}
	f.svc = NewAuthService(f.repo, f.hasher, tokens, f.throttle, f.audit, zerolog.Nop())
	return f
}

func (f *authFixture) register(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	_, user, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Name: "Test", Email: email, Password: "correct-horse", Role: role,
	})
	require.NoError(t, err)
	return user
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture(t)

	token, user, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Name: " Alice ", Email: " Alice@Example.com ", Password: "correct-horse", Role: domain.RoleOrganizer,
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, domain.RoleOrganizer, user.Role)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")))

	session, ok := f.tokens.Verify(token)
	require.True(t, ok)
	assert.Equal(t, user.ID, session.UserID)
	assert.Equal(t, domain.RoleOrganizer, session.Role)

	assert.Equal(t, []domain.AuthEventType{domain.AuthEventRegister}, f.audit.types())
}

func TestAuthService_Register_RejectsAdmin(t *testing.T) {
	f := newAuthFixture(t)

	_, _, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Name: "Root", Email: "root@example.com", Password: "correct-horse", Role: domain.RoleAdmin,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, _, err = f.svc.Register(context.Background(), ports.RegisterInput{
		Name: "X", Email: "x@example.com", Password: "correct-horse", Role: domain.Role("SUPERUSER"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "bob@example.com", domain.RoleUser)

	_, _, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Name: "Bob", Email: "BOB@example.com", Password: "another-pass", Role: domain.RoleUser,
	})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestAuthService_Register_Validation(t *testing.T) {
	f := newAuthFixture(t)

	_, _, err := f.svc.Register(context.Background(), ports.RegisterInput{Role: domain.RoleUser})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Register_PasswordOverByteLimit(t *testing.T) {
	f := newAuthFixture(t)

	_, _, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Eve",
		Email:    "eve@example.com",
		Password: strings.Repeat("é", 40),
		Role:     domain.RoleUser,
	})
	require.ErrorIs(t, err, domain.ErrPasswordTooLong)

	var hashErr *domain.HashingError
	assert.False(t, errors.As(err, &hashErr))
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t)
	registered := f.register(t, "carol@example.com", domain.RoleServiceProvider)

	token, user, err := f.svc.Login(context.Background(), ports.LoginInput{
		Email: "Carol@example.com", Password: "correct-horse", IP: "10.0.0.1", UserAgent: "test",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	session, ok := f.tokens.Verify(token)
	require.True(t, ok)
	assert.Equal(t, domain.RoleServiceProvider, session.Role)
	assert.Equal(t, 1, f.throttle.resets)

	last := f.audit.events[len(f.audit.events)-1]
	assert.Equal(t, domain.AuthEventLoginSuccess, last.Type)
	assert.Equal(t, "10.0.0.1", last.IP)
	assert.Equal(t, registered.ID, last.UserID)
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "dave@example.com", domain.RoleUser)

	_, _, wrongPass := f.svc.Login(context.Background(), ports.LoginInput{Email: "dave@example.com", Password: "nope-nope"})
	_, _, unknown := f.svc.Login(context.Background(), ports.LoginInput{Email: "ghost@example.com", Password: "nope-nope"})

	assert.ErrorIs(t, wrongPass, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), unknown.Error())

	assert.Equal(t, 1, f.throttle.failures["dave@example.com"])
	assert.Equal(t, 1, f.throttle.failures["ghost@example.com"])

	types := f.audit.types()
	assert.Equal(t, domain.AuthEventLoginFailure, types[len(types)-1])
	assert.Equal(t, domain.AuthEventLoginFailure, types[len(types)-2])
}

func TestAuthService_Login_Throttled(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "erin@example.com", domain.RoleUser)
	f.throttle.blocked = true

	_, _, err := f.svc.Login(context.Background(), ports.LoginInput{Email: "erin@example.com", Password: "correct-horse"})

	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)
	assert.Zero(t, f.hasher.verifies, "throttled logins must not reach the hasher")
	assert.Equal(t, domain.AuthEventLoginThrottled, f.audit.events[len(f.audit.events)-1].Type)
}

func TestAuthService_Login_CorruptDigest(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "frank@example.com", domain.RoleUser)
	f.repo.users[user.ID].PasswordHash = "not-a-bcrypt-digest"

	_, _, err := f.svc.Login(context.Background(), ports.LoginInput{Email: "frank@example.com", Password: "correct-horse"})

	var verr *domain.VerificationError
	assert.True(t, errors.As(err, &verr))
}

func TestAuthService_UpdateProfile(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "gina@example.com", domain.RoleOrganizer)

	token, updated, err := f.svc.UpdateProfile(context.Background(), user.ID, ports.ProfileInput{
		Name: "Gina R", Email: "GinaR@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "ginar@example.com", updated.Email)
	assert.Equal(t, "Gina R", updated.Name)

	session, ok := f.tokens.Verify(token)
	require.True(t, ok)
	assert.Equal(t, "ginar@example.com", session.Email)
	assert.Equal(t, domain.RoleOrganizer, session.Role)
	assert.Equal(t, domain.AuthEventProfileUpdate, f.audit.events[len(f.audit.events)-1].Type)
}

func TestAuthService_UpdateProfile_EmailTaken(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "taken@example.com", domain.RoleUser)
	user := f.register(t, "hank@example.com", domain.RoleUser)

	_, _, err := f.svc.UpdateProfile(context.Background(), user.ID, ports.ProfileInput{Name: "Hank", Email: "taken@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, _, err = f.svc.UpdateProfile(context.Background(), user.ID, ports.ProfileInput{Name: "Hank", Email: "hank@example.com"})
	assert.NoError(t, err, "keeping one's own email is not a conflict")
}

func TestAuthService_UpdateProfile_UnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	_, _, err := f.svc.UpdateProfile(context.Background(), "missing", ports.ProfileInput{Name: "X", Email: "x@example.com"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAuthService_RecordLogout(t *testing.T) {
	f := newAuthFixture(t)
	f.svc.now = func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }

	f.svc.RecordLogout(domain.Session{UserID: "u9", Email: "ivy@example.com"}, "1.2.3.4", "ua")

	require.Len(t, f.audit.events, 1)
	ev := f.audit.events[0]
	assert.Equal(t, domain.AuthEventLogout, ev.Type)
	assert.Equal(t, "u9", ev.UserID)
	assert.Equal(t, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), ev.At)
}

func TestAuthService_NilCollaboratorsAreOptional(t *testing.T) {
	tokens, err := NewTokenService(TokenConfig{Secret: "s"})
	require.NoError(t, err)
	svc := NewAuthService(newStubUserRepo(), NewBcryptHasher(bcrypt.MinCost), tokens, nil, nil, zerolog.Nop())

	_, _, err = svc.Register(context.Background(), ports.RegisterInput{
		Name: "Jo", Email: "jo@example.com", Password: "correct-horse", Role: domain.RoleUser,
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), ports.LoginInput{Email: "jo@example.com", Password: "correct-horse"})
	assert.NoError(t, err)
}
