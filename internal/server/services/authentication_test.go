package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"ledgerauth/internal/common"
	"ledgerauth/internal/dbx"
	"ledgerauth/internal/logging"
	"ledgerauth/internal/password"
	"ledgerauth/internal/server/auth"
	"ledgerauth/internal/server/config"
	"ledgerauth/internal/server/models"
	"ledgerauth/internal/server/repositories/refreshtokens"
	"ledgerauth/internal/server/repositories/users"
)

const testSecret = "test-secret"

type fakeUserRepo struct {
	mu    sync.Mutex
	byID  map[string]*models.User
	fail  bool
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errors.New("db down")
	}
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errors.New("db down")
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[user.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	clone := *user
	r.byID[user.ID] = &clone
	out := clone
	return &out, nil
}

type fakeTokenRepo struct {
	mu      sync.Mutex
	byToken map[string]*models.RefreshToken
}

func (r *fakeTokenRepo) Insert(ctx context.Context, token *models.RefreshToken) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *token
	r.byToken[token.Token] = &clone
	out := clone
	return &out, nil
}

func (r *fakeTokenRepo) FindActive(ctx context.Context, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byToken[token]
	if !ok || !rec.IsActive {
		return nil, common.ErrorNotFound
	}
	clone := *rec
	return &clone, nil
}

func (r *fakeTokenRepo) Redeem(ctx context.Context, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byToken[token]
	if !ok || !rec.IsActive {
		return "", common.ErrorNotFound
	}
	rec.IsActive = false
	return rec.UserID, nil
}

func (r *fakeTokenRepo) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, rec := range r.byToken {
		if rec.UserID == userID && rec.IsActive {
			rec.IsActive = false
			n++
		}
	}
	return n, nil
}

func (r *fakeTokenRepo) activeCount(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rec := range r.byToken {
		if rec.UserID == userID && rec.IsActive {
			n++
		}
	}
	return n
}

type fakeRepoManager struct {
	users  *fakeUserRepo
	tokens *fakeTokenRepo
}

func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.users }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.tokens }
func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }

// newTxPool returns a mocked pool that will satisfy up to n transactions in
// any order. The fake repositories ignore the handle, so only transaction
// boundaries need expectations.
func newTxPool(t *testing.T, n int) *sql.DB {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < n; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type testEnv struct {
	svc    *AuthenticationService
	users  *fakeUserRepo
	tokens *fakeTokenRepo
	user   *models.User
}

func newTestEnv(t *testing.T, txBudget int) *testEnv {
	t.Helper()

	hasher, err := password.NewBcrypt(4)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}
	hash, err := hasher.Hash("correct-horse")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	user := &models.User{
		ID:           "7a6f3c9e-8d21-4b5a-9c47-3f2e1d0a8b6c",
		Email:        "alice@example.com",
		Name:         "Alice",
		PasswordHash: hash,
		IsActive:     true,
		IsVerified:   true,
		CreatedOn:    time.Now(),
	}

	userRepo := &fakeUserRepo{byID: map[string]*models.User{user.ID: user}}
	tokenRepo := &fakeTokenRepo{byToken: map[string]*models.RefreshToken{}}

	cfg := &config.Config{
		TokenSecret:                  testSecret,
		AccessTokenValidityDuration:  time.Minute,
		RefreshTokenValidityDuration: time.Hour,
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc := NewAuthenticationService(newTxPool(t, txBudget),
		&fakeRepoManager{users: userRepo, tokens: tokenRepo}, hasher, logger, cfg)

	return &testEnv{svc: svc, users: userRepo, tokens: tokenRepo, user: user}
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()

	pair, err := env.svc.Login(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}

	claims, err := auth.Decode(pair.AccessToken, []byte(testSecret))
	if err != nil {
		t.Fatalf("Decode access token error: %v", err)
	}
	if claims.TokenType != auth.TokenTypeAccess {
		t.Errorf("access token jty = %q, want %q", claims.TokenType, auth.TokenTypeAccess)
	}
	if claims.Subject != env.user.ID {
		t.Errorf("access token sub = %q, want %q", claims.Subject, env.user.ID)
	}

	rec, err := env.tokens.FindActive(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("issued refresh token not stored active: %v", err)
	}
	if rec.UserID != env.user.ID {
		t.Errorf("stored refresh token user = %q, want %q", rec.UserID, env.user.ID)
	}
}

func TestLogin_UniformFailure(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"malformed email", "not-an-email", "correct-horse"},
		{"unknown email", "nobody@example.com", "correct-horse"},
		{"wrong password", "alice@example.com", "wrong-horse"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.Login(ctx, tc.email, tc.password)
			if !errors.Is(err, common.ErrorUnauthorized) {
				t.Fatalf("Login error = %v, want %v", err, common.ErrorUnauthorized)
			}
		})
	}
}

func TestLogin_StorageFailureIsInternal(t *testing.T) {
	env := newTestEnv(t, 0)
	env.users.fail = true

	_, err := env.svc.Login(context.Background(), "alice@example.com", "correct-horse")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("Login error = %v, want %v", err, common.ErrorInternal)
	}
}

func TestRefresh_RotatesChain(t *testing.T) {
	env := newTestEnv(t, 4)
	ctx := context.Background()

	first, err := env.svc.Login(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	second, err := env.svc.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("refresh must issue a new refresh token")
	}

	if _, err := env.tokens.FindActive(ctx, first.RefreshToken); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("redeemed token still active, FindActive err = %v", err)
	}
	if _, err := env.tokens.FindActive(ctx, second.RefreshToken); err != nil {
		t.Fatalf("rotated token not active: %v", err)
	}
	if n := env.tokens.activeCount(env.user.ID); n != 1 {
		t.Fatalf("active tokens after rotation = %d, want 1", n)
	}

	// Replaying the consumed token must fail.
	if _, err := env.svc.Refresh(ctx, first.RefreshToken); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("replayed Refresh error = %v, want %v", err, common.ErrorUnauthorized)
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()

	pair, err := env.svc.Login(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if _, err := env.svc.Refresh(ctx, pair.AccessToken); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("Refresh with access token error = %v, want %v", err, common.ErrorUnauthorized)
	}
}

func TestRefresh_RejectsTamperedToken(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()

	pair, err := env.svc.Login(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	tampered := pair.RefreshToken + "xx"
	if _, err := env.svc.Refresh(ctx, tampered); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("Refresh with tampered token error = %v, want %v", err, common.ErrorUnauthorized)
	}
}

func TestRefresh_UnknownTokenOfForeignIssuerShape(t *testing.T) {
	env := newTestEnv(t, 1)

	// Validly signed but never persisted.
	ghost, err := auth.NewRefreshToken([]byte(testSecret), env.user, time.Hour)
	if err != nil {
		t.Fatalf("NewRefreshToken error: %v", err)
	}

	if _, err := env.svc.Refresh(context.Background(), ghost.Token); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("Refresh error = %v, want %v", err, common.ErrorUnauthorized)
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t, 2)
	ctx := context.Background()

	a, err := env.svc.Login(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	b, err := env.svc.Login(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("second Login error: %v", err)
	}

	rows, err := env.svc.Logout(ctx, a.RefreshToken)
	if err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	if rows != 2 {
		t.Errorf("Logout rows = %d, want 2", rows)
	}

	// Both sessions are gone, including the one not presented.
	if _, err := env.svc.Refresh(ctx, b.RefreshToken); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("Refresh after logout error = %v, want %v", err, common.ErrorUnauthorized)
	}

	// Logging out again with the now-revoked token is refused.
	if _, err := env.svc.Logout(ctx, a.RefreshToken); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("second Logout error = %v, want %v", err, common.ErrorUnauthorized)
	}
}

func TestUpdatePassword_Success(t *testing.T) {
	env := newTestEnv(t, 3)
	ctx := context.Background()

	old, err := env.svc.Login(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	pair, err := env.svc.UpdatePassword(ctx, old.AccessToken, "correct-horse", "battery-staple")
	if err != nil {
		t.Fatalf("UpdatePassword error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected a fresh pair after password update")
	}

	// The pre-change refresh token is revoked.
	if _, err := env.svc.Refresh(ctx, old.RefreshToken); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("Refresh with pre-change token error = %v, want %v", err, common.ErrorUnauthorized)
	}

	// New credentials work, old ones do not.
	if _, err := env.svc.Login(ctx, "alice@example.com", "battery-staple"); err != nil {
		t.Fatalf("Login with new password error: %v", err)
	}
	if _, err := env.svc.Login(ctx, "alice@example.com", "correct-horse"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("Login with old password error = %v, want %v", err, common.ErrorUnauthorized)
	}
}

func TestUpdatePassword_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong old password", func(t *testing.T) {
		env := newTestEnv(t, 1)
		pair, _ := env.svc.Login(ctx, "alice@example.com", "correct-horse")
		_, err := env.svc.UpdatePassword(ctx, pair.AccessToken, "wrong-horse", "battery-staple")
		if !errors.Is(err, common.ErrorUnauthorized) {
			t.Fatalf("error = %v, want %v", err, common.ErrorUnauthorized)
		}
	})

	t.Run("new password too short", func(t *testing.T) {
		env := newTestEnv(t, 1)
		pair, _ := env.svc.Login(ctx, "alice@example.com", "correct-horse")
		_, err := env.svc.UpdatePassword(ctx, pair.AccessToken, "correct-horse", "short")
		if !errors.Is(err, common.ErrorValidation) {
			t.Fatalf("error = %v, want %v", err, common.ErrorValidation)
		}
	})

	// The shape error must not depend on the credentials, or its code would
	// confirm an old-password guess to whoever holds the access token.
	t.Run("short new password is uniform across credentials", func(t *testing.T) {
		env := newTestEnv(t, 1)
		pair, _ := env.svc.Login(ctx, "alice@example.com", "correct-horse")

		for name, attempt := range map[string][2]string{
			"right old password": {pair.AccessToken, "correct-horse"},
			"wrong old password": {pair.AccessToken, "wrong-horse"},
			"garbage token":      {"not-even-a-token", "correct-horse"},
		} {
			_, err := env.svc.UpdatePassword(ctx, attempt[0], attempt[1], "short")
			if !errors.Is(err, common.ErrorValidation) {
				t.Errorf("%s: error = %v, want %v", name, err, common.ErrorValidation)
			}
		}
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		env := newTestEnv(t, 1)
		pair, _ := env.svc.Login(ctx, "alice@example.com", "correct-horse")
		_, err := env.svc.UpdatePassword(ctx, pair.RefreshToken, "correct-horse", "battery-staple")
		if !errors.Is(err, common.ErrorUnauthorized) {
			t.Fatalf("error = %v, want %v", err, common.ErrorUnauthorized)
		}
	})

	t.Run("unverified account", func(t *testing.T) {
		env := newTestEnv(t, 1)
		pair, _ := env.svc.Login(ctx, "alice@example.com", "correct-horse")
		env.users.byID[env.user.ID].IsVerified = false
		_, err := env.svc.UpdatePassword(ctx, pair.AccessToken, "correct-horse", "battery-staple")
		if !errors.Is(err, common.ErrorUnauthorized) {
			t.Fatalf("error = %v, want %v", err, common.ErrorUnauthorized)
		}
	})

	t.Run("inactive account", func(t *testing.T) {
		env := newTestEnv(t, 1)
		pair, _ := env.svc.Login(ctx, "alice@example.com", "correct-horse")
		env.users.byID[env.user.ID].IsActive = false
		_, err := env.svc.UpdatePassword(ctx, pair.AccessToken, "correct-horse", "battery-staple")
		if !errors.Is(err, common.ErrorUnauthorized) {
			t.Fatalf("error = %v, want %v", err, common.ErrorUnauthorized)
		}
	})
}
