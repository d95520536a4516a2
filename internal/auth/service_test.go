package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgAuth "github.com/angelmondragon/autocenter-backend/pkg/auth"
	"github.com/angelmondragon/autocenter-backend/pkg/auth/session"
	"github.com/angelmondragon/autocenter-backend/pkg/config"
	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/angelmondragon/autocenter-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestServiceLoginCustomer(t *testing.T) {
	password := "oficina123"
	customer := &models.Customer{
		ID:           uuid.New(),
		Email:        "cliente@example.com",
		PasswordHash: mustHashPassword(t, password),
		Name:         "Cliente",
		IsActive:     true,
	}
	cfg := testJWTConfig()
	svc, sessions := buildTestService(&stubAccountRepo{customer: customer}, cfg)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: " Cliente@Example.com ", Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.ActorRoleCustomer {
		t.Fatalf("expected customer role claim, got %s", claims.Role)
	}
	if claims.ID != sessions.generated.AccessID {
		t.Fatalf("expected jti %s to match session %s", claims.ID, sessions.generated.AccessID)
	}
	if resp.Customer == nil || resp.Customer.LastLoginAt == nil {
		t.Fatal("expected last login to be recorded")
	}
	if resp.ExpiresIn != 1800 {
		t.Fatalf("expected 1800s expiry, got %d", resp.ExpiresIn)
	}
}

func TestServiceLoginFailures(t *testing.T) {
	password := "oficina123"
	hash := mustHashPassword(t, password)

	cases := []struct {
		name     string
		repo     *stubAccountRepo
		password string
		code     pkgerrors.Code
	}{
		{
			name:     "unknown email",
			repo:     &stubAccountRepo{},
			password: password,
			code:     pkgerrors.CodeUnauthorized,
		},
		{
			name:     "wrong password",
			repo:     &stubAccountRepo{customer: &models.Customer{ID: uuid.New(), PasswordHash: hash, IsActive: true}},
			password: "wrong-pass1",
			code:     pkgerrors.CodeUnauthorized,
		},
		{
			name:     "inactive account",
			repo:     &stubAccountRepo{customer: &models.Customer{ID: uuid.New(), PasswordHash: hash, IsActive: false}},
			password: password,
			code:     pkgerrors.CodeForbidden,
		},
		{
			name:     "lookup failure",
			repo:     &stubAccountRepo{err: errors.New("db down")},
			password: password,
			code:     pkgerrors.CodeInternal,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := buildTestService(tc.repo, testJWTConfig())
			_, err := svc.Login(context.Background(), LoginRequest{Email: "cliente@example.com", Password: tc.password})
			if !pkgerrors.IsCode(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestServiceAdminLoginUsesStoredRole(t *testing.T) {
	password := "painel2024"
	admin := &models.Admin{
		ID:           uuid.New(),
		Email:        "chefe@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         "superadmin",
		IsActive:     true,
	}
	cfg := testJWTConfig()
	svc, _ := buildTestService(&stubAccountRepo{admin: admin}, cfg)

	resp, err := svc.AdminLogin(context.Background(), LoginRequest{Email: admin.Email, Password: password})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.ActorRoleSuperadmin {
		t.Fatalf("expected superadmin claim, got %s", claims.Role)
	}
	if resp.Admin == nil || resp.Admin.Role != enums.ActorRoleSuperadmin {
		t.Fatalf("expected admin dto with role, got %+v", resp.Admin)
	}
}

func TestServiceRefresh(t *testing.T) {
	customerID := uuid.New()
	repo := &stubAccountRepo{customer: &models.Customer{ID: customerID, IsActive: true}}
	cfg := testJWTConfig()

	t.Run("rotates session", func(t *testing.T) {
		svc, sessions := buildTestService(repo, cfg)
		sessions.rotated = session.Session{AccessID: "next-id", ActorID: customerID, Role: enums.ActorRoleCustomer}

		pair, err := svc.Refresh(context.Background(), RefreshRequest{RefreshToken: "old.secret"})
		if err != nil {
			t.Fatalf("refresh: %v", err)
		}
		claims, err := pkgAuth.ParseAccessToken(cfg, pair.AccessToken)
		if err != nil {
			t.Fatalf("parse access token: %v", err)
		}
		if claims.ID != "next-id" {
			t.Fatalf("expected rotated jti, got %s", claims.ID)
		}
		if pair.RefreshToken != "rotated-token" {
			t.Fatalf("expected rotated refresh token, got %s", pair.RefreshToken)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		svc, sessions := buildTestService(repo, cfg)
		sessions.rotateErr = session.ErrInvalidRefreshToken
		_, err := svc.Refresh(context.Background(), RefreshRequest{RefreshToken: "bad"})
		if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})

	t.Run("inactive account revoked", func(t *testing.T) {
		inactive := &stubAccountRepo{customer: &models.Customer{ID: customerID, IsActive: false}}
		svc, sessions := buildTestService(inactive, cfg)
		sessions.rotated = session.Session{AccessID: "next-id", ActorID: customerID, Role: enums.ActorRoleCustomer}
		_, err := svc.Refresh(context.Background(), RefreshRequest{RefreshToken: "old.secret"})
		if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
			t.Fatalf("expected forbidden, got %v", err)
		}
		if sessions.revoked != "next-id" {
			t.Fatalf("expected rotated session to be revoked, got %q", sessions.revoked)
		}
	})
}

func TestServiceLogout(t *testing.T) {
	svc, sessions := buildTestService(&stubAccountRepo{}, testJWTConfig())
	if err := svc.Logout(context.Background(), "access-id"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sessions.revoked != "access-id" {
		t.Fatalf("expected session revoked, got %q", sessions.revoked)
	}
	if err := svc.Logout(context.Background(), " "); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for blank session, got %v", err)
	}
}

func buildTestService(repo *stubAccountRepo, jwtCfg config.JWTConfig) (Service, *stubSessionManager) {
	sessionMgr := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(ServiceParams{
		AccountRepo:    repo,
		SessionManager: sessionMgr,
		JWTConfig:      jwtCfg,
	})
	if err != nil {
		panic(err)
	}
	return svc, sessionMgr
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "autocenter", ExpirationMinutes: 30, RefreshTokenTTLMinutes: 600}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func strPtr(value string) *string {
	return &value
}

type stubAccountRepo struct {
	customer *models.Customer
	admin    *models.Admin
	err      error
}

func (s *stubAccountRepo) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.customer == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.customer, nil
}

func (s *stubAccountRepo) FindCustomerByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return s.FindCustomerByEmail(ctx, "")
}

func (s *stubAccountRepo) UpdateCustomerLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

func (s *stubAccountRepo) FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.admin == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.admin, nil
}

func (s *stubAccountRepo) FindAdminByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	return s.FindAdminByEmail(ctx, "")
}

func (s *stubAccountRepo) UpdateAdminLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

type stubSessionManager struct {
	refreshToken string
	generated    session.Session
	rotated      session.Session
	rotateErr    error
	revoked      string
}

func (s *stubSessionManager) Generate(ctx context.Context, sess session.Session) (string, error) {
	s.generated = sess
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, refreshToken string) (session.Session, string, error) {
	if s.rotateErr != nil {
		return session.Session{}, "", s.rotateErr
	}
	return s.rotated, "rotated-token", nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = accessID
	return nil
}
