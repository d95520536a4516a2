package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/autocenter-backend/internal/customers"
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

const (
	invalidCredentialsMessage = "invalid credentials"
	inactiveAccountMessage    = "account is inactive"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	AdminLogin(ctx context.Context, req LoginRequest) (*AdminLoginResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*TokenPair, error)
	Logout(ctx context.Context, accessID string) error
}

type accountRepository interface {
	FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	FindCustomerByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	UpdateCustomerLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	FindAdminByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	UpdateAdminLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Generate(ctx context.Context, sess session.Session) (string, error)
	Rotate(ctx context.Context, refreshToken string) (session.Session, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	accounts accountRepository
	session  sessionManager
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	AccountRepo    accountRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.AccountRepo == nil {
		return nil, fmt.Errorf("account repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		accounts: params.AccountRepo,
		session:  params.SessionManager,
		jwtCfg:   params.JWTConfig,
		now:      time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	customer, err := s.accounts.FindCustomerByEmail(ctx, email)
	if err != nil {
		return nil, lookupError(err, "lookup customer")
	}
	if err := checkCredentials(req.Password, customer.PasswordHash, customer.IsActive); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.accounts.UpdateCustomerLastLogin(ctx, customer.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	customer.LastLoginAt = &now

	pair, err := s.issue(ctx, now, customer.ID, enums.ActorRoleCustomer)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{TokenPair: *pair, Customer: customers.FromCustomer(customer)}, nil
}

func (s *service) AdminLogin(ctx context.Context, req LoginRequest) (*AdminLoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	admin, err := s.accounts.FindAdminByEmail(ctx, email)
	if err != nil {
		return nil, lookupError(err, "lookup admin")
	}
	if err := checkCredentials(req.Password, admin.PasswordHash, admin.IsActive); err != nil {
		return nil, err
	}
	role, err := enums.ParseActorRole(admin.Role)
	if err != nil || !role.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role is not recognized")
	}

	now := s.now().UTC()
	if err := s.accounts.UpdateAdminLastLogin(ctx, admin.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	admin.LastLoginAt = &now

	pair, err := s.issue(ctx, now, admin.ID, role)
	if err != nil {
		return nil, err
	}
	return &AdminLoginResponse{TokenPair: *pair, Admin: customers.FromAdmin(admin)}, nil
}

func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*TokenPair, error) {
	next, refreshToken, err := s.session.Rotate(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	active, err := s.accountActive(ctx, next.ActorID, next.Role)
	if err != nil {
		return nil, err
	}
	if !active {
		_ = s.session.Revoke(ctx, next.AccessID)
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, inactiveAccountMessage)
	}

	now := s.now().UTC()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		ActorID: next.ActorID,
		Role:    next.Role,
		JTI:     next.AccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtCfg.AccessTokenTTL().Seconds()),
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) issue(ctx context.Context, now time.Time, actorID uuid.UUID, role enums.ActorRole) (*TokenPair, error) {
	return issueTokens(ctx, s.session, s.jwtCfg, now, actorID, role)
}

func issueTokens(ctx context.Context, sessions sessionManager, cfg config.JWTConfig, now time.Time, actorID uuid.UUID, role enums.ActorRole) (*TokenPair, error) {
	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(cfg, now, pkgAuth.AccessTokenPayload{
		ActorID: actorID,
		Role:    role,
		JTI:     accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := sessions.Generate(ctx, session.Session{AccessID: accessID, ActorID: actorID, Role: role})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(cfg.AccessTokenTTL().Seconds()),
	}, nil
}

func (s *service) accountActive(ctx context.Context, actorID uuid.UUID, role enums.ActorRole) (bool, error) {
	if role.IsAdmin() {
		admin, err := s.accounts.FindAdminByID(ctx, actorID)
		if err != nil {
			return false, lookupError(err, "lookup admin")
		}
		return admin.IsActive, nil
	}
	customer, err := s.accounts.FindCustomerByID(ctx, actorID)
	if err != nil {
		return false, lookupError(err, "lookup customer")
	}
	return customer.IsActive, nil
}

// checkCredentials verifies the password first so an inactive account is
// only revealed to a caller who knows it.
func checkCredentials(password, hash string, active bool) error {
	valid, err := security.VerifyPassword(password, hash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if !active {
		return pkgerrors.New(pkgerrors.CodeForbidden, inactiveAccountMessage)
	}
	return nil
}

func lookupError(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
