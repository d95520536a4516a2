package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/autocenter-backend/internal/customers"
	"github.com/angelmondragon/autocenter-backend/pkg/config"
	"github.com/angelmondragon/autocenter-backend/pkg/db"
	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/angelmondragon/autocenter-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegisterRequest contains the payload required to open a customer account.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=120"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

// RegisterService handles the sign-up transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error)
}

type customerWriter interface {
	FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error)
}

// loyaltyAccountOpener creates the bronze account every new customer starts with.
type loyaltyAccountOpener interface {
	OpenAccount(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) error
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             db.TxRunner
	Customers      *customers.Repository
	Loyalty        loyaltyAccountOpener
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          db.TxRunner
	customersTx func(tx *gorm.DB) customerWriter
	loyalty     loyaltyAccountOpener
	session     sessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.Customers == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	if params.Loyalty == nil {
		return nil, fmt.Errorf("loyalty service required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager required")
	}
	repo := params.Customers
	return &registerService{
		db:          params.DB,
		customersTx: func(tx *gorm.DB) customerWriter { return repo.WithTx(tx) },
		loyalty:     params.Loyalty,
		session:     params.SessionManager,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		now:         time.Now,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := security.CheckPolicy(req.Password); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *models.Customer
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.customersTx(tx)

		if _, err := repo.FindCustomerByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check customer email")
		}

		customer, err := repo.CreateCustomer(ctx, &models.Customer{
			Name:         name,
			Email:        email,
			PasswordHash: passwordHash,
			Phone:        trimmedOptional(req.Phone),
			IsActive:     true,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create customer")
		}

		if err := s.loyalty.OpenAccount(ctx, tx, customer.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open loyalty account")
		}
		created = customer
		return nil
	})
	if err != nil {
		return nil, err
	}

	pair, err := issueTokens(ctx, s.session, s.jwtCfg, s.now().UTC(), created.ID, enums.ActorRoleCustomer)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{TokenPair: *pair, Customer: customers.FromCustomer(created)}, nil
}

func trimmedOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
