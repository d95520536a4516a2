package loyalty

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/config"
	"github.com/angelmondragon/autocenter-backend/pkg/db"
	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/angelmondragon/autocenter-backend/pkg/outbox"
	"github.com/angelmondragon/autocenter-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/autocenter-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service runs the points program.
type Service interface {
	GetSettings(ctx context.Context) (*SettingsDTO, error)
	UpdateSettings(ctx context.Context, input UpdateSettingsInput) (*SettingsDTO, error)
	GetAccount(ctx context.Context, customerID uuid.UUID) (*AccountDTO, error)
	ListTransactions(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*pagination.Page[TransactionDTO], error)
	OpenAccount(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) error
	EarnForOrder(ctx context.Context, tx *gorm.DB, input EarnInput) (int64, error)
	RedeemReward(ctx context.Context, customerID, rewardID uuid.UUID) (*TransactionDTO, error)
	Adjust(ctx context.Context, customerID uuid.UUID, input AdjustInput) (*TransactionDTO, error)
	ListRewards(ctx context.Context, includeInactive bool) ([]RewardDTO, error)
	CreateReward(ctx context.Context, input CreateRewardInput) (*RewardDTO, error)
	UpdateReward(ctx context.Context, id uuid.UUID, input UpdateRewardInput) (*RewardDTO, error)
	DeleteReward(ctx context.Context, id uuid.UUID) error
}

type store interface {
	GetSettings(ctx context.Context) (*models.LoyaltySettings, error)
	UpsertSettings(ctx context.Context, settings *models.LoyaltySettings) error
	CreateAccount(ctx context.Context, customerID uuid.UUID) error
	FindAccount(ctx context.Context, customerID uuid.UUID) (*models.LoyaltyAccount, error)
	LockAccount(ctx context.Context, customerID uuid.UUID) (*models.LoyaltyAccount, error)
	Accrue(ctx context.Context, customerID uuid.UUID, points int64, level enums.LoyaltyLevel) error
	Debit(ctx context.Context, customerID uuid.UUID, points int64) (bool, error)
	Credit(ctx context.Context, customerID uuid.UUID, points int64) (bool, error)
	CreateTransaction(ctx context.Context, entry *models.LoyaltyTransaction) error
	HasEarnForOrder(ctx context.Context, orderID uuid.UUID) (bool, error)
	ListTransactions(ctx context.Context, customerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.LoyaltyTransaction, error)
	ListRewards(ctx context.Context, activeOnly bool) ([]models.LoyaltyReward, error)
	FindReward(ctx context.Context, id uuid.UUID) (*models.LoyaltyReward, error)
	CreateReward(ctx context.Context, reward *models.LoyaltyReward) error
	UpdateReward(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.LoyaltyReward, error)
	DeleteReward(ctx context.Context, id uuid.UUID) error
	TakeRewardStock(ctx context.Context, id uuid.UUID) (bool, error)
}

// ServiceParams wires the loyalty service.
type ServiceParams struct {
	DB     db.TxRunner
	Repo   *Repository
	Outbox outbox.Emitter
	Config config.LoyaltyConfig
}

type service struct {
	tx       db.TxRunner
	repo     store
	txRepo   func(tx *gorm.DB) store
	outbox   outbox.Emitter
	defaults models.LoyaltySettings
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("loyalty repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	defaults, err := DefaultSettings(params.Config)
	if err != nil {
		return nil, err
	}
	repo := params.Repo
	return &service{
		tx:       params.DB,
		repo:     repo,
		txRepo:   func(tx *gorm.DB) store { return repo.WithTx(tx) },
		outbox:   params.Outbox,
		defaults: defaults,
		now:      time.Now,
	}, nil
}

// write runs an admin mutation in a transaction so the audit trigger sees
// the acting admin.
func (s *service) write(ctx context.Context, fn func(repo store) error) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(s.txRepo(tx))
	})
}

func (s *service) settings(ctx context.Context, repo store) (models.LoyaltySettings, error) {
	stored, err := repo.GetSettings(ctx)
	if err != nil {
		if db.IsNotFound(err) {
			return s.defaults, nil
		}
		return models.LoyaltySettings{}, db.MapError(err, "loyalty settings")
	}
	return *stored, nil
}

func (s *service) GetSettings(ctx context.Context) (*SettingsDTO, error) {
	settings, err := s.settings(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	return newSettingsDTO(settings), nil
}

func (s *service) UpdateSettings(ctx context.Context, input UpdateSettingsInput) (*SettingsDTO, error) {
	for name, v := range map[string]interface{ IsNegative() bool }{
		"points_per_real":   input.PointsPerReal,
		"bronze_multiplier": input.BronzeMultiplier,
		"silver_multiplier": input.SilverMultiplier,
		"gold_multiplier":   input.GoldMultiplier,
	} {
		if v.IsNegative() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "%s cannot be negative", name)
		}
	}
	if input.SilverThreshold < 0 || input.GoldThreshold < input.SilverThreshold {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "thresholds must satisfy 0 <= silver_threshold <= gold_threshold")
	}
	settings := &models.LoyaltySettings{
		Enabled:          input.Enabled,
		PointsPerReal:    input.PointsPerReal,
		BronzeMultiplier: input.BronzeMultiplier,
		SilverMultiplier: input.SilverMultiplier,
		GoldMultiplier:   input.GoldMultiplier,
		SilverThreshold:  input.SilverThreshold,
		GoldThreshold:    input.GoldThreshold,
	}
	err := s.write(ctx, func(repo store) error {
		return repo.UpsertSettings(ctx, settings)
	})
	if err != nil {
		return nil, db.MapError(err, "loyalty settings")
	}
	return newSettingsDTO(*settings), nil
}

func (s *service) GetAccount(ctx context.Context, customerID uuid.UUID) (*AccountDTO, error) {
	settings, err := s.settings(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	account, err := s.repo.FindAccount(ctx, customerID)
	if err != nil {
		if !db.IsNotFound(err) {
			return nil, db.MapError(err, "loyalty account")
		}
		account = &models.LoyaltyAccount{CustomerID: customerID, Level: enums.LoyaltyLevelBronze}
	}
	next, missing := nextLevel(settings, account.LifetimePoints)
	return &AccountDTO{
		CustomerID:        account.CustomerID,
		Balance:           account.Balance,
		LifetimePoints:    account.LifetimePoints,
		Level:             account.Level,
		Multiplier:        Multiplier(settings, account.Level),
		NextLevel:         next,
		PointsToNextLevel: missing,
		ProgramEnabled:    settings.Enabled,
	}, nil
}

func (s *service) ListTransactions(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*pagination.Page[TransactionDTO], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.ListTransactions(ctx, customerID, cursor, params.Limit)
	if err != nil {
		return nil, db.MapError(err, "loyalty transactions")
	}
	page := pagination.Build(rows, params.Limit, func(t models.LoyaltyTransaction) pagination.Cursor {
		return pagination.Cursor{CreatedAt: t.CreatedAt, ID: t.ID}
	})
	items := make([]TransactionDTO, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *newTransactionDTO(&page.Items[i]))
	}
	return &pagination.Page[TransactionDTO]{Items: items, NextCursor: page.NextCursor}, nil
}

func (s *service) OpenAccount(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) error {
	if err := s.txRepo(tx).CreateAccount(ctx, customerID); err != nil {
		return db.MapError(err, "loyalty account")
	}
	return nil
}

// EarnForOrder credits points for a delivered order inside tx. Zero earns and
// repeated calls for the same order write nothing.
func (s *service) EarnForOrder(ctx context.Context, tx *gorm.DB, input EarnInput) (int64, error) {
	repo := s.txRepo(tx)
	settings, err := s.settings(ctx, repo)
	if err != nil {
		return 0, err
	}
	if !settings.Enabled {
		return 0, nil
	}
	already, err := repo.HasEarnForOrder(ctx, input.OrderID)
	if err != nil {
		return 0, db.MapError(err, "loyalty transactions")
	}
	if already {
		return 0, nil
	}
	account, err := s.lockOrOpen(ctx, repo, input.CustomerID)
	if err != nil {
		return 0, err
	}
	points := PointsFor(settings, input.Amount, account.Level)
	if points <= 0 {
		return 0, nil
	}
	lifetime := account.LifetimePoints + points
	level := LevelFor(settings, lifetime)
	if err := repo.Accrue(ctx, input.CustomerID, points, level); err != nil {
		return 0, db.MapError(err, "loyalty account")
	}
	orderID := input.OrderID
	entry := &models.LoyaltyTransaction{
		CustomerID:   input.CustomerID,
		Type:         enums.LoyaltyTransactionEarn,
		Points:       points,
		BalanceAfter: account.Balance + points,
		OrderID:      &orderID,
	}
	if err := repo.CreateTransaction(ctx, entry); err != nil {
		return 0, db.MapError(err, "loyalty transaction")
	}
	if err := s.emit(ctx, tx, enums.EventLoyaltyPointsEarned, entry, level); err != nil {
		return 0, err
	}
	return points, nil
}

func (s *service) RedeemReward(ctx context.Context, customerID, rewardID uuid.UUID) (*TransactionDTO, error) {
	var out *TransactionDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepo(tx)
		reward, err := repo.FindReward(ctx, rewardID)
		if err != nil {
			return db.MapError(err, "reward")
		}
		if !reward.IsActive {
			return pkgerrors.New(pkgerrors.CodeNotFound, "reward not found")
		}
		ok, err := repo.Debit(ctx, customerID, reward.PointsCost)
		if err != nil {
			return db.MapError(err, "loyalty account")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "insufficient points").
				WithDetails(map[string]any{"required": reward.PointsCost})
		}
		if reward.Stock != nil {
			ok, err := repo.TakeRewardStock(ctx, reward.ID)
			if err != nil {
				return db.MapError(err, "reward")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeConflict, "reward out of stock")
			}
		}
		account, err := repo.FindAccount(ctx, customerID)
		if err != nil {
			return db.MapError(err, "loyalty account")
		}
		id := reward.ID
		description := "Resgate: " + reward.Name
		entry := &models.LoyaltyTransaction{
			CustomerID:   customerID,
			Type:         enums.LoyaltyTransactionRedeem,
			Points:       -reward.PointsCost,
			BalanceAfter: account.Balance,
			RewardID:     &id,
			Description:  &description,
		}
		if err := repo.CreateTransaction(ctx, entry); err != nil {
			return db.MapError(err, "loyalty transaction")
		}
		if err := s.emit(ctx, tx, enums.EventLoyaltyPointsRedeemed, entry, account.Level); err != nil {
			return err
		}
		out = newTransactionDTO(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Adjust(ctx context.Context, customerID uuid.UUID, input AdjustInput) (*TransactionDTO, error) {
	if input.Points == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "points must not be zero")
	}
	var out *TransactionDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepo(tx)
		if _, err := s.lockOrOpen(ctx, repo, customerID); err != nil {
			return err
		}
		var (
			ok  bool
			err error
		)
		if input.Points < 0 {
			ok, err = repo.Debit(ctx, customerID, -input.Points)
		} else {
			ok, err = repo.Credit(ctx, customerID, input.Points)
		}
		if err != nil {
			return db.MapError(err, "loyalty account")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "insufficient points")
		}
		account, err := repo.FindAccount(ctx, customerID)
		if err != nil {
			return db.MapError(err, "loyalty account")
		}
		entry := &models.LoyaltyTransaction{
			CustomerID:   customerID,
			Type:         enums.LoyaltyTransactionAdjust,
			Points:       input.Points,
			BalanceAfter: account.Balance,
			Description:  trimOptional(input.Description),
		}
		if err := repo.CreateTransaction(ctx, entry); err != nil {
			return db.MapError(err, "loyalty transaction")
		}
		out = newTransactionDTO(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) ListRewards(ctx context.Context, includeInactive bool) ([]RewardDTO, error) {
	rows, err := s.repo.ListRewards(ctx, !includeInactive)
	if err != nil {
		return nil, db.MapError(err, "rewards")
	}
	out := make([]RewardDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *newRewardDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateReward(ctx context.Context, input CreateRewardInput) (*RewardDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.PointsCost <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "points_cost must be positive")
	}
	if input.Stock != nil && *input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	reward := &models.LoyaltyReward{
		Name:        name,
		Description: trimOptional(input.Description),
		PointsCost:  input.PointsCost,
		Stock:       input.Stock,
		ImageURL:    trimOptional(input.ImageURL),
		IsActive:    active,
	}
	err := s.write(ctx, func(repo store) error {
		return repo.CreateReward(ctx, reward)
	})
	if err != nil {
		return nil, db.MapError(err, "reward")
	}
	return newRewardDTO(reward), nil
}

func (s *service) UpdateReward(ctx context.Context, id uuid.UUID, input UpdateRewardInput) (*RewardDTO, error) {
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = trimOptional(input.Description)
	}
	if input.PointsCost != nil {
		if *input.PointsCost <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "points_cost must be positive")
		}
		updates["points_cost"] = *input.PointsCost
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		updates["stock"] = *input.Stock
	}
	if input.ImageURL != nil {
		updates["image_url"] = trimOptional(input.ImageURL)
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	var reward *models.LoyaltyReward
	err := s.write(ctx, func(repo store) error {
		var err error
		reward, err = repo.UpdateReward(ctx, id, updates)
		return err
	})
	if err != nil {
		return nil, db.MapError(err, "reward")
	}
	return newRewardDTO(reward), nil
}

func (s *service) DeleteReward(ctx context.Context, id uuid.UUID) error {
	err := s.write(ctx, func(repo store) error {
		return repo.DeleteReward(ctx, id)
	})
	if err != nil {
		return db.MapError(err, "reward")
	}
	return nil
}

// lockOrOpen locks the customer's account, creating it first when missing.
func (s *service) lockOrOpen(ctx context.Context, repo store, customerID uuid.UUID) (*models.LoyaltyAccount, error) {
	account, err := repo.LockAccount(ctx, customerID)
	if err == nil {
		return account, nil
	}
	if !db.IsNotFound(err) {
		return nil, db.MapError(err, "loyalty account")
	}
	if err := repo.CreateAccount(ctx, customerID); err != nil {
		return nil, db.MapError(err, "loyalty account")
	}
	account, err = repo.LockAccount(ctx, customerID)
	if err != nil {
		return nil, db.MapError(err, "loyalty account")
	}
	return account, nil
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, eventType enums.OutboxEventType, entry *models.LoyaltyTransaction, level enums.LoyaltyLevel) error {
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateLoyaltyAccount,
		AggregateID:   entry.CustomerID,
		Data: payloads.LoyaltyPointsEvent{
			CustomerID:    entry.CustomerID,
			TransactionID: entry.ID,
			Points:        entry.Points,
			BalanceAfter:  entry.BalanceAfter,
			Level:         level,
			OrderID:       entry.OrderID,
			RewardID:      entry.RewardID,
		},
		OccurredAt: s.now().UTC(),
	})
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
