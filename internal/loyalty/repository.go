package loyalty

import (
	"context"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/angelmondragon/autocenter-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists loyalty settings, accounts, ledger rows and rewards.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) GetSettings(ctx context.Context) (*models.LoyaltySettings, error) {
	var settings models.LoyaltySettings
	if err := r.db.WithContext(ctx).First(&settings, "id = ?", settingsID).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *Repository) UpsertSettings(ctx context.Context, settings *models.LoyaltySettings) error {
	settings.ID = settingsID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(settings).Error
}

// CreateAccount inserts a bronze account; an existing account is left untouched.
func (r *Repository) CreateAccount(ctx context.Context, customerID uuid.UUID) error {
	account := models.LoyaltyAccount{CustomerID: customerID, Level: enums.LoyaltyLevelBronze}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&account).Error
}

func (r *Repository) FindAccount(ctx context.Context, customerID uuid.UUID) (*models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	if err := r.db.WithContext(ctx).First(&account, "customer_id = ?", customerID).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// LockAccount reads the account with a row lock for the rest of the transaction.
func (r *Repository) LockAccount(ctx context.Context, customerID uuid.UUID) (*models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&account, "customer_id = ?", customerID).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Accrue credits earned points to both balance and lifetime and stores the new level.
func (r *Repository) Accrue(ctx context.Context, customerID uuid.UUID, points int64, level enums.LoyaltyLevel) error {
	return r.db.WithContext(ctx).Model(&models.LoyaltyAccount{}).
		Where("customer_id = ?", customerID).
		Updates(map[string]any{
			"balance":         gorm.Expr("balance + ?", points),
			"lifetime_points": gorm.Expr("lifetime_points + ?", points),
			"level":           level,
		}).Error
}

// Debit subtracts points only when the balance covers them and reports
// whether a row was updated.
func (r *Repository) Debit(ctx context.Context, customerID uuid.UUID, points int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.LoyaltyAccount{}).
		Where("customer_id = ? AND balance >= ?", customerID, points).
		UpdateColumns(map[string]any{
			"balance":    gorm.Expr("balance - ?", points),
			"updated_at": gorm.Expr("now()"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Credit adds points to the balance without touching lifetime points.
func (r *Repository) Credit(ctx context.Context, customerID uuid.UUID, points int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.LoyaltyAccount{}).
		Where("customer_id = ?", customerID).
		UpdateColumns(map[string]any{
			"balance":    gorm.Expr("balance + ?", points),
			"updated_at": gorm.Expr("now()"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) CreateTransaction(ctx context.Context, entry *models.LoyaltyTransaction) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// HasEarnForOrder reports whether points were already earned for orderID.
func (r *Repository) HasEarnForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LoyaltyTransaction{}).
		Where("order_id = ? AND type = ?", orderID, enums.LoyaltyTransactionEarn).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) ListTransactions(ctx context.Context, customerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.LoyaltyTransaction, error) {
	var rows []models.LoyaltyTransaction
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Scopes(pagination.Scope(cursor, limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) ListRewards(ctx context.Context, activeOnly bool) ([]models.LoyaltyReward, error) {
	q := r.db.WithContext(ctx).Model(&models.LoyaltyReward{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var rows []models.LoyaltyReward
	if err := q.Order("points_cost ASC").Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindReward(ctx context.Context, id uuid.UUID) (*models.LoyaltyReward, error) {
	var reward models.LoyaltyReward
	if err := r.db.WithContext(ctx).First(&reward, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *Repository) CreateReward(ctx context.Context, reward *models.LoyaltyReward) error {
	return r.db.WithContext(ctx).Create(reward).Error
}

func (r *Repository) UpdateReward(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.LoyaltyReward, error) {
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&models.LoyaltyReward{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindReward(ctx, id)
}

func (r *Repository) DeleteReward(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.LoyaltyReward{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TakeRewardStock decrements tracked stock while any remains. Untracked stock
// (NULL) always succeeds.
func (r *Repository) TakeRewardStock(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.LoyaltyReward{}).
		Where("id = ? AND stock IS NOT NULL AND stock > 0", id).
		UpdateColumn("stock", gorm.Expr("stock - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
