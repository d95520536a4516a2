package loyalty

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/angelmondragon/autocenter-backend/pkg/outbox"
	"github.com/angelmondragon/autocenter-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// scopedTxRunner reports whether a call happens inside WithTx.
type scopedTxRunner struct {
	active bool
}

func (r *scopedTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	r.active = true
	defer func() { r.active = false }()
	return fn(nil)
}

type recordingEmitter struct {
	events []outbox.DomainEvent
}

func (r *recordingEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *recordingEmitter) EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	return r.Emit(ctx, tx, event)
}

type fakeStore struct {
	settings     *models.LoyaltySettings
	accounts     map[uuid.UUID]*models.LoyaltyAccount
	transactions []models.LoyaltyTransaction
	rewards      map[uuid.UUID]*models.LoyaltyReward
	runner       *scopedTxRunner
	untxSettings int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts: map[uuid.UUID]*models.LoyaltyAccount{},
		rewards:  map[uuid.UUID]*models.LoyaltyReward{},
	}
}

func (f *fakeStore) GetSettings(ctx context.Context) (*models.LoyaltySettings, error) {
	if f.settings == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.settings, nil
}

func (f *fakeStore) UpsertSettings(ctx context.Context, settings *models.LoyaltySettings) error {
	if f.runner == nil || !f.runner.active {
		f.untxSettings++
	}
	f.settings = settings
	return nil
}

func (f *fakeStore) CreateAccount(ctx context.Context, customerID uuid.UUID) error {
	if _, ok := f.accounts[customerID]; !ok {
		f.accounts[customerID] = &models.LoyaltyAccount{CustomerID: customerID, Level: enums.LoyaltyLevelBronze}
	}
	return nil
}

func (f *fakeStore) FindAccount(ctx context.Context, customerID uuid.UUID) (*models.LoyaltyAccount, error) {
	account, ok := f.accounts[customerID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *account
	return &clone, nil
}

func (f *fakeStore) LockAccount(ctx context.Context, customerID uuid.UUID) (*models.LoyaltyAccount, error) {
	return f.FindAccount(ctx, customerID)
}

func (f *fakeStore) Accrue(ctx context.Context, customerID uuid.UUID, points int64, level enums.LoyaltyLevel) error {
	account := f.accounts[customerID]
	account.Balance += points
	account.LifetimePoints += points
	account.Level = level
	return nil
}

func (f *fakeStore) Debit(ctx context.Context, customerID uuid.UUID, points int64) (bool, error) {
	account, ok := f.accounts[customerID]
	if !ok || account.Balance < points {
		return false, nil
	}
	account.Balance -= points
	return true, nil
}

func (f *fakeStore) Credit(ctx context.Context, customerID uuid.UUID, points int64) (bool, error) {
	account, ok := f.accounts[customerID]
	if !ok {
		return false, nil
	}
	account.Balance += points
	return true, nil
}

func (f *fakeStore) CreateTransaction(ctx context.Context, entry *models.LoyaltyTransaction) error {
	entry.ID = uuid.New()
	f.transactions = append(f.transactions, *entry)
	return nil
}

func (f *fakeStore) HasEarnForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	for _, tx := range f.transactions {
		if tx.Type == enums.LoyaltyTransactionEarn && tx.OrderID != nil && *tx.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListTransactions(ctx context.Context, customerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.LoyaltyTransaction, error) {
	return f.transactions, nil
}

func (f *fakeStore) ListRewards(ctx context.Context, activeOnly bool) ([]models.LoyaltyReward, error) {
	return nil, nil
}

func (f *fakeStore) FindReward(ctx context.Context, id uuid.UUID) (*models.LoyaltyReward, error) {
	reward, ok := f.rewards[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return reward, nil
}

func (f *fakeStore) CreateReward(ctx context.Context, reward *models.LoyaltyReward) error {
	reward.ID = uuid.New()
	f.rewards[reward.ID] = reward
	return nil
}

func (f *fakeStore) UpdateReward(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.LoyaltyReward, error) {
	return f.FindReward(ctx, id)
}

func (f *fakeStore) DeleteReward(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeStore) TakeRewardStock(ctx context.Context, id uuid.UUID) (bool, error) {
	reward := f.rewards[id]
	if reward.Stock == nil || *reward.Stock <= 0 {
		return false, nil
	}
	*reward.Stock--
	return true, nil
}

func newTestService(t *testing.T, repo *fakeStore, emitter *recordingEmitter) *service {
	t.Helper()
	return &service{
		tx:       stubTxRunner{},
		repo:     repo,
		txRepo:   func(tx *gorm.DB) store { return repo },
		outbox:   emitter,
		defaults: testSettings(t),
		now:      func() time.Time { return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func TestEarnForOrderCreditsOnce(t *testing.T) {
	repo := newFakeStore()
	emitter := &recordingEmitter{}
	svc := newTestService(t, repo, emitter)
	customerID, orderID := uuid.New(), uuid.New()
	repo.accounts[customerID] = &models.LoyaltyAccount{CustomerID: customerID, Level: enums.LoyaltyLevelBronze, LifetimePoints: 900, Balance: 100}

	points, err := svc.EarnForOrder(context.Background(), nil, EarnInput{CustomerID: customerID, OrderID: orderID, Amount: decimal.RequireFromString("150.75")})
	if err != nil {
		t.Fatalf("earn: %v", err)
	}
	if points != 150 {
		t.Fatalf("expected 150 points, got %d", points)
	}
	account := repo.accounts[customerID]
	if account.Balance != 250 || account.LifetimePoints != 1050 || account.Level != enums.LoyaltyLevelSilver {
		t.Fatalf("unexpected account %+v", account)
	}
	if len(emitter.events) != 1 || emitter.events[0].EventType != enums.EventLoyaltyPointsEarned {
		t.Fatalf("expected earned event, got %+v", emitter.events)
	}

	again, err := svc.EarnForOrder(context.Background(), nil, EarnInput{CustomerID: customerID, OrderID: orderID, Amount: decimal.RequireFromString("150.75")})
	if err != nil || again != 0 || len(repo.transactions) != 1 {
		t.Fatalf("expected second earn to be a no-op, got %d err=%v txs=%d", again, err, len(repo.transactions))
	}
}

func TestEarnForOrderZeroWritesNothing(t *testing.T) {
	repo := newFakeStore()
	emitter := &recordingEmitter{}
	svc := newTestService(t, repo, emitter)

	points, err := svc.EarnForOrder(context.Background(), nil, EarnInput{CustomerID: uuid.New(), OrderID: uuid.New(), Amount: decimal.RequireFromString("0.99")})
	if err != nil || points != 0 {
		t.Fatalf("expected zero earn, got %d err=%v", points, err)
	}
	if len(repo.transactions) != 0 || len(emitter.events) != 0 {
		t.Fatal("zero earn should not write ledger rows or events")
	}
}

func TestRedeemRewardInsufficientPoints(t *testing.T) {
	repo := newFakeStore()
	svc := newTestService(t, repo, &recordingEmitter{})
	customerID := uuid.New()
	repo.accounts[customerID] = &models.LoyaltyAccount{CustomerID: customerID, Balance: 50, Level: enums.LoyaltyLevelBronze}
	reward := &models.LoyaltyReward{ID: uuid.New(), Name: "Lavagem", PointsCost: 80, IsActive: true}
	repo.rewards[reward.ID] = reward

	_, err := svc.RedeemReward(context.Background(), customerID, reward.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if repo.accounts[customerID].Balance != 50 {
		t.Fatal("balance must be unchanged")
	}
}

func TestRedeemRewardDecrementsStock(t *testing.T) {
	repo := newFakeStore()
	emitter := &recordingEmitter{}
	svc := newTestService(t, repo, emitter)
	customerID := uuid.New()
	repo.accounts[customerID] = &models.LoyaltyAccount{CustomerID: customerID, Balance: 500, Level: enums.LoyaltyLevelGold}
	stock := 1
	reward := &models.LoyaltyReward{ID: uuid.New(), Name: "Brinde", PointsCost: 200, Stock: &stock, IsActive: true}
	repo.rewards[reward.ID] = reward

	entry, err := svc.RedeemReward(context.Background(), customerID, reward.ID)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if entry.Points != -200 || entry.BalanceAfter != 300 || *reward.Stock != 0 {
		t.Fatalf("unexpected redeem result %+v stock=%d", entry, *reward.Stock)
	}
	if len(emitter.events) != 1 || emitter.events[0].EventType != enums.EventLoyaltyPointsRedeemed {
		t.Fatalf("expected redeemed event, got %+v", emitter.events)
	}

	if _, err := svc.RedeemReward(context.Background(), customerID, reward.ID); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected out of stock conflict, got %v", err)
	}
}

func TestAdjustCannotGoNegative(t *testing.T) {
	repo := newFakeStore()
	svc := newTestService(t, repo, &recordingEmitter{})
	customerID := uuid.New()
	repo.accounts[customerID] = &models.LoyaltyAccount{CustomerID: customerID, Balance: 10, Level: enums.LoyaltyLevelBronze}

	if _, err := svc.Adjust(context.Background(), customerID, AdjustInput{Points: -20}); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	entry, err := svc.Adjust(context.Background(), customerID, AdjustInput{Points: 40})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if entry.BalanceAfter != 50 || repo.accounts[customerID].LifetimePoints != 0 {
		t.Fatalf("unexpected adjust result %+v", entry)
	}
}

func TestGetSettingsFallsBackToDefaults(t *testing.T) {
	repo := newFakeStore()
	svc := newTestService(t, repo, &recordingEmitter{})

	dto, err := svc.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if !dto.Enabled || dto.GoldThreshold != 5000 || dto.UpdatedAt != nil {
		t.Fatalf("expected config defaults, got %+v", dto)
	}

	_, err = svc.UpdateSettings(context.Background(), UpdateSettingsInput{
		Enabled:          true,
		PointsPerReal:    decimal.NewFromInt(2),
		BronzeMultiplier: decimal.NewFromInt(1),
		SilverMultiplier: decimal.NewFromInt(1),
		GoldMultiplier:   decimal.NewFromInt(1),
		SilverThreshold:  100,
		GoldThreshold:    50,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateSettingsRunsInsideTransaction(t *testing.T) {
	repo := newFakeStore()
	repo.runner = &scopedTxRunner{}
	svc := newTestService(t, repo, &recordingEmitter{})
	svc.tx = repo.runner

	dto, err := svc.UpdateSettings(context.Background(), UpdateSettingsInput{
		Enabled:          true,
		PointsPerReal:    decimal.NewFromInt(2),
		BronzeMultiplier: decimal.NewFromInt(1),
		SilverMultiplier: decimal.RequireFromString("1.25"),
		GoldMultiplier:   decimal.RequireFromString("1.5"),
		SilverThreshold:  1000,
		GoldThreshold:    5000,
	})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if !dto.PointsPerReal.Equal(decimal.NewFromInt(2)) || repo.settings == nil {
		t.Fatalf("expected settings stored, got %+v", dto)
	}
	if repo.untxSettings != 0 {
		t.Fatal("settings upsert ran outside WithTx")
	}
}
