package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/structfi/bondledger/internal/domain"
	"github.com/structfi/bondledger/internal/store/schema"
	"github.com/structfi/bondledger/internal/types"
)

type pgStore struct {
	db *gorm.DB
	// inTx marks transactional views; mutable reads then take row locks so
	// concurrent operations against the same series serialize at the database
	inTx bool
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// AutoMigrate creates or updates the database schema
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.BondClass{},
		&schema.BondNonce{},
		&schema.HolderBalance{},
		&schema.OperatorApproval{},
		&schema.DividendAccumulator{},
		&schema.HolderPosition{},
		&schema.DepositedAsset{},
		&schema.LedgerEvent{},
		&schema.LedgerSettings{},
		&schema.WebhookClient{},
		&schema.WebhookDelivery{},
		&schema.KeyValueStore{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero settings fall back to defaults.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// WithinTx runs fn against a transactional view of the store
func (s *pgStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&pgStore{db: tx, inTx: true})
	})
}

// locked applies a row lock on mutable reads inside a transaction
func (s *pgStore) locked(q *gorm.DB) *gorm.DB {
	if s.inTx {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// CreateBondClass persists a new class and fills in its sequential ID
func (s *pgStore) CreateBondClass(ctx context.Context, class *schema.BondClass) error {
	if err := s.db.WithContext(ctx).Create(class).Error; err != nil {
		return fmt.Errorf("failed to create bond class: %w", err)
	}
	return nil
}

// GetBondClass retrieves a class by id, nil when missing
func (s *pgStore) GetBondClass(ctx context.Context, classID uint64) (*schema.BondClass, error) {
	var class schema.BondClass
	err := s.db.WithContext(ctx).Where("id = ?", classID).First(&class).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bond class: %w", err)
	}
	return &class, nil
}

// ListClassIDsByAgent returns the ids of all classes backed by an agent
func (s *pgStore) ListClassIDsByAgent(ctx context.Context, agentID string) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).
		Model(&schema.BondClass{}).
		Where("agent_id = ?", agentID).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list agent class ids: %w", err)
	}
	return ids, nil
}

// ListClassesByAgentTranche returns an agent's classes in one tranche
func (s *pgStore) ListClassesByAgentTranche(ctx context.Context, agentID string, tranche domain.Tranche) ([]*schema.BondClass, error) {
	var classes []*schema.BondClass
	err := s.db.WithContext(ctx).
		Where("agent_id = ? AND tranche = ?", agentID, string(tranche)).
		Order("id ASC").
		Find(&classes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list classes by tranche: %w", err)
	}
	return classes, nil
}

// NextNonceID returns the next sequential batch number for a class
func (s *pgStore) NextNonceID(ctx context.Context, classID uint64) (uint64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.BondNonce{}).
		Where("class_id = ?", classID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count nonces: %w", err)
	}
	return uint64(count), nil
}

// CreateBondNonce persists a new batch
func (s *pgStore) CreateBondNonce(ctx context.Context, nonce *schema.BondNonce) error {
	if err := s.db.WithContext(ctx).Create(nonce).Error; err != nil {
		return fmt.Errorf("failed to create bond nonce: %w", err)
	}
	return nil
}

// GetBondNonce retrieves a batch, nil when missing
func (s *pgStore) GetBondNonce(ctx context.Context, classID, nonceID uint64) (*schema.BondNonce, error) {
	var nonce schema.BondNonce
	err := s.locked(s.db.WithContext(ctx)).
		Where("class_id = ? AND nonce_id = ?", classID, nonceID).
		First(&nonce).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bond nonce: %w", err)
	}
	return &nonce, nil
}

// SaveBondNonce updates a batch's mutable columns
func (s *pgStore) SaveBondNonce(ctx context.Context, nonce *schema.BondNonce) error {
	err := s.db.WithContext(ctx).
		Model(&schema.BondNonce{}).
		Where("class_id = ? AND nonce_id = ?", nonce.ClassID, nonce.NonceID).
		Updates(map[string]any{
			"total_issued": nonce.TotalIssued,
			"total_supply": nonce.TotalSupply,
			"redeemable":   nonce.Redeemable,
			"updated_at":   time.Now().UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to save bond nonce: %w", err)
	}
	return nil
}

// SumIssuedByClass returns cumulative issuance across all nonces of a class
func (s *pgStore) SumIssuedByClass(ctx context.Context, classID uint64) (types.BigInt, error) {
	var total types.BigInt
	err := s.db.WithContext(ctx).
		Model(&schema.BondNonce{}).
		Where("class_id = ?", classID).
		Select("COALESCE(SUM(total_issued), 0)").
		Scan(&total).Error
	if err != nil {
		return types.BigInt{}, fmt.Errorf("failed to sum issued supply: %w", err)
	}
	return total, nil
}

// GetBalance returns a holder's unit balance for a series (zero when absent)
func (s *pgStore) GetBalance(ctx context.Context, holder string, classID, nonceID uint64) (types.BigInt, error) {
	var balance schema.HolderBalance
	err := s.locked(s.db.WithContext(ctx)).
		Where("holder = ? AND class_id = ? AND nonce_id = ?", holder, classID, nonceID).
		First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.NewBigInt(0), nil
		}
		return types.BigInt{}, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance.Amount, nil
}

// AddToBalance applies a signed delta to a holder's balance
func (s *pgStore) AddToBalance(ctx context.Context, holder string, classID, nonceID uint64, delta types.BigInt) error {
	current, err := s.GetBalance(ctx, holder, classID, nonceID)
	if err != nil {
		return err
	}

	next := current.Add(delta)
	if next.Sign() < 0 {
		return fmt.Errorf("balance of %s for series %d/%d would go negative", holder, classID, nonceID)
	}

	row := schema.HolderBalance{
		Holder:  holder,
		ClassID: classID,
		NonceID: nonceID,
		Amount:  next,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "holder"}, {Name: "class_id"}, {Name: "nonce_id"}},
		DoUpdates: clause.Assignments(map[string]any{"amount": next, "updated_at": time.Now().UTC()}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return nil
}

// SetOperatorApproval records an owner's operator approval state
func (s *pgStore) SetOperatorApproval(ctx context.Context, owner, operator string, approved bool) error {
	row := schema.OperatorApproval{
		Owner:    owner,
		Operator: operator,
		Approved: approved,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}, {Name: "operator"}},
		DoUpdates: clause.Assignments(map[string]any{"approved": approved, "updated_at": time.Now().UTC()}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to set operator approval: %w", err)
	}
	return nil
}

// IsOperatorApproved checks whether operator may move owner's units
func (s *pgStore) IsOperatorApproved(ctx context.Context, owner, operator string) (bool, error) {
	var row schema.OperatorApproval
	err := s.db.WithContext(ctx).
		Where("owner = ? AND operator = ?", owner, operator).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check operator approval: %w", err)
	}
	return row.Approved, nil
}

// GetAccumulator retrieves the accumulator for a series/asset, nil when absent
func (s *pgStore) GetAccumulator(ctx context.Context, classID, nonceID uint64, asset string) (*schema.DividendAccumulator, error) {
	var acc schema.DividendAccumulator
	err := s.locked(s.db.WithContext(ctx)).
		Where("class_id = ? AND nonce_id = ? AND asset = ?", classID, nonceID, asset).
		First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get accumulator: %w", err)
	}
	return &acc, nil
}

// SaveAccumulator upserts an accumulator row
func (s *pgStore) SaveAccumulator(ctx context.Context, acc *schema.DividendAccumulator) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "class_id"}, {Name: "nonce_id"}, {Name: "asset"}},
		DoUpdates: clause.Assignments(map[string]any{
			"acc_per_unit":    acc.AccPerUnit,
			"total_deposited": acc.TotalDeposited,
			"updated_at":      time.Now().UTC(),
		}),
	}).Create(acc).Error
	if err != nil {
		return fmt.Errorf("failed to save accumulator: %w", err)
	}
	return nil
}

// GetPosition retrieves a holder's accounting position, nil when absent
func (s *pgStore) GetPosition(ctx context.Context, holder string, classID, nonceID uint64, asset string) (*schema.HolderPosition, error) {
	var pos schema.HolderPosition
	err := s.locked(s.db.WithContext(ctx)).
		Where("holder = ? AND class_id = ? AND nonce_id = ? AND asset = ?", holder, classID, nonceID, asset).
		First(&pos).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get holder position: %w", err)
	}
	return &pos, nil
}

// SavePosition upserts a holder's accounting position
func (s *pgStore) SavePosition(ctx context.Context, pos *schema.HolderPosition) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "holder"}, {Name: "class_id"}, {Name: "nonce_id"}, {Name: "asset"}},
		DoUpdates: clause.Assignments(map[string]any{
			"debt":          pos.Debt,
			"pending":       pos.Pending,
			"total_claimed": pos.TotalClaimed,
			"updated_at":    time.Now().UTC(),
		}),
	}).Create(pos).Error
	if err != nil {
		return fmt.Errorf("failed to save holder position: %w", err)
	}
	return nil
}

// AddDepositedAsset registers an asset in a series' deposited set (idempotent)
func (s *pgStore) AddDepositedAsset(ctx context.Context, classID, nonceID uint64, asset string) error {
	row := schema.DepositedAsset{
		ClassID: classID,
		NonceID: nonceID,
		Asset:   asset,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "class_id"}, {Name: "nonce_id"}, {Name: "asset"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to add deposited asset: %w", err)
	}
	return nil
}

// ListDepositedAssets returns a series' assets in first-deposit order
func (s *pgStore) ListDepositedAssets(ctx context.Context, classID, nonceID uint64) ([]string, error) {
	var assets []string
	err := s.db.WithContext(ctx).
		Model(&schema.DepositedAsset{}).
		Where("class_id = ? AND nonce_id = ?", classID, nonceID).
		Order("id ASC").
		Pluck("asset", &assets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list deposited assets: %w", err)
	}
	return assets, nil
}

// AppendLedgerEvent appends to the journal
func (s *pgStore) AppendLedgerEvent(ctx context.Context, event *schema.LedgerEvent) error {
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to append ledger event: %w", err)
	}
	return nil
}

// ListLedgerEvents pages through the journal in cursor order
func (s *pgStore) ListLedgerEvents(ctx context.Context, filter LedgerEventFilter) ([]*schema.LedgerEvent, error) {
	query := s.db.WithContext(ctx).Model(&schema.LedgerEvent{})

	if filter.EventType != nil {
		query = query.Where("event_type = ?", string(*filter.EventType))
	}
	if filter.ClassID != nil {
		query = query.Where("class_id = ?", *filter.ClassID)
	}
	if filter.NonceID != nil {
		query = query.Where("nonce_id = ?", *filter.NonceID)
	}
	if filter.AfterCursor > 0 {
		query = query.Where(`"cursor" > ?`, filter.AfterCursor)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	var events []*schema.LedgerEvent
	err := query.Order(`"cursor" ASC`).Limit(limit).Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger events: %w", err)
	}
	return events, nil
}

// GetSettings returns the administrative settings row, nil before bootstrap
func (s *pgStore) GetSettings(ctx context.Context) (*schema.LedgerSettings, error) {
	var settings schema.LedgerSettings
	err := s.db.WithContext(ctx).Where("id = ?", 1).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ledger settings: %w", err)
	}
	return &settings, nil
}

// SaveSettings upserts the administrative settings row
func (s *pgStore) SaveSettings(ctx context.Context, settings *schema.LedgerSettings) error {
	settings.ID = 1
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"controller":        settings.Controller,
			"accounting_engine": settings.AccountingEngine,
			"tranching_helper":  settings.TranchingHelper,
			"updated_at":        time.Now().UTC(),
		}),
	}).Create(settings).Error
	if err != nil {
		return fmt.Errorf("failed to save ledger settings: %w", err)
	}
	return nil
}

// CreateWebhookClient registers a webhook client
func (s *pgStore) CreateWebhookClient(ctx context.Context, client *schema.WebhookClient) error {
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return fmt.Errorf("failed to create webhook client: %w", err)
	}
	return nil
}

// ListActiveWebhookClients returns all active webhook clients
func (s *pgStore) ListActiveWebhookClients(ctx context.Context) ([]*schema.WebhookClient, error) {
	var clients []*schema.WebhookClient
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&clients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list webhook clients: %w", err)
	}
	return clients, nil
}

// SaveWebhookDelivery upserts a delivery attempt record
func (s *pgStore) SaveWebhookDelivery(ctx context.Context, delivery *schema.WebhookDelivery) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "client_id"}, {Name: "event_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"delivery_status": delivery.DeliveryStatus,
			"attempts":        delivery.Attempts,
			"last_attempt_at": delivery.LastAttemptAt,
			"response_status": delivery.ResponseStatus,
			"response_body":   delivery.ResponseBody,
			"error_message":   delivery.ErrorMessage,
			"updated_at":      time.Now().UTC(),
		}),
	}).Create(delivery).Error
	if err != nil {
		return fmt.Errorf("failed to save webhook delivery: %w", err)
	}
	return nil
}

// GetWebhookDelivery retrieves a delivery record, nil when missing
func (s *pgStore) GetWebhookDelivery(ctx context.Context, clientID, eventID string) (*schema.WebhookDelivery, error) {
	var delivery schema.WebhookDelivery
	err := s.db.WithContext(ctx).
		Where("client_id = ? AND event_id = ?", clientID, eventID).
		First(&delivery).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get webhook delivery: %w", err)
	}
	return &delivery, nil
}

// GetValue reads a key from the key-value table ("" when absent)
func (s *pgStore) GetValue(ctx context.Context, key string) (string, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get value: %w", err)
	}
	return kv.Value, nil
}

// SetValue writes a key in the key-value table
func (s *pgStore) SetValue(ctx context.Context, key, value string) error {
	kv := schema.KeyValueStore{Key: key, Value: value}
	if err := s.db.WithContext(ctx).Save(&kv).Error; err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}
	return nil
}
