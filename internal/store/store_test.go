package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/structfi/bondledger/internal/domain"
	"github.com/structfi/bondledger/internal/store/schema"
	"github.com/structfi/bondledger/internal/types"
)

// =============================================================================
// Test Data Builders
// =============================================================================

func buildTestClass(agentID string, tranche domain.Tranche) *schema.BondClass {
	return &schema.BondClass{
		AgentID:            agentID,
		CouponRateBps:      500,
		MaturityPeriod:     int64(30 * 24 * time.Hour / time.Second),
		SharpeRatioAtIssue: 120,
		MaxSupply:          types.NewBigInt(1_000_000),
		Tranche:            tranche,
		PaymentAsset:       domain.NativeAsset().String(),
	}
}

func buildTestNonce(classID, nonceID uint64) *schema.BondNonce {
	now := time.Now().UTC().Truncate(time.Second)
	return &schema.BondNonce{
		ClassID:      classID,
		NonceID:      nonceID,
		PricePerBond: types.NewBigInt(100),
		IssuedAt:     now,
		MaturesAt:    now.Add(30 * 24 * time.Hour),
		TotalIssued:  types.NewBigInt(0),
		TotalSupply:  types.NewBigInt(0),
	}
}

func buildTestEvent(eventType domain.EventType, classID, nonceID uint64) *schema.LedgerEvent {
	return &schema.LedgerEvent{
		EventID:    domain.NewEventID(time.Now().UTC()),
		EventType:  eventType,
		ClassID:    &classID,
		NonceID:    &nonceID,
		Meta:       datatypes.JSON([]byte(`{}`)),
		OccurredAt: time.Now().UTC(),
	}
}

// =============================================================================
// Test: Bond classes
// =============================================================================

func testBondClasses(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("create assigns sequential ids", func(t *testing.T) {
		first := buildTestClass("agent-1", domain.TrancheStandard)
		require.NoError(t, store.CreateBondClass(ctx, first))
		second := buildTestClass("agent-1", domain.TrancheSenior)
		require.NoError(t, store.CreateBondClass(ctx, second))

		assert.Equal(t, first.ID+1, second.ID)

		got, err := store.GetBondClass(ctx, first.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "agent-1", got.AgentID)
		assert.Equal(t, uint32(500), got.CouponRateBps)
		assert.Equal(t, "1000000", got.MaxSupply.String())
	})

	t.Run("get returns nil for unknown class", func(t *testing.T) {
		got, err := store.GetBondClass(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("list by agent and tranche", func(t *testing.T) {
		senior := buildTestClass("agent-2", domain.TrancheSenior)
		require.NoError(t, store.CreateBondClass(ctx, senior))
		junior := buildTestClass("agent-2", domain.TrancheJunior)
		require.NoError(t, store.CreateBondClass(ctx, junior))
		other := buildTestClass("agent-3", domain.TrancheSenior)
		require.NoError(t, store.CreateBondClass(ctx, other))

		ids, err := store.ListClassIDsByAgent(ctx, "agent-2")
		require.NoError(t, err)
		assert.Equal(t, []uint64{senior.ID, junior.ID}, ids)

		seniors, err := store.ListClassesByAgentTranche(ctx, "agent-2", domain.TrancheSenior)
		require.NoError(t, err)
		require.Len(t, seniors, 1)
		assert.Equal(t, senior.ID, seniors[0].ID)
	})
}

// =============================================================================
// Test: Bond nonces
// =============================================================================

func testBondNonces(t *testing.T, store Store) {
	ctx := context.Background()

	class := buildTestClass("agent-nonce", domain.TrancheStandard)
	require.NoError(t, store.CreateBondClass(ctx, class))

	t.Run("next nonce id counts existing batches", func(t *testing.T) {
		next, err := store.NextNonceID(ctx, class.ID)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), next)

		require.NoError(t, store.CreateBondNonce(ctx, buildTestNonce(class.ID, 0)))

		next, err = store.NextNonceID(ctx, class.ID)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), next)
	})

	t.Run("save updates mutable columns", func(t *testing.T) {
		nonce := buildTestNonce(class.ID, 1)
		require.NoError(t, store.CreateBondNonce(ctx, nonce))

		nonce.TotalIssued = types.NewBigInt(100)
		nonce.TotalSupply = types.NewBigInt(90)
		nonce.Redeemable = true
		require.NoError(t, store.SaveBondNonce(ctx, nonce))

		got, err := store.GetBondNonce(ctx, class.ID, 1)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "100", got.TotalIssued.String())
		assert.Equal(t, "90", got.TotalSupply.String())
		assert.True(t, got.Redeemable)
	})

	t.Run("get returns nil for unknown nonce", func(t *testing.T) {
		got, err := store.GetBondNonce(ctx, class.ID, 42)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("sum issued spans all nonces of the class", func(t *testing.T) {
		nonce := buildTestNonce(class.ID, 2)
		nonce.TotalIssued = types.NewBigInt(250)
		nonce.TotalSupply = types.NewBigInt(250)
		require.NoError(t, store.CreateBondNonce(ctx, nonce))

		total, err := store.SumIssuedByClass(ctx, class.ID)
		require.NoError(t, err)
		assert.Equal(t, "350", total.String())
	})
}

// =============================================================================
// Test: Holder balances
// =============================================================================

func testHolderBalances(t *testing.T, store Store) {
	ctx := context.Background()
	holder := "0x1234567890123456789012345678901234567890"

	t.Run("absent balance reads as zero", func(t *testing.T) {
		balance, err := store.GetBalance(ctx, holder, 1, 0)
		require.NoError(t, err)
		assert.True(t, balance.IsZero())
	})

	t.Run("delta accumulates", func(t *testing.T) {
		require.NoError(t, store.AddToBalance(ctx, holder, 1, 0, types.NewBigInt(100)))
		require.NoError(t, store.AddToBalance(ctx, holder, 1, 0, types.NewBigInt(-30)))

		balance, err := store.GetBalance(ctx, holder, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, "70", balance.String())
	})

	t.Run("negative result is rejected", func(t *testing.T) {
		err := store.AddToBalance(ctx, holder, 1, 0, types.NewBigInt(-1000))
		require.Error(t, err)

		balance, err := store.GetBalance(ctx, holder, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, "70", balance.String())
	})

	t.Run("zero is a valid terminal value", func(t *testing.T) {
		require.NoError(t, store.AddToBalance(ctx, holder, 1, 0, types.NewBigInt(-70)))
		balance, err := store.GetBalance(ctx, holder, 1, 0)
		require.NoError(t, err)
		assert.True(t, balance.IsZero())
	})
}

// =============================================================================
// Test: Operator approvals
// =============================================================================

func testOperatorApprovals(t *testing.T, store Store) {
	ctx := context.Background()
	owner := "0xaaaa567890123456789012345678901234567890"
	operator := "0xbbbb567890123456789012345678901234567890"

	approved, err := store.IsOperatorApproved(ctx, owner, operator)
	require.NoError(t, err)
	assert.False(t, approved)

	require.NoError(t, store.SetOperatorApproval(ctx, owner, operator, true))
	approved, err = store.IsOperatorApproved(ctx, owner, operator)
	require.NoError(t, err)
	assert.True(t, approved)

	// approvals are directional
	approved, err = store.IsOperatorApproved(ctx, operator, owner)
	require.NoError(t, err)
	assert.False(t, approved)

	require.NoError(t, store.SetOperatorApproval(ctx, owner, operator, false))
	approved, err = store.IsOperatorApproved(ctx, owner, operator)
	require.NoError(t, err)
	assert.False(t, approved)
}

// =============================================================================
// Test: Accumulators and positions
// =============================================================================

func testAccounting(t *testing.T, store Store) {
	ctx := context.Background()
	asset := domain.NativeAsset().String()
	holder := "0xcccc567890123456789012345678901234567890"

	t.Run("accumulator upsert round-trip", func(t *testing.T) {
		got, err := store.GetAccumulator(ctx, 7, 0, asset)
		require.NoError(t, err)
		assert.Nil(t, got)

		acc := &schema.DividendAccumulator{
			ClassID:        7,
			NonceID:        0,
			Asset:          asset,
			AccPerUnit:     domain.Precision,
			TotalDeposited: types.NewBigInt(100),
		}
		require.NoError(t, store.SaveAccumulator(ctx, acc))

		acc.TotalDeposited = types.NewBigInt(175)
		require.NoError(t, store.SaveAccumulator(ctx, acc))

		got, err = store.GetAccumulator(ctx, 7, 0, asset)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, domain.Precision.String(), got.AccPerUnit.String())
		assert.Equal(t, "175", got.TotalDeposited.String())
	})

	t.Run("position upsert round-trip", func(t *testing.T) {
		got, err := store.GetPosition(ctx, holder, 7, 0, asset)
		require.NoError(t, err)
		assert.Nil(t, got)

		pos := &schema.HolderPosition{
			Holder:       holder,
			ClassID:      7,
			NonceID:      0,
			Asset:        asset,
			Debt:         types.NewBigInt(50),
			Pending:      types.NewBigInt(25),
			TotalClaimed: types.NewBigInt(0),
		}
		require.NoError(t, store.SavePosition(ctx, pos))

		pos.Pending = types.NewBigInt(0)
		pos.TotalClaimed = types.NewBigInt(25)
		require.NoError(t, store.SavePosition(ctx, pos))

		got, err = store.GetPosition(ctx, holder, 7, 0, asset)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "50", got.Debt.String())
		assert.True(t, got.Pending.IsZero())
		assert.Equal(t, "25", got.TotalClaimed.String())
	})

	t.Run("deposited asset set is ordered and de-duplicated", func(t *testing.T) {
		require.NoError(t, store.AddDepositedAsset(ctx, 7, 0, "native"))
		require.NoError(t, store.AddDepositedAsset(ctx, 7, 0, "erc20:0x1111111111111111111111111111111111111111"))
		require.NoError(t, store.AddDepositedAsset(ctx, 7, 0, "native"))

		assets, err := store.ListDepositedAssets(ctx, 7, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"native", "erc20:0x1111111111111111111111111111111111111111"}, assets)
	})
}

// =============================================================================
// Test: Ledger event journal
// =============================================================================

func testLedgerEvents(t *testing.T, store Store) {
	ctx := context.Background()

	first := buildTestEvent(domain.EventTypeIssued, 3, 0)
	require.NoError(t, store.AppendLedgerEvent(ctx, first))
	second := buildTestEvent(domain.EventTypeTransferred, 3, 0)
	require.NoError(t, store.AppendLedgerEvent(ctx, second))
	third := buildTestEvent(domain.EventTypeIssued, 4, 1)
	require.NoError(t, store.AppendLedgerEvent(ctx, third))

	assert.Greater(t, second.Cursor, first.Cursor)

	t.Run("filter by event type", func(t *testing.T) {
		eventType := domain.EventTypeIssued
		events, err := store.ListLedgerEvents(ctx, LedgerEventFilter{EventType: &eventType})
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, first.EventID, events[0].EventID)
		assert.Equal(t, third.EventID, events[1].EventID)
	})

	t.Run("filter by series", func(t *testing.T) {
		classID := uint64(3)
		events, err := store.ListLedgerEvents(ctx, LedgerEventFilter{ClassID: &classID})
		require.NoError(t, err)
		require.Len(t, events, 2)
	})

	t.Run("cursor pagination", func(t *testing.T) {
		events, err := store.ListLedgerEvents(ctx, LedgerEventFilter{AfterCursor: first.Cursor})
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, second.EventID, events[0].EventID)

		events, err = store.ListLedgerEvents(ctx, LedgerEventFilter{AfterCursor: first.Cursor, Limit: 1})
		require.NoError(t, err)
		require.Len(t, events, 1)
	})
}

// =============================================================================
// Test: Settings
// =============================================================================

func testSettings(t *testing.T, store Store) {
	ctx := context.Background()

	got, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	settings := &schema.LedgerSettings{
		Controller:       "controller-key-1",
		AccountingEngine: "engine-1",
		TranchingHelper:  "helper-1",
	}
	require.NoError(t, store.SaveSettings(ctx, settings))

	settings.Controller = "controller-key-2"
	require.NoError(t, store.SaveSettings(ctx, settings))

	got, err = store.GetSettings(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(1), got.ID)
	assert.Equal(t, "controller-key-2", got.Controller)
	assert.Equal(t, "engine-1", got.AccountingEngine)
}

// =============================================================================
// Test: Webhook clients and deliveries
// =============================================================================

func testWebhookClients(t *testing.T, store Store) {
	ctx := context.Background()

	active := &schema.WebhookClient{
		ClientID:      uuid.NewString(),
		WebhookURL:    "https://example.com/hooks/a",
		WebhookSecret: "secret-a",
		EventFilters:  datatypes.JSON([]byte(`["*"]`)),
		IsActive:      true,
	}
	require.NoError(t, store.CreateWebhookClient(ctx, active))

	inactive := &schema.WebhookClient{
		ClientID:      uuid.NewString(),
		WebhookURL:    "https://example.com/hooks/b",
		WebhookSecret: "secret-b",
		EventFilters:  datatypes.JSON([]byte(`["dividend.deposited"]`)),
		IsActive:      false,
	}
	require.NoError(t, store.CreateWebhookClient(ctx, inactive))

	clients, err := store.ListActiveWebhookClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, active.ClientID, clients[0].ClientID)
}

func testWebhookDeliveries(t *testing.T, store Store) {
	ctx := context.Background()

	delivery := &schema.WebhookDelivery{
		ClientID:       uuid.NewString(),
		EventID:        domain.NewEventID(time.Now().UTC()),
		EventType:      string(domain.EventTypeDeposited),
		Payload:        datatypes.JSON([]byte(`{"amount":"100"}`)),
		DeliveryStatus: schema.WebhookDeliveryStatusPending,
	}
	require.NoError(t, store.SaveWebhookDelivery(ctx, delivery))

	fetched, err := store.GetWebhookDelivery(ctx, delivery.ClientID, delivery.EventID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, schema.WebhookDeliveryStatusPending, fetched.DeliveryStatus)

	now := time.Now().UTC()
	status := 200
	delivery.DeliveryStatus = schema.WebhookDeliveryStatusSuccess
	delivery.Attempts = 1
	delivery.LastAttemptAt = &now
	delivery.ResponseStatus = &status
	require.NoError(t, store.SaveWebhookDelivery(ctx, delivery))

	fetched, err = store.GetWebhookDelivery(ctx, delivery.ClientID, delivery.EventID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, schema.WebhookDeliveryStatusSuccess, fetched.DeliveryStatus)
	assert.Equal(t, 1, fetched.Attempts)
	require.NotNil(t, fetched.ResponseStatus)
	assert.Equal(t, 200, *fetched.ResponseStatus)

	missing, err := store.GetWebhookDelivery(ctx, delivery.ClientID, "01JG8XUNKNOWN0000000000000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

// =============================================================================
// Test: Key-value store
// =============================================================================

func testKeyValueStore(t *testing.T, store Store) {
	ctx := context.Background()

	value, err := store.GetValue(ctx, "bridge_cursor")
	require.NoError(t, err)
	assert.Equal(t, "", value)

	require.NoError(t, store.SetValue(ctx, "bridge_cursor", "42"))
	require.NoError(t, store.SetValue(ctx, "bridge_cursor", "43"))

	value, err = store.GetValue(ctx, "bridge_cursor")
	require.NoError(t, err)
	assert.Equal(t, "43", value)
}

// =============================================================================
// Test: Transactions
// =============================================================================

func testWithinTx(t *testing.T, store Store) {
	ctx := context.Background()
	holder := "0xdddd567890123456789012345678901234567890"

	t.Run("commit persists all writes", func(t *testing.T) {
		err := store.WithinTx(ctx, func(tx Store) error {
			if err := tx.AddToBalance(ctx, holder, 9, 0, types.NewBigInt(10)); err != nil {
				return err
			}
			return tx.SetValue(ctx, "tx-key", "committed")
		})
		require.NoError(t, err)

		balance, err := store.GetBalance(ctx, holder, 9, 0)
		require.NoError(t, err)
		assert.Equal(t, "10", balance.String())
	})

	t.Run("error rolls back every write", func(t *testing.T) {
		sentinel := errors.New("abort")
		err := store.WithinTx(ctx, func(tx Store) error {
			if err := tx.AddToBalance(ctx, holder, 9, 0, types.NewBigInt(5)); err != nil {
				return err
			}
			if err := tx.SetValue(ctx, "tx-key", "rolled-back"); err != nil {
				return err
			}
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)

		balance, err := store.GetBalance(ctx, holder, 9, 0)
		require.NoError(t, err)
		assert.Equal(t, "10", balance.String())

		value, err := store.GetValue(ctx, "tx-key")
		require.NoError(t, err)
		assert.Equal(t, "committed", value)
	})
}

// RunStoreTests runs the shared suite against a Store implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"BondClasses", testBondClasses},
		{"BondNonces", testBondNonces},
		{"HolderBalances", testHolderBalances},
		{"OperatorApprovals", testOperatorApprovals},
		{"Accounting", testAccounting},
		{"LedgerEvents", testLedgerEvents},
		{"Settings", testSettings},
		{"WebhookClients", testWebhookClients},
		{"WebhookDeliveries", testWebhookDeliveries},
		{"KeyValueStore", testKeyValueStore},
		{"WithinTx", testWithinTx},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
