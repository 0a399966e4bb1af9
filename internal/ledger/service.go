// Package ledger hosts the bond ledger service: unit issuance and movement,
// dividend accounting, waterfall distribution and administrative settings.
//
// The service owns both balance state and accounting state. Every operation
// runs in one store transaction, and settlement is sequenced strictly before
// any balance delta inside that transaction, so callers cannot apply a
// balance change without the accounting engine seeing the pre-change
// balances.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/structfi/bondledger/internal/adapter"
	"github.com/structfi/bondledger/internal/dividend"
	"github.com/structfi/bondledger/internal/domain"
	"github.com/structfi/bondledger/internal/logger"
	"github.com/structfi/bondledger/internal/messaging"
	"github.com/structfi/bondledger/internal/payments"
	"github.com/structfi/bondledger/internal/store"
	"github.com/structfi/bondledger/internal/store/schema"
	"github.com/structfi/bondledger/internal/types"
)

// Config holds the ledger service policies
type Config struct {
	// SupplyCapScope selects whether a class's max supply caps each nonce
	// independently or the class cumulatively
	SupplyCapScope domain.SupplyCapScope
}

// Service implements all externally invoked ledger and accounting operations
type Service struct {
	store      store.Store
	engine     *dividend.Engine
	transferor payments.Transferor
	publisher  messaging.Publisher
	clock      adapter.Clock
	capScope   domain.SupplyCapScope
}

// NewService creates the ledger service. publisher may be nil when the
// deployment has no message broker; the journal still records every event.
func NewService(
	st store.Store,
	engine *dividend.Engine,
	transferor payments.Transferor,
	publisher messaging.Publisher,
	clock adapter.Clock,
	cfg Config,
) *Service {
	capScope := cfg.SupplyCapScope
	if !domain.IsValidSupplyCapScope(capScope) {
		capScope = domain.SupplyCapPerClass
	}

	return &Service{
		store:      st,
		engine:     engine,
		transferor: transferor,
		publisher:  publisher,
		clock:      clock,
		capScope:   capScope,
	}
}

// CreateClassInput carries the immutable terms of a new bond class
type CreateClassInput struct {
	AgentID            string
	CouponRateBps      uint32
	MaturityPeriod     time.Duration
	SharpeRatioAtIssue uint32
	MaxSupply          types.BigInt
	Tranche            domain.Tranche
	PaymentAsset       domain.Asset
}

// CreateClass registers a new bond class and returns its sequential id
func (s *Service) CreateClass(ctx context.Context, in CreateClassInput) (uint64, error) {
	if in.AgentID == "" {
		return 0, fmt.Errorf("agent id is required: %w", domain.ErrInvalidAddress)
	}
	if in.MaxSupply.Sign() <= 0 {
		return 0, domain.ErrMaxSupplyZero
	}
	if !domain.IsValidTranche(in.Tranche) {
		return 0, fmt.Errorf("unknown tranche %q", in.Tranche)
	}
	if !in.PaymentAsset.Valid() {
		return 0, domain.ErrInvalidAsset
	}

	class := &schema.BondClass{
		AgentID:            in.AgentID,
		CouponRateBps:      in.CouponRateBps,
		MaturityPeriod:     int64(in.MaturityPeriod / time.Second),
		SharpeRatioAtIssue: in.SharpeRatioAtIssue,
		MaxSupply:          in.MaxSupply,
		Tranche:            in.Tranche,
		PaymentAsset:       in.PaymentAsset.String(),
	}

	var events []*domain.LedgerEvent
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		events = events[:0]
		if err := tx.CreateBondClass(ctx, class); err != nil {
			return err
		}

		event := s.newEvent(domain.EventTypeClassCreated)
		event.ClassID = &class.ID
		events = append(events, event)
		return s.journal(ctx, tx, event)
	})
	if err != nil {
		return 0, err
	}

	s.publish(ctx, events)
	logger.Info("bond class created",
		zap.Uint64("class_id", class.ID),
		zap.String("agent_id", class.AgentID),
		zap.String("tranche", string(class.Tranche)))
	return class.ID, nil
}

// CreateNonce opens a new issuance batch within a class and returns its
// sequential nonce id. The maturity timestamp is fixed here, at creation.
func (s *Service) CreateNonce(ctx context.Context, classID uint64, pricePerBond types.BigInt) (uint64, error) {
	var (
		nonceID uint64
		events  []*domain.LedgerEvent
	)
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		events = events[:0]
		class, err := tx.GetBondClass(ctx, classID)
		if err != nil {
			return err
		}
		if class == nil {
			return domain.ErrClassNotFound
		}

		nonceID, err = tx.NextNonceID(ctx, classID)
		if err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		nonce := &schema.BondNonce{
			ClassID:      classID,
			NonceID:      nonceID,
			PricePerBond: pricePerBond,
			IssuedAt:     now,
			MaturesAt:    now.Add(time.Duration(class.MaturityPeriod) * time.Second),
			TotalIssued:  types.NewBigInt(0),
			TotalSupply:  types.NewBigInt(0),
		}
		if err := tx.CreateBondNonce(ctx, nonce); err != nil {
			return err
		}

		event := s.newEvent(domain.EventTypeNonceCreated)
		event.ClassID = &classID
		event.NonceID = &nonceID
		events = append(events, event)
		return s.journal(ctx, tx, event)
	})
	if err != nil {
		return 0, err
	}

	s.publish(ctx, events)
	return nonceID, nil
}

// Issue mints units of one or more series to a holder. Settlement of the mint
// leg runs before each balance increase; all legs commit or roll back
// together.
func (s *Service) Issue(ctx context.Context, holder string, legs []domain.BondLeg) error {
	holder, err := normalizeHolder(holder)
	if err != nil {
		return err
	}

	var events []*domain.LedgerEvent
	err = s.store.WithinTx(ctx, func(tx store.Store) error {
		events = events[:0]
		for _, leg := range legs {
			if leg.Amount.Sign() <= 0 {
				return domain.ErrZeroAmount
			}

			class, nonce, err := s.series(ctx, tx, leg.ClassID, leg.NonceID)
			if err != nil {
				return err
			}
			if err := s.checkSupplyCap(ctx, tx, class, nonce, leg.Amount); err != nil {
				return err
			}

			if err := s.engine.SettleOnTransfer(ctx, tx, dividend.NullHolder, holder, leg.ClassID, leg.NonceID, leg.Amount); err != nil {
				return err
			}
			if err := tx.AddToBalance(ctx, holder, leg.ClassID, leg.NonceID, leg.Amount); err != nil {
				return err
			}

			nonce.TotalIssued = nonce.TotalIssued.Add(leg.Amount)
			nonce.TotalSupply = nonce.TotalSupply.Add(leg.Amount)
			if err := tx.SaveBondNonce(ctx, nonce); err != nil {
				return err
			}

			event := s.legEvent(domain.EventTypeIssued, leg, nil, &holder)
			events = append(events, event)
			if err := s.journal(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events)
	return nil
}

// Transfer moves units between holders. The caller must be the sender or an
// approved operator of the sender.
func (s *Service) Transfer(ctx context.Context, caller, from, to string, legs []domain.BondLeg) error {
	caller, err := normalizeHolder(caller)
	if err != nil {
		return err
	}
	from, err = normalizeHolder(from)
	if err != nil {
		return err
	}
	to, err = normalizeHolder(to)
	if err != nil {
		return err
	}

	var events []*domain.LedgerEvent
	err = s.store.WithinTx(ctx, func(tx store.Store) error {
		events = events[:0]
		if caller != from {
			approved, err := tx.IsOperatorApproved(ctx, from, caller)
			if err != nil {
				return err
			}
			if !approved {
				return domain.ErrUnauthorized
			}
		}

		for _, leg := range legs {
			if leg.Amount.Sign() <= 0 {
				return domain.ErrZeroAmount
			}
			if _, _, err := s.series(ctx, tx, leg.ClassID, leg.NonceID); err != nil {
				return err
			}

			balance, err := tx.GetBalance(ctx, from, leg.ClassID, leg.NonceID)
			if err != nil {
				return err
			}
			if balance.Cmp(leg.Amount) < 0 {
				return domain.ErrInsufficientBalance
			}

			if err := s.engine.SettleOnTransfer(ctx, tx, from, to, leg.ClassID, leg.NonceID, leg.Amount); err != nil {
				return err
			}
			if err := tx.AddToBalance(ctx, from, leg.ClassID, leg.NonceID, leg.Amount.Neg()); err != nil {
				return err
			}
			if err := tx.AddToBalance(ctx, to, leg.ClassID, leg.NonceID, leg.Amount); err != nil {
				return err
			}

			event := s.legEvent(domain.EventTypeTransferred, leg, &from, &to)
			events = append(events, event)
			if err := s.journal(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events)
	return nil
}

// Redeem retires matured units. The series must be marked redeemable and past
// its maturity timestamp. Principal payment is handled by an external payer
// and is not performed here.
func (s *Service) Redeem(ctx context.Context, holder string, legs []domain.BondLeg) error {
	return s.retire(ctx, holder, legs, true)
}

// Burn unconditionally retires units
func (s *Service) Burn(ctx context.Context, holder string, legs []domain.BondLeg) error {
	return s.retire(ctx, holder, legs, false)
}

func (s *Service) retire(ctx context.Context, holder string, legs []domain.BondLeg, redemption bool) error {
	holder, err := normalizeHolder(holder)
	if err != nil {
		return err
	}

	eventType := domain.EventTypeBurned
	if redemption {
		eventType = domain.EventTypeRedeemed
	}

	var events []*domain.LedgerEvent
	err = s.store.WithinTx(ctx, func(tx store.Store) error {
		events = events[:0]
		for _, leg := range legs {
			if leg.Amount.Sign() <= 0 {
				return domain.ErrZeroAmount
			}

			_, nonce, err := s.series(ctx, tx, leg.ClassID, leg.NonceID)
			if err != nil {
				return err
			}
			if redemption {
				if !nonce.Redeemable {
					return domain.ErrNotRedeemable
				}
				if s.clock.Now().Before(nonce.MaturesAt) {
					return domain.ErrNotMatured
				}
			}

			balance, err := tx.GetBalance(ctx, holder, leg.ClassID, leg.NonceID)
			if err != nil {
				return err
			}
			if balance.Cmp(leg.Amount) < 0 {
				return domain.ErrInsufficientBalance
			}

			if err := s.engine.SettleOnTransfer(ctx, tx, holder, dividend.NullHolder, leg.ClassID, leg.NonceID, leg.Amount); err != nil {
				return err
			}
			if err := tx.AddToBalance(ctx, holder, leg.ClassID, leg.NonceID, leg.Amount.Neg()); err != nil {
				return err
			}

			nonce.TotalSupply = nonce.TotalSupply.Sub(leg.Amount)
			if nonce.TotalSupply.Sign() < 0 {
				return domain.ErrAccountingInvariant
			}
			if err := tx.SaveBondNonce(ctx, nonce); err != nil {
				return err
			}

			event := s.legEvent(eventType, leg, &holder, nil)
			events = append(events, event)
			if err := s.journal(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events)
	return nil
}

// MarkRedeemable flips a series' one-way redeemable flag. Calling it again is
// a no-op.
func (s *Service) MarkRedeemable(ctx context.Context, classID, nonceID uint64) error {
	var events []*domain.LedgerEvent
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		events = events[:0]
		_, nonce, err := s.series(ctx, tx, classID, nonceID)
		if err != nil {
			return err
		}
		if nonce.Redeemable {
			return nil
		}

		nonce.Redeemable = true
		if err := tx.SaveBondNonce(ctx, nonce); err != nil {
			return err
		}

		event := s.newEvent(domain.EventTypeMarkedRedeemable)
		event.ClassID = &classID
		event.NonceID = &nonceID
		events = append(events, event)
		return s.journal(ctx, tx, event)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events)
	return nil
}

// SetApproval grants or revokes an operator's right to move the owner's units
func (s *Service) SetApproval(ctx context.Context, owner, operator string, approved bool) error {
	owner, err := normalizeHolder(owner)
	if err != nil {
		return err
	}
	operator, err = normalizeHolder(operator)
	if err != nil {
		return err
	}
	if owner == operator {
		return domain.ErrSelfApproval
	}

	var events []*domain.LedgerEvent
	err = s.store.WithinTx(ctx, func(tx store.Store) error {
		events = events[:0]
		if err := tx.SetOperatorApproval(ctx, owner, operator, approved); err != nil {
			return err
		}

		event := s.newEvent(domain.EventTypeApprovalChanged)
		event.From = &owner
		event.To = &operator
		events = append(events, event)
		return s.journal(ctx, tx, event)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events)
	return nil
}

// series loads a class and nonce, failing with the narrower not-found error
func (s *Service) series(ctx context.Context, tx store.Store, classID, nonceID uint64) (*schema.BondClass, *schema.BondNonce, error) {
	class, err := tx.GetBondClass(ctx, classID)
	if err != nil {
		return nil, nil, err
	}
	if class == nil {
		return nil, nil, domain.ErrClassNotFound
	}

	nonce, err := tx.GetBondNonce(ctx, classID, nonceID)
	if err != nil {
		return nil, nil, err
	}
	if nonce == nil {
		return nil, nil, domain.ErrNonceNotFound
	}
	return class, nonce, nil
}

func (s *Service) checkSupplyCap(ctx context.Context, tx store.Store, class *schema.BondClass, nonce *schema.BondNonce, amount types.BigInt) error {
	switch s.capScope {
	case domain.SupplyCapPerNonce:
		if nonce.TotalIssued.Add(amount).Cmp(class.MaxSupply) > 0 {
			return domain.ErrMaxSupplyExceeded
		}
	default:
		issued, err := tx.SumIssuedByClass(ctx, class.ID)
		if err != nil {
			return err
		}
		if issued.Add(amount).Cmp(class.MaxSupply) > 0 {
			return domain.ErrMaxSupplyExceeded
		}
	}
	return nil
}

func (s *Service) newEvent(eventType domain.EventType) *domain.LedgerEvent {
	now := s.clock.Now().UTC()
	return &domain.LedgerEvent{
		EventID:   domain.NewEventID(now),
		EventType: eventType,
		Timestamp: now,
	}
}

func (s *Service) legEvent(eventType domain.EventType, leg domain.BondLeg, from, to *string) *domain.LedgerEvent {
	event := s.newEvent(eventType)
	classID, nonceID := leg.ClassID, leg.NonceID
	amount := leg.Amount
	event.ClassID = &classID
	event.NonceID = &nonceID
	event.Amount = &amount
	event.From = from
	event.To = to
	return event
}

// journal appends an event to the ledger_events table inside the operation's
// transaction, so the journal never records a rolled-back state change
func (s *Service) journal(ctx context.Context, tx store.Store, event *domain.LedgerEvent) error {
	meta, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return tx.AppendLedgerEvent(ctx, &schema.LedgerEvent{
		EventID:    event.EventID,
		EventType:  event.EventType,
		ClassID:    event.ClassID,
		NonceID:    event.NonceID,
		Meta:       meta,
		OccurredAt: event.Timestamp,
	})
}

// publish pushes committed events to the broker. Failures are logged, not
// returned: the journal is the source of truth and the event bridge replays
// from it.
func (s *Service) publish(ctx context.Context, events []*domain.LedgerEvent) {
	if s.publisher == nil {
		return
	}
	for _, event := range events {
		if err := s.publisher.PublishEvent(ctx, event); err != nil {
			logger.Error(err,
				zap.String("message", "failed to publish ledger event"),
				zap.String("event_id", event.EventID),
				zap.String("event_type", string(event.EventType)))
		}
	}
}

func normalizeHolder(addr string) (string, error) {
	if !types.IsHolderAddress(addr) {
		return "", domain.ErrInvalidAddress
	}
	return types.NormalizeAddress(addr), nil
}
