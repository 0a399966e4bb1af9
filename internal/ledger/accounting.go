package ledger

import (
	"context"

	"github.com/structfi/bondledger/internal/dividend"
	"github.com/structfi/bondledger/internal/domain"
	"github.com/structfi/bondledger/internal/store"
	"github.com/structfi/bondledger/internal/types"
)

// Deposit distributes amount of asset across the current holders of a series
// and collects the funds from the depositor. Collection is the final effect
// of the transaction; if it fails nothing is distributed.
func (s *Service) Deposit(ctx context.Context, depositor string, classID, nonceID uint64, asset domain.Asset, amount types.BigInt) error {
	if !asset.Valid() {
		return domain.ErrInvalidAsset
	}

	var events []*domain.LedgerEvent
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		events = events[:0]
		if err := s.checkPaymentAsset(ctx, tx, classID, asset); err != nil {
			return err
		}
		if err := s.engine.Deposit(ctx, tx, classID, nonceID, asset.String(), amount); err != nil {
			return err
		}

		event := s.depositEvent(classID, nonceID, asset.String(), amount)
		events = append(events, event)
		if err := s.journal(ctx, tx, event); err != nil {
			return err
		}

		return s.transferor.Pull(ctx, depositor, asset, amount)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events)
	return nil
}

// Claimable returns what the holder could claim right now for one asset
func (s *Service) Claimable(ctx context.Context, holder string, classID, nonceID uint64, asset domain.Asset) (types.BigInt, error) {
	holder, err := normalizeHolder(holder)
	if err != nil {
		return types.BigInt{}, err
	}
	return s.engine.Claimable(ctx, s.store, holder, classID, nonceID, asset.String())
}

// Claim pays out the holder's accrued dividends for one asset. The payout is
// the final effect of the transaction: debt and pending are already updated
// when the external transfer happens, and a failed transfer rolls them back.
func (s *Service) Claim(ctx context.Context, holder string, classID, nonceID uint64, asset domain.Asset) (types.BigInt, error) {
	holder, err := normalizeHolder(holder)
	if err != nil {
		return types.BigInt{}, err
	}

	var (
		amount types.BigInt
		events []*domain.LedgerEvent
	)
	err = s.store.WithinTx(ctx, func(tx store.Store) error {
		events = events[:0]
		amount, err = s.engine.Claim(ctx, tx, holder, classID, nonceID, asset.String())
		if err != nil {
			return err
		}

		event := s.claimEvent(classID, nonceID, asset.String(), holder, amount)
		events = append(events, event)
		if err := s.journal(ctx, tx, event); err != nil {
			return err
		}

		return s.transferor.Push(ctx, holder, asset, amount)
	})
	if err != nil {
		return types.BigInt{}, err
	}

	s.publish(ctx, events)
	return amount, nil
}

// ClaimAll pays out every deposited asset of a series in first-deposit order.
// All bookkeeping is written before the first external payout.
func (s *Service) ClaimAll(ctx context.Context, holder string, classID, nonceID uint64) ([]dividend.ClaimResult, error) {
	holder, err := normalizeHolder(holder)
	if err != nil {
		return nil, err
	}

	var (
		results []dividend.ClaimResult
		events  []*domain.LedgerEvent
	)
	err = s.store.WithinTx(ctx, func(tx store.Store) error {
		events = events[:0]
		results, err = s.engine.ClaimAll(ctx, tx, holder, classID, nonceID)
		if err != nil {
			return err
		}

		for _, result := range results {
			event := s.claimEvent(classID, nonceID, result.Asset, holder, result.Amount)
			events = append(events, event)
			if err := s.journal(ctx, tx, event); err != nil {
				return err
			}
		}

		for _, result := range results {
			asset, err := domain.ParseAsset(result.Asset)
			if err != nil {
				return err
			}
			if err := s.transferor.Push(ctx, holder, asset, result.Amount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return results, nil
}

// SettleOnTransfer is exported for deployments that host the accounting
// engine separately from a balance-owning ledger. In-process operations never
// call it directly; they settle inside their own transaction.
func (s *Service) SettleOnTransfer(ctx context.Context, from, to string, classID, nonceID uint64, amount types.BigInt) error {
	if from != dividend.NullHolder {
		normalized, err := normalizeHolder(from)
		if err != nil {
			return err
		}
		from = normalized
	}
	if to != dividend.NullHolder {
		normalized, err := normalizeHolder(to)
		if err != nil {
			return err
		}
		to = normalized
	}

	return s.store.WithinTx(ctx, func(tx store.Store) error {
		if from != dividend.NullHolder {
			balance, err := tx.GetBalance(ctx, from, classID, nonceID)
			if err != nil {
				return err
			}
			if balance.Cmp(amount) < 0 {
				return domain.ErrInsufficientBalance
			}
		}
		return s.engine.SettleOnTransfer(ctx, tx, from, to, classID, nonceID, amount)
	})
}

// checkPaymentAsset rejects a deposit whose asset kind differs from the
// class's payment denomination. Native-denominated classes accept only the
// native asset; fungible-denominated classes accept token contracts.
func (s *Service) checkPaymentAsset(ctx context.Context, tx store.Store, classID uint64, asset domain.Asset) error {
	class, err := tx.GetBondClass(ctx, classID)
	if err != nil {
		return err
	}
	if class == nil {
		return domain.ErrClassNotFound
	}

	denomination, err := domain.ParseAsset(class.PaymentAsset)
	if err != nil {
		return err
	}
	if denomination.Kind != asset.Kind {
		return domain.ErrAssetMismatch
	}
	return nil
}

// DepositWaterfall distributes totalAmount across a senior and a junior
// series, senior first up to its entitlement. One pull of the whole amount is
// the final effect of the transaction.
func (s *Service) DepositWaterfall(ctx context.Context, depositor string, seniorClassID, seniorNonceID, juniorClassID, juniorNonceID uint64, asset domain.Asset, totalAmount, seniorEntitlement types.BigInt) (seniorAmount, juniorAmount types.BigInt, err error) {
	if !asset.Valid() {
		return types.BigInt{}, types.BigInt{}, domain.ErrInvalidAsset
	}

	var events []*domain.LedgerEvent
	err = s.store.WithinTx(ctx, func(tx store.Store) error {
		events = events[:0]
		if err := s.checkPaymentAsset(ctx, tx, seniorClassID, asset); err != nil {
			return err
		}
		if err := s.checkPaymentAsset(ctx, tx, juniorClassID, asset); err != nil {
			return err
		}
		seniorAmount, juniorAmount, err = s.engine.DepositWaterfall(ctx, tx, seniorClassID, seniorNonceID, juniorClassID, juniorNonceID, asset.String(), totalAmount, seniorEntitlement)
		if err != nil {
			return err
		}

		waterfall := s.newEvent(domain.EventTypeWaterfall)
		waterfall.ClassID = &seniorClassID
		waterfall.NonceID = &seniorNonceID
		assetID := asset.String()
		waterfall.Asset = &assetID
		waterfall.Amount = &totalAmount
		events = append(events, waterfall)
		if err := s.journal(ctx, tx, waterfall); err != nil {
			return err
		}

		if seniorAmount.Sign() > 0 {
			event := s.depositEvent(seniorClassID, seniorNonceID, asset.String(), seniorAmount)
			events = append(events, event)
			if err := s.journal(ctx, tx, event); err != nil {
				return err
			}
		}
		if juniorAmount.Sign() > 0 {
			event := s.depositEvent(juniorClassID, juniorNonceID, asset.String(), juniorAmount)
			events = append(events, event)
			if err := s.journal(ctx, tx, event); err != nil {
				return err
			}
		}

		return s.transferor.Pull(ctx, depositor, asset, totalAmount)
	})
	if err != nil {
		return types.BigInt{}, types.BigInt{}, err
	}

	s.publish(ctx, events)
	return seniorAmount, juniorAmount, nil
}

func (s *Service) depositEvent(classID, nonceID uint64, asset string, amount types.BigInt) *domain.LedgerEvent {
	event := s.newEvent(domain.EventTypeDeposited)
	event.ClassID = &classID
	event.NonceID = &nonceID
	event.Asset = &asset
	event.Amount = &amount
	return event
}

func (s *Service) claimEvent(classID, nonceID uint64, asset, holder string, amount types.BigInt) *domain.LedgerEvent {
	event := s.newEvent(domain.EventTypeClaimed)
	event.ClassID = &classID
	event.NonceID = &nonceID
	event.Asset = &asset
	event.To = &holder
	event.Amount = &amount
	return event
}
