// Package dividend implements per-unit dividend accounting for bond series.
//
// Each (series, asset) pair carries a cumulative accumulator of dividend owed
// per unit, scaled by domain.Precision. A holder's claimable amount is
//
//	balance*accPerUnit/Precision - debt + pending
//
// Debt prevents double-paying distributions that predate the holder's units;
// pending freezes accrual whenever a balance is about to change. Settlement
// must run against the balances as they exist before the ledger applies a
// delta - settling afterwards would attribute past accrual to the wrong party.
package dividend

import (
	"context"

	"github.com/structfi/bondledger/internal/domain"
	"github.com/structfi/bondledger/internal/store"
	"github.com/structfi/bondledger/internal/store/schema"
	"github.com/structfi/bondledger/internal/types"
)

// NullHolder is the empty counterparty of a mint or burn settlement leg.
const NullHolder = ""

// ClaimResult is one asset's payout computed by ClaimAll.
type ClaimResult struct {
	Asset  string
	Amount types.BigInt
}

// Engine performs the accumulator/debt/pending bookkeeping. It is stateless;
// all reads and writes go through the transactional store view passed into
// each call, so an operation's effects commit or roll back with the caller's
// transaction.
type Engine struct{}

// NewEngine creates a dividend accounting engine
func NewEngine() *Engine {
	return &Engine{}
}

// Deposit distributes amount of asset across the current holders of a series
// by advancing the accumulator. The caller is responsible for actually
// collecting the funds.
func (e *Engine) Deposit(ctx context.Context, tx store.Store, classID, nonceID uint64, asset string, amount types.BigInt) error {
	if amount.Sign() <= 0 {
		return domain.ErrZeroDeposit
	}

	nonce, err := tx.GetBondNonce(ctx, classID, nonceID)
	if err != nil {
		return err
	}
	if nonce == nil {
		return domain.ErrNonceNotFound
	}
	if nonce.TotalSupply.Sign() <= 0 {
		return domain.ErrZeroSupply
	}

	acc, err := tx.GetAccumulator(ctx, classID, nonceID, asset)
	if err != nil {
		return err
	}
	if acc == nil {
		acc = &schema.DividendAccumulator{
			ClassID:        classID,
			NonceID:        nonceID,
			Asset:          asset,
			AccPerUnit:     types.NewBigInt(0),
			TotalDeposited: types.NewBigInt(0),
		}
	}

	acc.AccPerUnit = acc.AccPerUnit.Add(amount.Mul(domain.Precision).Div(nonce.TotalSupply))
	acc.TotalDeposited = acc.TotalDeposited.Add(amount)

	if err := tx.SaveAccumulator(ctx, acc); err != nil {
		return err
	}
	return tx.AddDepositedAsset(ctx, classID, nonceID, asset)
}

// Claimable returns what the holder could claim right now for one asset
func (e *Engine) Claimable(ctx context.Context, tx store.Store, holder string, classID, nonceID uint64, asset string) (types.BigInt, error) {
	accrued, pos, err := e.accrued(ctx, tx, holder, classID, nonceID, asset)
	if err != nil {
		return types.BigInt{}, err
	}

	claimable := accrued.Sub(pos.Debt).Add(pos.Pending)
	if claimable.Sign() < 0 {
		return types.BigInt{}, domain.ErrAccountingInvariant
	}
	return claimable, nil
}

// Claim consumes the holder's claimable amount for one asset and returns it.
// The caller pays the holder after all bookkeeping is written.
func (e *Engine) Claim(ctx context.Context, tx store.Store, holder string, classID, nonceID uint64, asset string) (types.BigInt, error) {
	accrued, pos, err := e.accrued(ctx, tx, holder, classID, nonceID, asset)
	if err != nil {
		return types.BigInt{}, err
	}

	claimable := accrued.Sub(pos.Debt).Add(pos.Pending)
	if claimable.Sign() < 0 {
		return types.BigInt{}, domain.ErrAccountingInvariant
	}
	if claimable.IsZero() {
		return types.BigInt{}, domain.ErrNothingToClaim
	}

	pos.Debt = accrued
	pos.Pending = types.NewBigInt(0)
	pos.TotalClaimed = pos.TotalClaimed.Add(claimable)
	if err := tx.SavePosition(ctx, pos); err != nil {
		return types.BigInt{}, err
	}
	return claimable, nil
}

// ClaimAll claims every deposited asset of a series in first-deposit order,
// skipping assets with nothing accrued. It fails with ErrNothingToClaim only
// when every asset is zero.
func (e *Engine) ClaimAll(ctx context.Context, tx store.Store, holder string, classID, nonceID uint64) ([]ClaimResult, error) {
	assets, err := tx.ListDepositedAssets(ctx, classID, nonceID)
	if err != nil {
		return nil, err
	}

	var results []ClaimResult
	for _, asset := range assets {
		claimable, err := e.Claimable(ctx, tx, holder, classID, nonceID, asset)
		if err != nil {
			return nil, err
		}
		if claimable.IsZero() {
			continue
		}

		amount, err := e.Claim(ctx, tx, holder, classID, nonceID, asset)
		if err != nil {
			return nil, err
		}
		results = append(results, ClaimResult{Asset: asset, Amount: amount})
	}

	if len(results) == 0 {
		return nil, domain.ErrNothingToClaim
	}
	return results, nil
}

// SettleOnTransfer freezes both parties' accrual ahead of a balance change of
// amount units from from to to. Pass NullHolder as from for a mint leg and as
// to for a burn leg. It must run against pre-delta balances; the caller
// applies the balance change afterwards, inside the same transaction.
func (e *Engine) SettleOnTransfer(ctx context.Context, tx store.Store, from, to string, classID, nonceID uint64, amount types.BigInt) error {
	if amount.IsZero() {
		return domain.ErrZeroAmount
	}

	assets, err := tx.ListDepositedAssets(ctx, classID, nonceID)
	if err != nil {
		return err
	}

	for _, asset := range assets {
		if from != NullHolder {
			if err := e.settleLeg(ctx, tx, from, classID, nonceID, asset, amount.Neg()); err != nil {
				return err
			}
		}
		if to != NullHolder {
			if err := e.settleLeg(ctx, tx, to, classID, nonceID, asset, amount); err != nil {
				return err
			}
		}
	}
	return nil
}

// settleLeg moves one party's earned-but-unclaimed accrual into pending and
// rebases its debt to the post-delta balance at the current accumulator
func (e *Engine) settleLeg(ctx context.Context, tx store.Store, holder string, classID, nonceID uint64, asset string, delta types.BigInt) error {
	acc, err := tx.GetAccumulator(ctx, classID, nonceID, asset)
	if err != nil {
		return err
	}
	if acc == nil {
		return nil
	}

	balance, err := tx.GetBalance(ctx, holder, classID, nonceID)
	if err != nil {
		return err
	}

	pos, err := e.position(ctx, tx, holder, classID, nonceID, asset)
	if err != nil {
		return err
	}

	earned := balance.Mul(acc.AccPerUnit).Div(domain.Precision).Sub(pos.Debt)
	if earned.Sign() < 0 {
		return domain.ErrAccountingInvariant
	}

	pos.Pending = pos.Pending.Add(earned)
	pos.Debt = balance.Add(delta).Mul(acc.AccPerUnit).Div(domain.Precision)
	return tx.SavePosition(ctx, pos)
}

// accrued returns balance*acc/Precision and the holder's position row
func (e *Engine) accrued(ctx context.Context, tx store.Store, holder string, classID, nonceID uint64, asset string) (types.BigInt, *schema.HolderPosition, error) {
	pos, err := e.position(ctx, tx, holder, classID, nonceID, asset)
	if err != nil {
		return types.BigInt{}, nil, err
	}

	acc, err := tx.GetAccumulator(ctx, classID, nonceID, asset)
	if err != nil {
		return types.BigInt{}, nil, err
	}
	if acc == nil {
		return types.NewBigInt(0), pos, nil
	}

	balance, err := tx.GetBalance(ctx, holder, classID, nonceID)
	if err != nil {
		return types.BigInt{}, nil, err
	}
	return balance.Mul(acc.AccPerUnit).Div(domain.Precision), pos, nil
}

func (e *Engine) position(ctx context.Context, tx store.Store, holder string, classID, nonceID uint64, asset string) (*schema.HolderPosition, error) {
	pos, err := tx.GetPosition(ctx, holder, classID, nonceID, asset)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		pos = &schema.HolderPosition{
			Holder:       holder,
			ClassID:      classID,
			NonceID:      nonceID,
			Asset:        asset,
			Debt:         types.NewBigInt(0),
			Pending:      types.NewBigInt(0),
			TotalClaimed: types.NewBigInt(0),
		}
	}
	return pos, nil
}
