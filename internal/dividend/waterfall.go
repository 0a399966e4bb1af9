package dividend

import (
	"context"

	"github.com/structfi/bondledger/internal/domain"
	"github.com/structfi/bondledger/internal/store"
	"github.com/structfi/bondledger/internal/types"
)

// SplitWaterfall resolves a two-tier distribution: the senior series is owed
// its entitlement first, capped at what is available, and the junior series
// absorbs the remainder.
func SplitWaterfall(totalAmount, seniorEntitlement types.BigInt) (senior, junior types.BigInt) {
	senior = types.MinBigInt(seniorEntitlement, totalAmount)
	if senior.Sign() < 0 {
		senior = types.NewBigInt(0)
	}
	return senior, totalAmount.Sub(senior)
}

// DepositWaterfall distributes totalAmount of asset across a senior and a
// junior series. Each non-zero leg runs the ordinary deposit logic with its
// own zero-supply check; a failing leg fails the whole distribution.
func (e *Engine) DepositWaterfall(ctx context.Context, tx store.Store, seniorClassID, seniorNonceID, juniorClassID, juniorNonceID uint64, asset string, totalAmount, seniorEntitlement types.BigInt) (seniorAmount, juniorAmount types.BigInt, err error) {
	if totalAmount.Sign() <= 0 {
		return types.BigInt{}, types.BigInt{}, domain.ErrZeroDeposit
	}

	seniorAmount, juniorAmount = SplitWaterfall(totalAmount, seniorEntitlement)

	if seniorAmount.Sign() > 0 {
		if err := e.Deposit(ctx, tx, seniorClassID, seniorNonceID, asset, seniorAmount); err != nil {
			return types.BigInt{}, types.BigInt{}, err
		}
	}
	if juniorAmount.Sign() > 0 {
		if err := e.Deposit(ctx, tx, juniorClassID, juniorNonceID, asset, juniorAmount); err != nil {
			return types.BigInt{}, types.BigInt{}, err
		}
	}
	return seniorAmount, juniorAmount, nil
}
