package ledger

import (
	"context"
	"fmt"

	"github.com/structfi/bondledger/internal/domain"
	"github.com/structfi/bondledger/internal/store"
	"github.com/structfi/bondledger/internal/store/schema"
	"github.com/structfi/bondledger/internal/types"
)

// BondClass returns a class by id
func (s *Service) BondClass(ctx context.Context, classID uint64) (*schema.BondClass, error) {
	class, err := s.store.GetBondClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, domain.ErrClassNotFound
	}
	return class, nil
}

// BondNonce returns a batch by series
func (s *Service) BondNonce(ctx context.Context, classID, nonceID uint64) (*schema.BondNonce, error) {
	nonce, err := s.store.GetBondNonce(ctx, classID, nonceID)
	if err != nil {
		return nil, err
	}
	if nonce == nil {
		return nil, domain.ErrNonceNotFound
	}
	return nonce, nil
}

// BalanceOf returns a holder's unit balance for a series
func (s *Service) BalanceOf(ctx context.Context, holder string, classID, nonceID uint64) (types.BigInt, error) {
	holder, err := normalizeHolder(holder)
	if err != nil {
		return types.BigInt{}, err
	}
	return s.store.GetBalance(ctx, holder, classID, nonceID)
}

// TotalSupply returns the outstanding unit count of a series
func (s *Service) TotalSupply(ctx context.Context, classID, nonceID uint64) (types.BigInt, error) {
	nonce, err := s.BondNonce(ctx, classID, nonceID)
	if err != nil {
		return types.BigInt{}, err
	}
	return nonce.TotalSupply, nil
}

// AgentClassIDs returns the ids of every class backed by an agent
func (s *Service) AgentClassIDs(ctx context.Context, agentID string) ([]uint64, error) {
	return s.store.ListClassIDsByAgent(ctx, agentID)
}

// ClassesByTranche returns an agent's classes in one seniority tier
func (s *Service) ClassesByTranche(ctx context.Context, agentID string, tranche domain.Tranche) ([]*schema.BondClass, error) {
	if !domain.IsValidTranche(tranche) {
		return nil, fmt.Errorf("unknown tranche %q", tranche)
	}
	return s.store.ListClassesByAgentTranche(ctx, agentID, tranche)
}

// Accumulator returns the dividend accumulator of a (series, asset). A series
// that never saw a deposit of the asset reads as zero.
func (s *Service) Accumulator(ctx context.Context, classID, nonceID uint64, asset domain.Asset) (*schema.DividendAccumulator, error) {
	acc, err := s.store.GetAccumulator(ctx, classID, nonceID, asset.String())
	if err != nil {
		return nil, err
	}
	if acc == nil {
		acc = &schema.DividendAccumulator{
			ClassID:        classID,
			NonceID:        nonceID,
			Asset:          asset.String(),
			AccPerUnit:     types.NewBigInt(0),
			TotalDeposited: types.NewBigInt(0),
		}
	}
	return acc, nil
}

// DepositedAssets returns a series' assets in first-deposit order
func (s *Service) DepositedAssets(ctx context.Context, classID, nonceID uint64) ([]string, error) {
	return s.store.ListDepositedAssets(ctx, classID, nonceID)
}

// IsOperatorApproved reports whether operator may move owner's units
func (s *Service) IsOperatorApproved(ctx context.Context, owner, operator string) (bool, error) {
	owner, err := normalizeHolder(owner)
	if err != nil {
		return false, err
	}
	operator, err = normalizeHolder(operator)
	if err != nil {
		return false, err
	}
	return s.store.IsOperatorApproved(ctx, owner, operator)
}

// Events pages through the committed event journal
func (s *Service) Events(ctx context.Context, filter store.LedgerEventFilter) ([]*schema.LedgerEvent, error) {
	return s.store.ListLedgerEvents(ctx, filter)
}
