// Package payments moves dividend assets between holders and the ledger
// treasury. Collection and payout are the only points where an operation
// touches systems outside the database transaction, so both are invoked as
// the final effect of the operation that needs them.
package payments

import (
	"context"
	"sync"

	"github.com/structfi/bondledger/internal/domain"
	"github.com/structfi/bondledger/internal/types"
)

// Transferor is the asset movement primitive consumed by deposit and claim
// paths. A failure aborts the whole surrounding operation.
//
//go:generate mockgen -source=transferor.go -destination=../mocks/transferor.go -package=mocks -mock_names=Transferor=MockTransferor
type Transferor interface {
	// Pull collects amount of asset from the counterparty into the treasury
	Pull(ctx context.Context, from string, asset domain.Asset, amount types.BigInt) error
	// Push pays amount of asset out of the treasury to the counterparty
	Push(ctx context.Context, to string, asset domain.Asset, amount types.BigInt) error
}

// RecordedTransfer is one Pull or Push observed by the Recorder.
type RecordedTransfer struct {
	Op           string // "pull" or "push"
	Counterparty string
	Asset        string
	Amount       types.BigInt
}

// Recorder is a Transferor that only records calls. Used in tests and in
// deployments where asset movement is handled by an external processor.
type Recorder struct {
	mu      sync.Mutex
	calls   []RecordedTransfer
	PullErr error
	PushErr error
}

// NewRecorder creates a recording no-op transferor
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Pull(_ context.Context, from string, asset domain.Asset, amount types.BigInt) error {
	if r.PullErr != nil {
		return r.PullErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, RecordedTransfer{Op: "pull", Counterparty: from, Asset: asset.String(), Amount: amount})
	return nil
}

func (r *Recorder) Push(_ context.Context, to string, asset domain.Asset, amount types.BigInt) error {
	if r.PushErr != nil {
		return r.PushErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, RecordedTransfer{Op: "push", Counterparty: to, Asset: asset.String(), Amount: amount})
	return nil
}

// Calls returns a copy of everything recorded so far
func (r *Recorder) Calls() []RecordedTransfer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordedTransfer{}, r.calls...)
}
