package ledger

import (
	"context"

	"github.com/structfi/bondledger/internal/domain"
	"github.com/structfi/bondledger/internal/store"
	"github.com/structfi/bondledger/internal/store/schema"
)

// Settings returns the administrative wiring of the deployment
func (s *Service) Settings(ctx context.Context) (*schema.LedgerSettings, error) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = &schema.LedgerSettings{ID: 1}
	}
	return settings, nil
}

// SetController replaces the controller identity
func (s *Service) SetController(ctx context.Context, controller string) error {
	return s.updateSettings(ctx, controller, func(settings *schema.LedgerSettings) {
		settings.Controller = controller
	})
}

// SetAccountingEngine replaces the accounting engine address used by split
// deployments
func (s *Service) SetAccountingEngine(ctx context.Context, engine string) error {
	return s.updateSettings(ctx, engine, func(settings *schema.LedgerSettings) {
		settings.AccountingEngine = engine
	})
}

// SetTranchingHelper replaces the external tranching helper address
func (s *Service) SetTranchingHelper(ctx context.Context, helper string) error {
	return s.updateSettings(ctx, helper, func(settings *schema.LedgerSettings) {
		settings.TranchingHelper = helper
	})
}

func (s *Service) updateSettings(ctx context.Context, value string, apply func(*schema.LedgerSettings)) error {
	if value == "" {
		return domain.ErrInvalidAddress
	}

	var events []*domain.LedgerEvent
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		events = events[:0]
		settings, err := tx.GetSettings(ctx)
		if err != nil {
			return err
		}
		if settings == nil {
			settings = &schema.LedgerSettings{ID: 1}
		}

		apply(settings)
		if err := tx.SaveSettings(ctx, settings); err != nil {
			return err
		}

		event := s.newEvent(domain.EventTypeSettingsChanged)
		events = append(events, event)
		return s.journal(ctx, tx, event)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events)
	return nil
}
