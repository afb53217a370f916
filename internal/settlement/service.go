package settlement

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roomieconnect/ledger/pkg/metrics"
)

// Common errors
var (
	ErrSameParty        = errors.New("payer and receiver must be different")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrMissingRef       = errors.New("external reference is required")
	ErrMissingParties   = errors.New("from and to users are required")
	ErrUnknownEventType = errors.New("unknown provider event type")
)

// Store is the persistence port the settlement ledger depends on.
type Store interface {
	InsertManual(ctx context.Context, s *Settlement) (*Settlement, error)
	// InsertProvider returns created=false when a settlement with the same
	// external reference already exists; the existing row is returned.
	InsertProvider(ctx context.Context, s *Settlement) (*Settlement, bool, error)
	MarkFailed(ctx context.Context, externalRef string) (bool, error)
	GetByExternalRef(ctx context.Context, externalRef string) (*Settlement, error)
	ListByGroupID(ctx context.Context, groupID int64) ([]*Settlement, error)
}

// Service handles settlement business logic
type Service struct {
	store Store
}

// NewService creates a new settlement service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// RecordManual validates and persists a manual settlement in completed status.
func (s *Service) RecordManual(ctx context.Context, req *RecordSettlementRequest) (*Settlement, error) {
	from, to, amount := req.From(), req.To(), req.Cents()
	if from == 0 || to == 0 {
		return nil, ErrMissingParties
	}
	if from == to {
		return nil, ErrSameParty
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	created, err := s.store.InsertManual(ctx, &Settlement{
		GroupID:     req.GroupID,
		FromUser:    from,
		ToUser:      to,
		AmountCents: amount,
		Note:        req.Note,
	})
	if err != nil {
		return nil, err
	}

	metrics.SettlementsRecorded.WithLabelValues("manual").Inc()
	return created, nil
}

// ApplyProviderEvent applies one webhook delivery. Confirmations insert a
// succeeded settlement exactly once per external reference; failures flip
// the matching settlement to failed. Both are safe to replay: the second
// and later deliveries of the same event are no-ops, never errors.
func (s *Service) ApplyProviderEvent(ctx context.Context, event *ProviderEventRequest) (*Settlement, error) {
	if event.ExternalRef == "" {
		return nil, ErrMissingRef
	}

	switch event.Type {
	case "confirmed":
		return s.applyConfirmation(ctx, event)
	case "failed":
		return s.applyFailure(ctx, event)
	default:
		return nil, ErrUnknownEventType
	}
}

func (s *Service) applyConfirmation(ctx context.Context, event *ProviderEventRequest) (*Settlement, error) {
	if event.FromUser == 0 || event.ToUser == 0 {
		return nil, ErrMissingParties
	}
	if event.FromUser == event.ToUser {
		return nil, ErrSameParty
	}
	if event.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	ref := event.ExternalRef
	settlement, created, err := s.store.InsertProvider(ctx, &Settlement{
		GroupID:     event.GroupID,
		FromUser:    event.FromUser,
		ToUser:      event.ToUser,
		AmountCents: event.AmountCents,
		Note:        event.Note,
		ExternalRef: &ref,
	})
	if err != nil {
		return nil, err
	}

	if !created {
		// Retried delivery; the first one already landed. A reference that
		// previously failed stays failed.
		slog.Info("duplicate provider confirmation ignored", "external_ref", ref)
		metrics.ProviderEvents.WithLabelValues("duplicate").Inc()
		return settlement, nil
	}

	metrics.SettlementsRecorded.WithLabelValues("provider").Inc()
	metrics.ProviderEvents.WithLabelValues("confirmed").Inc()
	return settlement, nil
}

func (s *Service) applyFailure(ctx context.Context, event *ProviderEventRequest) (*Settlement, error) {
	updated, err := s.store.MarkFailed(ctx, event.ExternalRef)
	if err != nil {
		return nil, err
	}
	if !updated {
		slog.Info("provider failure with no matching settlement", "external_ref", event.ExternalRef)
		metrics.ProviderEvents.WithLabelValues("duplicate").Inc()
	} else {
		metrics.ProviderEvents.WithLabelValues("failed").Inc()
	}

	return s.store.GetByExternalRef(ctx, event.ExternalRef)
}

// ListByGroupID retrieves a group's settlements, newest first.
func (s *Service) ListByGroupID(ctx context.Context, groupID int64) ([]*Settlement, error) {
	return s.store.ListByGroupID(ctx, groupID)
}
