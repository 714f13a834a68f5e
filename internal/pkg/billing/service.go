// Package billing syncs provider subscription state into local tables
// and keeps the processed-events ledger. Every delivery is applied at
// most once; the ledger row is written only after the event's side
// effects succeeded, so a crash mid-apply lets the provider retry.
package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/ryvynn-app/ryvynn/app/models"
	"github.com/ryvynn-app/ryvynn/app/repository"
	"github.com/ryvynn-app/ryvynn/internal/pkg/entitlements"
	"gorm.io/gorm"
)

// Service applies normalized provider events.
type Service struct {
	users    repository.UserRepository
	subs     repository.SubscriptionRepository
	ledger   repository.WebhookEventRepository
	payments repository.PaymentEventRepository
	ents     *entitlements.Service
	prices   *PriceMap
}

// NewService creates a billing service
func NewService(
	users repository.UserRepository,
	subs repository.SubscriptionRepository,
	ledger repository.WebhookEventRepository,
	payments repository.PaymentEventRepository,
	ents *entitlements.Service,
	prices *PriceMap,
) *Service {
	return &Service{
		users:    users,
		subs:     subs,
		ledger:   ledger,
		payments: payments,
		ents:     ents,
		prices:   prices,
	}
}

// Apply processes one event. Duplicates (by provider event id) are
// reported, not reapplied. Structural failures (unmapped price, unknown
// customer) return an error without a ledger row so the provider keeps
// retrying until a deploy or backfill fixes the mapping.
func (s *Service) Apply(ev *ProviderEvent) (*Outcome, error) {
	if ev == nil || ev.ID == "" {
		return nil, errors.New("billing: event id is required")
	}

	exists, err := s.ledger.Exists(ev.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return &Outcome{Duplicate: true}, nil
	}

	var out *Outcome
	switch ev.Type {
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventCheckoutCompleted:
		out, err = s.applySubscription(ev.Subscription)
	case EventSubscriptionDeleted:
		out, err = s.applyDeleted(ev.Subscription)
	case EventInvoicePaid:
		out, err = s.applyInvoice(ev.Invoice, models.PaymentStatusSucceeded)
	case EventInvoiceFailed:
		out, err = s.applyInvoiceFailed(ev.Invoice)
	default:
		out = &Outcome{Ignored: true}
	}
	if err != nil {
		return nil, err
	}

	created, err := s.ledger.CreateIfNotExists(&models.WebhookEvent{
		ProviderEventID: ev.ID,
		EventType:       ev.Type,
	})
	if err != nil {
		return nil, err
	}
	if !created {
		// a concurrent delivery beat us; effects are idempotent upserts
		out.Duplicate = true
	}
	return out, nil
}

func (s *Service) applySubscription(data *SubscriptionData) (*Outcome, error) {
	if data == nil || data.ProviderSubscriptionID == "" {
		// checkout sessions without a subscription (one-off payments)
		return &Outcome{Ignored: true}, nil
	}

	user, err := s.resolveUser(data.ProviderCustomerID)
	if err != nil {
		return nil, err
	}

	point, ok := s.prices.Lookup(data.PriceID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPrice, data.PriceID)
	}

	sub := &models.Subscription{
		UserID:                 user.ID,
		ProviderSubscriptionID: data.ProviderSubscriptionID,
		ProviderCustomerID:     data.ProviderCustomerID,
		PriceID:                data.PriceID,
		Tier:                   int(point.Tier),
		Status:                 normalizeStatus(data.Status),
		CurrentPeriodStart:     data.CurrentPeriodStart,
		CurrentPeriodEnd:       data.CurrentPeriodEnd,
		CancelAtPeriodEnd:      data.CancelAtPeriodEnd,
		CanceledAt:             data.CanceledAt,
	}
	if err := s.subs.Upsert(sub); err != nil {
		return nil, err
	}

	snap, err := s.ents.SyncUser(user.ID)
	if err != nil {
		return nil, err
	}
	return &Outcome{UserID: user.ID, Tier: int(snap.Tier)}, nil
}

func (s *Service) applyDeleted(data *SubscriptionData) (*Outcome, error) {
	if data == nil || data.ProviderSubscriptionID == "" {
		return &Outcome{Ignored: true}, nil
	}

	existing, err := s.subs.GetByProviderSubscriptionID(data.ProviderSubscriptionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// deletion for a subscription we never mirrored; nothing to revoke
		return &Outcome{Ignored: true}, nil
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	canceledAt := data.CanceledAt
	if canceledAt == nil {
		canceledAt = &now
	}

	existing.Status = models.SubscriptionStatusCanceled
	existing.CanceledAt = canceledAt
	existing.CancelAtPeriodEnd = false
	if err := s.subs.Upsert(existing); err != nil {
		return nil, err
	}

	snap, err := s.ents.SyncUser(existing.UserID)
	if err != nil {
		return nil, err
	}
	return &Outcome{UserID: existing.UserID, Tier: int(snap.Tier)}, nil
}

func (s *Service) applyInvoice(data *InvoiceData, status string) (*Outcome, error) {
	if data == nil || data.ProviderInvoiceID == "" {
		return &Outcome{Ignored: true}, nil
	}
	err := s.payments.Create(&models.PaymentEvent{
		ProviderInvoiceID:      data.ProviderInvoiceID,
		ProviderSubscriptionID: data.ProviderSubscriptionID,
		ProviderCustomerID:     data.ProviderCustomerID,
		AmountCents:            data.AmountCents,
		Currency:               data.Currency,
		Status:                 status,
	})
	if err != nil {
		return nil, err
	}
	return &Outcome{}, nil
}

// applyInvoiceFailed records the failure and moves the mirrored
// subscription to past_due, which stops entitling on the next sync.
func (s *Service) applyInvoiceFailed(data *InvoiceData) (*Outcome, error) {
	out, err := s.applyInvoice(data, models.PaymentStatusFailed)
	if err != nil || out.Ignored {
		return out, err
	}

	sub, err := s.subs.GetByProviderSubscriptionID(data.ProviderSubscriptionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	sub.Status = models.SubscriptionStatusPastDue
	if err := s.subs.Upsert(sub); err != nil {
		return nil, err
	}
	snap, err := s.ents.SyncUser(sub.UserID)
	if err != nil {
		return nil, err
	}
	return &Outcome{UserID: sub.UserID, Tier: int(snap.Tier)}, nil
}

func (s *Service) resolveUser(providerCustomerID string) (*models.User, error) {
	user, err := s.users.GetByStripeCustomerID(providerCustomerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvedUser, providerCustomerID)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func normalizeStatus(status string) string {
	switch status {
	case models.SubscriptionStatusActive,
		models.SubscriptionStatusTrialing,
		models.SubscriptionStatusPastDue,
		models.SubscriptionStatusCanceled,
		models.SubscriptionStatusIncomplete,
		models.SubscriptionStatusUnpaid:
		return status
	default:
		return models.SubscriptionStatusIncomplete
	}
}
