package billing

import (
	"errors"
	"time"
)

// Event type strings as delivered by the provider.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
	EventInvoicePaid         = "invoice.payment_succeeded"
	EventInvoiceFailed       = "invoice.payment_failed"
)

var (
	// ErrInvalidSignature means the payload failed signature verification.
	ErrInvalidSignature = errors.New("billing: invalid webhook signature")
	// ErrUnknownPrice means the event references a price id with no tier mapping.
	ErrUnknownPrice = errors.New("billing: unmapped price id")
	// ErrUnresolvedUser means the provider customer id matches no local user.
	ErrUnresolvedUser = errors.New("billing: customer id matches no user")
)

// SubscriptionData is the provider-neutral subscription payload extracted
// from a webhook event.
type SubscriptionData struct {
	ProviderSubscriptionID string
	ProviderCustomerID     string
	PriceID                string
	Status                 string
	CurrentPeriodStart     *time.Time
	CurrentPeriodEnd       *time.Time
	CancelAtPeriodEnd      bool
	CanceledAt             *time.Time
}

// InvoiceData is the provider-neutral invoice payload.
type InvoiceData struct {
	ProviderInvoiceID      string
	ProviderSubscriptionID string
	ProviderCustomerID     string
	AmountCents            int64
	Currency               string
}

// ProviderEvent is one normalized webhook delivery. Exactly one of
// Subscription/Invoice is set for the event types that carry them.
type ProviderEvent struct {
	ID           string
	Type         string
	Subscription *SubscriptionData
	Invoice      *InvoiceData
}

// Outcome reports what applying an event did.
type Outcome struct {
	Duplicate bool
	Ignored   bool
	UserID    uint
	Tier      int
}
