package billing

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/subscription"
	"github.com/stripe/stripe-go/v78/webhook"
)

// ParseEvent verifies the webhook signature and normalizes the payload.
// Verification failures map to ErrInvalidSignature so the handler can
// reject without leaking why.
func ParseEvent(payload []byte, signatureHeader, secret string) (*ProviderEvent, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return normalizeEvent(event)
}

func normalizeEvent(event stripe.Event) (*ProviderEvent, error) {
	ev := &ProviderEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}

	switch ev.Type {
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, err
		}
		ev.Subscription = normalizeSubscription(&sub)

	case EventCheckoutCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, err
		}
		// the session carries only the subscription id; fetch the full
		// object to get the price and period
		if sess.Subscription != nil && sess.Subscription.ID != "" {
			full, err := subscription.Get(sess.Subscription.ID, nil)
			if err != nil {
				return nil, err
			}
			ev.Subscription = normalizeSubscription(full)
		}

	case EventInvoicePaid, EventInvoiceFailed:
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return nil, err
		}
		ev.Invoice = normalizeInvoice(&inv)
	}

	return ev, nil
}

func normalizeSubscription(sub *stripe.Subscription) *SubscriptionData {
	data := &SubscriptionData{
		ProviderSubscriptionID: sub.ID,
		Status:                 string(sub.Status),
		CurrentPeriodStart:     unixTime(sub.CurrentPeriodStart),
		CurrentPeriodEnd:       unixTime(sub.CurrentPeriodEnd),
		CancelAtPeriodEnd:      sub.CancelAtPeriodEnd,
		CanceledAt:             unixTime(sub.CanceledAt),
	}
	if sub.Customer != nil {
		data.ProviderCustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		data.PriceID = sub.Items.Data[0].Price.ID
	}
	return data
}

func normalizeInvoice(inv *stripe.Invoice) *InvoiceData {
	data := &InvoiceData{
		ProviderInvoiceID: inv.ID,
		AmountCents:       inv.AmountPaid,
		Currency:          string(inv.Currency),
	}
	if data.AmountCents == 0 {
		data.AmountCents = inv.AmountDue
	}
	if inv.Customer != nil {
		data.ProviderCustomerID = inv.Customer.ID
	}
	if inv.Subscription != nil {
		data.ProviderSubscriptionID = inv.Subscription.ID
	}
	return data
}

func unixTime(v int64) *time.Time {
	if v == 0 {
		return nil
	}
	t := time.Unix(v, 0).UTC()
	return &t
}
