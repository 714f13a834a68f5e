package billing

import (
	"fmt"

	"github.com/ryvynn-app/ryvynn/app/models"
	"github.com/ryvynn-app/ryvynn/internal/pkg/tiers"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/customer"
)

// CreateCheckoutSession starts a provider checkout for a paid tier and
// returns the hosted payment URL. The provider customer is created on
// first purchase and pinned to the user so webhook events resolve back.
func (s *Service) CreateCheckoutSession(user *models.User, tier tiers.TierID, cadence Cadence, successURL, cancelURL string) (string, error) {
	priceID, ok := s.prices.PriceFor(tier, cadence)
	if !ok {
		return "", fmt.Errorf("%w: no price configured for tier %d (%s)", ErrUnknownPrice, tier, cadence)
	}

	customerID := user.StripeCustomerID
	if customerID == "" {
		params := &stripe.CustomerParams{
			Name:  stripe.String(user.Name),
			Email: stripe.String(user.Email),
		}
		c, err := customer.New(params)
		if err != nil {
			return "", err
		}
		customerID = c.ID
		user.StripeCustomerID = customerID
		if err := s.users.Update(user); err != nil {
			return "", err
		}
	}

	params := &stripe.CheckoutSessionParams{
		Customer:   stripe.String(customerID),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
	}

	sess, err := session.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}
