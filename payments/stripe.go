package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeProvider implements Provider with the official Stripe client. Prices
// are "customer chooses amount" prices with a floor.
type StripeProvider struct {
	api       *client.API
	currency  string
	minAmount int64
}

func NewStripeProvider(secretKey, currency string, minAmountCents int64) *StripeProvider {
	return &StripeProvider{
		api:       client.New(secretKey, nil),
		currency:  currency,
		minAmount: minAmountCents,
	}
}

func (p *StripeProvider) CreateProduct(ctx context.Context, product ProductSpec) (string, error) {
	params := &stripe.ProductParams{
		Name: stripe.String(product.Title),
	}
	if product.Description != "" {
		params.Description = stripe.String(product.Description)
	}
	params.Context = ctx
	params.AddMetadata("projectId", product.ProjectID)
	params.AddMetadata("slug", product.Slug)

	prod, err := p.api.Products.New(params)
	if err != nil {
		return "", fmt.Errorf("create product: %w", err)
	}
	return prod.ID, nil
}

func (p *StripeProvider) CreatePrice(ctx context.Context, productID string) (string, error) {
	params := &stripe.PriceParams{
		Currency: stripe.String(p.currency),
		Product:  stripe.String(productID),
		CustomUnitAmount: &stripe.PriceCustomUnitAmountParams{
			Enabled: stripe.Bool(true),
			Minimum: stripe.Int64(p.minAmount),
		},
	}
	params.Context = ctx

	price, err := p.api.Prices.New(params)
	if err != nil {
		return "", fmt.Errorf("create price: %w", err)
	}
	return price.ID, nil
}

func (p *StripeProvider) CreatePaymentLink(ctx context.Context, priceID, redirectURL string, metadata map[string]string) (PaymentLink, error) {
	params := &stripe.PaymentLinkParams{
		LineItems: []*stripe.PaymentLinkLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		AfterCompletion: &stripe.PaymentLinkAfterCompletionParams{
			Type: stripe.String(string(stripe.PaymentLinkAfterCompletionTypeRedirect)),
			Redirect: &stripe.PaymentLinkAfterCompletionRedirectParams{
				URL: stripe.String(redirectURL),
			},
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	link, err := p.api.PaymentLinks.New(params)
	if err != nil {
		return PaymentLink{}, fmt.Errorf("create payment link: %w", err)
	}
	return PaymentLink{ID: link.ID, URL: link.URL}, nil
}

func (p *StripeProvider) DeactivatePaymentLink(ctx context.Context, linkID string) error {
	params := &stripe.PaymentLinkParams{Active: stripe.Bool(false)}
	params.Context = ctx
	if _, err := p.api.PaymentLinks.Update(linkID, params); err != nil {
		return fmt.Errorf("deactivate payment link %s: %w", linkID, err)
	}
	return nil
}
