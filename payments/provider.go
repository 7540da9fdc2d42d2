// Package payments links donation projects to Stripe products, prices and
// payment links.
package payments

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strings"

	models "github.com/phillip/nonprofit-site-go/models"
)

var ErrNotConfigured = errors.New("stripe is not configured")

// ProductSpec is what the provider needs to describe a project.
type ProductSpec struct {
	ProjectID   string
	Slug        string
	Title       string
	Description string
}

type PaymentLink struct {
	ID  string
	URL string
}

// Provider is the subset of the payment API the synchronizer drives.
type Provider interface {
	CreateProduct(ctx context.Context, product ProductSpec) (string, error)
	CreatePrice(ctx context.Context, productID string) (string, error)
	CreatePaymentLink(ctx context.Context, priceID, redirectURL string, metadata map[string]string) (PaymentLink, error)
	DeactivatePaymentLink(ctx context.Context, linkID string) error
}

// ResolvePaymentLinkID returns the stored link id, or the plink_ id found in
// the last path segment of the stored URL. It returns "" when neither exists.
func ResolvePaymentLinkID(link models.StripeLink) string {
	if link.PaymentLinkID != "" {
		return link.PaymentLinkID
	}
	if link.PaymentLinkURL == "" {
		return ""
	}
	u, err := url.Parse(link.PaymentLinkURL)
	if err != nil {
		return ""
	}
	last := path.Base(u.Path)
	if strings.HasPrefix(last, "plink_") && len(last) > len("plink_") {
		return last
	}
	return ""
}
