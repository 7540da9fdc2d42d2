package payments

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/phillip/nonprofit-site-go/models"
)

const WarningNotConfigured = "Stripe is not configured (STRIPE_SECRET_KEY missing); no payment link was changed"

// LinkStore persists provider identifiers on a project.
type LinkStore interface {
	SetStripeLink(ctx context.Context, id primitive.ObjectID, link models.StripeLink) error
	ListBySyncState(ctx context.Context, states ...string) ([]models.Project, error)
}

// Synchronizer runs the create-product → create-price → create-link sequence
// for a stored project. Each step's identifier is written back before the
// next step starts, so the persisted sync state always says where to resume.
type Synchronizer struct {
	provider Provider // nil when no secret key is configured
	projects LinkStore
	appURL   string
	grace    time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

func NewSynchronizer(provider Provider, projects LinkStore, appURL string, grace time.Duration, log zerolog.Logger) *Synchronizer {
	return &Synchronizer{
		provider: provider,
		projects: projects,
		appURL:   appURL,
		grace:    grace,
		log:      log.With().Str("component", "payments").Logger(),
		now:      time.Now,
	}
}

func (s *Synchronizer) Enabled() bool { return s.provider != nil }

// Link resumes the provider sequence for p from the first missing identifier.
// p.StripeLink is updated in place. A non-empty return value is a warning
// for the caller; the project document itself is never rolled back.
func (s *Synchronizer) Link(ctx context.Context, p *models.Project) string {
	if s.provider == nil {
		p.SyncState = models.SyncSkipped
		p.SyncError = ""
		if err := s.projects.SetStripeLink(ctx, p.ID, p.StripeLink); err != nil {
			s.log.Error().Err(err).Str("slug", p.Slug).Msg("record skipped stripe sync")
		}
		return "Stripe is not configured (STRIPE_SECRET_KEY missing); project saved without a payment link"
	}

	if p.StripeLink.Complete() {
		if p.SyncState != models.SyncLinked {
			p.SyncState = models.SyncLinked
			p.SyncError = ""
			if err := s.projects.SetStripeLink(ctx, p.ID, p.StripeLink); err != nil {
				return s.writeBackWarning(p, err)
			}
		}
		return ""
	}

	if p.ProductID == "" {
		id, err := s.provider.CreateProduct(ctx, ProductSpec{
			ProjectID:   p.ID.Hex(),
			Slug:        p.Slug,
			Title:       p.Title,
			Description: p.Description,
		})
		if err != nil {
			return s.fail(ctx, p, "product creation", err)
		}
		p.ProductID = id
		if w := s.checkpoint(ctx, p); w != "" {
			return w
		}
	}

	if p.PriceID == "" {
		id, err := s.provider.CreatePrice(ctx, p.ProductID)
		if err != nil {
			return s.fail(ctx, p, "price creation", err)
		}
		p.PriceID = id
		if w := s.checkpoint(ctx, p); w != "" {
			return w
		}
	}

	link, err := s.provider.CreatePaymentLink(ctx, p.PriceID, s.redirectURL(p.Slug), map[string]string{
		"projectId": p.ID.Hex(),
		"slug":      p.Slug,
	})
	if err != nil {
		return s.fail(ctx, p, "payment link creation", err)
	}
	p.PaymentLinkID = link.ID
	p.PaymentLinkURL = link.URL
	p.SyncState = models.SyncLinked
	p.SyncError = ""
	if err := s.projects.SetStripeLink(ctx, p.ID, p.StripeLink); err != nil {
		return s.writeBackWarning(p, err)
	}

	s.log.Info().Str("slug", p.Slug).Str("product", p.ProductID).Msg("project linked to stripe")
	return ""
}

// Unlink deactivates the project's payment link, leaving product and price
// untouched so historical billing objects stay intact.
func (s *Synchronizer) Unlink(ctx context.Context, p *models.Project) string {
	if s.provider == nil {
		return WarningNotConfigured
	}
	if p.PaymentLinkID == "" && p.PaymentLinkURL == "" {
		return ""
	}

	linkID := ResolvePaymentLinkID(p.StripeLink)
	if linkID == "" {
		s.log.Warn().Str("slug", p.Slug).Str("url", p.PaymentLinkURL).Msg("payment link id not recognised")
		return fmt.Sprintf("Could not determine the Stripe payment link id from %q; the link was left active", p.PaymentLinkURL)
	}

	if err := s.provider.DeactivatePaymentLink(ctx, linkID); err != nil {
		s.log.Error().Err(err).Str("slug", p.Slug).Str("link", linkID).Msg("deactivate payment link")
		return fmt.Sprintf("Failed to deactivate Stripe payment link: %v", err)
	}

	s.log.Info().Str("slug", p.Slug).Str("link", linkID).Msg("payment link deactivated")
	return ""
}

// ReconcileReport summarises one recovery pass.
type ReconcileReport struct {
	Examined int      `json:"examined"`
	Linked   int      `json:"linked"`
	Failed   int      `json:"failed"`
	Deferred int      `json:"deferred"`
	Warnings []string `json:"warnings,omitempty"`
}

// Reconcile resumes every active project whose linkage was interrupted.
// Pending projects younger than the grace period may still be mid-request
// and are deferred.
func (s *Synchronizer) Reconcile(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport
	if s.provider == nil {
		return report, ErrNotConfigured
	}

	projects, err := s.projects.ListBySyncState(ctx, models.SyncPending, models.SyncPartial, models.SyncSkipped)
	if err != nil {
		return report, fmt.Errorf("list unsynced projects: %w", err)
	}

	cutoff := s.now().Add(-s.grace)
	for i := range projects {
		p := &projects[i]
		if p.Status != models.ProjectActive {
			continue
		}
		report.Examined++
		if p.SyncState == models.SyncPending && p.CreatedAt.After(cutoff) {
			report.Deferred++
			continue
		}
		if w := s.Link(ctx, p); w != "" {
			report.Failed++
			report.Warnings = append(report.Warnings, p.Slug+": "+w)
			continue
		}
		report.Linked++
	}

	s.log.Info().
		Int("examined", report.Examined).
		Int("linked", report.Linked).
		Int("failed", report.Failed).
		Int("deferred", report.Deferred).
		Msg("stripe reconcile finished")
	return report, nil
}

func (s *Synchronizer) redirectURL(slug string) string {
	return s.appURL + "/donate/thank-you?project=" + url.QueryEscape(slug)
}

// checkpoint persists an intermediate identifier.
func (s *Synchronizer) checkpoint(ctx context.Context, p *models.Project) string {
	p.SyncState = models.SyncPending
	if err := s.projects.SetStripeLink(ctx, p.ID, p.StripeLink); err != nil {
		return s.writeBackWarning(p, err)
	}
	return ""
}

func (s *Synchronizer) fail(ctx context.Context, p *models.Project, step string, cause error) string {
	if p.ProductID != "" || p.PriceID != "" {
		p.SyncState = models.SyncPartial
	} else {
		p.SyncState = models.SyncPending
	}
	p.SyncError = fmt.Sprintf("%s: %v", step, cause)

	s.log.Error().Err(cause).Str("slug", p.Slug).Str("step", step).Str("state", p.SyncState).Msg("stripe sync failed")
	if err := s.projects.SetStripeLink(ctx, p.ID, p.StripeLink); err != nil {
		s.log.Error().Err(err).Str("slug", p.Slug).Msg("record stripe sync failure")
	}
	return fmt.Sprintf("Project saved, but Stripe %s failed: %v", step, cause)
}

func (s *Synchronizer) writeBackWarning(p *models.Project, err error) string {
	s.log.Error().Err(err).Str("slug", p.Slug).Msg("write back stripe ids")
	return fmt.Sprintf("Stripe objects were created but could not be saved on the project: %v", err)
}
