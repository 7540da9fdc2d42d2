package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ProjectActive   = "active"
	ProjectFunded   = "funded"
	ProjectArchived = "archived"
)

// Stripe linkage states. A project is stored before any provider call, so
// every project starts in SyncPending.
const (
	SyncPending = "pending"
	SyncLinked  = "linked"
	SyncPartial = "partial"
	SyncSkipped = "skipped"
)

type Project struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Slug            string             `bson:"slug" json:"slug"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	FullDescription string             `bson:"fullDescription,omitempty" json:"fullDescription,omitempty"`
	Image           *ImageMeta         `bson:"image,omitempty" json:"image,omitempty"`
	GoalAmount      float64            `bson:"goalAmount" json:"goalAmount"`
	CurrentAmount   float64            `bson:"currentAmount" json:"currentAmount"`
	Status          string             `bson:"status" json:"status"`
	StartDate       *time.Time         `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate         *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"`

	StripeLink `bson:",inline"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// StripeLink holds the provider identifiers written back by the synchronizer.
type StripeLink struct {
	ProductID      string `bson:"stripeProductId,omitempty" json:"stripeProductId,omitempty"`
	PriceID        string `bson:"stripePriceId,omitempty" json:"stripePriceId,omitempty"`
	PaymentLinkID  string `bson:"stripePaymentLinkId,omitempty" json:"stripePaymentLinkId,omitempty"`
	PaymentLinkURL string `bson:"stripePaymentLinkUrl,omitempty" json:"stripePaymentLinkUrl,omitempty"`
	SyncState      string `bson:"stripeSyncState,omitempty" json:"stripeSyncState,omitempty"`
	SyncError      string `bson:"stripeSyncError,omitempty" json:"stripeSyncError,omitempty"`
}

// Complete reports whether product, price and payment link all exist.
func (l StripeLink) Complete() bool {
	return l.ProductID != "" && l.PriceID != "" && l.PaymentLinkURL != ""
}

type ProjectPatch struct {
	Slug            *string    `bson:"slug,omitempty" json:"slug" binding:"omitnil,min=2,slug"`
	Title           *string    `bson:"title,omitempty" json:"title" binding:"omitnil,min=3"`
	Description     *string    `bson:"description,omitempty" json:"description" binding:"omitnil,min=10"`
	FullDescription *string    `bson:"fullDescription,omitempty" json:"fullDescription"`
	Image           *ImageMeta `bson:"image,omitempty" json:"image"`
	GoalAmount      *float64   `bson:"goalAmount,omitempty" json:"goalAmount" binding:"omitnil,gt=0"`
	CurrentAmount   *float64   `bson:"currentAmount,omitempty" json:"currentAmount" binding:"omitnil,gte=0"`
	Status          *string    `bson:"status,omitempty" json:"status" binding:"omitnil,oneof=active funded archived"`
	StartDateRaw    *string    `bson:"-" json:"startDate"`
	EndDateRaw      *string    `bson:"-" json:"endDate"`
	StartDate       *time.Time `bson:"startDate,omitempty" json:"-"`
	EndDate         *time.Time `bson:"endDate,omitempty" json:"-"`
	ClearStartDate  bool       `bson:"-" json:"-"`
	ClearEndDate    bool       `bson:"-" json:"-"`
	UpdatedAt       *time.Time `bson:"updatedAt,omitempty" json:"-"`
}

// Empty must be called after the raw date strings have been parsed into
// StartDate and EndDate. An empty raw date sets the matching Clear flag.
func (p ProjectPatch) Empty() bool {
	return p.Slug == nil && p.Title == nil && p.Description == nil && p.FullDescription == nil &&
		p.Image == nil && p.GoalAmount == nil && p.CurrentAmount == nil && p.Status == nil &&
		p.StartDate == nil && p.EndDate == nil && !p.ClearStartDate && !p.ClearEndDate
}

func (p ProjectPatch) Apply(pr *Project) {
	setString(&pr.Slug, p.Slug)
	setString(&pr.Title, p.Title)
	setString(&pr.Description, p.Description)
	setString(&pr.FullDescription, p.FullDescription)
	setString(&pr.Status, p.Status)
	if p.Image != nil {
		img := *p.Image
		pr.Image = &img
	}
	if p.GoalAmount != nil {
		pr.GoalAmount = *p.GoalAmount
	}
	if p.CurrentAmount != nil {
		pr.CurrentAmount = *p.CurrentAmount
	}
	if p.StartDate != nil {
		t := *p.StartDate
		pr.StartDate = &t
	}
	if p.EndDate != nil {
		t := *p.EndDate
		pr.EndDate = &t
	}
	if p.ClearStartDate {
		pr.StartDate = nil
	}
	if p.ClearEndDate {
		pr.EndDate = nil
	}
	if p.UpdatedAt != nil {
		pr.UpdatedAt = *p.UpdatedAt
	}
}

// ProjectFilter matches any of Statuses; an empty filter matches everything.
type ProjectFilter struct {
	Statuses []string
}

func ProjectsWithStatus(statuses ...string) ProjectFilter {
	return ProjectFilter{Statuses: statuses}
}

func (f ProjectFilter) Match(p *Project) bool {
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if p.Status == s {
			return true
		}
	}
	return false
}
