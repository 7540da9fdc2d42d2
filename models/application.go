package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ApplicationPending  = "pending"
	ApplicationReviewed = "reviewed"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

var ApplicationStatuses = []string{
	ApplicationPending, ApplicationReviewed, ApplicationAccepted, ApplicationRejected,
}

type VolunteerApplication struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	OpportunityID    string             `bson:"opportunityId" json:"opportunityId"`
	OpportunityTitle string             `bson:"opportunityTitle" json:"opportunityTitle"`
	Name             string             `bson:"name" json:"name"`
	Email            string             `bson:"email" json:"email"`
	Phone            string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Reason           string             `bson:"reason" json:"reason"`
	Skills           string             `bson:"skills,omitempty" json:"skills,omitempty"`
	Availability     string             `bson:"availability,omitempty" json:"availability,omitempty"`
	Status           string             `bson:"status" json:"status"`
	Notes            string             `bson:"notes,omitempty" json:"notes,omitempty"`
	SubmittedAt      time.Time          `bson:"submittedAt" json:"submittedAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type ApplicationPatch struct {
	Status    *string    `bson:"status,omitempty" json:"status" binding:"omitnil,oneof=pending reviewed accepted rejected"`
	Notes     *string    `bson:"notes,omitempty" json:"notes"`
	UpdatedAt *time.Time `bson:"updatedAt,omitempty" json:"-"`
}

func (p ApplicationPatch) Empty() bool { return p.Status == nil && p.Notes == nil }

func (p ApplicationPatch) Apply(a *VolunteerApplication) {
	setString(&a.Status, p.Status)
	setString(&a.Notes, p.Notes)
	if p.UpdatedAt != nil {
		a.UpdatedAt = *p.UpdatedAt
	}
}

type ApplicationFilter struct {
	Status        string
	OpportunityID string
}

func (f ApplicationFilter) Match(a *VolunteerApplication) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.OpportunityID != "" && a.OpportunityID != f.OpportunityID {
		return false
	}
	return true
}
