package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventRegistration is append-only.
type EventRegistration struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	EventID      string             `bson:"eventId" json:"eventId"` // event slug
	EventTitle   string             `bson:"eventTitle" json:"eventTitle"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Attendees    int                `bson:"attendees" json:"attendees"`
	RegisteredAt time.Time          `bson:"registeredAt" json:"registeredAt"`
}

type RegistrationFilter struct {
	EventID string
	Since   time.Time
}

func (f RegistrationFilter) Match(r *EventRegistration) bool {
	if f.EventID != "" && r.EventID != f.EventID {
		return false
	}
	if !f.Since.IsZero() && r.RegisteredAt.Before(f.Since) {
		return false
	}
	return true
}
