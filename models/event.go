package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	ObjectID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ID              string             `bson:"id" json:"id"` // slug, unique
	Title           string             `bson:"title" json:"title"`
	Date            string             `bson:"date" json:"date"`
	Time            string             `bson:"time" json:"time"`
	Location        string             `bson:"location" json:"location"`
	Organizer       string             `bson:"organizer,omitempty" json:"organizer,omitempty"`
	Description     string             `bson:"description" json:"description"`
	FullDescription string             `bson:"fullDescription,omitempty" json:"fullDescription,omitempty"`
	Image           *ImageMeta         `bson:"image,omitempty" json:"image,omitempty"`
	MaxAttendees    *int               `bson:"maxAttendees,omitempty" json:"maxAttendees,omitempty"` // advisory only
	IsArchived      bool               `bson:"isArchived" json:"isArchived"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EventPatch is both the PUT body and the $set document.
type EventPatch struct {
	Title           *string    `bson:"title,omitempty" json:"title" binding:"omitnil,min=3"`
	Date            *string    `bson:"date,omitempty" json:"date" binding:"omitnil,min=1"`
	Time            *string    `bson:"time,omitempty" json:"time" binding:"omitnil,min=1"`
	Location        *string    `bson:"location,omitempty" json:"location" binding:"omitnil,min=2"`
	Organizer       *string    `bson:"organizer,omitempty" json:"organizer"`
	Description     *string    `bson:"description,omitempty" json:"description" binding:"omitnil,min=10"`
	FullDescription *string    `bson:"fullDescription,omitempty" json:"fullDescription"`
	Image           *ImageMeta `bson:"image,omitempty" json:"image"`
	MaxAttendees    *int       `bson:"maxAttendees,omitempty" json:"maxAttendees" binding:"omitnil,gte=1"`
	IsArchived      *bool      `bson:"isArchived,omitempty" json:"isArchived"`
	UpdatedAt       *time.Time `bson:"updatedAt,omitempty" json:"-"`
}

func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Date == nil && p.Time == nil && p.Location == nil &&
		p.Organizer == nil && p.Description == nil && p.FullDescription == nil &&
		p.Image == nil && p.MaxAttendees == nil && p.IsArchived == nil
}

func (p EventPatch) Apply(e *Event) {
	setString(&e.Title, p.Title)
	setString(&e.Date, p.Date)
	setString(&e.Time, p.Time)
	setString(&e.Location, p.Location)
	setString(&e.Organizer, p.Organizer)
	setString(&e.Description, p.Description)
	setString(&e.FullDescription, p.FullDescription)
	if p.Image != nil {
		img := *p.Image
		e.Image = &img
	}
	if p.MaxAttendees != nil {
		n := *p.MaxAttendees
		e.MaxAttendees = &n
	}
	if p.IsArchived != nil {
		e.IsArchived = *p.IsArchived
	}
	if p.UpdatedAt != nil {
		e.UpdatedAt = *p.UpdatedAt
	}
}

// EventFilter selects events by archive state.
type EventFilter string

const (
	EventsAll      EventFilter = "all"
	EventsActive   EventFilter = "active"
	EventsArchived EventFilter = "archived"
)

func ParseEventFilter(s string) (EventFilter, bool) {
	switch f := EventFilter(s); f {
	case "":
		return EventsAll, true
	case EventsAll, EventsActive, EventsArchived:
		return f, true
	}
	return "", false
}

func (f EventFilter) Match(e *Event) bool {
	switch f {
	case EventsActive:
		return !e.IsArchived
	case EventsArchived:
		return e.IsArchived
	}
	return true
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
