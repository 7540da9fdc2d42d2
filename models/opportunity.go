package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VolunteerOpportunity has no status flag; every stored opportunity is public.
type VolunteerOpportunity struct {
	ObjectID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ID          string             `bson:"id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Commitment  string             `bson:"commitment" json:"commitment"`
	Location    string             `bson:"location" json:"location"`
	Skills      []string           `bson:"skills" json:"skills"`
	Description string             `bson:"description" json:"description"`
	Image       *ImageMeta         `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type OpportunityPatch struct {
	Title       *string    `bson:"title,omitempty" json:"title" binding:"omitnil,min=3"`
	Commitment  *string    `bson:"commitment,omitempty" json:"commitment" binding:"omitnil,min=2"`
	Location    *string    `bson:"location,omitempty" json:"location" binding:"omitnil,min=2"`
	Skills      *[]string  `bson:"skills,omitempty" json:"skills"`
	Description *string    `bson:"description,omitempty" json:"description" binding:"omitnil,min=10"`
	Image       *ImageMeta `bson:"image,omitempty" json:"image"`
	UpdatedAt   *time.Time `bson:"updatedAt,omitempty" json:"-"`
}

func (p OpportunityPatch) Empty() bool {
	return p.Title == nil && p.Commitment == nil && p.Location == nil &&
		p.Skills == nil && p.Description == nil && p.Image == nil
}

func (p OpportunityPatch) Apply(o *VolunteerOpportunity) {
	setString(&o.Title, p.Title)
	setString(&o.Commitment, p.Commitment)
	setString(&o.Location, p.Location)
	setString(&o.Description, p.Description)
	if p.Skills != nil {
		o.Skills = append([]string(nil), (*p.Skills)...)
	}
	if p.Image != nil {
		img := *p.Image
		o.Image = &img
	}
	if p.UpdatedAt != nil {
		o.UpdatedAt = *p.UpdatedAt
	}
}
