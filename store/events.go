package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	models "github.com/phillip/nonprofit-site-go/models"
)

type eventStore struct {
	col *mongo.Collection
}

var eventSort = bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}}

func (s *eventStore) Create(ctx context.Context, e *models.Event) error {
	return insertOne(ctx, s.col, e)
}

func (s *eventStore) Get(ctx context.Context, slug string) (*models.Event, error) {
	return findOne[models.Event](ctx, s.col, bson.M{"id": slug})
}

func (s *eventStore) List(ctx context.Context, f models.EventFilter) ([]models.Event, error) {
	return findAll[models.Event](ctx, s.col, eventQuery(f), eventSort)
}

func (s *eventStore) Count(ctx context.Context, f models.EventFilter) (int64, error) {
	return count(ctx, s.col, eventQuery(f))
}

func (s *eventStore) Update(ctx context.Context, slug string, p models.EventPatch) (*models.Event, error) {
	return updateOne[models.Event](ctx, s.col, bson.M{"id": slug}, p)
}

func (s *eventStore) Delete(ctx context.Context, slug string) error {
	return deleteOne(ctx, s.col, bson.M{"id": slug})
}

type opportunityStore struct {
	col *mongo.Collection
}

func (s *opportunityStore) Create(ctx context.Context, o *models.VolunteerOpportunity) error {
	return insertOne(ctx, s.col, o)
}

func (s *opportunityStore) Get(ctx context.Context, slug string) (*models.VolunteerOpportunity, error) {
	return findOne[models.VolunteerOpportunity](ctx, s.col, bson.M{"id": slug})
}

func (s *opportunityStore) List(ctx context.Context) ([]models.VolunteerOpportunity, error) {
	return findAll[models.VolunteerOpportunity](ctx, s.col, bson.M{}, bson.D{{Key: "createdAt", Value: 1}})
}

func (s *opportunityStore) Count(ctx context.Context) (int64, error) {
	return count(ctx, s.col, bson.M{})
}

func (s *opportunityStore) Update(ctx context.Context, slug string, p models.OpportunityPatch) (*models.VolunteerOpportunity, error) {
	return updateOne[models.VolunteerOpportunity](ctx, s.col, bson.M{"id": slug}, p)
}

func (s *opportunityStore) Delete(ctx context.Context, slug string) error {
	return deleteOne(ctx, s.col, bson.M{"id": slug})
}
