package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	models "github.com/phillip/nonprofit-site-go/models"
)

// Public submissions: contact messages, event registrations, volunteer applications.

type messageStore struct {
	col *mongo.Collection
}

func (s *messageStore) Create(ctx context.Context, m *models.ContactMessage) error {
	return insertOne(ctx, s.col, m)
}

func (s *messageStore) Get(ctx context.Context, id primitive.ObjectID) (*models.ContactMessage, error) {
	return findOne[models.ContactMessage](ctx, s.col, bson.M{"_id": id})
}

func (s *messageStore) List(ctx context.Context, f models.MessageFilter) ([]models.ContactMessage, error) {
	return findAll[models.ContactMessage](ctx, s.col, messageQuery(f), bson.D{{Key: "submittedAt", Value: -1}})
}

func (s *messageStore) Count(ctx context.Context, f models.MessageFilter) (int64, error) {
	return count(ctx, s.col, messageQuery(f))
}

func (s *messageStore) Update(ctx context.Context, id primitive.ObjectID, p models.MessagePatch) (*models.ContactMessage, error) {
	return updateOne[models.ContactMessage](ctx, s.col, bson.M{"_id": id}, p)
}

func (s *messageStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.col, bson.M{"_id": id})
}

type registrationStore struct {
	col *mongo.Collection
}

func (s *registrationStore) Create(ctx context.Context, r *models.EventRegistration) error {
	return insertOne(ctx, s.col, r)
}

func (s *registrationStore) List(ctx context.Context, f models.RegistrationFilter) ([]models.EventRegistration, error) {
	return findAll[models.EventRegistration](ctx, s.col, registrationQuery(f), bson.D{{Key: "registeredAt", Value: -1}})
}

func (s *registrationStore) Count(ctx context.Context, f models.RegistrationFilter) (int64, error) {
	return count(ctx, s.col, registrationQuery(f))
}

type applicationStore struct {
	col *mongo.Collection
}

func (s *applicationStore) Create(ctx context.Context, a *models.VolunteerApplication) error {
	return insertOne(ctx, s.col, a)
}

func (s *applicationStore) Get(ctx context.Context, id primitive.ObjectID) (*models.VolunteerApplication, error) {
	return findOne[models.VolunteerApplication](ctx, s.col, bson.M{"_id": id})
}

func (s *applicationStore) List(ctx context.Context, f models.ApplicationFilter) ([]models.VolunteerApplication, error) {
	return findAll[models.VolunteerApplication](ctx, s.col, applicationQuery(f), bson.D{{Key: "submittedAt", Value: -1}})
}

func (s *applicationStore) Count(ctx context.Context, f models.ApplicationFilter) (int64, error) {
	return count(ctx, s.col, applicationQuery(f))
}

func (s *applicationStore) Update(ctx context.Context, id primitive.ObjectID, p models.ApplicationPatch) (*models.VolunteerApplication, error) {
	return updateOne[models.VolunteerApplication](ctx, s.col, bson.M{"_id": id}, p)
}

func (s *applicationStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.col, bson.M{"_id": id})
}
