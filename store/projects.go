package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	models "github.com/phillip/nonprofit-site-go/models"
)

type projectStore struct {
	col *mongo.Collection
}

var projectSort = bson.D{{Key: "createdAt", Value: -1}}

func (s *projectStore) Create(ctx context.Context, p *models.Project) error {
	return insertOne(ctx, s.col, p)
}

func (s *projectStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	return findOne[models.Project](ctx, s.col, bson.M{"_id": id})
}

func (s *projectStore) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return findOne[models.Project](ctx, s.col, bson.M{"slug": slug})
}

func (s *projectStore) List(ctx context.Context, f models.ProjectFilter) ([]models.Project, error) {
	return findAll[models.Project](ctx, s.col, projectQuery(f), projectSort)
}

func (s *projectStore) Count(ctx context.Context, f models.ProjectFilter) (int64, error) {
	return count(ctx, s.col, projectQuery(f))
}

func (s *projectStore) Update(ctx context.Context, id primitive.ObjectID, p models.ProjectPatch) (*models.Project, error) {
	return updateWith[models.Project](ctx, s.col, bson.M{"_id": id}, projectUpdate(p))
}

func (s *projectStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.col, bson.M{"_id": id})
}

// SetStripeLink writes every provider field explicitly so cleared values
// (for example a resolved sync error) are persisted too.
func (s *projectStore) SetStripeLink(ctx context.Context, id primitive.ObjectID, link models.StripeLink) error {
	set := bson.M{
		"stripeProductId":      link.ProductID,
		"stripePriceId":        link.PriceID,
		"stripePaymentLinkId":  link.PaymentLinkID,
		"stripePaymentLinkUrl": link.PaymentLinkURL,
		"stripeSyncState":      link.SyncState,
		"stripeSyncError":      link.SyncError,
		"updatedAt":            time.Now().UTC(),
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update stripe link: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *projectStore) ListBySyncState(ctx context.Context, states ...string) ([]models.Project, error) {
	return findAll[models.Project](ctx, s.col, bson.M{"stripeSyncState": bson.M{"$in": states}}, projectSort)
}

type userStore struct {
	col *mongo.Collection
}

func (s *userStore) Create(ctx context.Context, u *models.User) error {
	return insertOne(ctx, s.col, u)
}

func (s *userStore) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return findOne[models.User](ctx, s.col, bson.M{"_id": id})
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.col, bson.M{"email": email})
}

func (s *userStore) List(ctx context.Context, f models.UserFilter) ([]models.User, error) {
	return findAll[models.User](ctx, s.col, userQuery(f), bson.D{{Key: "createdAt", Value: 1}})
}

func (s *userStore) Count(ctx context.Context, f models.UserFilter) (int64, error) {
	return count(ctx, s.col, userQuery(f))
}

func (s *userStore) Update(ctx context.Context, id primitive.ObjectID, p models.UserPatch) (*models.User, error) {
	return updateOne[models.User](ctx, s.col, bson.M{"_id": id}, p)
}

func (s *userStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.col, bson.M{"_id": id})
}
