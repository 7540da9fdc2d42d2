package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	colEvents        = "events"
	colOpportunities = "volunteer_opportunities"
	colMessages      = "contact_messages"
	colRegistrations = "event_registrations"
	colApplications  = "volunteer_applications"
	colProjects      = "projects"
	colUsers         = "users"
)

var allCollections = []string{
	colEvents, colOpportunities, colMessages, colRegistrations, colApplications, colProjects, colUsers,
}

// Mongo owns the process-wide client. It is built once in main and handed to
// every consumer.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, uri, dbName string) (*Mongo, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongodb uri is required")
	}
	if dbName == "" {
		return nil, fmt.Errorf("mongodb database name is required")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(20).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &Mongo{client: client, db: client.Database(dbName)}, nil
}

func (m *Mongo) Repos() Repositories {
	return Repositories{
		Events:        &eventStore{col: m.db.Collection(colEvents)},
		Opportunities: &opportunityStore{col: m.db.Collection(colOpportunities)},
		Messages:      &messageStore{col: m.db.Collection(colMessages)},
		Registrations: &registrationStore{col: m.db.Collection(colRegistrations)},
		Applications:  &applicationStore{col: m.db.Collection(colApplications)},
		Projects:      &projectStore{col: m.db.Collection(colProjects)},
		Users:         &userStore{col: m.db.Collection(colUsers)},
	}
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Reset drops every collection and recreates the indexes.
func (m *Mongo) Reset(ctx context.Context) error {
	for _, name := range allCollections {
		if err := m.db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	return m.EnsureIndexes(ctx)
}

func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		colEvents: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "isArchived", Value: 1}, {Key: "date", Value: 1}}},
		},
		colOpportunities: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		},
		colMessages: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "isRead", Value: 1}}},
		},
		colRegistrations: {
			{Keys: bson.D{{Key: "eventId", Value: 1}, {Key: "registeredAt", Value: -1}}},
		},
		colApplications: {
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		colProjects: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "stripeSyncState", Value: 1}}},
		},
		colUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
	}
	for name, models := range indexes {
		if _, err := m.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
