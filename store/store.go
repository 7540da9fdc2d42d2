// Package store holds the repository contracts used by the HTTP layer and the
// MongoDB implementation behind them.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/phillip/nonprofit-site-go/models"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

type EventRepository interface {
	Create(ctx context.Context, e *models.Event) error
	Get(ctx context.Context, slug string) (*models.Event, error)
	List(ctx context.Context, f models.EventFilter) ([]models.Event, error)
	Count(ctx context.Context, f models.EventFilter) (int64, error)
	Update(ctx context.Context, slug string, p models.EventPatch) (*models.Event, error)
	Delete(ctx context.Context, slug string) error
}

type OpportunityRepository interface {
	Create(ctx context.Context, o *models.VolunteerOpportunity) error
	Get(ctx context.Context, slug string) (*models.VolunteerOpportunity, error)
	List(ctx context.Context) ([]models.VolunteerOpportunity, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, slug string, p models.OpportunityPatch) (*models.VolunteerOpportunity, error)
	Delete(ctx context.Context, slug string) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *models.ContactMessage) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.ContactMessage, error)
	List(ctx context.Context, f models.MessageFilter) ([]models.ContactMessage, error)
	Count(ctx context.Context, f models.MessageFilter) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, p models.MessagePatch) (*models.ContactMessage, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// RegistrationRepository is append-only.
type RegistrationRepository interface {
	Create(ctx context.Context, r *models.EventRegistration) error
	List(ctx context.Context, f models.RegistrationFilter) ([]models.EventRegistration, error)
	Count(ctx context.Context, f models.RegistrationFilter) (int64, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, a *models.VolunteerApplication) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.VolunteerApplication, error)
	List(ctx context.Context, f models.ApplicationFilter) ([]models.VolunteerApplication, error)
	Count(ctx context.Context, f models.ApplicationFilter) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, p models.ApplicationPatch) (*models.VolunteerApplication, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ProjectRepository interface {
	Create(ctx context.Context, p *models.Project) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	List(ctx context.Context, f models.ProjectFilter) ([]models.Project, error)
	Count(ctx context.Context, f models.ProjectFilter) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, p models.ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	// SetStripeLink overwrites only the provider fields of the project.
	SetStripeLink(ctx context.Context, id primitive.ObjectID, link models.StripeLink) error
	ListBySyncState(ctx context.Context, states ...string) ([]models.Project, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, f models.UserFilter) ([]models.User, error)
	Count(ctx context.Context, f models.UserFilter) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, p models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Repositories bundles one implementation of every repository.
type Repositories struct {
	Events        EventRepository
	Opportunities OpportunityRepository
	Messages      MessageRepository
	Registrations RegistrationRepository
	Applications  ApplicationRepository
	Projects      ProjectRepository
	Users         UserRepository
}

// Backend is what main and the CLI hold on to: the repositories plus
// lifecycle hooks of whatever sits underneath.
type Backend interface {
	Repos() Repositories
	Ping(ctx context.Context) error
	Reset(ctx context.Context) error
	Close(ctx context.Context) error
}
