package memory

import (
	"context"
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/phillip/nonprofit-site-go/models"
)

// ---------------- EVENTS ----------------

type eventTable struct{ table[models.Event] }

func newEventTable() *eventTable {
	return &eventTable{table[models.Event]{
		unique: func(e *models.Event) string { return e.ID },
		clone: func(e models.Event) models.Event {
			e.Image = clonePtr(e.Image)
			e.MaxAttendees = clonePtr(e.MaxAttendees)
			return e
		},
		less: func(a, b *models.Event) bool {
			if a.Date != b.Date {
				return a.Date < b.Date
			}
			return a.Time < b.Time
		},
	}}
}

func bySlug(slug string) func(*models.Event) bool {
	return func(e *models.Event) bool { return e.ID == slug }
}

func (t *eventTable) Create(_ context.Context, e *models.Event) error { return t.insert(*e) }

func (t *eventTable) Get(_ context.Context, slug string) (*models.Event, error) {
	return t.find(bySlug(slug))
}

func (t *eventTable) List(_ context.Context, f models.EventFilter) ([]models.Event, error) {
	return t.list(f.Match), nil
}

func (t *eventTable) Count(_ context.Context, f models.EventFilter) (int64, error) {
	return t.count(f.Match), nil
}

func (t *eventTable) Update(_ context.Context, slug string, p models.EventPatch) (*models.Event, error) {
	return t.update(bySlug(slug), p.Apply)
}

func (t *eventTable) Delete(_ context.Context, slug string) error { return t.remove(bySlug(slug)) }

// ---------------- OPPORTUNITIES ----------------

type opportunityTable struct{ table[models.VolunteerOpportunity] }

func newOpportunityTable() *opportunityTable {
	return &opportunityTable{table[models.VolunteerOpportunity]{
		unique: func(o *models.VolunteerOpportunity) string { return o.ID },
		clone: func(o models.VolunteerOpportunity) models.VolunteerOpportunity {
			o.Image = clonePtr(o.Image)
			o.Skills = slices.Clone(o.Skills)
			return o
		},
		less: func(a, b *models.VolunteerOpportunity) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		},
	}}
}

func opportunitySlug(slug string) func(*models.VolunteerOpportunity) bool {
	return func(o *models.VolunteerOpportunity) bool { return o.ID == slug }
}

func (t *opportunityTable) Create(_ context.Context, o *models.VolunteerOpportunity) error {
	return t.insert(*o)
}

func (t *opportunityTable) Get(_ context.Context, slug string) (*models.VolunteerOpportunity, error) {
	return t.find(opportunitySlug(slug))
}

func (t *opportunityTable) List(context.Context) ([]models.VolunteerOpportunity, error) {
	return t.list(all[models.VolunteerOpportunity]), nil
}

func (t *opportunityTable) Count(context.Context) (int64, error) {
	return t.count(all[models.VolunteerOpportunity]), nil
}

func (t *opportunityTable) Update(_ context.Context, slug string, p models.OpportunityPatch) (*models.VolunteerOpportunity, error) {
	return t.update(opportunitySlug(slug), p.Apply)
}

func (t *opportunityTable) Delete(_ context.Context, slug string) error {
	return t.remove(opportunitySlug(slug))
}

// ---------------- MESSAGES ----------------

type messageTable struct{ table[models.ContactMessage] }

func newMessageTable() *messageTable {
	return &messageTable{table[models.ContactMessage]{
		less: func(a, b *models.ContactMessage) bool { return a.SubmittedAt.After(b.SubmittedAt) },
	}}
}

func messageID(id primitive.ObjectID) func(*models.ContactMessage) bool {
	return byObjectID(id, func(m *models.ContactMessage) primitive.ObjectID { return m.ID })
}

func (t *messageTable) Create(_ context.Context, m *models.ContactMessage) error { return t.insert(*m) }

func (t *messageTable) Get(_ context.Context, id primitive.ObjectID) (*models.ContactMessage, error) {
	return t.find(messageID(id))
}

func (t *messageTable) List(_ context.Context, f models.MessageFilter) ([]models.ContactMessage, error) {
	return t.list(f.Match), nil
}

func (t *messageTable) Count(_ context.Context, f models.MessageFilter) (int64, error) {
	return t.count(f.Match), nil
}

func (t *messageTable) Update(_ context.Context, id primitive.ObjectID, p models.MessagePatch) (*models.ContactMessage, error) {
	return t.update(messageID(id), p.Apply)
}

func (t *messageTable) Delete(_ context.Context, id primitive.ObjectID) error {
	return t.remove(messageID(id))
}

// ---------------- REGISTRATIONS ----------------

type registrationTable struct{ table[models.EventRegistration] }

func newRegistrationTable() *registrationTable {
	return &registrationTable{table[models.EventRegistration]{
		less: func(a, b *models.EventRegistration) bool { return a.RegisteredAt.After(b.RegisteredAt) },
	}}
}

func (t *registrationTable) Create(_ context.Context, r *models.EventRegistration) error {
	return t.insert(*r)
}

func (t *registrationTable) List(_ context.Context, f models.RegistrationFilter) ([]models.EventRegistration, error) {
	return t.list(f.Match), nil
}

func (t *registrationTable) Count(_ context.Context, f models.RegistrationFilter) (int64, error) {
	return t.count(f.Match), nil
}

// ---------------- APPLICATIONS ----------------

type applicationTable struct{ table[models.VolunteerApplication] }

func newApplicationTable() *applicationTable {
	return &applicationTable{table[models.VolunteerApplication]{
		less: func(a, b *models.VolunteerApplication) bool { return a.SubmittedAt.After(b.SubmittedAt) },
	}}
}

func applicationID(id primitive.ObjectID) func(*models.VolunteerApplication) bool {
	return byObjectID(id, func(a *models.VolunteerApplication) primitive.ObjectID { return a.ID })
}

func (t *applicationTable) Create(_ context.Context, a *models.VolunteerApplication) error {
	return t.insert(*a)
}

func (t *applicationTable) Get(_ context.Context, id primitive.ObjectID) (*models.VolunteerApplication, error) {
	return t.find(applicationID(id))
}

func (t *applicationTable) List(_ context.Context, f models.ApplicationFilter) ([]models.VolunteerApplication, error) {
	return t.list(f.Match), nil
}

func (t *applicationTable) Count(_ context.Context, f models.ApplicationFilter) (int64, error) {
	return t.count(f.Match), nil
}

func (t *applicationTable) Update(_ context.Context, id primitive.ObjectID, p models.ApplicationPatch) (*models.VolunteerApplication, error) {
	return t.update(applicationID(id), p.Apply)
}

func (t *applicationTable) Delete(_ context.Context, id primitive.ObjectID) error {
	return t.remove(applicationID(id))
}

// ---------------- PROJECTS ----------------

type projectTable struct{ table[models.Project] }

func newProjectTable() *projectTable {
	return &projectTable{table[models.Project]{
		unique: func(p *models.Project) string { return p.Slug },
		less:   func(a, b *models.Project) bool { return a.CreatedAt.After(b.CreatedAt) },
		clone: func(p models.Project) models.Project {
			p.Image = clonePtr(p.Image)
			p.StartDate = clonePtr(p.StartDate)
			p.EndDate = clonePtr(p.EndDate)
			return p
		},
	}}
}

func projectID(id primitive.ObjectID) func(*models.Project) bool {
	return byObjectID(id, func(p *models.Project) primitive.ObjectID { return p.ID })
}

func (t *projectTable) Create(_ context.Context, p *models.Project) error { return t.insert(*p) }

func (t *projectTable) Get(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	return t.find(projectID(id))
}

func (t *projectTable) GetBySlug(_ context.Context, slug string) (*models.Project, error) {
	return t.find(func(p *models.Project) bool { return p.Slug == slug })
}

func (t *projectTable) List(_ context.Context, f models.ProjectFilter) ([]models.Project, error) {
	return t.list(f.Match), nil
}

func (t *projectTable) Count(_ context.Context, f models.ProjectFilter) (int64, error) {
	return t.count(f.Match), nil
}

func (t *projectTable) Update(_ context.Context, id primitive.ObjectID, p models.ProjectPatch) (*models.Project, error) {
	return t.update(projectID(id), p.Apply)
}

func (t *projectTable) Delete(_ context.Context, id primitive.ObjectID) error {
	return t.remove(projectID(id))
}

// SetStripeLink honours cancellation like the Mongo write it stands in for.
func (t *projectTable) SetStripeLink(ctx context.Context, id primitive.ObjectID, link models.StripeLink) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.update(projectID(id), func(p *models.Project) { p.StripeLink = link })
	return err
}

func (t *projectTable) ListBySyncState(_ context.Context, states ...string) ([]models.Project, error) {
	return t.list(func(p *models.Project) bool {
		for _, s := range states {
			if p.SyncState == s {
				return true
			}
		}
		return false
	}), nil
}

// ---------------- USERS ----------------

type userTable struct{ table[models.User] }

func newUserTable() *userTable {
	return &userTable{table[models.User]{
		unique: func(u *models.User) string { return u.Email },
		less:   func(a, b *models.User) bool { return a.CreatedAt.Before(b.CreatedAt) },
	}}
}

func userID(id primitive.ObjectID) func(*models.User) bool {
	return byObjectID(id, func(u *models.User) primitive.ObjectID { return u.ID })
}

func (t *userTable) Create(_ context.Context, u *models.User) error { return t.insert(*u) }

func (t *userTable) Get(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return t.find(userID(id))
}

func (t *userTable) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return t.find(func(u *models.User) bool { return u.Email == email })
}

func (t *userTable) List(_ context.Context, f models.UserFilter) ([]models.User, error) {
	return t.list(f.Match), nil
}

func (t *userTable) Count(_ context.Context, f models.UserFilter) (int64, error) {
	return t.count(f.Match), nil
}

func (t *userTable) Update(_ context.Context, id primitive.ObjectID, p models.UserPatch) (*models.User, error) {
	return t.update(userID(id), p.Apply)
}

func (t *userTable) Delete(_ context.Context, id primitive.ObjectID) error {
	return t.remove(userID(id))
}
