// Package seed wipes the store and repopulates it from YAML fixtures.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	models "github.com/phillip/nonprofit-site-go/models"
	store "github.com/phillip/nonprofit-site-go/store"
	utils "github.com/phillip/nonprofit-site-go/utils"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

type Fixtures struct {
	Admin         AdminFixture          `yaml:"admin"`
	Events        []EventFixture        `yaml:"events"`
	Opportunities []OpportunityFixture  `yaml:"opportunities"`
	Projects      []ProjectFixture      `yaml:"projects"`
	Messages      []MessageFixture      `yaml:"messages"`
	Registrations []RegistrationFixture `yaml:"registrations"`
	Applications  []ApplicationFixture  `yaml:"applications"`
}

type AdminFixture struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
}

type EventFixture struct {
	ID              string `yaml:"id"`
	Title           string `yaml:"title"`
	Date            string `yaml:"date"`
	Time            string `yaml:"time"`
	Location        string `yaml:"location"`
	Organizer       string `yaml:"organizer"`
	Description     string `yaml:"description"`
	FullDescription string `yaml:"fullDescription"`
	MaxAttendees    *int   `yaml:"maxAttendees"`
	Archived        bool   `yaml:"archived"`
}

type OpportunityFixture struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Commitment  string   `yaml:"commitment"`
	Location    string   `yaml:"location"`
	Skills      []string `yaml:"skills"`
	Description string   `yaml:"description"`
}

type ProjectFixture struct {
	Slug            string  `yaml:"slug"`
	Title           string  `yaml:"title"`
	Description     string  `yaml:"description"`
	FullDescription string  `yaml:"fullDescription"`
	GoalAmount      float64 `yaml:"goalAmount"`
	CurrentAmount   float64 `yaml:"currentAmount"`
	Status          string  `yaml:"status"`
	StartDate       string  `yaml:"startDate"`
	EndDate         string  `yaml:"endDate"`
}

type MessageFixture struct {
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
	Subject string `yaml:"subject"`
	Message string `yaml:"message"`
}

// RegistrationFixture names its event by slug; the title is copied from the
// seeded event.
type RegistrationFixture struct {
	Event     string `yaml:"event"`
	Name      string `yaml:"name"`
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
	Attendees int    `yaml:"attendees"`
	DaysAgo   int    `yaml:"daysAgo"`
}

type ApplicationFixture struct {
	Opportunity  string `yaml:"opportunity"`
	Name         string `yaml:"name"`
	Email        string `yaml:"email"`
	Phone        string `yaml:"phone"`
	Reason       string `yaml:"reason"`
	Skills       string `yaml:"skills"`
	Availability string `yaml:"availability"`
	Status       string `yaml:"status"`
	Notes        string `yaml:"notes"`
}

// Default returns the embedded fixtures.
func Default() (*Fixtures, error) {
	return Parse(defaultFixtures)
}

// LoadFile reads fixtures from disk.
func LoadFile(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if f.Admin.Email == "" || f.Admin.Password == "" {
		return nil, fmt.Errorf("fixtures need an admin email and password")
	}
	return &f, nil
}

// Summary counts what Run inserted.
type Summary struct {
	Events        int
	Opportunities int
	Projects      int
	Messages      int
	Registrations int
	Applications  int
	Users         int
}

// Run drops every collection and inserts the fixtures. Seeded projects are
// marked skipped so a later reconcile can link them once Stripe is configured.
func Run(ctx context.Context, backend store.Backend, f *Fixtures, log zerolog.Logger) (Summary, error) {
	log = log.With().Str("component", "seed").Logger()
	var sum Summary

	if err := backend.Reset(ctx); err != nil {
		return sum, fmt.Errorf("reset store: %w", err)
	}
	repos := backend.Repos()
	now := time.Now().UTC()
	eventTitles := map[string]string{}
	opportunityTitles := map[string]string{}

	for _, ef := range f.Events {
		ev := models.Event{
			ObjectID:        primitive.NewObjectID(),
			ID:              ef.ID,
			Title:           ef.Title,
			Date:            ef.Date,
			Time:            ef.Time,
			Location:        ef.Location,
			Organizer:       ef.Organizer,
			Description:     ef.Description,
			FullDescription: ef.FullDescription,
			MaxAttendees:    ef.MaxAttendees,
			IsArchived:      ef.Archived,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := repos.Events.Create(ctx, &ev); err != nil {
			return sum, fmt.Errorf("seed event %q: %w", ef.ID, err)
		}
		eventTitles[ef.ID] = ef.Title
		sum.Events++
	}

	for _, of := range f.Opportunities {
		skills := of.Skills
		if skills == nil {
			skills = []string{}
		}
		opp := models.VolunteerOpportunity{
			ObjectID:    primitive.NewObjectID(),
			ID:          of.ID,
			Title:       of.Title,
			Commitment:  of.Commitment,
			Location:    of.Location,
			Skills:      skills,
			Description: of.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repos.Opportunities.Create(ctx, &opp); err != nil {
			return sum, fmt.Errorf("seed opportunity %q: %w", of.ID, err)
		}
		opportunityTitles[of.ID] = of.Title
		sum.Opportunities++
	}

	for _, pf := range f.Projects {
		p, err := pf.project(now)
		if err != nil {
			return sum, err
		}
		if err := repos.Projects.Create(ctx, p); err != nil {
			return sum, fmt.Errorf("seed project %q: %w", pf.Slug, err)
		}
		sum.Projects++
	}

	for _, mf := range f.Messages {
		msg := models.ContactMessage{
			ID:          primitive.NewObjectID(),
			Name:        mf.Name,
			Email:       strings.ToLower(mf.Email),
			Subject:     mf.Subject,
			Message:     mf.Message,
			SubmittedAt: now,
			Status:      models.MessageActive,
		}
		if err := repos.Messages.Create(ctx, &msg); err != nil {
			return sum, fmt.Errorf("seed message: %w", err)
		}
		sum.Messages++
	}

	for _, rf := range f.Registrations {
		title, ok := eventTitles[rf.Event]
		if !ok {
			return sum, fmt.Errorf("seed registration for %q: event not in fixtures", rf.Event)
		}
		attendees := rf.Attendees
		if attendees < 1 {
			attendees = 1
		}
		reg := models.EventRegistration{
			ID:           primitive.NewObjectID(),
			EventID:      rf.Event,
			EventTitle:   title,
			Name:         rf.Name,
			Email:        strings.ToLower(rf.Email),
			Phone:        rf.Phone,
			Attendees:    attendees,
			RegisteredAt: now.AddDate(0, 0, -rf.DaysAgo),
		}
		if err := repos.Registrations.Create(ctx, &reg); err != nil {
			return sum, fmt.Errorf("seed registration: %w", err)
		}
		sum.Registrations++
	}

	for _, af := range f.Applications {
		title, ok := opportunityTitles[af.Opportunity]
		if !ok {
			return sum, fmt.Errorf("seed application for %q: opportunity not in fixtures", af.Opportunity)
		}
		status := af.Status
		if status == "" {
			status = models.ApplicationPending
		}
		app := models.VolunteerApplication{
			ID:               primitive.NewObjectID(),
			OpportunityID:    af.Opportunity,
			OpportunityTitle: title,
			Name:             af.Name,
			Email:            strings.ToLower(af.Email),
			Phone:            af.Phone,
			Reason:           af.Reason,
			Skills:           af.Skills,
			Availability:     af.Availability,
			Status:           status,
			Notes:            af.Notes,
			SubmittedAt:      now,
			UpdatedAt:        now,
		}
		if err := repos.Applications.Create(ctx, &app); err != nil {
			return sum, fmt.Errorf("seed application: %w", err)
		}
		sum.Applications++
	}

	if _, err := CreateAdmin(ctx, repos.Users, f.Admin.Email, f.Admin.Name, f.Admin.Password); err != nil {
		return sum, err
	}
	sum.Users++

	log.Info().
		Int("events", sum.Events).
		Int("opportunities", sum.Opportunities).
		Int("projects", sum.Projects).
		Int("messages", sum.Messages).
		Int("registrations", sum.Registrations).
		Int("applications", sum.Applications).
		Msg("store seeded")
	return sum, nil
}

func (pf ProjectFixture) project(now time.Time) (*models.Project, error) {
	status := pf.Status
	if status == "" {
		status = models.ProjectActive
	}
	p := &models.Project{
		ID:              primitive.NewObjectID(),
		Slug:            pf.Slug,
		Title:           pf.Title,
		Description:     pf.Description,
		FullDescription: pf.FullDescription,
		GoalAmount:      pf.GoalAmount,
		CurrentAmount:   pf.CurrentAmount,
		Status:          status,
		StripeLink:      models.StripeLink{SyncState: models.SyncSkipped},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, d := range []struct {
		raw string
		dst **time.Time
	}{{pf.StartDate, &p.StartDate}, {pf.EndDate, &p.EndDate}} {
		if d.raw == "" {
			continue
		}
		t, err := utils.ParseDate(d.raw)
		if err != nil {
			return nil, fmt.Errorf("seed project %q: %w", pf.Slug, err)
		}
		*d.dst = &t
	}
	return p, nil
}

// CreateAdmin inserts an admin account with a bcrypt-hashed password.
func CreateAdmin(ctx context.Context, users store.UserRepository, email, name, password string) (*models.User, error) {
	if len(password) < 8 {
		return nil, fmt.Errorf("admin password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	if name == "" {
		name = "Admin"
	}
	now := time.Now().UTC()
	u := &models.User{
		ID:        primitive.NewObjectID(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Password:  string(hash),
		Name:      name,
		Role:      models.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create admin %q: %w", u.Email, err)
	}
	return u, nil
}
