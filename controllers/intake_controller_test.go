package controllers_test

import (
	"context"
	"net/http"
	"slices"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	controllers "github.com/phillip/nonprofit-site-go/controllers"
	models "github.com/phillip/nonprofit-site-go/models"
)

func TestRegisterForEvent(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.adminToken()
	expectStatus(t, s.do(http.MethodPost, "/api/admin/events", validEvent("garden-day"), token), http.StatusCreated)
	archived := validEvent("old-event")
	archived["isArchived"] = true
	expectStatus(t, s.do(http.MethodPost, "/api/admin/events", archived, token), http.StatusCreated)

	reg := gin.H{"name": "Sam Smith", "email": "Sam@Example.com"}
	w := s.do(http.MethodPost, "/api/events/garden-day/register", reg, "")
	expectStatus(t, w, http.StatusCreated)
	got := decode[models.EventRegistration](t, w)
	if got.Attendees != 1 || got.EventTitle != "Garden Day" || got.Email != "sam@example.com" {
		t.Fatalf("registration = %+v", got)
	}

	// Repeat registrations are accepted.
	expectStatus(t, s.do(http.MethodPost, "/api/events/garden-day/register", reg, ""), http.StatusCreated)

	expectStatus(t, s.do(http.MethodPost, "/api/events/old-event/register", reg, ""), http.StatusNotFound)
	expectStatus(t, s.do(http.MethodPost, "/api/events/missing/register", reg, ""), http.StatusNotFound)
	expectStatus(t, s.do(http.MethodPost, "/api/events/garden-day/register", gin.H{"name": "Sam"}, ""), http.StatusBadRequest)

	regs := decode[[]models.EventRegistration](t, s.do(http.MethodGet, "/api/admin/registrations?eventId=garden-day", nil, token))
	if len(regs) != 2 {
		t.Fatalf("registrations = %d, want 2", len(regs))
	}
	if !slices.Contains(s.mail.recipients(), "sam@example.com") {
		t.Fatalf("no confirmation sent, got %v", s.mail.recipients())
	}
}

func TestApplyForOpportunity(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.adminToken()
	expectStatus(t, s.do(http.MethodPost, "/api/admin/volunteer", gin.H{
		"id":          "food-bank",
		"title":       "Food Bank Sorter",
		"commitment":  "3 hours a week",
		"location":    "Warehouse",
		"description": "Sort and pack donated food for distribution.",
	}, token), http.StatusCreated)

	w := s.do(http.MethodPost, "/api/volunteer/food-bank/apply", gin.H{
		"name":   "Robin",
		"email":  "robin@example.com",
		"reason": "I want to help my neighbourhood.",
	}, "")
	expectStatus(t, w, http.StatusCreated)
	app := decode[models.VolunteerApplication](t, w)
	if app.Status != models.ApplicationPending || app.OpportunityTitle != "Food Bank Sorter" {
		t.Fatalf("application = %+v", app)
	}

	expectStatus(t, s.do(http.MethodPost, "/api/volunteer/nope/apply", gin.H{
		"name": "Robin", "email": "robin@example.com", "reason": "I want to help my neighbourhood.",
	}, ""), http.StatusNotFound)

	path := "/api/admin/applications/" + app.ID.Hex()
	w = s.do(http.MethodPut, path, gin.H{"status": "accepted", "notes": "Great fit"}, token)
	expectStatus(t, w, http.StatusOK)
	if updated := decode[models.VolunteerApplication](t, w); updated.Status != "accepted" || updated.Notes != "Great fit" {
		t.Fatalf("updated = %+v", updated)
	}
	expectStatus(t, s.do(http.MethodPut, path, gin.H{"status": "maybe"}, token), http.StatusBadRequest)

	accepted := decode[[]models.VolunteerApplication](t, s.do(http.MethodGet, "/api/admin/applications?status=accepted", nil, token))
	if len(accepted) != 1 {
		t.Fatalf("accepted = %d", len(accepted))
	}
	expectStatus(t, s.do(http.MethodDelete, path, nil, token), http.StatusOK)
	expectStatus(t, s.do(http.MethodGet, path, nil, token), http.StatusNotFound)
}

func TestContactSubmissionNotifiesInbox(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(http.MethodPost, "/api/contact", gin.H{
		"name":    "Dana",
		"email":   "dana@example.com",
		"subject": "Hello there",
		"message": "I would like to know more about your work.",
	}, "")
	expectStatus(t, w, http.StatusCreated)
	msg := decode[models.ContactMessage](t, w)
	if msg.Status != models.MessageActive || msg.IsRead {
		t.Fatalf("message = %+v", msg)
	}
	if !slices.Contains(s.mail.recipients(), "inbox@example.org") {
		t.Fatalf("inbox not notified: %v", s.mail.recipients())
	}
}

func TestMessageFiltersMatchStats(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.adminToken()
	ctx := context.Background()

	seed := []struct {
		status string
		read   bool
	}{
		{models.MessageActive, false},
		{models.MessageActive, false},
		{models.MessageActive, true},
		{models.MessageArchived, true},
		{models.MessageArchived, false},
		{models.MessageSpam, false},
	}
	for i, m := range seed {
		msg := models.ContactMessage{
			ID:          primitive.NewObjectID(),
			Name:        "Sender",
			Email:       "sender@example.com",
			Subject:     "Subject",
			Message:     "Body of the message",
			SubmittedAt: time.Now().Add(time.Duration(i) * time.Second),
			IsRead:      m.read,
			Status:      m.status,
		}
		if err := s.repos.Messages.Create(ctx, &msg); err != nil {
			t.Fatal(err)
		}
	}

	stats := decode[controllers.Stats](t, s.do(http.MethodGet, "/api/admin/stats", nil, token))
	want := map[models.MessageFilter]int64{
		models.MessagesAll:      stats.Messages.Total,
		models.MessagesActive:   stats.Messages.Active,
		models.MessagesUnread:   stats.Messages.Unread,
		models.MessagesRead:     stats.Messages.Read,
		models.MessagesArchived: stats.Messages.Archived,
		models.MessagesSpam:     stats.Messages.Spam,
	}
	expected := map[models.MessageFilter]int64{
		models.MessagesAll: 6, models.MessagesActive: 3, models.MessagesUnread: 2,
		models.MessagesRead: 1, models.MessagesArchived: 2, models.MessagesSpam: 1,
	}

	for _, f := range models.MessageFilters {
		list := decode[[]models.ContactMessage](t, s.do(http.MethodGet, "/api/admin/messages?status="+string(f), nil, token))
		for _, m := range list {
			if !f.Match(&m) {
				t.Errorf("%s: message %+v does not satisfy the filter", f, m)
			}
		}
		if int64(len(list)) != want[f] || want[f] != expected[f] {
			t.Errorf("%s: list = %d, stats = %d, expected %d", f, len(list), want[f], expected[f])
		}
	}

	expectStatus(t, s.do(http.MethodGet, "/api/admin/messages?status=bogus", nil, token), http.StatusBadRequest)
}

func TestUpdateMessage(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.adminToken()
	msg := decode[models.ContactMessage](t, s.do(http.MethodPost, "/api/contact", gin.H{
		"name": "Dana", "email": "dana@example.com", "subject": "Hello there",
		"message": "I would like to know more about your work.",
	}, ""))
	path := "/api/admin/messages/" + msg.ID.Hex()

	w := s.do(http.MethodPut, path, gin.H{"isRead": true, "status": "archived"}, token)
	expectStatus(t, w, http.StatusOK)
	if got := decode[models.ContactMessage](t, w); !got.IsRead || got.Status != models.MessageArchived {
		t.Fatalf("message = %+v", got)
	}
	expectStatus(t, s.do(http.MethodPut, path, gin.H{"status": "deleted"}, token), http.StatusBadRequest)
	expectStatus(t, s.do(http.MethodDelete, path, nil, token), http.StatusOK)
	expectStatus(t, s.do(http.MethodGet, path, nil, token), http.StatusNotFound)
}

func TestStatsCountsEveryCollection(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.adminToken()
	expectStatus(t, s.do(http.MethodPost, "/api/admin/events", validEvent("garden-day"), token), http.StatusCreated)
	expectStatus(t, s.do(http.MethodPost, "/api/admin/projects", validProject("test-drive"), token), http.StatusCreated)
	expectStatus(t, s.do(http.MethodPost, "/api/events/garden-day/register", gin.H{"name": "Sam", "email": "sam@example.com"}, ""), http.StatusCreated)

	stats := decode[controllers.Stats](t, s.do(http.MethodGet, "/api/admin/stats", nil, token))
	if stats.Events.Total != 1 || stats.Events.Active != 1 || stats.Events.Archived != 0 {
		t.Fatalf("events = %+v", stats.Events)
	}
	if stats.Projects.Total != 1 || stats.Projects.Active != 1 {
		t.Fatalf("projects = %+v", stats.Projects)
	}
	if stats.Registrations.Total != 1 || stats.Registrations.Last7Days != 1 {
		t.Fatalf("registrations = %+v", stats.Registrations)
	}
	if stats.Users.Total != 1 || stats.Users.Admins != 1 {
		t.Fatalf("users = %+v", stats.Users)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	body := decode[map[string]any](t, s.do(http.MethodGet, "/api/health", nil, ""))
	if body["status"] != "ok" || body["stripe"] != false {
		t.Fatalf("health = %v", body)
	}
}
