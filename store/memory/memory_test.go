package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/phillip/nonprofit-site-go/models"
	"github.com/phillip/nonprofit-site-go/store"
)

func TestUniqueSlugs(t *testing.T) {
	ctx := context.Background()
	repos := New().Repos()

	ev := &models.Event{ObjectID: primitive.NewObjectID(), ID: "dup", Title: "One"}
	if err := repos.Events.Create(ctx, ev); err != nil {
		t.Fatal(err)
	}
	if err := repos.Events.Create(ctx, &models.Event{ObjectID: primitive.NewObjectID(), ID: "dup"}); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestUpdateRollsBackUniqueCollision(t *testing.T) {
	ctx := context.Background()
	repos := New().Repos()

	a := &models.Project{ID: primitive.NewObjectID(), Slug: "alpha", Title: "Alpha"}
	b := &models.Project{ID: primitive.NewObjectID(), Slug: "beta", Title: "Beta"}
	for _, p := range []*models.Project{a, b} {
		if err := repos.Projects.Create(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	slug, title := "alpha", "Renamed"
	_, err := repos.Projects.Update(ctx, b.ID, models.ProjectPatch{Slug: &slug, Title: &title})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
	got, err := repos.Projects.Get(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Slug != "beta" || got.Title != "Beta" {
		t.Fatalf("project changed: %+v", got)
	}
}

func TestReturnedRowsAreCopies(t *testing.T) {
	ctx := context.Background()
	repos := New().Repos()
	u := &models.User{ID: primitive.NewObjectID(), Email: "a@example.org", Role: models.RoleUser}
	if err := repos.Users.Create(ctx, u); err != nil {
		t.Fatal(err)
	}

	got, _ := repos.Users.Get(ctx, u.ID)
	got.Role = models.RoleAdmin

	again, _ := repos.Users.Get(ctx, u.ID)
	if again.Role != models.RoleUser {
		t.Fatal("mutating a returned row changed the store")
	}
}

func TestPointerFieldsAreNotShared(t *testing.T) {
	ctx := context.Background()
	repos := New().Repos()
	limit := 40
	e := &models.Event{
		ObjectID:     primitive.NewObjectID(),
		ID:           "gala",
		Image:        &models.ImageMeta{Src: "https://example.org/a.jpg", Alt: "before"},
		MaxAttendees: &limit,
	}
	if err := repos.Events.Create(ctx, e); err != nil {
		t.Fatal(err)
	}
	e.Image.Alt = "caller"
	*e.MaxAttendees = 1

	got, _ := repos.Events.Get(ctx, "gala")
	if got.Image.Alt != "before" || *got.MaxAttendees != 40 {
		t.Fatalf("insert shared pointers: image %+v, max %d", got.Image, *got.MaxAttendees)
	}
	got.Image.Alt = "reader"

	listed, _ := repos.Events.List(ctx, models.EventsAll)
	if listed[0].Image.Alt != "before" {
		t.Fatalf("read shared pointers: %+v", listed[0].Image)
	}

	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	o := &models.VolunteerOpportunity{ObjectID: primitive.NewObjectID(), ID: "pantry", Skills: []string{"sorting"}}
	p := &models.Project{ID: primitive.NewObjectID(), Slug: "well", StartDate: &start}
	if err := repos.Opportunities.Create(ctx, o); err != nil {
		t.Fatal(err)
	}
	if err := repos.Projects.Create(ctx, p); err != nil {
		t.Fatal(err)
	}
	o.Skills[0] = "changed"
	*p.StartDate = start.AddDate(1, 0, 0)

	if opp, _ := repos.Opportunities.Get(ctx, "pantry"); opp.Skills[0] != "sorting" {
		t.Fatalf("skills = %v", opp.Skills)
	}
	if proj, _ := repos.Projects.Get(ctx, p.ID); !proj.StartDate.Equal(start) {
		t.Fatalf("startDate = %v", proj.StartDate)
	}
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	repos := New().Repos()
	id := primitive.NewObjectID()

	if _, err := repos.Messages.Get(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("get: %v", err)
	}
	if err := repos.Applications.Delete(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repos.Events.Update(ctx, "missing", models.EventPatch{}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("update: %v", err)
	}
}

func TestListOrderAndFilters(t *testing.T) {
	ctx := context.Background()
	repos := New().Repos()

	for _, e := range []models.Event{
		{ObjectID: primitive.NewObjectID(), ID: "c", Date: "2026-03-01", Time: "09:00"},
		{ObjectID: primitive.NewObjectID(), ID: "a", Date: "2026-01-01", Time: "18:00", IsArchived: true},
		{ObjectID: primitive.NewObjectID(), ID: "b", Date: "2026-01-01", Time: "19:00"},
	} {
		if err := repos.Events.Create(ctx, &e); err != nil {
			t.Fatal(err)
		}
	}

	all, _ := repos.Events.List(ctx, models.EventsAll)
	if len(all) != 3 || all[0].ID != "a" || all[1].ID != "b" || all[2].ID != "c" {
		t.Fatalf("order = %v", ids(all))
	}
	active, _ := repos.Events.List(ctx, models.EventsActive)
	if len(active) != 2 {
		t.Fatalf("active = %v", ids(active))
	}
	n, _ := repos.Events.Count(ctx, models.EventsArchived)
	if n != 1 {
		t.Fatalf("archived count = %d", n)
	}

	now := time.Now()
	for _, at := range []time.Time{now.Add(-10 * 24 * time.Hour), now.Add(-time.Hour)} {
		r := &models.EventRegistration{ID: primitive.NewObjectID(), EventID: "b", RegisteredAt: at}
		if err := repos.Registrations.Create(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	recent, _ := repos.Registrations.Count(ctx, models.RegistrationFilter{Since: now.Add(-7 * 24 * time.Hour)})
	if recent != 1 {
		t.Fatalf("recent registrations = %d", recent)
	}
}

func TestSyncStateLookup(t *testing.T) {
	ctx := context.Background()
	repos := New().Repos()
	p := &models.Project{ID: primitive.NewObjectID(), Slug: "p", StripeLink: models.StripeLink{SyncState: models.SyncPending}}
	if err := repos.Projects.Create(ctx, p); err != nil {
		t.Fatal(err)
	}

	if err := repos.Projects.SetStripeLink(ctx, p.ID, models.StripeLink{ProductID: "prod_1", SyncState: models.SyncPartial}); err != nil {
		t.Fatal(err)
	}
	partial, _ := repos.Projects.ListBySyncState(ctx, models.SyncPartial)
	if len(partial) != 1 || partial[0].ProductID != "prod_1" {
		t.Fatalf("partial = %+v", partial)
	}
	pending, _ := repos.Projects.ListBySyncState(ctx, models.SyncPending)
	if len(pending) != 0 {
		t.Fatalf("pending = %+v", pending)
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Repos().Opportunities.Create(ctx, &models.VolunteerOpportunity{ObjectID: primitive.NewObjectID(), ID: "o"})
	if err := s.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Repos().Opportunities.Count(ctx); n != 0 {
		t.Fatalf("count after reset = %d", n)
	}
}

func ids(events []models.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}
