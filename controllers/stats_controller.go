package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	models "github.com/phillip/nonprofit-site-go/models"
)

type EventStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Archived int64 `json:"archived"`
}

type OpportunityStats struct {
	Total int64 `json:"total"`
}

type MessageStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Unread   int64 `json:"unread"`
	Read     int64 `json:"read"`
	Archived int64 `json:"archived"`
	Spam     int64 `json:"spam"`
}

type RegistrationStats struct {
	Total     int64 `json:"total"`
	Last7Days int64 `json:"last7Days"`
}

type ApplicationStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Reviewed int64 `json:"reviewed"`
	Accepted int64 `json:"accepted"`
	Rejected int64 `json:"rejected"`
}

type ProjectStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Funded   int64 `json:"funded"`
	Archived int64 `json:"archived"`
}

type UserStats struct {
	Total  int64 `json:"total"`
	Admins int64 `json:"admins"`
}

type Stats struct {
	Events        EventStats        `json:"events"`
	Opportunities OpportunityStats  `json:"opportunities"`
	Messages      MessageStats      `json:"messages"`
	Registrations RegistrationStats `json:"registrations"`
	Applications  ApplicationStats  `json:"applications"`
	Projects      ProjectStats      `json:"projects"`
	Users         UserStats         `json:"users"`
}

// GetStats recomputes every dashboard count on each request. The first
// failing count aborts the response.
func GetStats(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := withTimeout(c, listTimeout)
		defer cancel()

		stats, err := env.collectStats(ctx)
		if err != nil {
			env.internalError(c, err, "could not compute stats")
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func (env *Env) collectStats(ctx context.Context) (*Stats, error) {
	r := env.Repos
	var s Stats

	// n runs counts in order; after the first error the rest are skipped.
	var err error
	n := func(fn func() (int64, error)) int64 {
		if err != nil {
			return 0
		}
		var v int64
		v, err = fn()
		return v
	}
	events := func(f models.EventFilter) func() (int64, error) {
		return func() (int64, error) { return r.Events.Count(ctx, f) }
	}
	messages := func(f models.MessageFilter) func() (int64, error) {
		return func() (int64, error) { return r.Messages.Count(ctx, f) }
	}
	applications := func(status string) func() (int64, error) {
		return func() (int64, error) { return r.Applications.Count(ctx, models.ApplicationFilter{Status: status}) }
	}
	projects := func(statuses ...string) func() (int64, error) {
		return func() (int64, error) { return r.Projects.Count(ctx, models.ProjectsWithStatus(statuses...)) }
	}

	s.Events = EventStats{
		Total:    n(events(models.EventsAll)),
		Active:   n(events(models.EventsActive)),
		Archived: n(events(models.EventsArchived)),
	}
	s.Opportunities = OpportunityStats{
		Total: n(func() (int64, error) { return r.Opportunities.Count(ctx) }),
	}
	s.Messages = MessageStats{
		Total:    n(messages(models.MessagesAll)),
		Active:   n(messages(models.MessagesActive)),
		Unread:   n(messages(models.MessagesUnread)),
		Read:     n(messages(models.MessagesRead)),
		Archived: n(messages(models.MessagesArchived)),
		Spam:     n(messages(models.MessagesSpam)),
	}
	weekAgo := now().Add(-7 * 24 * time.Hour)
	s.Registrations = RegistrationStats{
		Total: n(func() (int64, error) { return r.Registrations.Count(ctx, models.RegistrationFilter{}) }),
		Last7Days: n(func() (int64, error) {
			return r.Registrations.Count(ctx, models.RegistrationFilter{Since: weekAgo})
		}),
	}
	s.Applications = ApplicationStats{
		Total:    n(applications("")),
		Pending:  n(applications(models.ApplicationPending)),
		Reviewed: n(applications(models.ApplicationReviewed)),
		Accepted: n(applications(models.ApplicationAccepted)),
		Rejected: n(applications(models.ApplicationRejected)),
	}
	s.Projects = ProjectStats{
		Total:    n(projects()),
		Active:   n(projects(models.ProjectActive)),
		Funded:   n(projects(models.ProjectFunded)),
		Archived: n(projects(models.ProjectArchived)),
	}
	s.Users = UserStats{
		Total:  n(func() (int64, error) { return r.Users.Count(ctx, models.UserFilter{}) }),
		Admins: n(func() (int64, error) { return r.Users.Count(ctx, models.UserFilter{Role: models.RoleAdmin}) }),
	}

	if err != nil {
		return nil, err
	}
	return &s, nil
}
