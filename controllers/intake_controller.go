package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/phillip/nonprofit-site-go/models"
)

type registrationInput struct {
	Name      string `json:"name" binding:"required,min=2"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Attendees int    `json:"attendees" binding:"omitempty,gte=1"`
}

type applicationInput struct {
	Name         string `json:"name" binding:"required,min=2"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	Reason       string `json:"reason" binding:"required,min=10"`
	Skills       string `json:"skills"`
	Availability string `json:"availability"`
}

type contactInput struct {
	Name    string `json:"name" binding:"required,min=2"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,min=3"`
	Message string `json:"message" binding:"required,min=10"`
}

// ---------------- REGISTER FOR EVENT ----------------

// RegisterForEvent appends a registration. Capacity is not enforced.
func RegisterForEvent(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input registrationInput
		if !bindJSON(c, &input) {
			return
		}
		if input.Attendees == 0 {
			input.Attendees = 1
		}

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		event, err := env.Repos.Events.Get(ctx, c.Param("id"))
		if err != nil {
			env.storeError(c, err, "event", "could not fetch event")
			return
		}
		if event.IsArchived {
			respondError(c, http.StatusNotFound, "event not found")
			return
		}

		reg := models.EventRegistration{
			ID:           primitive.NewObjectID(),
			EventID:      event.ID,
			EventTitle:   event.Title,
			Name:         strings.TrimSpace(input.Name),
			Email:        strings.ToLower(strings.TrimSpace(input.Email)),
			Phone:        input.Phone,
			Attendees:    input.Attendees,
			RegisteredAt: now(),
		}
		if err := env.Repos.Registrations.Create(ctx, &reg); err != nil {
			env.internalError(c, err, "could not save registration")
			return
		}

		env.notify(ctx, reg.Email, "Registration confirmed: "+event.Title, fmt.Sprintf(
			"<p>Hi %s,</p><p>You are registered for <strong>%s</strong> on %s at %s (%s).</p><p>Attendees: %d</p>",
			esc(reg.Name), esc(event.Title), esc(event.Date), esc(event.Time), esc(event.Location), reg.Attendees,
		))

		c.JSON(http.StatusCreated, reg)
	}
}

// ---------------- APPLY FOR OPPORTUNITY ----------------
func ApplyForOpportunity(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input applicationInput
		if !bindJSON(c, &input) {
			return
		}

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		opp, err := env.Repos.Opportunities.Get(ctx, c.Param("id"))
		if err != nil {
			env.storeError(c, err, "volunteer opportunity", "could not fetch volunteer opportunity")
			return
		}

		ts := now()
		app := models.VolunteerApplication{
			ID:               primitive.NewObjectID(),
			OpportunityID:    opp.ID,
			OpportunityTitle: opp.Title,
			Name:             strings.TrimSpace(input.Name),
			Email:            strings.ToLower(strings.TrimSpace(input.Email)),
			Phone:            input.Phone,
			Reason:           input.Reason,
			Skills:           input.Skills,
			Availability:     input.Availability,
			Status:           models.ApplicationPending,
			SubmittedAt:      ts,
			UpdatedAt:        ts,
		}
		if err := env.Repos.Applications.Create(ctx, &app); err != nil {
			env.internalError(c, err, "could not save application")
			return
		}

		env.notify(ctx, app.Email, "Thanks for applying: "+opp.Title, fmt.Sprintf(
			"<p>Hi %s,</p><p>We received your application for <strong>%s</strong> and will be in touch.</p>",
			esc(app.Name), esc(opp.Title),
		))
		env.notify(ctx, env.Cfg.NotifyEmail, "New volunteer application: "+opp.Title, fmt.Sprintf(
			"<p>%s &lt;%s&gt; applied for <strong>%s</strong>.</p><p>%s</p>",
			esc(app.Name), esc(app.Email), esc(opp.Title), esc(app.Reason),
		))

		c.JSON(http.StatusCreated, app)
	}
}

// ---------------- CONTACT ----------------
func SubmitContact(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input contactInput
		if !bindJSON(c, &input) {
			return
		}

		msg := models.ContactMessage{
			ID:          primitive.NewObjectID(),
			Name:        strings.TrimSpace(input.Name),
			Email:       strings.ToLower(strings.TrimSpace(input.Email)),
			Subject:     input.Subject,
			Message:     input.Message,
			SubmittedAt: now(),
			IsRead:      false,
			Status:      models.MessageActive,
		}

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		if err := env.Repos.Messages.Create(ctx, &msg); err != nil {
			env.internalError(c, err, "could not save message")
			return
		}

		env.notify(ctx, env.Cfg.NotifyEmail, "New contact message: "+msg.Subject, fmt.Sprintf(
			"<p>From %s &lt;%s&gt;</p><p>%s</p>",
			esc(msg.Name), esc(msg.Email), esc(msg.Message),
		))

		c.JSON(http.StatusCreated, msg)
	}
}
