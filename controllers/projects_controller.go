package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/phillip/nonprofit-site-go/models"
	payments "github.com/phillip/nonprofit-site-go/payments"
	store "github.com/phillip/nonprofit-site-go/store"
	utils "github.com/phillip/nonprofit-site-go/utils"
)

type projectInput struct {
	Slug            string            `json:"slug" binding:"required,min=2,slug"`
	Title           string            `json:"title" binding:"required,min=3"`
	Description     string            `json:"description" binding:"required,min=10"`
	FullDescription string            `json:"fullDescription"`
	Image           *models.ImageMeta `json:"image"`
	GoalAmount      float64           `json:"goalAmount" binding:"required,gt=0"`
	CurrentAmount   float64           `json:"currentAmount" binding:"gte=0"`
	Status          string            `json:"status" binding:"omitempty,oneof=active funded archived"`
	StartDate       string            `json:"startDate"`
	EndDate         string            `json:"endDate"`
}

// projectResponse flattens the project and attaches any provider warning.
type projectResponse struct {
	*models.Project
	StripeWarning string `json:"stripeWarning,omitempty"`
}

// ---------------- CREATE ----------------
func CreateProject(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input projectInput
		if !bindJSON(c, &input) {
			return
		}

		start, ok := optionalDate(c, "startDate", input.StartDate)
		if !ok {
			return
		}
		end, ok := optionalDate(c, "endDate", input.EndDate)
		if !ok {
			return
		}
		if input.Status == "" {
			input.Status = models.ProjectActive
		}

		ts := now()
		project := models.Project{
			ID:              primitive.NewObjectID(),
			Slug:            input.Slug,
			Title:           input.Title,
			Description:     input.Description,
			FullDescription: input.FullDescription,
			Image:           input.Image,
			GoalAmount:      input.GoalAmount,
			CurrentAmount:   input.CurrentAmount,
			Status:          input.Status,
			StartDate:       start,
			EndDate:         end,
			StripeLink:      models.StripeLink{SyncState: models.SyncPending},
			CreatedAt:       ts,
			UpdatedAt:       ts,
		}

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		if err := env.Repos.Projects.Create(ctx, &project); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				respondError(c, http.StatusConflict, fmt.Sprintf("A project with slug %q already exists", input.Slug))
				return
			}
			env.internalError(c, err, "could not create project")
			return
		}

		// The document exists from here on; provider trouble only produces a warning.
		pctx, pcancel := detached(c, providerTimeout)
		defer pcancel()
		warning := env.Payments.Link(pctx, &project)

		c.JSON(http.StatusCreated, projectResponse{Project: &project, StripeWarning: warning})
	}
}

// ---------------- LIST ----------------

// ListPublicProjects returns active and funded projects.
func ListPublicProjects(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := withTimeout(c, listTimeout)
		defer cancel()

		projects, err := env.Repos.Projects.List(ctx, models.ProjectsWithStatus(models.ProjectActive, models.ProjectFunded))
		if err != nil {
			env.internalError(c, err, "could not fetch projects")
			return
		}
		c.JSON(http.StatusOK, projects)
	}
}

func ListProjects(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.ProjectFilter
		switch status := c.Query("status"); status {
		case "", "all":
		case models.ProjectActive, models.ProjectFunded, models.ProjectArchived:
			filter = models.ProjectsWithStatus(status)
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid status filter",
				"details": gin.H{"allowed": []string{"all", models.ProjectActive, models.ProjectFunded, models.ProjectArchived}},
			})
			return
		}

		ctx, cancel := withTimeout(c, listTimeout)
		defer cancel()

		projects, err := env.Repos.Projects.List(ctx, filter)
		if err != nil {
			env.internalError(c, err, "could not fetch projects")
			return
		}
		c.JSON(http.StatusOK, projects)
	}
}

// ---------------- GET ----------------

// GetPublicProject looks a project up by slug; archived projects are hidden.
func GetPublicProject(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		project, err := env.Repos.Projects.GetBySlug(ctx, c.Param("slug"))
		if err != nil {
			env.storeError(c, err, "project", "could not fetch project")
			return
		}
		if project.Status == models.ProjectArchived {
			respondError(c, http.StatusNotFound, "project not found")
			return
		}
		c.JSON(http.StatusOK, project)
	}
}

func GetProject(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "project")
		if !ok {
			return
		}

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		project, err := env.Repos.Projects.Get(ctx, id)
		if err != nil {
			env.storeError(c, err, "project", "could not fetch project")
			return
		}
		c.JSON(http.StatusOK, project)
	}
}

// ---------------- UPDATE ----------------
func UpdateProject(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "project")
		if !ok {
			return
		}

		var patch models.ProjectPatch
		if !bindJSON(c, &patch) {
			return
		}
		if patch.StartDateRaw != nil {
			if patch.StartDate, ok = optionalDate(c, "startDate", *patch.StartDateRaw); !ok {
				return
			}
			patch.ClearStartDate = patch.StartDate == nil
		}
		if patch.EndDateRaw != nil {
			if patch.EndDate, ok = optionalDate(c, "endDate", *patch.EndDateRaw); !ok {
				return
			}
			patch.ClearEndDate = patch.EndDate == nil
		}
		if patch.Empty() {
			respondError(c, http.StatusBadRequest, "no fields to update")
			return
		}
		ts := now()
		patch.UpdatedAt = &ts

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		existing, err := env.Repos.Projects.Get(ctx, id)
		if err != nil {
			env.storeError(c, err, "project", "could not fetch project")
			return
		}

		updated, err := env.Repos.Projects.Update(ctx, id, patch)
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				respondError(c, http.StatusConflict, fmt.Sprintf("A project with slug %q already exists", *patch.Slug))
				return
			}
			env.storeError(c, err, "project", "could not update project")
			return
		}

		// Provider calls only follow a status change away from active.
		var warning string
		if patch.Status != nil && *patch.Status != existing.Status && *patch.Status != models.ProjectActive {
			pctx, pcancel := detached(c, providerTimeout)
			defer pcancel()
			warning = env.Payments.Unlink(pctx, updated)
		}

		c.JSON(http.StatusOK, projectResponse{Project: updated, StripeWarning: warning})
	}
}

// ---------------- DELETE ----------------
func DeleteProject(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "project")
		if !ok {
			return
		}

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		existing, err := env.Repos.Projects.Get(ctx, id)
		if err != nil {
			env.storeError(c, err, "project", "could not fetch project")
			return
		}
		if err := env.Repos.Projects.Delete(ctx, id); err != nil {
			env.storeError(c, err, "project", "failed to delete project")
			return
		}

		pctx, pcancel := detached(c, providerTimeout)
		defer pcancel()
		warning := env.Payments.Unlink(pctx, existing)
		env.deleteImage(c, existing.Image)

		resp := gin.H{
			"message": "project deleted successfully",
			"id":      id.Hex(),
		}
		if warning != "" {
			resp["stripeWarning"] = warning
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ---------------- RECONCILE ----------------

// ReconcileProjects resumes interrupted Stripe linkage for active projects.
func ReconcileProjects(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := detached(c, 5*providerTimeout)
		defer cancel()

		report, err := env.Payments.Reconcile(ctx)
		if err != nil {
			if errors.Is(err, payments.ErrNotConfigured) {
				respondError(c, http.StatusBadRequest, "Stripe is not configured (STRIPE_SECRET_KEY missing)")
				return
			}
			env.internalError(c, err, "could not reconcile projects")
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// ---------------- DONATE ----------------
func GeneralDonation(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"generalDonationLink": env.Cfg.GeneralDonation})
	}
}

// optionalDate parses a date field; "" yields nil.
func optionalDate(c *gin.Context, field, raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	t, err := utils.ParseDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": []FieldError{{Field: field, Message: "must be a date (YYYY-MM-DD or RFC 3339)"}},
		})
		return nil, false
	}
	return &t, true
}
