package controllers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	models "github.com/phillip/nonprofit-site-go/models"
)

// ---------------- REGISTRATIONS ----------------

// ListRegistrations is read-only; registrations are never edited or removed.
func ListRegistrations(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.RegistrationFilter{EventID: c.Query("eventId")}

		ctx, cancel := withTimeout(c, listTimeout)
		defer cancel()

		regs, err := env.Repos.Registrations.List(ctx, filter)
		if err != nil {
			env.internalError(c, err, "could not fetch registrations")
			return
		}
		c.JSON(http.StatusOK, regs)
	}
}

// ---------------- APPLICATIONS ----------------
func ListApplications(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.ApplicationFilter{
			Status:        c.Query("status"),
			OpportunityID: c.Query("opportunityId"),
		}
		if filter.Status == "all" {
			filter.Status = ""
		}
		if filter.Status != "" && !slices.Contains(models.ApplicationStatuses, filter.Status) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid status filter",
				"details": gin.H{"allowed": append([]string{"all"}, models.ApplicationStatuses...)},
			})
			return
		}

		ctx, cancel := withTimeout(c, listTimeout)
		defer cancel()

		apps, err := env.Repos.Applications.List(ctx, filter)
		if err != nil {
			env.internalError(c, err, "could not fetch applications")
			return
		}
		c.JSON(http.StatusOK, apps)
	}
}

func GetApplication(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "application")
		if !ok {
			return
		}

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		app, err := env.Repos.Applications.Get(ctx, id)
		if err != nil {
			env.storeError(c, err, "application", "could not fetch application")
			return
		}
		c.JSON(http.StatusOK, app)
	}
}

func UpdateApplication(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "application")
		if !ok {
			return
		}

		var patch models.ApplicationPatch
		if !bindJSON(c, &patch) {
			return
		}
		if patch.Empty() {
			respondError(c, http.StatusBadRequest, "no fields to update")
			return
		}
		ts := now()
		patch.UpdatedAt = &ts

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		updated, err := env.Repos.Applications.Update(ctx, id, patch)
		if err != nil {
			env.storeError(c, err, "application", "could not update application")
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func DeleteApplication(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "application")
		if !ok {
			return
		}

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		if err := env.Repos.Applications.Delete(ctx, id); err != nil {
			env.storeError(c, err, "application", "failed to delete application")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "application deleted successfully",
			"id":      id.Hex(),
		})
	}
}
