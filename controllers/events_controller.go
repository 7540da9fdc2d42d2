package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/phillip/nonprofit-site-go/models"
	store "github.com/phillip/nonprofit-site-go/store"
	utils "github.com/phillip/nonprofit-site-go/utils"
)

type eventInput struct {
	ID              string            `json:"id" binding:"required,min=2,slug"`
	Title           string            `json:"title" binding:"required,min=3"`
	Date            string            `json:"date" binding:"required"`
	Time            string            `json:"time" binding:"required"`
	Location        string            `json:"location" binding:"required,min=2"`
	Organizer       string            `json:"organizer"`
	Description     string            `json:"description" binding:"required,min=10"`
	FullDescription string            `json:"fullDescription"`
	Image           *models.ImageMeta `json:"image"`
	MaxAttendees    *int              `json:"maxAttendees" binding:"omitnil,gte=1"`
	IsArchived      bool              `json:"isArchived"`
}

// ---------------- CREATE ----------------
func CreateEvent(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input eventInput
		if !bindJSON(c, &input) {
			return
		}

		ts := now()
		event := models.Event{
			ObjectID:        primitive.NewObjectID(),
			ID:              input.ID,
			Title:           input.Title,
			Date:            input.Date,
			Time:            input.Time,
			Location:        input.Location,
			Organizer:       input.Organizer,
			Description:     input.Description,
			FullDescription: input.FullDescription,
			Image:           input.Image,
			MaxAttendees:    input.MaxAttendees,
			IsArchived:      input.IsArchived,
			CreatedAt:       ts,
			UpdatedAt:       ts,
		}

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		if err := env.Repos.Events.Create(ctx, &event); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				respondError(c, http.StatusConflict, fmt.Sprintf("An event with id %q already exists", input.ID))
				return
			}
			env.internalError(c, err, "could not create event")
			return
		}

		c.JSON(http.StatusCreated, event)
	}
}

// ---------------- LIST ----------------

// ListPublicEvents returns non-archived events only.
func ListPublicEvents(env *Env) gin.HandlerFunc {
	return listEvents(env, func(*gin.Context) (models.EventFilter, bool) {
		return models.EventsActive, true
	})
}

// ListEvents is the admin listing, filtered by ?status=all|active|archived.
func ListEvents(env *Env) gin.HandlerFunc {
	return listEvents(env, func(c *gin.Context) (models.EventFilter, bool) {
		f, ok := models.ParseEventFilter(c.Query("status"))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid status filter",
				"details": gin.H{"allowed": []models.EventFilter{models.EventsAll, models.EventsActive, models.EventsArchived}},
			})
		}
		return f, ok
	})
}

func listEvents(env *Env, filter func(*gin.Context) (models.EventFilter, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, ok := filter(c)
		if !ok {
			return
		}

		ctx, cancel := withTimeout(c, listTimeout)
		defer cancel()

		events, err := env.Repos.Events.List(ctx, f)
		if err != nil {
			env.internalError(c, err, "could not fetch events")
			return
		}

		if len(events) > 0 {
			// --- ETag from the most recently updated event ---
			latest := events[0]
			for _, ev := range events {
				if ev.UpdatedAt.After(latest.UpdatedAt) {
					latest = ev
				}
			}
			etag := utils.GenerateETag(fmt.Sprintf("%s/%d", latest.ID, len(events)), latest.UpdatedAt)
			if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
				c.Status(http.StatusNotModified)
				return
			}
			c.Header("ETag", etag)
		}

		c.JSON(http.StatusOK, events)
	}
}

// ---------------- GET ----------------

// GetPublicEvent hides archived events.
func GetPublicEvent(env *Env) gin.HandlerFunc {
	return getEvent(env, false)
}

func GetEvent(env *Env) gin.HandlerFunc {
	return getEvent(env, true)
}

func getEvent(env *Env, includeArchived bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		event, err := env.Repos.Events.Get(ctx, c.Param("id"))
		if err != nil {
			env.storeError(c, err, "event", "could not fetch event")
			return
		}
		if event.IsArchived && !includeArchived {
			respondError(c, http.StatusNotFound, "event not found")
			return
		}

		etag := utils.GenerateETag(event.ID, event.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, event)
	}
}

// ---------------- UPDATE ----------------
func UpdateEvent(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch models.EventPatch
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

		updated, err := env.Repos.Events.Update(ctx, c.Param("id"), patch)
		if err != nil {
			env.storeError(c, err, "event", "could not update event")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// ---------------- DELETE ----------------
func DeleteEvent(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("id")

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		existing, err := env.Repos.Events.Get(ctx, slug)
		if err != nil {
			env.storeError(c, err, "event", "could not fetch event")
			return
		}

		// Registrations referencing the slug are kept.
		if err := env.Repos.Events.Delete(ctx, slug); err != nil {
			env.storeError(c, err, "event", "failed to delete event")
			return
		}

		env.deleteImage(c, existing.Image)

		c.JSON(http.StatusOK, gin.H{
			"message": "event deleted successfully",
			"id":      slug,
		})
	}
}

// deleteImage removes a hosted image after its document is gone. Failures
// are logged and otherwise ignored.
func (env *Env) deleteImage(c *gin.Context, img *models.ImageMeta) {
	if env.Images == nil || img == nil || img.Src == "" {
		return
	}
	ctx, cancel := detached(c, providerTimeout)
	defer cancel()
	if err := env.Images.Delete(ctx, *img); err != nil {
		env.Log.Warn().Err(err).Str("src", img.Src).Msg("image not deleted from cloudinary")
	}
}
