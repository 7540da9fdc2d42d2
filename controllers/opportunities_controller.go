package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/phillip/nonprofit-site-go/models"
	store "github.com/phillip/nonprofit-site-go/store"
)

type opportunityInput struct {
	ID          string            `json:"id" binding:"required,min=2,slug"`
	Title       string            `json:"title" binding:"required,min=3"`
	Commitment  string            `json:"commitment" binding:"required,min=2"`
	Location    string            `json:"location" binding:"required,min=2"`
	Skills      []string          `json:"skills"`
	Description string            `json:"description" binding:"required,min=10"`
	Image       *models.ImageMeta `json:"image"`
}

// ---------------- CREATE ----------------
func CreateOpportunity(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input opportunityInput
		if !bindJSON(c, &input) {
			return
		}
		if input.Skills == nil {
			input.Skills = []string{}
		}

		ts := now()
		opp := models.VolunteerOpportunity{
			ObjectID:    primitive.NewObjectID(),
			ID:          input.ID,
			Title:       input.Title,
			Commitment:  input.Commitment,
			Location:    input.Location,
			Skills:      input.Skills,
			Description: input.Description,
			Image:       input.Image,
			CreatedAt:   ts,
			UpdatedAt:   ts,
		}

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		if err := env.Repos.Opportunities.Create(ctx, &opp); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				respondError(c, http.StatusConflict, fmt.Sprintf("A volunteer opportunity with id %q already exists", input.ID))
				return
			}
			env.internalError(c, err, "could not create volunteer opportunity")
			return
		}

		c.JSON(http.StatusCreated, opp)
	}
}

// ---------------- LIST ----------------
func ListOpportunities(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := withTimeout(c, listTimeout)
		defer cancel()

		opps, err := env.Repos.Opportunities.List(ctx)
		if err != nil {
			env.internalError(c, err, "could not fetch volunteer opportunities")
			return
		}
		c.JSON(http.StatusOK, opps)
	}
}

// ---------------- GET ----------------
func GetOpportunity(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		opp, err := env.Repos.Opportunities.Get(ctx, c.Param("id"))
		if err != nil {
			env.storeError(c, err, "volunteer opportunity", "could not fetch volunteer opportunity")
			return
		}
		c.JSON(http.StatusOK, opp)
	}
}

// ---------------- UPDATE ----------------
func UpdateOpportunity(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch models.OpportunityPatch
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

		updated, err := env.Repos.Opportunities.Update(ctx, c.Param("id"), patch)
		if err != nil {
			env.storeError(c, err, "volunteer opportunity", "could not update volunteer opportunity")
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// ---------------- DELETE ----------------
func DeleteOpportunity(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("id")

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		existing, err := env.Repos.Opportunities.Get(ctx, slug)
		if err != nil {
			env.storeError(c, err, "volunteer opportunity", "could not fetch volunteer opportunity")
			return
		}
		if err := env.Repos.Opportunities.Delete(ctx, slug); err != nil {
			env.storeError(c, err, "volunteer opportunity", "failed to delete volunteer opportunity")
			return
		}

		env.deleteImage(c, existing.Image)

		c.JSON(http.StatusOK, gin.H{
			"message": "volunteer opportunity deleted successfully",
			"id":      slug,
		})
	}
}
