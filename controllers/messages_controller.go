package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	models "github.com/phillip/nonprofit-site-go/models"
)

// ---------------- LIST ----------------
func ListMessages(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := models.ParseMessageFilter(c.Query("status"))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid status filter",
				"details": gin.H{"allowed": models.MessageFilters},
			})
			return
		}

		ctx, cancel := withTimeout(c, listTimeout)
		defer cancel()

		messages, err := env.Repos.Messages.List(ctx, filter)
		if err != nil {
			env.internalError(c, err, "could not fetch messages")
			return
		}
		c.JSON(http.StatusOK, messages)
	}
}

// ---------------- GET ----------------
func GetMessage(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "message")
		if !ok {
			return
		}

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		msg, err := env.Repos.Messages.Get(ctx, id)
		if err != nil {
			env.storeError(c, err, "message", "could not fetch message")
			return
		}
		c.JSON(http.StatusOK, msg)
	}
}

// ---------------- UPDATE ----------------

// UpdateMessage toggles isRead and moves a message between active, archived and spam.
func UpdateMessage(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "message")
		if !ok {
			return
		}

		var patch models.MessagePatch
		if !bindJSON(c, &patch) {
			return
		}
		if patch.Empty() {
			respondError(c, http.StatusBadRequest, "no fields to update")
			return
		}

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		updated, err := env.Repos.Messages.Update(ctx, id, patch)
		if err != nil {
			env.storeError(c, err, "message", "could not update message")
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// ---------------- DELETE ----------------
func DeleteMessage(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "message")
		if !ok {
			return
		}

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		if err := env.Repos.Messages.Delete(ctx, id); err != nil {
			env.storeError(c, err, "message", "failed to delete message")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "message deleted successfully",
			"id":      id.Hex(),
		})
	}
}
