package controllers

import (
	"context"
	"errors"
	"html"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/phillip/nonprofit-site-go/config"
	middleware "github.com/phillip/nonprofit-site-go/middleware"
	payments "github.com/phillip/nonprofit-site-go/payments"
	store "github.com/phillip/nonprofit-site-go/store"
	utils "github.com/phillip/nonprofit-site-go/utils"
)

// Env carries everything a handler needs. It is built once in main.
type Env struct {
	Cfg      *config.Config
	Log      zerolog.Logger
	Repos    store.Repositories
	Ping     func(ctx context.Context) error
	Payments *payments.Synchronizer
	Tokens   *middleware.Tokens
	Images   utils.ImageStore // nil when Cloudinary is not configured
	Mailer   utils.Mailer
}

const (
	dbTimeout       = 5 * time.Second
	listTimeout     = 10 * time.Second
	providerTimeout = 45 * time.Second
)

func withTimeout(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), d)
}

// detached keeps request values but not cancellation: once a provider step
// starts, it and its write-back run until done or until d elapses.
func detached(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(c.Request.Context()), d)
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// internalError logs the full cause and answers with a short message only.
func (env *Env) internalError(c *gin.Context, err error, msg string) {
	_ = c.Error(err)
	env.Log.Error().Err(err).
		Str("request_id", c.GetString("request_id")).
		Str("path", c.FullPath()).
		Msg(msg)
	respondError(c, http.StatusInternalServerError, msg)
}

// storeError maps repository errors: not-found becomes 404, anything else 500.
func (env *Env) storeError(c *gin.Context, err error, what, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, what+" not found")
		return
	}
	env.internalError(c, err, msg)
}

func objectIDParam(c *gin.Context, what string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid "+what+" id")
		return primitive.NilObjectID, false
	}
	return oid, true
}

func now() time.Time { return time.Now().UTC() }

// notify sends a best-effort email; failures are only logged.
func (env *Env) notify(ctx context.Context, to, subject, body string) {
	if env.Mailer == nil || to == "" {
		return
	}
	if err := env.Mailer.Send(ctx, to, subject, body); err != nil {
		env.Log.Warn().Err(err).Str("to", to).Str("subject", subject).Msg("email not sent")
	}
}

func esc(s string) string { return html.EscapeString(s) }
