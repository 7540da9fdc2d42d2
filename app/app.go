// Package app wires configuration into the runtime dependencies shared by the
// HTTP server and the sitectl command.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	config "github.com/phillip/nonprofit-site-go/config"
	controllers "github.com/phillip/nonprofit-site-go/controllers"
	middleware "github.com/phillip/nonprofit-site-go/middleware"
	payments "github.com/phillip/nonprofit-site-go/payments"
	store "github.com/phillip/nonprofit-site-go/store"
	memory "github.com/phillip/nonprofit-site-go/store/memory"
	utils "github.com/phillip/nonprofit-site-go/utils"
)

// OpenBackend connects the configured store. Mongo indexes are ensured on
// every start.
func OpenBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Backend, error) {
	switch cfg.StoreDriver {
	case "memory":
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return memory.New(), nil
	case "mongo":
		m, err := store.Connect(ctx, cfg.MongoURI, cfg.DBName)
		if err != nil {
			return nil, err
		}
		if err := m.EnsureIndexes(ctx); err != nil {
			_ = m.Close(context.Background())
			return nil, err
		}
		log.Info().Str("db", cfg.DBName).Msg("connected to mongodb")
		return m, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// NewSynchronizer returns a synchronizer that is disabled when no Stripe key
// is configured.
func NewSynchronizer(cfg *config.Config, projects payments.LinkStore, log zerolog.Logger) *payments.Synchronizer {
	var provider payments.Provider
	if cfg.StripeEnabled() {
		provider = payments.NewStripeProvider(cfg.StripeSecretKey, cfg.StripeCurrency, cfg.StripeMinAmount)
	} else {
		log.Warn().Msg("STRIPE_SECRET_KEY not set; projects will be saved without payment links")
	}
	return payments.NewSynchronizer(provider, projects, cfg.PublicAppURL, cfg.ReconcileGrace, log)
}

// NewEnv builds the handler environment on top of an open backend.
func NewEnv(cfg *config.Config, log zerolog.Logger, backend store.Backend) (*controllers.Env, error) {
	repos := backend.Repos()
	env := &controllers.Env{
		Cfg:      cfg,
		Log:      log,
		Repos:    repos,
		Ping:     backend.Ping,
		Payments: NewSynchronizer(cfg, repos.Projects, log),
		Tokens:   middleware.NewTokens(cfg.JWTSecret, cfg.SessionTTL),
		Mailer:   utils.NoopMailer{},
	}

	if cfg.CloudinaryEnabled() {
		images, err := utils.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			return nil, err
		}
		env.Images = images
	} else {
		log.Warn().Msg("cloudinary not configured; image uploads disabled")
	}

	if cfg.MailEnabled() {
		env.Mailer = utils.NewZeptoMailer(cfg.ZeptoAPIURL, cfg.ZeptoAPIKey, cfg.EmailFrom)
	}

	return env, nil
}
