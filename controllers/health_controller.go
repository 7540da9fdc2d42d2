package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health reports whether the store answers a ping.
func Health(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := withTimeout(c, 2*time.Second)
		defer cancel()

		if env.Ping != nil {
			if err := env.Ping(ctx); err != nil {
				env.Log.Warn().Err(err).Msg("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "store": "unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"store":  env.Cfg.StoreDriver,
			"stripe": env.Payments.Enabled(),
		})
	}
}
