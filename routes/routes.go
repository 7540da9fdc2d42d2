package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	controllers "github.com/phillip/nonprofit-site-go/controllers"
	middleware "github.com/phillip/nonprofit-site-go/middleware"
)

func SetupRoutes(r *gin.Engine, env *controllers.Env) {
	controllers.RegisterValidators()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(env.Log))
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(env.Cfg.CORSOrigins)))

	// public
	api := r.Group("/api")
	{
		api.GET("/health", controllers.Health(env))

		api.GET("/events", controllers.ListPublicEvents(env))
		api.GET("/events/:id", controllers.GetPublicEvent(env))
		api.POST("/events/:id/register", controllers.RegisterForEvent(env))

		api.GET("/volunteer", controllers.ListOpportunities(env))
		api.GET("/volunteer/:id", controllers.GetOpportunity(env))
		api.POST("/volunteer/:id/apply", controllers.ApplyForOpportunity(env))

		api.POST("/contact", controllers.SubmitContact(env))

		api.GET("/projects", controllers.ListPublicProjects(env))
		api.GET("/projects/:slug", controllers.GetPublicProject(env))
		api.GET("/donate", controllers.GeneralDonation(env))
	}

	// auth
	auth := middleware.AuthMiddleware(env.Tokens)

	sessions := api.Group("/auth")
	{
		sessions.POST("/register", controllers.Register(env))
		sessions.POST("/login", controllers.Login(env))
		sessions.POST("/logout", controllers.Logout(env))
		sessions.GET("/session", auth, controllers.Session(env))
	}

	// protected
	admin := api.Group("/admin")
	admin.Use(auth, middleware.RequireAdmin(env.Repos.Users))
	{
		admin.GET("/stats", controllers.GetStats(env))
		admin.POST("/uploads", controllers.UploadImages(env))

		events := admin.Group("/events")
		events.GET("", controllers.ListEvents(env))
		events.POST("", controllers.CreateEvent(env))
		events.GET("/:id", controllers.GetEvent(env))
		events.PUT("/:id", controllers.UpdateEvent(env))
		events.DELETE("/:id", controllers.DeleteEvent(env))

		volunteer := admin.Group("/volunteer")
		volunteer.GET("", controllers.ListOpportunities(env))
		volunteer.POST("", controllers.CreateOpportunity(env))
		volunteer.GET("/:id", controllers.GetOpportunity(env))
		volunteer.PUT("/:id", controllers.UpdateOpportunity(env))
		volunteer.DELETE("/:id", controllers.DeleteOpportunity(env))

		messages := admin.Group("/messages")
		messages.GET("", controllers.ListMessages(env))
		messages.GET("/:id", controllers.GetMessage(env))
		messages.PUT("/:id", controllers.UpdateMessage(env))
		messages.DELETE("/:id", controllers.DeleteMessage(env))

		admin.GET("/registrations", controllers.ListRegistrations(env))

		applications := admin.Group("/applications")
		applications.GET("", controllers.ListApplications(env))
		applications.GET("/:id", controllers.GetApplication(env))
		applications.PUT("/:id", controllers.UpdateApplication(env))
		applications.DELETE("/:id", controllers.DeleteApplication(env))

		projects := admin.Group("/projects")
		projects.GET("", controllers.ListProjects(env))
		projects.POST("", controllers.CreateProject(env))
		projects.POST("/reconcile", controllers.ReconcileProjects(env))
		projects.GET("/:id", controllers.GetProject(env))
		projects.PUT("/:id", controllers.UpdateProject(env))
		projects.DELETE("/:id", controllers.DeleteProject(env))

		users := admin.Group("/users")
		users.GET("", controllers.ListUsers(env))
		users.PUT("/:id", controllers.UpdateUser(env))
		users.DELETE("/:id", controllers.DeleteUser(env))
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "If-None-Match", "X-Request-ID"},
		ExposeHeaders: []string{"ETag", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	// Session cookies only travel to explicitly listed origins.
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
