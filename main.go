package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kriswind/everything-app/handler"
	"github.com/kriswind/everything-app/localstore"
	"github.com/kriswind/everything-app/middleware"
	"github.com/kriswind/everything-app/repository"
	"github.com/kriswind/everything-app/services"
	"github.com/kriswind/everything-app/store"
	"github.com/kriswind/everything-app/usecase"
	"github.com/kriswind/everything-app/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"JWT_SECRET_KEY",
		"JWT_EXPIRATION_TIME",
		"REFRESH_TOKEN_EXPIRATION_TIME",
	}

	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	utils.InitJWT()
	utils.InitMongoClient()
}

func setupRouter(gate *store.Gate, local *localstore.Store) *gin.Engine {
	router := gin.Default()

	sessionRepo := repository.GetSessionRepo(utils.MongoClient)
	userRepo := repository.GetUserRepo(utils.MongoClient)
	userService := &usecase.UserService{Repo: userRepo}

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.SessionMiddleware(sessionRepo))

	router.GET("/health", handler.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", func(c *gin.Context) {
				handler.RegistrationHandler(c, userService)
			})
			auth.POST("/login", func(c *gin.Context) {
				handler.LoginHandler(c, userService, sessionRepo, gate)
			})
			auth.POST("/refresh", handler.RefreshHandler)
		}
	}

	// Protected routes
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		auth := protected.Group("/auth")
		{
			auth.POST("/logout", func(c *gin.Context) {
				handler.LogoutHandler(c, sessionRepo, gate)
			})
			auth.POST("/2fa/setup", func(c *gin.Context) {
				handler.Begin2FASetupHandler(c, userService)
			})
			auth.POST("/2fa/enable", func(c *gin.Context) {
				handler.Enable2FAHandler(c, userService)
			})
			auth.POST("/2fa/disable", func(c *gin.Context) {
				handler.Disable2FAHandler(c, userService)
			})
			auth.DELETE("/account", func(c *gin.Context) {
				handler.DeleteAccountHandler(c, userService, gate, local)
			})
		}

		sessions := protected.Group("/sessions")
		{
			sessions.GET("", func(c *gin.Context) {
				handler.GetSessionsHandler(c, sessionRepo)
			})
			sessions.DELETE("/:id", func(c *gin.Context) {
				handler.EndSessionHandler(c, sessionRepo)
			})
			sessions.POST("/logout-all", func(c *gin.Context) {
				handler.EndAllSessionsHandler(c, sessionRepo)
			})
		}

		todos := protected.Group("/todos")
		{
			todos.GET("", func(c *gin.Context) { handler.GetTodosHandler(c, gate) })
			todos.POST("", func(c *gin.Context) { handler.CreateTodoHandler(c, gate) })
			todos.POST("/:id/toggle", func(c *gin.Context) { handler.ToggleTodoHandler(c, gate) })
			todos.DELETE("/:id", func(c *gin.Context) { handler.DeleteTodoHandler(c, gate) })
		}

		events := protected.Group("/events")
		{
			events.GET("", func(c *gin.Context) { handler.GetEventsHandler(c, gate) })
			events.POST("", func(c *gin.Context) { handler.CreateEventHandler(c, gate) })
			events.PUT("/:id", func(c *gin.Context) { handler.UpdateEventHandler(c, gate) })
			events.DELETE("/:id", func(c *gin.Context) { handler.DeleteEventHandler(c, gate) })
		}

		notes := protected.Group("/notes")
		{
			notes.GET("", func(c *gin.Context) { handler.GetNotesHandler(c, gate) })
			notes.POST("", func(c *gin.Context) { handler.CreateNoteHandler(c, gate) })
			notes.PUT("/:id", func(c *gin.Context) { handler.UpdateNoteHandler(c, gate) })
			notes.DELETE("/:id", func(c *gin.Context) { handler.DeleteNoteHandler(c, gate) })
		}

		alarms := protected.Group("/alarms")
		{
			alarms.GET("", func(c *gin.Context) { handler.GetAlarmsHandler(c, gate) })
			alarms.POST("", func(c *gin.Context) { handler.CreateAlarmHandler(c, gate) })
			alarms.POST("/:id/toggle", func(c *gin.Context) { handler.ToggleAlarmHandler(c, gate) })
			alarms.PUT("/:id", func(c *gin.Context) { handler.UpdateAlarmHandler(c, gate) })
			alarms.DELETE("/:id", func(c *gin.Context) { handler.DeleteAlarmHandler(c, gate) })
		}

		profile := protected.Group("/profile")
		{
			profile.GET("", func(c *gin.Context) { handler.GetProfileHandler(c, gate) })
			profile.PUT("", func(c *gin.Context) { handler.UpdateProfileHandler(c, gate) })
		}

		dashboard := protected.Group("/dashboard")
		{
			dashboard.GET("", func(c *gin.Context) { handler.GetDashboardHandler(c, gate) })
			dashboard.PUT("", func(c *gin.Context) { handler.SetDashboardHandler(c, gate) })
		}

		timer := protected.Group("/timer")
		{
			timer.GET("", func(c *gin.Context) { handler.GetTimerHandler(c, gate) })
			timer.PUT("", func(c *gin.Context) { handler.SetTimerHandler(c, gate) })
			timer.POST("/start", func(c *gin.Context) { handler.StartTimerHandler(c, gate) })
			timer.POST("/stop", func(c *gin.Context) { handler.StopTimerHandler(c, gate) })
			timer.POST("/reset", func(c *gin.Context) { handler.ResetTimerHandler(c, gate) })
		}

		settings := protected.Group("/settings")
		{
			settings.GET("/export", func(c *gin.Context) { handler.ExportDataHandler(c, gate) })
			settings.POST("/reset", func(c *gin.Context) { handler.ResetDataHandler(c, gate, local) })
		}
	}

	return router
}

func main() {
	local, err := localstore.New(utils.GetEnvAsString("LOCAL_STATE_DIR", "data"))
	if err != nil {
		log.Fatalf("Failed to initialize local state store: %v", err)
	}

	repos := store.Collections{
		Todos:    repository.GetTodosRepo(utils.MongoClient),
		Events:   repository.GetEventsRepo(utils.MongoClient),
		Notes:    repository.GetNotesRepo(utils.MongoClient),
		Alarms:   repository.GetAlarmsRepo(utils.MongoClient),
		Profiles: repository.GetProfilesRepo(utils.MongoClient),
	}

	gate := store.NewGate(context.Background(), repos, local)

	userRepo := repository.GetUserRepo(utils.MongoClient)
	gate.SetIdentityLookup(func(ctx context.Context, userID string) (store.Identity, error) {
		user, err := userRepo.FindUser(ctx, userID)
		if err != nil {
			return store.Identity{}, err
		}
		if user == nil {
			return store.Identity{}, fmt.Errorf("user %s not found", userID)
		}
		return store.Identity{UserID: user.UserID, DisplayName: user.Username}, nil
	})

	// Optional Redis-backed token blacklist and session cache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		blacklist, err := services.NewTokenBlacklist(redisURL)
		if err != nil {
			log.Fatalf("Failed to connect token blacklist: %v", err)
		}
		services.TokenBlacklist = blacklist

		cache, err := services.NewSessionCache(redisURL)
		if err != nil {
			log.Fatalf("Failed to connect session cache: %v", err)
		}
		services.GlobalSessionCache = cache
	} else {
		log.Println("REDIS_URL not set; token blacklist and session cache disabled")
	}

	utils.StartSystemMetrics(utils.GetEnvAsDuration("SYSTEM_METRICS_INTERVAL", 15*time.Second))

	router := setupRouter(gate, local)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
