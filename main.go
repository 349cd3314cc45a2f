package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"main/config"
	"main/handler"
	"main/middleware"
	"main/repository"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Fatalf("Error loading .env file: %v", err)
	}

	// Check required environment variables
	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"USERS_COLLECTION",
		"HABITS_COLLECTION",
		"GOALS_COLLECTION",
		"SESSION_COLLECTION",
		"JWT_SECRET_KEY",
		"JWT_EXPIRATION_TIME",
		"REFRESH_TOKEN_EXPIRATION_TIME",
		"REDIS_URL",
		"PORT",
	}

	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	utils.InitJWT()
	utils.InitMongoClient(config.LoadDatabaseConfig().ClientOptions())
}

func setupRouter() *gin.Engine {
	router := gin.Default()

	cacheConfig := config.LoadCacheConfig()

	// Redis-backed collaborators: habit mirror, session cache, blacklist
	habitCache, err := services.NewHabitCache(cacheConfig.RedisURL)
	if err != nil {
		log.Fatalf("Failed to initialize habit mirror: %v", err)
	}
	services.GlobalHabitCache = habitCache

	sessionCache, err := services.NewSessionCache(cacheConfig.RedisURL)
	if err != nil {
		log.Fatalf("Failed to initialize session cache: %v", err)
	}
	services.GlobalSessionCache = sessionCache

	blacklist, err := services.NewTokenBlacklist(cacheConfig.RedisURL)
	if err != nil {
		log.Fatalf("Failed to initialize token blacklist: %v", err)
	}
	services.TokenBlacklist = blacklist

	// Repositories
	usersRepo := repository.GetUsersRepo(utils.MongoClient)
	if err := usersRepo.EnsureIndexes(context.Background()); err != nil {
		log.Printf("Failed to ensure user indexes: %v", err)
	}
	habitsRepo := repository.GetHabitsRepo(utils.MongoClient)
	goalsRepo := repository.GetGoalsRepo(utils.MongoClient)
	sessionRepo := repository.GetSessionRepo(utils.MongoClient)

	// Services
	userService := &usecase.UserService{UsersRepo: usersRepo}
	habitsService := usecase.NewHabitsService(habitsRepo, habitCache)
	goalsService := usecase.NewGoalsService(goalsRepo)

	// Handlers
	habitsHandler := handler.NewHabitsHandler(habitsService)
	goalsHandler := handler.NewGoalsHandler(goalsService, habitsService)
	statsHandler := handler.NewStatsHandler(usersRepo, sessionRepo, habitsService, goalsService)

	// Midnight rollover re-projection
	rollover := services.NewDayRollover(habitCache, cacheConfig.RolloverInterval)
	rollover.Start()

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.EnhancedRecoveryMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.RequestSizeLimiter(1 << 20))
	router.Use(middleware.SessionMiddleware(sessionRepo))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes (no authentication required)
	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", func(c *gin.Context) {
				handler.RegistrationHandler(c, userService)
			})
			auth.POST("/login", func(c *gin.Context) {
				handler.LoginHandler(c, userService, sessionRepo)
			})
			auth.POST("/refresh", handler.RefreshTokenHandler)
		}
		public.GET("/health", statsHandler.GetSystemHealth)
	}

	// Protected routes (authentication required)
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		// User management
		user := protected.Group("/user")
		{
			user.GET("/profile", func(c *gin.Context) {
				handler.GetUserProfileHandler(c, userService)
			})
			user.POST("/change-email", func(c *gin.Context) {
				handler.ChangeEmailHandler(c, userService)
			})
			user.POST("/change-password", func(c *gin.Context) {
				handler.ChangePasswordHandler(c, userService)
			})
			user.POST("/logout", func(c *gin.Context) {
				handler.LogoutHandler(c, sessionRepo)
			})
			user.DELETE("/delete", func(c *gin.Context) {
				handler.DeleteUserHandler(c, userService)
			})

			twofa := user.Group("/2fa")
			{
				twofa.POST("/setup", func(c *gin.Context) {
					handler.Setup2FAHandler(c, userService)
				})
				twofa.POST("/enable", func(c *gin.Context) {
					handler.Enable2FAHandler(c, userService)
				})
				twofa.POST("/disable", func(c *gin.Context) {
					handler.Disable2FAHandler(c, userService)
				})
			}
		}

		// Session management endpoints
		sessions := protected.Group("/sessions")
		{
			sessions.GET("/active", func(c *gin.Context) {
				handler.GetActiveSessions(c, sessionRepo)
			})
			sessions.POST("/logout-all", func(c *gin.Context) {
				handler.LogoutAllSessions(c, sessionRepo)
			})
		}

		// Habit endpoints
		habits := protected.Group("/habits")
		{
			habits.GET("/", habitsHandler.GetUserHabits)
			habits.POST("/", habitsHandler.CreateHabit)
			habits.PUT("/reorder", habitsHandler.ReorderHabits)
			habits.PUT("/:id", habitsHandler.UpdateHabit)
			habits.DELETE("/:id", habitsHandler.DeleteHabit)
			habits.POST("/:id/toggle", habitsHandler.ToggleCompletion)
			habits.GET("/:id/streak", habitsHandler.GetHabitStreak)
		}

		// Goal endpoints
		goals := protected.Group("/goals")
		{
			goals.GET("/", goalsHandler.GetUserGoals)
			goals.POST("/", goalsHandler.CreateGoal)
			goals.PUT("/:id", goalsHandler.UpdateGoal)
			goals.DELETE("/:id", goalsHandler.DeleteGoal)
		}

		// Calendar and statistics
		stats := protected.Group("/stats")
		stats.Use(middleware.CacheControlMiddleware("30"))
		{
			stats.GET("/month", statsHandler.GetMonthStats)
			stats.GET("/today", statsHandler.GetTodayStats)
			stats.GET("/overview", statsHandler.GetUserStats)
		}
		protected.GET("/calendar", habitsHandler.GetCalendar)
	}

	return router
}

func main() {
	router := setupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	serverAddr := fmt.Sprintf(":%s", port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
