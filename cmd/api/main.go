package main

import (
	"fmt"
	"net/http"
	"os"

	"pocketbook/internal/config"
	"pocketbook/internal/database"
	"pocketbook/internal/gateway"
	"pocketbook/internal/handlers"
	"pocketbook/internal/logger"
	"pocketbook/internal/middleware"
	"pocketbook/internal/services"
	"pocketbook/internal/session"
	"pocketbook/internal/store"
	"pocketbook/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "pocketbook/internal/docs" // Import swagger docs
)

// @title           Pocketbook API
// @version         1.0
// @description     Pocketbook is a personal finance application for tracking accounts, transactions, budgets, and savings goals.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize gateway and services
	db := dbManager.DB()
	gw := gateway.New(db)
	userService := services.NewUserService(db)
	accountService := services.NewAccountService(gw)
	categoryService := services.NewCategoryService(gw)
	transactionService := services.NewTransactionService(gw, accountService, categoryService)
	budgetService := services.NewBudgetService(gw, categoryService)
	goalService := services.NewGoalService(gw, categoryService)
	auditService := services.NewAuditService(db)

	// Session hub and per-user stores
	var googleVerifier session.GoogleVerifier
	if appConfig.GoogleClientID != "" {
		googleVerifier = session.NewTokenInfoVerifier(appConfig.GoogleClientID)
	}
	hub := session.NewHub(userService, googleVerifier)
	stores := store.NewRegistry(accountService, categoryService, transactionService, budgetService, goalService)
	stores.Attach(hub)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(hub, userService, auditService)
	accountHandler := handlers.NewAccountHandler(stores, auditService)
	categoryHandler := handlers.NewCategoryHandler(stores, auditService)
	transactionHandler := handlers.NewTransactionHandler(stores, auditService)
	budgetHandler := handlers.NewBudgetHandler(stores, auditService)
	goalHandler := handlers.NewGoalHandler(stores, auditService)
	dashboardHandler := handlers.NewDashboardHandler(stores, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	if appConfig.GoogleClientID != "" {
		auth.POST("/google", authHandler.GoogleLogin)
	}

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile and session
	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/auth/logout", authHandler.Logout)
	protected.POST("/refresh", dashboardHandler.Refresh)

	// Account routes
	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetUserAccounts)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.POST("/transfer", transactionHandler.CreateTransfer)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetUserBudgets)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	// Goal routes
	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetUserGoals)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/fund", goalHandler.FundGoal)
	goals.POST("/:id/withdraw", goalHandler.WithdrawGoal)

	// Dashboard routes
	dashboard := protected.Group("/dashboard")
	dashboard.GET("/summary", dashboardHandler.GetSummary)
	dashboard.GET("/budgets", dashboardHandler.GetBudgetProgress)
	dashboard.GET("/goals", dashboardHandler.GetGoalProgress)
	dashboard.GET("/expenses", dashboardHandler.GetExpenseSeries)
	dashboard.GET("/income", dashboardHandler.GetIncomeSeries)

	log.Infof("Starting Pocketbook backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
