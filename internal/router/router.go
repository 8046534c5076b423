// Package router assembles the HTTP API: middleware, public and protected
// route groups, Swagger UI and the health check.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"expensetracker/internal/credentials"
	_ "expensetracker/internal/docs" // swagger docs
	"expensetracker/internal/handlers"
	"expensetracker/internal/middleware"
	"expensetracker/internal/models"
	"expensetracker/internal/repository"
	"expensetracker/internal/services"
)

// Deps are the services the API is built on.
type Deps struct {
	Users      services.UserServicer
	Categories services.CategoryServicer
	Expenses   services.ExpenseServicer
	Audit      services.AuditServicer
	Verifier   middleware.TokenVerifier
}

// NewDeps wires the stores and services on top of db.
func NewDeps(db *gorm.DB, creds *credentials.Service) Deps {
	userService := services.NewUserService(repository.NewUserStore(db), repository.NewRoleStore(db), creds)
	categoryService := services.NewCategoryService(repository.NewCategoryStore(db))
	expenseService := services.NewExpenseService(repository.NewExpenseStore(db), userService, categoryService)
	auditService := services.NewAuditService(repository.NewRepository[models.AuditLog](db))

	return Deps{
		Users:      userService,
		Categories: categoryService,
		Expenses:   expenseService,
		Audit:      auditService,
		Verifier:   creds,
	}
}

// New builds the gin engine serving the API.
func New(deps Deps) *gin.Engine {
	authHandler := handlers.NewAuthHandler(deps.Users)
	userHandler := handlers.NewUserHandler(deps.Users, deps.Audit)
	expenseHandler := handlers.NewExpenseHandler(deps.Expenses, deps.Audit)
	categoryHandler := handlers.NewCategoryHandler(deps.Categories)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())
	router.NoRoute(middleware.NoRoute())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Verifier))
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	users := protected.Group("/users")
	users.GET("/by-username/:username", userHandler.GetUserIDByUsername)
	users.GET("/:id", userHandler.GetUser)
	users.PUT("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", userHandler.DeleteUser)
	users.POST("/:id/admin", adminOnly, userHandler.GrantAdmin)

	// Expenses owned by a user
	users.POST("/:id/expenses", expenseHandler.CreateExpense)
	users.GET("/:id/expenses", expenseHandler.ListExpensesForUser)
	users.GET("/:id/expenses/category/:name", expenseHandler.ListExpensesByCategory)
	users.GET("/:id/expenses/range", expenseHandler.ListExpensesInRange)
	users.GET("/:id/expenses/past-week", expenseHandler.ListExpensesForPeriod(services.PastWeek))
	users.GET("/:id/expenses/past-month", expenseHandler.ListExpensesForPeriod(services.PastMonth))
	users.GET("/:id/expenses/past-three-months", expenseHandler.ListExpensesForPeriod(services.PastThreeMonths))

	expenses := protected.Group("/expenses")
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	categories := protected.Group("/categories")
	categories.POST("/:name", adminOnly, categoryHandler.CreateCategory)

	return router
}
