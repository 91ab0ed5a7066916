// Package router sets up the HTTP routing for the application.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/myeconomy/backend/internal/integration/entrypoint/controller"
	"github.com/myeconomy/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine              *gin.Engine
	healthController    *controller.HealthController
	authController      *controller.AuthController
	userController      *controller.UserController
	expenseController   *controller.ExpenseController
	limitController     *controller.LimitController
	dashboardController *controller.DashboardController
	loginRateLimiter    *middleware.RateLimiter
	authMiddleware      *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	userController *controller.UserController,
	expenseController *controller.ExpenseController,
	limitController *controller.LimitController,
	dashboardController *controller.DashboardController,
	loginRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:    healthController,
		authController:      authController,
		userController:      userController,
		expenseController:   expenseController,
		limitController:     limitController,
		dashboardController: dashboardController,
		loginRateLimiter:    loginRateLimiter,
		authMiddleware:      authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string, allowedOrigins []string) *gin.Engine {
	switch environment {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.New()
	r.engine.Use(gin.Recovery(), middleware.RequestLogger())

	if len(allowedOrigins) > 0 {
		r.engine.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID", "X-Total-Amount"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	authenticated := r.authMiddleware.Authenticate()

	auth := v1.Group("/auth")
	{
		auth.POST("/register", r.authController.Register)
		auth.POST("/login", r.loginRateLimiter.Middleware(), r.authController.Login)
		auth.POST("/refresh", r.authController.RefreshToken)
		auth.POST("/logout", authenticated, r.authController.Logout)
		auth.POST("/forgot-password", r.authController.ForgotPassword)
		auth.POST("/reset-password", r.authController.ResetPassword)
	}

	users := v1.Group("/usuarios", authenticated)
	{
		users.GET("/usuario-autenticado", r.userController.GetCurrent)
		users.PATCH("/usuario-autenticado", r.userController.UpdateProfile)
		users.DELETE("/usuario-autenticado", r.userController.DeleteAccount)
	}

	expenses := v1.Group("/despesa", authenticated)
	{
		expenses.POST("", r.expenseController.Create)
		expenses.GET("/despesas", r.expenseController.List)
		expenses.GET("/agrupadas", r.expenseController.ListGrouped)
		expenses.GET("/exportar", r.expenseController.Export)
		expenses.PUT("/:id", r.expenseController.Update)
		expenses.DELETE("/:id", r.expenseController.Delete)
	}

	limits := v1.Group("/limite", authenticated)
	{
		limits.POST("", r.limitController.Create)
		limits.GET("/limites", r.limitController.List)
		limits.PUT("/:id", r.limitController.Update)
		limits.DELETE("/:id", r.limitController.Delete)
	}

	dashboard := v1.Group("/dashboard", authenticated)
	{
		dashboard.GET("", r.dashboardController.GetSnapshot)
		dashboard.GET("/periodos", r.dashboardController.GetPeriodOptions)
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
