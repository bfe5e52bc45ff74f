package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/spicedrama/ordering-system/docs"
	"github.com/spicedrama/ordering-system/internal/api/handler"
	"github.com/spicedrama/ordering-system/internal/api/middleware"
	"github.com/spicedrama/ordering-system/internal/core/domain"
	"github.com/spicedrama/ordering-system/internal/core/ports"
	"github.com/spicedrama/ordering-system/internal/core/service"
	"github.com/spicedrama/ordering-system/internal/infrastructure/config"
	mongostore "github.com/spicedrama/ordering-system/internal/infrastructure/db/mongo"
	redisstore "github.com/spicedrama/ordering-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// events receives order status audit events; rdb may be nil to run without
// the login throttle.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger, events ports.OrderEventSink) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("ordering"))

	// --- Dependencies ---
	roles := domain.ParseRoleSet(cfg.Roles)

	userRepo := mongostore.NewUserRepository(db)
	foodRepo := mongostore.NewFoodRepository(db)
	orderRepo := mongostore.NewOrderRepository(db)

	var throttle service.LoginThrottle
	if rdb != nil {
		throttle = redisstore.NewLoginThrottle(rdb, cfg.LoginMaxAttempts, cfg.LoginWindow)
	}

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokenService, throttle, log)
	userService := service.NewUserService(userRepo, roles, log)
	foodService := service.NewFoodService(foodRepo, log)
	orderService := service.NewOrderService(orderRepo, foodRepo, events, log)

	authHandler := handler.NewAuthHandler(authService, userRepo)
	userHandler := handler.NewUserHandler(userService)
	foodHandler := handler.NewFoodHandler(foodService)
	orderHandler := handler.NewOrderHandler(orderService)

	policy := middleware.Policy(cfg.AuthPolicy)
	if policy != middleware.PolicyClaims {
		policy = middleware.PolicyStrong
	}
	authed := middleware.Auth(tokenService, userRepo, policy)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	editors := middleware.RBAC(domain.RoleAdmin, domain.RoleEditor)

	// --- Auth + user administration ---
	auth := e.Group("/api/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authed)
	auth.PUT("/change-password", authHandler.ChangePassword, authed)
	auth.GET("/users", userHandler.List, authed, adminOnly)
	auth.POST("/users", userHandler.Create, authed, adminOnly)
	auth.PUT("/users/:id", userHandler.Update, authed, adminOnly)
	auth.DELETE("/users/:id", userHandler.Delete, authed, adminOnly)

	// --- Food catalog ---
	food := e.Group("/api/food", authed)
	food.GET("/list", foodHandler.List)
	food.GET("/single/:id", foodHandler.Single)
	food.POST("/add", foodHandler.Add, editors)
	food.PUT("/update/:id", foodHandler.Update, editors)
	food.POST("/remove", foodHandler.Remove, editors)

	// --- Orders ---
	order := e.Group("/api/order", authed)
	order.POST("/place", orderHandler.Place)
	order.GET("/list", orderHandler.List, editors)
	order.POST("/status", orderHandler.UpdateStatus, editors)

	// --- Ops surface (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/api/health", healthHandler.Liveness)
	e.GET("/api/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
