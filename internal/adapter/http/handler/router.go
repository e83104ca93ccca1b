package handler

import (
	"time"

	"bank-ledger/internal/adapter/http/middleware"
	"bank-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AccountSvc     ports.AccountService
	HealthCheckers []ports.HealthChecker
	HealthTimeout  time.Duration
	APISpec        []byte // OpenAPI YAML served under /swagger
	Logger         zerolog.Logger
	Mode           string // gin mode; empty means release
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	mode := deps.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	r.GET("/health", HealthCheck(deps.HealthTimeout, deps.HealthCheckers...))

	docs := NewAPIDocs(deps.APISpec)
	swagger := r.Group("/swagger")
	{
		swagger.GET("", docs.UI)
		swagger.GET("/spec", docs.Spec)
	}

	accountHandler := NewAccountHandler(deps.AccountSvc)
	accounts := r.Group("/api/v1/accounts")
	{
		accounts.POST("", accountHandler.Open)
		accounts.POST("/:id/deposits", accountHandler.Deposit)
		accounts.POST("/:id/withdrawals", accountHandler.Withdraw)
		accounts.GET("/:id/balance", accountHandler.Balance)
		accounts.GET("/:id/statement", accountHandler.Statement)
		accounts.GET("/:id/statement/export", accountHandler.ExportStatement)
	}

	return r
}
