package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/banking-records-ledger/internal/api_gateway/handler"
	"github.com/banking-records-ledger/internal/api_gateway/middleware"
	"github.com/gin-gonic/gin"
)

// handlers groups the HTTP handlers mounted by setupRouter
type handlers struct {
	customers    *handler.CustomerHandler
	accounts     *handler.AccountHandler
	transactions *handler.TransactionHandler
	transfers    *handler.TransferHandler
	interest     *handler.InterestHandler
	commands     *handler.CommandHandler
}

// setupRouter configures API routes and middleware for the application
func setupRouter(logger *slog.Logger, r *gin.Engine, h handlers) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Caller())
	{
		// Customer profiles and lifecycle
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", h.customers.Create)
			accounts.GET("/:number", h.customers.Get)
			accounts.PATCH("/:number", h.customers.Update)
			accounts.POST("/:number/deactivate", h.customers.Deactivate)
			accounts.POST("/:number/restore", h.customers.Restore)

			// Money movement on a single account
			accounts.GET("/:number/balance", h.accounts.Balance)
			accounts.POST("/:number/deposit", h.accounts.Deposit)
			accounts.POST("/:number/withdraw", h.accounts.Withdraw)
			accounts.GET("/:number/transactions", h.transactions.ListByAccount)
		}

		v1.GET("/customers/search", h.customers.Search)
		v1.POST("/transfers", h.transfers.Create)

		interest := v1.Group("/interest")
		{
			interest.POST("/apply", h.interest.Apply)
			interest.GET("/history", h.interest.History)
		}

		// Asynchronous intake
		commands := v1.Group("/commands")
		{
			commands.POST("", h.commands.Submit)
			commands.GET("/:id", h.commands.Get)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
