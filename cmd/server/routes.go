package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wallet-kita.backend/internal/interfaces/http/handlers"
	"wallet-kita.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler        *handlers.AuthHandler
	walletHandler      *handlers.WalletHandler
	transactionHandler *handlers.TransactionHandler
	exchangeHandler    *handlers.ExchangeHandler
	paymentHandler     *handlers.PaymentHandler
	authMiddleware     gin.HandlerFunc
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, Idempotency-Key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
		}

		// Wallet routes (protected)
		wallets := v1.Group("/wallets")
		wallets.Use(d.authMiddleware)
		{
			wallets.POST("", d.walletHandler.CreateWallet)
			wallets.GET("", d.walletHandler.ListWallets)
			wallets.GET("/:id", d.walletHandler.GetWallet)
			wallets.GET("/:id/transactions", d.transactionHandler.ListWalletTransactions)
		}

		// Ledger history (protected)
		transactions := v1.Group("/transactions")
		transactions.Use(d.authMiddleware)
		{
			transactions.GET("", d.transactionHandler.ListTransactions)
		}

		// Transfers (protected, idempotent)
		transfers := v1.Group("/transfers")
		transfers.Use(d.authMiddleware)
		{
			transfers.POST("", middleware.IdempotencyMiddleware(), d.transactionHandler.Transfer)
		}

		// Exchange routes (public read)
		exchange := v1.Group("/exchange")
		{
			exchange.GET("/preview", d.exchangeHandler.PreviewConversion)
			exchange.GET("/currencies", d.exchangeHandler.ListCurrencies)
			exchange.GET("/rates/updated-at", d.exchangeHandler.RatesUpdatedAt)
		}

		// External settlement routes (protected)
		payments := v1.Group("/payments")
		payments.Use(d.authMiddleware)
		{
			payments.POST("/deposit", middleware.IdempotencyMiddleware(), d.paymentHandler.Deposit)
			payments.POST("/withdraw", middleware.IdempotencyMiddleware(), d.paymentHandler.Withdraw)
			payments.POST("/deposit/:id/confirm", d.paymentHandler.ConfirmDeposit)
			payments.POST("/withdraw/:id/confirm", d.paymentHandler.ConfirmWithdraw)
			payments.GET("/pending/:id", d.paymentHandler.GetPending)
		}
	}
}
