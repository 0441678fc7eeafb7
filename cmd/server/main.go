package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"wallet-kita.backend/internal/config"
	"wallet-kita.backend/internal/infrastructure/jobs"
	"wallet-kita.backend/internal/infrastructure/paymentrail"
	"wallet-kita.backend/internal/infrastructure/ratefeed"
	"wallet-kita.backend/internal/infrastructure/repositories"
	"wallet-kita.backend/internal/interfaces/http/handlers"
	"wallet-kita.backend/internal/interfaces/http/middleware"
	"wallet-kita.backend/internal/usecases"
	"wallet-kita.backend/pkg/jwt"
	"wallet-kita.backend/pkg/logger"
	"wallet-kita.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	withdrawLimit, err := decimal.NewFromString(cfg.Ledger.WithdrawLimit)
	if err != nil {
		return fmt.Errorf("invalid LEDGER_WITHDRAW_LIMIT: %w", err)
	}

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	serviceUserRepo := repositories.NewServiceUserRepository(db)
	walletRepo := repositories.NewWalletRepository(db)
	serviceWalletRepo := repositories.NewServiceWalletRepository(db)
	externalWalletRepo := repositories.NewExternalWalletRepository(db)
	userExternalRepo := repositories.NewUserExternalWalletRepository(db)
	currencyRepo := repositories.NewCurrencyRepository(db)
	rateRepo := repositories.NewExchangeRateRepository(db)
	txRepo := repositories.NewTransactionRepository(db)
	serviceTxRepo := repositories.NewServiceTransactionRepository(db)
	pendingRepo := repositories.NewPendingTransactionRepository(db)
	uow := repositories.NewUnitOfWork(db)

	rail := paymentrail.NewTokenProvider()

	// Usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService)
	walletUsecase := usecases.NewWalletUsecase(walletRepo, currencyRepo, uow)
	txUsecase := usecases.NewTransactionUsecase(walletRepo, txRepo, rateRepo, uow)
	exchangeUsecase := usecases.NewExchangeUsecase(currencyRepo, rateRepo, uow)
	paymentUsecase := usecases.NewPaymentUsecase(
		walletRepo, serviceWalletRepo, externalWalletRepo, userExternalRepo,
		pendingRepo, txRepo, serviceTxRepo, serviceUserRepo,
		uow, rail, withdrawLimit,
	)

	// Handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	walletHandler := handlers.NewWalletHandler(walletUsecase)
	transactionHandler := handlers.NewTransactionHandler(txUsecase)
	exchangeHandler := handlers.NewExchangeHandler(exchangeUsecase)
	paymentHandler := handlers.NewPaymentHandler(paymentUsecase)

	// Background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feedClient := ratefeed.NewClient(cfg.RateFeed.URL, cfg.RateFeed.APIKey, cfg.RateFeed.RequestTimeout)
	refreshJob := jobs.NewRateRefreshJob(feedClient, exchangeUsecase, []string{"USD", "EUR"}, cfg.RateFeed.RefreshInterval)
	go refreshJob.Start(ctx)

	// Router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:        authHandler,
		walletHandler:      walletHandler,
		transactionHandler: transactionHandler,
		exchangeHandler:    exchangeHandler,
		paymentHandler:     paymentHandler,
		authMiddleware:     middleware.AuthMiddleware(jwtService),
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		refreshJob.Stop()
		cancel()
	}()

	log.Printf("🚀 Wallet-Kita Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
