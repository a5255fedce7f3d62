package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"splitpay-storefront/config"
	ethChain "splitpay-storefront/internal/adapter/chain/ethereum"
	httpHandler "splitpay-storefront/internal/adapter/http/handler"
	pgStorage "splitpay-storefront/internal/adapter/storage/postgres"
	redisStorage "splitpay-storefront/internal/adapter/storage/redis"
	"splitpay-storefront/internal/core/ports"
	"splitpay-storefront/internal/service"
	"splitpay-storefront/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Splitpay Storefront")

	if err := cfg.Chain.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid chain configuration")
	}

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize chain client
	chainClient, err := ethChain.NewClient(cfg.Chain.RPCURL, cfg.Chain.ChainID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to chain RPC")
	}
	defer chainClient.Close()
	decoder, err := ethChain.NewABIDecoder()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize ABI decoder")
	}
	log.Info().
		Int64("chain_id", cfg.Chain.ChainID).
		Str("token_contract", cfg.Chain.TokenContract).
		Msg("Chain client ready")

	// Initialize repositories
	merchantRepo := pgStorage.NewMerchantRepo(pool)
	productRepo := pgStorage.NewProductRepo(pool)
	saleRepo := pgStorage.NewSaleRepo(pool)
	payoutRepo := pgStorage.NewPayoutRepo(pool)
	webhookRepo := pgStorage.NewWebhookRepository(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	catalogCache := redisStorage.NewCatalogCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	sigSvc := service.NewHMACSignatureService()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	authSvc := service.NewAuthService(merchantRepo, hashSvc, encSvc, tokenSvc)
	merchantSvc := service.NewMerchantService(merchantRepo, hashSvc)
	productSvc := service.NewProductService(productRepo, merchantRepo, transactor, catalogCache, log)
	storeSvc := service.NewStoreService(merchantRepo, productRepo, saleRepo, catalogCache, cfg.Chain, log)
	payoutSvc := service.NewPayoutService(payoutRepo)
	reportingSvc := service.NewReportingService(merchantRepo, productRepo, saleRepo)
	webhookSvc := service.NewWebhookService(merchantRepo, webhookRepo, encSvc, sigSvc, &http.Client{Timeout: 10 * time.Second}, log)
	settlementSvc := service.NewSettlementService(
		saleRepo,
		productRepo,
		merchantRepo,
		payoutRepo,
		chainClient,
		decoder,
		transactor,
		webhookSvc,
		cfg.Chain.TokenContract,
		log,
	)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)
	chainHealth := ethChain.NewHealthCheck(chainClient)

	// Load OpenAPI spec for Swagger UI
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		MerchantSvc:    merchantSvc,
		ProductSvc:     productSvc,
		StoreSvc:       storeSvc,
		SettlementSvc:  settlementSvc,
		PayoutSvc:      payoutSvc,
		ReportingSvc:   reportingSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth, chainHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
