// ArticlePass Checkout Service
//
// This is the main entry point for the paywall checkout service.
// It wires up all dependencies and starts the HTTP server.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/articlepass/articlepass-checkout/config"
	"github.com/articlepass/articlepass-checkout/internal/api"
	"github.com/articlepass/articlepass-checkout/internal/checkout"
	"github.com/articlepass/articlepass-checkout/internal/paywall"
	"github.com/articlepass/articlepass-checkout/internal/platform/contentcore"
	"github.com/articlepass/articlepass-checkout/internal/platform/razorpay"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting ArticlePass checkout service")

	// Load configuration
	cfg := config.Load()
	logger.Info("configuration loaded",
		zap.String("port", cfg.Server.Port),
		zap.String("core_url", cfg.Core.BaseURL))

	// Validate required configuration
	if err := validateConfig(cfg, logger); err != nil {
		logger.Fatal("configuration error", zap.Error(err))
	}

	// Wire up dependencies (manual dependency injection)
	//
	// Infrastructure Layer
	coreClient := contentcore.NewClient(cfg.Core.BaseURL, cfg.Core.APIKey)
	gatewayAdapter := razorpay.NewAdapter(cfg.Gateway.KeyID, cfg.Gateway.KeySecret)
	loader := checkout.NewLoader(gatewayAdapter.Init)

	// Service Layer
	orchestrator := checkout.NewOrchestrator(
		checkout.Config{
			DisplayName:    cfg.Paywall.DisplayName,
			ThemeColor:     cfg.Gateway.ThemeColor,
			RetryCount:     cfg.Gateway.RetryCount,
			Timeout:        cfg.Gateway.Timeout,
			ExpiryGrace:    cfg.Gateway.ExpiryGrace,
			AccessDuration: cfg.Paywall.AccessDuration,
		},
		loader,
		gatewayAdapter, // implements domain.CheckoutGateway
		coreClient,     // implements domain.GrantNotifier
		logger,
	)
	paywallService := paywall.NewService(
		coreClient, // implements domain.SettingsProvider
		orchestrator,
		paywall.Defaults{
			BasePrice: cfg.Paywall.DefaultBasePrice,
			Currency:  cfg.Paywall.Currency,
		},
		logger,
	)

	// API Layer
	handler := api.NewHandler(paywallService, logger)
	router := api.SetupRouter(handler, cfg.Server.GinMode, logger)

	// Start server in a goroutine
	serverAddr := fmt.Sprintf(":%s", cfg.Server.Port)
	go func() {
		logger.Info("server listening", zap.String("addr", serverAddr))
		if err := router.Run(serverAddr); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
}

// validateConfig checks that required configuration values are set.
func validateConfig(cfg *config.Config, logger *zap.Logger) error {
	if cfg.Core.BaseURL == "" {
		return fmt.Errorf("CONTENT_CORE_URL is required")
	}
	if cfg.Gateway.KeyID == "" || cfg.Gateway.KeySecret == "" {
		return fmt.Errorf("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required")
	}
	if cfg.Core.APIKey == "" {
		logger.Warn("CONTENT_CORE_API_KEY not set")
	}
	return nil
}
