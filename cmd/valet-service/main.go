package main

import (
	"fmt"
	"os"

	"valet-service/internal/auth"
	"valet-service/internal/config"
	"valet-service/internal/fees"
	httphandler "valet-service/internal/http"
	"valet-service/internal/http/middleware"
	"valet-service/internal/logger"
	"valet-service/internal/model"
	"valet-service/internal/service"
	"valet-service/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	calculator, err := fees.NewCalculator(fees.Policy(cfg.FeePolicy))
	if err != nil {
		appLogger.Fatal().Err(err).Msg("invalid fee policy")
	}

	transactionStore := store.NewTransactionStore()
	pricingStore := store.NewPricingStore(model.Pricing{
		HourlyRate: cfg.Pricing.HourlyRate,
		DailyRate:  cfg.Pricing.DailyRate,
		ValetFee:   cfg.Pricing.ValetFee,
	})

	valetService := service.NewValetService(transactionStore, pricingStore, calculator, cfg.Import.MaxRows, cfg.Import.Workers, appLogger)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(valetService, appLogger)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().
		Str("addr", addr).
		Str("fee_policy", string(calculator.Policy())).
		Msg("starting valet service")

	if err := router.Run(addr); err != nil {
		appLogger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}
