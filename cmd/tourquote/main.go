package main

import (
	"fmt"
	"os"

	"github.com/nurpe/tourquote/internal/auth"
	"github.com/nurpe/tourquote/internal/cache"
	"github.com/nurpe/tourquote/internal/config"
	"github.com/nurpe/tourquote/internal/db"
	"github.com/nurpe/tourquote/internal/excel"
	httphandler "github.com/nurpe/tourquote/internal/http"
	"github.com/nurpe/tourquote/internal/http/middleware"
	"github.com/nurpe/tourquote/internal/logger"
	"github.com/nurpe/tourquote/internal/pdf"
	"github.com/nurpe/tourquote/internal/repository"
	"github.com/nurpe/tourquote/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	rateRepo := repository.NewRateRepository(database)
	catalogRepo := repository.NewCatalogRepository(database)
	quotationRepo := repository.NewQuotationRepository(database)

	var treeCache service.Cache
	if cfg.Redis.Addr != "" {
		treeCache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("season-rate cache enabled")
	}

	rateService := service.NewRateService(rateRepo, treeCache, cfg.Redis.CacheTTLSecs)
	quotationService := service.NewQuotationService(quotationRepo, catalogRepo, excel.NewGenerator(), pdf.NewGenerator())

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(rateService, quotationService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, httphandler.RouterOptions{
		Environment:    cfg.Environment,
		MetricsEnabled: cfg.Metrics.Enabled,
	})

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting tourquote service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
