package api

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ethanbaker/api/pkg/api_key"
	api_utils "github.com/ethanbaker/api/pkg/utils"
	"github.com/ethanbaker/concierge/internal/concierge"
	"github.com/ethanbaker/concierge/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	chat_module "github.com/ethanbaker/concierge/internal/api/modules/chat"
	health_module "github.com/ethanbaker/concierge/internal/api/modules/health"
	page_module "github.com/ethanbaker/concierge/internal/api/modules/page"
)

const shutdownTimeout = 15 * time.Second

// NewEngine builds the gin engine serving the widget page and the JSON API
func NewEngine(cfg *utils.Config, svc *concierge.Service) *gin.Engine {
	// Add app level settings/routes
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	engine.NoRoute(api_utils.NoRouteHandler)

	// Add trusted proxies
	if err := engine.SetTrustedProxies(nil); err != nil {
		log.Warn().Err(err).Str("component", "api").Msg("failed to reset trusted proxies")
	}

	// Add CORS using gin-contrib/cors (https://github.com/gin-contrib/cors for documentation)
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.GetWithDefault("CORS_ALLOWED_ORIGINS", "*"), ","),
		AllowMethods:     []string{"OPTIONS", "GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Widget page at the root
	page_module.RegisterRoutes(&engine.RouterGroup, svc)

	// Base group '/api' for all API routes
	baseGroup := engine.Group("/api")

	// Adding custom modules
	health_module.RegisterRoutes(baseGroup, svc)
	chat_module.RegisterRoutes(baseGroup, svc, apiKeyMiddleware(cfg)...)

	return engine
}

// apiKeyMiddleware guards the chat API when API_KEY is set
func apiKeyMiddleware(cfg *utils.Config) []gin.HandlerFunc {
	apiKey := cfg.Get("API_KEY")
	if apiKey == "" {
		return nil
	}

	return []gin.HandlerFunc{api_key.APIKeyHeaderHandler(func(key string) bool {
		return apiKey == key
	})}
}

// Run serves until ctx is canceled or the process receives SIGINT/SIGTERM
func Run(ctx context.Context, cfg *utils.Config) error {
	if !strings.EqualFold(cfg.Get("LOG_LEVEL"), "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	svc, err := concierge.NewServiceFromConfig(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to initialize concierge")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.GetWithDefault("API_PORT", "8080"),
		Handler:           NewEngine(cfg, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc.Start()

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		<-egCtx.Done()
		log.Info().Str("component", "api").Msg("shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Str("component", "api").Err(err).Msg("server shutdown error")
			return err
		}
		if err := svc.Close(shutdownCtx); err != nil {
			log.Error().Str("component", "api").Err(err).Msg("concierge close error")
		}

		log.Info().Str("component", "api").Msg("server shutdown complete")
		return nil
	})

	eg.Go(func() error {
		log.Info().Str("component", "api").Str("addr", srv.Addr).Msg("starting concierge server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Str("component", "api").Err(err).Msg("server listen error")
			return err
		}
		return nil
	})

	return eg.Wait()
}
