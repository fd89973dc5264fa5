package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/carelens-ai/platform/pkg/auth"
	"github.com/carelens-ai/platform/pkg/common/config"
	"github.com/carelens-ai/platform/pkg/common/database"
	"github.com/carelens-ai/platform/pkg/common/kafka"
	"github.com/carelens-ai/platform/pkg/common/logger"
	"github.com/carelens-ai/platform/pkg/identity"
	"github.com/carelens-ai/platform/pkg/middleware"
	"github.com/carelens-ai/platform/pkg/observability/metrics"
	"github.com/carelens-ai/platform/pkg/patients"
	"github.com/carelens-ai/platform/pkg/prediction"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.NewPostgres(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to connect to database")
	}

	redisClient := database.NewRedis(cfg)

	predictionRepo := prediction.NewRepository(db)
	if err := predictionRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate analysis tables")
	}

	identityRepo := identity.NewRepository(db)
	if err := identityRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate identity tables")
	}

	bundle := prediction.Load(cfg.PreprocessingArtifact, cfg.RiskModelsArtifact)
	if !bundle.Loaded() {
		logger.Log.WithError(bundle.LoadErr()).
			Warn("Model bundle unavailable, predict endpoint will return 503")
	}

	bands, err := prediction.LoadBands(cfg.TierBandsPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load risk tier bands")
	}

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaEventsTopic)
	defer producer.Close()

	tokenSigner, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to configure token signing")
	}

	identityService := identity.NewService(identityRepo)
	identityHandler := identity.NewHandler(identityService, tokenSigner)

	patientsRepo := patients.NewRepository(db)
	patientsService := patients.NewService(patientsRepo, redisClient, cfg.DashboardCacheTTL)
	patientsHandler := patients.NewHandler(patientsService)

	predictionService := prediction.NewService(bundle, bands, predictionRepo, producer)
	predictionHandler := prediction.NewHandler(predictionService)

	router := mux.NewRouter()
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.CORS)
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))

	router.HandleFunc("/health", healthCheck).Methods(http.MethodGet)
	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	authRouter := api.PathPrefix("/auth").Subrouter()
	authRouter.Use(middleware.RateLimit(10, 30))
	identityHandler.Register(authRouter)
	registerSSO(cfg, authRouter)

	// Dashboard routes: any authenticated account.
	dashboard := api.NewRoute().Subrouter()
	dashboard.Use(middleware.Authenticate(tokenSigner))
	patientsHandler.Register(dashboard)

	// Intake and scoring: staff only, matching the data entry surface.
	admin := api.NewRoute().Subrouter()
	admin.Use(middleware.Authenticate(tokenSigner))
	admin.Use(middleware.RequireAdmin)
	predictionHandler.Register(admin)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Risk Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Risk Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	database.ClosePostgres(db)
	logger.Log.Info("Risk Service stopped")
}

func registerSSO(cfg *config.Config, r *mux.Router) {
	if cfg.OIDCIssuer == "" {
		return
	}
	oidc, err := auth.NewOIDCAuthenticator(cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret, cfg.OIDCRedirectURL)
	if err != nil {
		logger.Log.WithError(err).Warn("SSO disabled: OIDC configuration incomplete")
		return
	}
	r.HandleFunc("/sso/login", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, oidc.AuthCodeURL(uuid.NewString()), http.StatusFound)
	}).Methods(http.MethodGet)
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
