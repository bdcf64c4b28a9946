package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/matchday/prediction-pool/config"
	"github.com/matchday/prediction-pool/db"
	"github.com/matchday/prediction-pool/handlers"
	"github.com/matchday/prediction-pool/repositories"
	"github.com/matchday/prediction-pool/routes"
	"github.com/matchday/prediction-pool/scoring"
	"github.com/matchday/prediction-pool/services"
	"github.com/matchday/prediction-pool/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// Crest storage is optional: without R2 credentials the pool runs fine,
	// teams just have no crest images.
	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewR2Uploader(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 crest storage initialized")
	} else {
		logger.Warn("R2 not configured, crest uploads disabled")
	}

	wsHub := scoring.NewHub(logger)
	go wsHub.Run()

	friendRepo := repositories.NewPostgresFriendRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	stageRepo := repositories.NewPostgresStageRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	ruleRepo := repositories.NewPostgresRuleRepository(dbConn)
	predictionRepo := repositories.NewPostgresPredictionRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)
	stagePointRepo := repositories.NewPostgresStagePointRepository(dbConn)
	topScorerRepo := repositories.NewPostgresTopScorerPointRepository(dbConn)
	totalRepo := repositories.NewPostgresTotalPointRepository(dbConn)
	groupRowRepo := repositories.NewPostgresGroupRowRepository(dbConn)
	registrationRepo := repositories.NewPostgresRegistrationRepository(dbConn)

	scoringService := services.NewScoringService(
		ruleRepo, matchRepo, stageRepo, predictionRepo, resultRepo,
		stagePointRepo, topScorerRepo, totalRepo, wsHub, logger,
	)
	groupTableService := services.NewGroupTableService(stageRepo, predictionRepo, groupRowRepo, teamRepo, logger)
	authService := services.NewAuthService(friendRepo, []byte(cfg.JWTSecretKey), logger)
	tournamentService := services.NewTournamentService(tournamentRepo, stageRepo, logger)
	teamService := services.NewTeamService(teamRepo, uploader, logger)
	matchService := services.NewMatchService(matchRepo, stageRepo, scoringService, logger)
	ruleService := services.NewRuleService(ruleRepo, stageRepo, scoringService, logger)
	predictionService := services.NewPredictionService(
		predictionRepo, matchRepo, stageRepo, friendRepo, scoringService, groupTableService, logger,
	)
	pointsService := services.NewPointsService(
		stagePointRepo, topScorerRepo, stageRepo, matchRepo, scoringService, logger,
	)
	registrationService := services.NewRegistrationService(
		registrationRepo, friendRepo, tournamentRepo, stageRepo, matchRepo,
		predictionRepo, scoringService, groupTableService, logger,
	)
	standingsService := services.NewStandingsService(
		tournamentRepo, friendRepo, matchRepo, predictionRepo, resultRepo,
		stagePointRepo, topScorerRepo, totalRepo,
	)
	logger.Info("services initialized")

	router := routes.InitRoutes(routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Tournament:   handlers.NewTournamentHandler(tournamentService, standingsService, ruleService),
		Match:        handlers.NewMatchHandler(matchService, standingsService),
		Prediction:   handlers.NewPredictionHandler(predictionService, groupTableService),
		Points:       handlers.NewPointsHandler(pointsService),
		Team:         handlers.NewTeamHandler(teamService),
		Registration: handlers.NewRegistrationHandler(registrationService),
		WebSocket:    handlers.NewWebSocketHandler(wsHub, logger),
	}, []byte(cfg.JWTSecretKey))
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
