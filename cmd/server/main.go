package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	_ "workshopzones/docs"
	"workshopzones/internal/cache"
	"workshopzones/internal/config"
	"workshopzones/internal/logging"
	"workshopzones/internal/metrics"
	"workshopzones/internal/repository"
	"workshopzones/internal/scoring"
	"workshopzones/internal/service"
	"workshopzones/internal/transport/rest"
	"workshopzones/internal/transport/ws"
)

// @title Workshop Zones API
// @version 1.0
// @description Classifies workshop questionnaire rosters into A/B/C/D zones
// @host localhost:8080
// @BasePath /
func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	qm, err := loadInstrument(cfg.Scoring.InstrumentPath)
	if err != nil {
		return err
	}
	engine := scoring.NewEngine(qm, scoring.Options{
		ScaleMin:           cfg.Scoring.ScaleMin,
		ScaleMax:           cfg.Scoring.ScaleMax,
		Epsilon:            cfg.Scoring.Epsilon,
		Workers:            cfg.Scoring.Workers,
		PreferStoredLabels: cfg.Scoring.PreferStoredLabels,
	})
	logger.Info("scoring engine ready",
		zap.Int("items", engine.QuestionMap().Len()),
		zap.Int("scale_min", engine.Options().ScaleMin),
		zap.Int("scale_max", engine.Options().ScaleMax),
		zap.Float64("epsilon", engine.Options().Epsilon),
		zap.Int("workers", engine.Options().Workers),
	)

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI).SetTimeout(cfg.Mongo.Timeout))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer mongoClient.Disconnect(context.Background())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	logger.Info("connected to mongodb", zap.String("database", cfg.Mongo.Database))

	snapshots := repository.NewSnapshotRepo(mongoClient.Database(cfg.Mongo.Database))
	if err := snapshots.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	// Redis connection
	redisOpts, err := redisOptions(cfg.Redis.Addr)
	if err != nil {
		return err
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	logger.Info("connected to redis", zap.String("addr", redisOpts.Addr))

	m := metrics.New()

	wsHub := ws.NewHub(logger, m)
	defer wsHub.Close()

	analysisSvc := service.NewAnalysisService(
		engine,
		snapshots,
		cache.NewAnalysisCache(rdb, cfg.Redis.TTL),
		m,
		logger,
		cfg.Server.MaxRosterSize,
	)
	analysisSvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		AnalysisService: analysisSvc,
		WSHub:           wsHub,
		Metrics:         m,
		Logger:          logger,
		AllowedOrigins:  cfg.Server.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("shutting down server", zap.Stringer("signal", sig))
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}

func loadInstrument(path string) (*scoring.QuestionMap, error) {
	if path == "" {
		return scoring.DefaultQuestionMap(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open instrument: %w", err)
	}
	defer f.Close()

	qm, err := scoring.LoadQuestionMap(f)
	if err != nil {
		return nil, fmt.Errorf("load instrument %s: %w", path, err)
	}
	return qm, nil
}

func redisOptions(addr string) (*redis.Options, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: addr}, nil
}
