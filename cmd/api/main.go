// Command api runs the job board HTTP API.
//
// @title                       Job Board API
// @version                     1.0
// @description                 Job posts, applications with slot capacity, CV registry and admin reporting.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jobboard/jobboard-api/internal/api"
	"github.com/jobboard/jobboard-api/internal/core/service"
	mongodb "github.com/jobboard/jobboard-api/internal/infrastructure/db/mongo"
	redisdb "github.com/jobboard/jobboard-api/internal/infrastructure/db/redis"
	"github.com/jobboard/jobboard-api/internal/infrastructure/http/handlers"
	"github.com/jobboard/jobboard-api/internal/infrastructure/mail"
	"github.com/jobboard/jobboard-api/internal/infrastructure/queue"
	"github.com/jobboard/jobboard-api/internal/infrastructure/storage"
	"github.com/jobboard/jobboard-api/internal/pkg/config"
	"github.com/jobboard/jobboard-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "jobboard-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		Timeout:      cfg.Redis.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	files, err := storage.NewLocalStore(cfg.Storage.Dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Storage.Dir).Msg("failed to open upload store")
	}

	// --- Repositories ---
	users := mongodb.NewUserRepository(db)
	posts := mongodb.NewPostRepository(db)
	applications := mongodb.NewApplicationRepository(db)
	cvs := mongodb.NewCVRepository(db)
	companies := mongodb.NewCompanyRepository(db)
	references := mongodb.NewReferenceRepository(db)
	saved := mongodb.NewSavedPostRepository(db)
	adminRepo := mongodb.NewAdminRepository(db)
	statsCache := redisdb.NewStatsCache(rdb, cfg.Redis.StatsCacheTTL)

	// --- Notifications ---
	dispatcher := queue.NewDispatcher(queue.Options{
		Workers:      cfg.Notify.Workers,
		Buffer:       cfg.Notify.Buffer,
		MaxAttempts:  cfg.Notify.MaxAttempts,
		Backoff:      cfg.Notify.Backoff,
		DrainTimeout: cfg.Notify.DrainTimeout,
	}, users, mail.NewLogMailer(logger.Component("mailer")), logger.Component("dispatcher"))
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	dispatcher.Start(dispatchCtx)

	// --- Services ---
	cvService := service.NewCVService(cvs, applications, files, logger.Component("cv"))
	capacity := service.NewCapacityTracker(posts, logger.Component("capacity"))
	authService := service.NewAuthService(users, companies, cvService, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))
	adminService := service.NewAdminService(adminRepo, statsCache, files, logger.Component("admin"))

	svc := api.Services{
		Auth:         authService,
		Applications: service.NewApplicationService(applications, posts, capacity, cvService, dispatcher, logger.Component("applications")),
		CVs:          cvService,
		Posts:        service.NewPostService(posts, companies, references, adminRepo, statsCache, logger.Component("posts")),
		Companies:    service.NewCompanyService(companies, files, logger.Component("companies")),
		SavedPosts:   service.NewSavedPostService(saved, posts),
		References:   service.NewReferenceService(references),
		Admin:        adminService,
	}

	if err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin account")
	}

	readiness := handlers.NewHealthDependenciesHandler(db, rdb, files)
	e := api.NewRouter(svc, readiness, cfg.JWTSecret, logger.Component("http"))

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	// Queued notifications still need the user repository, so drain before Mongo disconnects.
	stopDispatch()
	dispatcher.Wait()
	log.Info().Msg("stopped")
}
