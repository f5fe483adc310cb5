// Package server wires the configuration, backing stores and services into
// the two runnable processes: the API server and the thumbnail worker.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/auth"
	"github.com/dmitrijs2005/filesmanager/internal/server/blobstore"
	"github.com/dmitrijs2005/filesmanager/internal/server/config"
	"github.com/dmitrijs2005/filesmanager/internal/server/httpapi"
	"github.com/dmitrijs2005/filesmanager/internal/server/queue"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
	"github.com/dmitrijs2005/filesmanager/internal/server/sessions"
	"github.com/dmitrijs2005/filesmanager/internal/server/thumbnails"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/filesmanager/internal/server/grpc"
)

const healthInterval = 10 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	rdb         *redis.Client
	repomanager *repomanager.PostgresRepositoryManager
	sessions    *sessions.RedisStore
	queue       *queue.RedisQueue
	blobs       blobstore.Store
	users       *services.UserService
	files       *services.FileService
	status      *services.StatusService
}

// NewApp opens the database, Redis and the blob backend and builds the
// services on top of them. Migrations are not applied here.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, slog.LevelInfo)

	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})

	blobs, err := blobstore.Open(ctx, c)
	if err != nil {
		_ = db.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	ss := sessions.NewRedisStore(rdb, c.SessionTTL)
	q := queue.NewRedisQueue(rdb, c.QueueName)

	app := &App{
		config:      c,
		logger:      logger,
		db:          db,
		rdb:         rdb,
		repomanager: rm,
		sessions:    ss,
		queue:       q,
		blobs:       blobs,
		users:       services.NewUserService(db, rm, ss, logger),
		files: services.NewFileService(db, rm, blobs, q, logger,
			services.WithParentOwnership(c.EnforceParentOwnership)),
		status: services.NewStatusService(db, rm, ss, logger),
	}

	return app, nil
}

// Close releases the database and Redis connections.
func (app *App) Close() error {
	dbErr := app.db.Close()
	rdbErr := app.rdb.Close()
	if dbErr != nil {
		return dbErr
	}
	return rdbErr
}

// Migrate applies pending schema migrations.
func (app *App) Migrate(ctx context.Context) error {
	app.logger.Info(ctx, "Applying migrations...")
	return app.repomanager.RunMigrations(ctx, app.db)
}

func (app *App) initSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}

// RunServer applies migrations and serves the HTTP API together with the
// gRPC health endpoint until a signal arrives or one of them fails.
func (app *App) RunServer(ctx context.Context) error {

	ctx, cancel := app.initSignalHandler(ctx)
	defer cancel()

	if err := app.Migrate(ctx); err != nil {
		return err
	}

	app.logger.Info(ctx, "Starting app...")

	guard := auth.NewGuard(app.sessions, app.logger)
	api := httpapi.NewServer(app.config.EndpointAddrHTTP, guard, app.users, app.files, app.status, app.logger)
	health := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.status, healthInterval)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return api.Run(ctx) })
	g.Go(func() error { return health.Run(ctx) })

	return g.Wait()
}

// RunWorker consumes thumbnail jobs until a signal arrives.
func (app *App) RunWorker(ctx context.Context) error {

	ctx, cancel := app.initSignalHandler(ctx)
	defer cancel()

	pending, processing, err := app.queue.Len(ctx)
	if err != nil {
		return fmt.Errorf("queue unavailable: %w", err)
	}
	app.logger.Info(ctx, "Worker process started", "queue", app.config.QueueName,
		"pending", pending, "processing", processing)

	w := thumbnails.NewWorker(app.files, app.blobs, app.queue, app.logger,
		thumbnails.WithConcurrency(app.config.WorkerConcurrency),
		thumbnails.WithRate(app.config.WorkerRate),
	)

	return w.Run(ctx)
}
