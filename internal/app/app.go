package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/beesaferoot/myleasing/internal/auth"
	"github.com/beesaferoot/myleasing/internal/config"
	"github.com/beesaferoot/myleasing/internal/database"
	"github.com/beesaferoot/myleasing/internal/logger"
	"github.com/beesaferoot/myleasing/internal/middleware"
	"github.com/beesaferoot/myleasing/internal/server"
	"github.com/beesaferoot/myleasing/internal/storage"
	"github.com/beesaferoot/myleasing/migration"
	_ "github.com/beesaferoot/myleasing/migration/versions"
)

// App owns every long lived connection of the back-office.
type App struct {
	config    *config.AppConfig
	db        *gorm.DB
	redis     *redis.Client
	mongo     *mongo.Client
	apiServer *server.Server

	fluentClient *fluent.Fluent
	logger       logger.Logger
}

// NewLogger builds the stdout logger and, when enabled, the Fluent Bit one.
func NewLogger(cfg *config.AppConfig) (logger.Logger, *fluent.Fluent, error) {
	stdout := logger.NewSlog(logger.SlogConfig{
		Level:    logger.ParseLevel(cfg.StdoutLogger.Level),
		UseColor: true,
	})
	active := []logger.Logger{stdout}

	var fluentClient *fluent.Fluent
	if cfg.FluentBit.Enabled {
		var err error
		fluentClient, err = logger.NewFluentClient(logger.FluentConfig{
			Host:      cfg.FluentBit.Host,
			Port:      cfg.FluentBit.Port,
			TagPrefix: cfg.AppName,
		})
		if err != nil {
			stdout.Error("Failed to create fluentbit client", err, nil)
			return nil, nil, err
		}
		fluentLogger, err := logger.NewFluent(fluentClient, logger.ParseLevel(cfg.FluentBit.Level))
		if err != nil {
			fluentClient.Close()
			return nil, nil, err
		}
		active = append(active, fluentLogger)
	}

	multi, err := logger.NewMulti(active...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}
	return multi.WithFields(logger.Fields{"service_name": cfg.AppName}), fluentClient, nil
}

func NewApp(cfg *config.AppConfig) (*App, error) {
	baseLogger, fluentClient, err := NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	a := &App{config: cfg, fluentClient: fluentClient}
	a.logger = baseLogger.WithFields(logger.Fields{"component": "app"})

	if err := a.init(baseLogger); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(baseLogger logger.Logger) error {
	ctx := context.Background()
	cfg := a.config

	db, err := database.Open(database.Options{Driver: cfg.Database.Driver, DSN: cfg.Database.URL})
	if err != nil {
		a.logger.Error("Failed to connect to database", err, nil)
		return err
	}
	a.db = db
	a.logger.Debug("Connected to database", logger.Fields{"driver": cfg.Database.Driver})

	if cfg.MigrationsAuto {
		applied, err := migration.NewMigrator(db, baseLogger).Up()
		if err != nil {
			a.logger.Error("Failed to apply migrations", err, nil)
			return err
		}
		a.logger.Info("Migrations applied", logger.Fields{"count": len(applied)})
	}

	var sessions auth.SessionStore
	if cfg.Redis.Addr != "" {
		client, err := auth.NewRedisClient(ctx, auth.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.logger.Error("Failed to connect to Redis", err, nil)
			return err
		}
		a.redis = client
		sessions = auth.NewRedisSessionStore(client, cfg.AppName)
	} else {
		a.logger.Warn("REDIS_ADDR not set, revoked sessions are kept in memory", nil)
		sessions = auth.NewMemorySessionStore()
	}

	var images storage.ImageStore
	if cfg.Mongo.URI != "" {
		client, err := storage.NewMongoClient(ctx, cfg.Mongo.URI)
		if err != nil {
			a.logger.Error("Failed to connect to MongoDB", err, nil)
			return err
		}
		a.mongo = client
		gridfs, err := storage.NewGridFSImageStore(client.Database(cfg.Mongo.Database))
		if err != nil {
			return err
		}
		images = gridfs
	} else {
		a.logger.Warn("MONGO_URI not set, property images are kept in memory", nil)
		images = storage.NewMemoryImageStore()
	}

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	if err != nil {
		return err
	}
	accounts := auth.NewAccountService(db, tokens, sessions)

	gin.SetMode(gin.ReleaseMode)
	router, err := server.NewRouter(server.Dependencies{
		DB:            db,
		Accounts:      accounts,
		Images:        images,
		Logger:        baseLogger,
		CSRFKey:       middleware.CSRFKey(cfg.Auth.JWTSecret),
		SecureCookies: cfg.HTTP.SecureCookies,
	})
	if err != nil {
		return err
	}
	a.apiServer = server.NewServer(cfg.HTTP.Port, router, baseLogger)
	a.logger.Debug("HTTP server configured", nil)
	return nil
}

// Run serves until SIGINT/SIGTERM or a server failure, then shuts down.
func (a *App) Run() error {
	defer a.close()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- a.apiServer.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case sig := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", logger.Fields{"signal": sig.String()})
	case err := <-serverErrors:
		if err != nil {
			a.logger.Error("Server failed, shutting down", err, nil)
			runErr = err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.apiServer.Stop(ctx); err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("Error during HTTP server shutdown", err, nil)
	}
	return runErr
}

func (a *App) close() {
	if a.mongo != nil {
		if err := a.mongo.Disconnect(context.Background()); err != nil {
			a.logger.Error("Failed to disconnect MongoDB", err, nil)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("Failed to close Redis client", err, nil)
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.logger.Error("Failed to close database", err, nil)
		}
	}
	a.logger.Info("Application shut down.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}
