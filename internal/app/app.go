package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Nasirkc/smart-bookmark/internal/config"
	"github.com/Nasirkc/smart-bookmark/internal/feed"
	"github.com/Nasirkc/smart-bookmark/internal/httpserver"
	"github.com/Nasirkc/smart-bookmark/internal/httpserver/deps"
	"github.com/Nasirkc/smart-bookmark/internal/logger"
	"github.com/Nasirkc/smart-bookmark/internal/redis"
	"github.com/Nasirkc/smart-bookmark/internal/relay"
	"github.com/Nasirkc/smart-bookmark/internal/seed"
	redisstore "github.com/Nasirkc/smart-bookmark/internal/store/redis"
	"github.com/Nasirkc/smart-bookmark/internal/sync"
	"github.com/Nasirkc/smart-bookmark/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	sessions    *sync.Registry
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	// Persistent store and the change feed both ride the same Redis.
	store := redisstore.NewStore(redisClient)
	listener := feed.NewListener(redisClient, loggerClient)
	hub := relay.NewHub()
	sessions := sync.NewRegistry()

	// One-shot seed import (if a seed file is configured)
	if cfg.SeedFile != "" {
		loggerClient.Info("seed file configured, importing bookmarks",
			logger.String("file", cfg.SeedFile))
		if err := runSeedImport(cfg, store, loggerClient); err != nil {
			loggerClient.Errorf("Seed import failed: %v", err)
			os.Exit(1)
		}
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		AuthSecret:      cfg.AuthSecret,
		Store:           store,
		Feed:            listener,
		Relay:           hub,
		Sessions:        sessions,
		RedisClient:     redisClient,
		PollInterval:    cfg.PollInterval,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitRefill: cfg.RateLimitRefill,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		sessions:    sessions,
	}
}

func runSeedImport(cfg *config.Config, store *redisstore.Store, log logger.Logger) error {
	f, err := seed.NewLoader(cfg.SeedFile).Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err = seed.NewImporter(store, log).Run(ctx, cfg.SeedOwner, f)
	return err
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting bookmarkd v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("bookmarkd %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	// Server shutdown severed the event streams; their deferred
	// cleanup closes the sessions, so only the client remains.
	if a.sessions.Len() > 0 {
		a.logger.Warnf("%d session(s) still registered at shutdown", a.sessions.Len())
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ bookmarkd stopped cleanly")
	return nil
}
