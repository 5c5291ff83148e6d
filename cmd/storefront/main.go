package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/storage"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
	pkgconfig "github.com/Skotchmaster/storefront/pkg/config"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

func main() {
	config.LoadDotEnv(".env")

	if len(os.Args) > 1 && os.Args[1] == "smoke" {
		smoke()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := repo.Migrate(ctx, db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	gormRepo := &repo.GormRepo{DB: db}

	var (
		store session.Store
		rdb   *redis.Client
	)
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		rdb, err = session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		store = session.NewRedisStore(rdb)
	default:
		store = session.NewMemoryStore()
	}

	secret := []byte(cfg.TokenSecret)
	if len(secret) == 0 {
		secret, err = session.RandomSecret()
		if err != nil {
			log.Fatalf("token secret: %v", err)
		}
		logger.Warn("token_secret_generated", "reason", "TOKEN_SECRET is not set, tokens will not survive a restart")
	}
	issuer := session.NewIssuer(store, secret)

	var images storage.ImageStore
	switch cfg.ImageStore {
	case config.ImageStoreMinio:
		images, err = storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			Prefix:    "uploads",
		})
	default:
		images, err = storage.NewLocalStore(cfg.UploadDir)
	}
	if err != nil {
		log.Fatalf("image store: %v", err)
	}

	var publisher events.Publisher = events.Nop{}
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = producer
	}

	var index search.Index = search.Disabled{}
	if cfg.ESURL != "" {
		es, err := search.NewElastic(ctx, search.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			logger.Error("elasticsearch_unavailable", "url", cfg.ESURL, "error", err)
		} else {
			index = es
		}
	}

	e := httpserver.New(logger, &httpserver.Deps{
		Auth:    &service.AuthService{Repo: gormRepo, Sessions: issuer, Events: publisher},
		Catalog: &service.CatalogService{Repo: gormRepo, Images: images, Index: index, Events: publisher},
		Gate:    auth.NewGate(issuer),
		Metrics: metrics.New("storefront"),
		DB:      gormRepo,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr, "db_driver", cfg.DBDriver,
			"session_store", cfg.SessionStore, "image_store", cfg.ImageStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	_ = pkgdb.Close(db)

	logger.Info("stopped")
}

// smoke runs `storefront smoke`: SMOKE_URL defaults to this host's PORT,
// SMOKE_USERNAME and SMOKE_PASSWORD are optional.
func smoke() {
	logger := logging.New(pkgconfig.EnvDefault("LOG_LEVEL", "info")).With("service", "storefront-smoke")
	baseURL := pkgconfig.EnvDefault("SMOKE_URL", "http://localhost:"+strconv.Itoa(pkgconfig.EnvIntDefault("PORT", 10000)))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := runSmoke(ctx, apiclient.NewClient(baseURL), pkgconfig.EnvDefault("SMOKE_USERNAME", ""),
		pkgconfig.EnvDefault("SMOKE_PASSWORD", ""), logger); err != nil {
		logger.Error("smoke_failed", "url", baseURL, "error", err)
		os.Exit(1)
	}
}
