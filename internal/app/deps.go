package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ecoquest/community/internal/auth"
	"github.com/ecoquest/community/internal/community"
	"github.com/ecoquest/community/internal/config"
	"github.com/ecoquest/community/internal/db"
	"github.com/ecoquest/community/internal/events"
	"github.com/ecoquest/community/internal/handlers"
	"github.com/ecoquest/community/internal/messaging"
	"github.com/ecoquest/community/internal/middleware"
	"github.com/ecoquest/community/internal/repositories"
	"github.com/ecoquest/community/internal/storage"
	"github.com/ecoquest/community/internal/store"
)

type closeFunc func(context.Context) error

// runtime holds the wired collaborators of a serving process.
type runtime struct {
	deps     handlers.Dependencies
	verifier middleware.TokenVerifier
	closers  []closeFunc
}

// Close releases resources in reverse order of acquisition.
func (rt *runtime) Close(ctx context.Context) error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// buildRuntime wires together concrete implementations used by the HTTP handlers.
// Unreachable record stores and brokers degrade the service instead of stopping
// it: records fall back to in-memory state for the process lifetime and events
// are dropped.
func buildRuntime(ctx context.Context, cfg config.Config, logger *slog.Logger) *runtime {
	rt := &runtime{}

	backend, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		logger.Error("record store unavailable, running without persistence", "driver", cfg.Store.Driver, "error", err)
	} else if closeBackend != nil {
		rt.closers = append(rt.closers, closeBackend)
	}

	var publisher events.Publisher
	if cfg.Events.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			logger.Warn("event broker unavailable, events will be dropped", "error", err)
		} else {
			publisher = amqpPublisher
			rt.closers = append(rt.closers, func(context.Context) error { return amqpPublisher.Close() })
		}
	}

	dispatcher := events.NewDispatcher(publisher, events.DispatcherConfig{
		QueueSize:      cfg.Events.QueueSize,
		Workers:        cfg.Events.Workers,
		PublishTimeout: cfg.Events.PublishTimeout,
	}, logger)
	rt.closers = append(rt.closers, dispatcher.Shutdown)

	adapter := store.NewAdapter(backend)
	communityEngine := community.NewEngine(ctx, community.Options{Store: adapter, Notifier: dispatcher})
	messagingEngine := messaging.NewEngine(ctx, messaging.Options{Store: adapter, Peers: communityEngine, Notifier: dispatcher})

	rt.deps = handlers.Dependencies{
		Community:   communityEngine,
		Messages:    messagingEngine,
		StoreDriver: cfg.Store.Driver,
	}

	if limiter := middleware.NewIPRateLimiter(cfg.RateLimit); limiter != nil {
		rt.deps.Limiter = limiter
	}

	if cfg.ObjectStore.Enabled() {
		client, err := storage.NewS3Client(ctx, cfg.ObjectStore)
		if err != nil {
			logger.Warn("media storage unavailable, uploads disabled", "error", err)
		} else {
			rt.deps.Media = storage.NewS3MediaStore(client, cfg.ObjectStore)
		}
	}

	if cfg.Auth.JWTSecret != "" {
		rt.verifier = auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	} else {
		logger.Warn("no token secret configured, every request is anonymous")
	}

	return rt
}

// openBackend connects the record backend selected by cfg.Store.Driver.
func openBackend(ctx context.Context, cfg config.Config) (store.Backend, closeFunc, error) {
	sc := cfg.Store
	switch sc.Driver {
	case config.DriverMemory, "":
		return store.NewMemoryBackend(), nil, nil
	case config.DriverFile:
		backend, err := store.NewFileBackend(sc.FileDir)
		if err != nil {
			return nil, nil, err
		}
		return backend, nil, nil
	case config.DriverPostgres:
		pool, err := db.Connect(ctx, sc.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewPostgresRecordStore(pool), func(context.Context) error {
			pool.Close()
			return nil
		}, nil
	case config.DriverRedis:
		client, err := repositories.NewRedisClient(ctx, sc.RedisAddr, sc.RedisPassword, sc.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewRedisRecordStore(client, sc.RedisPrefix), func(context.Context) error {
			return client.Close()
		}, nil
	case config.DriverMongo:
		client, err := repositories.ConnectMongo(ctx, sc.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewMongoRecordStore(client, sc.MongoDatabase, sc.MongoCollection), client.Disconnect, nil
	case config.DriverS3:
		client, err := storage.NewS3Client(ctx, cfg.ObjectStore)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewS3RecordStore(client, cfg.ObjectStore.Bucket, sc.S3Prefix), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", sc.Driver)
	}
}
