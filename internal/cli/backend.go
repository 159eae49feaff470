package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"globetrotter/internal/app"
	"globetrotter/internal/config"
	"globetrotter/internal/domain"
	"globetrotter/internal/infra/memory"
	mongostore "globetrotter/internal/infra/mongo"
	pgstore "globetrotter/internal/infra/postgres"
	redisstore "globetrotter/internal/infra/redis"
	"globetrotter/internal/metrics"
	transport "globetrotter/internal/transport/http"
)

// userStore is what every user backend provides.
type userStore interface {
	app.UserRepository
	app.ScoreRepository
	app.LeaderboardRepository
}

// destinationStore is a destination backend that accepts imports.
type destinationStore interface {
	memory.DestinationLoader
	ImportDestinations(ctx context.Context, destinations []domain.Destination, replace bool) (int, error)
}

// backend holds the stores selected by config and the clients behind them.
type backend struct {
	users        userStore
	challenges   app.ChallengeRepository
	denylist     app.TokenDenylist
	destinations destinationStore
	// catalog is destinations behind the configured cache.
	catalog app.DestinationRepository

	destinationDriver string
	reapers           []memory.Reaper
	healthChecks      map[string]transport.HealthCheck
	closers           []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackend connects to the configured stores. On error everything opened
// so far is closed.
func openBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (*backend, error) {
	b := &backend{healthChecks: make(map[string]transport.HealthCheck)}
	if err := b.open(ctx, cfg, logger); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *backend) open(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	switch cfg.Store.Driver {
	case config.StoreMongo:
		client, err := mongostore.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return fmt.Errorf("connecting to mongo: %w", err)
		}
		b.closers = append(b.closers, func() { _ = client.Disconnect(context.Background()) })

		db := client.Database(cfg.Mongo.Database)
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("creating mongo indexes: %w", err)
		}
		b.users = mongostore.NewUserStore(db)
		b.challenges = mongostore.NewChallengeStore(db)
		b.destinations = mongostore.NewDestinationStore(db)
		b.destinationDriver = config.StoreMongo
		b.healthChecks["mongo"] = func(ctx context.Context) error { return mongostore.Ping(ctx, client) }
		logger.Info("connected to mongo", "database", cfg.Mongo.Database)
	default:
		users := memory.NewUserStore()
		challenges := memory.NewChallengeStore()
		b.users = users
		b.challenges = challenges
		b.destinations = memory.NewDestinationStore(memory.SeedDestinations())
		b.destinationDriver = config.StoreMemory
		b.reapers = append(b.reapers, challenges)
		logger.Info("using in-memory stores")
	}

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		b.destinations = pgstore.NewDestinationStore(pool)
		b.destinationDriver = "postgres"
		b.healthChecks["postgres"] = func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }
		logger.Info("reading destinations from postgres")
	}

	cacheTTL := config.TTLDuration(cfg.Redis.CacheTTL, 5*time.Minute)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, func() { _ = client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("pinging redis: %w", err)
		}
		b.challenges = redisstore.NewChallengeStore(client)
		b.denylist = redisstore.NewTokenDenylist(client)
		b.catalog = redisstore.NewDestinationCache(client, b.destinations, cacheTTL, metrics.CacheObserver{})
		b.healthChecks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		b.reapers = nil
		logger.Info("connected to redis", "addr", cfg.Redis.Addr)
	} else {
		denylist := memory.NewTokenDenylist()
		b.denylist = denylist
		b.catalog = memory.NewDestinationCache(b.destinations, cacheTTL, metrics.CacheObserver{})
		b.reapers = append(b.reapers, denylist)
	}
	return nil
}
