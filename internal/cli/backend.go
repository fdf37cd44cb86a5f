package cli

import (
	"context"
	"fmt"
	"time"

	"clock-tutor-service/internal/app"
	"clock-tutor-service/internal/config"
	"clock-tutor-service/internal/infra/file"
	"clock-tutor-service/internal/infra/memory"
	pgstore "clock-tutor-service/internal/infra/postgres"
	redisstore "clock-tutor-service/internal/infra/redis"
	"clock-tutor-service/internal/logging"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// backend holds the storage connections chosen by config.
type backend struct {
	store app.KeyValueStore
	redis *redis.Client
	pool  *pgxpool.Pool
}

func openBackend(ctx context.Context, cfg config.Config, log *logging.Logger) (*backend, error) {
	b := &backend{}
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		b.store = memory.NewKVStore()
	case config.DriverFile:
		b.store = file.NewKVStore(cfg.Storage.Path)
	case config.DriverRedis:
		if b.redis == nil {
			return nil, fmt.Errorf("storage driver redis needs redis.addr")
		}
		b.store = redisstore.NewKVStore(b.redis)
	case config.DriverPostgres:
		if cfg.Postgres.URL == "" {
			return nil, fmt.Errorf("storage driver postgres needs postgres.url")
		}
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.pool = pool
		b.store = pgstore.NewKVStore(pool)
	default:
		b.Close()
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	log.Info("storage ready", "driver", cfg.Storage.Driver)
	return b, nil
}

func (b *backend) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
}

func rulesFromConfig(cfg config.Config) app.Rules {
	rules := app.DefaultRules()
	rules.RewardStars = cfg.Game.RewardStars
	rules.AdvanceDelay = config.TTLDuration(cfg.Game.AdvanceDelay, rules.AdvanceDelay)
	rules.MatchCompleteDelay = config.TTLDuration(cfg.Game.MatchCompleteDelay, rules.MatchCompleteDelay)
	rules.StageAdvanceDelay = config.TTLDuration(cfg.Game.StageAdvanceDelay, rules.StageAdvanceDelay)
	return rules
}

func loadConfigAndLogger(configPath string) (config.Config, *logging.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, err
	}
	log, err := logging.New(cfg.Log.Mode)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

const defaultRedisTTL = 30 * time.Minute
