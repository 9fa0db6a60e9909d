package container

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-reorder-service/config"
	"github.com/oksasatya/go-reorder-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-reorder-service/pkg/helpers"
)

// Connect opens the clients cfg asks for. Postgres is fatal when selected;
// the optional integrations are logged and skipped on failure.
func Connect(ctx context.Context, cfg *config.Config, logger *logrus.Logger, migrate bool) (Infra, error) {
	var infra Infra

	if cfg.StoreDriver == config.StoreDriverPostgres {
		pool, err := postgres.NewPool(ctx, cfg.PostgresDSN(), postgres.PoolOptions{
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
			AppName:     cfg.AppName,
		})
		if err != nil {
			return infra, fmt.Errorf("connect postgres: %w", err)
		}
		infra.Pool = pool
		if migrate {
			if err := postgres.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
				pool.Close()
				return Infra{}, fmt.Errorf("run migrations: %w", err)
			}
		}
	} else {
		logger.Warn("using in-memory store; data is lost on restart")
	}

	if rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			// the limiter fails open, keep the client for when redis comes back
			logger.WithError(err).Warn("redis ping failed")
		}
		infra.Redis = rdb
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("gcs disabled")
		} else {
			infra.GCS = gcs
		}
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch disabled")
		} else {
			infra.ES = es
		}
	}

	if cfg.RabbitMQURL != "" && cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq publisher disabled")
		} else {
			infra.Rabbit = pub
		}
	}
	return infra, nil
}
