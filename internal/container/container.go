// Package container builds the application graph once at startup and hands it
// to the router and binaries explicitly.
package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-reorder-service/config"
	"github.com/oksasatya/go-reorder-service/internal/application"
	repo "github.com/oksasatya/go-reorder-service/internal/domain/repository"
	"github.com/oksasatya/go-reorder-service/internal/infrastructure/memory"
	"github.com/oksasatya/go-reorder-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-reorder-service/internal/infrastructure/search"
	"github.com/oksasatya/go-reorder-service/pkg/helpers"
)

// Infra holds the external clients. Every field is optional; a nil Pool
// selects the in-memory store.
type Infra struct {
	Pool   *pgxpool.Pool
	Redis  *redis.Client
	GCS    *storage.Client
	ES     *elasticsearch.Client
	Rabbit *helpers.RabbitPublisher
}

type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Infra  Infra

	JWT     *helpers.JWTManager
	Cookies *helpers.CookieManager

	UserRepo    repo.UserRepository
	ListRepo    repo.ReorderListRepository
	ProductRepo repo.ReorderProductRepository

	Users   *application.UserService
	Tokens  *application.TokenService
	Auth    *application.AuthService
	Reorder *application.ReorderService

	// ProductIndex is set when Elasticsearch is configured.
	ProductIndex *search.ProductIndex
}

func New(cfg *config.Config, logger *logrus.Logger, infra Infra) *Container {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Infra:   infra,
		JWT:     helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL),
		Cookies: helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
	}

	if infra.Pool != nil {
		c.UserRepo = postgres.NewUserRepository(infra.Pool)
		c.ListRepo = postgres.NewReorderListRepository(infra.Pool)
		c.ProductRepo = postgres.NewReorderProductRepository(infra.Pool)
	} else {
		store := memory.NewStore()
		c.UserRepo = store.Users()
		c.ListRepo = store.ReorderLists()
		c.ProductRepo = store.ReorderProducts()
	}

	c.Users = application.NewUserService(c.UserRepo, logger)
	c.Tokens = application.NewTokenService(c.JWT, c.UserRepo, logger)

	// keep the interface nil unless a publisher exists
	var mail application.JobPublisher
	if infra.Rabbit != nil && cfg.MailSendEnabled {
		mail = infra.Rabbit
	}
	c.Auth = application.NewAuthService(c.Users, c.Tokens, mail, logger)
	c.Auth.AppName = cfg.AppName

	c.Reorder = application.NewReorderService(c.ListRepo, c.ProductRepo, logger)
	if infra.ES != nil {
		c.ProductIndex = search.NewProductIndex(infra.ES, cfg.ESProductsIndex)
		c.Reorder.Index = c.ProductIndex
	}
	if infra.GCS != nil && cfg.GCSBucket != "" {
		c.Reorder.Exporter = helpers.NewGCSUploader(infra.GCS, cfg.GCSBucket)
	}
	return c
}

// Close releases the external clients held by Infra.
func (c *Container) Close() {
	if c.Infra.Rabbit != nil {
		c.Infra.Rabbit.Close()
	}
	if c.Infra.Redis != nil {
		_ = c.Infra.Redis.Close()
	}
	if c.Infra.GCS != nil {
		_ = c.Infra.GCS.Close()
	}
	if c.Infra.Pool != nil {
		c.Infra.Pool.Close()
	}
}
