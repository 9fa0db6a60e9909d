package main

import (
	"context"
	"errors"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-reorder-service/config"
	"github.com/oksasatya/go-reorder-service/internal/application"
	"github.com/oksasatya/go-reorder-service/internal/container"
	"github.com/oksasatya/go-reorder-service/pkg/helpers"
)

const (
	demoEmail    = "demo@reorder.local"
	demoPassword = "password123"
	demoList     = "Groceries"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	if cfg.StoreDriver != config.StoreDriverPostgres {
		logger.Fatal("seed requires STORE_DRIVER=postgres")
	}
	// no welcome mail for seed data
	cfg.MailSendEnabled = false

	ctx := context.Background()
	infra, err := container.Connect(ctx, cfg, logger, true)
	if err != nil {
		logger.WithError(err).Fatal("connect")
	}
	c := container.New(cfg, logger, infra)
	defer c.Close()

	u, err := c.Users.Create(ctx, demoEmail, demoPassword)
	switch {
	case errors.Is(err, application.ErrDuplicateEmail):
		u, err = c.Users.Authenticate(ctx, demoEmail, demoPassword)
		if err != nil {
			logger.WithError(err).Fatal("demo user exists with a different password")
		}
	case err != nil:
		logger.WithError(err).Fatal("seed user")
	}

	l, err := c.Reorder.CreateList(ctx, u.ID, demoList)
	switch {
	case errors.Is(err, application.ErrDuplicateName):
		logger.WithField("user_id", u.ID).Info("demo list already present")
		return
	case err != nil:
		logger.WithError(err).Fatal("seed list")
	}
	for _, p := range []application.AddProductInput{
		{SKU: "MILK-1L", Name: "Whole milk 1L", Quantity: 2},
		{SKU: "EGG-12", Name: "Eggs, dozen", Quantity: 1},
	} {
		if _, err := c.Reorder.AddOrBumpProduct(ctx, u.ID, l.ID, p); err != nil {
			logger.WithError(err).Fatal("seed product")
		}
	}
	logger.WithFields(logrus.Fields{"user_id": u.ID, "list_id": l.ID, "email": demoEmail}).Info("seed complete")
}
