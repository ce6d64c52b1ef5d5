package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-service/config"
	"github.com/oksasatya/go-ddd-user-service/internal/application"
	"github.com/oksasatya/go-ddd-user-service/internal/domain/errs"
	pginfra "github.com/oksasatya/go-ddd-user-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-user-service/pkg/helpers"
)

func strptr(s string) *string { return &s }

var demoUsers = []application.CreateUserInput{
	{Username: "demo_admin", Email: "admin@example.com", FullName: strptr("Demo Admin")},
	{Username: "jane-doe", Email: "jane.doe@example.com", FullName: strptr("Jane Doe")},
	{Username: "john_smith", Email: "john.smith@example.com"},
}

// Seeds demo users through the user service so every domain rule applies.
// Users that already exist are reported and skipped.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, pginfra.PoolOptions{DSN: cfg.PostgresDSN(), MaxConns: 2})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	svc := application.NewService(pginfra.NewUserRepository(pool), logger)
	for _, in := range demoUsers {
		u, err := svc.CreateUser(ctx, in)
		switch {
		case errors.Is(err, errs.ErrAlreadyExists):
			logger.WithField("username", in.Username).Info("already seeded, skipping")
		case err != nil:
			log.Fatalf("failed to seed %s: %v", in.Username, err)
		default:
			logger.WithFields(logrus.Fields{"user_id": u.ID().String(), "username": in.Username}).Info("seeded user")
		}
	}
}
