package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/restaurant-review-api/config"
	"github.com/oksasatya/restaurant-review-api/internal/application"
	"github.com/oksasatya/restaurant-review-api/internal/container"
	pginfra "github.com/oksasatya/restaurant-review-api/internal/infrastructure/postgres"
	"github.com/oksasatya/restaurant-review-api/pkg/helpers"
)

// seedRestaurant is one entry of the RESTAURANTS_SEED_FILE JSON array.
type seedRestaurant struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Country     string `json:"country"`
	PostalCode  string `json:"postal_code"`
	Address     string `json:"address"`
	Webpage     string `json:"webpage"`
	PhoneNumber string `json:"phone_number"`
}

func loadRestaurants(path string) ([]application.RestaurantInput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []seedRestaurant
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	out := make([]application.RestaurantInput, 0, len(items))
	for i, it := range items {
		if it.Name == "" || it.Country == "" {
			return nil, fmt.Errorf("entry %d: name and country are required", i)
		}
		out = append(out, application.RestaurantInput(it))
	}
	return out, nil
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}

	c := &container.Container{Config: cfg, Logger: logger, PG: pool}
	if cfg.RabbitMQURL != "" {
		if pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue); err == nil {
			c.Publisher = pub
		} else {
			logger.WithError(err).Warn("rabbitmq unavailable; seeded restaurants will not be indexed")
		}
	}
	defer c.Close()
	svc := c.Services()

	if cfg.SuperadminUser == "" || cfg.SuperadminPass == "" {
		logger.Fatal("SUPERADMIN_USER and SUPERADMIN_PASS must be set")
	}
	u, err := svc.Users.Bootstrap(ctx, cfg.SuperadminUser, cfg.SuperadminPass)
	if err != nil {
		logger.Fatalf("bootstrap superadmin: %v", err)
	}
	logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username, "scopes": u.ScopeNames()}).Info("superadmin ready")

	if cfg.RestaurantsSeedFile == "" {
		return
	}
	items, err := loadRestaurants(cfg.RestaurantsSeedFile)
	if err != nil {
		logger.Fatalf("load restaurants: %v", err)
	}
	for _, in := range items {
		r, err := svc.Restaurants.Create(ctx, in)
		if err != nil {
			logger.WithError(err).WithField("name", in.Name).Error("create restaurant failed")
			continue
		}
		logger.WithFields(logrus.Fields{"id": r.ID, "name": r.Name}).Info("restaurant created")
	}
}
