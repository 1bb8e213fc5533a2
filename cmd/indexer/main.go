package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/oksasatya/restaurant-review-api/config"
	pginfra "github.com/oksasatya/restaurant-review-api/internal/infrastructure/postgres"
	"github.com/oksasatya/restaurant-review-api/internal/worker"
	"github.com/oksasatya/restaurant-review-api/pkg/helpers"
	"github.com/oksasatya/restaurant-review-api/pkg/mailer"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-indexer", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventsQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.Fatalf("elasticsearch: %v", err)
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue, 16)
	if err != nil {
		logger.Fatalf("amqp: %v", err)
	}
	defer consumer.Close()
	deliveries, err := consumer.Deliveries()
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	x := &worker.Indexer{
		Restaurants: pginfra.NewRestaurantRepository(pool),
		Index:       helpers.NewRestaurantIndex(es, cfg.ESRestaurantsIndex),
		AppName:     cfg.AppName,
		Logger:      logger,
	}
	if cfg.MailSendEnabled {
		if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
			logger.Fatal("MAIL_SEND_ENABLED=true but Mailgun is not configured")
		}
		x.Mail = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
		x.NotifyTo = cfg.ReviewNotifyEmail
	}

	logger.Infof("indexer listening on queue=%s", cfg.RabbitMQEventsQueue)
	x.Run(ctx, deliveries)
	logger.Info("indexer stopped")
}
