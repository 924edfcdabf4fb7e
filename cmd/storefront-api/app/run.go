package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/luckydevstar/custom-frame-sizes-sub010/configs"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/adapter/cache"
	apihttp "github.com/luckydevstar/custom-frame-sizes-sub010/internal/adapter/http"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/adapter/http/middleware"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/adapter/kafka"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/adapter/queue"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/adapter/repo"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/adapter/shopify"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/logging"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logger := logging.Init(cfg.App.Name, cfg.App.LogFile, cfg.App.LogLevel)

	// init database (order files)
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		return nil, nil, err
	}
	cancel()

	logger.Info("storefront-api: starting up", "stores", len(cfg.Stores))

	// init redis (rate-limit counters)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, err
	}

	// init rabbitmq producer (commerce events); optional
	var events usecase.EventPublisher
	var amqpConn *amqp.Connection
	if cfg.Rabbit.Enabled {
		amqpConn, err = amqp.Dial(cfg.Rabbit.URL)
		if err != nil {
			return nil, nil, err
		}
		ch, err := amqpConn.Channel()
		if err != nil {
			return nil, nil, err
		}
		events, err = queue.NewRabbitProducer(ch, cfg.Rabbit.Exchange)
		if err != nil {
			return nil, nil, err
		}
	}

	// infra
	sfClient := shopify.NewStorefrontClient(cfg)
	fileRepo := repo.NewMySQLOrderFileRepo(db)
	rlStore := cache.NewRedisRateLimitStore(rdb)

	// use cases
	createCart := usecase.NewCreateCart(cfg, sfClient, events)
	createCheckout := usecase.NewCreateCheckout(cfg, sfClient, events)
	getFile := usecase.NewGetOrderFile(cfg, fileRepo)
	ingestFile := usecase.NewIngestOrderFile(cfg, fileRepo)

	// register kafka listener (order-file ingest); optional
	stopKafka := func() {}
	if cfg.Kafka.Enabled {
		stopKafka, err = startKafkaListener(cfg, ingestFile)
		if err != nil {
			return nil, nil, err
		}
	}

	// handlers + router + middleware
	sh := apihttp.NewStorefrontHandler(cfg, createCart, createCheckout)
	fh := apihttp.NewOrderFileHandler(cfg, getFile, ingestFile)
	th := apihttp.NewTokenHandler(cfg)
	authz := middleware.NewAuthz(cfg)
	limiter := middleware.NewRateLimiter(rlStore, cfg)
	router := apihttp.NewRouter(cfg, sh, fh, th, authz, limiter)

	cleanup := func() {
		stopKafka()
		if amqpConn != nil {
			_ = amqpConn.Close()
		}
		_ = rdb.Close()
		_ = db.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func startKafkaListener(cfg configs.Config, ingest *usecase.IngestOrderFile) (func(), error) {
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		return nil, err
	}

	h := kafka.NewOrderFileEventHandler(ingest)
	logger := logging.New("kafka")
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.Topic}, h.Handle, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Error("order-file consumer stopped", "err", err)
		}
	}()

	return func() {
		cancel()
		_ = grp.Close()
	}, nil
}
