package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zubaerSumon/ileap-sub000/internal/api"
	"github.com/zubaerSumon/ileap-sub000/internal/auth"
	"github.com/zubaerSumon/ileap-sub000/internal/cache"
	"github.com/zubaerSumon/ileap-sub000/internal/config"
	"github.com/zubaerSumon/ileap-sub000/internal/events"
	"github.com/zubaerSumon/ileap-sub000/internal/kafka"
	"github.com/zubaerSumon/ileap-sub000/internal/logger"
	"github.com/zubaerSumon/ileap-sub000/internal/repository"
	"github.com/zubaerSumon/ileap-sub000/internal/service"
	"github.com/zubaerSumon/ileap-sub000/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	zl, err := logger.New(logger.Config{Development: cfg.App.Env != "production", Service: "messaging"})
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	mc, err := repository.NewMongoClient(cfg.Mongo)
	if err != nil {
		zl.Fatalw("mongo init", "err", err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()
	db := mc.Database(cfg.Mongo.DB)

	msgRepo := repository.NewMongoMessageRepository(db)
	groupRepo := repository.NewMongoGroupRepository(db)
	userRepo := repository.NewMongoUserRepository(db)

	relayCtx, stopRelay := context.WithCancel(context.Background())
	defer stopRelay()

	local := events.NewLocalBus()
	var bus events.Bus = local
	var presence *cache.PresenceStore
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		relay := events.NewRedisRelay(local, rdb, cfg.Redis.Prefix, zl)
		go relay.Run(relayCtx)
		bus = relay
		presence = cache.NewPresenceStore(rdb, cfg.Redis.Prefix)
		zl.Infow("redis relay enabled", "addr", cfg.Redis.Addr)
	}
	fanout := events.NewFanout(bus)

	var kprod *kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		kprod = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() { _ = kprod.Close() }()
		zl.Infow("kafka producer enabled", "topic", cfg.Kafka.Topic)
	}

	msgSvc := service.NewMessageService(msgRepo, groupRepo, userRepo, fanout, kprod, zl)
	readSvc := service.NewReadStateService(msgRepo, fanout, zl)
	histSvc := service.NewHistoryService(msgRepo, groupRepo, userRepo, readSvc, zl)
	convSvc := service.NewConversationService(msgRepo, groupRepo, userRepo, zl)
	groupSvc := service.NewGroupService(groupRepo, msgRepo, zl)

	jv, err := auth.NewJWTValidator(cfg.JWT)
	if err != nil {
		zl.Fatalw("jwt init", "err", err)
	}

	wsrv := ws.NewServer(bus, presence, zl)
	handlers := api.NewHandlers(msgSvc, histSvc, convSvc, groupSvc, readSvc, presence, zl)
	app := api.NewServer(handlers, wsrv, jv, zl)

	go func() {
		if err := app.Listen(":" + cfg.App.PortString()); err != nil {
			zl.Fatalw("server listen", "err", err)
		}
	}()
	zl.Infow("messaging service started", "port", cfg.App.Port, "env", cfg.App.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.App.ShutdownSeconds)*time.Second)
	defer cancel()

	stopRelay()
	_ = app.ShutdownWithContext(ctx)
	zl.Infow("messaging service stopped")
}
