package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-food/config"
	"campus-food/internal/api"
	"campus-food/internal/broker"
	"campus-food/internal/catalog"
	"campus-food/internal/inventory"
	"campus-food/internal/kitchen"
	"campus-food/internal/kv"
	"campus-food/internal/ordering"
	"campus-food/internal/session"
	"campus-food/internal/store"
	"campus-food/internal/util"
	"campus-food/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting campus food service")

	tp, err := util.InitTracer(cfg.Observ.JaegerEndpoint, cfg.Observ.TracingEnabled)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seed := catalog.Seed(time.Now())

	var dataStore catalog.DataStore
	var sequencer ordering.Sequencer
	switch cfg.Data.Backend {
	case "postgres":
		db, err := store.NewStore(cfg.Data.DatabaseURL, seed.User.ID, cfg.Business.LowStockThreshold)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		if err := db.SeedIfEmpty(ctx, seed); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
		dataStore, sequencer = db, db
		logger.Info("Database connected")
	default:
		dataStore = catalog.NewMemory(seed, cfg.Business.LowStockThreshold)
		sequencer = ordering.NewMemorySequencer()
		logger.Info("Using in-memory data store")
	}

	var storage kv.Storage
	switch cfg.Data.KVBackend {
	case "redis":
		redisStorage, err := kv.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStorage.Close()
		storage = redisStorage
		logger.Info("Redis connected")
	default:
		storage = kv.NewMemory()
	}

	eventHandler := broker.NewEventHandler()
	var sender broker.Sender
	var consumer *broker.Consumer
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
		defer producer.Close()
		sender = producer
		consumer = broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup)
		logger.Info("Kafka producer initialized")
	} else {
		sender = broker.NewLocalSender(eventHandler)
	}
	eventPublisher := broker.NewEventPublisher(sender)

	kitchenService := kitchen.NewService(dataStore, eventPublisher)
	orderService := ordering.NewService(dataStore, ordering.NewIDGenerator(sequencer), eventPublisher, cfg.Business.EstimatedMinutes)
	inventoryService := inventory.NewService(dataStore, cfg.Business.StaffOutletID, cfg.Business.LowStockThreshold, eventPublisher)
	simulator := ordering.NewSimulator(kitchenService, cfg.Business.ReadySimulation)

	sessions := session.NewManager(ctx, dataStore, storage, orderService, simulator, session.Config{
		ToastTTL:       cfg.Business.ToastDuration,
		SearchMinChars: cfg.Business.SearchMinChars,
		IdleTimeout:    cfg.Business.SessionIdle,
	})
	defer sessions.Close()
	go func() {
		if err := sessions.RunCleanup(ctx, cfg.Business.SessionSweep); err != nil && err != context.Canceled {
			logger.Error("Session cleanup error", zap.Error(err))
		}
	}()

	notificationWorker := worker.NewNotificationWorker(consumer, eventHandler, sessions, sessions.Staff().Notifier())
	go func() {
		if err := notificationWorker.Start(ctx); err != nil && err != context.Canceled {
			logger.Error("Notification worker error", zap.Error(err))
		}
	}()

	refresher := kitchen.NewRefresher(kitchenService, sessions.Staff(), cfg.Business.StaffRefresh)
	go func() {
		if err := refresher.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("Staff refresh loop error", zap.Error(err))
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(api.Services{
		Store:     dataStore,
		Sessions:  sessions,
		Orders:    orderService,
		Kitchen:   kitchenService,
		Inventory: inventoryService,
		Refresher: refresher,
	})
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server forced to shutdown", zap.Error(err))
	}

	cancel()
	if err := notificationWorker.Stop(); err != nil {
		logger.Warn("Error stopping notification worker", zap.Error(err))
	}

	logger.Info("Server exited")
}
