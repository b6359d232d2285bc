package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/trinv/stockroom/internal/adapter/handler"
	"github.com/trinv/stockroom/internal/adapter/storage"
	"github.com/trinv/stockroom/internal/config"
	"github.com/trinv/stockroom/internal/core/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.NewLogger("info").Fatalf("invalid configuration: %v", err)
	}

	log := config.NewLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}
	log.Info("connected to mysql")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	log.Info("connected to redis")

	// Adapters
	itemRepo := storage.NewMySQLItemRepository(db)
	saleRepo := storage.NewMySQLSaleRepository(db)
	userRepo := storage.NewMySQLUserRepository(db)
	notifRepo := storage.NewMySQLNotificationRepository(db)
	cache := storage.NewRedisAdapter(rdb)

	// Services
	notifier := service.NewNotifier(notifRepo, log, cfg.NotifierWorkers, cfg.NotifierQueueSize)
	ledger := service.NewLedgerService(itemRepo, itemRepo, notifier, log)

	svc := handler.Services{
		Auth:          service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, log),
		Users:         service.NewUserService(userRepo, log),
		Inventory:     service.NewInventoryService(itemRepo, log),
		Sales:         service.NewSaleService(saleRepo, ledger, cache, log),
		Reports:       service.NewReportService(saleRepo, itemRepo, log),
		Dashboard:     service.NewDashboardService(itemRepo, saleRepo, userRepo, cache, cfg.SummaryCacheTTL, log),
		Notifications: service.NewNotificationService(notifRepo),
	}

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.NewRouter(svc),
	}

	go func() {
		log.Infof("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Errorf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Info("HTTP server stopped")

	// Drain queued notifications before dropping the DB connection.
	notifier.Close()
	log.Info("notifier stopped")

	rdb.Close()
	db.Close()
	log.Info("connections closed")
}
