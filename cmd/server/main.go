package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"apotheca/internal/audit"
	"apotheca/internal/catalog"
	"apotheca/internal/commons"
	"apotheca/internal/config"
	"apotheca/internal/infrastructure/logger"
	"apotheca/internal/infrastructure/mysql"
	"apotheca/internal/inventory"
	"apotheca/internal/purchases"
	"apotheca/internal/sales"
	"apotheca/internal/server"
	"apotheca/internal/tenant"
	tenantrepo "apotheca/internal/tenant/repository"
)

func main() {
	cfg, err := commons.LoadConfig("internal/config/config.yaml")
	if err != nil {
		// containers usually configure through the environment instead
		cfg, err = config.Load()
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	auditSink := audit.NewMySQLSink(db, cfg.Audit.QueueSize, zapLogger)
	defer auditSink.Close()

	inventoryModule := inventory.NewModule(db, zapLogger)
	salesCtrl := sales.NewModule(db, cfg, auditSink, zapLogger)
	purchasesCtrl := purchases.NewModule(db, cfg, auditSink, zapLogger)
	catalogCtrl := catalog.NewModule(db, inventoryModule.StockSvc, zapLogger)

	tenantMw := tenant.NewMiddleware(tenantrepo.NewMySQLUserRepository(db), zapLogger)

	router := server.NewRouter(server.Controllers{
		Sales:     salesCtrl,
		Purchases: purchasesCtrl,
		Catalog:   catalogCtrl,
		Inventory: inventoryModule.LevelsController,
	}, tenantMw)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
