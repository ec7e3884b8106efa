package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/bus_tracking_system/internal/broadcast"
	"github.com/shenikar/bus_tracking_system/internal/cleanup"
	"github.com/shenikar/bus_tracking_system/internal/config"
	v1 "github.com/shenikar/bus_tracking_system/internal/handler/http/v1"
	"github.com/shenikar/bus_tracking_system/internal/repository"
	"github.com/shenikar/bus_tracking_system/internal/service"
	"github.com/shenikar/bus_tracking_system/pkg/logger"
)

// @title Bus Tracking System API
// @version 1.0
// @description Live fleet position tracking with real-time fanout to observers.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown фоновых задач
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Хранилище позиций и хаб рассылки. Хаб подключается к хранилищу
	// как приёмник событий: события уходят наблюдателям в порядке
	// применения мутаций.
	store := repository.NewLocationStore()
	hub := broadcast.NewHub(store, log)
	store.SetEventSink(hub)
	go hub.Run(ctx)

	// Инициализация и запуск воркера очистки устаревших записей
	cleanupWorker := cleanup.NewCleanupWorker(store, log, cfg.CleanupInterval, cfg.LocationTTL)
	cleanupWorker.Start(ctx)

	// Инициализация сервисов
	trackerService := service.NewTrackerService(store, log)

	// Инициализация хэндлеров
	handler := v1.NewHandler(trackerService, hub, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)
	handler.RegisterWS(router)

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
