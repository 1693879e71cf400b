package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mac0206/library-system/circulation/config"
	"github.com/mac0206/library-system/circulation/internal/handler"
	"github.com/mac0206/library-system/circulation/internal/repository"
	"github.com/mac0206/library-system/circulation/internal/service"
	"github.com/mac0206/library-system/circulation/internal/service/catalog"
	"github.com/mac0206/library-system/circulation/migrations"
	"github.com/mac0206/library-system/pkg/kafka"
	"github.com/mac0206/library-system/pkg/logger"
	"github.com/mac0206/library-system/pkg/postgres"
	"github.com/mac0206/library-system/pkg/server"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "circulation")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %w", err)
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo loans %w", err)
	}

	catalogClient := catalog.NewClient(log, cfg.Catalog)

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		// events are best-effort; the service runs without a broker
		log.Warn("kafka producer unavailable", zap.Error(err))
	}

	svc := service.NewService(repo, catalogClient, service.NewPublisher(producer), log)
	h := handler.New(svc, log)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	if producer != nil {
		_ = producer.Close()
	}
	db.Close()
	log.Info("Graceful shutdown finished")
	return nil
}
