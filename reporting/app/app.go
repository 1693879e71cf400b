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

	"github.com/mac0206/library-system/pkg/kafka"
	"github.com/mac0206/library-system/pkg/logger"
	"github.com/mac0206/library-system/pkg/postgres"
	"github.com/mac0206/library-system/pkg/server"
	"github.com/mac0206/library-system/reporting/config"
	"github.com/mac0206/library-system/reporting/internal/handler"
	"github.com/mac0206/library-system/reporting/internal/repository"
	"github.com/mac0206/library-system/reporting/internal/service"
	"github.com/mac0206/library-system/reporting/internal/service/catalog"
	"github.com/mac0206/library-system/reporting/internal/service/circulation"
	"github.com/mac0206/library-system/reporting/migrations"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "reporting")
	db, err := postgres.NewPgxPool(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %w", err)
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo reporting %w", err)
	}

	catalogClient := catalog.NewClient(log, cfg.Catalog)
	circulationClient := circulation.NewClient(log, cfg.Circulation)

	svc := service.NewService(log, repo, catalogClient, circulationClient)
	h := handler.New(svc, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.ReportingConsumerGroup)
	if err != nil {
		// the event log is best-effort; reports still aggregate live
		log.Warn("kafka consumer unavailable", zap.Error(err))
	} else {
		go func() {
			if err := kafka.Consume(ctx, consumer, handler.NewConsumer(svc.StoreEvent, log), kafka.LoanTopic); err != nil && ctx.Err() == nil {
				log.Error("kafka consume", zap.Error(err))
			}
		}()
	}

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

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	cancel()
	if consumer != nil {
		_ = consumer.Close()
	}
	db.Close()
	log.Info("Graceful shutdown finished")
	return nil
}
