package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/djgowrishankar/TicketReservationAPI/config"
	"github.com/djgowrishankar/TicketReservationAPI/db"
	"github.com/djgowrishankar/TicketReservationAPI/message"
	"github.com/djgowrishankar/TicketReservationAPI/service"
	observability "github.com/djgowrishankar/TicketReservationAPI/trace"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	log.Init(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	traceProvider := observability.ConfigureTraceProvider(cfg.JaegerEndpoint)
	defer func() {
		if err := traceProvider.Shutdown(context.Background()); err != nil {
			logrus.WithError(err).Error("Could not shut down trace provider")
		}
	}()

	conn, err := db.NewDBConn(cfg.PostgresURL)
	if err != nil {
		logrus.WithError(err).Fatal("Could not open Postgres connection")
	}
	defer conn.Close()

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("Could not connect to Postgres")
	}

	redisClient := message.NewRedisClient(cfg.RedisAddr)
	defer redisClient.Close()

	err = service.New(
		redisClient,
		conn,
		service.Options{
			HTTPAddr:            cfg.HTTPAddr,
			RebuildOpsReadModel: cfg.RebuildOpsReadModel,
		},
	).Run(ctx)
	if err != nil {
		logrus.WithError(err).Error("Service stopped with error")
		os.Exit(1)
	}
}
