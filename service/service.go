package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/djgowrishankar/TicketReservationAPI/db"
	ticketsHttp "github.com/djgowrishankar/TicketReservationAPI/http"
	"github.com/djgowrishankar/TicketReservationAPI/message"
	"github.com/djgowrishankar/TicketReservationAPI/message/event"
	"github.com/djgowrishankar/TicketReservationAPI/message/outbox"
	"github.com/djgowrishankar/TicketReservationAPI/migrations"
	"github.com/djgowrishankar/TicketReservationAPI/reservation"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	watermillMessage "github.com/ThreeDotsLabs/watermill/message"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	HTTPAddr            string
	RebuildOpsReadModel bool
}

type Service struct {
	watermillRouter *watermillMessage.Router
	echoRouter      *echo.Echo

	dataLake     db.DataLakeRepository
	opsReadModel db.OpsBookingReadModel

	opts Options
}

func New(
	redisClient *redis.Client,
	conn db.DB,
	opts Options,
) Service {
	if opts.HTTPAddr == "" {
		opts.HTTPAddr = ":8080"
	}

	conn.MigrateSchema()

	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	redisPublisher := message.NewRedisPublisher(redisClient, watermillLogger)

	eventRepo := db.NewEventRepository(&conn)
	bookingRepo := db.NewBookingRepository(&conn)
	opsReadModel := db.NewOpsBookingReadModel(&conn)
	dataLake := db.NewDataLakeRepository(&conn)

	eventsHandler := event.NewHandler(dataLake, opsReadModel)
	eventProcessorConfig := event.NewProcessorConfig(redisClient, watermillLogger)

	pgSubscriber := outbox.SubscribeForPGMessages(conn.Conn, watermillLogger)
	watermillRouter := message.NewWatermillRouter(
		pgSubscriber,
		redisPublisher,
		eventProcessorConfig,
		eventsHandler,
		watermillLogger,
	)

	echoRouter := ticketsHttp.NewHttpRouter(
		reservation.NewEventManager(eventRepo),
		reservation.NewBookingManager(bookingRepo),
		opsReadModel,
	)

	return Service{
		watermillRouter: watermillRouter,
		echoRouter:      echoRouter,
		dataLake:        dataLake,
		opsReadModel:    opsReadModel,
		opts:            opts,
	}
}

func (s Service) Run(
	ctx context.Context,
) error {
	errgrp, ctx := errgroup.WithContext(ctx)

	errgrp.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	errgrp.Go(func() error {
		// we don't want to start HTTP server before Watermill router (so service won't be healthy before it's ready)
		<-s.watermillRouter.Running()

		if s.opts.RebuildOpsReadModel {
			if err := migrations.RebuildOpsBookingReadModel(ctx, s.dataLake, s.opsReadModel); err != nil {
				return fmt.Errorf("could not rebuild ops read model: %w", err)
			}
		}

		log.FromContext(ctx).WithField("addr", s.opts.HTTPAddr).Info("Starting HTTP server")

		err := s.echoRouter.Start(s.opts.HTTPAddr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	errgrp.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return s.echoRouter.Shutdown(shutdownCtx)
	})

	return errgrp.Wait()
}
