package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/foyer-pos/foyer-backend/internal/config"
	"github.com/foyer-pos/foyer-backend/internal/db"
	"github.com/foyer-pos/foyer-backend/internal/dish"
	"github.com/foyer-pos/foyer-backend/internal/handler"
	"github.com/foyer-pos/foyer-backend/internal/order"
	"github.com/foyer-pos/foyer-backend/internal/ticket"
	"github.com/foyer-pos/foyer-backend/internal/transport"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "foyer-backend").Logger()

	log.Info().Msg("Foyer backend starting...")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	if err := db.ApplyMigrations(cfg.Postgres); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	pg, err := db.New(context.Background(), cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pg.Close()

	dishRepo := dish.NewRepository(pg.Pool)
	dishSvc := dish.NewService(dishRepo)

	orderRepo := order.NewRepository(pg.Pool)
	orderSvc := order.NewService(orderRepo, dishRepo, cfg.App.RetentionDays)

	// The printer device is resolved once here; when none is configured the
	// client comes up disabled and print attempts report a clear error
	// instead of failing startup.
	printerClient := ticket.NewDeviceClient(cfg.Printer.Device)
	formatter := ticket.NewPlainTextFormatter(cfg.App.RestaurantName)
	printerSvc := ticket.NewPrinterService(orderRepo, formatter, printerClient)

	orderHandler, err := handler.NewOrderHandler(orderSvc, cfg.App.DeleteSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build order handler")
	}

	router := transport.NewRouter(transport.Handlers{
		Dishes:  handler.NewDishHandler(dishSvc),
		Orders:  orderHandler,
		Tickets: handler.NewTicketHandler(printerSvc),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
