package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hemafield/lead-capture/internal/config"
	"github.com/hemafield/lead-capture/internal/infra/database"
	"github.com/hemafield/lead-capture/internal/infra/http/handlers"
	"github.com/hemafield/lead-capture/internal/infra/integration/kommo"
	"github.com/hemafield/lead-capture/internal/infra/mail"
	"github.com/hemafield/lead-capture/internal/infra/queue"
	"github.com/hemafield/lead-capture/internal/leadform"
	"github.com/hemafield/lead-capture/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		slog.Error("lead service stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := database.Migrate(ctx, db, "postgres"); err != nil {
			return err
		}
	}

	// 1. Repositories and senders
	subscriberRepo := database.NewSubscriberRepository(db)
	mailSender := mail.NewEmailSender(
		cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass,
		cfg.MailFromAddress, cfg.MailFromName,
	)
	if !cfg.MailConfigured() {
		slog.Warn("MAIL_PASS not set, every submission will fail at the email step")
	}

	// 2. Optional follow-up pipeline
	if cfg.AMQPURL != "" && !cfg.KommoConfigured() {
		slog.Warn("AMQP_URL set without KOMMO_BASE_URL/KOMMO_API_TOKEN, lead follow-ups disabled")
	}
	var publisher usecase.LeadEventPublisher
	var broker handlers.BrokerConn
	if cfg.FollowUpsEnabled() {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()

		publisher = queue.NewProducer(rabbitMQ.Ch)
		broker = rabbitMQ.Conn

		consumeCh, err := rabbitMQ.Conn.Channel()
		if err != nil {
			return fmt.Errorf("open consumer channel: %w", err)
		}
		defer consumeCh.Close()

		worker := queue.NewWorker(consumeCh, kommo.NewClient(cfg.KommoBaseURL, cfg.KommoAPIToken))
		go func() {
			if err := worker.Start(ctx, queue.QueueName); err != nil {
				slog.Error("follow-up worker stopped", "err", err)
			}
		}()
	}

	// 3. Use cases
	submitLeadUC := usecase.NewSubmitLeadUseCase(subscriberRepo, mailSender, publisher, cfg.OwnerEmail)
	subscribeUC := usecase.NewSubscribeUseCase(subscriberRepo, mailSender)

	// 4. Router
	router := handlers.NewRouter(
		handlers.NewLeadHandler(submitLeadUC, subscribeUC),
		handlers.NewHealthHandler(db, broker, cfg.MailConfigured()),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("lead service listening", "addr", srv.Addr, "leadform_rules", leadform.RulesVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
