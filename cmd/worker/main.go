package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"crm/internal/adapter/repo"
	"crm/internal/domain"
	"crm/internal/infra"
	"crm/internal/infra/credentials"
	"crm/internal/metrics"
	"crm/internal/providers/mail"
	"crm/internal/providers/sms"
)

const outboxPollInterval = 2 * time.Second

type outboxWorker struct {
	ctx      context.Context
	messages domain.MessageRepository
	logger   infra.Logger
	sms      sms.Sender
	mail     mail.Sender
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	credStore := credentials.NewStore(runner)

	httpClient := &http.Client{Timeout: 30 * time.Second}

	smsKey := strings.TrimSpace(cfg.SMSAPIKey)
	if smsKey == "" {
		if key, err := credStore.SMSAPIKey(ctx); err != nil {
			logger.Warn().Err(err).Msg("worker: failed to load sms api key from store")
		} else {
			smsKey = key
		}
	}
	var smsClient sms.Sender
	if smsKey != "" {
		client, err := sms.NewClient(sms.Options{
			APIKey:     smsKey,
			SenderID:   cfg.SMSSenderID,
			BaseURL:    cfg.SMSBaseURL,
			HTTPClient: httpClient,
			Logger:     &logger,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: failed to configure sms client")
		}
		smsClient = client
	} else {
		logger.Warn().Msg("worker: sms api key missing, sms messages will fail")
	}

	mailKey := strings.TrimSpace(cfg.MailAPIKey)
	if mailKey == "" {
		if key, err := credStore.MailAPIKey(ctx); err != nil {
			logger.Warn().Err(err).Msg("worker: failed to load mail api key from store")
		} else {
			mailKey = key
		}
	}
	var mailClient mail.Sender
	if mailKey != "" {
		client, err := mail.NewClient(mail.Options{
			APIKey:     mailKey,
			From:       cfg.MailFromAddress,
			BaseURL:    cfg.MailBaseURL,
			HTTPClient: httpClient,
			Logger:     &logger,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: failed to configure mail client")
		}
		mailClient = client
	} else {
		logger.Warn().Msg("worker: mail api key missing, email messages will fail")
	}

	metrics.Register()

	worker := &outboxWorker{
		ctx:      ctx,
		messages: repo.NewMessageRepository(runner),
		logger:   logger,
		sms:      smsClient,
		mail:     mailClient,
	}

	if err := worker.Run(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

func (w *outboxWorker) Run() error {
	w.logger.Info().Msg("worker: started")
	for {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		msg, err := w.messages.ClaimQueued(w.ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				time.Sleep(outboxPollInterval)
				continue
			}
			w.logger.Error().Err(err).Msg("worker: failed to claim message")
			time.Sleep(outboxPollInterval)
			continue
		}

		w.handleMessage(msg)
	}
}

func (w *outboxWorker) handleMessage(msg *domain.Message) {
	w.logger.Info().Str("message_id", msg.ID).Str("channel", string(msg.Channel)).Msg("worker: picked message")
	outcome := "sent"
	if err := w.dispatch(msg); err != nil {
		outcome = "failed"
		w.logger.Error().Err(err).Str("message_id", msg.ID).Msg("worker: dispatch failed")
		if markErr := w.messages.MarkFailed(w.ctx, msg.ID, err.Error()); markErr != nil {
			w.logger.Error().Err(markErr).Str("message_id", msg.ID).Msg("worker: mark failed errored")
		}
	} else if err := w.messages.MarkSent(w.ctx, msg.ID); err != nil {
		w.logger.Error().Err(err).Str("message_id", msg.ID).Msg("worker: mark sent errored")
	}
	metrics.MessagesDispatched.WithLabelValues(string(msg.Channel), outcome).Inc()
}

func (w *outboxWorker) dispatch(msg *domain.Message) error {
	switch msg.Channel {
	case domain.ChannelSMS:
		if w.sms == nil {
			return fmt.Errorf("sms sender not configured")
		}
		return w.sms.Send(w.ctx, msg.Recipient, msg.Body)
	case domain.ChannelEmail:
		if w.mail == nil {
			return fmt.Errorf("mail sender not configured")
		}
		return w.mail.Send(w.ctx, msg.Recipient, msg.Subject, msg.Body)
	default:
		return fmt.Errorf("unsupported channel %q", msg.Channel)
	}
}
