package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-service/config"
	"github.com/oksasatya/go-ddd-user-service/internal/metrics"
	"github.com/oksasatya/go-ddd-user-service/internal/notification"
	"github.com/oksasatya/go-ddd-user-service/pkg/helpers"
	"github.com/oksasatya/go-ddd-user-service/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-user-service/pkg/mailer/templates"
)

// Consumes user events and sends the welcome email for each new user.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env, cfg.LogLevel)

	if !cfg.MailSendEnabled {
		logger.Warn("MAIL_SEND_ENABLED=false; email worker disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventsQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue, 16)
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Deliveries(cfg.AppName + "-email-worker")
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	metrics.Init()
	notifier := notification.NewWelcomeNotifier(
		mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender),
		mailtpl.Branding{CompanyName: cfg.CompanyName, AppName: cfg.AppName, SupportURL: cfg.SupportURL},
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})

	policy := notification.DefaultRetryPolicy()

	go func() {
		defer close(done)
		for msg := range msgs {
			attempt := helpers.Attempt(msg)
			c, cancelSend := context.WithTimeout(ctx, 15*time.Second)
			err := notifier.Handle(c, msg.Type, msg.Body)
			cancelSend()

			fields := logrus.Fields{"message_id": msg.MessageId, "type": msg.Type, "attempt": attempt}
			action, delay := policy.Decide(err, attempt)
			switch action {
			case notification.Ack:
				metrics.EmailsProcessed.WithLabelValues("handled").Inc()
				_ = msg.Ack(false)
			case notification.Retry:
				metrics.EmailsProcessed.WithLabelValues("retried").Inc()
				fields["retry_in"] = delay.String()
				helpers.LogWarn(logger, "send failed, retrying", err, fields)
				// holding the delivery slows consumption while the mail provider is down
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					_ = msg.Nack(false, true)
					return
				}
				if err := consumer.Republish(ctx, msg, attempt+1); err != nil {
					helpers.LogError(logger, "republish failed, requeueing", err, fields)
					_ = msg.Nack(false, true)
				}
			default:
				metrics.EmailsProcessed.WithLabelValues("dropped").Inc()
				helpers.LogError(logger, "dropping message", err, fields)
				_ = msg.Nack(false, false)
			}
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEventsQueue).Info("email worker listening")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
		logger.Info("shutting down")
	case <-done:
		logger.Warn("delivery channel closed")
		return
	}
	cancel()
	consumer.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
