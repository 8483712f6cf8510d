package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/bluestock/ipo-api/config"
	"github.com/bluestock/ipo-api/pkg/helpers"
	"github.com/bluestock/ipo-api/pkg/mailer"
)

const prefetch = 16

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// fair dispatch between workers
	if err := ch.Qos(prefetch, 0, false); err != nil {
		logger.Fatalf("qos: %v", err)
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQEmailQueue); err != nil {
		logger.Fatalf("queue declare: %v", err)
	}

	consumer := &mailer.Consumer{
		Ch:     ch,
		Queue:  cfg.RabbitMQEmailQueue,
		Tag:    cfg.AppName + "-email-worker",
		Sender: mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender),
		Logger: logger,
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan error, 1)
	go func() { done <- consumer.Run(ctx) }()

	logger.WithFields(logrus.Fields{"queue": consumer.Queue, "consumer": consumer.Tag}).Info("email worker listening")
	select {
	case err := <-done:
		if err != nil {
			logger.Fatalf("consume: %v", err)
		}
		logger.Warn("delivery channel closed")
		return
	case <-stop:
	}
	logger.Info("shutting down...")
	if err := consumer.Stop(); err != nil {
		logger.WithError(err).Warn("cancel consumer")
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
}
