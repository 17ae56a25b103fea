package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dtroode/blog-server/internal/config"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/mail"
)

// NewMailerCmd creates the mailer subcommand.
func NewMailerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mailer",
		Short: "Deliver queued emails",
		Long: `Consume password reset emails from RabbitMQ and deliver them over SMTP.
Used together with MAIL_TRANSPORT=queue on the serve process.`,
		RunE: runMailer,
	}
}

func runMailer(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	lg := logger.New(cfg.LogLevel, cfg.LogFormat)

	conn, ch, err := mail.Dial(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	sender := mail.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	consumer, err := mail.NewConsumer(ch, cfg.RabbitMQ.Queue, sender, lg)
	if err != nil {
		return fmt.Errorf("failed to create mail consumer: %w", err)
	}

	lg.Info("mailer started", "queue", cfg.RabbitMQ.Queue)
	if err := consumer.Run(ctx); err != nil {
		return fmt.Errorf("mail consumer stopped: %w", err)
	}

	lg.Info("mailer stopped")
	return nil
}
