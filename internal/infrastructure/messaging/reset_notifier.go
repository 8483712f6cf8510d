package messaging

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/bluestock/ipo-api/internal/application"
	"github.com/bluestock/ipo-api/pkg/mailer"
	mailtpl "github.com/bluestock/ipo-api/pkg/mailer/templates"
)

// Publisher is satisfied by helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// EmailResetNotifier queues a forgot_password email for the email worker.
type EmailResetNotifier struct {
	Pub      Publisher
	ResetURL string
	AppName  string
}

func NewEmailResetNotifier(pub Publisher, resetURL, appName string) *EmailResetNotifier {
	return &EmailResetNotifier{Pub: pub, ResetURL: resetURL, AppName: appName}
}

func (n *EmailResetNotifier) NotifyPasswordReset(ctx context.Context, notice application.ResetNotice) error {
	link, err := ResetLink(n.ResetURL, notice.Token)
	if err != nil {
		return err
	}
	job := mailer.EmailJob{
		To:       notice.Email,
		Template: mailtpl.ForgotPassword,
		Data: mailtpl.NewForgotPasswordData(n.AppName, notice.Name, notice.Email,
			mailtpl.WithResetURL(link),
			mailtpl.WithExpiresAt(notice.ExpiresAt),
		),
	}
	if err := n.Pub.PublishJSON(ctx, job); err != nil {
		return fmt.Errorf("publish reset email: %w", err)
	}
	return nil
}

// ResetLink appends token as a query parameter, keeping any existing query.
func ResetLink(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse reset url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// LogResetNotifier is used when mail sending is disabled. The token is never logged.
type LogResetNotifier struct {
	Logger logrus.FieldLogger
}

func (n LogResetNotifier) NotifyPasswordReset(_ context.Context, notice application.ResetNotice) error {
	n.Logger.WithFields(logrus.Fields{
		"user_id":    notice.UserID,
		"expires_at": notice.ExpiresAt,
	}).Info("password reset requested, email delivery disabled")
	return nil
}
