package mail

import (
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/spec-kit/complaint-service/internal/config"
)

// Mailer sends plain-text notification emails over SMTP. Delivery is best
// effort: failures are logged and dropped, never retried.
type Mailer struct {
	cfg    config.MailConfig
	dialer *gomail.Dialer
	logger *zap.Logger
}

// NewMailer builds a mailer. When no SMTP host is configured the mailer is
// disabled and Send becomes a logged no-op.
func NewMailer(cfg config.MailConfig, logger *zap.Logger) *Mailer {
	m := &Mailer{cfg: cfg, logger: logger}
	if cfg.Host != "" {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return m
}

// Enabled reports whether SMTP delivery is configured.
func (m *Mailer) Enabled() bool {
	return m != nil && m.dialer != nil
}

// Send delivers one message synchronously. Callers on the request path
// should invoke it from a goroutine.
func (m *Mailer) Send(to, subject, body string) {
	if !m.Enabled() {
		m.logger.Debug("mail disabled; dropping message", zap.String("to", to), zap.String("subject", subject))
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("failed to send email", zap.String("to", to), zap.Error(err))
		return
	}
	m.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
}
