package mailer

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"zhilfond/server/internal/apperrors"
	"zhilfond/server/internal/notify"
)

// Mailer delivers queued notifications over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	logger *logrus.Logger
}

func NewMailer(host string, port int, email, password string, logger *logrus.Logger) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, email, password),
		from:   email,
		logger: logger,
	}
}

// Send delivers one notification. Transport failures surface as a
// generic upstream error; the caller only logs them.
func (m *Mailer) Send(n *notify.Notification) error {
	if len(n.To) == 0 {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", n.To...)
	msg.SetHeader("Subject", n.Subject)
	msg.SetBody("text/plain", n.Body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.WithError(err).WithField("subject", n.Subject).Error("Failed to send mail")
		return fmt.Errorf("mail send: %w", apperrors.ErrUpstream)
	}
	return nil
}
