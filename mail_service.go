package main

import (
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// mailer sends plain-text notifications to the couple.
type mailer struct {
	addr       string
	from       string
	username   string
	password   string
	recipients []string

	send func(addr string, a sasl.Client, from string, to []string, r io.Reader) error
}

func newMailer() *mailer {
	return &mailer{
		addr:       net.JoinHostPort(viper.GetString("smtp.host"), viper.GetString("smtp.port")),
		from:       viper.GetString("smtp.from_email"),
		username:   viper.GetString("smtp.username"),
		password:   viper.GetString("smtp.password"),
		recipients: viper.GetStringSlice("smtp.notify"),
		send:       smtp.SendMail,
	}
}

func (m *mailer) compose(to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return b.String()
}

// Send mails every recipient separately so one bad address does not block
// the rest. It returns the last delivery error.
func (m *mailer) Send(subject, body string) error {
	auth := sasl.NewPlainClient("", m.username, m.password)

	var err error
	for _, to := range m.recipients {
		msg := m.compose(to, subject, body)
		if sendErr := m.send(m.addr, auth, m.from, []string{to}, strings.NewReader(msg)); sendErr != nil {
			logger.Warn("failed to send email", zap.String("to", to), zap.Error(sendErr))
			err = sendErr
		}
	}
	return err
}
