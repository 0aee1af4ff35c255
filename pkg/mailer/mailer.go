package mailer

import (
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/backoffice/pkg/config"
)

// Sender delivers a message to a single recipient. Delivery is best-effort:
// callers must not roll back already-persisted state when Send fails.
type Sender interface {
	Send(to string, subject string, body string) error
}

type smtpSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPSender(mc config.Mail) Sender {
	return &smtpSender{
		host:     mc.Host,
		port:     mc.Port,
		username: mc.User,
		password: mc.Pass,
		from:     mc.From,
	}
}

func (e *smtpSender) Send(to string, subject string, body string) error {
	from := e.from
	if from == "" {
		from = e.username
	}
	msg := []byte(
		fmt.Sprintf("From: %s\r\n", from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	serverAddr := e.host + ":" + e.port

	// Implicit TLS for port 465
	tlsConfig := &tls.Config{
		ServerName: e.host,
	}

	conn, err := tls.Dial("tcp", serverAddr, tlsConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, e.host)
	if err != nil {
		return err
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", e.username, e.password, e.host)
	if err := client.Auth(auth); err != nil {
		return err
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return nil
}
