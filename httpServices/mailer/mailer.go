package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"os"

	"esport-accounts/logger"
)

// Mailer delivers verification codes over SMTP.
type Mailer struct {
	host string
	port string
	user string
	pass string
	from string
}

// NewFromEnv reads the SMTP_* variables once at startup.
func NewFromEnv() *Mailer {
	return &Mailer{
		host: os.Getenv("SMTP_HOST"),
		port: os.Getenv("SMTP_PORT"),
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
		from: os.Getenv("SMTP_FROM"),
	}
}

// SendOTP emails a verification code. The smtp dial cannot be cancelled
// mid-flight, so the send runs in a goroutine and the caller's context
// bounds how long we wait for it.
func (m *Mailer) SendOTP(ctx context.Context, to, code string) error {
	subject := "Your verification code"
	body := fmt.Sprintf("Your one-time verification code is %s. It expires in 5 minutes.", code)

	done := make(chan error, 1)
	go func() {
		done <- m.send(to, subject, body)
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("Failed to send OTP email to "+to, err)
		}
		return err
	case <-ctx.Done():
		logger.Error("OTP email to "+to+" timed out", ctx.Err())
		return ctx.Err()
	}
}

func (m *Mailer) send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	msg := []byte(
		"From: " + m.from + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body + "\r\n")

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	return smtp.SendMail(addr, auth, m.from, []string{to}, msg)
}
