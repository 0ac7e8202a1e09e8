package services

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/example/littletreasures/internal/config"
	"github.com/example/littletreasures/internal/models"
)

// Mailer delivers transactional email. Handlers depend on the interface so
// tests can drop in a stub instead of a live SMTP connection.
type Mailer interface {
	SendOTP(email, code, purpose string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg *config.Config
}

// NewSMTPMailer constructs an SMTPMailer from application config.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

var otpSubjects = map[string]string{
	models.OTPPurposeRegistration:  "Verify Your Email - Little Treasures",
	models.OTPPurposeLogin:         "Your Login OTP - Little Treasures",
	models.OTPPurposePasswordReset: "Password Reset OTP - Little Treasures",
}

// SendOTP delivers a one-time code for the given purpose.
func (m *SMTPMailer) SendOTP(email, code, purpose string) error {
	subject, ok := otpSubjects[purpose]
	if !ok {
		subject = "Your OTP - Little Treasures"
	}

	body := fmt.Sprintf(
		"Your one-time password for %s is: %s\r\n\r\n"+
			"This code expires in 10 minutes.\r\n"+
			"If you didn't request this, please ignore this email.\r\n\r\n"+
			"Thanks,\r\nLittle Treasures Team",
		strings.ReplaceAll(purpose, "_", " "), code,
	)

	return m.send(email, subject, body)
}

func (m *SMTPMailer) send(toEmail, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)

	// Headers are CRLF-separated per RFC 822; the blank entry separates
	// headers from the body.
	headers := []string{
		fmt.Sprintf("From: %s", m.cfg.MailFrom),
		fmt.Sprintf("To: %s", toEmail),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}

	message := strings.Join(headers, "\r\n")

	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)

	return smtp.SendMail(addr, auth, m.cfg.MailFrom, []string{toEmail}, []byte(message))
}
