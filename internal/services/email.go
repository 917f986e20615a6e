package services

import (
	"fmt"
	"net/smtp"
	"projecthub/internal/config"
)

type EmailService struct {
	auth smtp.Auth
	from string
	host string
	port string
}

func NewEmailService(cfg *config.Config) *EmailService {
	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	return &EmailService{
		auth: auth,
		from: cfg.SMTPUser,
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
	}
}

func (s *EmailService) Send(to []string, subject, body string) error {
	msg := []byte("Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		body)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, s.auth, s.from, to, msg)
}

// SendPasswordReset отправляет HTML-письмо со ссылкой на сброс пароля.
func (s *EmailService) SendPasswordReset(to, resetLink string) error {
	msg := []byte("Subject: Reset Password Request\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"utf-8\"\r\n\r\n" +
		resetMailBody(resetLink))

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, s.auth, s.from, []string{to}, msg)
}

func resetMailBody(resetLink string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<body style="font-family: Arial; background: #f4f4f4; margin: 0; padding: 0;">
  <div style="max-width: 600px; margin: 40px auto; background: #fff; padding: 30px; border-radius: 8px;">
    <h2>Password Reset Request</h2>
    <p>Hello,</p>
    <p>We received a request to reset your password. Click the button below:</p>
    <a href="%[1]s" style="background: #4a90e2; color: white; padding: 12px 20px; text-decoration: none; border-radius: 5px; display: inline-block; margin-top: 20px;">Reset Your Password</a>
    <p>If the link doesn't work, copy and paste this into your browser: <br><a href="%[1]s">%[1]s</a></p>
    <p>If you did not request a password reset, please ignore this email.</p>
    <p>This link will expire in 1 hour.</p>
  </div>
</body>
</html>`, resetLink)
}
