package services

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"societyhub/internal/models"
)

// NotificationService delivers transactional email. Delivery failures are
// reported to the caller, which logs and continues; account and billing
// operations never fail because a mail could not be sent.
type NotificationService interface {
	SendEmail(ctx context.Context, recipient, subject, body string) error
	SendCredentialsEmail(ctx context.Context, user *models.User, plainPassword string) error
}

type smtpNotificationService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPNotificationService creates a notification service backed by an
// SMTP relay. With an empty host, emails are logged instead of sent.
func NewSMTPNotificationService(host string, port int, username, password, from string) NotificationService {
	return &smtpNotificationService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *smtpNotificationService) SendEmail(ctx context.Context, recipient, subject, body string) error {
	if s.host == "" {
		log.Printf("[EMAIL] To=%s, Subject=%s (SMTP not configured, delivery skipped)", recipient, subject)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + recipient,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	if err := smtp.SendMail(addr, auth, s.from, []string{recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", recipient, err)
	}

	log.Printf("Email sent to %s", recipient)
	return nil
}

// SendCredentialsEmail mails a newly created account its login credentials.
func (s *smtpNotificationService) SendCredentialsEmail(ctx context.Context, user *models.User, plainPassword string) error {
	var roleDisplay, senderTitle string
	switch user.Role {
	case models.RoleOwner:
		roleDisplay = "Society Owner"
		senderTitle = "Society Administrator"
	case models.RoleTenant:
		roleDisplay = "Tenant"
		senderTitle = "Flat Owner"
	default:
		roleDisplay = "User"
		senderTitle = "Administrator"
	}

	subject := fmt.Sprintf("Welcome to Society Management - Your %s Account", roleDisplay)
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Your account has been successfully created by the %s.\n\n"+
			"Here are your login credentials:\n"+
			"--------------------------------\n"+
			"Email: %s\n"+
			"Password: %s\n"+
			"--------------------------------\n\n"+
			"Best regards,\n"+
			"Society Management Team",
		user.FullName(), senderTitle, user.Email, plainPassword,
	)

	return s.SendEmail(ctx, user.Email, subject, body)
}
