package service

import (
	"context"
	"fmt"
	"log/slog"

	"carpso-backend/internal/domain"
	"carpso-backend/internal/logger"
	"carpso-backend/internal/repository"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"google.golang.org/api/option"
)

// EmailSender sends a single email. Satisfied by the SendGrid client;
// tests substitute a fake.
type EmailSender interface {
	Send(ctx context.Context, toEmail, toName, subject, plainText, htmlContent string) error
}

// PushSender delivers one push notification to a device token.
type PushSender interface {
	Send(ctx context.Context, deviceToken string, n domain.Notification) error
}

type sendGridSender struct {
	apiKey   string
	from     string
	fromName string
}

func NewSendGridSender(apiKey, from, fromName string) EmailSender {
	return &sendGridSender{
		apiKey:   apiKey,
		from:     from,
		fromName: fromName,
	}
}

func (s *sendGridSender) Send(ctx context.Context, toEmail, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.from)
	recipient := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	logger.ExternalServiceCall("sendgrid", "send", "to", toEmail, "subject", subject)
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "send", err)
	return err
}

type fcmSender struct {
	client *messaging.Client
}

// NewFCMSender builds a push sender backed by Firebase Cloud Messaging.
func NewFCMSender(ctx context.Context, credentialsFile string) (PushSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize fcm client: %w", err)
	}
	return &fcmSender{client: client}, nil
}

func (s *fcmSender) Send(ctx context.Context, deviceToken string, n domain.Notification) error {
	logger.ExternalServiceCall("fcm", "send", "user_id", n.UserID, "title", n.Title)
	_, err := s.client.Send(ctx, &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Message,
		},
		Data: n.Attributes,
	})
	logger.ExternalServiceResult("fcm", "send", err)
	return err
}

// notificationService fans a notification out over email and push. Either
// channel may be nil; a user without a device token only gets email. A
// failure on one channel does not stop the other.
type notificationService struct {
	userRepo repository.UserRepository
	email    EmailSender
	push     PushSender
	log      *slog.Logger
}

func NewNotificationService(userRepo repository.UserRepository, email EmailSender, push PushSender) NotificationService {
	return &notificationService{
		userRepo: userRepo,
		email:    email,
		push:     push,
		log:      logger.WithService("notifications"),
	}
}

func (s *notificationService) NotifySpotAvailable(ctx context.Context, userID, spotID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("looking up user %s for spot notification: %w", userID, err)
	}

	n := domain.Notification{
		UserID:  userID,
		Title:   "Your spot is available",
		Message: fmt.Sprintf("Spot %s is now free. You have a short hold window to claim it.", spotID),
		Attributes: map[string]string{
			"type":    "SPOT_AVAILABLE",
			"spot_id": spotID,
		},
	}
	return s.deliver(ctx, user, n)
}

func (s *notificationService) SendPassExpiryReminder(ctx context.Context, user *domain.User, pass domain.ActivePass) error {
	n := domain.Notification{
		UserID: user.ID,
		Title:  "Your parking pass expires soon",
		Message: fmt.Sprintf("Your %s pass (%s) expires on %s.",
			pass.Rule.PassType, pass.Rule.Description,
			pass.Pass.ExpiryDate.Format("Jan 2 15:04")),
		Attributes: map[string]string{
			"type":    "PASS_EXPIRY",
			"pass_id": pass.Pass.PassID,
		},
	}
	return s.deliver(ctx, user, n)
}

func (s *notificationService) deliver(ctx context.Context, user *domain.User, n domain.Notification) error {
	var emailErr, pushErr error

	if s.email != nil && user.Email != "" {
		body := fmt.Sprintf("<p>%s</p>", n.Message)
		emailErr = s.email.Send(ctx, user.Email, user.Name, n.Title, n.Message, body)
		if emailErr != nil {
			s.log.ErrorContext(ctx, "email delivery failed", "user_id", user.ID, "error", emailErr)
		}
	}
	if s.push != nil && user.DeviceToken != "" {
		pushErr = s.push.Send(ctx, user.DeviceToken, n)
		if pushErr != nil {
			s.log.ErrorContext(ctx, "push delivery failed", "user_id", user.ID, "error", pushErr)
		}
	}

	if emailErr != nil && pushErr != nil {
		return fmt.Errorf("all notification channels failed: %w", emailErr)
	}
	return nil
}
