package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"carpso-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmailSender struct {
	sent []string // subjects
	err  error
}

func (f *fakeEmailSender) Send(ctx context.Context, toEmail, toName, subject, plainText, htmlContent string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, subject)
	return nil
}

type fakePushSender struct {
	sent []domain.Notification
	err  error
}

func (f *fakePushSender) Send(ctx context.Context, deviceToken string, n domain.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

func TestNotificationService_NotifySpotAvailable(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepo)
	email := &fakeEmailSender{}
	push := &fakePushSender{}
	svc := NewNotificationService(userRepo, email, push)

	userRepo.On("GetByID", ctx, "user_1").Return(&domain.User{
		ID: "user_1", Name: "Ana", Email: "ana@test.com", DeviceToken: "tok_1",
	}, nil)

	err := svc.NotifySpotAvailable(ctx, "user_1", "spot_1")
	require.NoError(t, err)
	assert.Len(t, email.sent, 1)
	require.Len(t, push.sent, 1)
	assert.Equal(t, "SPOT_AVAILABLE", push.sent[0].Attributes["type"])
	assert.Equal(t, "spot_1", push.sent[0].Attributes["spot_id"])
}

func TestNotificationService_NoDeviceTokenSkipsPush(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepo)
	email := &fakeEmailSender{}
	push := &fakePushSender{}
	svc := NewNotificationService(userRepo, email, push)

	userRepo.On("GetByID", ctx, "user_1").Return(&domain.User{
		ID: "user_1", Email: "ana@test.com",
	}, nil)

	require.NoError(t, svc.NotifySpotAvailable(ctx, "user_1", "spot_1"))
	assert.Len(t, email.sent, 1)
	assert.Empty(t, push.sent)
}

func TestNotificationService_OneChannelFailureIsTolerated(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepo)
	email := &fakeEmailSender{err: errors.New("sendgrid down")}
	push := &fakePushSender{}
	svc := NewNotificationService(userRepo, email, push)

	userRepo.On("GetByID", ctx, "user_1").Return(&domain.User{
		ID: "user_1", Email: "ana@test.com", DeviceToken: "tok_1",
	}, nil)

	assert.NoError(t, svc.NotifySpotAvailable(ctx, "user_1", "spot_1"))
	assert.Len(t, push.sent, 1)
}

func TestNotificationService_AllChannelsFailing(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepo)
	email := &fakeEmailSender{err: errors.New("sendgrid down")}
	push := &fakePushSender{err: errors.New("fcm down")}
	svc := NewNotificationService(userRepo, email, push)

	userRepo.On("GetByID", ctx, "user_1").Return(&domain.User{
		ID: "user_1", Email: "ana@test.com", DeviceToken: "tok_1",
	}, nil)

	assert.Error(t, svc.NotifySpotAvailable(ctx, "user_1", "spot_1"))
}

func TestNotificationService_SendPassExpiryReminder(t *testing.T) {
	ctx := context.Background()
	email := &fakeEmailSender{}
	svc := NewNotificationService(new(MockUserRepo), email, nil)

	user := &domain.User{ID: "user_1", Name: "Ana", Email: "ana@test.com"}
	pass := domain.ActivePass{
		Pass: domain.UserPass{PassID: "pass_1", ExpiryDate: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)},
		Rule: domain.PricingRule{Description: "Monthly Pass", PassType: domain.PassTypeMonthly},
	}

	require.NoError(t, svc.SendPassExpiryReminder(ctx, user, pass))
	require.Len(t, email.sent, 1)
	assert.Equal(t, "Your parking pass expires soon", email.sent[0])
}
