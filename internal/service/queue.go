package service

import (
	"context"
	"fmt"

	"carpso-backend/internal/domain"
	"carpso-backend/internal/logger"
	"carpso-backend/internal/queue"
)

type queueService struct {
	manager  *queue.Manager
	notifier NotificationService
}

func NewQueueService(manager *queue.Manager, notifier NotificationService) QueueService {
	return &queueService{
		manager:  manager,
		notifier: notifier,
	}
}

func (s *queueService) JoinQueue(ctx context.Context, userID, spotID string) (int, error) {
	if userID == "" || spotID == "" {
		return 0, fmt.Errorf("%w: user id and spot id are required", ErrInvalidInput)
	}
	position, joined := s.manager.Join(userID, spotID)
	if !joined {
		return 0, ErrAlreadyQueued
	}
	logger.InfoContext(ctx, "user joined queue", "user_id", userID, "spot_id", spotID, "position", position)
	return position, nil
}

func (s *queueService) LeaveQueue(ctx context.Context, userID, spotID string) (bool, error) {
	if userID == "" || spotID == "" {
		return false, fmt.Errorf("%w: user id and spot id are required", ErrInvalidInput)
	}
	removed := s.manager.Leave(userID, spotID)
	if removed {
		logger.InfoContext(ctx, "user left queue", "user_id", userID, "spot_id", spotID)
	}
	return removed, nil
}

// NotifyNextInQueue peeks the head waiter and, on the first call for that
// head, sends the spot-available notification. Repeat calls return the
// entry again without re-notifying. Notification failures are logged and
// never undo the notified mark.
func (s *queueService) NotifyNextInQueue(ctx context.Context, spotID string) (*domain.QueueEntry, error) {
	if spotID == "" {
		return nil, fmt.Errorf("%w: spot id is required", ErrInvalidInput)
	}
	entry, firstNotify := s.manager.NotifyNext(spotID)
	if entry == nil {
		return nil, nil
	}
	if firstNotify && s.notifier != nil {
		if err := s.notifier.NotifySpotAvailable(ctx, entry.UserID, spotID); err != nil {
			logger.ErrorContext(ctx, "spot-available notification failed",
				"user_id", entry.UserID, "spot_id", spotID, "error", err)
		}
	}
	return entry, nil
}

func (s *queueService) RemoveFirstFromQueue(ctx context.Context, spotID string) (*domain.QueueEntry, error) {
	if spotID == "" {
		return nil, fmt.Errorf("%w: spot id is required", ErrInvalidInput)
	}
	entry := s.manager.PopFront(spotID)
	if entry != nil {
		logger.InfoContext(ctx, "queue head removed", "user_id", entry.UserID, "spot_id", spotID)
	}
	return entry, nil
}

func (s *queueService) GetQueueLength(ctx context.Context, spotID string) int {
	return s.manager.Length(spotID)
}

func (s *queueService) GetUserQueueStatus(ctx context.Context, userID string) []domain.QueuePosition {
	return s.manager.UserStatus(userID)
}
