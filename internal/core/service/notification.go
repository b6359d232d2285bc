package service

import (
	"context"

	"github.com/trinv/stockroom/internal/core/domain"
	"github.com/trinv/stockroom/internal/port"
)

// NotificationService is the read/acknowledge side of notifications; the
// Notifier is the write side.
type NotificationService struct {
	repo port.NotificationRepository
}

func NewNotificationService(repo port.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) List(ctx context.Context, unreadOnly bool) ([]domain.Notification, error) {
	return s.repo.List(ctx, unreadOnly)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	return s.repo.MarkAllRead(ctx)
}

func (s *NotificationService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
