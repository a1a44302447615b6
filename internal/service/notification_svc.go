package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidora/vidora-go/internal/repository"
)

type NotificationService struct {
	notifications *repository.NotificationRepo
}

func NewNotificationService(notifications *repository.NotificationRepo) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) List(ctx context.Context, recipientID uuid.UUID, isRead *bool, params repository.PageParams) (*repository.ListResult, error) {
	return s.notifications.List(ctx, recipientID, isRead, params)
}

func (s *NotificationService) MarkRead(ctx context.Context, recipientID, id uuid.UUID) error {
	return s.notifications.MarkRead(ctx, recipientID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.notifications.MarkAllRead(ctx, recipientID)
}

func (s *NotificationService) Delete(ctx context.Context, recipientID, id uuid.UUID) error {
	return s.notifications.Delete(ctx, recipientID, id)
}
