package notification

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"swiftremind/internal/pkg/authz"
)

type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

type NotificationService interface {
	ListNotifications(ctx context.Context, viewer authz.Viewer, query ListQuery) ([]*Notification, int, error)
}

var _ NotificationService = (*notificationService)(nil)

type notificationService struct {
	repo   NotificationRepository
	logger *slog.Logger
}

func NewNotificationService(repo NotificationRepository, logger *slog.Logger) NotificationService {
	if repo == nil {
		panic("notification repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewNotificationService, using default stderr handler")
	}
	return &notificationService{
		repo:   repo,
		logger: logger.With(slog.String("component", "notificationService")),
	}
}

func (s *notificationService) ListNotifications(ctx context.Context, viewer authz.Viewer, query ListQuery) ([]*Notification, int, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = 10
	}

	s.logger.DebugContext(ctx, "Listing notifications", slog.Int("page", query.Page), slog.Int("limit", query.Limit))
	notifications, total, err := s.repo.List(ctx, ListFilter{
		Scope:  Scope{OrganisationID: viewer.TenantScope()},
		Search: strings.TrimSpace(query.Search),
		Offset: (query.Page - 1) * query.Limit,
		Limit:  query.Limit,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing notifications", slog.Any("error", err))
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}
