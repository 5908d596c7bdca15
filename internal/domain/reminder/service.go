package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"swiftremind/internal/pkg/apperrors"
	"swiftremind/internal/pkg/authz"
)

const reminderNotFound = "Reminder not found by repository"

type NewReminderInput struct {
	CustomerID int64
	Amount     decimal.Decimal
	DueDate    time.Time
	Notes      string
}

type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

type ReminderService interface {
	CreateReminder(ctx context.Context, viewer authz.Viewer, input NewReminderInput) (*Reminder, error)
	GetReminder(ctx context.Context, viewer authz.Viewer, reminderID int64) (*Reminder, error)
	ListReminders(ctx context.Context, viewer authz.Viewer, query ListQuery) ([]*Reminder, int, error)
	UpdateReminder(ctx context.Context, viewer authz.Viewer, reminderID int64, patch *UpdatePatch) (*Reminder, error)
	DeleteReminder(ctx context.Context, viewer authz.Viewer, reminderID int64) error
}

var _ ReminderService = (*reminderService)(nil)

type reminderService struct {
	repo   ReminderRepository
	logger *slog.Logger
}

func NewReminderService(repo ReminderRepository, logger *slog.Logger) ReminderService {
	if repo == nil {
		panic("reminder repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewReminderService, using default stderr handler")
	}
	return &reminderService{
		repo:   repo,
		logger: logger.With(slog.String("component", "reminderService")),
	}
}

func (s *reminderService) CreateReminder(ctx context.Context, viewer authz.Viewer, input NewReminderInput) (*Reminder, error) {
	s.logger.InfoContext(ctx, "Attempting to create reminder", slog.Int64("customerID", input.CustomerID))

	if input.CustomerID == 0 {
		return nil, apperrors.NewValidationError("customerId", "is required")
	}
	if !input.Amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount", "must be positive")
	}
	if input.DueDate.IsZero() {
		return nil, apperrors.NewValidationError("dueDate", "is required")
	}
	if viewer.OrganisationID == 0 {
		s.logger.WarnContext(ctx, "Create rejected: viewer has no organisation")
		return nil, apperrors.ErrUnauthorized
	}

	rem := NewReminder(viewer.OrganisationID, input.CustomerID, input.Amount, input.DueDate, strings.TrimSpace(input.Notes))
	if err := s.repo.Create(ctx, rem); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save reminder", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save reminder: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully saved reminder", slog.Int64("reminderID", rem.ReminderID))
	return rem, nil
}

func (s *reminderService) GetReminder(ctx context.Context, viewer authz.Viewer, reminderID int64) (*Reminder, error) {
	rem, err := s.repo.FindByID(ctx, reminderID, s.viewerScope(viewer))
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, reminderNotFound, slog.Int64("reminderID", reminderID))
			return nil, apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error getting reminder", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get reminder %d: %w", reminderID, err)
	}
	return rem, nil
}

func (s *reminderService) ListReminders(ctx context.Context, viewer authz.Viewer, query ListQuery) ([]*Reminder, int, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = 10
	}

	reminders, total, err := s.repo.List(ctx, ListFilter{
		Scope:  s.viewerScope(viewer),
		Search: strings.TrimSpace(query.Search),
		Offset: (query.Page - 1) * query.Limit,
		Limit:  query.Limit,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing reminders", slog.Any("error", err))
		return nil, 0, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, total, nil
}

func (s *reminderService) UpdateReminder(ctx context.Context, viewer authz.Viewer, reminderID int64, patch *UpdatePatch) (*Reminder, error) {
	if patch == nil || patch.IsEmpty() {
		return nil, fmt.Errorf("%w: update patch cannot be empty", apperrors.ErrInvalidArgument)
	}
	if patch.Amount != nil && !patch.Amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount", "must be positive")
	}
	if patch.Status != nil && !ValidStatus(*patch.Status) {
		return nil, apperrors.NewValidationError("status", "must be pending, paid or cancelled")
	}

	s.logger.InfoContext(ctx, "Attempting to update reminder", slog.Int64("reminderID", reminderID))
	rem, err := s.repo.Update(ctx, reminderID, s.viewerScope(viewer), patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, reminderNotFound, slog.Int64("reminderID", reminderID))
			return nil, apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository failed to update reminder", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update reminder %d: %w", reminderID, err)
	}
	return rem, nil
}

func (s *reminderService) DeleteReminder(ctx context.Context, viewer authz.Viewer, reminderID int64) error {
	s.logger.InfoContext(ctx, "Attempting to hard delete reminder", slog.Int64("reminderID", reminderID))

	err := s.repo.Delete(ctx, reminderID, s.viewerScope(viewer))
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, reminderNotFound, slog.Int64("reminderID", reminderID))
			return apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository failed to delete reminder", slog.Any("error", err))
		return fmt.Errorf("failed to delete reminder %d: %w", reminderID, err)
	}

	s.logger.InfoContext(ctx, "Successfully deleted reminder", slog.Int64("reminderID", reminderID))
	return nil
}

func (s *reminderService) viewerScope(viewer authz.Viewer) Scope {
	return Scope{OrganisationID: viewer.TenantScope()}
}
