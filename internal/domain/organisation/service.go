package organisation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"swiftremind/internal/pkg/apperrors"
	"swiftremind/internal/pkg/authz"
)

const organisationNotFound = "Organisation not found by repository"

type NewOrganisationInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

type OrganisationService interface {
	CreateOrganisation(ctx context.Context, viewer authz.Viewer, input NewOrganisationInput) (*Organisation, error)
	GetOrganisation(ctx context.Context, viewer authz.Viewer, organisationID int64) (*Organisation, error)
	ListOrganisations(ctx context.Context, viewer authz.Viewer, query ListQuery) ([]*Organisation, int, error)
	UpdateOrganisation(ctx context.Context, viewer authz.Viewer, organisationID int64, patch *UpdatePatch) (*Organisation, error)
	DeleteOrganisation(ctx context.Context, viewer authz.Viewer, organisationID int64) (*Organisation, error)
}

var _ OrganisationService = (*organisationService)(nil)

type organisationService struct {
	repo   OrganisationRepository
	logger *slog.Logger
}

func NewOrganisationService(repo OrganisationRepository, logger *slog.Logger) OrganisationService {
	if repo == nil {
		panic("organisation repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewOrganisationService, using default stderr handler")
	}
	return &organisationService{
		repo:   repo,
		logger: logger.With(slog.String("component", "organisationService")),
	}
}

func (s *organisationService) CreateOrganisation(ctx context.Context, viewer authz.Viewer, input NewOrganisationInput) (*Organisation, error) {
	if err := s.requireSuperadmin(ctx, viewer); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		s.logger.WarnContext(ctx, "Validation failed: organisation name is empty")
		return nil, apperrors.NewValidationError("name", "cannot be empty")
	}

	org := NewOrganisation(name, strings.TrimSpace(input.Email), strings.TrimSpace(input.Phone), strings.TrimSpace(input.Address))

	s.logger.InfoContext(ctx, "Creating organisation", slog.String("name", name))
	if err := s.repo.Create(ctx, org); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save organisation", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save organisation: %w", err)
	}
	return org, nil
}

func (s *organisationService) GetOrganisation(ctx context.Context, viewer authz.Viewer, organisationID int64) (*Organisation, error) {
	if err := s.requireSuperadmin(ctx, viewer); err != nil {
		return nil, err
	}

	org, err := s.repo.FindByID(ctx, organisationID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, organisationNotFound, slog.Int64("organisationID", organisationID))
			return nil, apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error getting organisation", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get organisation %d: %w", organisationID, err)
	}
	return org, nil
}

func (s *organisationService) ListOrganisations(ctx context.Context, viewer authz.Viewer, query ListQuery) ([]*Organisation, int, error) {
	if err := s.requireSuperadmin(ctx, viewer); err != nil {
		return nil, 0, err
	}
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = 10
	}

	orgs, total, err := s.repo.List(ctx, ListFilter{
		Search: strings.TrimSpace(query.Search),
		Offset: (query.Page - 1) * query.Limit,
		Limit:  query.Limit,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing organisations", slog.Any("error", err))
		return nil, 0, fmt.Errorf("failed to list organisations: %w", err)
	}
	return orgs, total, nil
}

func (s *organisationService) UpdateOrganisation(ctx context.Context, viewer authz.Viewer, organisationID int64, patch *UpdatePatch) (*Organisation, error) {
	if err := s.requireSuperadmin(ctx, viewer); err != nil {
		return nil, err
	}
	if patch == nil || patch.IsEmpty() {
		return nil, fmt.Errorf("%w: update patch cannot be empty", apperrors.ErrInvalidArgument)
	}

	s.logger.InfoContext(ctx, "Updating organisation", slog.Int64("organisationID", organisationID))
	org, err := s.repo.Update(ctx, organisationID, patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, organisationNotFound, slog.Int64("organisationID", organisationID))
			return nil, apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository failed to update organisation", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update organisation %d: %w", organisationID, err)
	}
	return org, nil
}

func (s *organisationService) DeleteOrganisation(ctx context.Context, viewer authz.Viewer, organisationID int64) (*Organisation, error) {
	if err := s.requireSuperadmin(ctx, viewer); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Soft deleting organisation", slog.Int64("organisationID", organisationID))
	org, err := s.repo.SetDeleted(ctx, organisationID, true)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, organisationNotFound, slog.Int64("organisationID", organisationID))
			return nil, apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository failed to soft delete organisation", slog.Any("error", err))
		return nil, fmt.Errorf("failed to delete organisation %d: %w", organisationID, err)
	}
	return org, nil
}

func (s *organisationService) requireSuperadmin(ctx context.Context, viewer authz.Viewer) error {
	if !authz.CanManageOrganisations(viewer.Role) {
		s.logger.WarnContext(ctx, "Organisation management denied", slog.String("role", string(viewer.Role)), slog.Int64("userID", viewer.UserID))
		return apperrors.ErrForbidden
	}
	return nil
}
