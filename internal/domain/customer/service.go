package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"swiftremind/internal/domain/audit"
	"swiftremind/internal/event"
	"swiftremind/internal/pkg/apperrors"
	"swiftremind/internal/pkg/authz"
)

const customerNotFound = "Customer not found by repository"

// NewCustomerInput carries the fields accepted on create.
type NewCustomerInput struct {
	Name  string
	Phone string
	Email string
}

// ListQuery is the paging/search surface of the list endpoint.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, viewer authz.Viewer, input NewCustomerInput) (*Customer, error)
	GetCustomer(ctx context.Context, viewer authz.Viewer, customerID int64) (*Customer, error)
	ListCustomers(ctx context.Context, viewer authz.Viewer, query ListQuery) ([]*Customer, int, error)
	UpdateCustomer(ctx context.Context, viewer authz.Viewer, customerID int64, patch *UpdatePatch) (*Customer, error)
	RestoreCustomer(ctx context.Context, viewer authz.Viewer, customerID int64) (*Customer, error)
	DeleteCustomer(ctx context.Context, viewer authz.Viewer, customerID int64) (*Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo    CustomerRepository
	auditor audit.Repository
	pub     event.Publisher
	logger  *slog.Logger
	now     func() time.Time
}

func NewCustomerService(repo CustomerRepository, auditor audit.Repository, pub event.Publisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if auditor == nil {
		panic("audit repository cannot be nil")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	return &customerService{
		repo:    repo,
		auditor: auditor,
		pub:     pub,
		logger:  logger.With(slog.String("component", "customerService")),
		now:     time.Now,
	}
}

func NewCustomerEventPayload(cust *Customer) event.CustomerEventPayload {
	if cust == nil {
		return event.CustomerEventPayload{}
	}
	return event.CustomerEventPayload{
		CustomerID:     cust.CustomerID,
		OrganisationID: cust.OrganisationID,
		Name:           cust.Name,
		Phone:          cust.Phone,
		PendingAmount:  cust.PendingAmount.String(),
		PaymentStatus:  string(cust.PaymentStatus),
		Deleted:        cust.Deleted,
		UpdatedAt:      cust.UpdatedAt,
	}
}

func (s *customerService) publishCustomerEvent(ctx context.Context, cust *Customer, publish func(context.Context, event.CustomerEvent) error) {
	if cust == nil {
		s.logger.ErrorContext(ctx, "Attempted to publish event for nil customer")
		return
	}
	evt := event.CustomerEvent{
		Timestamp: s.now(),
		Payload:   NewCustomerEventPayload(cust),
	}
	if err := publish(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish customer event", slog.Int64("customerID", cust.CustomerID), slog.Any("error", err))
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, viewer authz.Viewer, input NewCustomerInput) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to create new customer", slog.Int64("organisationID", viewer.OrganisationID))

	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" {
		s.logger.WarnContext(ctx, "Validation failed: name is empty")
		return nil, apperrors.NewValidationError("name", "cannot be empty")
	}
	if phone == "" {
		s.logger.WarnContext(ctx, "Validation failed: phone is empty", slog.String("name", name))
		return nil, apperrors.NewValidationError("phone", "cannot be empty")
	}
	if viewer.OrganisationID == 0 {
		s.logger.WarnContext(ctx, "Create rejected: viewer has no organisation")
		return nil, apperrors.ErrUnauthorized
	}

	// Check-then-write; there is no unique index backing this, so two
	// concurrent creates with the same phone can both pass.
	if err := s.checkPhoneConflict(ctx, viewer.OrganisationID, phone, 0); err != nil {
		return nil, err
	}

	cust := NewCustomer(viewer.OrganisationID, name, phone, strings.TrimSpace(input.Email))

	s.logger.DebugContext(ctx, "Calling repository Create")
	if err := s.repo.Create(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully saved new customer, publishing creation event", slog.Int64("customerID", cust.CustomerID))
	s.publishCustomerEvent(ctx, cust, s.pub.PublishCustomerCreated)

	return cust, nil
}

func (s *customerService) GetCustomer(ctx context.Context, viewer authz.Viewer, customerID int64) (*Customer, error) {
	s.logger.DebugContext(ctx, "Attempting to get customer", slog.Int64("customerID", customerID))

	cust, err := s.repo.FindByID(ctx, customerID, s.viewerScope(viewer))
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound, slog.Int64("customerID", customerID))
			return nil, apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error getting customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}
	return cust, nil
}

func (s *customerService) ListCustomers(ctx context.Context, viewer authz.Viewer, query ListQuery) ([]*Customer, int, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = 10
	}

	filter := ListFilter{
		Scope:  s.viewerScope(viewer),
		Search: strings.TrimSpace(query.Search),
		Offset: (query.Page - 1) * query.Limit,
		Limit:  query.Limit,
	}

	s.logger.DebugContext(ctx, "Listing customers", slog.Int("page", query.Page), slog.Int("limit", query.Limit))
	customers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, total, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, viewer authz.Viewer, customerID int64, patch *UpdatePatch) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to update customer", slog.Int64("customerID", customerID))
	if patch == nil {
		return nil, fmt.Errorf("%w: update patch cannot be nil", apperrors.ErrInvalidArgument)
	}

	existing, err := s.repo.FindByID(ctx, customerID, s.viewerScope(viewer))
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound, slog.Int64("customerID", customerID))
			return nil, apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error loading customer for update", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load customer %d: %w", customerID, err)
	}

	if err := validatePatch(patch); err != nil {
		s.logger.WarnContext(ctx, "Update rejected by validation gate", slog.Any("error", err))
		return nil, err
	}

	if patch.Phone != nil {
		phone := strings.TrimSpace(*patch.Phone)
		patch.Phone = &phone
		if err := s.checkPhoneConflict(ctx, existing.OrganisationID, phone, customerID); err != nil {
			return nil, err
		}
	}

	// The derived status silently overrides whatever the caller supplied.
	if status, ok := DerivePaymentStatus(existing, patch, s.now()); ok {
		patch.PaymentStatus = &status
	}

	updated, err := s.repo.Update(ctx, customerID, s.viewerScope(viewer), patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer disappeared before update could complete")
			return nil, apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository failed to update customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update customer %d: %w", customerID, err)
	}

	s.logger.InfoContext(ctx, "Successfully updated customer, publishing update event", slog.Int64("customerID", customerID))
	s.publishCustomerEvent(ctx, updated, s.pub.PublishCustomerUpdated)

	return updated, nil
}

func (s *customerService) RestoreCustomer(ctx context.Context, viewer authz.Viewer, customerID int64) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to restore customer", slog.Int64("customerID", customerID))

	scope := s.viewerScope(viewer)
	scope.IncludeDeleted = true

	cust, err := s.repo.SetDeleted(ctx, customerID, scope, false)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound, slog.Int64("customerID", customerID))
			return nil, apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository failed to restore customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to restore customer %d: %w", customerID, err)
	}

	s.recordAudit(ctx, viewer, cust, audit.ActionRestore)
	s.publishCustomerEvent(ctx, cust, s.pub.PublishCustomerRestored)

	s.logger.InfoContext(ctx, "Successfully restored customer", slog.Int64("customerID", customerID))
	return cust, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, viewer authz.Viewer, customerID int64) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to soft delete customer", slog.Int64("customerID", customerID))

	cust, err := s.repo.SetDeleted(ctx, customerID, s.viewerScope(viewer), true)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound, slog.Int64("customerID", customerID))
			return nil, apperrors.ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository failed to soft delete customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}

	s.recordAudit(ctx, viewer, cust, audit.ActionDelete)
	s.publishCustomerEvent(ctx, cust, s.pub.PublishCustomerDeleted)

	s.logger.InfoContext(ctx, "Successfully soft deleted customer", slog.Int64("customerID", customerID))
	return cust, nil
}

func (s *customerService) viewerScope(viewer authz.Viewer) Scope {
	return Scope{
		OrganisationID: viewer.TenantScope(),
		IncludeDeleted: authz.SeesDeleted(viewer.Role),
	}
}

func (s *customerService) checkPhoneConflict(ctx context.Context, organisationID int64, phone string, excludeID int64) error {
	other, err := s.repo.FindByPhone(ctx, organisationID, phone, excludeID)
	if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.ErrorContext(ctx, "Repository error checking phone uniqueness", slog.Any("error", err))
		return fmt.Errorf("failed to check phone uniqueness: %w", err)
	}
	if other != nil {
		s.logger.WarnContext(ctx, "Phone number conflict detected", slog.String("phone", phone))
		return fmt.Errorf("%w: customer with this phone number already exists", apperrors.ErrConflict)
	}
	return nil
}

// recordAudit writes the delete/restore trail. A failed audit write is logged
// but does not fail the request, mirroring how event publishing is handled.
func (s *customerService) recordAudit(ctx context.Context, viewer authz.Viewer, cust *Customer, action string) {
	entry := &audit.Entry{
		Action:         action,
		Entity:         audit.EntityCustomer,
		EntityID:       cust.CustomerID,
		UserID:         viewer.UserID,
		UserName:       viewer.Name,
		OrganisationID: cust.OrganisationID,
		Timestamp:      s.now(),
		Details:        map[string]any{"customerName": cust.Name},
	}
	if err := s.auditor.Insert(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "Failed to write audit entry", slog.String("action", action), slog.Any("error", err))
	}
}

// validatePatch is the pre-update validation gate. The first failing rule
// aborts the whole update; nothing is partially applied.
func validatePatch(patch *UpdatePatch) error {
	if patch.PendingAmount != nil && patch.PendingAmount.IsNegative() {
		return apperrors.NewValidationError("pendingAmount", "cannot be negative")
	}
	if patch.CreditLimit != nil && patch.CreditLimit.IsNegative() {
		return apperrors.NewValidationError("creditLimit", "cannot be negative")
	}
	for _, entry := range patch.PaymentHistory {
		if entry.Date.IsZero() || entry.Amount.IsZero() || entry.Method == "" {
			return apperrors.NewValidationError("paymentHistory", "entries must have date, amount, and method")
		}
		if !entry.Amount.IsPositive() {
			return apperrors.NewValidationError("paymentHistory", "payment amount must be positive")
		}
	}
	return nil
}
