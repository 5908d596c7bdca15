package reminder_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"swiftremind/internal/domain/reminder"
	"swiftremind/internal/pkg/apperrors"
	"swiftremind/internal/pkg/authz"
)

type MockReminderRepository struct {
	mock.Mock
}

var _ reminder.ReminderRepository = (*MockReminderRepository)(nil)

func (m *MockReminderRepository) Create(ctx context.Context, rem *reminder.Reminder) error {
	return m.Called(ctx, rem).Error(0)
}

func (m *MockReminderRepository) FindByID(ctx context.Context, reminderID int64, scope reminder.Scope) (*reminder.Reminder, error) {
	ret := m.Called(ctx, reminderID, scope)
	rem, _ := ret.Get(0).(*reminder.Reminder)
	return rem, ret.Error(1)
}

func (m *MockReminderRepository) List(ctx context.Context, filter reminder.ListFilter) ([]*reminder.Reminder, int, error) {
	ret := m.Called(ctx, filter)
	rems, _ := ret.Get(0).([]*reminder.Reminder)
	return rems, ret.Int(1), ret.Error(2)
}

func (m *MockReminderRepository) Update(ctx context.Context, reminderID int64, scope reminder.Scope, patch *reminder.UpdatePatch) (*reminder.Reminder, error) {
	ret := m.Called(ctx, reminderID, scope, patch)
	rem, _ := ret.Get(0).(*reminder.Reminder)
	return rem, ret.Error(1)
}

func (m *MockReminderRepository) Delete(ctx context.Context, reminderID int64, scope reminder.Scope) error {
	return m.Called(ctx, reminderID, scope).Error(0)
}

func (m *MockReminderRepository) FindDueForDispatch(ctx context.Context, now time.Time) ([]*reminder.DueReminder, error) {
	ret := m.Called(ctx, now)
	due, _ := ret.Get(0).([]*reminder.DueReminder)
	return due, ret.Error(1)
}

func setupTest() (*MockReminderRepository, reminder.ReminderService) {
	mockRepo := new(MockReminderRepository)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return mockRepo, reminder.NewReminderService(mockRepo, logger)
}

func testViewer() authz.Viewer {
	return authz.Viewer{UserID: 3, Name: "Member", Role: authz.RoleUser, OrganisationID: 42}
}

func TestReminderService_CreateReminder(t *testing.T) {
	ctx := context.Background()
	due := time.Now().AddDate(0, 0, 7)

	t.Run("Success", func(t *testing.T) {
		mockRepo, service := setupTest()
		mockRepo.On("Create", ctx, mock.MatchedBy(func(r *reminder.Reminder) bool {
			return r.OrganisationID == int64(42) &&
				r.CustomerID == int64(5) &&
				r.Status == reminder.StatusPending
		})).Return(nil).Once()

		rem, err := service.CreateReminder(ctx, testViewer(), reminder.NewReminderInput{
			CustomerID: 5,
			Amount:     decimal.NewFromInt(1200),
			DueDate:    due,
		})
		assert.NoError(t, err)
		assert.Equal(t, reminder.StatusPending, rem.Status)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error - missing customer", func(t *testing.T) {
		_, service := setupTest()
		_, err := service.CreateReminder(ctx, testViewer(), reminder.NewReminderInput{Amount: decimal.NewFromInt(1), DueDate: due})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("Error - non-positive amount", func(t *testing.T) {
		_, service := setupTest()
		_, err := service.CreateReminder(ctx, testViewer(), reminder.NewReminderInput{CustomerID: 5, DueDate: due})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("Error - missing due date", func(t *testing.T) {
		_, service := setupTest()
		_, err := service.CreateReminder(ctx, testViewer(), reminder.NewReminderInput{CustomerID: 5, Amount: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestReminderService_UpdateReminder(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid status rejected", func(t *testing.T) {
		_, service := setupTest()
		bad := reminder.Status("done")
		_, err := service.UpdateReminder(ctx, testViewer(), 1, &reminder.UpdatePatch{Status: &bad})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("status transition to paid", func(t *testing.T) {
		mockRepo, service := setupTest()
		paid := reminder.StatusPaid
		org := int64(42)
		updated := &reminder.Reminder{ReminderID: 1, OrganisationID: org, Status: paid}
		mockRepo.On("Update", ctx, int64(1), reminder.Scope{OrganisationID: &org}, mock.Anything).Return(updated, nil).Once()

		rem, err := service.UpdateReminder(ctx, testViewer(), 1, &reminder.UpdatePatch{Status: &paid})
		assert.NoError(t, err)
		assert.Equal(t, reminder.StatusPaid, rem.Status)
	})

	t.Run("not found in tenant scope", func(t *testing.T) {
		mockRepo, service := setupTest()
		notes := "x"
		mockRepo.On("Update", ctx, int64(9), mock.Anything, mock.Anything).Return(nil, reminder.ErrNotFound).Once()

		_, err := service.UpdateReminder(ctx, testViewer(), 9, &reminder.UpdatePatch{Notes: &notes})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestReminderService_DeleteReminder(t *testing.T) {
	ctx := context.Background()

	t.Run("hard delete", func(t *testing.T) {
		mockRepo, service := setupTest()
		org := int64(42)
		mockRepo.On("Delete", ctx, int64(1), reminder.Scope{OrganisationID: &org}).Return(nil).Once()

		assert.NoError(t, service.DeleteReminder(ctx, testViewer(), 1))
		mockRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo, service := setupTest()
		mockRepo.On("Delete", ctx, int64(1), mock.Anything).Return(reminder.ErrNotFound).Once()

		assert.ErrorIs(t, service.DeleteReminder(ctx, testViewer(), 1), apperrors.ErrNotFound)
	})
}
