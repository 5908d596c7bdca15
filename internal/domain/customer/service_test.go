package customer_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"swiftremind/internal/domain/audit"
	"swiftremind/internal/domain/customer"
	"swiftremind/internal/pkg/apperrors"
	"swiftremind/internal/pkg/authz"
)

const testOrgID = int64(42)

func setupTest() (*customer.MockCustomerRepository, *customer.MockAuditRepository, *customer.MockPublisher, customer.CustomerService) {
	mockRepo := new(customer.MockCustomerRepository)
	mockAudit := new(customer.MockAuditRepository)
	mockPub := new(customer.MockPublisher)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := customer.NewCustomerService(mockRepo, mockAudit, mockPub, logger)
	return mockRepo, mockAudit, mockPub, service
}

func adminViewer() authz.Viewer {
	return authz.Viewer{UserID: 9, Name: "Admin User", Role: authz.RoleAdmin, OrganisationID: testOrgID}
}

func userViewer() authz.Viewer {
	return authz.Viewer{UserID: 11, Name: "Plain User", Role: authz.RoleUser, OrganisationID: testOrgID}
}

func adminScope() customer.Scope {
	org := testOrgID
	return customer.Scope{OrganisationID: &org, IncludeDeleted: true}
}

func existingCustomer() *customer.Customer {
	cust := customer.NewCustomer(testOrgID, "Test User", "9999999999", "test@example.com")
	cust.CustomerID = 1
	return cust
}

func TestCustomerService_CreateCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo, _, mockPub, service := setupTest()

		mockRepo.On("FindByPhone", ctx, testOrgID, "9999999999", int64(0)).
			Return(nil, customer.ErrNotFound).Once()
		mockRepo.On("Create", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			match := c.OrganisationID == testOrgID &&
				c.Name == "Test User" &&
				c.Phone == "9999999999" &&
				c.PaymentStatus == customer.StatusCurrent &&
				!c.Deleted
			if match {
				c.CustomerID = 1
			}
			return match
		})).Return(nil).Once()
		mockPub.On("PublishCustomerCreated", ctx, mock.Anything).Return(nil).Once()

		created, err := service.CreateCustomer(ctx, adminViewer(), customer.NewCustomerInput{
			Name:  "  Test User ",
			Phone: " 9999999999 ",
			Email: "test@example.com",
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		if created != nil {
			assert.Equal(t, int64(1), created.CustomerID)
			assert.Equal(t, "Test User", created.Name)
			assert.Equal(t, "9999999999", created.Phone)
		}
		mockRepo.AssertExpectations(t)
		mockPub.AssertExpectations(t)
	})

	t.Run("Error - Empty Name", func(t *testing.T) {
		_, _, _, service := setupTest()
		_, err := service.CreateCustomer(ctx, adminViewer(), customer.NewCustomerInput{Phone: "123"})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("Error - Empty Phone", func(t *testing.T) {
		_, _, _, service := setupTest()
		_, err := service.CreateCustomer(ctx, adminViewer(), customer.NewCustomerInput{Name: "X"})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("Error - Duplicate phone in same organisation", func(t *testing.T) {
		mockRepo, _, _, service := setupTest()

		mockRepo.On("FindByPhone", ctx, testOrgID, "9999999999", int64(0)).
			Return(existingCustomer(), nil).Once()

		_, err := service.CreateCustomer(ctx, adminViewer(), customer.NewCustomerInput{Name: "B", Phone: "9999999999"})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error - Phone held by soft-deleted customer", func(t *testing.T) {
		mockRepo, _, _, service := setupTest()

		// A deleted customer keeps its phone. Accepting the number here would
		// leave two active holders once the deleted record is restored.
		deleted := existingCustomer()
		deleted.Deleted = true
		mockRepo.On("FindByPhone", ctx, testOrgID, "9999999999", int64(0)).
			Return(deleted, nil).Once()

		_, err := service.CreateCustomer(ctx, adminViewer(), customer.NewCustomerInput{Name: "B", Phone: "9999999999"})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Same phone in another organisation is accepted", func(t *testing.T) {
		mockRepo, _, mockPub, service := setupTest()
		otherOrg := authz.Viewer{UserID: 2, Name: "Other", Role: authz.RoleAdmin, OrganisationID: 77}

		// The uniqueness lookup is scoped to the caller's organisation, so a
		// duplicate in org 42 is invisible from org 77.
		mockRepo.On("FindByPhone", ctx, int64(77), "9999999999", int64(0)).
			Return(nil, customer.ErrNotFound).Once()
		mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		mockPub.On("PublishCustomerCreated", ctx, mock.Anything).Return(nil).Once()

		_, err := service.CreateCustomer(ctx, otherOrg, customer.NewCustomerInput{Name: "B", Phone: "9999999999"})
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestCustomerService_UpdateCustomer_Validation(t *testing.T) {
	ctx := context.Background()

	run := func(t *testing.T, patch *customer.UpdatePatch) error {
		mockRepo, _, _, service := setupTest()
		mockRepo.On("FindByID", ctx, int64(1), adminScope()).Return(existingCustomer(), nil).Once()
		_, err := service.UpdateCustomer(ctx, adminViewer(), 1, patch)
		return err
	}

	t.Run("negative pending amount rejected", func(t *testing.T) {
		err := run(t, &customer.UpdatePatch{PendingAmount: decp(-5)})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("negative credit limit rejected", func(t *testing.T) {
		err := run(t, &customer.UpdatePatch{CreditLimit: decp(-1)})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("payment history entry without date rejected", func(t *testing.T) {
		err := run(t, &customer.UpdatePatch{PaymentHistory: []customer.PaymentEntry{
			{Amount: decimal.NewFromInt(100), Method: "cash"},
		}})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("payment history entry with non-positive amount rejected", func(t *testing.T) {
		err := run(t, &customer.UpdatePatch{PaymentHistory: []customer.PaymentEntry{
			{Date: time.Now(), Amount: decimal.NewFromInt(-100), Method: "cash"},
		}})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("phone conflict rejected", func(t *testing.T) {
		mockRepo, _, _, service := setupTest()
		mockRepo.On("FindByID", ctx, int64(1), adminScope()).Return(existingCustomer(), nil).Once()
		other := existingCustomer()
		other.CustomerID = 2
		mockRepo.On("FindByPhone", ctx, testOrgID, "8888888888", int64(1)).Return(other, nil).Once()

		_, err := service.UpdateCustomer(ctx, adminViewer(), 1, &customer.UpdatePatch{Phone: strp("8888888888")})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		mockRepo.AssertExpectations(t)
	})

	t.Run("not found outside tenant scope", func(t *testing.T) {
		mockRepo, _, _, service := setupTest()
		mockRepo.On("FindByID", ctx, int64(1), adminScope()).Return(nil, customer.ErrNotFound).Once()

		_, err := service.UpdateCustomer(ctx, adminViewer(), 1, &customer.UpdatePatch{Name: strp("X")})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestCustomerService_UpdateCustomer_StatusDerivation(t *testing.T) {
	ctx := context.Background()

	t.Run("clearing pending amount yields Paid despite past due date", func(t *testing.T) {
		mockRepo, _, mockPub, service := setupTest()
		existing := existingCustomer()
		existing.PendingAmount = decimal.NewFromInt(500)
		yesterday := time.Now().AddDate(0, 0, -1)
		existing.DueDate = &yesterday
		existing.PaymentStatus = customer.StatusOverdue

		mockRepo.On("FindByID", ctx, int64(1), adminScope()).Return(existing, nil).Once()
		mockRepo.On("Update", ctx, int64(1), adminScope(), mock.MatchedBy(func(p *customer.UpdatePatch) bool {
			return p.PaymentStatus != nil && *p.PaymentStatus == customer.StatusPaid
		})).Return(existing, nil).Once()
		mockPub.On("PublishCustomerUpdated", ctx, mock.Anything).Return(nil).Once()

		_, err := service.UpdateCustomer(ctx, adminViewer(), 1, &customer.UpdatePatch{PendingAmount: decp(0)})
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("past due date alone keeps Paid when stored pending is zero", func(t *testing.T) {
		mockRepo, _, mockPub, service := setupTest()
		existing := existingCustomer()
		existing.PendingAmount = decimal.Zero
		existing.PaymentStatus = customer.StatusPaid
		yesterday := time.Now().AddDate(0, 0, -1)

		mockRepo.On("FindByID", ctx, int64(1), adminScope()).Return(existing, nil).Once()
		mockRepo.On("Update", ctx, int64(1), adminScope(), mock.MatchedBy(func(p *customer.UpdatePatch) bool {
			return p.PaymentStatus != nil && *p.PaymentStatus == customer.StatusPaid
		})).Return(existing, nil).Once()
		mockPub.On("PublishCustomerUpdated", ctx, mock.Anything).Return(nil).Once()

		_, err := service.UpdateCustomer(ctx, adminViewer(), 1, &customer.UpdatePatch{DueDate: &yesterday})
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("caller-supplied status is overridden by derivation", func(t *testing.T) {
		mockRepo, _, mockPub, service := setupTest()
		existing := existingCustomer()

		delinquent := customer.StatusDelinquent
		mockRepo.On("FindByID", ctx, int64(1), adminScope()).Return(existing, nil).Once()
		mockRepo.On("Update", ctx, int64(1), adminScope(), mock.MatchedBy(func(p *customer.UpdatePatch) bool {
			return p.PaymentStatus != nil && *p.PaymentStatus == customer.StatusCurrent
		})).Return(existing, nil).Once()
		mockPub.On("PublishCustomerUpdated", ctx, mock.Anything).Return(nil).Once()

		_, err := service.UpdateCustomer(ctx, adminViewer(), 1, &customer.UpdatePatch{
			PendingAmount: decp(100),
			PaymentStatus: &delinquent,
		})
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("explicit Delinquent write without financial fields passes through", func(t *testing.T) {
		mockRepo, _, mockPub, service := setupTest()
		existing := existingCustomer()

		delinquent := customer.StatusDelinquent
		mockRepo.On("FindByID", ctx, int64(1), adminScope()).Return(existing, nil).Once()
		mockRepo.On("Update", ctx, int64(1), adminScope(), mock.MatchedBy(func(p *customer.UpdatePatch) bool {
			return p.PaymentStatus != nil && *p.PaymentStatus == customer.StatusDelinquent
		})).Return(existing, nil).Once()
		mockPub.On("PublishCustomerUpdated", ctx, mock.Anything).Return(nil).Once()

		_, err := service.UpdateCustomer(ctx, adminViewer(), 1, &customer.UpdatePatch{PaymentStatus: &delinquent})
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestCustomerService_DeleteCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("soft delete records audit entry and publishes event", func(t *testing.T) {
		mockRepo, mockAudit, mockPub, service := setupTest()
		deleted := existingCustomer()
		deleted.Deleted = true

		mockRepo.On("SetDeleted", ctx, int64(1), adminScope(), true).Return(deleted, nil).Once()
		mockAudit.On("Insert", ctx, mock.MatchedBy(func(e *audit.Entry) bool {
			return e.Action == audit.ActionDelete &&
				e.Entity == audit.EntityCustomer &&
				e.EntityID == int64(1) &&
				e.UserID == int64(9) &&
				e.OrganisationID == testOrgID
		})).Return(nil).Once()
		mockPub.On("PublishCustomerDeleted", ctx, mock.Anything).Return(nil).Once()

		cust, err := service.DeleteCustomer(ctx, adminViewer(), 1)
		assert.NoError(t, err)
		assert.True(t, cust.Deleted)
		mockRepo.AssertExpectations(t)
		mockAudit.AssertExpectations(t)
		mockPub.AssertExpectations(t)
	})

	t.Run("audit failure does not fail the delete", func(t *testing.T) {
		mockRepo, mockAudit, mockPub, service := setupTest()
		deleted := existingCustomer()
		deleted.Deleted = true

		mockRepo.On("SetDeleted", ctx, int64(1), adminScope(), true).Return(deleted, nil).Once()
		mockAudit.On("Insert", ctx, mock.Anything).Return(errors.New("sink unavailable")).Once()
		mockPub.On("PublishCustomerDeleted", ctx, mock.Anything).Return(nil).Once()

		_, err := service.DeleteCustomer(ctx, adminViewer(), 1)
		assert.NoError(t, err)
	})

	t.Run("not found in tenant scope", func(t *testing.T) {
		mockRepo, _, _, service := setupTest()
		mockRepo.On("SetDeleted", ctx, int64(1), adminScope(), true).Return(nil, customer.ErrNotFound).Once()

		_, err := service.DeleteCustomer(ctx, adminViewer(), 1)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestCustomerService_RestoreCustomer(t *testing.T) {
	ctx := context.Background()

	restoreScope := func(v authz.Viewer) customer.Scope {
		org := v.OrganisationID
		// Restore always sees deleted records, whatever the role.
		return customer.Scope{OrganisationID: &org, IncludeDeleted: true}
	}

	t.Run("restore records audit entry and publishes event", func(t *testing.T) {
		mockRepo, mockAudit, mockPub, service := setupTest()
		restored := existingCustomer()

		mockRepo.On("SetDeleted", ctx, int64(1), restoreScope(userViewer()), false).Return(restored, nil).Once()
		mockAudit.On("Insert", ctx, mock.MatchedBy(func(e *audit.Entry) bool {
			return e.Action == audit.ActionRestore && e.EntityID == int64(1)
		})).Return(nil).Once()
		mockPub.On("PublishCustomerRestored", ctx, mock.Anything).Return(nil).Once()

		cust, err := service.RestoreCustomer(ctx, userViewer(), 1)
		assert.NoError(t, err)
		assert.False(t, cust.Deleted)
		mockRepo.AssertExpectations(t)
		mockAudit.AssertExpectations(t)
	})

	t.Run("restore of already-active customer is idempotent", func(t *testing.T) {
		mockRepo, mockAudit, mockPub, service := setupTest()
		active := existingCustomer()

		mockRepo.On("SetDeleted", ctx, int64(1), restoreScope(userViewer()), false).Return(active, nil).Once()
		mockAudit.On("Insert", ctx, mock.Anything).Return(nil).Once()
		mockPub.On("PublishCustomerRestored", ctx, mock.Anything).Return(nil).Once()

		cust, err := service.RestoreCustomer(ctx, userViewer(), 1)
		assert.NoError(t, err)
		assert.False(t, cust.Deleted)
		// Exactly one audit entry per call, no more.
		mockAudit.AssertNumberOfCalls(t, "Insert", 1)
	})
}

func TestCustomerService_GetCustomer_Scoping(t *testing.T) {
	ctx := context.Background()

	t.Run("plain user does not see soft-deleted customers", func(t *testing.T) {
		mockRepo, _, _, service := setupTest()
		org := testOrgID
		scope := customer.Scope{OrganisationID: &org, IncludeDeleted: false}
		mockRepo.On("FindByID", ctx, int64(1), scope).Return(nil, customer.ErrNotFound).Once()

		_, err := service.GetCustomer(ctx, userViewer(), 1)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})

	t.Run("superadmin queries are unscoped", func(t *testing.T) {
		mockRepo, _, _, service := setupTest()
		super := authz.Viewer{UserID: 1, Name: "Root", Role: authz.RoleSuperadmin}
		scope := customer.Scope{OrganisationID: nil, IncludeDeleted: true}
		mockRepo.On("FindByID", ctx, int64(5), scope).Return(existingCustomer(), nil).Once()

		cust, err := service.GetCustomer(ctx, super, 5)
		assert.NoError(t, err)
		assert.NotNil(t, cust)
		mockRepo.AssertExpectations(t)
	})
}
