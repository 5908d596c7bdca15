package batch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"swiftremind/internal/batch"
	"swiftremind/internal/domain/customer"
	"swiftremind/internal/event"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (_m *MockCustomerRepository) Create(ctx context.Context, cust *customer.Customer) error {
	return _m.Called(ctx, cust).Error(0)
}

func (_m *MockCustomerRepository) FindByID(ctx context.Context, customerID int64, scope customer.Scope) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID, scope)
	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) FindByPhone(ctx context.Context, organisationID int64, phone string, excludeID int64) (*customer.Customer, error) {
	ret := _m.Called(ctx, organisationID, phone, excludeID)
	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) List(ctx context.Context, filter customer.ListFilter) ([]*customer.Customer, int, error) {
	ret := _m.Called(ctx, filter)
	var r0 []*customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*customer.Customer)
	}
	return r0, ret.Int(1), ret.Error(2)
}

func (_m *MockCustomerRepository) Update(ctx context.Context, customerID int64, scope customer.Scope, patch *customer.UpdatePatch) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID, scope, patch)
	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) SetDeleted(ctx context.Context, customerID int64, scope customer.Scope, deleted bool) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID, scope, deleted)
	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) FindOverdueCandidates(ctx context.Context, now time.Time) ([]*customer.Customer, error) {
	ret := _m.Called(ctx, now)
	var r0 []*customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) SetPaymentStatus(ctx context.Context, customerID int64, status customer.PaymentStatus) error {
	return _m.Called(ctx, customerID, status).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (_m *MockPublisher) PublishCustomerCreated(ctx context.Context, evt event.CustomerEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func (_m *MockPublisher) PublishCustomerUpdated(ctx context.Context, evt event.CustomerEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func (_m *MockPublisher) PublishCustomerDeleted(ctx context.Context, evt event.CustomerEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func (_m *MockPublisher) PublishCustomerRestored(ctx context.Context, evt event.CustomerEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func (_m *MockPublisher) PublishReminderDue(ctx context.Context, evt event.ReminderDueEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func overdueCandidate(id int64) *customer.Customer {
	cust := customer.NewCustomer(42, "Late Payer", "+919000000001", "")
	cust.CustomerID = id
	cust.PendingAmount = decimal.NewFromInt(5000)
	due := time.Now().AddDate(0, 0, -3)
	cust.DueDate = &due
	return cust
}

func TestPaymentStatusRefreshJob_Run(t *testing.T) {
	logger := testLogger()

	t.Run("marks candidates overdue and publishes updates", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		pub := new(MockPublisher)
		job := batch.NewPaymentStatusRefreshJob(repo, pub, logger)

		candidates := []*customer.Customer{overdueCandidate(1), overdueCandidate(2)}
		repo.On("FindOverdueCandidates", mock.Anything, mock.AnythingOfType("time.Time")).Return(candidates, nil)
		repo.On("SetPaymentStatus", mock.Anything, int64(1), customer.StatusOverdue).Return(nil)
		repo.On("SetPaymentStatus", mock.Anything, int64(2), customer.StatusOverdue).Return(nil)
		pub.On("PublishCustomerUpdated", mock.Anything, mock.MatchedBy(func(evt event.CustomerEvent) bool {
			return evt.Payload.PaymentStatus == string(customer.StatusOverdue)
		})).Return(nil).Twice()

		err := job.Run(context.Background())

		assert.NoError(t, err)
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("no candidates is a clean run", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		pub := new(MockPublisher)
		job := batch.NewPaymentStatusRefreshJob(repo, pub, logger)

		repo.On("FindOverdueCandidates", mock.Anything, mock.AnythingOfType("time.Time")).Return([]*customer.Customer{}, nil)

		err := job.Run(context.Background())

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "SetPaymentStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("fetch failure aborts the run", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		pub := new(MockPublisher)
		job := batch.NewPaymentStatusRefreshJob(repo, pub, logger)

		repo.On("FindOverdueCandidates", mock.Anything, mock.AnythingOfType("time.Time")).Return(nil, errors.New("connection refused"))

		err := job.Run(context.Background())

		assert.Error(t, err)
	})

	t.Run("one failed update does not stop the sweep", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		pub := new(MockPublisher)
		job := batch.NewPaymentStatusRefreshJob(repo, pub, logger)

		candidates := []*customer.Customer{overdueCandidate(1), overdueCandidate(2)}
		repo.On("FindOverdueCandidates", mock.Anything, mock.AnythingOfType("time.Time")).Return(candidates, nil)
		repo.On("SetPaymentStatus", mock.Anything, int64(1), customer.StatusOverdue).Return(errors.New("deadlock"))
		repo.On("SetPaymentStatus", mock.Anything, int64(2), customer.StatusOverdue).Return(nil)
		pub.On("PublishCustomerUpdated", mock.Anything, mock.Anything).Return(nil).Once()

		err := job.Run(context.Background())

		assert.Error(t, err)
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("publish failure does not fail the job", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		pub := new(MockPublisher)
		job := batch.NewPaymentStatusRefreshJob(repo, pub, logger)

		repo.On("FindOverdueCandidates", mock.Anything, mock.AnythingOfType("time.Time")).Return([]*customer.Customer{overdueCandidate(1)}, nil)
		repo.On("SetPaymentStatus", mock.Anything, int64(1), customer.StatusOverdue).Return(nil)
		pub.On("PublishCustomerUpdated", mock.Anything, mock.Anything).Return(errors.New("broker down"))

		err := job.Run(context.Background())

		assert.NoError(t, err)
	})
}
