package customer

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"swiftremind/internal/domain/audit"
	"swiftremind/internal/event"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (_m *MockCustomerRepository) Create(ctx context.Context, cust *Customer) error {
	ret := _m.Called(ctx, cust)
	return ret.Error(0)
}

func (_m *MockCustomerRepository) FindByID(ctx context.Context, customerID int64, scope Scope) (*Customer, error) {
	ret := _m.Called(ctx, customerID, scope)

	var r0 *Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) FindByPhone(ctx context.Context, organisationID int64, phone string, excludeID int64) (*Customer, error) {
	ret := _m.Called(ctx, organisationID, phone, excludeID)

	var r0 *Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) List(ctx context.Context, filter ListFilter) ([]*Customer, int, error) {
	ret := _m.Called(ctx, filter)

	var r0 []*Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Customer)
	}
	return r0, ret.Int(1), ret.Error(2)
}

func (_m *MockCustomerRepository) Update(ctx context.Context, customerID int64, scope Scope, patch *UpdatePatch) (*Customer, error) {
	ret := _m.Called(ctx, customerID, scope, patch)

	var r0 *Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) SetDeleted(ctx context.Context, customerID int64, scope Scope, deleted bool) (*Customer, error) {
	ret := _m.Called(ctx, customerID, scope, deleted)

	var r0 *Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) FindOverdueCandidates(ctx context.Context, now time.Time) ([]*Customer, error) {
	ret := _m.Called(ctx, now)

	var r0 []*Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) SetPaymentStatus(ctx context.Context, customerID int64, status PaymentStatus) error {
	ret := _m.Called(ctx, customerID, status)
	return ret.Error(0)
}

var _ CustomerRepository = (*MockCustomerRepository)(nil)

type MockAuditRepository struct {
	mock.Mock
}

func (_m *MockAuditRepository) Insert(ctx context.Context, entry *audit.Entry) error {
	ret := _m.Called(ctx, entry)
	return ret.Error(0)
}

func (_m *MockAuditRepository) List(ctx context.Context, filter audit.ListFilter) ([]*audit.Entry, int, error) {
	ret := _m.Called(ctx, filter)

	var r0 []*audit.Entry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*audit.Entry)
	}
	return r0, ret.Int(1), ret.Error(2)
}

var _ audit.Repository = (*MockAuditRepository)(nil)

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

var _ event.Publisher = (*MockPublisher)(nil)
