package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"swiftremind/internal/domain/customer"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

const pgxmockExpectationsNotMetMsg = "there were unfulfilled expectations"

func setupCustomerRepo(t *testing.T) (context.Context, *CustomerRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewCustomerRepository(mockPool, logger)

	return ctx, repo, mockPool
}

func testCustomer() *customer.Customer {
	cust := customer.NewCustomer(42, "John Doe", "9999999999", "john@example.com")
	cust.CustomerID = 1
	return cust
}

// customerRowValues lists a row in customerColumns order.
func customerRowValues(cust *customer.Customer) []any {
	history, _ := json.Marshal(cust.PaymentHistory)
	return []any{
		cust.CustomerID,
		cust.OrganisationID,
		cust.Name,
		cust.Phone,
		cust.Email,
		cust.Address,
		cust.BusinessName,
		cust.GSTNumber,
		cust.AlternatePhone,
		cust.Notes,
		cust.PendingAmount,
		cust.Currency,
		cust.PaymentTerms,
		cust.CreditLimit,
		cust.LastPaymentDate,
		cust.LastPaymentAmount,
		cust.DueDate,
		history,
		cust.CustomerType,
		string(cust.PaymentStatus),
		cust.RiskLevel,
		cust.ReminderFrequency,
		cust.PreferredContactMethod,
		cust.AutoReminder,
		cust.Deleted,
		cust.CreatedAt,
		cust.UpdatedAt,
	}
}

var customerColumnNames = []string{
	"id", "organisation_id", "name", "phone", "email", "address", "business_name",
	"gst_number", "alternate_phone", "notes", "pending_amount", "currency", "payment_terms",
	"credit_limit", "last_payment_date", "last_payment_amount", "due_date", "payment_history",
	"customer_type", "payment_status", "risk_level", "reminder_frequency",
	"preferred_contact_method", "auto_reminder", "deleted", "created_at", "updated_at",
}

func customerRows(custs ...*customer.Customer) *pgxmock.Rows {
	rows := pgxmock.NewRows(customerColumnNames)
	for _, cust := range custs {
		rows.AddRow(customerRowValues(cust)...)
	}
	return rows
}

func orgScope(orgID int64, includeDeleted bool) customer.Scope {
	return customer.Scope{OrganisationID: &orgID, IncludeDeleted: includeDeleted}
}

func TestCustomerRepositoryCreateWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	cust := customer.NewCustomer(42, "John Doe", "9999999999", "john@example.com")
	now := time.Now()

	mockPool.ExpectQuery(`INSERT INTO customers`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(7), now, now))

	err := repo.Create(ctx, cust)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), cust.CustomerID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCustomerRepositoryFindByIDScoping(t *testing.T) {
	t.Run("tenant scope excluding deleted", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		defer mockPool.Close()

		cust := testCustomer()
		query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 AND organisation_id = $2 AND deleted = FALSE`
		mockPool.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs(int64(1), int64(42)).
			WillReturnRows(customerRows(cust))

		found, err := repo.FindByID(ctx, 1, orgScope(42, false))
		assert.NoError(t, err)
		assert.Equal(t, cust.CustomerID, found.CustomerID)
		assert.Equal(t, cust.Name, found.Name)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("unscoped including deleted", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		defer mockPool.Close()

		cust := testCustomer()
		cust.Deleted = true
		query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
		mockPool.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs(int64(1)).
			WillReturnRows(customerRows(cust))

		found, err := repo.FindByID(ctx, 1, customer.Scope{IncludeDeleted: true})
		assert.NoError(t, err)
		assert.True(t, found.Deleted)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("not found", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		defer mockPool.Close()

		mockPool.ExpectQuery(`SELECT`).
			WithArgs(int64(99), int64(42)).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.FindByID(ctx, 99, orgScope(42, false))
		assert.ErrorIs(t, err, customer.ErrNotFound)
	})
}

func TestCustomerRepositoryFindByPhone(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		defer mockPool.Close()

		cust := testCustomer()
		mockPool.ExpectQuery(`FROM customers\s+WHERE organisation_id = \$1 AND phone = \$2 AND id <> \$3\s+LIMIT 1`).
			WithArgs(int64(42), "9999999999", int64(5)).
			WillReturnRows(customerRows(cust))

		found, err := repo.FindByPhone(ctx, 42, "9999999999", 5)
		assert.NoError(t, err)
		assert.Equal(t, "9999999999", found.Phone)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("soft-deleted holder still conflicts", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		defer mockPool.Close()

		deleted := testCustomer()
		deleted.Deleted = true
		mockPool.ExpectQuery(`FROM customers\s+WHERE organisation_id = \$1 AND phone = \$2 AND id <> \$3\s+LIMIT 1`).
			WithArgs(int64(42), "9999999999", int64(0)).
			WillReturnRows(customerRows(deleted))

		found, err := repo.FindByPhone(ctx, 42, "9999999999", 0)
		assert.NoError(t, err)
		assert.True(t, found.Deleted)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("no conflict", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		defer mockPool.Close()

		mockPool.ExpectQuery(`FROM customers`).
			WithArgs(int64(42), "8888888888", int64(0)).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.FindByPhone(ctx, 42, "8888888888", 0)
		assert.ErrorIs(t, err, customer.ErrNotFound)
	})
}

func TestCustomerRepositoryList(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	cust := testCustomer()

	mockPool.ExpectQuery(`SELECT COUNT\(\*\) FROM customers WHERE 1=1 AND organisation_id = \$1 AND deleted = FALSE AND \(name ILIKE \$2 OR phone ILIKE \$3 OR email ILIKE \$4\)`).
		WithArgs(int64(42), "%john%", "%john%", "%john%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	mockPool.ExpectQuery(`ORDER BY created_at DESC LIMIT \$5 OFFSET \$6`).
		WithArgs(int64(42), "%john%", "%john%", "%john%", 10, 0).
		WillReturnRows(customerRows(cust))

	customers, total, err := repo.List(ctx, customer.ListFilter{
		Scope:  orgScope(42, false),
		Search: "john",
		Offset: 0,
		Limit:  10,
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, customers, 1)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCustomerRepositoryUpdateBuildsOrderedSets(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	updated := testCustomer()
	updated.Name = "New Name"
	updated.PendingAmount = decimal.NewFromInt(250)
	updated.PaymentStatus = customer.StatusCurrent

	name := "New Name"
	pending := decimal.NewFromInt(250)
	status := customer.StatusCurrent
	patch := &customer.UpdatePatch{
		Name:          &name,
		PendingAmount: &pending,
		PaymentStatus: &status,
	}

	query := `UPDATE customers SET name = $1, pending_amount = $2, payment_status = $3, updated_at = NOW() WHERE id = $4 AND organisation_id = $5 RETURNING ` + customerColumns
	mockPool.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("New Name", pending, "Current", int64(1), int64(42)).
		WillReturnRows(customerRows(updated))

	got, err := repo.Update(ctx, 1, orgScope(42, true), patch)
	assert.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
	assert.True(t, got.PendingAmount.Equal(decimal.NewFromInt(250)))
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCustomerRepositoryUpdateNotFound(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	name := "X"
	mockPool.ExpectQuery(`UPDATE customers SET`).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Update(ctx, 1, orgScope(42, false), &customer.UpdatePatch{Name: &name})
	assert.ErrorIs(t, err, customer.ErrNotFound)
}

func TestCustomerRepositorySetDeleted(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	cust := testCustomer()
	cust.Deleted = true

	query := `UPDATE customers SET deleted = $1, updated_at = NOW() WHERE id = $2 AND organisation_id = $3 RETURNING ` + customerColumns
	mockPool.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(true, int64(1), int64(42)).
		WillReturnRows(customerRows(cust))

	got, err := repo.SetDeleted(ctx, 1, orgScope(42, true), true)
	assert.NoError(t, err)
	assert.True(t, got.Deleted)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCustomerRepositoryFindOverdueCandidates(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	now := time.Now()
	overdue := testCustomer()
	overdue.PendingAmount = decimal.NewFromInt(500)
	yesterday := now.AddDate(0, 0, -1)
	overdue.DueDate = &yesterday

	mockPool.ExpectQuery(`AND payment_status NOT IN \(\$2, \$3\)`).
		WithArgs(now, "Overdue", "Delinquent").
		WillReturnRows(customerRows(overdue))

	candidates, err := repo.FindOverdueCandidates(ctx, now)
	assert.NoError(t, err)
	assert.Len(t, candidates, 1)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCustomerRepositorySetPaymentStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		defer mockPool.Close()

		mockPool.ExpectExec(`UPDATE customers SET payment_status = \$1, updated_at = NOW\(\) WHERE id = \$2`).
			WithArgs("Overdue", int64(1)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.SetPaymentStatus(ctx, 1, customer.StatusOverdue)
		assert.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("not found", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		defer mockPool.Close()

		mockPool.ExpectExec(`UPDATE customers SET payment_status`).
			WithArgs("Overdue", int64(99)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.SetPaymentStatus(ctx, 99, customer.StatusOverdue)
		assert.ErrorIs(t, err, customer.ErrNotFound)
	})
}

func TestTranslateDBError(t *testing.T) {
	assert.NoError(t, translateDBError(nil, logger))
	assert.ErrorContains(t, translateDBError(errors.New("boom"), logger), "boom")
}
