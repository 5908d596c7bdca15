package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"swiftremind/internal/domain/customer"
	"swiftremind/internal/pkg/apperrors"
)

const customerColumns = `id, organisation_id, name, phone, email, address, business_name,
        gst_number, alternate_phone, notes, pending_amount, currency, payment_terms,
        credit_limit, last_payment_date, last_payment_amount, due_date, payment_history,
        customer_type, payment_status, risk_level, reminder_frequency,
        preferred_contact_method, auto_reminder, deleted, created_at, updated_at`

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) Create(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.logger.InfoContext(ctx, "Attempting to insert new customer", slog.String("name", cust.Name))

	history, err := json.Marshal(cust.PaymentHistory)
	if err != nil {
		return fmt.Errorf("%w: failed to encode payment history: %w", apperrors.ErrInvalidArgument, err)
	}

	query := `
        INSERT INTO customers (organisation_id, name, phone, email, address, business_name,
            gst_number, alternate_phone, notes, pending_amount, currency, payment_terms,
            credit_limit, last_payment_date, last_payment_amount, due_date, payment_history,
            customer_type, payment_status, risk_level, reminder_frequency,
            preferred_contact_method, auto_reminder, deleted, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
            $18, $19, $20, $21, $22, $23, $24, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
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
	).Scan(
		&cust.CustomerID,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			return translatedErr
		}
		return fmt.Errorf("%w: failed to insert customer: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", cust.CustomerID))
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64, scope customer.Scope) (*customer.Customer, error) {
	r.logger.DebugContext(ctx, "Attempting to find customer by ID", slog.Int64("customerID", customerID))

	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	args := []any{customerID}
	query, args = appendScope(query, args, scope)

	cust, err := scanCustomer(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Customer not found", slog.Int64("customerID", customerID))
			return nil, customer.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan customer by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer by ID: %w", apperrors.ErrDatabase, err)
	}

	return cust, nil
}

func (r *CustomerRepository) FindByPhone(ctx context.Context, organisationID int64, phone string, excludeID int64) (*customer.Customer, error) {
	r.logger.DebugContext(ctx, "Attempting to find customer by phone", slog.Int64("organisationID", organisationID))

	// Soft-deleted customers still hold their phone number. A restore would
	// otherwise bring back a duplicate inside the organisation.
	query := `SELECT ` + customerColumns + `
        FROM customers
        WHERE organisation_id = $1 AND phone = $2 AND id <> $3
        LIMIT 1`

	cust, err := scanCustomer(r.db.QueryRow(ctx, query, organisationID, phone, excludeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan customer by phone", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer by phone: %w", apperrors.ErrDatabase, err)
	}

	return cust, nil
}

func (r *CustomerRepository) List(ctx context.Context, filter customer.ListFilter) ([]*customer.Customer, int, error) {
	r.logger.DebugContext(ctx, "Attempting to list customers", slog.Int("offset", filter.Offset), slog.Int("limit", filter.Limit))

	where := " WHERE 1=1"
	args := []any{}
	where, args = appendScope(where, args, filter.Scope)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where += fmt.Sprintf(" AND (name ILIKE $%d OR phone ILIKE $%d OR email ILIKE $%d)", len(args)+1, len(args)+2, len(args)+3)
		args = append(args, pattern, pattern, pattern)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM customers` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.ErrorContext(ctx, "Failed to count customers", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%w: failed to count customers: %w", apperrors.ErrDatabase, err)
	}

	query := `SELECT ` + customerColumns + ` FROM customers` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%w: failed to query customers: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0)
	for rows.Next() {
		cust, err := scanCustomer(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, 0, fmt.Errorf("%w: failed to scan customer row: %w", apperrors.ErrDatabase, err)
		}
		customers = append(customers, cust)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, 0, fmt.Errorf("%w: error iterating customer rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.DebugContext(ctx, "Finished listing customers", slog.Int("count", len(customers)), slog.Int("total", total))
	return customers, total, nil
}

func (r *CustomerRepository) Update(ctx context.Context, customerID int64, scope customer.Scope, patch *customer.UpdatePatch) (*customer.Customer, error) {
	if patch == nil {
		return nil, fmt.Errorf("%w: update patch cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.logger.InfoContext(ctx, "Attempting to update customer", slog.Int64("customerID", customerID))

	sets, args, err := buildCustomerSets(patch)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		// Nothing to change; hand the current row back.
		return r.FindByID(ctx, customerID, scope)
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE customers SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args)+1)
	args = append(args, customerID)
	query, args = appendScope(query, args, scope)
	query += ` RETURNING ` + customerColumns

	cust, err := scanCustomer(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Update matched no customer", slog.Int64("customerID", customerID))
			return nil, customer.ErrNotFound
		}
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			return nil, translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to update customer: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Customer updated successfully", slog.Int64("customerID", customerID))
	return cust, nil
}

func (r *CustomerRepository) SetDeleted(ctx context.Context, customerID int64, scope customer.Scope, deleted bool) (*customer.Customer, error) {
	r.logger.InfoContext(ctx, "Attempting to set customer deleted flag", slog.Int64("customerID", customerID), slog.Bool("deleted", deleted))

	query := `UPDATE customers SET deleted = $1, updated_at = NOW() WHERE id = $2`
	args := []any{deleted, customerID}
	query, args = appendScope(query, args, scope)
	query += ` RETURNING ` + customerColumns

	cust, err := scanCustomer(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Deleted-flag update matched no customer", slog.Int64("customerID", customerID))
			return nil, customer.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to set customer deleted flag", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to set deleted flag: %w", apperrors.ErrDatabase, err)
	}

	return cust, nil
}

func (r *CustomerRepository) FindOverdueCandidates(ctx context.Context, now time.Time) ([]*customer.Customer, error) {
	r.logger.DebugContext(ctx, "Attempting to find overdue candidates")

	query := `SELECT ` + customerColumns + `
        FROM customers
        WHERE deleted = FALSE
          AND pending_amount > 0
          AND due_date IS NOT NULL AND due_date < $1
          AND payment_status NOT IN ($2, $3)
        ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, now, string(customer.StatusOverdue), string(customer.StatusDelinquent))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query overdue candidates", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query overdue candidates: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0)
	for rows.Next() {
		cust, err := scanCustomer(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan overdue candidate row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan overdue candidate row: %w", apperrors.ErrDatabase, err)
		}
		customers = append(customers, cust)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating overdue candidate rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Finished finding overdue candidates", slog.Int("count", len(customers)))
	return customers, nil
}

func (r *CustomerRepository) SetPaymentStatus(ctx context.Context, customerID int64, status customer.PaymentStatus) error {
	r.logger.InfoContext(ctx, "Attempting to set payment status", slog.Int64("customerID", customerID), slog.String("status", string(status)))

	query := `UPDATE customers SET payment_status = $1, updated_at = NOW() WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, query, string(status), customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to execute payment status update", slog.Any("error", err))
		return fmt.Errorf("%w: failed to update payment status: %w", apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Payment status update affected zero rows, customer likely not found")
		return customer.ErrNotFound
	}

	return nil
}

// appendScope adds the tenant and deletion constraints of a query scope,
// continuing the query's positional placeholders.
func appendScope(query string, args []any, scope customer.Scope) (string, []any) {
	if scope.OrganisationID != nil {
		query += fmt.Sprintf(" AND organisation_id = $%d", len(args)+1)
		args = append(args, *scope.OrganisationID)
	}
	if !scope.IncludeDeleted {
		query += " AND deleted = FALSE"
	}
	return query, args
}

// buildCustomerSets turns the non-nil patch fields into SET clauses, always in
// column order so the generated SQL is deterministic.
func buildCustomerSets(patch *customer.UpdatePatch) ([]string, []any, error) {
	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Address != nil {
		add("address", *patch.Address)
	}
	if patch.BusinessName != nil {
		add("business_name", *patch.BusinessName)
	}
	if patch.GSTNumber != nil {
		add("gst_number", *patch.GSTNumber)
	}
	if patch.AlternatePhone != nil {
		add("alternate_phone", *patch.AlternatePhone)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if patch.PendingAmount != nil {
		add("pending_amount", *patch.PendingAmount)
	}
	if patch.Currency != nil {
		add("currency", *patch.Currency)
	}
	if patch.PaymentTerms != nil {
		add("payment_terms", *patch.PaymentTerms)
	}
	if patch.CreditLimit != nil {
		add("credit_limit", *patch.CreditLimit)
	}
	if patch.LastPaymentDate != nil {
		add("last_payment_date", *patch.LastPaymentDate)
	}
	if patch.LastPaymentAmount != nil {
		add("last_payment_amount", *patch.LastPaymentAmount)
	}
	if patch.DueDate != nil {
		add("due_date", *patch.DueDate)
	}
	if patch.PaymentHistory != nil {
		history, err := json.Marshal(patch.PaymentHistory)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: failed to encode payment history: %w", apperrors.ErrInvalidArgument, err)
		}
		add("payment_history", history)
	}
	if patch.CustomerType != nil {
		add("customer_type", *patch.CustomerType)
	}
	if patch.PaymentStatus != nil {
		add("payment_status", string(*patch.PaymentStatus))
	}
	if patch.RiskLevel != nil {
		add("risk_level", *patch.RiskLevel)
	}
	if patch.ReminderFrequency != nil {
		add("reminder_frequency", *patch.ReminderFrequency)
	}
	if patch.PreferredContactMethod != nil {
		add("preferred_contact_method", *patch.PreferredContactMethod)
	}
	if patch.AutoReminder != nil {
		add("auto_reminder", *patch.AutoReminder)
	}
	if patch.Deleted != nil {
		add("deleted", *patch.Deleted)
	}

	return sets, args, nil
}

// scanCustomer reads one customer row in customerColumns order. The payment
// history lands as raw jsonb bytes and is decoded here.
func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var (
		cust    customer.Customer
		history []byte
		status  string
	)
	err := row.Scan(
		&cust.CustomerID,
		&cust.OrganisationID,
		&cust.Name,
		&cust.Phone,
		&cust.Email,
		&cust.Address,
		&cust.BusinessName,
		&cust.GSTNumber,
		&cust.AlternatePhone,
		&cust.Notes,
		&cust.PendingAmount,
		&cust.Currency,
		&cust.PaymentTerms,
		&cust.CreditLimit,
		&cust.LastPaymentDate,
		&cust.LastPaymentAmount,
		&cust.DueDate,
		&history,
		&cust.CustomerType,
		&status,
		&cust.RiskLevel,
		&cust.ReminderFrequency,
		&cust.PreferredContactMethod,
		&cust.AutoReminder,
		&cust.Deleted,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	cust.PaymentStatus = customer.PaymentStatus(status)
	if len(history) > 0 {
		if err := json.Unmarshal(history, &cust.PaymentHistory); err != nil {
			return nil, fmt.Errorf("failed to decode payment history: %w", err)
		}
	}
	return &cust, nil
}
