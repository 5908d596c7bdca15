package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"

	"swiftremind/internal/pkg/apperrors"
)

// DBPool is the subset of pgxpool.Pool the repositories use, narrow enough
// for pgxmock to stand in during tests.
type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

var errMsgFormat = "%w: %w"

func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			contextLogger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyExists, pgErr.ConstraintName)
		}
		contextLogger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return fmt.Errorf("%w: db error code %s", apperrors.ErrDatabase, pgErr.Code)
	}
	contextLogger.Error("Generic database error", "error", err)
	return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
}
