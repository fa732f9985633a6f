package sqlstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrUnsupportedDriver is returned for a driver name other than postgres or sqlite.
	ErrUnsupportedDriver = errors.New("unsupported cache driver")

	// ErrSchemaMissing indicates the response_cache table does not exist yet.
	ErrSchemaMissing = errors.New("cache schema missing, run migrate up")

	// ErrUnavailable indicates the database could not be reached.
	ErrUnavailable = errors.New("cache database unavailable")
)

// PostgreSQL error codes
const (
	// undefinedTableCode is raised when a query references a missing table.
	undefinedTableCode = "42P01"

	// connectionExceptionClass prefixes every connection-related error code.
	connectionExceptionClass = "08"

	// cannotConnectNowCode is raised while the server is starting up or shutting down.
	cannotConnectNowCode = "57P03"
)

// MapError maps a database error to one of the package's sentinel errors,
// wrapping the original to preserve context. Errors without a specific
// mapping are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == undefinedTableCode:
			return fmt.Errorf("%w: %v", ErrSchemaMissing, err)
		case pgErr.Code == cannotConnectNowCode,
			strings.HasPrefix(pgErr.Code, connectionExceptionClass):
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// SQLite reports a missing table only through its message.
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%w: %v", ErrSchemaMissing, err)
	}

	return err
}

// IsSchemaMissing reports whether err means migrations have not been applied.
func IsSchemaMissing(err error) bool {
	return errors.Is(err, ErrSchemaMissing)
}
