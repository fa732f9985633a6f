package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver
)

// Supported cache drivers, matching config.CacheConfig.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type driverInfo struct {
	sqlDriver string
	dialect   goose.Dialect
}

var drivers = map[string]driverInfo{
	DriverPostgres: {sqlDriver: "pgx", dialect: goose.DialectPostgres},
	DriverSQLite:   {sqlDriver: "sqlite", dialect: goose.DialectSQLite3},
}

func lookupDriver(driver string) (driverInfo, error) {
	info, ok := drivers[driver]
	if !ok {
		return driverInfo{}, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	return info, nil
}

// Open establishes a connection pool for driver and verifies it with a ping.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	info, err := lookupDriver(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(info.sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite serialises writers; a single connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", MapError(err))
	}

	return db, nil
}
