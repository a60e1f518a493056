package database

import (
	"errors"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"modernc.org/sqlite"
)

// Connect opens a gorm handle for the given DSN. Postgres DSNs are detected
// by prefix; anything else is treated as a SQLite path (":memory:" included),
// served by the cgo-free modernc driver. TranslateError is enabled so
// duplicate-key violations surface as gorm.ErrDuplicatedKey on both backends.
func Connect(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
}

// SQLite extended result codes for unique-constraint violations. Gorm's
// translator only recognizes the cgo driver's error type, so the modernc
// codes are matched here.
const (
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// IsDuplicateKey reports whether err is a unique-constraint violation on
// either backend.
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqliteConstraintPrimaryKey || code == sqliteConstraintUnique
	}

	return false
}
