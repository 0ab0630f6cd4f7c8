// Package repository holds the SQL stores behind the services.  Every query
// is parameterized; request data never becomes part of the query text.
//
// The sentinel errors below let services tell failure scenarios apart
// without depending on a particular driver.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique constraint,
// such as registering an email twice.
var ErrDuplicate = errors.New("duplicate key")

// ErrStatusConflict is returned by conditional status updates when the row
// no longer holds the expected status.  Callers should re-read the row to
// decide what happened.
var ErrStatusConflict = errors.New("status changed concurrently")

const mysqlDuplicateEntry = 1062

// isUniqueViolation recognises duplicate key errors from both drivers.
func isUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
