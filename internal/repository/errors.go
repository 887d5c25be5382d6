// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a row does not exist or, for owner-scoped
// lookups, exists but belongs to someone else. Handlers translate it into
// HTTP 404 so the existence of other users' items is never revealed.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique key (username
// or email). Handlers translate it into HTTP 409.
var ErrDuplicate = errors.New("duplicate")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
