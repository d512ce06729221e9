// Package repository implements the storage layer over database/sql.
// Sentinel errors defined here let handlers pick a distinct HTTP status
// per failure class: ErrNotFound maps to 404, ErrConflict and
// ErrRestricted to 409, ErrForbidden to 403.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the referenced row does not exist or is
// inactive.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert or update violates a
// uniqueness constraint (duplicate username, email, plate, code, seat
// claim).
var ErrConflict = errors.New("conflict")

// ErrRestricted is returned when a delete is blocked by a
// delete-restrict foreign key, e.g. removing a schedule that still has
// reservations.
var ErrRestricted = errors.New("restricted by dependent records")

// ErrForbidden is returned when the caller does not own the resource.
var ErrForbidden = errors.New("forbidden")

// MySQL error numbers the storage layer translates.
const (
	mysqlDuplicateEntry = 1062
	mysqlRowReferenced  = 1451
	mysqlNoReferencedRow = 1452
)

// translate maps driver-level errors onto the sentinel set. Unknown
// errors pass through untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry:
			return ErrConflict
		case mysqlRowReferenced:
			return ErrRestricted
		case mysqlNoReferencedRow:
			return ErrNotFound
		}
	}
	return err
}

// IsDuplicate reports whether err is a uniqueness violation, either
// already translated or still in driver form. The reservation flow uses
// it to retry booking-code collisions.
func IsDuplicate(err error) bool {
	if errors.Is(err, ErrConflict) {
		return true
	}
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
