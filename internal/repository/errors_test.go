package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestTranslateMapsDriverErrors(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"duplicate entry", &mysql.MySQLError{Number: 1062}, ErrConflict},
		{"row referenced", &mysql.MySQLError{Number: 1451}, ErrRestricted},
		{"missing parent", &mysql.MySQLError{Number: 1452}, ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := translate(tc.in); !errors.Is(got, tc.want) {
				t.Fatalf("translate(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestTranslatePassesUnknownErrorsThrough(t *testing.T) {
	in := fmt.Errorf("connection reset")
	if got := translate(in); got != in {
		t.Fatalf("unknown error was rewritten: %v", got)
	}
	if translate(nil) != nil {
		t.Fatal("nil error should stay nil")
	}
}

func TestTranslateKeepsWrappedDriverError(t *testing.T) {
	in := fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062})
	if got := translate(in); !errors.Is(got, ErrConflict) {
		t.Fatalf("wrapped duplicate should map to ErrConflict, got %v", got)
	}
}

func TestIsDuplicate(t *testing.T) {
	if !IsDuplicate(ErrConflict) {
		t.Fatal("ErrConflict should count as duplicate")
	}
	if !IsDuplicate(&mysql.MySQLError{Number: 1062}) {
		t.Fatal("raw 1062 should count as duplicate")
	}
	if IsDuplicate(sql.ErrNoRows) {
		t.Fatal("no-rows is not a duplicate")
	}
}
