package utils

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// IsUniqueViolation reports whether err came from a unique constraint,
// regardless of which driver produced it.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error

	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var myErr *mysql.MySQLError

	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// sqlite (tests) has no typed error exposed through the pure-Go driver
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
