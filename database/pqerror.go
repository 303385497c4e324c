package database

import (
	"errors"

	"github.com/lib/pq"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

func IsUniqueViolation(err error) bool {
	var pqerr *pq.Error
	return errors.As(err, &pqerr) && pqerr.Code == codeUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	var pqerr *pq.Error
	return errors.As(err, &pqerr) && pqerr.Code == codeForeignKeyViolation
}

func IsCheckViolation(err error) bool {
	var pqerr *pq.Error
	return errors.As(err, &pqerr) && pqerr.Code == codeCheckViolation
}

// ConstraintName returns the name of the violated constraint, if any, so
// callers can tell which reference failed.
func ConstraintName(err error) string {
	var pqerr *pq.Error
	if errors.As(err, &pqerr) {
		return pqerr.Constraint
	}
	return ""
}
