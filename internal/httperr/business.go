package httperr

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgconn"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindPastTime   Kind = "past_time"
)

// BusinessError is a rule violation reported to the caller as-is.
type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func New(kind Kind, code, message string) BusinessError {
	return BusinessError{Kind: kind, Code: code, Message: message}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}

// --------------------------------------------------
// Infrastructure
// --------------------------------------------------

// ErrInfrastructure marks store, cache and broker failures.
var ErrInfrastructure = errors.New("infrastructure failure")

func Infra(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := AsBusiness(err); ok {
		return err
	}
	if errors.Is(err, ErrInfrastructure) {
		return err
	}
	return errors.Mark(errors.Wrap(err, msg), ErrInfrastructure)
}

func IsInfrastructure(err error) bool {
	return errors.Is(err, ErrInfrastructure)
}

// IsTimeout reports whether err was caused by an expired or cancelled context.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// --------------------------------------------------
// Postgres
// --------------------------------------------------

const pgUniqueViolation = "23505"

func IsUniqueViolation(err error) bool {
	return hasPgCode(err, pgUniqueViolation)
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
