package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Common repository errors
var (
	ErrNotFound          = errors.New("record not found")
	ErrCollectionMissing = errors.New("collection does not exist")
	ErrDuplicateKey      = errors.New("duplicate key violation")
)

const (
	pgUndefinedTable  = "42P01"
	pgUniqueViolation = "23505"
)

// CollectionMissingError reports which collection is absent. It matches
// ErrCollectionMissing with errors.Is.
type CollectionMissingError struct {
	Collection string
	Err        error
}

func (e *CollectionMissingError) Error() string {
	return fmt.Sprintf("collection %q does not exist: %v", e.Collection, e.Err)
}

func (e *CollectionMissingError) Unwrap() error { return e.Err }

func (e *CollectionMissingError) Is(target error) bool {
	return target == ErrCollectionMissing
}

// translate maps driver errors onto the repository taxonomy.
func translate(err error, collection string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isUndefinedTable(err) {
		return &CollectionMissingError{Collection: collection, Err: err}
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	}
	return err
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedTable
	}
	return strings.Contains(err.Error(), "no such table")
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
