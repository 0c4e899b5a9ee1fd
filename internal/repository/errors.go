package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert hits a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrStaleState is returned when a conditional update matched no row
	// because another writer changed it first.
	ErrStaleState = errors.New("record changed concurrently")
)

// translate maps gorm errors onto the repository sentinels. The connection
// must be opened with TranslateError so that driver errors become gorm ones.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
