package db

import (
	"errors"
	"strings"

	pkgerrors "github.com/wiryasaputra/gerai-backend/pkg/errors"
	"gorm.io/gorm"
)

// transientFragments match the storage failures worth one automatic retry:
// sqlite lock contention and postgres serialization/deadlock aborts.
var transientFragments = []string{
	"database is locked",   // sqlite SQLITE_BUSY
	"database table is locked",
	"sqlstate 40001",       // pg serialization_failure
	"sqlstate 40p01",       // pg deadlock_detected
	"deadlock detected",
}

// IsTransient reports whether err looks like a storage failure that may
// succeed on retry. The whole unwrap chain is inspected, so a driver error
// wrapped by WrapPersistence still qualifies. Domain rejections carry no
// transient cause and never match.
func IsTransient(err error) bool {
	for err != nil {
		msg := strings.ToLower(err.Error())
		for _, fragment := range transientFragments {
			if strings.Contains(msg, fragment) {
				return true
			}
		}
		err = errors.Unwrap(err)
	}
	return false
}

// WrapPersistence converts a raw storage error into the typed dependency
// failure surfaced to callers.
func WrapPersistence(err error, message string) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}

// IsNotFound reports whether err is GORM's record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
