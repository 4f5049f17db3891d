package usecase

import (
	"errors"
	"fmt"
)

// GenericFailureMessage is the only text a caller sees for failures that are
// not validation errors.
const GenericFailureMessage = "Something went wrong, please try again later"

// PersistenceError wraps a failed subscriber upsert.
type PersistenceError struct {
	Email string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist subscriber %s: %v", e.Email, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func IsPersistenceError(err error) bool {
	var pErr *PersistenceError
	return errors.As(err, &pErr)
}

// NotificationError wraps a failed email delivery.
type NotificationError struct {
	Recipient string
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify %s: %v", e.Recipient, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

func IsNotificationError(err error) bool {
	var nErr *NotificationError
	return errors.As(err, &nErr)
}
