package rentals

import (
	"errors"
	"fmt"
	"strings"

	"renthub/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentinels returned by store implementations.
var (
	ErrNoDocument = errors.New("document not found")
	ErrDuplicate  = errors.New("duplicate document")
)

// ValidationError is returned before any side effect when input is incomplete.
type ValidationError struct {
	Details []string
}

func (e ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, ", ")
}

// GeocodeError aborts property creation when the address does not resolve.
type GeocodeError struct {
	Address string
	Err     error
}

func (e GeocodeError) Error() string {
	return fmt.Sprintf("address could not be located: %s", e.Address)
}

func (e GeocodeError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

type ForbiddenError struct {
	Reason string
}

func (e ForbiddenError) Error() string {
	return "forbidden: " + e.Reason
}

// RequestExistsError rejects a second request for the same tenant and property.
type RequestExistsError struct {
	RequestID primitive.ObjectID
	Status    models.RequestStatus
}

func (e RequestExistsError) Error() string {
	return fmt.Sprintf("a %s request already exists for this property", e.Status)
}

// NotPendingError rejects a withdrawal of a request that was already decided.
type NotPendingError struct {
	RequestID primitive.ObjectID
	Status    models.RequestStatus
}

func (e NotPendingError) Error() string {
	return fmt.Sprintf("request is already %s and can no longer be withdrawn", e.Status)
}

// WriteConflict is raised when a concurrent writer won a guarded write.
type WriteConflict struct {
	Op  string
	Err error
}

func (e WriteConflict) Error() string {
	return fmt.Sprintf("%s: conflicting concurrent write", e.Op)
}

func (e WriteConflict) Unwrap() error { return e.Err }

// RemoteCallError wraps a failed call to the document store or another
// external service.
type RemoteCallError struct {
	Op  string
	Err error
}

func (e RemoteCallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e RemoteCallError) Unwrap() error { return e.Err }

func remote(op string, err error) error {
	return RemoteCallError{Op: op, Err: err}
}
