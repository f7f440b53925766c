package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrStepLocked         = errors.New("step not reachable yet")
	ErrSubmitInFlight     = errors.New("order submission already in progress")
	ErrBackendUnreachable = errors.New("commerce backend unreachable")
	ErrPostalNotFound     = errors.New("postal code not found")
)

// BackendError is a request the commerce backend rejected with a detail
// message. The message is surfaced to the user verbatim.
type BackendError struct {
	Status int
	Detail string
}

func (e *BackendError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend rejected request with status %d", e.Status)
}
