package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFacadeID is returned before any request is sent when the
	// caller passed an empty facade id.
	ErrMissingFacadeID = errors.New("facade id is required")

	// ErrNotApplicable marks a 404 from the refrigerant-cycle endpoint:
	// the facade has no refrigeration subsystem, which is a domain
	// condition rather than a transport failure.
	ErrNotApplicable = errors.New("refrigerant cycle is not applicable to this facade")
)

// StatusError is a non-success HTTP response from the measurement API.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d %s", e.Code, e.Status)
}
