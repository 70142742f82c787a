package astroreturn

import (
	"fmt"

	"github.com/thurmanmarka/astroreturn/internal/solver"
)

var (
	// ErrInvalidInput is returned for non-positive tolerances, occurrence
	// counts below one, non-finite longitudes or instants and malformed
	// bodies.
	ErrInvalidInput = solver.ErrInvalid

	// ErrCrossingNotFound means no occurrence was found within the search
	// horizon (the iteration bound). It is a reportable outcome, not a
	// transient failure: retrying the same query gives the same answer.
	ErrCrossingNotFound = solver.ErrNotFound

	// ErrProvider wraps failures from the LongitudeProvider.
	ErrProvider = solver.ErrLookup
)

// OccurrenceError reports which return was being resolved when a
// sequenced search failed.
type OccurrenceError struct {
	Body       string
	Occurrence int // 1-based
	Err        error
}

func (e *OccurrenceError) Error() string {
	return fmt.Sprintf("%s return #%d: %v", e.Body, e.Occurrence, e.Err)
}

func (e *OccurrenceError) Unwrap() error { return e.Err }
