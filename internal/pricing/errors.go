package pricing

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidWindow       = errors.New("window start is after its end")
	ErrOverlappingContract = errors.New("contract window overlaps an existing contract")
	ErrRateOutsideSeason   = errors.New("rate window falls outside the season window")
	ErrExpiredSeason       = errors.New("season has already ended")
	ErrInvalidStay         = errors.New("departure must be after arrival")
)

// ConflictError carries the id of the record a write collided with.
// It unwraps to one of the sentinel errors above so callers can keep
// matching with errors.Is.
type ConflictError struct {
	Err           error
	ConflictingID uuid.UUID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v (conflicting record %s)", e.Err, e.ConflictingID)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}
