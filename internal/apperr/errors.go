package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a uniqueness or state conflict (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidTransition indicates a delivery status change that is not in the
// transition table for the delivery's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrInsufficientSchedule indicates that a schedule walk hit its probe
// ceiling before collecting the requested number of delivery dates.
var ErrInsufficientSchedule = errors.New("insufficient schedule")
