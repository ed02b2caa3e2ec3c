package service

import "errors"

// ErrValidation wraps all bad-input failures so handlers can map them to
// a single response shape.
var ErrValidation = errors.New("validation failed")

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrOfficerNotFound   = errors.New("officer not found")
	ErrStationNotFound   = errors.New("station not found")
)
