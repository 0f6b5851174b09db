package core

import "errors"

// Sentinel errors returned by JobRepository and UserRepository implementations.
var (
	ErrJobNotFound  = errors.New("job not found")
	ErrUserNotFound = errors.New("user not found")

	// ErrJobAlreadyAccepted is returned when a translator accepts a job that is no longer pending.
	ErrJobAlreadyAccepted = errors.New("job already accepted")
	// ErrTranslatorBooked is returned when the translator has an overlapping assignment.
	ErrTranslatorBooked = errors.New("translator already booked for this time")
	// ErrJobNotCancellable is returned when the job left the state the cancellation was planned for.
	ErrJobNotCancellable = errors.New("job cannot be cancelled in its current state")
	// ErrInvalidTransition is returned when the job's status does not allow the transition.
	ErrInvalidTransition = errors.New("invalid job status transition")
)
