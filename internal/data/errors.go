package data

import "github.com/dtapi/booking-api/internal/core"

// Repository errors. These alias the core sentinels so callers outside the
// data layer can match them without importing it.
var (
	ErrJobNotFound        = core.ErrJobNotFound
	ErrUserNotFound       = core.ErrUserNotFound
	ErrJobAlreadyAccepted = core.ErrJobAlreadyAccepted
	ErrTranslatorBooked   = core.ErrTranslatorBooked
	ErrJobNotCancellable  = core.ErrJobNotCancellable
	ErrInvalidTransition  = core.ErrInvalidTransition
)
