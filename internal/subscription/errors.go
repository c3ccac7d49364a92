package subscription

import "errors"

var (
	// ErrCodeNotFound covers unknown, expired and already-redeemed codes
	// alike; callers must not leak the distinction to end users.
	ErrCodeNotFound = errors.New("activation code not found or already used")

	ErrPlanUnavailable = errors.New("subscription plan is unavailable")
	ErrNoDefaultPlan   = errors.New("no default subscription plan configured")
	ErrInvalidDuration = errors.New("subscription duration must be positive")
)
