package types

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrDonorNotFound    = errors.New("donor not found")
	ErrDonationNotFound = errors.New("donation not found")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrTaskNotFound     = errors.New("task not found")

	// ErrInvalidCredentials is returned for both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrInsightsDisabled = errors.New("ai insights are not configured")
	ErrExportDisabled   = errors.New("report export is not configured")
)

// ValidationError carries a message that is safe to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrDonorNotFound) ||
		errors.Is(err, ErrDonationNotFound) ||
		errors.Is(err, ErrCampaignNotFound) ||
		errors.Is(err, ErrTaskNotFound)
}
