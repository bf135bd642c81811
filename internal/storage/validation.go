package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/udhaarapp/udhaar/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidLoan    = errors.New("invalid loan")
	ErrInvalidProfile = errors.New("invalid profile")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateLoans validates a loan collection before it is persisted. An empty
// collection is valid (rejecting the last loan leaves nothing behind).
func validateLoans(loans []model.Loan) error {
	if loans == nil {
		return fmt.Errorf("%w: loans", ErrNilParameter)
	}

	for i, loan := range loans {
		if err := validateLoan(&loan); err != nil {
			return fmt.Errorf("loan at index %d: %w", i, err)
		}
	}
	return nil
}

// validateLoan validates a single loan record.
func validateLoan(loan *model.Loan) error {
	if loan == nil {
		return fmt.Errorf("%w: loan", ErrNilParameter)
	}
	if loan.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidLoan)
	}
	if loan.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidLoan)
	}
	if !loan.Direction.Valid() {
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidLoan, loan.Direction)
	}
	// Private loans never reference a remote row.
	if !loan.IsSynced && loan.RemoteID != "" {
		return fmt.Errorf("%w: unsynced loan carries remote id", ErrInvalidLoan)
	}
	if loan.Status != "" && !loan.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidLoan, loan.Status)
	}
	return nil
}

// validateProfile validates the user profile before it is persisted.
func validateProfile(profile *model.UserProfile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile", ErrNilParameter)
	}
	if strings.TrimSpace(profile.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidProfile)
	}
	if strings.TrimSpace(profile.Mobile) == "" {
		return fmt.Errorf("%w: missing mobile number", ErrInvalidProfile)
	}
	return nil
}
