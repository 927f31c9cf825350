package services

import (
	"fmt"

	"couponhub/internal/domain"
)

// invalid tags a validation failure with domain.ErrInvalid and keeps the field
// errors reachable through errors.As.
func invalid(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrInvalid, err)
}
