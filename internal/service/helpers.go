package service

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/worktime/internal/domain"
)

// persistence tags a storage failure with domain.ErrPersistence while
// keeping the driver error reachable through errors.Is/As.
func persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
}

func isPersistence(err error) bool {
	return errors.Is(err, domain.ErrPersistence)
}
