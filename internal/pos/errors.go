package pos

import (
	"errors"
	"fmt"
)

// ErrInvalidRate is returned when an exchange rate is zero, negative or
// otherwise unusable. Callers are expected to fall back to DefaultRate
// instead of failing the whole request.
var ErrInvalidRate = errors.New("exchange rate must be a positive number")

// StockExceededError is returned when a cart mutation would push a line
// item past the known stock of its product. The cart is left unchanged.
type StockExceededError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("not enough stock for %s: requested %d, available %d", e.Name, e.Requested, e.Available)
}

// ValidationError is returned for malformed cart input (negative quantity,
// unknown product and so on) before anything reaches the calculator.
type ValidationError struct {
	ProductID string
	Message   string
}

func (e *ValidationError) Error() string {
	if e.ProductID == "" {
		return e.Message
	}
	return e.ProductID + ": " + e.Message
}
