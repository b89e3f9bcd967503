package converter

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"fxconvert/internal/rates"
)

// DefaultMaxAmount is the largest amount accepted for conversion.
const DefaultMaxAmount = 1_000_000_000

var (
	// ErrUnknownCurrency is returned when a currency code has no rate in the snapshot.
	ErrUnknownCurrency = errors.New("unknown currency")
	// ErrInvalidRate is returned when a resolved rate is zero or negative.
	ErrInvalidRate = errors.New("invalid rate")
	// ErrInvalidAmount is returned when the amount input is not a number.
	ErrInvalidAmount = errors.New("amount is not a numeric value")
	// ErrAmountNotPositive is returned for amounts less than or equal to zero.
	ErrAmountNotPositive = errors.New("amount must be greater than 0")
	// ErrAmountTooLarge is returned for amounts above the configured maximum.
	ErrAmountTooLarge = errors.New("amount exceeds the maximum")
)

// Convert returns amount expressed in target, using the cross-rate through the
// snapshot base. Both codes must be present before either rate is checked.
// No rounding is applied.
func Convert(s *rates.Snapshot, source, target string, amount float64) (float64, error) {
	srcRate, ok := s.Rate(source)
	if !ok {
		return 0, unknownCurrency("source", source)
	}
	tgtRate, ok := s.Rate(target)
	if !ok {
		return 0, unknownCurrency("target", target)
	}
	if srcRate <= 0 {
		return 0, invalidRate("source", source, srcRate)
	}
	if tgtRate <= 0 {
		return 0, invalidRate("target", target, tgtRate)
	}
	return amount * (tgtRate / srcRate), nil
}

func unknownCurrency(role, code string) error {
	return fmt.Errorf("%w: %s currency %s is not available in the data", ErrUnknownCurrency, role, code)
}

func invalidRate(role, code string, r float64) error {
	return fmt.Errorf("%w: %s currency rate %s is %v", ErrInvalidRate, role, code, r)
}

// ValidateAmount checks that amount lies in (0, maxAmount].
func ValidateAmount(amount, maxAmount float64) error {
	if math.IsNaN(amount) {
		return ErrInvalidAmount
	}
	if amount <= 0 {
		return ErrAmountNotPositive
	}
	if amount > maxAmount {
		return ErrAmountTooLarge
	}
	return nil
}

// maxMagnitude bounds the decimal exponent of parsed input. Anything outside
// it over- or underflows float64 anyway.
const maxMagnitude = 330

// ParseAmount parses user input as a decimal amount and validates its range.
// Thousands separators are not accepted.
func ParseAmount(input string, maxAmount float64) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return 0, ErrAmountNotPositive
	}
	// digits before the decimal point; converting a huge exponent is unbounded work
	intDigits := d.NumDigits() + int(d.Exponent())
	if intDigits > maxMagnitude {
		return 0, ErrAmountTooLarge
	}
	if intDigits < -maxMagnitude {
		return 0, ErrAmountNotPositive
	}
	amount := d.InexactFloat64()
	if err := ValidateAmount(amount, maxAmount); err != nil {
		return 0, err
	}
	return amount, nil
}
