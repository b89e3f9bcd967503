// Package converter implements the currency catalog and the cross-rate
// conversion performed against an active rate snapshot.
package converter

import (
	"fxconvert/internal/rates"
)

// Currency is a catalog entry.
type Currency struct {
	Code string
	Name string
}

// Catalog is an ordered list of known currencies.
type Catalog []Currency

// DefaultCatalog lists the currencies offered by the converter, in menu order.
var DefaultCatalog = Catalog{
	{"USD", "US Dollar"},
	{"EUR", "Euro"},
	{"RUB", "Russian Ruble"},
	{"UAH", "Ukrainian Hryvnia"},
	{"GBP", "British Pound Sterling"},
	{"JPY", "Japanese Yen"},
	{"CNY", "Chinese Yuan"},
	{"KZT", "Kazakhstani Tenge"},
	{"BYN", "Belarusian Ruble"},
	{"PLN", "Polish Zloty"},
	{"CAD", "Canadian Dollar"},
	{"AUD", "Australian Dollar"},
	{"CHF", "Swiss Franc"},
	{"CZK", "Czech Koruna"},
	{"SEK", "Swedish Krona"},
	{"NOK", "Norwegian Krone"},
	{"MXN", "Mexican Peso"},
	{"SGD", "Singapore Dollar"},
	{"HKD", "Hong Kong Dollar"},
	{"NZD", "New Zealand Dollar"},
	{"ILS", "Israeli Shekel"},
	{"KRW", "South Korean Won"},
}

// Name returns the display name for code, or the code itself when unknown.
func (c Catalog) Name(code string) string {
	for _, cur := range c {
		if cur.Code == code {
			return cur.Name
		}
	}
	return code
}

// AvailableCurrencies filters the catalog down to currencies that have a
// strictly positive rate in the snapshot. Catalog order is preserved.
func AvailableCurrencies(s *rates.Snapshot, catalog Catalog) []Currency {
	if s == nil {
		return nil
	}
	out := make([]Currency, 0, len(catalog))
	for _, cur := range catalog {
		if r, ok := s.Rate(cur.Code); ok && r > 0 {
			out = append(out, cur)
		}
	}
	return out
}

// MissingCurrencies returns the codes from required that are absent from the
// snapshot or carry a non-positive rate.
func MissingCurrencies(s *rates.Snapshot, required []string) []string {
	var missing []string
	for _, code := range required {
		if r, ok := s.Rate(code); !ok || r <= 0 {
			missing = append(missing, code)
		}
	}
	return missing
}
