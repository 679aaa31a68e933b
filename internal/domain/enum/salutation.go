package enum

import "strings"

// Salutation is the form of address used in letters.
type Salutation string

const (
	SalutationNone Salutation = ""
	SalutationHerr Salutation = "herr"
	SalutationFrau Salutation = "frau"
)

// ParseSalutation accepts "Herr", "Frau" and their English equivalents.
// Anything else maps to SalutationNone.
func ParseSalutation(s string) Salutation {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "herr", "mr", "mr.":
		return SalutationHerr
	case "frau", "mrs", "mrs.", "ms", "ms.":
		return SalutationFrau
	default:
		return SalutationNone
	}
}
