package domain

import (
	"regexp"
	"strings"
)

var dniPattern = regexp.MustCompile(`^[0-9]{8}$`)

// Voter is the identity returned by the registry for a DNI.
type Voter struct {
	DNI        string  `json:"dni"`
	FullName   string  `json:"full_name"`
	Address    string  `json:"address"`
	District   string  `json:"district"`
	Province   string  `json:"province"`
	Department string  `json:"department"`
	BirthDate  string  `json:"birth_date"`
	PhotoURL   *string `json:"photo_url,omitempty"`
}

// ValidateDNI trims dni and checks it is exactly eight digits.
func ValidateDNI(dni string) (string, error) {
	dni = strings.TrimSpace(dni)
	if !dniPattern.MatchString(dni) {
		return "", ErrInvalidDNI
	}
	return dni, nil
}

// MaskDNI keeps the last three digits, for logs.
func MaskDNI(dni string) string {
	if len(dni) <= 3 {
		return strings.Repeat("*", len(dni))
	}
	return strings.Repeat("*", len(dni)-3) + dni[len(dni)-3:]
}

// Initials returns up to two upper-case initials of the full name.
func (v Voter) Initials() string {
	var initials []rune
	for _, part := range strings.Fields(v.FullName) {
		initials = append(initials, []rune(part)[0])
		if len(initials) == 2 {
			break
		}
	}
	return strings.ToUpper(string(initials))
}
