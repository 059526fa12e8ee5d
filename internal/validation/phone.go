package validation

import (
	"errors"
	"strings"
)

// NormalizePhone strips formatting from a phone number and returns it in
// E.164 form. Ten-digit numbers are assumed to be North American.
func NormalizePhone(phone string) (string, error) {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return "", errors.New("phone number is required")
	}

	var digits strings.Builder
	for i, r := range trimmed {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return "", errors.New("phone number contains invalid characters")
		}
	}

	d := digits.String()
	if !strings.HasPrefix(trimmed, "+") {
		switch {
		case len(d) == 10:
			d = "1" + d
		case len(d) == 11 && d[0] == '1':
		default:
			return "", errors.New("phone number must include a country code")
		}
	}

	if len(d) < 8 || len(d) > 15 {
		return "", errors.New("phone number must have 8 to 15 digits")
	}
	if d[0] == '0' {
		return "", errors.New("country code cannot start with 0")
	}

	return "+" + d, nil
}
