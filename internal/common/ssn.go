package common

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeSSN strips separators from a social security number, left-pads
// short values that lost leading zeros in spreadsheet round-trips, and
// validates the result against SSA issuance rules. The canonical form is
// nine digits with no separators.
func NormalizeSSN(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == '-' || r == ' ':
			// separator, drop
		default:
			return "", fmt.Errorf("SSN contains invalid character %q", r)
		}
	}

	ssn := digits.String()
	if ssn == "" {
		return "", fmt.Errorf("SSN is empty")
	}

	// Excel exports commonly drop leading zeros
	if len(ssn) >= 7 && len(ssn) < 9 {
		ssn = strings.Repeat("0", 9-len(ssn)) + ssn
	}

	if len(ssn) != 9 {
		return "", fmt.Errorf("SSN must be 9 digits, got %d", len(ssn))
	}

	area, group, serial := ssn[0:3], ssn[3:5], ssn[5:9]

	areaNum, _ := strconv.Atoi(area)
	if area == "000" || area == "666" || areaNum >= 900 {
		return "", fmt.Errorf("SSN has invalid area number %s", area)
	}
	if group == "00" {
		return "", fmt.Errorf("SSN has invalid group number %s", group)
	}
	if serial == "0000" {
		return "", fmt.Errorf("SSN has invalid serial number %s", serial)
	}

	return ssn, nil
}

// FormatSSN renders a canonical SSN with dashes for display
func FormatSSN(ssn string) string {
	if len(ssn) != 9 {
		return ssn
	}
	return ssn[0:3] + "-" + ssn[3:5] + "-" + ssn[5:9]
}
