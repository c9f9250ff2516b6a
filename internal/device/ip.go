package device

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var dottedQuad = regexp.MustCompile(`^(?:(?:25[0-5]|(?:2[0-4]|1\d|[1-9]|)\d)\.?\b){4}$`)

// ValidIPv4 reports whether s is a canonical dotted quad as typed by an operator.
func ValidIPv4(s string) bool {
	return dottedQuad.MatchString(s)
}

// ReIPAddress turns the device's zero-padded "192.168.001.010" into the
// canonical "192.168.1.10". Octets that are not numbers are kept as they are.
func ReIPAddress(wire string) string {
	if wire == "" {
		return ""
	}
	octets := strings.Split(wire, ".")
	for i, o := range octets {
		if n, err := strconv.Atoi(o); err == nil {
			octets[i] = strconv.Itoa(n)
		}
	}
	return strings.Join(octets, ".")
}

// DeIPAddress turns a canonical "192.168.1.10" into the three-digit-per-octet
// form the device expects on submission.
func DeIPAddress(display string) (string, error) {
	octets := strings.Split(strings.TrimSpace(display), ".")
	if len(octets) != 4 {
		return "", fmt.Errorf("ip address %q: expected 4 octets", display)
	}
	for i, o := range octets {
		if !isDigits(o) {
			return "", fmt.Errorf("ip address %q: invalid octet %q", display, o)
		}
		n, err := strconv.Atoi(o)
		if err != nil || n > 255 {
			return "", fmt.Errorf("ip address %q: invalid octet %q", display, o)
		}
		octets[i] = fmt.Sprintf("%03d", n)
	}
	return strings.Join(octets, "."), nil
}

// isDigits reports whether s is one to three ASCII digits.
func isDigits(s string) bool {
	if s == "" || len(s) > 3 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
