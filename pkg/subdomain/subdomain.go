package subdomain

import (
	"regexp"
	"strings"
)

// Label length limits follow DNS constraints and the tenants table schema.
const (
	MinLength = 3
	MaxLength = 100
)

// labelPattern ensures DNS-safe tenant labels: lowercase alphanumeric
// groups separated by single hyphens, no leading or trailing hyphen.
var labelPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// reserved labels can never be claimed as tenant subdomains because they
// collide with infrastructure hostnames.
var reserved = map[string]struct{}{
	"www":       {},
	"api":       {},
	"admin":     {},
	"app":       {},
	"mail":      {},
	"ftp":       {},
	"localhost": {},
}

// Extract parses a request Host header and returns the tenant subdomain
// under baseDomain. Returns false when the host is not under baseDomain
// or carries no subdomain label.
//
// A regular base domain contributes two labels itself ("example.com"),
// so a tenant host needs at least three; "localhost" contributes one,
// so two suffice there.
//
//	Extract("acme.example.com", "example.com")   // "acme", true
//	Extract("example.com", "example.com")        // "", false
//	Extract("acme.localhost:8000", "localhost")  // "acme", true
//	Extract("localhost:8000", "localhost")       // "", false
//
// Extract is pure: no I/O, no side effects.
func Extract(host, baseDomain string) (string, bool) {
	// Strip port if present.
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}

	if !strings.HasSuffix(host, baseDomain) {
		return "", false
	}

	minLabels := 3
	if baseDomain == "localhost" {
		minLabels = 2
	}

	parts := strings.Split(host, ".")
	if len(parts) < minLabels || parts[0] == "" {
		return "", false
	}

	return parts[0], true
}

// Normalize lowercases a label for storage and lookup. Subdomains are
// matched case-sensitively against already-normalized values.
func Normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Valid reports whether label is an acceptable tenant subdomain:
// normalized form, allowed length and character set.
func Valid(label string) bool {
	if len(label) < MinLength || len(label) > MaxLength {
		return false
	}
	return labelPattern.MatchString(label)
}

// Reserved reports whether label is in the reserved set, case-insensitive.
func Reserved(label string) bool {
	_, ok := reserved[strings.ToLower(label)]
	return ok
}
