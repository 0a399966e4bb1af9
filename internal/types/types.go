package types

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// StringPtr converts a string to a pointer to a string
func StringPtr(s string) *string {
	return &s
}

// StringNilOrEmpty checks if a pointer to a string is nil or empty
func StringNilOrEmpty(s *string) bool {
	return s == nil || *s == ""
}

// SafeString returns a safe string from a pointer to a string
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// IsPositiveNumeric checks if a string is a valid positive numeric value
func IsPositiveNumeric(s string) bool {
	regex := regexp.MustCompile(`^[1-9][0-9]*$`)
	return regex.MatchString(s)
}

// IsHolderAddress checks if a string is a valid EVM-style holder address
func IsHolderAddress(s string) bool {
	return common.IsHexAddress(s)
}

// IsValidURL checks if a string is a valid HTTP or HTTPS URL
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == "" || strings.Contains(u.Host, " ") {
		return false
	}
	return true
}

// IsHTTPSURL checks if a string is a valid HTTPS URL
func IsHTTPSURL(s string) bool {
	return IsValidURL(s) && strings.HasPrefix(s, "https://")
}

// NormalizeAddress canonicalizes a holder address to its checksummed form so
// column lookups are insensitive to input casing
func NormalizeAddress(s string) string {
	if !common.IsHexAddress(s) {
		return s
	}
	return common.HexToAddress(s).Hex()
}
