package validation

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Length limits for user-supplied strings.
const (
	MaxTextLength       = 1000
	MaxCorrectionLength = 500
	MaxTokenLength      = 100
	DefaultListLimit    = 50
	MaxListLimit        = 500
)

// ValidateProductText checks a raw product string submitted for normalization.
func ValidateProductText(text string) (bool, string) {
	if strings.TrimSpace(text) == "" {
		return false, "text is required"
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return false, "text is too long"
	}
	if hasControl(text) {
		return false, "text contains control characters"
	}
	return true, ""
}

// ValidateCorrection checks a reviewer correction. An empty correction is
// valid and means "approve as is".
func ValidateCorrection(correction string) (bool, string) {
	if utf8.RuneCountInString(correction) > MaxCorrectionLength {
		return false, "correction is too long"
	}
	if hasControl(correction) {
		return false, "correction contains control characters"
	}
	return true, ""
}

// ValidateVocabularyToken checks a vocabulary token. Tokens may contain
// spaces ("fl oz") and punctuation ("s/s") but not control characters.
func ValidateVocabularyToken(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" || utf8.RuneCountInString(token) > MaxTokenLength {
		return false
	}
	return !hasControl(token)
}

// ClampLimit returns limit bounded to [1, MaxListLimit], or DefaultListLimit
// when limit is not positive.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

func hasControl(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}
