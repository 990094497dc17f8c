package validation

import (
	"strings"
	"testing"
)

func TestValidateProductText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		valid   bool
		wantMsg string
	}{
		{"simple", "Nvy Blue T-shirt", true, ""},
		{"unicode", "Chemise à manches courtes", true, ""},
		{"shopify combined", "navy-tee | Nvy Blue T-shirt", true, ""},
		{"empty", "", false, "text is required"},
		{"blank", "   ", false, "text is required"},
		{"too long", strings.Repeat("a", MaxTextLength+1), false, "text is too long"},
		{"max length", strings.Repeat("a", MaxTextLength), true, ""},
		{"newline", "Polo\ntee", false, "text contains control characters"},
		{"nul byte", "Polo\x00tee", false, "text contains control characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateProductText(tt.text)
			if valid != tt.valid || msg != tt.wantMsg {
				t.Errorf("ValidateProductText(%q) = (%v, %q), want (%v, %q)", tt.text, valid, msg, tt.valid, tt.wantMsg)
			}
		})
	}
}

func TestValidateCorrection(t *testing.T) {
	tests := []struct {
		name       string
		correction string
		valid      bool
	}{
		{"empty means approve", "", true},
		{"normal", "Red Shirt", true},
		{"too long", strings.Repeat("x", MaxCorrectionLength+1), false},
		{"tab", "Red\tShirt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if valid, _ := ValidateCorrection(tt.correction); valid != tt.valid {
				t.Errorf("ValidateCorrection(%q) = %v, want %v", tt.correction, valid, tt.valid)
			}
		})
	}
}

func TestValidateVocabularyToken(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"nvy", true},
		{"fl oz", true},
		{"s/s", true},
		{"", false},
		{"  ", false},
		{strings.Repeat("t", MaxTokenLength+1), false},
		{"bad\ttoken", false},
	}

	for _, tt := range tests {
		if got := ValidateVocabularyToken(tt.token); got != tt.want {
			t.Errorf("ValidateVocabularyToken(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultListLimit},
		{-3, DefaultListLimit},
		{10, 10},
		{MaxListLimit + 1, MaxListLimit},
	}

	for _, tt := range tests {
		if got := ClampLimit(tt.in); got != tt.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		valid   bool
		wantMsg string
	}{
		{"valid https", "https://catalog.example.com", true, ""},
		{"valid http with port", "http://localhost:8000", true, ""},
		{"empty string", "", false, "URL is required"},
		{"javascript scheme", "javascript:alert(1)", false, "URL must use http:// or https:// scheme"},
		{"ftp scheme", "ftp://example.com", false, "URL must use http:// or https:// scheme"},
		{"missing host", "http://", false, "URL must have a valid host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateURL(tt.url)
			if valid != tt.valid || msg != tt.wantMsg {
				t.Errorf("ValidateURL(%q) = (%v, %q), want (%v, %q)", tt.url, valid, msg, tt.valid, tt.wantMsg)
			}
		})
	}
}
