package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

const (
	// DefaultMaxStringLength is the default maximum length for truncated strings
	DefaultMaxStringLength = 500
)

// TruncateString shortens s to at most maxLen characters, appending a suffix
// that records the original total length so callers know data was omitted.
// Characters are code points; the cut never splits a multi-byte sequence.
// If maxLen is zero or negative, [DefaultMaxStringLength] is used instead.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	total := utf8.RuneCountInString(s)
	if total <= maxLen {
		return s
	}
	cut, n := 0, 0
	for i := range s {
		if n == maxLen {
			cut = i
			break
		}
		n++
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:cut], total)
}

// TruncateStringDefault truncates a string using DefaultMaxStringLength
func TruncateStringDefault(s string) string {
	return TruncateString(s, DefaultMaxStringLength)
}

// DescribeBody turns an error response body into text fit for an error
// message. Reverse proxies and local servers often answer with an HTML page;
// that page is converted to markdown so the message keeps the readable part
// (title, paragraphs) instead of raw markup. Other bodies are returned
// trimmed.
func DescribeBody(contentType string, body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}
	if !looksLikeHTML(contentType, text) {
		return text
	}
	markdown, err := htmltomarkdown.ConvertString(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(markdown)
}

func looksLikeHTML(contentType, text string) bool {
	if strings.Contains(strings.ToLower(contentType), "html") {
		return true
	}
	lower := strings.ToLower(text)
	return strings.HasPrefix(lower, "<!doctype html") || strings.HasPrefix(lower, "<html")
}
