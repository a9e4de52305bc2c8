package image

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"
)

// DefaultMimeType is used when neither the response nor the URL names one.
const DefaultMimeType = "image/png"

// DecodeBase64 decodes standard or URL-safe base64, with or without
// padding. A data URL prefix ("data:image/png;base64,") is stripped.
func DecodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("invalid base64 image data (%d chars)", len(s))
}

// MimeFromFormat maps an output format such as "png", "jpeg" or "webp" to
// its MIME type. It returns "" for an empty or unknown format.
func MimeFromFormat(format string) string {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "webp":
		return "image/webp"
	case "gif":
		return "image/gif"
	}
	return ""
}

// MimeFromURL infers the MIME type from the file extension of a URL path,
// ignoring the query string. It returns "" when the extension is unknown.
func MimeFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	ext := path.Ext(u.Path)
	if m := MimeFromFormat(ext); m != "" {
		return m
	}
	if m := mime.TypeByExtension(ext); strings.HasPrefix(m, "image/") {
		return m
	}
	return ""
}
