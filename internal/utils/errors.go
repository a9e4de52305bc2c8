package utils

import (
	"context"
	"errors"
	"strings"

	"github.com/leofalp/genailite/core/aierr"
)

// providerErrorBody is the common {"error": {...}} envelope used by OpenAI
// compatible APIs. A bare {"error": "text"} is handled separately.
type providerErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// MapHTTPError converts an error returned by the helpers in this package
// into the shared taxonomy. Context cancellation is passed through
// untouched so callers can still compare it with context.Canceled.
func MapHTTPError(err error, baseURL string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		message, code := describeProviderError(httpErr)
		mapped := aierr.FromHTTPStatus(httpErr.StatusCode, message)
		mapped.Code = code
		mapped.BaseURL = baseURL
		return mapped
	}

	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return &aierr.Error{Kind: aierr.KindProtocol, BaseURL: baseURL, Message: "response body is not valid JSON", Cause: err}
	}

	return aierr.FromTransport(err, baseURL)
}

func describeProviderError(httpErr *HTTPError) (string, string) {
	if strings.Contains(httpErr.ContentType, "json") || strings.HasPrefix(strings.TrimSpace(string(httpErr.Body)), "{") {
		if body, err := DecodeJSON[providerErrorBody](httpErr.Body); err == nil && body.Error.Message != "" {
			code := ""
			switch c := body.Error.Code.(type) {
			case string:
				code = c
			case nil:
				code = body.Error.Type
			}
			return body.Error.Message, code
		}
	}
	return TruncateString(DescribeBody(httpErr.ContentType, httpErr.Body), 500), ""
}
