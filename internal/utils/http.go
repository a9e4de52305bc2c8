package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/leofalp/genailite/providers/observability"
)

// maxResponseBodySize is the maximum response body size (64 MB). Image
// payloads inline base64 data, so the cap is well above a chat reply but
// still bounds memory for rogue responses.
const maxResponseBodySize int64 = 64 * 1024 * 1024

// HeaderOption is an extra request header applied after the defaults, so it
// can override Authorization for providers with custom auth headers.
type HeaderOption struct {
	Key   string
	Value string
}

// HTTPError is returned for non-2xx responses. Adapters map StatusCode to
// the shared error taxonomy; Body is kept raw so it can be rendered with
// [DescribeBody].
type HTTPError struct {
	StatusCode  int
	Status      string
	ContentType string
	Body        []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("non-2xx status %d: %s", e.StatusCode, TruncateString(DescribeBody(e.ContentType, e.Body), 300))
}

// DecodeError is returned when a 2xx body cannot be decoded, even after
// repair. It signals a structurally invalid response rather than a
// transport failure.
type DecodeError struct {
	StatusCode int
	Preview    string
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("error unmarshaling response body (status %d): %v\nResponse preview: %s", e.StatusCode, e.Err, e.Preview)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DoPostSync performs a synchronous HTTP POST request with JSON body and parses the response.
// It handles observability tracing, authorization headers, and proper resource cleanup.
//
// Error Handling Strategy:
//   - Context errors (timeout, cancellation) are propagated wrapped
//   - Transport failures return the error from the HTTP client wrapped
//   - Non-2xx statuses return an [*HTTPError]
//   - JSON parsing falls back to repair via [DecodeJSON] before failing with a [*DecodeError]
func DoPostSync[OutputStruct any](ctx context.Context, client *http.Client, url string, apiKey string, body any, headers ...HeaderOption) (*http.Response, *OutputStruct, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, nil, fmt.Errorf("error marshaling body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return doJSON[OutputStruct](ctx, client, req, apiKey, len(jsonBody), headers)
}

// DoGetSync performs a synchronous HTTP GET and parses the JSON response. It
// shares the error handling of [DoPostSync].
func DoGetSync[OutputStruct any](ctx context.Context, client *http.Client, url string, apiKey string, headers ...HeaderOption) (*http.Response, *OutputStruct, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}
	return doJSON[OutputStruct](ctx, client, req, apiKey, 0, headers)
}

// FetchBytes downloads url and returns the body together with the response
// Content-Type header.
func FetchBytes(ctx context.Context, client *http.Client, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("error creating request: %w", err)
	}
	res, respBody, err := do(ctx, client, req, "", 0, nil)
	if err != nil {
		return nil, "", err
	}
	return respBody, res.Header.Get("Content-Type"), nil
}

func doJSON[OutputStruct any](ctx context.Context, client *http.Client, req *http.Request, apiKey string, requestSize int, headers []HeaderOption) (*http.Response, *OutputStruct, error) {
	res, respBody, err := do(ctx, client, req, apiKey, requestSize, headers)
	if err != nil {
		return res, nil, err
	}

	resStruct, err := DecodeJSON[OutputStruct](respBody)
	if err != nil {
		return res, nil, &DecodeError{StatusCode: res.StatusCode, Preview: TruncateString(string(respBody), 500), Err: err}
	}
	return res, &resStruct, nil
}

func do(ctx context.Context, client *http.Client, req *http.Request, apiKey string, requestSize int, headers []HeaderOption) (*http.Response, []byte, error) {
	span := observability.SpanFromContext(ctx)

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	for _, header := range headers {
		req.Header.Set(header.Key, header.Value)
	}

	if span != nil {
		span.AddEvent("http.request.prepared",
			observability.String(observability.AttrHTTPMethod, req.Method),
			observability.String(observability.AttrHTTPURL, req.URL.String()),
			observability.Int(observability.AttrHTTPRequestBodySize, requestSize),
		)
	}

	requestStart := time.Now()
	res, err := httpClient.Do(req)
	requestDuration := time.Since(requestStart)
	if err != nil {
		if span != nil {
			span.AddEvent("http.request.error",
				observability.Error(err),
				observability.Duration("http.request.duration", requestDuration),
			)
		}
		return res, nil, fmt.Errorf("error sending request: %w", err)
	}
	defer CloseWithLog(res.Body)

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBodySize))
	if err != nil {
		return res, nil, fmt.Errorf("error reading response body: %w", err)
	}

	if span != nil {
		span.AddEvent("http.response.received",
			observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
			observability.Int(observability.AttrHTTPResponseBodySize, len(respBody)),
			observability.Duration("http.request.duration", requestDuration),
		)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res, nil, &HTTPError{
			StatusCode:  res.StatusCode,
			Status:      res.Status,
			ContentType: res.Header.Get("Content-Type"),
			Body:        respBody,
		}
	}
	return res, respBody, nil
}

// CloseWithLog closes c and logs a failure instead of returning it; used in
// defers where the primary error must not be overridden.
func CloseWithLog(c io.Closer) {
	if err := c.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}
