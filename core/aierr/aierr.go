package aierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failure independently of the provider that produced it.
type Kind string

const (
	KindConfiguration  Kind = "configuration"  // contradictory or missing identifiers, missing/invalid API key
	KindResolution     Kind = "resolution"     // preset or model unknown to the catalog
	KindValidation     Kind = "validation"     // request violates a static constraint
	KindAuthentication Kind = "authentication" // provider rejected the credentials
	KindRateLimit      Kind = "rate_limit"     // provider throttled the request
	KindNetwork        Kind = "network"        // transport failure reaching the provider
	KindServer         Kind = "server"         // provider-side failure
	KindTimeout        Kind = "timeout"        // client-side wall clock exceeded
	KindProtocol       Kind = "protocol"       // structurally invalid response
	KindImageFetch     Kind = "image_fetch"    // hosted image URL could not be downloaded
)

// Sentinels matched by errors.Is for every *Error of the corresponding kind.
var (
	ErrConfiguration  = errors.New("configuration error")
	ErrResolution     = errors.New("resolution error")
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrRateLimit      = errors.New("rate limit error")
	ErrNetwork        = errors.New("network error")
	ErrServer         = errors.New("server error")
	ErrTimeout        = errors.New("timeout error")
	ErrProtocol       = errors.New("protocol error")
	ErrImageFetch     = errors.New("failed to fetch image from URL")
)

var sentinels = map[Kind]error{
	KindConfiguration:  ErrConfiguration,
	KindResolution:     ErrResolution,
	KindValidation:     ErrValidation,
	KindAuthentication: ErrAuthentication,
	KindRateLimit:      ErrRateLimit,
	KindNetwork:        ErrNetwork,
	KindServer:         ErrServer,
	KindTimeout:        ErrTimeout,
	KindProtocol:       ErrProtocol,
	KindImageFetch:     ErrImageFetch,
}

// Error is the structured failure returned by adapters and the compiler.
// Context is kept in fields rather than only in the message so callers can
// branch programmatically.
type Error struct {
	Kind       Kind
	Provider   string // provider id, when known
	Model      string // model id, when known
	BaseURL    string // endpoint base URL for network failures
	StatusCode int    // HTTP status, 0 when not HTTP related
	Code       string // provider specific error code, if any
	Message    string
	Cause      error
}

// New creates an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error of the given kind that wraps cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Provider != "" {
		b.WriteString(" [")
		b.WriteString(e.Provider)
		if e.Model != "" {
			b.WriteString("/")
			b.WriteString(e.Model)
		}
		b.WriteString("]")
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	var errs []error
	if s, ok := sentinels[e.Kind]; ok {
		errs = append(errs, s)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// WithProvider fills provider and model when they are not set yet and
// returns the receiver for chaining.
func (e *Error) WithProvider(provider, model string) *Error {
	if e.Provider == "" {
		e.Provider = provider
	}
	if e.Model == "" {
		e.Model = model
	}
	return e
}

// WithBaseURL sets the endpoint base URL when not set yet.
func (e *Error) WithBaseURL(baseURL string) *Error {
	if e.BaseURL == "" {
		e.BaseURL = baseURL
	}
	return e
}

// KindOf returns the Kind of the first *Error in err's chain, or "" when
// err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Retryable reports whether the same request may succeed if sent again later.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindRateLimit, KindNetwork, KindServer, KindTimeout:
		return true
	}
	return false
}

// Enrich attaches provider context to err. An *Error in the chain is
// updated in place; any other error is wrapped as a server error so callers
// never see an unclassified failure.
func Enrich(err error, provider, model string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		e.WithProvider(provider, model)
		return err
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(KindTimeout, err, "request deadline exceeded").WithProvider(provider, model)
	}
	return Wrap(KindServer, err, "provider call failed").WithProvider(provider, model)
}

// FromHTTPStatus maps an HTTP status and a readable body excerpt to the
// taxonomy.
func FromHTTPStatus(status int, message string) *Error {
	kind := KindServer
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = KindAuthentication
	case status == http.StatusTooManyRequests:
		kind = KindRateLimit
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		kind = KindTimeout
	case status >= 500:
		kind = KindServer
	case status >= 400:
		kind = KindValidation
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{
		Kind:       kind,
		StatusCode: status,
		Message:    fmt.Sprintf("HTTP %d: %s", status, message),
	}
}

// FromTransport classifies an error returned by the HTTP client itself.
// Deadline errors become timeouts, everything else is a network failure
// that names the base URL.
func FromTransport(err error, baseURL string) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, BaseURL: baseURL, Message: "request to " + baseURL + " timed out", Cause: err}
	}
	return &Error{Kind: KindNetwork, BaseURL: baseURL, Message: "cannot reach " + baseURL, Cause: err}
}
