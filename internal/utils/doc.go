// Package utils provides shared low-level helpers used by the provider
// adapters: synchronous JSON round-trips over HTTP with structured non-2xx
// errors, lenient JSON decoding, readable error bodies, and a wall-clock
// timer for deadlines spanning a polling loop.
//
// Key entry points: [DoPostSync] and [DoGetSync] for JSON requests,
// [FetchBytes] for downloading hosted files, [HTTPError] for non-2xx
// statuses, [DecodeJSON] for repair-on-failure decoding, [DescribeBody] for
// error bodies, [Ptr] for converting values to pointers, and [Timer].
package utils
