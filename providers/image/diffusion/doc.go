// Package diffusion implements image.Provider for local diffusion servers
// that expose an asynchronous job API:
//
//	POST /generate     -> {"id": "...", "status": "pending"}
//	GET  /status/{id}  -> {"id", "status", "progress", "result", "error"}
//
// A job moves pending -> in_progress -> complete | error. The adapter
// polls at a fixed interval, reports progress on every in_progress poll,
// and gives up with a timeout error once the wall-clock time since the
// start call exceeds the configured limit. The protocol has no cancel
// endpoint, so a timed-out job is simply abandoned.
package diffusion
