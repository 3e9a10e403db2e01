// Package apitypes defines the request/response DTOs and the canonical
// error type of the keybridge management API.
package apitypes

import "fmt"

// ApiError represents an RFC 7807 (problem+json) error response.
type ApiError struct {
	// Status is the HTTP-style status code (e.g., 400, 404, 503)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e ApiError) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// --

type PingResponse struct {
	Server  string `json:"server"`
	Version string `json:"version"`
}

// KeyEventResponse acknowledges an accepted press, release or tap.
// Depth is the queue depth after acceptance, usable as a backpressure
// signal by the producer.
type KeyEventResponse struct {
	Key    string `json:"key"`
	Status string `json:"status"`
	Depth  int    `json:"depth"`
}

type QueueDepthResponse struct {
	Depth int `json:"depth"`
}

// StateResponse is a diagnostic snapshot of the injection subsystem.
type StateResponse struct {
	Injected  string `json:"injected"`
	Effective string `json:"effective"`
	Depth     int    `json:"depth"`
}
