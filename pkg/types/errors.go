// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

var (
	// ErrEmptyTopic rejects a submission whose topic is blank after trimming.
	// No request is sent.
	ErrEmptyTopic = errors.New("topic is empty")

	// ErrBusy rejects a submission while another request is in flight.
	ErrBusy = errors.New("a research request is already in flight")

	// ErrTransport covers requests that could not be sent and responses
	// with a non-success status.
	ErrTransport = errors.New("research request failed")

	// ErrMalformedResponse covers success responses whose payload is
	// missing required fields or has the wrong shape.
	ErrMalformedResponse = errors.New("malformed research response")
)

// FailureMessage is the single user-visible text for transport and
// malformed-response failures.
const FailureMessage = "Failed to fetch research data"

// UserMessage maps err to the text shown to the user. Transport and
// malformed-response errors share FailureMessage; the detail belongs in logs.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTransport), errors.Is(err, ErrMalformedResponse):
		return FailureMessage
	case errors.Is(err, ErrEmptyTopic):
		return "Enter a topic to research"
	default:
		return FailureMessage
	}
}
