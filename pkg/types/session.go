// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Status is the lifecycle state of a research session.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Session is the complete state of one research session. It is a plain
// value: transitions produce a new Session rather than mutating one.
//
// Result is set only when Status is StatusSuccess and ErrorMessage only when
// Status is StatusError; both are empty while idle or loading.
type Session struct {
	// ID identifies the submission that produced this state. Responses
	// carrying a different ID are stale and ignored. Empty while idle.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Topic is the trimmed topic of the current submission.
	Topic string `json:"topic,omitempty" yaml:"topic,omitempty"`

	Status Status `json:"status" yaml:"status"`

	Result *ResearchResult `json:"result,omitempty" yaml:"result,omitempty"`

	ErrorMessage string `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}

// NewSession returns an idle session.
func NewSession() Session {
	return Session{Status: StatusIdle}
}

// Terminal reports whether the session reached success or error.
func (s Session) Terminal() bool {
	return s.Status == StatusSuccess || s.Status == StatusError
}
