// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session owns the research session lifecycle: idle, loading, and the
// terminal success and error states. Transition is a pure function over
// types.Session; Machine runs it on a single event loop and dispatches the
// research request for each accepted submission.
package session

import (
	"strings"

	"github.com/pdiddy/research-agent/pkg/types"
)

// Event is an input to Transition.
type Event interface {
	event()
}

// Submit asks for a new research request. ID identifies the submission and
// is minted by the caller so Transition stays deterministic.
type Submit struct {
	ID    string
	Topic string
}

// Succeeded delivers the result of submission ID.
type Succeeded struct {
	ID     string
	Result *types.ResearchResult
}

// Failed delivers the failure of submission ID with a user-visible message.
type Failed struct {
	ID      string
	Message string
}

func (Submit) event()    {}
func (Succeeded) event() {}
func (Failed) event()    {}

// Transition applies ev to s and returns the next state. The bool reports
// whether the event was accepted; a rejected event returns s unchanged.
//
// Submit is accepted from idle, success, and error when the trimmed topic is
// non-empty; it clears any prior result or error. Succeeded and Failed are
// accepted only while loading and only for the current submission ID.
func Transition(s types.Session, ev Event) (types.Session, bool) {
	switch ev := ev.(type) {
	case Submit:
		if s.Status == types.StatusLoading {
			return s, false
		}
		topic := strings.TrimSpace(ev.Topic)
		if topic == "" {
			return s, false
		}
		return types.Session{ID: ev.ID, Topic: topic, Status: types.StatusLoading}, true

	case Succeeded:
		if !pending(s, ev.ID) {
			return s, false
		}
		if ev.Result == nil {
			return failed(s, types.FailureMessage), true
		}
		return types.Session{ID: s.ID, Topic: s.Topic, Status: types.StatusSuccess, Result: ev.Result}, true

	case Failed:
		if !pending(s, ev.ID) {
			return s, false
		}
		msg := ev.Message
		if strings.TrimSpace(msg) == "" {
			msg = types.FailureMessage
		}
		return failed(s, msg), true
	}
	return s, false
}

func pending(s types.Session, id string) bool {
	return s.Status == types.StatusLoading && s.ID == id
}

func failed(s types.Session, msg string) types.Session {
	return types.Session{ID: s.ID, Topic: s.Topic, Status: types.StatusError, ErrorMessage: msg}
}
