// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures of the research-agent
// client: the research result returned by the research service, the session
// value driven by the session state machine, configuration, and the error
// sentinels every layer wraps.
package types

// ResearchRequest is the body posted to the research service.
type ResearchRequest struct {
	Topic string `json:"topic" yaml:"topic"`
}

// ResearchResult is a completed research result. Field order is the key
// order of the structured export. A result is read-only once ingested.
type ResearchResult struct {
	// Topic echoes the topic of the request.
	Topic string `json:"topic" yaml:"topic"`

	// Insights are short findings in display order. Never nil after ingest.
	Insights []string `json:"insights" yaml:"insights"`

	// CredibilityScore rates trustworthiness on a 0-100 scale.
	CredibilityScore int `json:"credibility_score" yaml:"credibility_score"`

	// ReportContent is the markdown narrative.
	ReportContent string `json:"report_content" yaml:"report_content"`

	// Sources lists cited URLs in citation order. Never nil after ingest.
	Sources []string `json:"sources" yaml:"sources"`
}

const (
	MinCredibility = 0
	MaxCredibility = 100
)

// CredibilityTier buckets a credibility score for display.
type CredibilityTier string

const (
	TierLow  CredibilityTier = "low"
	TierMid  CredibilityTier = "mid"
	TierHigh CredibilityTier = "high"
)

// TierFor returns the tier of score. Boundaries are inclusive at 60 and 80.
func TierFor(score int) CredibilityTier {
	switch {
	case score >= 80:
		return TierHigh
	case score >= 60:
		return TierMid
	default:
		return TierLow
	}
}
