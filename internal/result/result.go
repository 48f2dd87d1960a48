// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package result validates raw research-service payloads and turns them into
// ResearchResult values. The payload is untrusted: missing required fields
// are reported as ErrMalformedResponse, optional lists default to empty, and
// the credibility score is clamped into range.
package result

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-agent/pkg/types"
)

const (
	fieldTopic       = "topic"
	fieldInsights    = "insights"
	fieldCredibility = "credibility_score"
	fieldReport      = "report_content"
	fieldSources     = "sources"
	fieldError       = "error"
)

// Decode parses a JSON payload from the research service.
func Decode(payload []byte) (*types.ResearchResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("%w: decoding payload: %v", types.ErrMalformedResponse, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: payload is null", types.ErrMalformedResponse)
	}

	// The service reports some failures as {"error": "..."} with HTTP 200.
	if raw, ok := fields[fieldError]; ok {
		if _, hasReport := fields[fieldReport]; !hasReport {
			var msg string
			if err := json.Unmarshal(raw, &msg); err != nil {
				msg = string(raw)
			}
			return nil, fmt.Errorf("%w: service error: %s", types.ErrMalformedResponse, msg)
		}
	}

	var r types.ResearchResult
	var err error

	if r.Topic, err = requiredString(fields, fieldTopic); err != nil {
		return nil, err
	}
	if r.ReportContent, err = requiredString(fields, fieldReport); err != nil {
		return nil, err
	}
	if r.CredibilityScore, err = score(fields); err != nil {
		return nil, err
	}
	if r.Insights, err = optionalStrings(fields, fieldInsights); err != nil {
		return nil, err
	}
	if r.Sources, err = optionalStrings(fields, fieldSources); err != nil {
		return nil, err
	}
	return &r, nil
}

// DecodeYAML parses a YAML structured export with the same rules as Decode.
func DecodeYAML(payload []byte) (*types.ResearchResult, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding YAML: %v", types.ErrMalformedResponse, err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: converting YAML: %v", types.ErrMalformedResponse, err)
	}
	return Decode(data)
}

// Clamp limits score to [MinCredibility, MaxCredibility].
func Clamp(score int) int {
	if score < types.MinCredibility {
		return types.MinCredibility
	}
	if score > types.MaxCredibility {
		return types.MaxCredibility
	}
	return score
}

func requiredString(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return "", fmt.Errorf("%w: missing %s", types.ErrMalformedResponse, name)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %s is not a string", types.ErrMalformedResponse, name)
	}
	return s, nil
}

func optionalStrings(fields map[string]json.RawMessage, name string) ([]string, error) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%w: %s is not a list of strings", types.ErrMalformedResponse, name)
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

func score(fields map[string]json.RawMessage) (int, error) {
	raw, ok := fields[fieldCredibility]
	if !ok || isNull(raw) {
		return 0, fmt.Errorf("%w: missing %s", types.ErrMalformedResponse, fieldCredibility)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("%w: %s is not a number", types.ErrMalformedResponse, fieldCredibility)
	}
	// Clamp in float space first so huge values cannot overflow int.
	f = math.Max(types.MinCredibility, math.Min(types.MaxCredibility, math.Round(f)))
	return Clamp(int(f)), nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
