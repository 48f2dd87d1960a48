// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-agent/pkg/types"
)

const quantumPayload = `{
	"topic": "Quantum Computing",
	"insights": ["A", "B"],
	"credibility_score": 85,
	"report_content": "# Title\nBody",
	"sources": ["https://a.example"]
}`

func TestDecode_CompletePayload(t *testing.T) {
	r, err := Decode([]byte(quantumPayload))
	require.NoError(t, err)

	assert.Equal(t, &types.ResearchResult{
		Topic:            "Quantum Computing",
		Insights:         []string{"A", "B"},
		CredibilityScore: 85,
		ReportContent:    "# Title\nBody",
		Sources:          []string{"https://a.example"},
	}, r)
}

func TestDecode_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing report_content", `{"topic":"x","insights":[],"credibility_score":50,"sources":[]}`},
		{"missing topic", `{"insights":[],"credibility_score":50,"report_content":"r","sources":[]}`},
		{"null topic", `{"topic":null,"credibility_score":50,"report_content":"r"}`},
		{"missing credibility_score", `{"topic":"x","report_content":"r"}`},
		{"report not a string", `{"topic":"x","credibility_score":50,"report_content":42}`},
		{"score not a number", `{"topic":"x","credibility_score":"high","report_content":"r"}`},
		{"insights wrong type", `{"topic":"x","credibility_score":50,"report_content":"r","insights":"A"}`},
		{"sources wrong element type", `{"topic":"x","credibility_score":50,"report_content":"r","sources":[1,2]}`},
		{"service soft failure", `{"error":"No search results found."}`},
		{"not an object", `["topic"]`},
		{"null payload", `null`},
		{"not json", `<html>Bad Gateway</html>`},
		{"empty body", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Decode([]byte(tt.payload))
			assert.Nil(t, r)
			assert.ErrorIs(t, err, types.ErrMalformedResponse)
		})
	}
}

func TestDecode_SoftFailureKeepsServiceMessage(t *testing.T) {
	_, err := Decode([]byte(`{"error":"No search results found."}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No search results found.")
}

func TestDecode_SoftFailureNonStringError(t *testing.T) {
	_, err := Decode([]byte(`{"error":{"code":429,"detail":"rate limited"}}`))
	require.ErrorIs(t, err, types.ErrMalformedResponse)
	assert.Contains(t, err.Error(), `service error: {"code":429,"detail":"rate limited"}`)
}

func TestDecode_OptionalListsDefaultEmpty(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"absent", `{"topic":"x","credibility_score":70,"report_content":"r"}`},
		{"null", `{"topic":"x","credibility_score":70,"report_content":"r","insights":null,"sources":null}`},
		{"empty", `{"topic":"x","credibility_score":70,"report_content":"r","insights":[],"sources":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Decode([]byte(tt.payload))
			require.NoError(t, err)
			assert.NotNil(t, r.Insights)
			assert.NotNil(t, r.Sources)
			assert.Empty(t, r.Insights)
			assert.Empty(t, r.Sources)
		})
	}
}

func TestDecode_ClampsCredibility(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"-5", 0},
		{"0", 0},
		{"59", 59},
		{"79.6", 80},
		{"100", 100},
		{"150", 100},
		{"1e300", 100},
		{"-1e300", 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			payload := `{"topic":"x","report_content":"r","credibility_score":` + tt.raw + `}`
			r, err := Decode([]byte(payload))
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.CredibilityScore)
		})
	}
}

func TestDecode_PreservesOrder(t *testing.T) {
	payload := `{"topic":"x","credibility_score":10,"report_content":"r",
		"insights":["z","a","m"],"sources":["https://3.example","https://1.example","https://2.example"]}`
	r, err := Decode([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, r.Insights)
	assert.Equal(t, []string{"https://3.example", "https://1.example", "https://2.example"}, r.Sources)
}

func TestDecode_IgnoresUnknownFields(t *testing.T) {
	payload := `{"topic":"x","credibility_score":10,"report_content":"r","model":"gemini","error":"ignored"}`
	r, err := Decode([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, "x", r.Topic)
}

func TestDecodeYAML(t *testing.T) {
	payload := `topic: Quantum Computing
insights:
  - A
  - B
credibility_score: 85
report_content: |-
  # Title
  Body
sources:
  - https://a.example
`
	r, err := DecodeYAML([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, "Quantum Computing", r.Topic)
	assert.Equal(t, []string{"A", "B"}, r.Insights)
	assert.Equal(t, 85, r.CredibilityScore)
	assert.Equal(t, "# Title\nBody", r.ReportContent)
	assert.Equal(t, []string{"https://a.example"}, r.Sources)
}

func TestDecodeYAML_Malformed(t *testing.T) {
	_, err := DecodeYAML([]byte("topic: x\n"))
	assert.ErrorIs(t, err, types.ErrMalformedResponse)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-1))
	assert.Equal(t, 42, Clamp(42))
	assert.Equal(t, 100, Clamp(101))
}
