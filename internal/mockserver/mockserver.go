// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mockserver serves a canned research service for demos and tests.
// It answers every topic with the same demonstration report, echoing the
// topic back.
package mockserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/pkg/types"
)

// DefaultPath is the path the mock service listens on when none is given.
const DefaultPath = "/research"

// Options configures Handler.
type Options struct {
	// Path is the research endpoint path (default DefaultPath).
	Path string

	// Delay simulates research latency. The wait ends early if the client
	// goes away.
	Delay time.Duration

	Logger *zap.Logger
}

// Handler returns the mock research service.
func Handler(opts Options) http.Handler {
	path := opts.Path
	if path == "" {
		path = DefaultPath
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "method not allowed"})
			return
		}

		var req types.ResearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
			return
		}
		topic := strings.TrimSpace(req.Topic)
		if topic == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "topic is required"})
			return
		}

		logger.Info("research request", zap.String("topic", topic))

		if opts.Delay > 0 {
			select {
			case <-time.After(opts.Delay):
			case <-r.Context().Done():
				return
			}
		}
		writeJSON(w, http.StatusOK, Demo(topic))
	})
	if path != "/" {
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" {
				http.NotFound(w, r)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"message": "mock research service is running"})
		})
	}
	return mux
}

// Demo returns the demonstration result for topic.
func Demo(topic string) types.ResearchResult {
	return types.ResearchResult{
		Topic: topic,
		Insights: []string{
			"AI improves diagnostic accuracy in medical imaging.",
			"Predictive analytics helps in patient care and resource management.",
			"Robotic surgery is becoming more precise and common.",
			"Privacy concerns regarding patient data are a major challenge.",
			"AI reduces administrative burden on healthcare professionals.",
			"Personalized medicine is advancing through genomic data analysis.",
		},
		CredibilityScore: 85,
		ReportContent: "# Research Report: " + topic + `

## Executive Summary
Artificial Intelligence (AI) is rapidly transforming the healthcare industry. From early disease detection to personalized treatment plans, AI algorithms are enhancing the capabilities of medical professionals.

## Key Findings

### 1. Diagnostic Accuracy
AI models, particularly in radiology and pathology, have shown the ability to detect anomalies with high precision, often matching or exceeding human experts.

### 2. Operational Efficiency
Hospitals are using AI to optimize patient flow, manage staffing, and reduce wait times.

### 3. Challenges
Despite the benefits, integration challenges, data privacy issues, and the need for regulatory frameworks remain significant hurdles.

## Conclusion
The future of healthcare is increasingly digital and data-driven, with AI playing a central role in improving patient outcomes.`,
		Sources: []string{
			"https://www.who.int/health-topics/artificial-intelligence",
			"https://www.nature.com/articles/s41591-021-01614-0",
			"https://www.healthcareitnews.com/topic/artificial-intelligence",
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
