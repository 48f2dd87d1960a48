// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/research-agent/internal/mockserver"
	"github.com/pdiddy/research-agent/pkg/types"
)

func newClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := New(types.ServiceConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "research-agent/test"},
		URL:        url,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return c
}

func TestNew_RequiresAbsoluteURL(t *testing.T) {
	for _, raw := range []string{"", "   ", "/research", "localhost:8000/research", "ftp://host/research", "http://"} {
		t.Run(raw, func(t *testing.T) {
			_, err := New(types.ServiceConfig{URL: raw}, nil)
			assert.Error(t, err)
		})
	}
}

func TestNew_KeepsSingleEndpoint(t *testing.T) {
	c, err := New(types.ServiceConfig{URL: " https://research.example/api/research "}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://research.example/api/research", c.Endpoint())
}

func TestResearch_AgainstMockService(t *testing.T) {
	ts := httptest.NewServer(mockserver.Handler(mockserver.Options{}))
	defer ts.Close()

	c := newClient(t, ts.URL+mockserver.DefaultPath)
	res, err := c.Research(context.Background(), "Quantum Computing")
	require.NoError(t, err)

	want := mockserver.Demo("Quantum Computing")
	assert.Equal(t, &want, res)
}

func TestResearch_PostsTopicToConfiguredURL(t *testing.T) {
	var gotPath, gotAgent string
	var gotBody types.ResearchRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"topic":"Quantum Computing","insights":["A","B"],"credibility_score":85,"report_content":"# Title\nBody","sources":["https://a.example"]}`))
	}))
	defer ts.Close()

	c := newClient(t, ts.URL+"/api/research")
	res, err := c.Research(context.Background(), "Quantum Computing")
	require.NoError(t, err)

	assert.Equal(t, "/api/research", gotPath)
	assert.Equal(t, "research-agent/test", gotAgent)
	assert.Equal(t, "Quantum Computing", gotBody.Topic)
	assert.Equal(t, []string{"A", "B"}, res.Insights)
}

func TestResearch_NonSuccessIsTransportError(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(code)
			}))
			defer ts.Close()

			_, err := newClient(t, ts.URL).Research(context.Background(), "x")
			assert.ErrorIs(t, err, types.ErrTransport)
			assert.Equal(t, types.FailureMessage, types.UserMessage(err))
		})
	}
}

func TestResearch_UnreachableIsTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := newClient(t, url).Research(context.Background(), "x")
	assert.ErrorIs(t, err, types.ErrTransport)
}

func TestResearch_MalformedPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing report_content", `{"topic":"x","insights":[],"credibility_score":50,"sources":[]}`},
		{"service soft failure", `{"error":"No search results found."}`},
		{"html body", `<html>oops</html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			res, err := newClient(t, ts.URL).Research(context.Background(), "x")
			assert.Nil(t, res)
			assert.ErrorIs(t, err, types.ErrMalformedResponse)
			assert.NotErrorIs(t, err, types.ErrTransport)
		})
	}
}

func TestResearch_ConfiguredTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	c, err := New(types.ServiceConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 50 * time.Millisecond},
		URL:        ts.URL,
	}, nil)
	require.NoError(t, err)

	_, err = c.Research(context.Background(), "x")
	assert.ErrorIs(t, err, types.ErrTransport)
}
