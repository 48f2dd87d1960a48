// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package client is the transport to the research service: it posts a
// topic to the single configured endpoint and validates the reply.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/httputil"
	"github.com/pdiddy/research-agent/internal/result"
	"github.com/pdiddy/research-agent/pkg/types"
)

// Client calls the research service. It satisfies session.Transport.
type Client struct {
	http      *http.Client
	endpoint  string
	userAgent string
	logger    *zap.Logger
}

// New validates cfg and returns a Client. cfg.URL must be an absolute
// http or https URL.
func New(cfg types.ServiceConfig, logger *zap.Logger) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.URL)
	if endpoint == "" {
		return nil, fmt.Errorf("research service URL is not configured")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing research service URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("research service URL %q must be an absolute http(s) URL", endpoint)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		endpoint:  u.String(),
		userAgent: cfg.UserAgent,
		logger:    logger,
	}, nil
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string { return c.endpoint }

// Research posts topic and returns the validated result. Failures to send
// and non-2xx replies wrap types.ErrTransport; unusable payloads wrap
// types.ErrMalformedResponse.
func (c *Client) Research(ctx context.Context, topic string) (*types.ResearchResult, error) {
	c.logger.Debug("posting research request", zap.String("endpoint", c.endpoint), zap.String("topic", topic))

	data, err := httputil.PostJSON(ctx, c.http, c.endpoint, c.userAgent, types.ResearchRequest{Topic: topic})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrTransport, err)
	}

	res, err := result.Decode(data)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("research result received",
		zap.String("topic", res.Topic),
		zap.Int("insights", len(res.Insights)),
		zap.Int("sources", len(res.Sources)),
		zap.Int("credibility", res.CredibilityScore))
	return res, nil
}
