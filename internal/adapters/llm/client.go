// Package llm provides the upstream model client behind translation.
// It speaks the chat-completions wire format, bounds every call with a
// timeout, and treats the provider as an untrusted black box: bodies go
// through a defensive parse pipeline and are never forwarded verbatim
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"genslang/internal/core/translation"
	perr "genslang/internal/platform/errors"
	"genslang/internal/platform/logger"

	"github.com/google/uuid"
)

const (
	baseURLDefault     = "https://api.openai.com/v1"
	modelDefault       = "gpt-4o-mini"
	defaultTimeout     = 30 * time.Second
	defaultMaxTokens   = 1000
	defaultTemperature = 0.3

	// fixed retry hint handed to clients when the provider throttles us
	upstreamRetryAfter = 30

	completionsPath = "/chat/completions"
	maxDiagBody     = 2048
)

// userFacingUpstreamMsg is what clients see for any provider-side failure.
// Diagnostic detail stays in server logs only
const userFacingUpstreamMsg = "translation service had a problem, please try again"

// Options configures the Client
type Options struct {
	BaseURL string
	APIKey  string
	Model   string

	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Client issues one bounded chat-completions call per translation
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewClient creates a Client with defaults filled in.
// A missing APIKey is allowed here and rejected per call, so the service
// can boot and report the condition instead of crash-looping
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.Model == "" {
		o.Model = modelDefault
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = defaultMaxTokens
	}
	if o.Temperature <= 0 {
		o.Temperature = defaultTemperature
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("llm"),
	}
}

// Translate sends text upstream and returns the validated result.
// Single attempt, no retries: retry policy belongs to the caller
func (c *Client) Translate(ctx context.Context, text string) (*translation.Result, error) {
	if c.opts.APIKey == "" {
		return nil, perr.MissingAPIKeyf("translation service is not configured")
	}

	payload, err := json.Marshal(chatRequest{
		Model:       c.opts.Model,
		Messages:    buildMessages(text),
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.CodeUnknown, "encode upstream request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+completionsPath, bytes.NewReader(payload))
	if err != nil {
		return nil, perr.Wrapf(err, perr.CodeUnknown, "build upstream request")
	}
	callID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	req.Header.Set("X-Request-ID", callID)

	start := time.Now()
	resp, err := c.http.Do(req)
	lat := time.Since(start)
	if err != nil {
		c.log.Error().Err(err).Str("call_id", callID).Dur("latency", lat).Msg("upstream transport error")
		return nil, perr.Wrap(err, perr.CodeUpstream, userFacingUpstreamMsg)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("call_id", callID).
		Str("model", c.opts.Model).
		Int("status", resp.StatusCode).
		Dur("latency", lat).
		Msg("upstream response")

	if resp.StatusCode == http.StatusTooManyRequests {
		drainDiag(c, resp.Body, callID, resp.StatusCode)
		return nil, perr.RateLimitedf(upstreamRetryAfter, "too many requests, please wait a moment")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		drainDiag(c, resp.Body, callID, resp.StatusCode)
		return nil, perr.Upstreamf(userFacingUpstreamMsg)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error().Err(err).Str("call_id", callID).Msg("upstream body read failed")
		return nil, perr.Wrap(err, perr.CodeUpstream, userFacingUpstreamMsg)
	}

	out := ParseBody(body)
	switch out.Stage {
	case StageParsed:
		return out.Result, nil
	case StageSchemaInvalid:
		c.log.Warn().Err(out.Err).Str("call_id", callID).Str("stage", out.Stage.String()).Msg("upstream result failed schema check")
		return nil, perr.Incompletef(userFacingUpstreamMsg)
	default:
		c.log.Warn().Err(out.Err).Str("call_id", callID).Str("stage", out.Stage.String()).Msg("upstream body unparseable")
		return nil, perr.Parsef(userFacingUpstreamMsg)
	}
}

// drainDiag logs a bounded tail of an error body for operators
func drainDiag(c *Client, r io.Reader, callID string, status int) {
	tail, _ := io.ReadAll(io.LimitReader(r, maxDiagBody))
	c.log.Warn().
		Str("call_id", callID).
		Int("status", status).
		Str("body", string(tail)).
		Msg("upstream non-success")
}
