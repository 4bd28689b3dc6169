// Package api is the HTTP client for the remote inventory server:
// paginated list retrieval plus the create/update/delete round-trips
// the grid's forms are bound to.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Options configures a Client.
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// RequestsPerSecond throttles outbound calls; zero disables the
	// limiter.
	RequestsPerSecond float64
	Burst             int
	Logger            *logrus.Logger
}

// Client talks to the remote REST server. All methods are safe for use
// from bubbletea command goroutines.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	log     *logrus.Logger
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	log := opts.Logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		http:    &http.Client{Timeout: timeout},
		limiter: limiter,
		log:     log,
	}
}

type listEnvelope struct {
	Count    int              `json:"count"`
	Next     *string          `json:"next"`
	Previous *string          `json:"previous"`
	Results  []map[string]any `json:"results"`
}

// List fetches one page of records. The query parameter names are a
// contract with the backend and pass through verbatim.
func (c *Client) List(ctx context.Context, resource string, query url.Values) ([]map[string]any, int, error) {
	target := c.resourceURL(resource, 0)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	resp, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, &FetchError{URL: target, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, 0, &FetchError{URL: target, StatusCode: resp.StatusCode}
	}
	var envelope listEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, 0, &FetchError{URL: target, Err: errors.Wrap(err, "decode list body")}
	}
	return envelope.Results, envelope.Count, nil
}

// Get fetches a single record by primary key.
func (c *Client) Get(ctx context.Context, resource string, pk int64) (map[string]any, error) {
	target := c.resourceURL(resource, pk)
	resp, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: target, StatusCode: resp.StatusCode}
	}
	var record map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, &FetchError{URL: target, Err: errors.Wrap(err, "decode record body")}
	}
	return record, nil
}

// Create posts a new record and returns the created representation.
func (c *Client) Create(ctx context.Context, resource string, payload map[string]any) (map[string]any, error) {
	return c.submit(ctx, http.MethodPost, c.resourceURL(resource, 0), payload)
}

// Update patches an existing record. The success body is the full
// updated record, which makes the local patch path possible.
func (c *Client) Update(ctx context.Context, resource string, pk int64, payload map[string]any) (map[string]any, error) {
	return c.submit(ctx, http.MethodPatch, c.resourceURL(resource, pk), payload)
}

// Delete removes a record.
func (c *Client) Delete(ctx context.Context, resource string, pk int64) error {
	target := c.resourceURL(resource, pk)
	resp, err := c.do(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return &SubmitError{Fields: map[string][]string{"non_field_errors": {err.Error()}}}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return parseSubmitError(resp.StatusCode, body)
	}
	return nil
}

// Perform posts to a domain action sub-endpoint of one record, e.g.
// receiving items against a purchase order.
func (c *Client) Perform(ctx context.Context, resource string, pk int64, action string, payload map[string]any) (map[string]any, error) {
	target := c.resourceURL(resource, pk) + strings.Trim(action, "/") + "/"
	return c.submit(ctx, http.MethodPost, target, payload)
}

// Roles fetches the capability map for the authenticated user: domain
// name to permitted verbs.
func (c *Client) Roles(ctx context.Context) (map[string][]string, error) {
	target := c.resourceURL("/api/user/roles/", 0)
	resp, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: target, StatusCode: resp.StatusCode}
	}
	var body struct {
		Roles map[string][]string `json:"roles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &FetchError{URL: target, Err: errors.Wrap(err, "decode roles body")}
	}
	return body.Roles, nil
}

func (c *Client) submit(ctx context.Context, method, target string, payload map[string]any) (map[string]any, error) {
	resp, err := c.do(ctx, method, target, payload)
	if err != nil {
		return nil, &SubmitError{Fields: map[string][]string{"non_field_errors": {err.Error()}}}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SubmitError{Fields: map[string][]string{"non_field_errors": {err.Error()}}}
	}
	if resp.StatusCode >= 300 {
		return nil, parseSubmitError(resp.StatusCode, body)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var record map[string]any
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, &SubmitError{Fields: map[string][]string{"non_field_errors": {"malformed response body"}}}
	}
	return record, nil
}

func (c *Client) do(ctx context.Context, method, target string, payload map[string]any) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "rate limiter")
		}
	}
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "encode payload")
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	entry := c.log.WithFields(logrus.Fields{
		"method":     method,
		"url":        target,
		"request_id": requestID,
		"elapsed":    time.Since(start).Round(time.Millisecond).String(),
	})
	if err != nil {
		entry.WithError(err).Debug("request failed")
		return nil, errors.Wrap(err, "perform request")
	}
	entry.WithField("status", resp.StatusCode).Debug("request complete")
	return resp, nil
}

func (c *Client) resourceURL(resource string, pk int64) string {
	path := "/" + strings.Trim(resource, "/") + "/"
	if pk > 0 {
		path += fmt.Sprintf("%d/", pk)
	}
	return c.baseURL + path
}
