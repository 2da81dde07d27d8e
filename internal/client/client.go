// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package client talks to the Service Manager REST API for one configured
// environment: listing, fetching, pushing, compiling and executing
// ScriptLibrary records.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"smctl/internal/config"
	"smctl/internal/logger"

	"github.com/cenkalti/backoff/v4"
)

const (
	// existsTimeout bounds the probe made before a push.
	existsTimeout = 5 * time.Second

	readRetries = 3
)

// DefaultBackoff is the retry policy for read requests.
func DefaultBackoff() backoff.BackOff {
	return backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(250*time.Millisecond),
		backoff.WithMaxInterval(5*time.Second),
		backoff.WithMaxElapsedTime(30*time.Second),
	), readRetries)
}

// Library is a ScriptLibrary record with its fields resolved through the
// environment's field aliases.
type Library struct {
	Name    string
	Package string
	Script  string
}

// Result is the outcome of a write request.
type Result struct {
	// Created is set when Push created a new record instead of updating one.
	Created  bool
	Messages []string
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d - %s", e.StatusCode, strings.Join(e.Messages, ""))
}

// Client is bound to a single environment.
type Client struct {
	env        config.Environment
	http       *http.Client
	newBackoff func() backoff.BackOff
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBackoff sets the retry policy used for read requests. newBackoff is
// called once per request.
func WithBackoff(newBackoff func() backoff.BackOff) Option {
	return func(c *Client) { c.newBackoff = newBackoff }
}

// New creates a client for env.
func New(env config.Environment, opts ...Option) *Client {
	c := &Client{
		env:        env,
		http:       &http.Client{Timeout: 60 * time.Second},
		newBackoff: DefaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Environment returns the environment the client is bound to.
func (c *Client) Environment() config.Environment {
	return c.env
}

// ListLibraries returns the names of all ScriptLibrary records.
func (c *Client) ListLibraries(ctx context.Context) ([]string, error) {
	var page struct {
		Content []map[string]map[string]any `json:"content"`
	}
	if err := c.getJSON(ctx, c.collectionURL(), &page); err != nil {
		return nil, fmt.Errorf("listing %s: %w", c.env.ResourceCollection, err)
	}

	nameField := c.alias("name")
	names := make([]string, 0, len(page.Content))
	for _, entry := range page.Content {
		record, ok := entry[c.env.ResourceName]
		if !ok {
			continue
		}
		if name := stringField(record[nameField]); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// FetchLibrary returns a single record by name.
func (c *Client) FetchLibrary(ctx context.Context, name string) (*Library, error) {
	var doc map[string]json.RawMessage
	if err := c.getJSON(ctx, c.recordURL(name), &doc); err != nil {
		return nil, fmt.Errorf("fetching %s %q: %w", c.env.ResourceName, name, err)
	}

	raw, ok := doc[c.env.ResourceName]
	if !ok {
		return nil, fmt.Errorf("fetching %s %q: response has no %q object", c.env.ResourceName, name, c.env.ResourceName)
	}
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decoding %s %q: %w", c.env.ResourceName, name, err)
	}

	return &Library{
		Name:    stringField(record[c.alias("name")]),
		Package: stringField(record[c.alias("package")]),
		Script:  stringField(record[c.alias("script")]),
	}, nil
}

// Exists probes for a record. Any HTTP error status counts as "does not
// exist"; only transport failures are returned as errors.
func (c *Client) Exists(ctx context.Context, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, existsTimeout)
	defer cancel()

	_, err := c.do(ctx, http.MethodGet, c.recordURL(name), nil)
	if err == nil {
		return true, nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false, nil
	}
	return false, err
}

// Push creates the record when it does not exist yet, otherwise updates its
// script. New records go into the environment's default package.
func (c *Client) Push(ctx context.Context, name, script string) (*Result, error) {
	exists, err := c.Exists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("checking whether %q exists: %w", name, err)
	}

	var (
		target string
		fields map[string]string
	)
	if exists {
		target = c.recordURL(name)
		fields = map[string]string{"name": name, "script": script}
	} else {
		target = c.collectionURL()
		fields = map[string]string{"name": name, "package": c.env.DefaultPackage, "script": script}
	}

	env, err := c.do(ctx, http.MethodPost, target, c.wrap(fields))
	if err != nil {
		return nil, err
	}
	logger.Info("Pushed library", "name", name, "created", !exists, "url", target)
	return &Result{Created: !exists, Messages: env.Messages}, nil
}

// Compile asks the server to recompile the record.
func (c *Client) Compile(ctx context.Context, name string) (*Result, error) {
	env, err := c.do(ctx, http.MethodPut, c.recordURL(name), c.wrap(nil))
	if err != nil {
		return nil, err
	}
	return &Result{Messages: env.Messages}, nil
}

// Execute runs the record's execute action.
func (c *Client) Execute(ctx context.Context, name string) (*Result, error) {
	env, err := c.do(ctx, http.MethodPost, c.recordURL(name)+"/action/execute", c.wrap(nil))
	if err != nil {
		return nil, err
	}
	return &Result{Messages: env.Messages}, nil
}

func (c *Client) collectionURL() string {
	return strings.TrimRight(c.env.URL, "/") + "/" + url.PathEscape(c.env.ResourceCollection)
}

func (c *Client) recordURL(name string) string {
	return c.collectionURL() + "/" + url.PathEscape(name)
}

// alias maps a logical field (name, package, script) to the server's field name.
func (c *Client) alias(field string) string {
	var a string
	switch field {
	case "name":
		a = c.env.Fields.Name
	case "package":
		a = c.env.Fields.Package
	case "script":
		a = c.env.Fields.Script
	}
	if a == "" {
		return field
	}
	return a
}

// wrap renames fields through the aliases and nests them under the resource name.
func (c *Client) wrap(fields map[string]string) map[string]map[string]string {
	record := make(map[string]string, len(fields))
	for k, v := range fields {
		record[c.alias(k)] = v
	}
	return map[string]map[string]string{c.env.ResourceName: record}
}

type envelope struct {
	Messages   []string `json:"Messages"`
	ReturnCode int      `json:"ReturnCode"`
	body       []byte
}

// getJSON performs an idempotent GET with retries. Client errors are not retried.
func (c *Client) getJSON(ctx context.Context, target string, out any) error {
	attempt := func() (*envelope, error) {
		env, err := c.do(ctx, http.MethodGet, target, nil)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			return nil, backoff.Permanent(err)
		}
		return env, err
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("Retrying Service Manager request", "url", target, "wait", wait, "error", err)
	}
	env, err := backoff.RetryNotifyWithData(attempt, backoff.WithContext(c.newBackoff(), ctx), notify)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(env.body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, target string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.SetBasicAuth(c.env.Username, c.env.Password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("Service Manager request", "method", method, "url", target)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	env := &envelope{body: data}
	if len(bytes.TrimSpace(data)) > 0 {
		// Non-JSON bodies (proxies, HTML error pages) still carry a usable status.
		_ = json.Unmarshal(data, env)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msgs := env.Messages
		if len(msgs) == 0 {
			msgs = []string{http.StatusText(resp.StatusCode)}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Messages: msgs}
	}
	return env, nil
}

// stringField flattens a JSON value. Service Manager returns multi-line
// scripts either as one string or as an array of lines.
func stringField(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		lines := make([]string, 0, len(t))
		for _, l := range t {
			lines = append(lines, fmt.Sprint(l))
		}
		return strings.Join(lines, "\n")
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
