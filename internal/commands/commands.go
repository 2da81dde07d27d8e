// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package commands implements the user-facing operations shared by the CLI and
// the interactive palette: managing environments and pulling, pushing,
// compiling, executing and comparing script libraries.
//
// Outcomes are reported through a Notifier. Every operation also returns an
// error when it did not succeed; errors that were already shown to the user
// match ErrReported.
package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smctl/internal/client"
	"smctl/internal/config"
	"smctl/internal/logger"
	"smctl/internal/wizard"
)

// Notifier renders outcomes. Implementations must be safe for concurrent use.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	// Status shows a transient progress line.
	Status(msg string)
	// Document shows a longer read-only text.
	Document(title, body string)
}

// ErrReported marks errors that were already shown through the Notifier.
var ErrReported = errors.New("reported")

type reportedError struct{ err error }

func (e *reportedError) Error() string        { return e.err.Error() }
func (e *reportedError) Unwrap() error        { return e.err }
func (e *reportedError) Is(target error) bool { return target == ErrReported }

// Commands holds the collaborators of every operation.
type Commands struct {
	Store     config.Store
	Presenter wizard.Presenter
	Notifier  Notifier

	// Confirm asks a yes/no question. Nil answers "no" to everything.
	Confirm func(ctx context.Context, question string) (bool, error)

	// NewClient builds the REST client for an environment. Defaults to client.New.
	NewClient func(env config.Environment) *client.Client

	// Open is called with the path of a freshly pulled library. Optional.
	Open func(ctx context.Context, path string) error

	// DiffTool replaces the built-in diff view of CompareLibrary. Optional.
	DiffTool func(ctx context.Context, localPath, remotePath string) error
}

func (c *Commands) client(env config.Environment) *client.Client {
	if c.NewClient != nil {
		return c.NewClient(env)
	}
	return client.New(env)
}

func (c *Commands) confirm(ctx context.Context, question string) (bool, error) {
	if c.Confirm == nil {
		return false, nil
	}
	return c.Confirm(ctx, question)
}

// warn shows msg as a warning and returns it as a reported error. cause, when
// set, is logged and wrapped.
func (c *Commands) warn(msg string, cause error) error {
	c.Notifier.Warn(msg)
	return c.reported(msg, cause)
}

// fail shows msg as an error and returns it as a reported error.
func (c *Commands) fail(msg string, cause error) error {
	c.Notifier.Error(msg)
	return c.reported(msg, cause)
}

func (c *Commands) reported(msg string, cause error) error {
	if cause == nil {
		return &reportedError{err: errors.New(msg)}
	}
	logger.Error(msg, "error", cause)
	return &reportedError{err: fmt.Errorf("%s: %w", msg, cause)}
}

// describe renders err the way the server reported it when possible.
func describe(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return "An unexpected error occurred. Check the log for more information. " + err.Error()
}

// abandoned reports whether err means the user walked away from a prompt.
func abandoned(err error) bool {
	return errors.Is(err, context.Canceled)
}

// showMessages renders server messages: none gives fallback, one becomes a
// notification, several open as a document.
func (c *Commands) showMessages(title, fallback string, msgs []string) {
	switch len(msgs) {
	case 0:
		c.Notifier.Info(fallback)
	case 1:
		c.Notifier.Info(msgs[0])
	default:
		c.Notifier.Document(title, strings.Join(msgs, "\n"))
	}
}
