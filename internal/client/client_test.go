// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smctl/internal/smfake"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFake(t *testing.T) (*smfake.Server, *Client) {
	t.Helper()
	fake := smfake.New("falcon", "secret")
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	c := New(fake.Environment("Test", srv.URL, t.TempDir()),
		WithBackoff(func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 2)
		}))
	return fake, c
}

func TestListLibraries(t *testing.T) {
	fake, c := newFake(t)
	fake.Put(smfake.Record{Name: "zeta", Script: "var z;"})
	fake.Put(smfake.Record{Name: "alpha", Script: "var a;"})

	names, err := c.ListLibraries(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, names)
}

func TestFetchLibraryResolvesFieldAliases(t *testing.T) {
	fake, c := newFake(t)
	fake.Put(smfake.Record{Name: "helpers", Package: "User", Script: "function x() {}"})

	lib, err := c.FetchLibrary(context.Background(), "helpers")

	require.NoError(t, err)
	assert.Equal(t, &Library{Name: "helpers", Package: "User", Script: "function x() {}"}, lib)
}

func TestFetchMissingLibraryIsNotRetried(t *testing.T) {
	fake, c := newFake(t)

	_, err := c.FetchLibrary(context.Background(), "missing")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "404 - No (more) records found", apiErr.Error())
	assert.Len(t, fake.Requests(), 1)
}

func TestReadsRetryServerErrors(t *testing.T) {
	fake, c := newFake(t)
	fake.Put(smfake.Record{Name: "one"})
	fake.FailNext(http.StatusServiceUnavailable, http.StatusBadGateway)

	names, err := c.ListLibraries(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, names)
	assert.Len(t, fake.Requests(), 3)
}

func TestReadsGiveUpAfterTheLastRetry(t *testing.T) {
	fake, c := newFake(t)
	fake.FailNext(http.StatusServiceUnavailable, http.StatusServiceUnavailable, http.StatusServiceUnavailable)

	_, err := c.ListLibraries(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Len(t, fake.Requests(), 3)
}

func TestReadsStopRetryingWhenCancelled(t *testing.T) {
	fake := smfake.New("falcon", "secret")
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	c := New(fake.Environment("Test", srv.URL, t.TempDir()), WithBackoff(func() backoff.BackOff {
		return backoff.NewConstantBackOff(time.Hour)
	}))
	fake.FailNext(http.StatusBadGateway)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err := c.ListLibraries(ctx)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, fake.Requests(), 1)
}

func TestWrongCredentials(t *testing.T) {
	fake, c := newFake(t)
	fake.Password = "changed"

	_, err := c.ListLibraries(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestExists(t *testing.T) {
	fake, c := newFake(t)
	fake.Put(smfake.Record{Name: "present"})

	ok, err := c.Exists(context.Background(), "present")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Exists(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)

	fake.FailNext(http.StatusInternalServerError)
	ok, err = c.Exists(context.Background(), "present")
	require.NoError(t, err, "an error status is an answer, not a failure")
	assert.False(t, ok)
}

func TestExistsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c := New(smfake.New("u", "p").Environment("Gone", url, ""))

	_, err := c.Exists(context.Background(), "anything")

	require.Error(t, err)
	var apiErr *APIError
	assert.NotErrorAs(t, err, &apiErr)
}

func TestPushCreatesThenUpdates(t *testing.T) {
	fake, c := newFake(t)

	res, err := c.Push(context.Background(), "newlib", "var a = 1;")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, []string{"ScriptLibrary record added."}, res.Messages)

	rec, ok := fake.Get("newlib")
	require.True(t, ok)
	assert.Equal(t, smfake.Record{Name: "newlib", Package: "User", Script: "var a = 1;"}, rec)

	res, err = c.Push(context.Background(), "newlib", "var a = 2;")
	require.NoError(t, err)
	assert.False(t, res.Created)
	rec, _ = fake.Get("newlib")
	assert.Equal(t, "var a = 2;", rec.Script)
	assert.Equal(t, "User", rec.Package)

	reqs := fake.Requests()
	last := reqs[len(reqs)-1]
	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, smfake.RestPrefix+"/ScriptLibrary/newlib", last.Path)
	assert.Equal(t, map[string]map[string]string{
		"ScriptLibrary": {"Name": "newlib", "Script": "var a = 2;"},
	}, last.Body)
}

func TestCompileAndExecute(t *testing.T) {
	fake, c := newFake(t)
	fake.Put(smfake.Record{Name: "lib"})
	fake.SetCompileMessages("lib", "line 3: missing ;", "line 9: unexpected }")
	fake.SetExecuteMessages("lib", "done")

	res, err := c.Compile(context.Background(), "lib")
	require.NoError(t, err)
	assert.Len(t, res.Messages, 2)

	res, err = c.Execute(context.Background(), "lib")
	require.NoError(t, err)
	assert.Equal(t, []string{"done"}, res.Messages)

	reqs := fake.Requests()
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.Equal(t, map[string]map[string]string{"ScriptLibrary": {}}, reqs[0].Body)
	assert.Equal(t, smfake.RestPrefix+"/ScriptLibrary/lib/action/execute", reqs[1].Path)
}

func TestCompileUnknownLibrary(t *testing.T) {
	_, c := newFake(t)

	_, err := c.Compile(context.Background(), "ghost")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestStringField(t *testing.T) {
	assert.Equal(t, "a\nb", stringField([]any{"a", "b"}))
	assert.Equal(t, "", stringField(nil))
	assert.Equal(t, "42", stringField(float64(42)))
}
