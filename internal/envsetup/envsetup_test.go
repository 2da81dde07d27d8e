// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package envsetup

import (
	"context"
	"path/filepath"
	"testing"

	"smctl/internal/config"
	"smctl/internal/wizard"
	"smctl/internal/wizard/wizardtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFullFlowBuildsTheEnvironment(t *testing.T) {
	dir := t.TempDir()
	p := wizardtest.New(
		wizardtest.Enter("Production Server"),
		wizardtest.Enter("Production Server"),
		wizardtest.AcceptValue(),
		wizardtest.AcceptValue(),
		wizardtest.Enter("falcon"),
		wizardtest.Enter("s3cret"),
		wizardtest.Enter(dir),
	)
	f := &Flow{Presenter: p, AliasTaken: func(string) bool { return false }}

	st, outcome, err := f.Run(context.Background())

	require.NoError(t, err)
	require.Equal(t, wizard.Completed, outcome)
	alias, env := BuildEnvironment(st)
	assert.Equal(t, "production-server", alias)
	assert.Equal(t, config.Environment{
		Name:               "Production Server",
		URL:                "http://localhost:13080/SM/9/rest",
		ResourceCollection: "ScriptLibrary",
		ResourceName:       "ScriptLibrary",
		Username:           "falcon",
		Password:           "s3cret",
		Path:               dir,
		DefaultPackage:     "User",
		Fields:             config.Fields{Name: "Name", Package: "Package", Script: "Script"},
	}, env)

	widgets := p.Widgets()
	require.Len(t, widgets, 7)
	for i, w := range widgets {
		opts := w.InputOptions()
		assert.Equal(t, Title, opts.Title)
		assert.Equal(t, i+1, opts.Step)
		assert.Equal(t, 7, opts.TotalSteps)
		assert.True(t, opts.IgnoreFocusOut)
	}
	assert.Equal(t, "production-server", widgets[1].InputOptions().Placeholder)
	assert.True(t, widgets[5].InputOptions().Password)
}

func TestTakenAliasIsRejectedAfterNormalising(t *testing.T) {
	dir := t.TempDir()
	p := wizardtest.New(
		wizardtest.Enter("Dev"),
		wizardtest.Sequence(wizardtest.Enter("My Dev"), wizardtest.Enter("my-dev-2")),
		wizardtest.AcceptValue(),
		wizardtest.AcceptValue(),
		wizardtest.Enter("u"),
		wizardtest.Enter("p"),
		wizardtest.Enter(dir),
	)
	f := &Flow{Presenter: p, AliasTaken: func(a string) bool { return a == "my-dev" }}

	st, outcome, err := f.Run(context.Background())

	require.NoError(t, err)
	require.Equal(t, wizard.Completed, outcome)
	assert.Equal(t, "my-dev-2", st.Alias)
	assert.Contains(t, p.Widgets()[1].ValidationMessages(), "Environment alias already exists.")
}

func TestBackKeepsValuesButNotThePassword(t *testing.T) {
	dir := t.TempDir()
	p := wizardtest.New(
		wizardtest.Enter("QA"),
		wizardtest.Enter("qa"),
		wizardtest.AcceptValue(),
		wizardtest.AcceptValue(),
		wizardtest.Enter("falcon"),
		wizardtest.Enter("first"),
		wizardtest.GoBack(), // path -> password
		wizardtest.GoBack(), // password -> username
		wizardtest.AcceptValue(),
		wizardtest.Enter("second"),
		wizardtest.Enter(dir),
	)
	f := &Flow{Presenter: p}

	st, outcome, err := f.Run(context.Background())

	require.NoError(t, err)
	require.Equal(t, wizard.Completed, outcome)
	assert.Equal(t, "second", st.Password)

	widgets := p.Widgets()
	assert.Equal(t, "falcon", widgets[8].InputOptions().Value)
	assert.Equal(t, "", widgets[9].InputOptions().Value)
}

func TestDismissAsksToResume(t *testing.T) {
	var questions []string
	p := wizardtest.New(wizardtest.Dismiss(), wizardtest.Dismiss())
	f := &Flow{
		Presenter: p,
		Confirm: func(_ context.Context, q string) (bool, error) {
			questions = append(questions, q)
			return len(questions) == 1, nil
		},
	}

	_, outcome, err := f.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, wizard.Cancelled, outcome)
	assert.Len(t, questions, 2)
}

func TestValidators(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cases := []struct {
		name  string
		fn    wizard.Validator
		input string
		want  string
	}{
		{"name blank", validateName, "  ", "Environment name is required."},
		{"name ok", validateName, "Dev", ""},
		{"endpoint blank", validateEndpoint, "", "Endpoint is required."},
		{"endpoint no scheme", validateEndpoint, "localhost", "Endpoint must be an http:// or https:// URL."},
		{"endpoint with port", validateEndpoint, "http://localhost:13080", "Endpoint must not contain a port or path."},
		{"endpoint ok", validateEndpoint, "https://sm.example.com", ""},
		{"port blank", validatePort, "", "Endpoint Port is required."},
		{"port text", validatePort, "http", "Endpoint Port must be a number between 1 and 65535."},
		{"port range", validatePort, "70000", "Endpoint Port must be a number between 1 and 65535."},
		{"port ok", validatePort, "13080", ""},
		{"username blank", validateUsername, "", "Username is required."},
		{"password blank", validatePassword, "", "Password is required."},
		{"path blank", validatePath, "", "Path is not valid"},
		{"path missing", validatePath, filepath.Join(dir, "nope"), "Path is not valid"},
		{"path ok", validatePath, dir, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.fn(ctx, tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	f := &Flow{}
	msg, err := f.validateAlias(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Environment Alias is required.", msg)
}

func TestNormalizeAlias(t *testing.T) {
	assert.Equal(t, "production-server", NormalizeAlias(" Production Server "))
	assert.Equal(t, "qa-env", NormalizeAlias("qaEnv"))
	assert.Equal(t, "dev", NormalizeAlias("dev"))
}
