// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package envsetup is the seven step "add environment" flow. It collects the
// connection details of a Service Manager instance and turns them into a
// config.Environment.
package envsetup

import (
	"context"
	"strings"

	"smctl/internal/config"
	"smctl/internal/wizard"

	"github.com/huandu/xstrings"
)

// Title is shown on every step.
const Title = "Add new Service Manager Environment"

const totalSteps = 7

const (
	DefaultEndpoint = "http://localhost"
	DefaultPort     = "13080"
	restSuffix      = "/SM/9/rest"
)

// State is what the flow collects. Values survive back navigation and prefill
// their prompt when the user returns to a step. Password is the exception.
type State struct {
	Name     string
	Alias    string
	Endpoint string
	Port     string
	Username string
	Password string
	Path     string
}

// Flow wires the steps to their collaborators.
type Flow struct {
	Presenter wizard.Presenter

	// Confirm asks a yes/no question after a prompt was dismissed. Nil means
	// a dismissal always cancels.
	Confirm func(ctx context.Context, question string) (bool, error)

	// AliasTaken reports whether an alias is already configured.
	AliasTaken func(alias string) bool
}

// Run shows the flow. The returned state is complete only when the outcome
// is wizard.Completed.
func (f *Flow) Run(ctx context.Context) (State, wizard.Outcome, error) {
	var st State
	outcome, err := wizard.Run(ctx, f.Presenter, &st, f.askName)
	return st, outcome, err
}

// NormalizeAlias is the canonical form aliases are stored and compared in.
func NormalizeAlias(s string) string {
	return xstrings.ToKebabCase(strings.TrimSpace(s))
}

// BuildEnvironment maps a completed state onto the stored environment shape.
func BuildEnvironment(st State) (alias string, env config.Environment) {
	url := strings.TrimRight(strings.TrimSpace(st.Endpoint), "/") + ":" + strings.TrimSpace(st.Port) + restSuffix
	return NormalizeAlias(st.Alias), config.Environment{
		Name:               strings.TrimSpace(st.Name),
		URL:                url,
		ResourceCollection: "ScriptLibrary",
		ResourceName:       "ScriptLibrary",
		Username:           st.Username,
		Password:           st.Password,
		Path:               st.Path,
		DefaultPackage:     "User",
		Fields: config.Fields{
			Name:    "Name",
			Package: "Package",
			Script:  "Script",
		},
	}
}

func (f *Flow) shouldResume(ctx context.Context) (bool, error) {
	if f.Confirm == nil {
		return false, nil
	}
	return f.Confirm(ctx, "The input was closed. Continue adding the environment?")
}

func (f *Flow) params(step int, value, prompt, placeholder string, v wizard.Validator) wizard.InputBoxParams {
	return wizard.InputBoxParams{
		Title:          Title,
		Step:           step,
		TotalSteps:     totalSteps,
		Value:          value,
		Prompt:         prompt,
		Placeholder:    placeholder,
		Validate:       v,
		ShouldResume:   f.shouldResume,
		IgnoreFocusOut: true,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (f *Flow) askName(ctx context.Context, seq *wizard.Sequencer[State], st *State) (wizard.Step[State], error) {
	v, err := seq.ShowInputBox(ctx, f.params(1, st.Name,
		"Define a environment name. This name will be used as display value in the list of available environments.",
		"", validateName))
	if err != nil {
		return nil, err
	}
	st.Name = v
	return f.askAlias, nil
}

func (f *Flow) askAlias(ctx context.Context, seq *wizard.Sequencer[State], st *State) (wizard.Step[State], error) {
	v, err := seq.ShowInputBox(ctx, f.params(2, st.Alias,
		"Define a unique environment alias.",
		NormalizeAlias(st.Name), f.validateAlias))
	if err != nil {
		return nil, err
	}
	st.Alias = v
	return f.askEndpoint, nil
}

func (f *Flow) askEndpoint(ctx context.Context, seq *wizard.Sequencer[State], st *State) (wizard.Step[State], error) {
	v, err := seq.ShowInputBox(ctx, f.params(3, orDefault(st.Endpoint, DefaultEndpoint),
		"Define the endpoint. Please ensure that the you insert only the URL to your environment without port or any URL suffix.",
		DefaultEndpoint, validateEndpoint))
	if err != nil {
		return nil, err
	}
	st.Endpoint = v
	return f.askPort, nil
}

func (f *Flow) askPort(ctx context.Context, seq *wizard.Sequencer[State], st *State) (wizard.Step[State], error) {
	v, err := seq.ShowInputBox(ctx, f.params(4, orDefault(st.Port, DefaultPort),
		"Define the port where your service manager is listen to.",
		DefaultPort, validatePort))
	if err != nil {
		return nil, err
	}
	st.Port = v
	return f.askUsername, nil
}

func (f *Flow) askUsername(ctx context.Context, seq *wizard.Sequencer[State], st *State) (wizard.Step[State], error) {
	v, err := seq.ShowInputBox(ctx, f.params(5, st.Username, "Define the username", "falcon", validateUsername))
	if err != nil {
		return nil, err
	}
	st.Username = v
	return f.askPassword, nil
}

func (f *Flow) askPassword(ctx context.Context, seq *wizard.Sequencer[State], st *State) (wizard.Step[State], error) {
	p := f.params(6, "", "Define the password", "*******", validatePassword)
	p.Password = true
	v, err := seq.ShowInputBox(ctx, p)
	if err != nil {
		return nil, err
	}
	st.Password = v
	return f.askPath, nil
}

func (f *Flow) askPath(ctx context.Context, seq *wizard.Sequencer[State], st *State) (wizard.Step[State], error) {
	v, err := seq.ShowInputBox(ctx, f.params(7, st.Path,
		"Define the location where the pulled libraries should be saved for this environment.",
		"/Users/username/Development/SMENV/", validatePath))
	if err != nil {
		return nil, err
	}
	st.Path = v
	return nil, nil
}
