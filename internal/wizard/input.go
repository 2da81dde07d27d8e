// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package wizard

import (
	"context"
	"sync"
)

// Validator checks a candidate value. An empty message means the value is
// valid. A non-nil error is a fault, not a validation failure.
type Validator func(ctx context.Context, value string) (message string, err error)

// ResumeFunc decides, after a prompt was dismissed, whether the same step
// should be shown again (true) or the whole run abandoned (false).
type ResumeFunc func(ctx context.Context) (bool, error)

// InputBoxParams describes one free-text prompt.
type InputBoxParams struct {
	Title          string
	Step           int
	TotalSteps     int
	Value          string
	Prompt         string
	Placeholder    string
	Password       bool
	IgnoreFocusOut bool
	Validate       Validator
	ShouldResume   ResumeFunc
}

type validation struct {
	gen     uint64
	message string
	err     error
}

// ShowInputBox displays a text prompt and blocks until the user accepts a
// valid value, presses back, or dismisses the prompt. Back and dismissal are
// reported as FlowSignal errors.
//
// Every edit starts a validation in the background. Only the result of the
// most recently started validation is ever displayed; older results that
// arrive late are dropped. No validation is still running once
// ShowInputBox has returned.
func (s *Sequencer[S]) ShowInputBox(ctx context.Context, p InputBoxParams) (string, error) {
	s.release()
	box := s.presenter.CreateInputBox()
	box.Configure(InputBoxOptions{
		Title:          p.Title,
		Step:           p.Step,
		TotalSteps:     p.TotalSteps,
		Value:          p.Value,
		Prompt:         p.Prompt,
		Placeholder:    p.Placeholder,
		Password:       p.Password,
		IgnoreFocusOut: p.IgnoreFocusOut,
		ShowBack:       len(s.steps) > 1,
	})
	events, unsubscribe := box.Subscribe()
	defer unsubscribe()
	s.current = box
	box.Show()

	// Validations still in flight are cancelled and waited for when the
	// prompt settles.
	vctx, cancel := context.WithCancel(ctx)
	var inflight sync.WaitGroup
	defer func() {
		cancel()
		inflight.Wait()
	}()

	results := make(chan validation)
	var latest uint64
	startValidation := func(text string) {
		latest++
		gen := latest
		inflight.Add(1)
		go func() {
			defer inflight.Done()
			msg, err := runValidator(vctx, p.Validate, text)
			select {
			case results <- validation{gen: gen, message: msg, err: err}:
			case <-vctx.Done():
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case r := <-results:
			if r.gen != latest {
				continue
			}
			if r.err != nil {
				return "", r.err
			}
			box.SetValidationMessage(r.message)

		case ev, ok := <-events:
			if !ok {
				ev = Event{Kind: EventHide}
			}
			switch ev.Kind {
			case EventValueChanged:
				startValidation(ev.Value)

			case EventAccept:
				value := ev.Value
				latest++ // anything still in flight is now stale
				box.SetEnabled(false)
				box.SetBusy(true)
				msg, err := runValidator(vctx, p.Validate, value)
				box.SetEnabled(true)
				box.SetBusy(false)
				if err != nil {
					return "", err
				}
				if msg == "" {
					return value, nil
				}
				box.SetValidationMessage(msg)

			case EventBack:
				return "", Back

			case EventHide:
				return "", dismissed(ctx, p.ShouldResume)
			}
		}
	}
}

func runValidator(ctx context.Context, v Validator, value string) (string, error) {
	if v == nil {
		return "", nil
	}
	return v(ctx, value)
}

// dismissed turns a hidden prompt into Resume or Cancel.
func dismissed(ctx context.Context, shouldResume ResumeFunc) error {
	if shouldResume == nil {
		return Cancel
	}
	resume, err := shouldResume(ctx)
	if err != nil {
		return err
	}
	if resume {
		return Resume
	}
	return Cancel
}
