// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package wizard runs multi-step input flows: an ordered chain of prompt
// steps that can move forward, go back to the previous step, be resumed after
// the prompt was dismissed, or be cancelled as a whole.
//
// Steps share one state record passed by pointer. Navigation requests travel
// as FlowSignal errors; anything else a step returns is a fault and ends the
// run with that error.
package wizard

import "context"

// Step collects one piece of input. It returns the step to run next, or nil
// when the flow is complete.
type Step[S any] func(ctx context.Context, seq *Sequencer[S], state *S) (Step[S], error)

// Sequencer drives a single run. It is not safe for concurrent use; steps run
// one at a time on the goroutine that called Run.
type Sequencer[S any] struct {
	presenter Presenter
	state     *S
	current   Widget
	steps     []Step[S]
}

// Run executes the flow starting at start. The returned outcome is only
// meaningful when err is nil. A fault raised by a step is returned unchanged.
func Run[S any](ctx context.Context, presenter Presenter, state *S, start Step[S]) (Outcome, error) {
	seq := &Sequencer[S]{
		presenter: presenter,
		state:     state,
	}
	return seq.stepThrough(ctx, start)
}

// Depth is the number of steps entered and not popped by navigation.
func (s *Sequencer[S]) Depth() int {
	return len(s.steps)
}

// State returns the shared state record of the run.
func (s *Sequencer[S]) State() *S {
	return s.state
}

func (s *Sequencer[S]) stepThrough(ctx context.Context, start Step[S]) (Outcome, error) {
	defer s.release()

	step := start
	for step != nil {
		s.steps = append(s.steps, step)
		if s.current != nil {
			s.current.SetEnabled(false)
			s.current.SetBusy(true)
		}

		next, err := step(ctx, s, s.state)
		if err == nil {
			if next == nil {
				return Completed, nil
			}
			step = next
			continue
		}

		sig, ok := AsSignal(err)
		if !ok {
			return 0, err
		}
		switch sig {
		case Back:
			s.pop()
			step = s.pop()
		case Resume:
			step = s.pop()
		default:
			step = nil
		}
	}
	return Cancelled, nil
}

// pop removes and returns the most recent history entry, or nil.
func (s *Sequencer[S]) pop() Step[S] {
	n := len(s.steps)
	if n == 0 {
		return nil
	}
	step := s.steps[n-1]
	s.steps[n-1] = nil
	s.steps = s.steps[:n-1]
	return step
}

func (s *Sequencer[S]) release() {
	if s.current != nil {
		s.current.Dispose()
		s.current = nil
	}
}
