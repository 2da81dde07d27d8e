// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package wizard

import "errors"

// FlowSignal is a navigation request raised by a prompt. It travels as an
// error so steps can simply return it, but it is never a failure.
type FlowSignal int

const (
	Back FlowSignal = iota + 1
	Cancel
	Resume
)

func (s FlowSignal) Error() string {
	switch s {
	case Back:
		return "wizard: back"
	case Cancel:
		return "wizard: cancel"
	case Resume:
		return "wizard: resume"
	default:
		return "wizard: unknown signal"
	}
}

// AsSignal reports whether err carries a FlowSignal anywhere in its chain.
func AsSignal(err error) (FlowSignal, bool) {
	var sig FlowSignal
	if errors.As(err, &sig) {
		return sig, true
	}
	return 0, false
}

// Outcome is how a run ended when it did not fail.
type Outcome int

const (
	// Completed means the last step returned no successor.
	Completed Outcome = iota + 1
	// Cancelled means the user abandoned the run.
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}
