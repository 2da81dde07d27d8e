// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package util holds small helpers shared across packages.
package util

import "strings"

// QuoteArgForShell quotes an argument for a POSIX shell using single quotes,
// escaping any internal single quotes. A leading "~/" stays unquoted so the
// shell still expands it when the rendered command is pasted into a terminal.
func QuoteArgForShell(arg string) string {
	if rest, ok := strings.CutPrefix(arg, "~/"); ok {
		return `~/'` + strings.ReplaceAll(rest, "'", `'\''`) + `'`
	}
	return `'` + strings.ReplaceAll(arg, "'", `'\''`) + `'`
}
