// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package runner

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolStepAppendsFilesWithoutPlaceholders(t *testing.T) {
	step, err := ToolStep("Compare", "meld --newtab", "/w/a.js", "/tmp/b.js")
	require.NoError(t, err)
	assert.Equal(t, "meld", step.Command)
	assert.Equal(t, []string{"--newtab", "/w/a.js", "/tmp/b.js"}, step.Args)
}

func TestToolStepSubstitutesPlaceholders(t *testing.T) {
	step, err := ToolStep("Compare", `code --diff "{local}" --title='x y' {remote}`, "/w/my lib.js", "/tmp/b.js")
	require.NoError(t, err)
	assert.Equal(t, "code", step.Command)
	assert.Equal(t, []string{"--diff", "/w/my lib.js", "--title=x y", "/tmp/b.js"}, step.Args)
	assert.Equal(t, `code '--diff' '/w/my lib.js' '--title=x y' '/tmp/b.js'`, step.String())
}

func TestToolStepExpandsEnvironment(t *testing.T) {
	t.Setenv("SMCTL_TEST_TOOL", "vimdiff")
	step, err := ToolStep("Compare", "$SMCTL_TEST_TOOL", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "vimdiff", step.Command)
}

func TestToolStepRejectsEmptyAndBrokenLines(t *testing.T) {
	_, err := ToolStep("Compare", "   ", "a", "b")
	assert.Error(t, err)
	_, err = ToolStep("Compare", `meld "unterminated`, "a", "b")
	assert.Error(t, err)
}

func TestEditorStep(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	_, err := EditorStep("/w/a.js")
	require.ErrorIs(t, err, ErrNoEditor)

	t.Setenv("EDITOR", "nano -w")
	step, err := EditorStep("/w/a.js")
	require.NoError(t, err)
	assert.Equal(t, "nano", step.Command)
	assert.Equal(t, []string{"-w", "/w/a.js"}, step.Args)
}

func TestCollectStreamsBothPipes(t *testing.T) {
	step := Step{Name: "echo", Command: "sh", Args: []string{"-c", "echo out; echo err 1>&2"}}
	var stdout, stderr strings.Builder

	err := Collect(context.Background(), step, func(l OutputLine) {
		if l.IsError {
			stderr.WriteString(l.Line)
		} else {
			stdout.WriteString(l.Line)
		}
	})

	require.NoError(t, err)
	assert.Equal(t, "out\n", stdout.String())
	assert.Equal(t, "err\n", stderr.String())
}

func TestCollectReportsExitStatus(t *testing.T) {
	step := Step{Name: "fail", Command: "sh", Args: []string{"-c", "exit 3"}}

	err := Collect(context.Background(), step, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 'fail' exited with status 3")
}

func TestCollectMissingCommand(t *testing.T) {
	step := Step{Name: "missing", Command: "smctl-no-such-tool"}

	err := Collect(context.Background(), step, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start step 'missing'")
}
