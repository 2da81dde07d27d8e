// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package runner

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// runLocalCommand executes cmd and reports a failure on errChan.
// In cliMode the command gets the terminal, which editors and interactive
// diff tools need. Otherwise its output is sent over outChan.
func runLocalCommand(cmd *exec.Cmd, cmdDesc string, cliMode bool, outChan chan<- OutputLine, errChan chan<- error) {
	var err error
	if cliMode {
		err = runAttached(cmd, cmdDesc)
	} else {
		err = runPiped(cmd, cmdDesc, outChan)
	}
	if err != nil {
		errChan <- err
	}
}

func runAttached(cmd *exec.Cmd, cmdDesc string) error {
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", cmdDesc, err)
	}
	return exitError(cmdDesc, cmd.Wait())
}

func runPiped(cmd *exec.Cmd, cmdDesc string, outChan chan<- OutputLine) error {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdout pipe for %s: %w", cmdDesc, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to get stderr pipe for %s: %w", cmdDesc, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", cmdDesc, err)
	}

	// Pipes must be drained before Wait closes them.
	done := make(chan struct{}, 2)
	go streamPipe(stdout, outChan, done, false)
	go streamPipe(stderr, outChan, done, true)
	<-done
	<-done

	return exitError(cmdDesc, cmd.Wait())
}

// exitError names the exit status when the process ran to completion.
func exitError(cmdDesc string, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return fmt.Errorf("%s exited with status %d: %w", cmdDesc, exitErr.ExitCode(), err)
	}
	return fmt.Errorf("%s failed: %w", cmdDesc, err)
}
