// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package library maps ScriptLibrary records to .js files in an
// environment's workspace directory.
package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"smctl/internal/client"
	"smctl/internal/config"

	"github.com/pmezard/go-difflib/difflib"
)

// Ext is the extension of local library files.
const Ext = ".js"

// ErrUnsaved is returned when the local file does not exist on disk.
var ErrUnsaved = errors.New("file has not been saved")

// NameFromPath derives the library name from a file path: the base name
// without the .js extension.
func NameFromPath(file string) string {
	return strings.TrimSuffix(filepath.Base(file), Ext)
}

// PathFor is where lib is stored for env.
func PathFor(env config.Environment, name string) (string, error) {
	dir, err := config.ResolvePath(env.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+Ext), nil
}

// Save writes lib's script into the environment's workspace and returns the path.
func Save(env config.Environment, lib *client.Library) (string, error) {
	if lib.Name == "" {
		return "", errors.New("library has no name")
	}
	path, err := PathFor(env, lib.Name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(lib.Script), 0644); err != nil {
		return "", fmt.Errorf("unable to save ScriptLibrary %s: %w", lib.Name, err)
	}
	return path, nil
}

// ReadScript returns the content of a local library file.
func ReadScript(file string) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", file, ErrUnsaved)
		}
		return "", err
	}
	return string(data), nil
}

// Comparison is a local file next to a snapshot of its remote version.
type Comparison struct {
	LocalPath  string
	RemotePath string
	// Diff is a unified diff from local (left) to remote (right). It is
	// empty when both sides are identical.
	Diff string
}

// Title labels the two sides of a comparison.
const Title = "(left) Local File - (right) Remote File"

// Compare snapshots remote into the temp dir and diffs it against localPath.
// The snapshot file is left in place so an external diff tool can open it.
func Compare(localPath string, remote *client.Library) (*Comparison, error) {
	local, err := ReadScript(localPath)
	if err != nil {
		return nil, err
	}

	name := NameFromPath(localPath)
	remotePath := filepath.Join(os.TempDir(), fmt.Sprintf("remote_compare_%s_%d%s", name, time.Now().UnixMilli(), Ext))
	if err := os.WriteFile(remotePath, []byte(remote.Script), 0600); err != nil {
		return nil, fmt.Errorf("writing remote snapshot: %w", err)
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(local),
		B:        difflib.SplitLines(remote.Script),
		FromFile: localPath,
		ToFile:   remotePath,
		Context:  3,
	})
	if err != nil {
		return nil, fmt.Errorf("diffing %s: %w", name, err)
	}
	return &Comparison{LocalPath: localPath, RemotePath: remotePath, Diff: diff}, nil
}
