// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package envsetup

import (
	"context"
	"net/url"
	"os"
	"strconv"
	"strings"

	"smctl/internal/config"
)

// required builds a validator that only rejects blank input.
func required(message string) func(context.Context, string) (string, error) {
	return func(_ context.Context, v string) (string, error) {
		if strings.TrimSpace(v) == "" {
			return message, nil
		}
		return "", nil
	}
}

var (
	validateName     = required("Environment name is required.")
	validateUsername = required("Username is required.")
	validatePassword = required("Password is required.")
)

func (f *Flow) validateAlias(_ context.Context, v string) (string, error) {
	alias := NormalizeAlias(v)
	if alias == "" {
		return "Environment Alias is required.", nil
	}
	if f.AliasTaken != nil && f.AliasTaken(alias) {
		return "Environment alias already exists.", nil
	}
	return "", nil
}

func validateEndpoint(_ context.Context, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "Endpoint is required.", nil
	}
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "Endpoint must be an http:// or https:// URL.", nil
	}
	if u.Port() != "" || (u.Path != "" && u.Path != "/") {
		return "Endpoint must not contain a port or path.", nil
	}
	return "", nil
}

func validatePort(_ context.Context, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "Endpoint Port is required.", nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 65535 {
		return "Endpoint Port must be a number between 1 and 65535.", nil
	}
	return "", nil
}

func validatePath(_ context.Context, v string) (string, error) {
	const invalid = "Path is not valid"
	if strings.TrimSpace(v) == "" {
		return invalid, nil
	}
	dir, err := config.ResolvePath(v)
	if err != nil {
		return invalid, nil
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return invalid, nil
	}
	if _, err := os.ReadDir(dir); err != nil {
		return invalid, nil
	}
	return "", nil
}
