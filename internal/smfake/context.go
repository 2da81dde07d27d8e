// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package smfake

import (
	"context"
	"net/http"
)

type bodyKey struct{}

// withBody stashes the already decoded request body for the handlers.
func withBody(r *http.Request, body map[string]map[string]string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), bodyKey{}, body))
}

func bodyOf(r *http.Request) map[string]map[string]string {
	body, _ := r.Context().Value(bodyKey{}).(map[string]map[string]string)
	return body
}
