// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteArgForShell(t *testing.T) {
	assert.Equal(t, `'plain'`, QuoteArgForShell("plain"))
	assert.Equal(t, `'it'\''s'`, QuoteArgForShell("it's"))
	assert.Equal(t, `'a b'`, QuoteArgForShell("a b"))
	assert.Equal(t, `~/'libs/my lib.js'`, QuoteArgForShell("~/libs/my lib.js"))
}
