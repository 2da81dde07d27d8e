// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	sealedPrefix  = "sealed:"
	keyFileName   = "secret.key"
	nonceSize     = 24
	secretKeySize = 32
)

var errBadSealedValue = errors.New("sealed password is corrupt or was sealed with another key")

func isSealed(v string) bool {
	return strings.HasPrefix(v, sealedPrefix)
}

// loadKey reads dir/secret.key, creating it (0600) on first use when create is set.
func loadKey(dir string, create bool) (*[secretKeySize]byte, error) {
	path := filepath.Join(dir, keyFileName)
	data, err := os.ReadFile(path)
	if err == nil {
		if len(data) != secretKeySize {
			return nil, fmt.Errorf("key file %s has unexpected size %d", path, len(data))
		}
		var key [secretKeySize]byte
		copy(key[:], data)
		return &key, nil
	}
	if !os.IsNotExist(err) || !create {
		return nil, fmt.Errorf("failed to read key file %s: %w", path, err)
	}

	var key [secretKeySize]byte
	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	if err := os.WriteFile(path, key[:], 0600); err != nil {
		return nil, fmt.Errorf("failed to write key file %s: %w", path, err)
	}
	return &key, nil
}

func sealPassword(dir, plain string) (string, error) {
	key, err := loadKey(dir, true)
	if err != nil {
		return "", err
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, key)
	return sealedPrefix + base64.StdEncoding.EncodeToString(box), nil
}

func openPassword(dir, sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, sealedPrefix))
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", errBadSealedValue
	}
	key, err := loadKey(dir, false)
	if err != nil {
		return "", err
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, key)
	if !ok {
		return "", errBadSealedValue
	}
	return string(plain), nil
}
