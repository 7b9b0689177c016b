// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"time"
)

// APIKey represents an API authentication key. Keys guard the mutating
// admin endpoints; only the SHA-256 hash of the raw key is stored.
type APIKey struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	KeyHash    string       `json:"-"`
	KeyPrefix  string       `json:"key_prefix"`
	ExpiresAt  sql.NullTime `json:"expires_at,omitempty"`
	LastUsedAt sql.NullTime `json:"last_used_at,omitempty"`
	IsActive   bool         `json:"is_active"`
	CreatedAt  time.Time    `json:"created_at"`
}

// GenerateAPIKey generates a new random API key.
// Returns the raw key (shown once at provisioning time) and the key prefix.
func GenerateAPIKey() (rawKey string, prefix string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	rawKey = "tb_" + base64.RawURLEncoding.EncodeToString(buf)
	prefix = rawKey[:11]
	return rawKey, prefix, nil
}

// HashAPIKey returns the hex-encoded SHA-256 hash of a raw API key.
func HashAPIKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}
