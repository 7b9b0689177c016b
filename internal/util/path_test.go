// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "photo.jpg", "photo.jpg", false},
		{"with directory", "dir/photo.jpg", "photo.jpg", false},
		{"traversal", "../../etc/passwd", "passwd", false},
		{"dot", ".", "", true},
		{"dotdot", "..", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SanitizeFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSafeJoinPath(t *testing.T) {
	if _, err := SafeJoinPath("/uploads", "sections", "a.png"); err != nil {
		t.Errorf("expected join inside base to succeed, got %v", err)
	}

	if _, err := SafeJoinPath("/uploads", "..", "etc", "passwd"); err == nil {
		t.Error("expected traversal to be rejected")
	}

	// Sibling directory sharing the prefix must not pass.
	if _, err := SafeJoinPath("/uploads", "../uploads-evil/x"); err == nil {
		t.Error("expected sibling prefix escape to be rejected")
	} else if !strings.Contains(err.Error(), "traversal") {
		t.Errorf("unexpected error: %v", err)
	}
}
