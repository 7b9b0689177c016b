// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
)

func TestRobotsDefault(t *testing.T) {
	out := GenerateRobots("https://example.com/", false)

	for _, want := range []string{
		"User-agent: *",
		"Disallow: /api/",
		"Disallow: /uploads/",
		"Allow: /",
		"Sitemap: https://example.com/sitemap.xml",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("robots.txt missing %q:\n%s", want, out)
		}
	}
}

func TestRobotsDisallowAll(t *testing.T) {
	out := GenerateRobots("https://example.com", true)

	if !strings.Contains(out, "Disallow: /\n") {
		t.Error("expected full disallow")
	}
	if strings.Contains(out, "Sitemap:") {
		t.Error("staging robots.txt should not advertise a sitemap")
	}
}

func TestRobotsExtraPaths(t *testing.T) {
	out := NewRobotsBuilder(RobotsConfig{
		SiteURL:       "https://example.com",
		DisallowPaths: []string{"/preview/"},
	}).Build()

	if !strings.Contains(out, "Disallow: /preview/") {
		t.Errorf("custom path missing:\n%s", out)
	}
}
