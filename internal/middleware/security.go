// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
)

// SecurityHeadersConfig configures the security headers middleware.
type SecurityHeadersConfig struct {
	ContentSecurityPolicy string
	FrameOptions          string
	HSTSMaxAge            int
	HSTSIncludeSubDomains bool
	IsDevelopment         bool
}

// DefaultSecurityHeadersConfig returns headers suitable for the public site.
func DefaultSecurityHeadersConfig(isDevelopment bool) SecurityHeadersConfig {
	return SecurityHeadersConfig{
		FrameOptions:          "DENY",
		HSTSMaxAge:            31536000,
		HSTSIncludeSubDomains: true,
		IsDevelopment:         isDevelopment,
	}
}

// SecurityHeaders sets standard browser security headers on every response.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.ContentSecurityPolicy != "" {
				w.Header().Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			}

			// HSTS only matters over HTTPS in production.
			if !cfg.IsDevelopment && cfg.HSTSMaxAge > 0 {
				hsts := "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
				if cfg.HSTSIncludeSubDomains {
					hsts += "; includeSubDomains"
				}
				w.Header().Set("Strict-Transport-Security", hsts)
			}

			if cfg.FrameOptions != "" {
				w.Header().Set("X-Frame-Options", cfg.FrameOptions)
			}
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			next.ServeHTTP(w, r)
		})
	}
}
