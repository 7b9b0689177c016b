// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Timeout cancels the request context after d and answers 503 if the handler
// has not produced a response by then. A handler that already started writing
// keeps the connection; only the deadline response is suppressed.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			dw := &deadlineWriter{ResponseWriter: w}
			finished := make(chan struct{})
			go func() {
				defer close(finished)
				next.ServeHTTP(dw, r.WithContext(ctx))
			}()

			select {
			case <-finished:
			case <-ctx.Done():
				dw.once.Do(func() {
					w.Header().Set("Content-Type", "text/plain; charset=utf-8")
					w.WriteHeader(http.StatusServiceUnavailable)
					_, _ = w.Write([]byte("Request timeout"))
				})
			}
		})
	}
}

// deadlineWriter lets exactly one of the handler and the timeout branch win
// the header write.
type deadlineWriter struct {
	http.ResponseWriter
	once sync.Once
}

func (dw *deadlineWriter) WriteHeader(code int) {
	dw.once.Do(func() {
		dw.ResponseWriter.WriteHeader(code)
	})
}

func (dw *deadlineWriter) Write(b []byte) (int, error) {
	dw.once.Do(func() {
		dw.ResponseWriter.WriteHeader(http.StatusOK)
	})
	return dw.ResponseWriter.Write(b)
}
