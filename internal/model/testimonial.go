// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Rating bounds for testimonials.
const (
	RatingMin = 1
	RatingMax = 5
)

// Testimonial represents a customer quote shown on the public site.
type Testimonial struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Company   string    `json:"company,omitempty"`
	Role      string    `json:"role,omitempty"`
	Quote     string    `json:"quote"`
	Rating    int64     `json:"rating"`
	Avatar    string    `json:"avatar,omitempty"`
	IsActive  bool      `json:"is_active"`
	SortOrder int64     `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValidRating reports whether r is within the accepted rating range.
func IsValidRating(r int64) bool {
	return r >= RatingMin && r <= RatingMax
}
