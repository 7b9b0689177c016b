// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Supported image MIME types for uploads.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypeSVG  = "image/svg+xml"
)

// IsSupportedMimeType reports whether uploads of this MIME type are accepted.
func IsSupportedMimeType(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP, MimeTypeSVG:
		return true
	default:
		return false
	}
}

// ImageVariantConfig describes how a resized variant is produced.
type ImageVariantConfig struct {
	Width   int
	Height  int
	Quality int
	Crop    bool
}

// Variant type names double as upload subdirectory names.
const (
	VariantThumbnail = "thumbnails"
	VariantMedium    = "medium"
)

// ImageVariants lists the variants generated for every raster upload.
var ImageVariants = map[string]ImageVariantConfig{
	VariantThumbnail: {Width: 300, Height: 300, Quality: 80, Crop: true},
	VariantMedium:    {Width: 1024, Height: 1024, Quality: 85, Crop: false},
}
