// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/talentbridge/cms/internal/model"
)

// createTestImage creates a simple gradient image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func TestProcessorIsRasterImage(t *testing.T) {
	p := NewProcessor(t.TempDir())

	tests := []struct {
		mimeType string
		want     bool
	}{
		{model.MimeTypeJPEG, true},
		{model.MimeTypePNG, true},
		{model.MimeTypeGIF, true},
		{model.MimeTypeWebP, true},
		{model.MimeTypeSVG, false},
		{"application/octet-stream", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := p.IsRasterImage(tt.mimeType); got != tt.want {
				t.Errorf("IsRasterImage(%q) = %v, want %v", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg magic bytes", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpeg"},
		{"png magic bytes", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "png"},
		{"gif magic bytes", []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61}, "gif"},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.data); got != tt.want {
				t.Errorf("detectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFormatFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"hero.jpg", "jpeg"},
		{"hero.jpeg", "jpeg"},
		{"hero.JPG", "jpeg"},
		{"slide.png", "png"},
		{"slide.webp", "webp"},
		{"anim.gif", "gif"},
		{"noextension", "jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := detectFormatFromFilename(tt.filename); got != tt.want {
				t.Errorf("detectFormatFromFilename(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestApplyOrientation(t *testing.T) {
	for orientation := 0; orientation <= 9; orientation++ {
		t.Run(fmt.Sprintf("orientation_%d", orientation), func(t *testing.T) {
			img := createTestImage(10, 20)
			result := applyOrientation(img, orientation)
			if result == nil {
				t.Fatal("applyOrientation returned nil")
			}
			rotated := orientation >= 5 && orientation <= 8
			bounds := result.Bounds()
			if rotated && (bounds.Dx() != 20 || bounds.Dy() != 10) {
				t.Errorf("orientation %d: bounds = %v, want swapped axes", orientation, bounds)
			}
			if !rotated && (bounds.Dx() != 10 || bounds.Dy() != 20) {
				t.Errorf("orientation %d: bounds = %v, want original axes", orientation, bounds)
			}
		})
	}
}

func TestProcessImageAndVariants(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	var buf bytes.Buffer
	if err := png.Encode(&buf, createTestImage(1600, 900)); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}

	result, err := p.ProcessImage(&buf, "sections", "hero.png")
	if err != nil {
		t.Fatalf("ProcessImage: %v", err)
	}
	if result.Width != 1600 || result.Height != 900 {
		t.Errorf("dimensions = %dx%d, want 1600x900", result.Width, result.Height)
	}
	if result.MimeType != model.MimeTypePNG {
		t.Errorf("MimeType = %q", result.MimeType)
	}

	variants, err := p.CreateAllVariants(result.FilePath, "sections", "hero.png")
	if err != nil {
		t.Fatalf("CreateAllVariants: %v", err)
	}
	if len(variants) != len(model.ImageVariants) {
		t.Fatalf("created %d variants, want %d", len(variants), len(model.ImageVariants))
	}
	for _, v := range variants {
		cfg := model.ImageVariants[v.Type]
		if v.Width > cfg.Width || v.Height > cfg.Height {
			t.Errorf("%s variant %dx%d exceeds %dx%d", v.Type, v.Width, v.Height, cfg.Width, cfg.Height)
		}
	}
}

func TestCreateVariantSkipsSmallSource(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	var buf bytes.Buffer
	if err := png.Encode(&buf, createTestImage(100, 100)); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	result, err := p.ProcessImage(&buf, "sections", "small.png")
	if err != nil {
		t.Fatalf("ProcessImage: %v", err)
	}

	v, err := p.CreateVariant(result.FilePath, "sections", "small.png",
		model.ImageVariants[model.VariantMedium], model.VariantMedium)
	if err != nil {
		t.Fatalf("CreateVariant: %v", err)
	}
	if v != nil {
		t.Errorf("variant created for undersized source: %+v", v)
	}
}

func TestSaveImageFileRejectsTraversal(t *testing.T) {
	p := NewProcessor(t.TempDir())

	if _, err := p.saveImageFile("../outside", "x.png", []byte("data")); err == nil {
		t.Error("saveImageFile accepted traversal subdirectory")
	}
	if _, err := p.saveImageFile(filepath.Join("a", ".."), "", []byte("data")); err == nil {
		t.Error("saveImageFile accepted empty filename")
	}
}
