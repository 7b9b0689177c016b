// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/talentbridge/cms/internal/imaging"
	"github.com/talentbridge/cms/internal/model"
)

// Upload limits.
const (
	MaxUploadSize    = 20 * 1024 * 1024 // 20MB
	DefaultUploadDir = "./uploads"
)

// Upload categories double as subdirectories under the uploads root.
const (
	UploadCategorySections     = "sections"
	UploadCategoryBlogs        = "blogs"
	UploadCategoryTestimonials = "testimonials"
	UploadCategorySignatures   = "signatures"
)

var validCategories = map[string]bool{
	UploadCategorySections:     true,
	UploadCategoryBlogs:        true,
	UploadCategoryTestimonials: true,
	UploadCategorySignatures:   true,
}

// Upload rejection reasons callers can branch on.
var (
	ErrUnknownCategory = errors.New("unknown upload category")
	ErrFileTooLarge    = errors.New("file size exceeds maximum allowed")
	ErrUnsupportedType = errors.New("file type is not allowed")
)

// UploadService stores content images and hands back their public URLs.
type UploadService struct {
	processor *imaging.Processor
	uploadDir string
}

// NewUploadService creates an upload service rooted at uploadDir.
func NewUploadService(uploadDir string) *UploadService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &UploadService{
		processor: imaging.NewProcessor(uploadDir),
		uploadDir: uploadDir,
	}
}

// Store saves an uploaded image under the given category and returns its
// public URL path. Raster images are re-encoded and get resized variants;
// SVG files are stored as-is.
func (s *UploadService) Store(header *multipart.FileHeader, category string) (string, error) {
	if !validCategories[category] {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if header.Size > MaxUploadSize {
		return "", fmt.Errorf("%w (%d bytes)", ErrFileTooLarge, MaxUploadSize)
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mimeTypeFromExtension(header.Filename)
	}
	if !model.IsSupportedMimeType(mimeType) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	// Stored under a fresh UUID so uploads never collide or overwrite.
	filename := uuid.New().String() + normalizeExtension(header.Filename)

	if s.processor.IsRasterImage(mimeType) {
		result, err := s.processor.ProcessImage(file, category, filename)
		if err != nil {
			return "", fmt.Errorf("failed to process image: %w", err)
		}
		if _, err := s.processor.CreateAllVariants(result.FilePath, category, filename); err != nil {
			// The original is saved; variants are best effort.
			slog.Warn("failed to create image variants",
				"category", category, "filename", filename, "error", err)
		}
	} else {
		if err := s.saveRawFile(file, category, filename); err != nil {
			return "", err
		}
	}

	return "/uploads/" + category + "/" + filename, nil
}

// Delete removes a stored upload given its public URL path.
// Unknown or foreign paths are ignored.
func (s *UploadService) Delete(urlPath string) error {
	category, filename, ok := splitUploadURL(urlPath)
	if !ok {
		return nil
	}

	paths := []string{filepath.Join(s.uploadDir, category, filename)}
	for variantType := range model.ImageVariants {
		paths = append(paths, filepath.Join(s.uploadDir, variantType, category, filename))
	}
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete %s: %w", p, err)
		}
	}
	return nil
}

// splitUploadURL extracts category and filename from "/uploads/<cat>/<file>".
func splitUploadURL(urlPath string) (category, filename string, ok bool) {
	rest, found := strings.CutPrefix(urlPath, "/uploads/")
	if !found {
		return "", "", false
	}
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || !validCategories[parts[0]] {
		return "", "", false
	}
	filename = filepath.Base(parts[1])
	if filename == "." || filename == ".." || filename == "" {
		return "", "", false
	}
	return parts[0], filename, true
}

func (s *UploadService) saveRawFile(file io.Reader, category, filename string) error {
	dir := filepath.Join(s.uploadDir, category)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	filePath := filepath.Join(dir, filename)
	out, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, file); err != nil {
		_ = os.Remove(filePath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// normalizeExtension returns a lowercase file extension, defaulting to .bin.
func normalizeExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return ".bin"
	}
	return ext
}

func mimeTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return model.MimeTypeJPEG
	case ".png":
		return model.MimeTypePNG
	case ".gif":
		return model.MimeTypeGIF
	case ".webp":
		return model.MimeTypeWebP
	case ".svg":
		return model.MimeTypeSVG
	default:
		return "application/octet-stream"
	}
}
