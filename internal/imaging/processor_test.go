// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/olegiv/dotment-go/internal/model"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func TestProcessorIsSupportedType(t *testing.T) {
	p := NewProcessor(t.TempDir())

	tests := []struct {
		mimeType string
		want     bool
	}{
		{model.MimeTypeJPEG, true},
		{model.MimeTypePNG, true},
		{model.MimeTypeGIF, true},
		{model.MimeTypeWebP, true},
		{"application/pdf", false},
		{"application/octet-stream", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := p.IsSupportedType(tt.mimeType); got != tt.want {
				t.Errorf("IsSupportedType(%q) = %v, want %v", tt.mimeType, got, tt.want)
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

func TestFormatToMimeType(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"jpeg", model.MimeTypeJPEG},
		{"jpg", model.MimeTypeJPEG},
		{"png", model.MimeTypePNG},
		{"gif", model.MimeTypeGIF},
		{"webp", model.MimeTypeWebP},
		{"unknown", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := formatToMimeType(tt.format); got != tt.want {
				t.Errorf("formatToMimeType(%q) = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestApplyOrientation(t *testing.T) {
	// Verify all orientation values 1-8 (plus out-of-range) transform
	// without panicking
	tests := []int{1, 2, 3, 4, 5, 6, 7, 8, 0, 9}

	for _, orientation := range tests {
		t.Run("orientation_"+string(rune('0'+orientation)), func(t *testing.T) {
			img := createTestImage(10, 10)
			result := applyOrientation(img, orientation)
			if result == nil {
				t.Error("applyOrientation returned nil")
			}
		})
	}
}

func TestProcessImage(t *testing.T) {
	p := NewProcessor(t.TempDir())

	var buf bytes.Buffer
	if err := png.Encode(&buf, createTestImage(800, 600)); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}

	result, err := p.ProcessImage(&buf, "test-uuid", "photo.png")
	if err != nil {
		t.Fatalf("ProcessImage: %v", err)
	}

	if result.Width != 800 || result.Height != 600 {
		t.Errorf("dimensions = %dx%d, want 800x600", result.Width, result.Height)
	}
	if result.MimeType != model.MimeTypePNG {
		t.Errorf("MimeType = %q", result.MimeType)
	}
	if result.FilePath == "" {
		t.Error("empty FilePath")
	}
	if result.ThumbPath == "" {
		t.Error("empty ThumbPath")
	}

	// Thumbnail fits within the configured bounds
	tw, th, err := p.GetImageDimensions(result.ThumbPath)
	if err != nil {
		t.Fatalf("GetImageDimensions: %v", err)
	}
	if tw > model.ThumbWidth || th > model.ThumbHeight {
		t.Errorf("thumbnail %dx%d exceeds bounds", tw, th)
	}
}

func TestProcessImage_RejectsGarbage(t *testing.T) {
	p := NewProcessor(t.TempDir())

	if _, err := p.ProcessImage(bytes.NewReader([]byte("not an image")), "u", "f.bin"); err == nil {
		t.Error("expected error for non-image data")
	}
}
