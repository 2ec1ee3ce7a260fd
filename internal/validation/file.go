package validation

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// MediaConstraints describes what may be uploaded as post media.
type MediaConstraints struct {
	MimeTypes  map[string]string // detected mime type -> canonical extension
	Extensions map[string]bool
	MaxSize    int64
}

const MaxPostMediaSize = 8 << 20 // 8MB

var PostMedia = MediaConstraints{
	MimeTypes: map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
		"image/gif":  ".gif",
	},
	Extensions: map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
		".gif":  true,
	},
	MaxSize: MaxPostMediaSize,
}

var ErrEmptyFile = errors.New("file is empty")

// ValidateMedia checks size, extension and sniffed content type of an
// upload and returns the detected mime type. The file offset is reset to
// the start when the file supports seeking.
func ValidateMedia(header *multipart.FileHeader, c MediaConstraints) (string, error) {
	if header.Size == 0 {
		return "", ErrEmptyFile
	}
	if header.Size > c.MaxSize {
		return "", fmt.Errorf("file too large: maximum size is %d MB", c.MaxSize/(1<<20))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !c.Extensions[ext] {
		return "", fmt.Errorf("invalid file extension: %q", ext)
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return SniffMedia(file, c)
}

// SniffMedia detects the content type from the first 512 bytes, so a
// renamed file cannot pass as an image.
func SniffMedia(r io.Reader, c MediaConstraints) (string, error) {
	buffer := make([]byte, 512)
	n, err := io.ReadFull(r, buffer)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if n == 0 {
		return "", ErrEmptyFile
	}

	seeker, ok := r.(io.Seeker)
	if ok {
		_, err = seeker.Seek(0, io.SeekStart)
		if err != nil {
			return "", fmt.Errorf("failed to reset file pointer: %w", err)
		}
	}

	detected := http.DetectContentType(buffer[:n])
	if _, ok := c.MimeTypes[detected]; !ok {
		return "", fmt.Errorf("invalid file type (detected: %s)", detected)
	}
	return detected, nil
}
