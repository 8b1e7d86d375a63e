package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"digistore/internal/errors"
)

var imageExtensions = []struct {
	mime string
	ext  string
}{
	{"image/png", ".png"},
	{"image/jpeg", ".jpg"},
	{"image/webp", ".webp"},
	{"image/gif", ".gif"},
}

// UploadResult describes a stored image.
type UploadResult struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
}

// UploadService stores admin-uploaded catalog images on local disk.
type UploadService interface {
	SaveImage(ctx context.Context, payload string) (*UploadResult, error)
}

type uploadService struct {
	dir      string
	baseURL  string
	maxBytes int
}

// NewUploadService creates an upload service writing into dir and linking under baseURL/uploads.
func NewUploadService(dir, baseURL string, maxBytes int) UploadService {
	return &uploadService{
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
	}
}

// SaveImage decodes a base64 payload or data URL, checks that it is a supported image and writes
// it under a random name.
func (s *uploadService) SaveImage(ctx context.Context, payload string) (*UploadResult, error) {
	encoded, err := stripDataURL(payload)
	if err != nil {
		return nil, err
	}
	// DecodedLen over-estimates by at most two bytes of padding.
	if base64.StdEncoding.DecodedLen(len(encoded)) > s.maxBytes+2 {
		return nil, errors.ErrUploadTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
		if err != nil {
			return nil, fmt.Errorf("decode base64: %w", errors.ErrInvalidUpload)
		}
	}
	if len(data) == 0 {
		return nil, errors.ErrInvalidUpload
	}
	if len(data) > s.maxBytes {
		return nil, errors.ErrUploadTooLarge
	}

	detected := mimetype.Detect(data)
	ext := ""
	for _, t := range imageExtensions {
		if detected.Is(t.mime) {
			ext = t.ext
			break
		}
	}
	if ext == "" {
		return nil, fmt.Errorf("type %s is not allowed: %w", detected.String(), errors.ErrInvalidUpload)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	return &UploadResult{
		URL:         s.baseURL + "/uploads/" + name,
		Filename:    name,
		ContentType: detected.String(),
		Size:        len(data),
	}, nil
}

// stripDataURL returns the base64 part of "data:image/png;base64,...." or the payload itself.
func stripDataURL(payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 || !strings.HasSuffix(payload[:comma], ";base64") {
			return "", fmt.Errorf("malformed data url: %w", errors.ErrInvalidUpload)
		}
		payload = payload[comma+1:]
	}
	payload = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, payload)
	if payload == "" {
		return "", errors.ErrInvalidUpload
	}
	return payload, nil
}
