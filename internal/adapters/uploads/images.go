// Package uploads stores image files on local disk: menu photos under
// generated names and the site's hand-named asset images.
package uploads

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

// MaxWidth is the widest a stored menu photo may be; larger jpg/png images are scaled down.
const MaxWidth = 800

// jpegQuality is used when re-encoding scaled photos.
const jpegQuality = 85

// ErrInvalidName is returned for names that are empty or escape the directory.
var ErrInvalidName = errors.New("invalid file name")

// ImageStore keeps menu photos in one directory under generated unique names.
type ImageStore struct {
	dir       string
	urlPrefix string
	newName   func() string
}

// NewImageStore creates a store rooted at dir; files are served under urlPrefix.
// PRE: dir is writable (created on first save if missing)
func NewImageStore(dir, urlPrefix string) *ImageStore {
	return &ImageStore{
		dir:       dir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		newName:   func() string { return uuid.NewString() },
	}
}

// Save writes an uploaded photo and returns its generated file name.
// jpg and png images wider than MaxWidth are scaled down; other formats are stored as-is.
// PRE: ext has been checked against the allow-list by the caller
// POST: on error no file is left behind
func (s *ImageStore) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	switch ext {
	case ".jpg", ".jpeg", ".png":
		data, err = downscale(data, ext)
		if err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := s.newName() + ext
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	slog.Info("upload_event", "event", "menu_image_saved", "file", name, "bytes", len(data))
	return name, nil
}

// Remove deletes a stored photo. A missing file is not an error.
func (s *ImageStore) Remove(name string) error {
	if name == "" {
		return nil
	}
	path, err := within(s.dir, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// URL returns the public path for a stored photo.
func (s *ImageStore) URL(name string) string {
	if name == "" {
		return ""
	}
	return s.urlPrefix + "/" + name
}

// downscale decodes a jpg/png and scales it to MaxWidth when wider, keeping the aspect ratio.
func downscale(data []byte, ext string) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Dx() <= MaxWidth {
		return data, nil
	}
	scaled := resize.Resize(MaxWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	if ext == ".png" {
		err = png.Encode(&buf, scaled)
	} else {
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// within joins name onto dir after reducing it to a base name.
func within(dir, name string) (string, error) {
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." || base == ".." || strings.HasPrefix(base, ".") {
		return "", ErrInvalidName
	}
	return filepath.Join(dir, base), nil
}
