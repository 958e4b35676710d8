package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// AssetExts lists the extensions the asset manager accepts.
var AssetExts = []string{".jpg", ".jpeg", ".png", ".gif"}

// Asset errors
var (
	ErrAssetExists   = errors.New("a file with that name already exists")
	ErrAssetType     = errors.New("only JPG, JPEG, PNG and GIF files are allowed")
	ErrAssetNotFound = errors.New("file not found")
)

// Asset describes one file in the asset directory.
type Asset struct {
	Name     string
	Size     int64
	Modified time.Time
}

// AssetDir manages the site's image assets in a single flat directory.
// File names come from the uploader and are reduced to a base name.
type AssetDir struct {
	dir string
}

// NewAssetDir creates a manager rooted at dir.
func NewAssetDir(dir string) *AssetDir {
	return &AssetDir{dir: dir}
}

// Dir returns the directory the assets live in.
func (a *AssetDir) Dir() string {
	return a.dir
}

// List returns the image files in the directory sorted by name.
func (a *AssetDir) List() ([]Asset, error) {
	entries, err := os.ReadDir(a.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read asset dir: %w", err)
	}
	var assets []Asset
	for _, e := range entries {
		if e.IsDir() || !allowedAsset(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		assets = append(assets, Asset{Name: e.Name(), Size: info.Size(), Modified: info.ModTime()})
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Name < assets[j].Name })
	return assets, nil
}

// Upload writes a new asset. Existing files are never overwritten.
// POST: returns the stored base name
func (a *AssetDir) Upload(name string, r io.Reader) (string, error) {
	path, err := within(a.dir, name)
	if err != nil {
		return "", err
	}
	base := filepath.Base(path)
	if !allowedAsset(base) {
		return "", ErrAssetType
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("create asset dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return "", ErrAssetExists
	}
	if err != nil {
		return "", fmt.Errorf("create asset: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write asset: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close asset: %w", err)
	}
	return base, nil
}

// Delete removes an asset by name.
func (a *AssetDir) Delete(name string) error {
	path, err := within(a.dir, name)
	if err != nil {
		return err
	}
	if !allowedAsset(path) {
		return ErrAssetType
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrAssetNotFound
		}
		return fmt.Errorf("delete asset: %w", err)
	}
	return nil
}

func allowedAsset(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, a := range AssetExts {
		if ext == a {
			return true
		}
	}
	return false
}
