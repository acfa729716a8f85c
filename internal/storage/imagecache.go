// Package storage holds the on-disk cache of rendered chart images.
package storage

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/returnchart/internal/common"
	"github.com/bobmcallan/returnchart/internal/interfaces"
)

const imageMarker = "-returns-"

// ImageCache manages server-side caching of rendered chart images.
// Images are stored on disk and served via an HTTP endpoint.
type ImageCache struct {
	dir    string
	logger *common.Logger
	mu     sync.Mutex
}

var _ interfaces.ImageCache = (*ImageCache)(nil)

// NewImageCache creates an ImageCache that stores images under dir.
func NewImageCache(dir string, logger *common.Logger) *ImageCache {
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Warn().Err(err).Str("dir", dir).Msg("Failed to create image cache directory")
	}
	return &ImageCache{dir: dir, logger: logger}
}

// Put writes image data to disk and returns the URL path (/images/{name}).
// Older images for the same dataset are removed.
func (c *ImageCache) Put(name string, data []byte) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("invalid image name %q", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanOld(name)

	if err := c.writeAtomic(name, data); err != nil {
		return "", fmt.Errorf("write image %s: %w", name, err)
	}

	c.logger.Debug().Str("name", name).Int("bytes", len(data)).Msg("Cached chart image")
	return URL(name), nil
}

// Get reads a cached image from disk.
func (c *ImageCache) Get(name string) ([]byte, bool) {
	if !validName(name) {
		return nil, false
	}
	data, err := os.ReadFile(filepath.Join(c.dir, name))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Handler returns an http.Handler that serves cached images.
func (c *ImageCache) Handler() http.Handler {
	return http.StripPrefix("/images/", http.FileServer(http.Dir(c.dir)))
}

// URL returns the relative URL path for a cached image.
func URL(name string) string {
	return "/images/" + name
}

// ImageName generates a cache filename for a dataset's chart, e.g.
// "returns-returns-20240105-0930.svg" for data/returns.json.
func ImageName(datasetPath, ext string, now time.Time) string {
	base := strings.TrimSuffix(filepath.Base(datasetPath), filepath.Ext(datasetPath))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "dataset"
	}
	return strings.ToLower(base) + imageMarker + now.Format("20060102-150405") + "." + ext
}

func validName(name string) bool {
	return name != "" && name == filepath.Base(name) && !strings.HasPrefix(name, ".")
}

// cleanOld removes older images with the same dataset prefix.
func (c *ImageCache) cleanOld(name string) {
	idx := strings.LastIndex(name, imageMarker)
	if idx < 0 {
		return
	}
	prefix := name[:idx+len(imageMarker)]

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}

	var matches []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) && e.Name() != name {
			matches = append(matches, e.Name())
		}
	}
	sort.Strings(matches)

	for _, old := range matches {
		if err := os.Remove(filepath.Join(c.dir, old)); err == nil {
			c.logger.Debug().Str("file", old).Msg("Cleaned old cached image")
		}
	}
}

// writeAtomic writes data using temp file + rename so readers never see a
// partial image.
func (c *ImageCache) writeAtomic(name string, data []byte) error {
	tmpFile, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := os.Rename(tmpPath, filepath.Join(c.dir, name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
