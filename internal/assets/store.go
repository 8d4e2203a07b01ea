// Package assets downloads binary resources referenced by work items into
// a flat content store under deterministic, collision-free names.
package assets

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// FilePrefix starts every stored file name: <prefix>_<itemID>_<index><ext>.
const FilePrefix = "image"

// defaultExt is used for scraped embedded images, whose URLs carry no
// trustworthy file name.
const defaultExt = ".png"

// imageExts are the attachment extensions treated as embeddable images.
// Attachments with any other extension are not downloaded.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".svg":  true,
}

// BinaryFetcher downloads raw bytes from any URL.
type BinaryFetcher interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Store writes downloaded assets into a single directory. Concurrent
// fetches are safe as long as callers keep (itemID, index) pairs distinct.
type Store struct {
	dir     string
	fetcher BinaryFetcher
}

// NewStore creates the asset directory if needed and returns a store.
func NewStore(dir string, fetcher BinaryFetcher) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir %s: %w", dir, err)
	}
	return &Store{dir: dir, fetcher: fetcher}, nil
}

// Dir returns the store's directory.
func (s *Store) Dir() string {
	return s.dir
}

// Fetch downloads one asset and persists it as FileName(itemID, index,
// sourceName). On any failure it logs and returns "", abandoning that one
// asset; the owning item's processing continues.
func (s *Store) Fetch(ctx context.Context, url string, itemID, index int, sourceName string) string {
	data, err := s.fetcher.Download(ctx, url)
	if err != nil {
		log.Printf("asset fetch failed item=%d url=%s: %v", itemID, url, err)
		return ""
	}
	name := FileName(itemID, index, sourceName)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		log.Printf("asset write failed item=%d file=%s: %v", itemID, name, err)
		return ""
	}
	return name
}

// FileName builds the local name for one asset. The extension comes from
// sourceName when it has one (the attachment case); scraped images fall
// back to defaultExt.
func FileName(itemID, index int, sourceName string) string {
	ext := filepath.Ext(sourceName)
	if ext == "" {
		ext = defaultExt
	}
	return fmt.Sprintf("%s_%d_%d%s", FilePrefix, itemID, index, ext)
}

// IsImageName reports whether an attachment file name has a known image
// extension.
func IsImageName(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}
