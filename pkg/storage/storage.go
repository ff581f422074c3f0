package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// KV persists string values under string keys, one file per key, mirroring the
// flat key/value contract of browser local storage. Values are written whole;
// there are no partial updates.
type KV struct {
	baseDir string
}

// NewKV ensures the base directory exists and returns a handle.
func NewKV(baseDir string) (*KV, error) {
	if baseDir == "" {
		baseDir = "./data"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &KV{baseDir: baseDir}, nil
}

// Get returns the stored value for key. The second result reports whether the
// key exists; a missing key is not an error.
func (s *KV) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(s.resolve(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read key %q: %w", key, err)
	}
	return string(data), true, nil
}

// Set writes value under key, replacing any previous value.
func (s *KV) Set(key, value string) error {
	if err := os.WriteFile(s.resolve(key), []byte(value), 0o644); err != nil {
		return fmt.Errorf("write key %q: %w", key, err)
	}
	return nil
}

// Delete removes a key if present.
func (s *KV) Delete(key string) error {
	if err := os.Remove(s.resolve(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete key %q: %w", key, err)
	}
	return nil
}

// Path exposes the underlying file path (useful for debugging).
func (s *KV) Path(key string) string {
	return s.resolve(key)
}

func (s *KV) resolve(key string) string {
	// Keys are caller-controlled config values, not user input, but keep them
	// from escaping the base directory anyway.
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(s.baseDir, safe+".json")
}
