// Package datastore is a small JSON-file key/value store. All keys live in
// one file; writes are atomic (temp file + rename) and a background ticker
// flushes dirty data periodically. Values round-trip through encoding/json,
// so callers get back generic maps/slices and re-decode into their own types.
package datastore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Config holds tuning options for a Store.
type Config struct {
	FilePath         string
	AutoSaveInterval time.Duration
	BackupCount      int // rotating .backup.* files to keep
	Logger           *log.Logger
}

// DefaultConfig returns the configuration used by New.
func DefaultConfig(filePath string) *Config {
	return &Config{
		FilePath:         filePath,
		AutoSaveInterval: 10 * time.Second,
		BackupCount:      3,
		Logger:           log.New(os.Stderr, "[datastore] ", log.LstdFlags),
	}
}

// Store is a thread-safe in-memory map persisted to a single JSON file.
type Store struct {
	mu           sync.RWMutex
	data         map[string]any
	file         string
	config       *Config
	lastChecksum string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	closeMu sync.Mutex
	closed  bool
}

// New opens (or creates) the store file at filePath with default settings.
func New(filePath string) (*Store, error) {
	return NewWithConfig(DefaultConfig(filePath))
}

// NewWithConfig opens (or creates) a store with custom settings.
func NewWithConfig(config *Config) (*Store, error) {
	if config == nil || config.FilePath == "" {
		return nil, fmt.Errorf("datastore: file path is required")
	}

	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
		return nil, fmt.Errorf("datastore: create directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		data:   make(map[string]any),
		file:   config.FilePath,
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}

	if _, err := os.Stat(config.FilePath); os.IsNotExist(err) {
		if err := s.writeFileAtomic([]byte("{}")); err != nil {
			cancel()
			return nil, fmt.Errorf("datastore: init file: %w", err)
		}
	} else if err != nil {
		cancel()
		return nil, fmt.Errorf("datastore: stat file: %w", err)
	} else if err := s.load(); err != nil {
		cancel()
		return nil, err
	}

	s.wg.Add(1)
	go s.autoSave()

	return s, nil
}

// Get retrieves a value by key.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Set stores a value under key, replacing any previous value.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Delete removes a key. Removing a missing key is a no-op.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Save forces an immediate flush to disk.
func (s *Store) Save() error {
	return s.save()
}

// Close stops the autosave routine and performs a final flush.
func (s *Store) Close() error {
	s.closeMu.Lock()
	if s.closed {
		s.closeMu.Unlock()
		return nil
	}
	s.closed = true
	s.closeMu.Unlock()

	s.cancel()
	s.wg.Wait()
	return s.save()
}

func (s *Store) save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("datastore: marshal: %w", err)
	}

	checksum := checksumOf(data)
	if checksum == s.lastChecksum {
		return nil
	}

	if s.config.BackupCount > 0 {
		if err := s.backup(); err != nil {
			s.config.Logger.Printf("backup failed: %v", err)
		}
	}

	if err := s.writeFileAtomic(data); err != nil {
		return err
	}

	s.lastChecksum = checksum
	return nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.file)
	if err != nil {
		return fmt.Errorf("datastore: read file: %w", err)
	}

	var loaded map[string]any
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("datastore: invalid JSON in %s: %w", s.file, err)
	}

	s.mu.Lock()
	s.data = loaded
	s.mu.Unlock()
	s.lastChecksum = checksumOf(data)
	return nil
}

func (s *Store) writeFileAtomic(data []byte) error {
	tmp := s.file + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("datastore: write temp file: %w", err)
	}

	f, err := os.OpenFile(tmp, os.O_RDWR, 0644)
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("datastore: open temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("datastore: sync temp file: %w", err)
	}
	f.Close()

	if err := os.Rename(tmp, s.file); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("datastore: rename temp file: %w", err)
	}
	return nil
}

func (s *Store) backup() error {
	if _, err := os.Stat(s.file); os.IsNotExist(err) {
		return nil
	}

	name := fmt.Sprintf("%s.backup.%s", s.file, time.Now().Format("20060102_150405"))
	src, err := os.Open(s.file)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(name)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}

	s.pruneBackups()
	return nil
}

func (s *Store) pruneBackups() {
	matches, err := filepath.Glob(s.file + ".backup.*")
	if err != nil || len(matches) <= s.config.BackupCount {
		return
	}
	// Timestamped names sort chronologically.
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-s.config.BackupCount] {
		os.Remove(old)
	}
}

func (s *Store) autoSave() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.AutoSaveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if err := s.save(); err != nil {
				s.config.Logger.Printf("auto-save error: %v", err)
			}
		}
	}
}

func checksumOf(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
