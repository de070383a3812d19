package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/natefinch/atomic"
	"github.com/oklog/ulid/v2"
)

// Store persists session transcripts under one workspace directory. A
// single Store owns the workspace lock for the process lifetime.
type Store struct {
	workspaceID string
	basePath    string
	fileLock    *FileLock

	mu    sync.Mutex
	index *Index
}

type StoreConfig struct {
	LockTimeout time.Duration
	LockRetry   time.Duration
}

func Open(workspaceID, workspaceRootPath string, cfg StoreConfig) (*Store, error) {
	if strings.TrimSpace(workspaceID) == "" {
		workspaceID = "default"
	}

	basePath, err := WorkspacePath(workspaceID, workspaceRootPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(basePath, "sessions"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions dir: %w", err)
	}

	fileLock, err := NewFileLock(workspaceID, basePath, FileLockConfig{
		LockTimeout: cfg.LockTimeout,
		LockRetry:   cfg.LockRetry,
	})
	if err != nil {
		return nil, err
	}

	index := &Index{Sessions: make(map[string]Meta)}
	indexPath := filepath.Join(basePath, "sessions", "index.json")
	if data, err := os.ReadFile(indexPath); err == nil {
		if err := json.Unmarshal(data, index); err != nil {
			slog.Warn("Failed to parse session index, starting fresh", "error", err)
			index = &Index{Sessions: make(map[string]Meta)}
		}
	}
	if index.Sessions == nil {
		index.Sessions = make(map[string]Meta)
	}

	return &Store{
		workspaceID: workspaceID,
		basePath:    basePath,
		fileLock:    fileLock,
		index:       index,
	}, nil
}

// NewSessionID mints a sortable session identifier.
func NewSessionID() string {
	return ulid.Make().String()
}

// Append writes one transcript entry. The entry ID and timestamp are
// filled in when absent.
func (s *Store) Append(sessionID string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = ulid.Make().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal transcript entry: %w", err)
	}

	path := TranscriptPath(s.basePath, sessionID)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}

	return s.touchLocked(sessionID, entry)
}

// Read returns the transcript entries for a session, oldest first.
// Limit > 0 returns only the most recent entries.
func (s *Store) Read(sessionID string, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(TranscriptPath(s.basePath, sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}

	var entries []Entry
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			slog.Warn("Skipping malformed transcript line", "session", sessionID, "error", err)
			continue
		}
		entries = append(entries, entry)
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

// Reset removes a session transcript and its index record.
func (s *Store) Reset(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(TranscriptPath(s.basePath, sessionID)); err != nil && !os.IsNotExist(err) {
		return err
	}
	delete(s.index.Sessions, sessionID)
	return s.saveIndexLocked()
}

// List returns known session metadata, most recently updated first.
func (s *Store) List() []Meta {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := make([]Meta, 0, len(s.index.Sessions))
	for _, meta := range s.index.Sessions {
		sessions = append(sessions, meta)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions
}

func (s *Store) Close() {
	if s.fileLock != nil && s.fileLock.IsLocked() {
		s.fileLock.Unlock()
	}
}

func (s *Store) touchLocked(sessionID string, entry Entry) error {
	meta, ok := s.index.Sessions[sessionID]
	if !ok {
		meta = Meta{ID: sessionID, CreatedAt: entry.Timestamp}
	}
	if meta.Title == "" && entry.Role == RoleUser {
		meta.Title = truncateTitle(entry.Content)
	}
	meta.UpdatedAt = entry.Timestamp
	s.index.Sessions[sessionID] = meta
	return s.saveIndexLocked()
}

func (s *Store) saveIndexLocked() error {
	data, err := json.MarshalIndent(s.index, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(s.basePath, "sessions", "index.json")
	return atomic.WriteFile(path, bytes.NewReader(data))
}

func truncateTitle(content string) string {
	title := strings.TrimSpace(content)
	if len(title) > 64 {
		title = title[:64]
	}
	return title
}
