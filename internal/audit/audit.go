package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/inkwelldev/inkwell/pkg/logger"
	"go.uber.org/zap"
)

// Event kinds recorded in the trail.
const (
	EventRegister     = "register"
	EventLoginOK      = "login_ok"
	EventLoginFailed  = "login_failed"
	EventLogout       = "logout"
	EventRoleChange   = "role_change"
	EventUserDisabled = "user_disabled"
)

// Entry is one audit record. Detail never carries credentials or hashes,
// only identifiers and the email the attempt named.
type Entry struct {
	Event     string    `json:"event"`
	UserID    string    `json:"user_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Trail is an append-only JSON-lines log of authentication events. Writes
// are synced to disk before returning so the record survives a crash.
type Trail struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

// Open creates the trail file (and its directory) if needed and opens it
// for appending.
func Open(filePath string) (*Trail, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &Trail{
		filePath: filePath,
		file:     file,
	}, nil
}

// Record appends one entry. The timestamp is stamped here if the caller
// left it zero.
func (t *Trail) Record(entry Entry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Log.Error("audit: failed to marshal entry",
			zap.String("event", entry.Event),
			zap.Error(err),
		)
		return err
	}

	if _, err := t.file.WriteString(string(data) + "\n"); err != nil {
		logger.Log.Error("audit: failed to write entry",
			zap.String("event", entry.Event),
			zap.Error(err),
		)
		return err
	}

	if err := t.file.Sync(); err != nil {
		logger.Log.Error("audit: failed to sync to disk",
			zap.String("event", entry.Event),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// ReadAll returns every entry in the trail, oldest first. Corrupt lines
// are skipped rather than aborting the read.
func (t *Trail) ReadAll() ([]Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	file, err := os.Open(t.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}

// Close closes the trail file.
func (t *Trail) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.file.Close()
}
