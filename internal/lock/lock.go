package lock

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

const (
	DefaultTimeout = 15 * time.Second
	PollInterval   = 100 * time.Millisecond
)

// ErrTimeout is returned when another live process keeps holding the lock.
var ErrTimeout = errors.New("timeout waiting for lock")

type LockInfo struct {
	PID       int       `json:"pid"`
	CreatedAt time.Time `json:"created_at"`
}

type Lock struct {
	path string
}

// Acquire creates the lock file at lockPath, waiting up to timeout for a
// live holder to release it. Locks held by dead processes and unreadable
// lock files are reclaimed. The returned Lock must be released.
func Acquire(lockPath string, timeout time.Duration) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for {
		// One attempt per poll; a live holder keeps us waiting.
		acquired, err := tryAcquire(lockPath)
		if err != nil {
			return nil, err
		}
		if acquired {
			return &Lock{path: lockPath}, nil
		}
		// A zero timeout still makes exactly one attempt.
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%s: %w (another run may be in progress)", lockPath, ErrTimeout)
		}
		time.Sleep(PollInterval)
	}
}

// tryAcquire makes a single attempt. It reports false without an error when
// a live process holds the lock.
func tryAcquire(lockPath string) (bool, error) {
	data, err := os.ReadFile(lockPath)
	if err == nil {
		var info LockInfo
		if err := json.Unmarshal(data, &info); err == nil && isProcessAlive(info.PID) {
			return false, nil
		}
		// The holder died or the file is unreadable; reclaim it.
		os.Remove(lockPath)
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to read lock file: %w", err)
	}

	data, err = json.Marshal(LockInfo{
		PID:       os.Getpid(),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("failed to marshal lock info: %w", err)
	}

	// O_EXCL makes creation atomic between competing runs.
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			// Lost the race to another run.
			return false, nil
		}
		return false, fmt.Errorf("failed to create lock file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		// A half-written lock would read as corrupted; drop it now.
		os.Remove(lockPath)
		return false, fmt.Errorf("failed to write lock file: %w", err)
	}
	return true, nil
}

// Release removes the lock file if this process still owns it.
func (l *Lock) Release() error {
	if l == nil || l.path == "" {
		return nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // already released
		}
		return fmt.Errorf("failed to read lock file: %w", err)
	}

	var info LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return os.Remove(l.path)
	}
	if info.PID != os.Getpid() {
		// Reclaimed by another run after ours was judged stale.
		return nil
	}
	return os.Remove(l.path)
}

// isProcessAlive reports whether pid names a running process.
func isProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// FindProcess always succeeds on Unix; signal 0 checks for existence.
	return process.Signal(syscall.Signal(0)) == nil
}
