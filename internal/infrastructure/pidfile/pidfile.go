package pidfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// ErrNotRunning is returned by KillExisting when no live daemon owns the file
var ErrNotRunning = errors.New("no running daemon")

// PIDFile keeps a single uexcorp daemon per PID file
type PIDFile struct {
	path string

	// KillTimeout is how long KillExisting waits after SIGTERM before SIGKILL
	KillTimeout time.Duration
}

// New creates a new PIDFile manager
func New(path string) *PIDFile {
	return &PIDFile{path: path, KillTimeout: 10 * time.Second}
}

// Path returns the PID file location
func (p *PIDFile) Path() string {
	return p.path
}

// Acquire writes the current PID. It fails while another live process owns
// the file; a stale or unreadable file is replaced.
func (p *PIDFile) Acquire() error {
	pid, err := p.ReadPID()
	switch {
	case err == nil && pid != os.Getpid() && isProcessRunning(pid):
		return fmt.Errorf("daemon is already running (PID %d)", pid)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		_ = os.Remove(p.path)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("failed to create PID file directory: %w", err)
	}
	if err := os.WriteFile(p.path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// ReadPID returns the PID stored in the file
func (p *PIDFile) ReadPID() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid PID file %s: %q", p.path, strings.TrimSpace(string(data)))
	}
	return pid, nil
}

// KillExisting stops the daemon owning the file with SIGTERM, then SIGKILL
// after KillTimeout, and removes the file
func (p *PIDFile) KillExisting() error {
	pid, err := p.ReadPID()
	if err != nil || !isProcessRunning(pid) {
		_ = os.Remove(p.path)
		return ErrNotRunning
	}
	if pid == os.Getpid() {
		return fmt.Errorf("refusing to kill the current process (PID %d)", pid)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process %d: %w", pid, err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to stop daemon (PID %d): %w", pid, err)
	}

	deadline := time.Now().Add(p.KillTimeout)
	for isProcessRunning(pid) {
		if time.Now().After(deadline) {
			if err := process.Signal(syscall.SIGKILL); err != nil && !errors.Is(err, os.ErrProcessDone) {
				return fmt.Errorf("failed to kill daemon (PID %d): %w", pid, err)
			}
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	return p.Release()
}

// Release removes the PID file
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// isProcessRunning sends signal 0 to the process
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	// EPERM means the process exists under another user
	return err == nil || errors.Is(err, syscall.EPERM)
}
