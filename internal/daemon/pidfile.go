// Package daemon tracks the single active timer process through a PID file
// and lets other invocations signal it.
package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrNotRunning means no live timer process owns the PID file.
	ErrNotRunning = errors.New("no timer is running")
	// ErrAlreadyRunning means another live process owns the PID file.
	ErrAlreadyRunning = errors.New("a timer is already running")
)

// PIDFile manages a PID file for timer process tracking.
type PIDFile struct {
	Path string
}

// NewPIDFile creates a PIDFile manager for the given path.
func NewPIDFile(path string) *PIDFile {
	return &PIDFile{Path: path}
}

// Write writes the current process's PID to the file.
func (p *PIDFile) Write() error {
	return p.WritePID(os.Getpid())
}

// WritePID writes the given PID to the file.
func (p *PIDFile) WritePID(pid int) error {
	return os.WriteFile(p.Path, []byte(strconv.Itoa(pid)+"\n"), 0o644)
}

// Read reads the PID from the file.
func (p *PIDFile) Read() (int, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file content: %w", err)
	}
	return pid, nil
}

// Remove deletes the PID file.
func (p *PIDFile) Remove() error {
	return os.Remove(p.Path)
}

// Acquire claims the PID file for this process. A file left behind by a
// dead process is taken over.
func (p *PIDFile) Acquire() error {
	if pid, running := p.IsRunning(); running && pid != os.Getpid() {
		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	}
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	return p.Write()
}

// Release removes the PID file if this process owns it.
func (p *PIDFile) Release() error {
	pid, err := p.Read()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil || pid != os.Getpid() {
		return err
	}
	return p.Remove()
}

// Pause asks the running timer to pause and returns its PID.
func (p *PIDFile) Pause() (int, error) {
	pid, running := p.IsRunning()
	if !running {
		return 0, ErrNotRunning
	}
	if err := p.Signal(pauseSignal()); err != nil {
		return pid, fmt.Errorf("signal pid %d: %w", pid, err)
	}
	return pid, nil
}

// PauseSignal is the signal Pause sends. Timer processes listen for it
// alongside os.Interrupt.
func PauseSignal() os.Signal { return pauseSignal() }
