// Package syncq keeps CLI writes that could not reach the server so they can be
// replayed later with their original idempotency keys.
package syncq

import (
	"encoding/json"
	"os"
	"path/filepath"
)

type Command struct {
	Method         string         `json:"method"`
	Path           string         `json:"path"`
	Body           map[string]any `json:"body,omitempty"`
	IdempotencyKey string         `json:"idempotency_key"`
}

type Queue struct {
	path string
}

// Open uses queue.json inside dir, creating dir if needed.
func Open(dir string) (*Queue, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &Queue{path: filepath.Join(dir, "queue.json")}, nil
}

// Default opens the queue under ~/.tyc.
func Default() (*Queue, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return Open(filepath.Join(home, ".tyc"))
}

func (q *Queue) Load() ([]Command, error) {
	raw, err := os.ReadFile(q.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Command{}, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return []Command{}, nil
	}
	var out []Command
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (q *Queue) Save(commands []Command) error {
	raw, err := json.MarshalIndent(commands, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(q.path, raw, 0o600)
}

func (q *Queue) Push(cmd Command) error {
	commands, err := q.Load()
	if err != nil {
		return err
	}
	commands = append(commands, cmd)
	return q.Save(commands)
}

// Replay sends every queued command in order through send and keeps the ones that
// fail. It returns how many were delivered.
func (q *Queue) Replay(send func(Command) error) (int, []error, error) {
	commands, err := q.Load()
	if err != nil {
		return 0, nil, err
	}
	remaining := make([]Command, 0, len(commands))
	var failures []error
	sent := 0
	for _, c := range commands {
		if err := send(c); err != nil {
			remaining = append(remaining, c)
			failures = append(failures, err)
			continue
		}
		sent++
	}
	return sent, failures, q.Save(remaining)
}
