// Package audit provides structured event logging for scenario run
// lifecycle events. Events are stored as JSON Lines (JSONL) files, one per
// scenario, under the state directory.
package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"arcrun/internal/system"
)

// EventType classifies a lifecycle event.
type EventType string

const (
	EventSubmit    EventType = "submit"
	EventRunStart  EventType = "run-start"
	EventRunEnd    EventType = "run-end"
	EventProvision EventType = "provision"
	EventUnlock    EventType = "unlock"
	EventFilter    EventType = "filter"
	EventError     EventType = "error"
)

// Event represents a single audit log entry.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Scenario  string    `json:"scenario"`
	RunID     string    `json:"runId"`
	JobID     string    `json:"jobId,omitempty"`    // batch scheduler job ID
	ExitCode  *int      `json:"exitCode,omitempty"` // run-end only
	Details   string    `json:"details,omitempty"`
}

// Logger writes and reads audit events for scenarios.
// Events are stored in {stateDir}/runs/{scenario}.events.jsonl.
type Logger struct {
	fs       system.FileSystem
	stateDir string
}

// NewLogger creates a new audit logger rooted at stateDir.
func NewLogger(fs system.FileSystem, stateDir string) *Logger {
	return &Logger{fs: fs, stateDir: stateDir}
}

// NewRunID mints the identifier that ties a submission's events together.
func NewRunID() string {
	return uuid.NewString()
}

// eventPath returns the path to the JSONL event log for a scenario.
func (l *Logger) eventPath(scenario string) string {
	return filepath.Join(l.stateDir, "runs", scenario+".events.jsonl")
}

// Log appends an event to the scenario's audit log.
func (l *Logger) Log(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	path := l.eventPath(event.Scenario)
	if err := l.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	existing, _ := l.fs.ReadFile(path)
	return l.fs.WriteFile(path, append(existing, append(data, '\n')...), 0644)
}

// Events reads all events for a scenario in chronological order.
func (l *Logger) Events(scenario string) ([]Event, error) {
	raw, err := l.fs.ReadFile(l.eventPath(scenario))
	if err != nil {
		if !l.fs.Exists(l.eventPath(scenario)) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}

	var events []Event
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading audit log: %w", err)
	}
	return events, nil
}

// JobIDs returns the batch job IDs of every submit event, newest last.
func (l *Logger) JobIDs(scenario string) ([]string, error) {
	events, err := l.Events(scenario)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range events {
		if e.Type == EventSubmit && e.JobID != "" {
			ids = append(ids, e.JobID)
		}
	}
	return ids, nil
}
