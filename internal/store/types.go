package store

import "time"

// ActivationRecord is one persisted activation request and its outcome.
type ActivationRecord struct {
	ID         string            `json:"id"`
	Source     string            `json:"source"`
	Mode       string            `json:"mode"`
	SessionID  string            `json:"session_id,omitempty"`
	Task       string            `json:"task,omitempty"`
	Requested  []string          `json:"requested"`
	Activated  []string          `json:"activated"`
	Unknown    []string          `json:"unknown,omitempty"`
	Failed     map[string]string `json:"failed,omitempty"`
	Registered []string          `json:"registered,omitempty"`
	Removed    []string          `json:"removed,omitempty"`
	Conflicts  []string          `json:"conflicts,omitempty"`
	Summary    string            `json:"summary"`
	DurationMs int64             `json:"duration_ms"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ActivationFilter narrows ListActivations. Results are newest first.
type ActivationFilter struct {
	Source     string
	WorkflowID string // matches records that requested the workflow
	Since      *time.Time
	Limit      int
	Offset     int
}
