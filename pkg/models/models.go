// Package models defines the shared data model for the Workbench control plane:
// agent sessions, knowledge atoms, workflow tasks, and the history log entries
// produced when tasks reach a terminal status.
package models

import (
	"encoding/json"
	"time"
)

// ── Agent ────────────────────────────────────────────────────

type AgentStatus string

const (
	AgentActive   AgentStatus = "active"
	AgentInactive AgentStatus = "inactive"
)

// AgentSession is a registered agent's presence record. Sessions are never
// deleted: deregistration flips Status to inactive and the record stays
// around so task history keeps resolving to a known agent.
type AgentSession struct {
	AgentID      string         `json:"agent_id"`
	AgentType    string         `json:"agent_type"`
	Capabilities []string       `json:"capabilities"`
	Status       AgentStatus    `json:"status"`
	TaskCount    int            `json:"task_count"`
	CreatedAt    time.Time      `json:"created_at"`
	LastActive   time.Time      `json:"last_active"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// ── Knowledge ────────────────────────────────────────────────

// KnowledgeAtom is a typed fact published to the shared atomspace. Content
// and metadata are validated as JSON at ingestion and stored opaquely.
type KnowledgeAtom struct {
	AtomID       string          `json:"atom_id"`
	AtomType     string          `json:"atom_type"`
	Content      json.RawMessage `json:"content"`
	SourceAgent  string          `json:"source_agent,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	AccessCount  int             `json:"access_count"`
	LastAccessed *time.Time      `json:"last_accessed,omitempty"`
}

// ── Tasks ────────────────────────────────────────────────────

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskClaimed   TaskStatus = "claimed"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// Terminal reports whether the status is an end state. Transitions are
// one-directional: pending → claimed → completed|failed.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// WorkflowTask is a unit of coordinated work. An empty AssignedAgent means
// the task is up for grabs; once claimed the assignment never changes.
type WorkflowTask struct {
	TaskID        string          `json:"task_id"`
	TaskType      string          `json:"task_type"`
	Params        json.RawMessage `json:"params"`
	AssignedAgent string          `json:"assigned_agent,omitempty"`
	Priority      int             `json:"priority"`
	Status        TaskStatus      `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	StartedAt     *time.Time      `json:"started_at,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	Result        json.RawMessage `json:"result,omitempty"`
}

// HistoryRecord is the immutable log entry appended when a task completes
// or fails. RecordID is a UUID assigned at append time.
type HistoryRecord struct {
	RecordID    string          `json:"record_id"`
	TaskID      string          `json:"task_id"`
	TaskType    string          `json:"task_type"`
	Agent       string          `json:"agent,omitempty"`
	Status      TaskStatus      `json:"status"`
	CompletedAt time.Time       `json:"completed_at"`
	Result      json.RawMessage `json:"result,omitempty"`
}

// ── Aggregate status ─────────────────────────────────────────

// StatusSnapshot is the read-only roll-up returned by the status endpoint.
// CompletedTasks counts history entries, not tasks still in the queue.
type StatusSnapshot struct {
	ActiveAgents   int `json:"active_agents"`
	TotalAgents    int `json:"total_agents"`
	PendingTasks   int `json:"pending_tasks"`
	ClaimedTasks   int `json:"claimed_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	KnowledgeAtoms int `json:"knowledge_atoms"`
}
