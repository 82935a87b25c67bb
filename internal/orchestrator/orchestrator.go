// Package orchestrator implements the in-process coordination core of the
// Workbench control plane. Concurrent agents register presence, publish and
// query typed knowledge atoms, and create/claim/complete prioritized workflow
// tasks.
//
// All state (agent table, atomspace, task queue, history log) is owned by a
// single Service and serialized by one mutex: every public operation is a
// short, CPU-bound transaction under that guard. There is no background
// processing, no persistence, and no networking here; the HTTP layer is a
// thin collaborator on top.
package orchestrator

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agentworkbench/workbench/pkg/models"
)

// Service owns all coordination state. Construct with New; share a single
// instance between callers.
type Service struct {
	mu sync.Mutex

	agents     map[string]*models.AgentSession
	agentOrder []string // registration order, for deterministic listings

	atoms     map[string]*models.KnowledgeAtom
	atomOrder []string // insertion order, queries iterate this

	// tasks is kept sorted by descending priority, stable on ties.
	tasks []*models.WorkflowTask

	history []models.HistoryRecord

	now func() time.Time
	seq atomic.Uint64
}

// Option customizes a Service, mainly for tests.
type Option func(*Service)

// WithClock overrides the time source used for all timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates an empty coordination service.
func New(opts ...Option) *Service {
	s := &Service{
		agents: make(map[string]*models.AgentSession),
		atoms:  make(map[string]*models.KnowledgeAtom),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// nextID builds a unique identifier from a type prefix, the current
// timestamp, and a per-process atomic sequence. The sequence closes the
// collision window between calls landing in the same millisecond.
func (s *Service) nextID(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, s.now().UnixMilli(), s.seq.Add(1))
}

// parsePayload validates a string-encoded JSON payload at the boundary.
// Empty input is treated as an empty object, matching what callers mean by
// "no payload". The raw bytes are stored opaquely after validation.
func parsePayload(field, raw string) (json.RawMessage, error) {
	if raw == "" {
		return json.RawMessage(`{}`), nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, &MalformedPayloadError{Field: field, Err: err}
	}
	return json.RawMessage(raw), nil
}

// Status returns aggregate counts across all stores. Pure read.
func (s *Service) Status() models.StatusSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := models.StatusSnapshot{
		TotalAgents:    len(s.agents),
		KnowledgeAtoms: len(s.atoms),
		CompletedTasks: len(s.history),
	}
	for _, a := range s.agents {
		if a.Status == models.AgentActive {
			snap.ActiveAgents++
		}
	}
	for _, t := range s.tasks {
		switch t.Status {
		case models.TaskPending:
			snap.PendingTasks++
		case models.TaskClaimed:
			snap.ClaimedTasks++
		}
	}
	return snap
}

// History returns a copy of the append-only completion log, oldest first.
func (s *Service) History() []models.HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.HistoryRecord, len(s.history))
	copy(out, s.history)
	return out
}

// Clear wipes agents, knowledge, tasks, and history in one transaction.
// It refuses to run without an explicit confirm flag.
func (s *Service) Clear(confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.agents = make(map[string]*models.AgentSession)
	s.agentOrder = nil
	s.atoms = make(map[string]*models.KnowledgeAtom)
	s.atomOrder = nil
	s.tasks = nil
	s.history = nil
	return nil
}
