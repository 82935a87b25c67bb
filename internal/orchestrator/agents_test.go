package orchestrator_test

import (
	"errors"
	"testing"
	"time"

	"github.com/agentworkbench/workbench/internal/orchestrator"
	"github.com/agentworkbench/workbench/pkg/models"
)

func TestRegisterNewAgent(t *testing.T) {
	s := newTestService(t)

	res := s.Register("cursor-main", "cursor", []string{"blueprint_creation", "level_design"})
	if !res.Created {
		t.Error("Register() Created = false, want true for a new agent")
	}
	if res.Agent.Status != models.AgentActive {
		t.Errorf("Register() Status = %q, want %q", res.Agent.Status, models.AgentActive)
	}
	if len(res.Agent.Capabilities) != 2 {
		t.Errorf("Register() capabilities = %v, want 2 entries", res.Agent.Capabilities)
	}
	if res.Agent.CreatedAt.IsZero() {
		t.Error("Register() CreatedAt is zero")
	}
}

func TestReRegisterPreservesSession(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := orchestrator.New(orchestrator.WithClock(fakeClock(start)))

	first := s.Register("cursor-main", "cursor", []string{"blueprint_creation"})

	// Claim a task so the session accumulates state worth preserving.
	created, _ := s.CreateTask("spawn", `{}`, "", 0)
	s.ClaimTask("cursor-main", created.TaskID)
	s.Deregister("cursor-main")

	// Re-registration with different type/capabilities must keep the
	// original identity and counters, only refreshing status and
	// last-active.
	second := s.Register("cursor-main", "windsurf", []string{"ui_design"})
	if second.Created {
		t.Error("Register() Created = true, want false for an existing agent")
	}
	if second.Agent.AgentType != "cursor" {
		t.Errorf("re-registered AgentType = %q, want original %q", second.Agent.AgentType, "cursor")
	}
	if len(second.Agent.Capabilities) != 1 || second.Agent.Capabilities[0] != "blueprint_creation" {
		t.Errorf("re-registered capabilities = %v, want original", second.Agent.Capabilities)
	}
	if second.Agent.TaskCount != 1 {
		t.Errorf("re-registered TaskCount = %d, want 1", second.Agent.TaskCount)
	}
	if !second.Agent.CreatedAt.Equal(first.Agent.CreatedAt) {
		t.Errorf("re-registered CreatedAt = %v, want original %v", second.Agent.CreatedAt, first.Agent.CreatedAt)
	}
	if second.Agent.Status != models.AgentActive {
		t.Errorf("re-registered Status = %q, want %q", second.Agent.Status, models.AgentActive)
	}
	if !second.Agent.LastActive.After(first.Agent.LastActive) {
		t.Errorf("LastActive not refreshed: %v -> %v", first.Agent.LastActive, second.Agent.LastActive)
	}
}

func TestListAgents(t *testing.T) {
	s := newTestService(t)
	for _, id := range []string{"a1", "a2", "a3"} {
		s.Register(id, "custom", nil)
	}
	s.Deregister("a2")

	agents := s.ListAgents()
	if len(agents) != 3 {
		t.Fatalf("ListAgents() returned %d agents, want 3", len(agents))
	}
	// Deregistered agents stay listed, just inactive.
	if agents[1].AgentID != "a2" || agents[1].Status != models.AgentInactive {
		t.Errorf("agents[1] = %s/%s, want a2/inactive", agents[1].AgentID, agents[1].Status)
	}
}

func TestDeregisterUnknownAgent(t *testing.T) {
	s := newTestService(t)

	err := s.Deregister("ghost")
	var nf *orchestrator.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Deregister() error = %v, want *NotFoundError", err)
	}
	if nf.Entity != "agent" || nf.Key != "ghost" {
		t.Errorf("NotFoundError = %+v, want agent/ghost", nf)
	}
}
