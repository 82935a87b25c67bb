package orchestrator

import (
	"github.com/rs/zerolog/log"

	"github.com/agentworkbench/workbench/pkg/models"
)

// RegisterResult reports whether Register created a new session or
// reactivated an existing one, plus a snapshot of the session.
type RegisterResult struct {
	Created bool
	Agent   models.AgentSession
}

// Register adds an agent session or reactivates an existing one. On
// reactivation the stored agent type, capabilities, creation time, and task
// count are preserved; only status and last-active are refreshed. Register
// never fails.
func (s *Service) Register(agentID, agentType string, capabilities []string) RegisterResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if agent, ok := s.agents[agentID]; ok {
		agent.Status = models.AgentActive
		agent.LastActive = now
		log.Info().Str("agent", agentID).Msg("Agent re-activated")
		return RegisterResult{Created: false, Agent: cloneSession(agent)}
	}

	agent := &models.AgentSession{
		AgentID:      agentID,
		AgentType:    agentType,
		Capabilities: append([]string(nil), capabilities...),
		Status:       models.AgentActive,
		CreatedAt:    now,
		LastActive:   now,
	}
	s.agents[agentID] = agent
	s.agentOrder = append(s.agentOrder, agentID)

	log.Info().Str("agent", agentID).Str("type", agentType).Msg("Agent registered")
	return RegisterResult{Created: true, Agent: cloneSession(agent)}
}

// ListAgents returns snapshots of all known sessions, active and inactive,
// in registration order.
func (s *Service) ListAgents() []models.AgentSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.AgentSession, 0, len(s.agentOrder))
	for _, id := range s.agentOrder {
		out = append(out, cloneSession(s.agents[id]))
	}
	return out
}

// Deregister marks an agent inactive. The session record is retained so
// history and task assignments keep resolving.
func (s *Service) Deregister(agentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	agent, ok := s.agents[agentID]
	if !ok {
		return &NotFoundError{Entity: "agent", Key: agentID}
	}
	agent.Status = models.AgentInactive

	log.Info().Str("agent", agentID).Msg("Agent deregistered")
	return nil
}

// cloneSession copies a session so callers never share memory with the store.
func cloneSession(a *models.AgentSession) models.AgentSession {
	cp := *a
	cp.Capabilities = append([]string(nil), a.Capabilities...)
	if a.Metadata != nil {
		cp.Metadata = make(map[string]any, len(a.Metadata))
		for k, v := range a.Metadata {
			cp.Metadata[k] = v
		}
	}
	return cp
}
