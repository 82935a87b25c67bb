package orchestrator

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agentworkbench/workbench/pkg/models"
)

// defaultQueryLimit caps query results when the caller passes a
// non-positive limit.
const defaultQueryLimit = 10

// ShareResult identifies a newly published knowledge atom.
type ShareResult struct {
	AtomID    string
	AtomType  string
	CreatedAt time.Time
}

// ShareKnowledge publishes a typed atom to the shared atomspace. Content and
// metadata are string-encoded JSON, validated here and stored opaquely. The
// source agent is recorded as given and not checked against the registry.
func (s *Service) ShareKnowledge(atomType, content, sourceAgent, metadata string) (ShareResult, error) {
	body, err := parsePayload("content", content)
	if err != nil {
		return ShareResult{}, err
	}
	meta, err := parsePayload("metadata", metadata)
	if err != nil {
		return ShareResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	atom := &models.KnowledgeAtom{
		AtomID:      s.nextID(atomType),
		AtomType:    atomType,
		Content:     body,
		SourceAgent: sourceAgent,
		Metadata:    meta,
		CreatedAt:   s.now(),
	}
	s.atoms[atom.AtomID] = atom
	s.atomOrder = append(s.atomOrder, atom.AtomID)

	log.Info().Str("atom", atom.AtomID).Str("source", sourceAgent).Msg("Knowledge shared")
	return ShareResult{AtomID: atom.AtomID, AtomType: atomType, CreatedAt: atom.CreatedAt}, nil
}

// QueryResult holds the atoms matched by a query. TotalResults is the number
// returned, which may be fewer than the number of matches in the store once
// the limit kicks in.
type QueryResult struct {
	TotalResults int
	Atoms        []models.KnowledgeAtom
}

// QueryKnowledge returns atoms filtered by optional type and source agent,
// in insertion order. Querying is not side-effect-free: every atom included
// in the result page gets its access count bumped and last-accessed stamped,
// inside the same transaction as the read. Atoms excluded by a filter or by
// the limit are untouched. A non-positive limit falls back to 10.
func (s *Service) QueryKnowledge(atomType, sourceAgent string, limit int) QueryResult {
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var out []models.KnowledgeAtom
	for _, id := range s.atomOrder {
		atom := s.atoms[id]
		if atomType != "" && atom.AtomType != atomType {
			continue
		}
		if sourceAgent != "" && atom.SourceAgent != sourceAgent {
			continue
		}

		atom.AccessCount++
		accessed := now
		atom.LastAccessed = &accessed

		out = append(out, cloneAtom(atom))
		if len(out) >= limit {
			break
		}
	}
	return QueryResult{TotalResults: len(out), Atoms: out}
}

func cloneAtom(a *models.KnowledgeAtom) models.KnowledgeAtom {
	cp := *a
	if a.LastAccessed != nil {
		t := *a.LastAccessed
		cp.LastAccessed = &t
	}
	return cp
}
