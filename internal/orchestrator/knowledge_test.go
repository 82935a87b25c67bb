package orchestrator_test

import (
	"errors"
	"testing"

	"github.com/agentworkbench/workbench/internal/orchestrator"
)

func TestShareKnowledgeMalformedPayload(t *testing.T) {
	s := newTestService(t)

	_, err := s.ShareKnowledge("actor", `{"name": `, "", "")
	var mp *orchestrator.MalformedPayloadError
	if !errors.As(err, &mp) {
		t.Fatalf("ShareKnowledge() error = %v, want *MalformedPayloadError", err)
	}
	if mp.Field != "content" {
		t.Errorf("MalformedPayloadError.Field = %q, want %q", mp.Field, "content")
	}

	_, err = s.ShareKnowledge("actor", `{}`, "", `not json`)
	if !errors.As(err, &mp) {
		t.Fatalf("ShareKnowledge() with bad metadata error = %v, want *MalformedPayloadError", err)
	}
	if mp.Field != "metadata" {
		t.Errorf("MalformedPayloadError.Field = %q, want %q", mp.Field, "metadata")
	}

	// Nothing malformed should have reached the store.
	if got := s.Status().KnowledgeAtoms; got != 0 {
		t.Errorf("KnowledgeAtoms = %d, want 0 after rejected shares", got)
	}
}

func TestShareKnowledgeEmptyPayloadsDefaultToObject(t *testing.T) {
	s := newTestService(t)

	res, err := s.ShareKnowledge("best_practice", "", "a1", "")
	if err != nil {
		t.Fatalf("ShareKnowledge() error = %v", err)
	}

	q := s.QueryKnowledge("best_practice", "", 10)
	if q.TotalResults != 1 {
		t.Fatalf("QueryKnowledge() TotalResults = %d, want 1", q.TotalResults)
	}
	if string(q.Atoms[0].Content) != "{}" {
		t.Errorf("Content = %s, want {}", q.Atoms[0].Content)
	}
	if q.Atoms[0].AtomID != res.AtomID {
		t.Errorf("AtomID = %q, want %q", q.Atoms[0].AtomID, res.AtomID)
	}
}

func TestQueryKnowledgeFilters(t *testing.T) {
	s := newTestService(t)

	s.ShareKnowledge("actor", `{"n":1}`, "a1", "")
	s.ShareKnowledge("blueprint", `{"n":2}`, "a1", "")
	s.ShareKnowledge("actor", `{"n":3}`, "a2", "")

	byType := s.QueryKnowledge("actor", "", 10)
	if byType.TotalResults != 2 {
		t.Errorf("query by type TotalResults = %d, want 2", byType.TotalResults)
	}

	bySource := s.QueryKnowledge("", "a1", 10)
	if bySource.TotalResults != 2 {
		t.Errorf("query by source TotalResults = %d, want 2", bySource.TotalResults)
	}

	both := s.QueryKnowledge("actor", "a2", 10)
	if both.TotalResults != 1 {
		t.Errorf("query by type+source TotalResults = %d, want 1", both.TotalResults)
	}

	all := s.QueryKnowledge("", "", 10)
	if all.TotalResults != 3 {
		t.Errorf("unfiltered query TotalResults = %d, want 3", all.TotalResults)
	}
}

func TestQueryKnowledgeAccessTracking(t *testing.T) {
	s := newTestService(t)

	s.ShareKnowledge("actor", `{"n":1}`, "a1", "")
	s.ShareKnowledge("actor", `{"n":2}`, "a1", "")
	s.ShareKnowledge("scene_state", `{"n":3}`, "a2", "")

	// First query touches only the two matching atoms.
	q := s.QueryKnowledge("actor", "", 10)
	for _, atom := range q.Atoms {
		if atom.AccessCount != 1 {
			t.Errorf("atom %s AccessCount = %d, want 1", atom.AtomID, atom.AccessCount)
		}
		if atom.LastAccessed == nil {
			t.Errorf("atom %s LastAccessed not set", atom.AtomID)
		}
	}

	// The filtered-out atom must be untouched.
	other := s.QueryKnowledge("scene_state", "", 10)
	if other.Atoms[0].AccessCount != 1 {
		t.Errorf("scene_state AccessCount = %d, want 1 (first touch)", other.Atoms[0].AccessCount)
	}

	// A second matching query increments exactly once more.
	q2 := s.QueryKnowledge("actor", "", 10)
	for _, atom := range q2.Atoms {
		if atom.AccessCount != 2 {
			t.Errorf("atom %s AccessCount = %d, want 2", atom.AtomID, atom.AccessCount)
		}
	}
}

func TestQueryKnowledgeLimit(t *testing.T) {
	s := newTestService(t)

	for i := 0; i < 5; i++ {
		s.ShareKnowledge("actor", `{}`, "a1", "")
	}

	q := s.QueryKnowledge("actor", "", 2)
	if q.TotalResults != 2 {
		t.Fatalf("limited query TotalResults = %d, want 2", q.TotalResults)
	}

	// Atoms past the limit are not access-tracked. Re-query everything and
	// check the tail atoms saw only this second query.
	all := s.QueryKnowledge("actor", "", 10)
	if all.TotalResults != 5 {
		t.Fatalf("unlimited query TotalResults = %d, want 5", all.TotalResults)
	}
	if all.Atoms[0].AccessCount != 2 {
		t.Errorf("first atom AccessCount = %d, want 2", all.Atoms[0].AccessCount)
	}
	if all.Atoms[4].AccessCount != 1 {
		t.Errorf("last atom AccessCount = %d, want 1 (was beyond limit)", all.Atoms[4].AccessCount)
	}
}

func TestQueryKnowledgeDefaultLimit(t *testing.T) {
	s := newTestService(t)

	for i := 0; i < 15; i++ {
		s.ShareKnowledge("actor", `{}`, "", "")
	}

	q := s.QueryKnowledge("", "", 0)
	if q.TotalResults != 10 {
		t.Errorf("query with limit 0 TotalResults = %d, want default 10", q.TotalResults)
	}
}

func TestQueryKnowledgeStableOrder(t *testing.T) {
	s := newTestService(t)

	first, _ := s.ShareKnowledge("actor", `{}`, "", "")
	second, _ := s.ShareKnowledge("actor", `{}`, "", "")
	third, _ := s.ShareKnowledge("actor", `{}`, "", "")

	q := s.QueryKnowledge("actor", "", 10)
	want := []string{first.AtomID, second.AtomID, third.AtomID}
	for i, atom := range q.Atoms {
		if atom.AtomID != want[i] {
			t.Errorf("Atoms[%d] = %q, want %q (insertion order)", i, atom.AtomID, want[i])
		}
	}
}
