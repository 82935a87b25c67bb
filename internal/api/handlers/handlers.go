// Package handlers implements the HTTP handlers for the Workbench control
// plane. Each handler is a thin shim: decode the request, run one
// orchestrator operation, encode the result. All coordination invariants
// live in the orchestrator, not here.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/agentworkbench/workbench/internal/orchestrator"
	"github.com/agentworkbench/workbench/pkg/models"
)

// Handlers holds all handler dependencies.
type Handlers struct {
	Orchestrator *orchestrator.Service
}

// New creates a new Handlers instance.
func New(svc *orchestrator.Service) *Handlers {
	return &Handlers{Orchestrator: svc}
}

// ══════════════════════════════════════════════════════════════
// ── Agent Handlers ───────────────────────────────────────────
// ══════════════════════════════════════════════════════════════

type registerAgentRequest struct {
	AgentID      string   `json:"agent_id"`
	AgentType    string   `json:"agent_type"`
	Capabilities []string `json:"capabilities"`
}

func (h *Handlers) RegisterAgent(w http.ResponseWriter, r *http.Request) {
	var req registerAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AgentID == "" {
		respondError(w, http.StatusBadRequest, "agent_id is required")
		return
	}

	res := h.Orchestrator.Register(req.AgentID, req.AgentType, req.Capabilities)
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	respondJSON(w, status, map[string]any{
		"status":  "success",
		"created": res.Created,
		"agent":   res.Agent,
	})
}

func (h *Handlers) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents := h.Orchestrator.ListAgents()
	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "success",
		"total_agents": len(agents),
		"agents":       agents,
	})
}

func (h *Handlers) DeregisterAgent(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentID")
	if err := h.Orchestrator.Deregister(agentID); err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"agent":  agentID,
	})
}

// ══════════════════════════════════════════════════════════════
// ── Knowledge Handlers ───────────────────────────────────────
// ══════════════════════════════════════════════════════════════

type shareKnowledgeRequest struct {
	AtomType    string `json:"atom_type"`
	Content     string `json:"content"`
	SourceAgent string `json:"source_agent"`
	Metadata    string `json:"metadata"`
}

func (h *Handlers) ShareKnowledge(w http.ResponseWriter, r *http.Request) {
	var req shareKnowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AtomType == "" {
		respondError(w, http.StatusBadRequest, "atom_type is required")
		return
	}

	res, err := h.Orchestrator.ShareKnowledge(req.AtomType, req.Content, req.SourceAgent, req.Metadata)
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"status":     "success",
		"atom_id":    res.AtomID,
		"atom_type":  res.AtomType,
		"created_at": res.CreatedAt,
	})
}

func (h *Handlers) QueryKnowledge(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	res := h.Orchestrator.QueryKnowledge(q.Get("type"), q.Get("source_agent"), limit)
	atoms := res.Atoms
	if atoms == nil {
		atoms = []models.KnowledgeAtom{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":        "success",
		"total_results": res.TotalResults,
		"atoms":         atoms,
	})
}

// ══════════════════════════════════════════════════════════════
// ── Task Handlers ────────────────────────────────────────────
// ══════════════════════════════════════════════════════════════

type createTaskRequest struct {
	TaskType      string `json:"task_type"`
	Params        string `json:"params"`
	AssignedAgent string `json:"assigned_agent"`
	Priority      int    `json:"priority"`
}

func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TaskType == "" {
		respondError(w, http.StatusBadRequest, "task_type is required")
		return
	}

	res, err := h.Orchestrator.CreateTask(req.TaskType, req.Params, req.AssignedAgent, req.Priority)
	if err != nil {
		respondOpError(w, err)
		return
	}
	assigned := res.AssignedAgent
	if assigned == "" {
		assigned = "unassigned"
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"status":         "success",
		"task_id":        res.TaskID,
		"task_type":      res.TaskType,
		"priority":       res.Priority,
		"assigned_agent": assigned,
	})
}

type claimTaskRequest struct {
	AgentID string `json:"agent_id"`
	TaskID  string `json:"task_id"`
}

func (h *Handlers) ClaimTask(w http.ResponseWriter, r *http.Request) {
	var req claimTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AgentID == "" {
		respondError(w, http.StatusBadRequest, "agent_id is required")
		return
	}

	task, err := h.Orchestrator.ClaimTask(req.AgentID, req.TaskID)
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"task":   task,
	})
}

type completeTaskRequest struct {
	Result  string `json:"result"`
	Success *bool  `json:"success"`
}

func (h *Handlers) CompleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	var req completeTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	success := true
	if req.Success != nil {
		success = *req.Success
	}

	task, err := h.Orchestrator.CompleteTask(taskID, req.Result, success)
	if err != nil {
		respondOpError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":      "success",
		"task_id":     task.TaskID,
		"task_status": task.Status,
	})
}

func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks := h.Orchestrator.ListTasks(models.TaskStatus(q.Get("status")), q.Get("assigned_agent"))
	if tasks == nil {
		tasks = []models.WorkflowTask{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":      "success",
		"total_tasks": len(tasks),
		"tasks":       tasks,
	})
}

// ══════════════════════════════════════════════════════════════
// ── Status / History / State Handlers ────────────────────────
// ══════════════════════════════════════════════════════════════

func (h *Handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":        "success",
		"orchestration": h.Orchestrator.Status(),
	})
}

func (h *Handlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	history := h.Orchestrator.History()
	if history == nil {
		history = []models.HistoryRecord{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":        "success",
		"total_records": len(history),
		"history":       history,
	})
}

func (h *Handlers) ClearState(w http.ResponseWriter, r *http.Request) {
	confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if err := h.Orchestrator.Clear(confirm); err != nil {
		respondOpError(w, err)
		return
	}
	log.Warn().Msg("Orchestrator state cleared")
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "orchestrator state cleared",
	})
}

// ── Helpers ─────────────────────────────────────────────────

// respondOpError maps the orchestrator error taxonomy to HTTP statuses.
func respondOpError(w http.ResponseWriter, err error) {
	var nf *orchestrator.NotFoundError
	var mp *orchestrator.MalformedPayloadError
	switch {
	case errors.As(err, &mp):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &nf):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orchestrator.ErrUnknownAgent):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orchestrator.ErrTaskUnavailable),
		errors.Is(err, orchestrator.ErrNoAvailableTask),
		errors.Is(err, orchestrator.ErrTaskFinished):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, orchestrator.ErrConfirmationRequired):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"status": "error", "error": message})
}
