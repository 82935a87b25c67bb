package orchestrator

import (
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/agentworkbench/workbench/pkg/models"
)

// CreateTaskResult identifies a newly queued task.
type CreateTaskResult struct {
	TaskID        string
	TaskType      string
	Priority      int
	AssignedAgent string
}

// CreateTask validates params, queues a task, and re-establishes the
// descending-priority order. An empty assignedAgent leaves the task open for
// any agent to claim; a pre-assignment reserves it for auto-select purposes
// but a specific claim by task ID is still allowed from any agent.
func (s *Service) CreateTask(taskType, params, assignedAgent string, priority int) (CreateTaskResult, error) {
	body, err := parsePayload("task_params", params)
	if err != nil {
		return CreateTaskResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := &models.WorkflowTask{
		TaskID:        s.nextID("task"),
		TaskType:      taskType,
		Params:        body,
		AssignedAgent: assignedAgent,
		Priority:      priority,
		Status:        models.TaskPending,
		CreatedAt:     s.now(),
	}
	s.tasks = append(s.tasks, task)
	s.resortTasks()

	log.Info().Str("task", task.TaskID).Int("priority", priority).Msg("Workflow task created")
	return CreateTaskResult{
		TaskID:        task.TaskID,
		TaskType:      taskType,
		Priority:      priority,
		AssignedAgent: assignedAgent,
	}, nil
}

// resortTasks restores descending-priority order. The sort is stable so
// equal-priority tasks keep their insertion order across every re-sort.
func (s *Service) resortTasks() {
	sort.SliceStable(s.tasks, func(i, j int) bool {
		return s.tasks[i].Priority > s.tasks[j].Priority
	})
}

// ClaimTask gives an agent exclusive ownership of a task. With a task ID the
// named task is claimed if it is still pending; without one the highest
// priority pending unassigned task is selected. The check and the claim
// happen in one transaction, so two concurrent claims can never both win the
// same task. The claiming agent must be registered, though it may be
// inactive.
func (s *Service) ClaimTask(agentID, taskID string) (models.WorkflowTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	agent, ok := s.agents[agentID]
	if !ok {
		return models.WorkflowTask{}, ErrUnknownAgent
	}

	var task *models.WorkflowTask
	if taskID != "" {
		for _, t := range s.tasks {
			if t.TaskID == taskID && t.Status == models.TaskPending {
				task = t
				break
			}
		}
		if task == nil {
			return models.WorkflowTask{}, ErrTaskUnavailable
		}
	} else {
		for _, t := range s.tasks {
			if t.Status == models.TaskPending && t.AssignedAgent == "" {
				task = t
				break
			}
		}
		if task == nil {
			return models.WorkflowTask{}, ErrNoAvailableTask
		}
	}

	now := s.now()
	task.Status = models.TaskClaimed
	task.AssignedAgent = agentID
	task.StartedAt = &now
	agent.TaskCount++
	agent.LastActive = now

	log.Info().Str("task", task.TaskID).Str("agent", agentID).Msg("Task claimed")
	return cloneTask(task), nil
}

// CompleteTask moves a task to completed or failed, records the result, and
// appends an immutable history record. Completing a task that already
// reached a terminal status is rejected and leaves history untouched.
func (s *Service) CompleteTask(taskID, result string, success bool) (models.WorkflowTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var task *models.WorkflowTask
	for _, t := range s.tasks {
		if t.TaskID == taskID {
			task = t
			break
		}
	}
	if task == nil {
		return models.WorkflowTask{}, &NotFoundError{Entity: "task", Key: taskID}
	}
	if task.Status.Terminal() {
		return models.WorkflowTask{}, ErrTaskFinished
	}

	body, err := parsePayload("result", result)
	if err != nil {
		return models.WorkflowTask{}, err
	}

	now := s.now()
	if success {
		task.Status = models.TaskCompleted
	} else {
		task.Status = models.TaskFailed
	}
	task.CompletedAt = &now
	task.Result = body

	s.history = append(s.history, models.HistoryRecord{
		RecordID:    uuid.New().String(),
		TaskID:      task.TaskID,
		TaskType:    task.TaskType,
		Agent:       task.AssignedAgent,
		Status:      task.Status,
		CompletedAt: now,
		Result:      body,
	})

	log.Info().Str("task", taskID).Str("status", string(task.Status)).Msg("Task completed")
	return cloneTask(task), nil
}

// ListTasks returns task snapshots filtered by optional status and assigned
// agent, in the queue's stored priority order.
func (s *Service) ListTasks(status models.TaskStatus, assignedAgent string) []models.WorkflowTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.WorkflowTask
	for _, t := range s.tasks {
		if status != "" && t.Status != status {
			continue
		}
		if assignedAgent != "" && t.AssignedAgent != assignedAgent {
			continue
		}
		out = append(out, cloneTask(t))
	}
	return out
}

func cloneTask(t *models.WorkflowTask) models.WorkflowTask {
	cp := *t
	if t.StartedAt != nil {
		v := *t.StartedAt
		cp.StartedAt = &v
	}
	if t.CompletedAt != nil {
		v := *t.CompletedAt
		cp.CompletedAt = &v
	}
	return cp
}
