package engine

import (
	"ecosystem-server/internal/domain"
	"ecosystem-server/pkg/utils"
	"sort"
	"sync"
	"time"
)

// TaskStatus is the lifecycle of a background simulation.
type TaskStatus string

const (
	TaskPending  TaskStatus = "pending"
	TaskRunning  TaskStatus = "running"
	TaskFinished TaskStatus = "finished"
	TaskFailed   TaskStatus = "failed"
)

// Task is a multi-tick simulation dispatched in the background.
// There is no cancellation: once dispatched it runs to the end.
type Task struct {
	Token       string
	EcosystemID string
	Ticks       int
	Status      TaskStatus
	Err         string
	Result      *SimulationResult
	CreatedAt   time.Time
	FinishedAt  time.Time
}

// TaskRegistry keeps every task of the process, keyed by token.
type TaskRegistry struct {
	mu    sync.RWMutex
	tasks map[string]*Task
	now   func() time.Time
}

func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{
		tasks: make(map[string]*Task),
		now:   time.Now,
	}
}

// Create registers a pending task and returns its token.
func (r *TaskRegistry) Create(ecosystemID string, ticks int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	token := utils.GenerateID()
	r.tasks[token] = &Task{
		Token:       token,
		EcosystemID: ecosystemID,
		Ticks:       ticks,
		Status:      TaskPending,
		CreatedAt:   r.now(),
	}
	return token
}

func (r *TaskRegistry) Start(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.tasks[token]; ok {
		t.Status = TaskRunning
	}
}

// Finish stores the result slot; a non-nil err marks the task failed.
func (r *TaskRegistry) Finish(token string, res *SimulationResult, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[token]
	if !ok {
		return
	}
	t.FinishedAt = r.now()
	if err != nil {
		t.Status = TaskFailed
		t.Err = err.Error()
		return
	}
	t.Status = TaskFinished
	t.Result = res
}

// Get returns a copy of the task.
func (r *TaskRegistry) Get(token string) (Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[token]
	if !ok {
		return Task{}, domain.NotFound("task", "token")
	}
	return *t, nil
}

// List returns copies of all tasks, oldest first.
func (r *TaskRegistry) List() []Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		res = append(res, *t)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res
}
