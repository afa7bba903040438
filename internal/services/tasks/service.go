package tasks

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"notedeck/internal/services/fault"
	"notedeck/internal/services/ownership"
	"notedeck/internal/utils/sanitize"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	resourceKind = "Task"
	subTaskKind  = "Subtask"
)

// Service handles tasks business logic.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService creates a new tasks service.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// SubTaskRequest represents one sub-task in a task creation request.
type SubTaskRequest struct {
	Title  string `json:"title" validate:"required" example:"Buy stamps"`
	IsDone bool   `json:"isDone"`
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Title       string           `json:"title" validate:"required,max=255" example:"Errands"`
	Content     string           `json:"content"`
	IsCompleted bool             `json:"isCompleted"`
	Priority    Priority         `json:"priority" validate:"omitempty,oneof=Low Medium High" example:"Medium"`
	DueDate     *time.Time       `json:"dueDate,omitempty"`
	SubTasks    []SubTaskRequest `json:"subTasks" validate:"required,min=1,dive"`
}

// ListTasksRequest represents a list tasks request. IsCompleted arrives as
// a string flag and is parsed here, matching the query-parameter contract.
type ListTasksRequest struct {
	IsCompleted string `query:"isCompleted" validate:"omitempty,oneof=true false" example:"true"`
	Priority    string `query:"priority" validate:"omitempty,oneof=Low Medium High" example:"High"`
}

// Create persists a new task owned by the caller. Every sub-task receives
// its own fresh id so it can be toggled individually later.
func (s *Service) Create(ctx context.Context, ownerID bson.ObjectID, req CreateTaskRequest) (*Task, error) {
	title := sanitize.Clean(req.Title)
	if title == "" {
		return nil, &fault.Validation{Message: "Title cannot be empty"}
	}

	subTasks := make([]SubTask, 0, len(req.SubTasks))
	for _, sub := range req.SubTasks {
		subTitle := sanitize.Clean(sub.Title)
		if subTitle == "" {
			return nil, &fault.Validation{Message: "Sub-task title cannot be empty"}
		}
		subTasks = append(subTasks, SubTask{
			ID:     bson.NewObjectID(),
			Title:  subTitle,
			IsDone: sub.IsDone,
		})
	}

	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	now := time.Now()
	task := &Task{
		ID:          bson.NewObjectID(),
		OwnerID:     ownerID,
		Title:       title,
		Content:     sanitize.Clean(req.Content),
		IsCompleted: req.IsCompleted,
		Priority:    priority,
		DueDate:     req.DueDate,
		SubTasks:    subTasks,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		var conflict *fault.Conflict
		if errors.As(err, &conflict) {
			return nil, err
		}
		s.log.Error(ErrCreateTask.Error(), "error", err, "owner_id", ownerID.Hex())
		return nil, ErrCreateTask
	}

	return task, nil
}

// List returns the caller's tasks, optionally filtered by completion state
// and priority. The store sorts by due date ascending; a second, stable
// pass reorders by priority descending so equal-priority tasks keep their
// due-date order. The two-phase sort is intentional: due date is the
// tie-break within a priority band, not the primary key.
func (s *Service) List(ctx context.Context, ownerID bson.ObjectID, req ListTasksRequest) ([]*Task, error) {
	var filter ListFilter
	if req.IsCompleted != "" {
		completed := req.IsCompleted == "true"
		filter.IsCompleted = &completed
	}
	filter.Priority = Priority(req.Priority)

	found, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		s.log.Error(ErrListTasks.Error(), "error", err, "owner_id", ownerID.Hex())
		return nil, ErrListTasks
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Priority.Rank() > found[j].Priority.Rank()
	})

	return found, nil
}

// Get returns the ownership-checked task as stored.
func (s *Service) Get(ctx context.Context, ownerID, taskID bson.ObjectID) (*Task, error) {
	return ownership.Resolve(ctx, s.repo, resourceKind, taskID, ownerID)
}

// Toggle flips the task's completion state and cascades the new value to
// every sub-task. This is an overwrite, not a per-sub-task toggle: all
// sub-tasks end up matching the task.
func (s *Service) Toggle(ctx context.Context, ownerID, taskID bson.ObjectID) (*Task, error) {
	task, err := ownership.Resolve(ctx, s.repo, resourceKind, taskID, ownerID)
	if err != nil {
		return nil, err
	}

	completed := !task.IsCompleted
	subTasks := make([]SubTask, len(task.SubTasks))
	for i, sub := range task.SubTasks {
		sub.IsDone = completed
		subTasks[i] = sub
	}

	updated, err := s.repo.Update(ctx, taskID, TaskPatch{IsCompleted: &completed, SubTasks: &subTasks})
	if err != nil {
		s.log.Error(ErrUpdateTask.Error(), "error", err, "owner_id", ownerID.Hex(), "task_id", taskID.Hex())
		return nil, ErrUpdateTask
	}

	return updated, nil
}

// ToggleSubTask flips one sub-task by id and recomputes the task's
// completion as the AND over all sub-tasks. The recomputation is pure: it
// ignores the task's previous completion value entirely.
func (s *Service) ToggleSubTask(ctx context.Context, ownerID, taskID, subTaskID bson.ObjectID) (*Task, error) {
	task, err := ownership.Resolve(ctx, s.repo, resourceKind, taskID, ownerID)
	if err != nil {
		return nil, err
	}

	subTasks := append([]SubTask(nil), task.SubTasks...)
	idx := -1
	for i, sub := range subTasks {
		if sub.ID == subTaskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &fault.NotFound{Kind: subTaskKind}
	}
	subTasks[idx].IsDone = !subTasks[idx].IsDone

	allDone := true
	for _, sub := range subTasks {
		if !sub.IsDone {
			allDone = false
			break
		}
	}

	updated, err := s.repo.Update(ctx, taskID, TaskPatch{IsCompleted: &allDone, SubTasks: &subTasks})
	if err != nil {
		s.log.Error(ErrUpdateTask.Error(), "error", err, "owner_id", ownerID.Hex(), "task_id", taskID.Hex())
		return nil, ErrUpdateTask
	}

	return updated, nil
}

// Delete removes a task permanently.
func (s *Service) Delete(ctx context.Context, ownerID, taskID bson.ObjectID) error {
	if _, err := ownership.Resolve(ctx, s.repo, resourceKind, taskID, ownerID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, taskID); err != nil {
		s.log.Error(ErrDeleteTask.Error(), "error", err, "owner_id", ownerID.Hex(), "task_id", taskID.Hex())
		return ErrDeleteTask
	}

	return nil
}
