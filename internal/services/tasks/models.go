package tasks

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Priority orders tasks within a listing. High sorts before Medium before
// Low; the due date only breaks ties inside a priority band.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Rank maps a priority to its sort weight. Unknown values sink to the end.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// SubTask is an embedded, ordered item within a task.
type SubTask struct {
	ID     bson.ObjectID `bson:"_id" json:"id" example:"683cdb8aa96ad71e8e075bd2"`
	Title  string        `bson:"title" json:"title" example:"Buy stamps"`
	IsDone bool          `bson:"is_done" json:"isDone"`
}

// Task is a user-owned task with at least one sub-task. IsCompleted is
// derived-consistent with the sub-tasks: a whole-task toggle overwrites
// every sub-task, and a single sub-task toggle recomputes IsCompleted as
// the AND over all sub-tasks.
type Task struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty" example:"683cdb8aa96ad71e8e075bd1"`
	OwnerID     bson.ObjectID `bson:"owner_id" json:"ownerId" example:"683cdb8aa96ad71e8e075bd0"`
	Title       string        `bson:"title" json:"title" example:"Errands"`
	Content     string        `bson:"content" json:"content"`
	IsCompleted bool          `bson:"is_completed" json:"isCompleted"`
	Priority    Priority      `bson:"priority" json:"priority" example:"Medium"`
	DueDate     *time.Time    `bson:"due_date,omitempty" json:"dueDate,omitempty"`
	SubTasks    []SubTask     `bson:"sub_tasks" json:"subTasks"`
	CreatedAt   time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updatedAt"`
}

// Owner implements ownership.Owned.
func (t *Task) Owner() bson.ObjectID {
	return t.OwnerID
}

// TaskPatch carries the fields a toggle may change. Nil means untouched.
type TaskPatch struct {
	IsCompleted *bool
	SubTasks    *[]SubTask
}

// ListFilter narrows a task listing to exact completion and priority
// matches. Nil / empty means no constraint.
type ListFilter struct {
	IsCompleted *bool
	Priority    Priority
}
