package tasks

import "errors"

// ErrCreateTask is returned when task creation fails.
var ErrCreateTask = errors.New("failed to create task")

// ErrUpdateTask is returned when a task toggle fails.
var ErrUpdateTask = errors.New("failed to update task")

// ErrDeleteTask is returned when task deletion fails.
var ErrDeleteTask = errors.New("failed to delete task")

// ErrListTasks is returned when tasks listing fails.
var ErrListTasks = errors.New("failed to list tasks")

// ErrCreateTasksRepo is returned when tasks repository creation fails.
var ErrCreateTasksRepo = errors.New("failed to create tasks repository")
