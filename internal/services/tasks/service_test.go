package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"notedeck/internal/services/fault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var silentLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var mockTask = mock.AnythingOfType("*tasks.Task")

// MockTasksRepo is a mock implementation of Repository
type MockTasksRepo struct {
	mock.Mock
}

func (m *MockTasksRepo) Create(ctx context.Context, task *Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTasksRepo) FindByID(ctx context.Context, id bson.ObjectID) (*Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Task), args.Error(1)
}

func (m *MockTasksRepo) List(ctx context.Context, ownerID bson.ObjectID, filter ListFilter) ([]*Task, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Task), args.Error(1)
}

func (m *MockTasksRepo) Update(ctx context.Context, id bson.ObjectID, patch TaskPatch) (*Task, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Task), args.Error(1)
}

func (m *MockTasksRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func ownedTask(ownerID bson.ObjectID, mutate func(*Task)) *Task {
	t := &Task{
		ID:       bson.NewObjectID(),
		OwnerID:  ownerID,
		Title:    "Errands",
		Priority: PriorityMedium,
		SubTasks: []SubTask{
			{ID: bson.NewObjectID(), Title: "Buy stamps"},
			{ID: bson.NewObjectID(), Title: "Mail letter"},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if mutate != nil {
		mutate(t)
	}
	return t
}

func TestServiceCreate(t *testing.T) {
	userID := bson.NewObjectID()

	t.Run("assigns fresh sub-task ids and default priority", func(t *testing.T) {
		repo := &MockTasksRepo{}
		repo.On("Create", mock.Anything, mockTask).Return(nil)
		svc := NewService(repo, silentLogger)

		task, err := svc.Create(context.Background(), userID, CreateTaskRequest{
			Title: "Errands",
			SubTasks: []SubTaskRequest{
				{Title: "Buy stamps"},
				{Title: "Mail letter", IsDone: true},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, PriorityMedium, task.Priority)
		require.Len(t, task.SubTasks, 2)
		assert.False(t, task.SubTasks[0].ID.IsZero())
		assert.False(t, task.SubTasks[1].ID.IsZero())
		assert.NotEqual(t, task.SubTasks[0].ID, task.SubTasks[1].ID)
		assert.True(t, task.SubTasks[1].IsDone)
		repo.AssertExpectations(t)
	})

	t.Run("keeps explicit priority", func(t *testing.T) {
		repo := &MockTasksRepo{}
		repo.On("Create", mock.Anything, mockTask).Return(nil)
		svc := NewService(repo, silentLogger)

		task, err := svc.Create(context.Background(), userID, CreateTaskRequest{
			Title:    "Errands",
			Priority: PriorityHigh,
			SubTasks: []SubTaskRequest{{Title: "Buy stamps"}},
		})

		require.NoError(t, err)
		assert.Equal(t, PriorityHigh, task.Priority)
	})

	t.Run("title empty after sanitizing", func(t *testing.T) {
		repo := &MockTasksRepo{}
		svc := NewService(repo, silentLogger)

		_, err := svc.Create(context.Background(), userID, CreateTaskRequest{
			Title:    "<script>x</script>",
			SubTasks: []SubTaskRequest{{Title: "Buy stamps"}},
		})

		assert.EqualError(t, err, "Title cannot be empty")
	})

	t.Run("duplicate title surfaces conflict", func(t *testing.T) {
		repo := &MockTasksRepo{}
		repo.On("Create", mock.Anything, mockTask).
			Return(&fault.Conflict{Kind: "Task", Field: "title"})
		svc := NewService(repo, silentLogger)

		_, err := svc.Create(context.Background(), userID, CreateTaskRequest{
			Title:    "Errands",
			SubTasks: []SubTaskRequest{{Title: "Buy stamps"}},
		})

		assert.EqualError(t, err, "The title is already used")
	})
}

func TestServiceListTwoPhaseSort(t *testing.T) {
	userID := bson.NewObjectID()

	day := func(d int) *time.Time {
		ts := time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
		return &ts
	}

	// already in due-date order, as the store returns them
	stored := []*Task{
		ownedTask(userID, func(t *Task) { t.Title = "low early"; t.Priority = PriorityLow; t.DueDate = day(1) }),
		ownedTask(userID, func(t *Task) { t.Title = "high late"; t.Priority = PriorityHigh; t.DueDate = day(2) }),
		ownedTask(userID, func(t *Task) { t.Title = "medium"; t.Priority = PriorityMedium; t.DueDate = day(3) }),
		ownedTask(userID, func(t *Task) { t.Title = "high later"; t.Priority = PriorityHigh; t.DueDate = day(4) }),
	}

	repo := &MockTasksRepo{}
	repo.On("List", mock.Anything, userID, ListFilter{}).Return(stored, nil)
	svc := NewService(repo, silentLogger)

	found, err := svc.List(context.Background(), userID, ListTasksRequest{})

	require.NoError(t, err)
	titles := make([]string, len(found))
	for i, task := range found {
		titles[i] = task.Title
	}
	// priority wins, due date breaks ties within a band
	assert.Equal(t, []string{"high late", "high later", "medium", "low early"}, titles)
}

func TestServiceListFilterParsing(t *testing.T) {
	userID := bson.NewObjectID()

	tests := []struct {
		name string
		req  ListTasksRequest
		want func(ListFilter) bool
	}{
		{
			name: "no filters",
			req:  ListTasksRequest{},
			want: func(f ListFilter) bool { return f.IsCompleted == nil && f.Priority == "" },
		},
		{
			name: "completed true",
			req:  ListTasksRequest{IsCompleted: "true"},
			want: func(f ListFilter) bool { return f.IsCompleted != nil && *f.IsCompleted },
		},
		{
			name: "completed false",
			req:  ListTasksRequest{IsCompleted: "false"},
			want: func(f ListFilter) bool { return f.IsCompleted != nil && !*f.IsCompleted },
		},
		{
			name: "priority",
			req:  ListTasksRequest{Priority: "High"},
			want: func(f ListFilter) bool { return f.Priority == PriorityHigh },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockTasksRepo{}
			repo.On("List", mock.Anything, userID, mock.MatchedBy(tt.want)).Return([]*Task{}, nil)
			svc := NewService(repo, silentLogger)

			_, err := svc.List(context.Background(), userID, tt.req)

			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestServiceToggleCascade(t *testing.T) {
	userID := bson.NewObjectID()

	t.Run("completing marks every sub-task done", func(t *testing.T) {
		existing := ownedTask(userID, func(task *Task) {
			task.SubTasks[0].IsDone = true // mixed state before the toggle
		})
		repo := &MockTasksRepo{}
		repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
		repo.On("Update", mock.Anything, existing.ID, mock.MatchedBy(func(p TaskPatch) bool {
			if p.IsCompleted == nil || !*p.IsCompleted || p.SubTasks == nil {
				return false
			}
			for _, sub := range *p.SubTasks {
				if !sub.IsDone {
					return false
				}
			}
			return true
		})).Return(ownedTask(userID, func(task *Task) { task.IsCompleted = true }), nil)
		svc := NewService(repo, silentLogger)

		updated, err := svc.Toggle(context.Background(), userID, existing.ID)

		require.NoError(t, err)
		assert.True(t, updated.IsCompleted)
		repo.AssertExpectations(t)
	})

	t.Run("uncompleting marks every sub-task not done", func(t *testing.T) {
		existing := ownedTask(userID, func(task *Task) {
			task.IsCompleted = true
			task.SubTasks[0].IsDone = true
			task.SubTasks[1].IsDone = true
		})
		repo := &MockTasksRepo{}
		repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
		repo.On("Update", mock.Anything, existing.ID, mock.MatchedBy(func(p TaskPatch) bool {
			if p.IsCompleted == nil || *p.IsCompleted || p.SubTasks == nil {
				return false
			}
			for _, sub := range *p.SubTasks {
				if sub.IsDone {
					return false
				}
			}
			return true
		})).Return(ownedTask(userID, nil), nil)
		svc := NewService(repo, silentLogger)

		_, err := svc.Toggle(context.Background(), userID, existing.ID)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestServiceToggleSubTask(t *testing.T) {
	userID := bson.NewObjectID()

	t.Run("last open sub-task completes the task", func(t *testing.T) {
		existing := ownedTask(userID, func(task *Task) {
			task.SubTasks[0].IsDone = true
		})
		target := existing.SubTasks[1].ID
		repo := &MockTasksRepo{}
		repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
		repo.On("Update", mock.Anything, existing.ID, mock.MatchedBy(func(p TaskPatch) bool {
			return p.IsCompleted != nil && *p.IsCompleted &&
				p.SubTasks != nil && (*p.SubTasks)[1].IsDone
		})).Return(ownedTask(userID, func(task *Task) { task.IsCompleted = true }), nil)
		svc := NewService(repo, silentLogger)

		updated, err := svc.ToggleSubTask(context.Background(), userID, existing.ID, target)

		require.NoError(t, err)
		assert.True(t, updated.IsCompleted)
		repo.AssertExpectations(t)
	})

	t.Run("unchecking one sub-task uncompletes the task", func(t *testing.T) {
		existing := ownedTask(userID, func(task *Task) {
			task.IsCompleted = true
			task.SubTasks[0].IsDone = true
			task.SubTasks[1].IsDone = true
		})
		target := existing.SubTasks[0].ID
		repo := &MockTasksRepo{}
		repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
		repo.On("Update", mock.Anything, existing.ID, mock.MatchedBy(func(p TaskPatch) bool {
			return p.IsCompleted != nil && !*p.IsCompleted &&
				p.SubTasks != nil && !(*p.SubTasks)[0].IsDone
		})).Return(ownedTask(userID, nil), nil)
		svc := NewService(repo, silentLogger)

		_, err := svc.ToggleSubTask(context.Background(), userID, existing.ID, target)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("does not mutate the loaded task in place", func(t *testing.T) {
		existing := ownedTask(userID, nil)
		target := existing.SubTasks[0].ID
		repo := &MockTasksRepo{}
		repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
		repo.On("Update", mock.Anything, existing.ID, mock.Anything).
			Return(ownedTask(userID, nil), nil)
		svc := NewService(repo, silentLogger)

		_, err := svc.ToggleSubTask(context.Background(), userID, existing.ID, target)

		require.NoError(t, err)
		assert.False(t, existing.SubTasks[0].IsDone)
	})

	t.Run("unknown sub-task id", func(t *testing.T) {
		existing := ownedTask(userID, nil)
		repo := &MockTasksRepo{}
		repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
		svc := NewService(repo, silentLogger)

		_, err := svc.ToggleSubTask(context.Background(), userID, existing.ID, bson.NewObjectID())

		var nf *fault.NotFound
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "Subtask", nf.Kind)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("foreign task", func(t *testing.T) {
		existing := ownedTask(bson.NewObjectID(), nil)
		repo := &MockTasksRepo{}
		repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
		svc := NewService(repo, silentLogger)

		_, err := svc.ToggleSubTask(context.Background(), userID, existing.ID, existing.SubTasks[0].ID)

		var fb *fault.Forbidden
		require.ErrorAs(t, err, &fb)
		assert.Equal(t, "Task", fb.Kind)
	})
}

func TestServiceDelete(t *testing.T) {
	userID := bson.NewObjectID()

	t.Run("repository error is wrapped", func(t *testing.T) {
		existing := ownedTask(userID, nil)
		repo := &MockTasksRepo{}
		repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
		repo.On("Delete", mock.Anything, existing.ID).Return(errors.New("db down"))
		svc := NewService(repo, silentLogger)

		err := svc.Delete(context.Background(), userID, existing.ID)

		assert.ErrorIs(t, err, ErrDeleteTask)
	})

	t.Run("missing task", func(t *testing.T) {
		taskID := bson.NewObjectID()
		repo := &MockTasksRepo{}
		repo.On("FindByID", mock.Anything, taskID).Return(nil, &fault.NotFound{Kind: "Task"})
		svc := NewService(repo, silentLogger)

		err := svc.Delete(context.Background(), userID, taskID)

		var nf *fault.NotFound
		require.ErrorAs(t, err, &nf)
	})
}

func TestPriorityRank(t *testing.T) {
	assert.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Equal(t, 0, Priority("bogus").Rank())
}
