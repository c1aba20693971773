package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rafaelduarte/taskapi/internal/apperrors"
	"github.com/rafaelduarte/taskapi/internal/logger"
	"github.com/rafaelduarte/taskapi/internal/models"
	"github.com/rafaelduarte/taskapi/internal/storage"
	"github.com/rafaelduarte/taskapi/internal/validation"
)

// TaskService enforces ownership on every read and mutation path. REST and
// GraphQL both go through these methods, so the two protocols cannot drift
// apart on authorization decisions.
type TaskService struct {
	tasks storage.TaskStore
	log   *logger.Logger
}

func NewTaskService(tasks storage.TaskStore) *TaskService {
	return &TaskService{
		tasks: tasks,
		log:   logger.New("task-service"),
	}
}

// authorize allows the task's owner and any admin, nobody else.
func (s *TaskService) authorize(authCtx *models.AuthContext, task *models.Task) error {
	if authCtx.IsAdmin() {
		return nil
	}
	if task.OwnerID == authCtx.UserID {
		return nil
	}
	return apperrors.Forbidden()
}

func (s *TaskService) Create(ctx context.Context, authCtx *models.AuthContext, req models.CreateTaskRequest) (*models.Task, error) {
	if err := validation.ValidateTitle(req.Title); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if err := validation.ValidatePriority(priority); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := time.Now()
	task := &models.Task{
		ID:          uuid.New().String(),
		OwnerID:     authCtx.UserID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, apperrors.Internal().WithCause(err)
	}

	s.log.Info("task %s created by user %s", task.ID, authCtx.UserID)
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, authCtx *models.AuthContext, id string) (*models.Task, error) {
	task, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return nil, apperrors.Internal().WithCause(err)
	}
	if task == nil {
		return nil, apperrors.NotFound("task not found")
	}

	if err := s.authorize(authCtx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// List returns every task for admins and only the caller's tasks otherwise.
func (s *TaskService) List(ctx context.Context, authCtx *models.AuthContext) ([]*models.Task, error) {
	var (
		tasks []*models.Task
		err   error
	)
	if authCtx.IsAdmin() {
		tasks, err = s.tasks.ListAllTasks(ctx)
	} else {
		tasks, err = s.tasks.ListTasks(ctx, authCtx.UserID)
	}
	if err != nil {
		return nil, apperrors.Internal().WithCause(err)
	}
	return tasks, nil
}

// Update applies the patch fields present and bumps UpdatedAt. The ownership
// check and the patch run inside the store's atomic closure, so a concurrent
// writer cannot slip between check and write.
func (s *TaskService) Update(ctx context.Context, authCtx *models.AuthContext, id string, patch models.UpdateTaskRequest) (*models.Task, error) {
	if patch.Title != nil {
		if err := validation.ValidateTitle(*patch.Title); err != nil {
			return nil, apperrors.Validation(err.Error())
		}
	}
	if patch.Priority != nil {
		if err := validation.ValidatePriority(*patch.Priority); err != nil {
			return nil, apperrors.Validation(err.Error())
		}
	}

	task, err := s.tasks.UpdateTask(ctx, id, func(task *models.Task) error {
		if err := s.authorize(authCtx, task); err != nil {
			return err
		}

		if patch.Title != nil {
			task.Title = *patch.Title
		}
		if patch.Description != nil {
			task.Description = *patch.Description
		}
		if patch.Priority != nil {
			task.Priority = *patch.Priority
		}
		if patch.Completed != nil {
			task.Completed = *patch.Completed
		}
		task.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		if err == storage.ErrTaskNotFound {
			return nil, apperrors.NotFound("task not found")
		}
		if _, ok := apperrors.From(err); ok {
			return nil, err
		}
		return nil, apperrors.Internal().WithCause(err)
	}

	s.log.Debug("task %s updated by user %s", id, authCtx.UserID)
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, authCtx *models.AuthContext, id string) error {
	task, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return apperrors.Internal().WithCause(err)
	}
	if task == nil {
		return apperrors.NotFound("task not found")
	}

	if err := s.authorize(authCtx, task); err != nil {
		return err
	}

	if err := s.tasks.DeleteTask(ctx, id); err != nil {
		if err == storage.ErrTaskNotFound {
			return apperrors.NotFound("task not found")
		}
		return apperrors.Internal().WithCause(err)
	}

	s.log.Info("task %s deleted by user %s", id, authCtx.UserID)
	return nil
}
