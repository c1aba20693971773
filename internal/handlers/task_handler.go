package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rafaelduarte/taskapi/internal/apperrors"
	"github.com/rafaelduarte/taskapi/internal/logger"
	"github.com/rafaelduarte/taskapi/internal/middleware"
	"github.com/rafaelduarte/taskapi/internal/models"
	"github.com/rafaelduarte/taskapi/internal/service"
)

type TaskHandler struct {
	taskService *service.TaskService
	log         *logger.Logger
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		log:         logger.New("task-handler"),
	}
}

// All task routes run behind RequireAuth, so a missing context here means the
// route was wired wrong; treat it as an auth failure rather than panicking.
func authContext(r *http.Request) (*models.AuthContext, error) {
	authCtx, ok := middleware.FromContext(r.Context())
	if !ok {
		return nil, apperrors.NoToken()
	}
	return authCtx, nil
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	authCtx, err := authContext(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Validation("invalid request body"))
		return
	}

	task, err := h.taskService.Create(r.Context(), authCtx, req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, "Task created successfully", map[string]interface{}{
		"task": task,
	})
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	authCtx, err := authContext(r)
	if err != nil {
		respondError(w, err)
		return
	}

	task, err := h.taskService.Get(r.Context(), authCtx, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Task retrieved successfully", map[string]interface{}{
		"task": task,
	})
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	authCtx, err := authContext(r)
	if err != nil {
		respondError(w, err)
		return
	}

	tasks, err := h.taskService.List(r.Context(), authCtx)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Tasks retrieved successfully", map[string]interface{}{
		"tasks": tasks,
	})
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	authCtx, err := authContext(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var patch models.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, apperrors.Validation("invalid request body"))
		return
	}

	task, err := h.taskService.Update(r.Context(), authCtx, mux.Vars(r)["id"], patch)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Task updated successfully", map[string]interface{}{
		"task": task,
	})
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	authCtx, err := authContext(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.taskService.Delete(r.Context(), authCtx, mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "Task deleted successfully", nil)
}
