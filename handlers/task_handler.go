package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"task-manager/backend/apperrors"
	"task-manager/backend/models"
	"task-manager/backend/services"
	"task-manager/backend/views"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskHandler struct {
	TaskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{TaskService: taskService}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	var req struct {
		Title       string              `json:"title"`
		Description string              `json:"description"`
		DueDate     time.Time           `json:"dueDate"`
		Priority    models.TaskPriority `json:"priority"`
		AssignedTo  []string            `json:"assignedTo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	assignedTo := make([]primitive.ObjectID, 0, len(req.AssignedTo))
	for _, idHex := range req.AssignedTo {
		id, err := primitive.ObjectIDFromHex(idHex)
		if err != nil {
			http.Error(w, "Invalid assignee ID format", http.StatusBadRequest)
			return
		}
		assignedTo = append(assignedTo, id)
	}

	task, err := h.TaskService.CreateTask(r.Context(), services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		AssignedTo:  assignedTo,
		CreatedBy:   userID,
	})
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// ListTasks returns the caller's tasks grouped into pending/completed/
// overdue, optionally sorted (?sort=priority|dueDate) and filtered
// (?filter=mine|shared).
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	tasks, err := h.TaskService.ListCreatedBy(r.Context(), userID)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	sortMode := views.SortMode(r.URL.Query().Get("sort"))
	filterMode := views.FilterMode(r.URL.Query().Get("filter"))

	writeJSON(w, http.StatusOK, views.Classify(tasks, userID, sortMode, filterMode, time.Now()))
}

func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	task, err := h.TaskService.MarkCompleted(r.Context(), taskID)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) ReopenTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	task, err := h.TaskService.ReopenTask(r.Context(), taskID)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), taskID); err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}

func taskIDFromPath(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return taskID, true
}
