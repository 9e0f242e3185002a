package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Wilfred007/ink-project/internal/service"
	"github.com/Wilfred007/ink-project/pkg/respond"
)

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
	}
}

type createRequest struct {
	Description string `json:"description"`
}

type createResponse struct {
	ID uint32 `json:"id"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {

	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	// The description is opaque: empty or whitespace-only is allowed.
	id := h.service.Add(req.Description)

	w.Header().Set("Location", fmt.Sprintf("/api/tasks/%d", id))
	respond.JSON(w, r, http.StatusCreated, createResponse{ID: id})
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(r)
	if !ok {
		respond.Error(w, r, http.StatusNotFound, "not found")
		return
	}

	task, found := h.service.Get(id)
	if !found {
		respond.Error(w, r, http.StatusNotFound, "not found")
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, h.service.List())
}

func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(r)
	if !ok || !h.service.Complete(id) {
		respond.Error(w, r, http.StatusNotFound, "not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(r)
	if !ok || !h.service.Remove(id) {
		respond.Error(w, r, http.StatusNotFound, "not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// taskID parses the id route parameter. An unparseable id cannot match
// any task, so callers treat it the same as a missing one.
func (h *TaskHandler) taskID(r *http.Request) (uint32, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(id), true
}
