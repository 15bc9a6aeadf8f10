package server

import (
	"net/http"

	"donorconnect/internal/auth"
	"donorconnect/pkg/types"

)

func (s *Service) handleAPIListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasksRepo.Tasks(r.Context())
	if err != nil {
		s.apiError(w, r, err, "list tasks")
		return
	}

	s.writeJSON(w, http.StatusOK, tasks)
}

func (s *Service) handleAPIGetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	task, err := s.tasksRepo.Task(ctx, r.PathValue("id"))
	if err != nil {
		s.apiError(w, r, err, "get task")
		return
	}

	s.writeJSON(w, http.StatusOK, task)
}

func (s *Service) handleAPICreateTask(w http.ResponseWriter, r *http.Request) {
	var in types.TaskInput
	if err := decodeJSON(r, &in); err != nil {
		s.apiError(w, r, err, "create task")
		return
	}

	task, err := newTask(in)
	if err != nil {
		s.apiError(w, r, err, "create task")
		return
	}

	if err := s.tasksRepo.CreateTask(r.Context(), task); err != nil {
		s.apiError(w, r, err, "create task")
		return
	}

	s.writeJSON(w, http.StatusCreated, task)
}

func (s *Service) handleAPIUpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in types.TaskInput
	if err := decodeJSON(r, &in); err != nil {
		s.apiError(w, r, err, "update task")
		return
	}

	task, err := s.tasksRepo.Task(ctx, r.PathValue("id"))
	if err != nil {
		s.apiError(w, r, err, "update task")
		return
	}

	if err := applyTaskInput(task, in); err != nil {
		s.apiError(w, r, err, "update task")
		return
	}

	if err := s.tasksRepo.UpdateTask(ctx, task); err != nil {
		s.apiError(w, r, err, "update task")
		return
	}

	s.writeJSON(w, http.StatusOK, task)
}

func (s *Service) handleAPIDeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !s.requireCapability(w, r, auth.CapDeleteTask, "tasks") {
		return
	}

	if err := s.tasksRepo.DeleteTask(ctx, r.PathValue("id")); err != nil {
		s.apiError(w, r, err, "delete task")
		return
	}

	s.writeJSON(w, http.StatusOK, deletedMessage("Task"))
}
