package server

import (
	"errors"
	"fmt"
	"net/http"

	"donorconnect/internal/auth"
	"donorconnect/pkg/types"

)

type tasksPageData struct {
	types.BasePageData
	Tasks     []*types.Task
	Counts    []taskStatusCount
	CanDelete bool
}

type taskFormPageData struct {
	types.BasePageData
	ID       string
	Form     taskForm
	Statuses []types.TaskStatus
}

func (s *Service) handleTasksPage(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasksRepo.Tasks(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to load tasks")
		s.internalServerError(w)
		return
	}

	data := &tasksPageData{
		BasePageData: newBasePage(r, "Tasks"),
		Tasks:        tasks,
		Counts:       orderedTaskCounts(tasks),
		CanDelete:    auth.Can(sessionFromContext(r.Context()), auth.CapDeleteTask) == auth.Allow,
	}

	if err := s.renderTemplate(w, r, "page.tasks", data); err != nil {
		s.logger.WithError(err).Error("failed to render tasks page")
		s.internalServerError(w)
	}
}

func (s *Service) handleGetTaskForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	taskID := r.PathValue("id")

	data := &taskFormPageData{
		BasePageData: newBasePage(r, "New task"),
		Form:         taskForm{Status: string(types.TaskStatusPending)},
	}

	if taskID != "" {
		task, err := s.tasksRepo.Task(ctx, taskID)
		if err != nil {
			if errors.Is(err, types.ErrTaskNotFound) {
				http.NotFound(w, r)
				return
			}
			s.logger.WithError(err).WithField("task_id", taskID).Error("failed to load task")
			s.internalServerError(w)
			return
		}

		data.Title = "Edit task"
		data.ID = task.ID
		data.Form = taskFormFrom(task)
	}

	s.renderTaskForm(w, r, http.StatusOK, data)
}

func (s *Service) handlePostNewTask(w http.ResponseWriter, r *http.Request) {
	var f taskForm
	if err := decodeForm(r, &f); err != nil {
		s.logger.WithError(err).Error("failed to decode task form")
		s.redirectWithError(w, r, "/tasks/new", "Invalid form submission")
		return
	}

	in, err := f.input()
	var task *types.Task
	if err == nil {
		task, err = newTask(in)
	}
	if err == nil {
		err = s.tasksRepo.CreateTask(r.Context(), task)
	}
	if err != nil {
		s.taskFormFailed(w, r, &taskFormPageData{BasePageData: newBasePage(r, "New task"), Form: f}, err)
		return
	}

	s.redirectWithNotice(w, r, "/tasks", "Task created")
}

func (s *Service) handlePostEditTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	taskID := r.PathValue("id")

	var f taskForm
	if err := decodeForm(r, &f); err != nil {
		s.logger.WithError(err).Error("failed to decode task form")
		s.redirectWithError(w, r, fmt.Sprintf("/tasks/%s/edit", taskID), "Invalid form submission")
		return
	}

	in, err := f.input()
	var task *types.Task
	if err == nil {
		task, err = s.tasksRepo.Task(ctx, taskID)
	}
	if err == nil {
		err = applyTaskInput(task, in)
	}
	if err == nil {
		err = s.tasksRepo.UpdateTask(ctx, task)
	}
	if err != nil {
		s.taskFormFailed(w, r, &taskFormPageData{BasePageData: newBasePage(r, "Edit task"), ID: taskID, Form: f}, err)
		return
	}

	s.redirectWithNotice(w, r, "/tasks", "Task updated")
}

func (s *Service) handlePostDeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	taskID := r.PathValue("id")

	if auth.Can(sessionFromContext(ctx), auth.CapDeleteTask) != auth.Allow {
		s.redirectWithError(w, r, "/tasks", "You cannot delete tasks")
		return
	}

	if err := s.tasksRepo.DeleteTask(ctx, taskID); err != nil {
		if errors.Is(err, types.ErrTaskNotFound) {
			s.redirectWithError(w, r, "/tasks", "Task not found")
			return
		}
		s.logger.WithError(err).WithField("task_id", taskID).Error("failed to delete task")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/tasks", "Task deleted")
}

func (s *Service) taskFormFailed(w http.ResponseWriter, r *http.Request, data *taskFormPageData, err error) {
	if msg, status, ok := formFailure(err); ok {
		data.Error = msg
		s.renderTaskForm(w, r, status, data)
		return
	}

	s.logger.WithError(err).WithField("task_id", data.ID).Error("failed to save task")
	s.internalServerError(w)
}

func (s *Service) renderTaskForm(w http.ResponseWriter, r *http.Request, status int, data *taskFormPageData) {
	data.Statuses = types.TaskStatuses
	if err := s.renderTemplateStatus(w, r, status, "page.task_form", data); err != nil {
		s.logger.WithError(err).Error("failed to render task form")
		s.internalServerError(w)
	}
}
