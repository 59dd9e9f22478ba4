package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"labtasks-backend/internal/middleware"
	"labtasks-backend/internal/queue"
	"labtasks-backend/internal/repository"
)

// AdminTaskHandler implements the privileged task and topic mutations.
// Routes using it must be wrapped in JWTAuth and RequireAdmin.
type AdminTaskHandler struct {
	Tasks  TaskStore
	Topics TopicStore
	Events EventSink
}

func NewAdminTaskHandler(tasks TaskStore, topics TopicStore, events EventSink) *AdminTaskHandler {
	return &AdminTaskHandler{Tasks: tasks, Topics: topics, Events: events}
}

type taskPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TopicID     uint64 `json:"topic_id"`
}

type topicPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateTask handles POST /admin/tasks.
func (h *AdminTaskHandler) CreateTask(c echo.Context) error {
	var req taskPayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" || req.TopicID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and topic_id are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Topics.GetByID(ctx, req.TopicID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Topic not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	id, err := h.Tasks.Create(ctx, strings.TrimSpace(req.Title), req.Description, req.TopicID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	t, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	h.publish(c, queue.EventTaskCreated, t.ID, t.Title)
	return c.JSON(http.StatusCreated, taskToResp(t))
}

// UpdateTask handles PUT /admin/tasks/:id.
func (h *AdminTaskHandler) UpdateTask(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req taskPayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" || req.TopicID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and topic_id are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Topics.GetByID(ctx, req.TopicID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Topic not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Tasks.Update(ctx, id, strings.TrimSpace(req.Title), req.Description, req.TopicID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Task not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	t, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	h.publish(c, queue.EventTaskUpdated, t.ID, t.Title)
	return c.JSON(http.StatusOK, taskToResp(t))
}

// DeleteTask handles DELETE /admin/tasks/:id. Deleting an absent task
// still reports success; the end state is the same.
func (h *AdminTaskHandler) DeleteTask(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tasks.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	h.publish(c, queue.EventTaskDeleted, id, "")
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// CreateTopic handles POST /admin/topics.
func (h *AdminTaskHandler) CreateTopic(c echo.Context) error {
	var req topicPayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Topics.Create(ctx, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, repository.ErrTopicExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Topic already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	t, err := h.Topics.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusCreated, topicToResp(t))
}

func (h *AdminTaskHandler) publish(c echo.Context, kind string, taskID uint64, title string) {
	if h.Events == nil {
		return
	}
	actor, _ := middleware.UserID(c)
	h.Events.Publish(c.Request().Context(), queue.Event{
		Kind:    kind,
		ActorID: actor,
		TaskID:  taskID,
		Title:   title,
	})
}
