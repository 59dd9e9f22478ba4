package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"labtasks-backend/internal/model"
	"labtasks-backend/internal/repository"
)

// TaskStore is the slice of the task repository the handlers need.
type TaskStore interface {
	Create(ctx context.Context, title, description string, topicID uint64) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.LabTask, error)
	Update(ctx context.Context, id uint64, title, description string, topicID uint64) error
	Delete(ctx context.Context, id uint64) error
	Search(ctx context.Context, q string, topicID uint64) ([]model.LabTask, error)
}

// TaskHandler serves the read-side task endpoints, including attachment
// downloads from the disk-backed file store.
type TaskHandler struct {
	Tasks    TaskStore
	FilesDir string
}

func NewTaskHandler(tasks TaskStore, filesDir string) *TaskHandler {
	return &TaskHandler{Tasks: tasks, FilesDir: filesDir}
}

type taskResp struct {
	ID              uint64  `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	TopicID         uint64  `json:"topic_id"`
	FileURL         *string `json:"file_url"`
	SolutionFileURL *string `json:"solution_file_url"`
	CreatedAt       string  `json:"created_at"`
}

// taskToResp maps a persisted task to its wire representation. Download
// URLs are derived, not stored; nil means no file is attached.
func taskToResp(t model.LabTask) taskResp {
	r := taskResp{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		TopicID:     t.TopicID,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
	}
	if t.FilePath != "" {
		u := fmt.Sprintf("/tasks/%d/download", t.ID)
		r.FileURL = &u
	}
	if t.SolutionFilePath != "" {
		u := fmt.Sprintf("/tasks/%d/download-solution", t.ID)
		r.SolutionFileURL = &u
	}
	return r
}

// Search handles GET /search?q=&topic_id= over title/description and topic.
func (h *TaskHandler) Search(c echo.Context) error {
	var topicID uint64
	if raw := c.QueryParam("topic_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid topic_id"})
		}
		topicID = id
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tasks, err := h.Tasks.Search(ctx, c.QueryParam("q"), topicID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	out := make([]taskResp, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResp(t))
	}
	return c.JSON(http.StatusOK, out)
}

// GetTask handles GET /tasks/:id.
func (h *TaskHandler) GetTask(c echo.Context) error {
	t, ok := h.loadTask(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, taskToResp(t))
}

// Download handles GET /tasks/:id/download and streams the attachment.
func (h *TaskHandler) Download(c echo.Context) error {
	t, ok := h.loadTask(c)
	if !ok {
		return nil
	}
	if t.FilePath == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "File not found"})
	}
	return c.Attachment(filepath.Join(h.FilesDir, t.FilePath), filepath.Base(t.FilePath))
}

// DownloadSolution handles GET /tasks/:id/download-solution.
func (h *TaskHandler) DownloadSolution(c echo.Context) error {
	t, ok := h.loadTask(c)
	if !ok {
		return nil
	}
	if t.SolutionFilePath == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Solution file not found"})
	}
	return c.Attachment(filepath.Join(h.FilesDir, t.SolutionFilePath), filepath.Base(t.SolutionFilePath))
}

// loadTask parses :id and fetches the task. On failure it writes the
// error response itself and reports ok=false.
func (h *TaskHandler) loadTask(c echo.Context) (model.LabTask, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		return model.LabTask{}, false
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "Task not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return model.LabTask{}, false
	}
	return t, true
}
