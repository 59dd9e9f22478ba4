package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"labtasks-backend/internal/model"
)

// TopicStore is the slice of the topic repository the handlers need.
type TopicStore interface {
	Create(ctx context.Context, name, description string) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.Topic, error)
	ListAll(ctx context.Context) ([]model.Topic, error)
}

type TopicHandler struct {
	Topics TopicStore
}

func NewTopicHandler(topics TopicStore) *TopicHandler { return &TopicHandler{Topics: topics} }

type topicResp struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func topicToResp(t model.Topic) topicResp {
	return topicResp{ID: t.ID, Name: t.Name, Description: t.Description}
}

// GetTopics handles GET /topics and returns every topic.
func (h *TopicHandler) GetTopics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	topics, err := h.Topics.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]topicResp, 0, len(topics))
	for _, t := range topics {
		out = append(out, topicToResp(t))
	}
	return c.JSON(http.StatusOK, out)
}
