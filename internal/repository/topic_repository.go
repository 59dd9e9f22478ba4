package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"labtasks-backend/internal/model"
)

type TopicRepo struct{ DB *sql.DB }

func NewTopicRepo(db *sql.DB) *TopicRepo { return &TopicRepo{DB: db} }

// Create inserts a topic and returns its ID.
func (r *TopicRepo) Create(ctx context.Context, name, description string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO topics (name, description) VALUES (?,?)",
		strings.TrimSpace(name), description)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return 0, ErrTopicExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a topic by id.
func (r *TopicRepo) GetByID(ctx context.Context, id uint64) (model.Topic, error) {
	var t model.Topic
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,description FROM topics WHERE id=? LIMIT 1",
		id).Scan(&t.ID, &t.Name, &t.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Topic{}, ErrNotFound
	}
	return t, err
}

// ListAll returns every topic ordered by name.
func (r *TopicRepo) ListAll(ctx context.Context) ([]model.Topic, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,description FROM topics ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := make([]model.Topic, 0)
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.Description); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}
