package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"labtasks-backend/internal/model"
)

type TaskRepo struct{ DB *sql.DB }

func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{DB: db} }

const taskColumns = "id,title,description,topic_id,file_path,solution_file_path,created_at"

func scanTask(row interface{ Scan(...any) error }) (model.LabTask, error) {
	var (
		t        model.LabTask
		file     sql.NullString
		solution sql.NullString
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.TopicID, &file, &solution, &t.CreatedAt)
	if err != nil {
		return model.LabTask{}, err
	}
	t.FilePath = file.String
	t.SolutionFilePath = solution.String
	return t, nil
}

// Create inserts a task under an existing topic and returns its ID. The
// foreign key rejects unknown topics; that driver error (1452) is mapped
// to ErrNotFound so handlers can answer 404.
func (r *TaskRepo) Create(ctx context.Context, title, description string, topicID uint64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO lab_tasks (title, description, topic_id) VALUES (?,?,?)",
		title, description, topicID)
	if err != nil {
		if strings.Contains(err.Error(), "1452") {
			return 0, ErrNotFound
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a task by id.
func (r *TaskRepo) GetByID(ctx context.Context, id uint64) (model.LabTask, error) {
	t, err := scanTask(r.DB.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM lab_tasks WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.LabTask{}, ErrNotFound
	}
	return t, err
}

// Update rewrites title, description and topic of an existing task.
func (r *TaskRepo) Update(ctx context.Context, id uint64, title, description string, topicID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE lab_tasks SET title=?, description=?, topic_id=? WHERE id=?",
		title, description, topicID, id)
	if err != nil {
		if strings.Contains(err.Error(), "1452") {
			return ErrNotFound
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "no such task" from "nothing changed".
		var exists bool
		if err := r.DB.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM lab_tasks WHERE id=?)", id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
	}
	return nil
}

// Delete removes a task. Deleting an absent task is not an error; the
// endpoint reports success either way, matching idempotent delete
// semantics.
func (r *TaskRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM lab_tasks WHERE id=?", id)
	return err
}

// Search returns tasks filtered by an optional case-insensitive substring
// over title/description and an optional topic. Zero topicID means all
// topics; empty q means no text filter.
func (r *TaskRepo) Search(ctx context.Context, q string, topicID uint64) ([]model.LabTask, error) {
	query := "SELECT " + taskColumns + " FROM lab_tasks WHERE 1=1"
	args := []any{}
	if strings.TrimSpace(q) != "" {
		query += " AND (title LIKE ? OR description LIKE ?)"
		pattern := "%" + strings.TrimSpace(q) + "%"
		args = append(args, pattern, pattern)
	}
	if topicID != 0 {
		query += " AND topic_id=?"
		args = append(args, topicID)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.LabTask, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
