package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/todo-app/internal/database"
	"github.com/iliyamo/todo-app/internal/model"
)

const todoColumns = "id, title, description, priority, completed, owner_id"

// TodoRepo encapsulates all queries on the todos table. Methods suffixed
// with Owner always filter by owner_id; the unscoped ListAll and DeleteByID
// are reserved for administrative handlers.
type TodoRepo struct{ db database.DBTX }

func NewTodoRepo(db database.DBTX) *TodoRepo { return &TodoRepo{db: db} }

// ListByOwner returns all todos for a specific owner ordered by id.
func (r *TodoRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Todo, error) {
	return r.list(ctx, "SELECT "+todoColumns+" FROM todos WHERE owner_id = ? ORDER BY id", ownerID)
}

// ListAll returns every todo regardless of owner.
func (r *TodoRepo) ListAll(ctx context.Context) ([]model.Todo, error) {
	return r.list(ctx, "SELECT "+todoColumns+" FROM todos ORDER BY id")
}

// GetByIDAndOwner fetches a todo only if it belongs to ownerID. A todo
// owned by someone else yields ErrNotFound.
func (r *TodoRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (model.Todo, error) {
	var t model.Todo
	err := r.db.QueryRowContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE id = ? AND owner_id = ? LIMIT 1", id, ownerID).
		Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Completed, &t.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, ErrNotFound
	}
	return t, err
}

// Create inserts t and populates its ID.
func (r *TodoRepo) Create(ctx context.Context, t *model.Todo) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO todos (title, description, priority, completed, owner_id) VALUES (?, ?, ?, ?, ?)",
		t.Title, t.Description, t.Priority, t.Completed, t.OwnerID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// UpdateByIDAndOwner overwrites the mutable fields of t.ID when owned by
// t.OwnerID.
func (r *TodoRepo) UpdateByIDAndOwner(ctx context.Context, t model.Todo) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE todos SET title = ?, description = ?, priority = ?, completed = ? WHERE id = ? AND owner_id = ?",
		t.Title, t.Description, t.Priority, t.Completed, t.ID, t.OwnerID)
	return affectedOne(res, err)
}

// DeleteByIDAndOwner removes a todo when owned by ownerID.
func (r *TodoRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ? AND owner_id = ?", id, ownerID)
	return affectedOne(res, err)
}

// DeleteByID removes a todo regardless of owner.
func (r *TodoRepo) DeleteByID(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	return affectedOne(res, err)
}

func (r *TodoRepo) list(ctx context.Context, q string, args ...any) ([]model.Todo, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Todo{}
	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Completed, &t.OwnerID); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
