package todo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repository defines the interface for todo persistence operations.
type Repository interface {
	List(ctx context.Context) ([]Todo, error)
	Create(ctx context.Context, in Input) (*Todo, error)
	Get(ctx context.Context, id int64) (*Todo, error)
	Update(ctx context.Context, id int64, in Input) (*Todo, error)
	Delete(ctx context.Context, id int64) (*Todo, error)
	Count(ctx context.Context) (int, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed todo repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `SELECT id, title, description, completed FROM todos`

// List returns all todos, most recently created first.
// An empty table yields an empty, non-nil slice.
func (r *SQLiteRepository) List(ctx context.Context) ([]Todo, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}
	defer rows.Close()

	todos := []Todo{}
	for rows.Next() {
		var t Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed); err != nil {
			return nil, fmt.Errorf("scanning todo row: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating todo rows: %w", err)
	}
	return todos, nil
}

// Create inserts a new todo and returns it with the assigned ID.
func (r *SQLiteRepository) Create(ctx context.Context, in Input) (*Todo, error) {
	const query = `INSERT INTO todos (title, description, completed) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, in.Title, in.Description, in.Completed)
	if err != nil {
		return nil, fmt.Errorf("inserting todo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading inserted todo id: %w", err)
	}
	return &Todo{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
	}, nil
}

// Get returns a single todo by ID.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*Todo, error) {
	return scanTodo(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
}

// Update overwrites every mutable field of an existing todo.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, in Input) (*Todo, error) {
	const query = `UPDATE todos SET title = ?, description = ?, completed = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, in.Title, in.Description, in.Completed, id)
	if err != nil {
		return nil, fmt.Errorf("updating todo %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return &Todo{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
	}, nil
}

// Delete removes a todo and returns the values it had before removal.
// The read and the delete share one transaction.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) (*Todo, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	t, err := scanTodo(tx.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("deleting todo %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing delete: %w", err)
	}
	return t, nil
}

// Count returns the number of stored todos.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting todos: %w", err)
	}
	return n, nil
}

// scanTodo scans a single row into a Todo (for QueryRow).
func scanTodo(row *sql.Row) (*Todo, error) {
	var t Todo
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning todo: %w", err)
	}
	return &t, nil
}
