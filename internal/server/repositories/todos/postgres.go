package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/demeter/internal/common"
	"github.com/dmitrijs2005/demeter/internal/dbx"
	"github.com/dmitrijs2005/demeter/internal/server/models"
)

const todoColumns = "id, user_id, title, description, emoji, completed, created_at, updated_at"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanTodo(row *sql.Row) (*models.Todo, error) {
	todo := &models.Todo{}
	err := row.Scan(&todo.ID, &todo.UserID, &todo.Title, &todo.Description,
		&todo.Emoji, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return todo, nil
}

func scanTodoRows(rows *sql.Rows) ([]*models.Todo, error) {
	defer rows.Close()

	var result []*models.Todo
	for rows.Next() {
		todo := &models.Todo{}
		if err := rows.Scan(&todo.ID, &todo.UserID, &todo.Title, &todo.Description,
			&todo.Emoji, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Todo, error) {
	query :=
		`SELECT ` + todoColumns + ` FROM todos
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanTodoRows(rows)
}

func (r *PostgresRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {

	query :=
		`INSERT INTO todos (user_id, title, description, emoji, completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		todo.UserID, todo.Title, todo.Description, todo.Emoji,
		todo.Completed, todo.CreatedAt, todo.UpdatedAt).Scan(&todo.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return todo, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Todo, error) {
	query :=
		`SELECT ` + todoColumns + ` FROM todos
		 WHERE id = $1
		 `

	return scanTodo(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Update(ctx context.Context, todo *models.Todo) error {
	query :=
		`UPDATE todos SET title = $1, description = $2, emoji = $3, completed = $4, updated_at = $5
		 WHERE id = $6
		 `

	res, err := r.db.ExecContext(ctx, query,
		todo.Title, todo.Description, todo.Emoji, todo.Completed, todo.UpdatedAt, todo.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// Delete removes a todo filtered by id AND owner, so a cross-user id guess
// fails as "not found" without revealing whether the row exists.
func (r *PostgresRepository) Delete(ctx context.Context, id int64, ownerID int64) error {
	query :=
		`DELETE FROM todos
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// HistoryDays aggregates the owner's todos created since the given lower
// bound into calendar-day buckets (server-local date truncation), ordered by
// date ascending.
func (r *PostgresRepository) HistoryDays(ctx context.Context, ownerID int64, since time.Time) ([]DayStat, error) {
	query :=
		`SELECT created_at::date AS day,
		        COUNT(*) AS count,
		        COUNT(*) FILTER (WHERE completed) AS completed_count
		 FROM todos
		 WHERE user_id = $1 AND created_at >= $2
		 GROUP BY day
		 ORDER BY day
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID, since)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []DayStat
	for rows.Next() {
		var s DayStat
		if err := rows.Scan(&s.Date, &s.Count, &s.CompletedCount); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ListByOwnerOnDay(ctx context.Context, ownerID int64, day time.Time) ([]*models.Todo, error) {
	query :=
		`SELECT ` + todoColumns + ` FROM todos
		 WHERE user_id = $1 AND created_at::date = $2::date
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID, day)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanTodoRows(rows)
}
