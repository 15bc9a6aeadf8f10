package store

import (
	"context"
	"fmt"
	"time"

	"donorconnect/internal/utils"
	"donorconnect/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

var taskColumns = utils.StructTagValues(types.Task{})

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Task(ctx context.Context, taskID string) (*types.Task, error) {
	query, args, err := psql().
		Select(taskColumns...).
		From(taskTableName).
		Where(sq.Eq{"id": taskID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task query: %w", err)
	}

	var task types.Task
	err = pgxscan.Get(ctx, r.pool, &task, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}

	return &task, nil
}

// Tasks are ordered by due date, soonest first.
func (r *TaskRepository) Tasks(ctx context.Context) ([]*types.Task, error) {
	query, args, err := psql().
		Select(taskColumns...).
		From(taskTableName).
		OrderBy("due_date ASC", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks query: %w", err)
	}

	tasks := make([]*types.Task, 0)
	err = pgxscan.Select(ctx, r.pool, &tasks, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepository) CreateTask(ctx context.Context, task *types.Task) error {
	now := time.Now()
	task.ID = utils.NanoID()
	task.CreatedAt = now
	task.UpdatedAt = now

	query, args, err := psql().
		Insert(taskTableName).
		SetMap(utils.StructToMap(task)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert task query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create task")
}

func (r *TaskRepository) UpdateTask(ctx context.Context, task *types.Task) error {
	task.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(taskTableName).
		SetMap(utils.StructToMap(task, "id", "created_at")).
		Where(sq.Eq{"id": task.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update task query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepository) DeleteTask(ctx context.Context, taskID string) error {
	query, args, err := psql().Delete(taskTableName).Where(sq.Eq{"id": taskID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete task query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrTaskNotFound
	}

	return nil
}
