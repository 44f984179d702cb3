package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"task-calendar/internal/model"
)

const listOrder = "priority ASC, title ASC, id ASC"

// TaskRepository stores tasks in SQLite. Every method is a single statement,
// so SQLite's per-statement atomicity is the only transactional guarantee.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Insert persists task and fills in its ID and CreatedAt.
func (r *TaskRepository) Insert(ctx context.Context, task *model.Task) error {
	row := rowFromTask(*task)
	row.ID = 0
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return &model.StoreError{Op: "create task", Err: err}
	}
	task.ID = row.ID
	task.CreatedAt = row.CreatedAt
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (model.Task, error) {
	var row taskRow
	err := r.db.WithContext(ctx).First(&row, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.Task{}, &model.NotFoundError{ID: id}
	case err != nil:
		return model.Task{}, &model.StoreError{Op: "find task", Err: err}
	}
	task, err := row.toTask()
	if err != nil {
		return model.Task{}, &model.StoreError{Op: "decode task", Err: err}
	}
	return task, nil
}

// Replace overwrites everything except id and created_at.
func (r *TaskRepository) Replace(ctx context.Context, task model.Task) error {
	row := rowFromTask(task)
	res := r.db.WithContext(ctx).Model(&taskRow{}).
		Where("id = ?", task.ID).
		Select(replaceColumns).
		Updates(&row)
	if res.Error != nil {
		return &model.StoreError{Op: "replace task", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &model.NotFoundError{ID: task.ID}
	}
	return nil
}

func (r *TaskRepository) UpdateCompleted(ctx context.Context, id uint, completed bool) error {
	res := r.db.WithContext(ctx).Model(&taskRow{}).
		Where("id = ?", id).
		Update("completed", completed)
	if res.Error != nil {
		return &model.StoreError{Op: "update task", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &model.NotFoundError{ID: id}
	}
	return nil
}

// Delete removes a task permanently, regardless of it being recurring or not.
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&taskRow{})
	if res.Error != nil {
		return &model.StoreError{Op: "delete task", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &model.NotFoundError{ID: id}
	}
	return nil
}

// ListByDate returns single tasks whose due date starts with day.
func (r *TaskRepository) ListByDate(ctx context.Context, day model.Date) ([]model.Task, error) {
	return r.list(ctx, "list tasks by date",
		"is_recurring = ? AND substr(due_at, 1, 10) = ?", false, day.String())
}

// ListByMonth returns single tasks due in month, matched on the YYYY-MM- prefix.
func (r *TaskRepository) ListByMonth(ctx context.Context, month model.Month) ([]model.Task, error) {
	return r.list(ctx, "list tasks by month",
		"is_recurring = ? AND due_at LIKE ?", false, month.String()+"-%")
}

func (r *TaskRepository) ListRecurring(ctx context.Context) ([]model.Task, error) {
	return r.list(ctx, "list recurring tasks", "is_recurring = ?", true)
}

// ListUndated returns single tasks without a deadline.
func (r *TaskRepository) ListUndated(ctx context.Context) ([]model.Task, error) {
	return r.list(ctx, "list undated tasks",
		"is_recurring = ? AND (due_at IS NULL OR due_at = '')", false)
}

func (r *TaskRepository) list(ctx context.Context, op string, query string, args ...interface{}) ([]model.Task, error) {
	var rows []taskRow
	if err := r.db.WithContext(ctx).Where(query, args...).Order(listOrder).Find(&rows).Error; err != nil {
		return nil, &model.StoreError{Op: op, Err: err}
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		task, err := row.toTask()
		if err != nil {
			return nil, &model.StoreError{Op: op, Err: err}
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
