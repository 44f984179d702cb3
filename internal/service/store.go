package service

import (
	"context"

	"task-calendar/internal/model"
)

// TaskStore is the persistence contract the services are written against.
// repository.TaskRepository implements it on SQLite.
type TaskStore interface {
	Insert(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id uint) (model.Task, error)
	Replace(ctx context.Context, task model.Task) error
	UpdateCompleted(ctx context.Context, id uint, completed bool) error
	Delete(ctx context.Context, id uint) error
	ListByDate(ctx context.Context, day model.Date) ([]model.Task, error)
	ListByMonth(ctx context.Context, month model.Month) ([]model.Task, error)
	ListRecurring(ctx context.Context) ([]model.Task, error)
	ListUndated(ctx context.Context) ([]model.Task, error)
}
