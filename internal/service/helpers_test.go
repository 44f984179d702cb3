package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"task-calendar/internal/model"
	"task-calendar/internal/repository"
	"task-calendar/internal/service"
)

type testEnv struct {
	store    *repository.TaskRepository
	tasks    *service.TaskService
	calendar *service.CalendarService
	agenda   *service.AgendaService
}

// newTestEnv wires the services to a fresh SQLite file.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "tasks.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store := repository.NewTaskRepository(db)
	return &testEnv{
		store:    store,
		tasks:    service.NewTaskService(store, zap.NewNop()),
		calendar: service.NewCalendarService(store, zap.NewNop()),
		agenda:   service.NewAgendaService(store, zap.NewNop()),
	}
}

func day(y int, m time.Month, d int) model.Date {
	return model.NewDate(y, m, d)
}

func dueAt(t *testing.T, s string) *model.DueAt {
	t.Helper()
	due, err := model.ParseDueAt(s)
	require.NoError(t, err)
	return &due
}

func ids(tasks []model.Task) []uint {
	out := make([]uint, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.ID)
	}
	return out
}

var september2025 = model.Month{Year: 2025, Month: time.September}

// fakeStore is an in-memory TaskStore with injectable failures.
type fakeStore struct {
	singles   []model.Task
	recurring []model.Task
	inserts   int
	err       error
}

func (f *fakeStore) Insert(_ context.Context, task *model.Task) error {
	f.inserts++
	if f.err != nil {
		return f.err
	}
	task.ID = uint(f.inserts)
	return nil
}

func (f *fakeStore) FindByID(_ context.Context, id uint) (model.Task, error) {
	if f.err != nil {
		return model.Task{}, f.err
	}
	return model.Task{}, &model.NotFoundError{ID: id}
}

func (f *fakeStore) Replace(context.Context, model.Task) error { return f.err }

func (f *fakeStore) UpdateCompleted(context.Context, uint, bool) error { return f.err }

func (f *fakeStore) Delete(context.Context, uint) error { return f.err }

func (f *fakeStore) ListByDate(context.Context, model.Date) ([]model.Task, error) {
	return f.singles, f.err
}

func (f *fakeStore) ListByMonth(context.Context, model.Month) ([]model.Task, error) {
	return f.singles, f.err
}

func (f *fakeStore) ListRecurring(context.Context) ([]model.Task, error) {
	return f.recurring, f.err
}

func (f *fakeStore) ListUndated(context.Context) ([]model.Task, error) {
	return nil, f.err
}
