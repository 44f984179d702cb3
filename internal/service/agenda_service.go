package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"task-calendar/internal/model"
)

// AgendaService lists the tasks that apply to one day.
type AgendaService struct {
	store TaskStore
	log   *zap.Logger
}

func NewAgendaService(store TaskStore, log *zap.Logger) *AgendaService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AgendaService{store: store, log: log.Named("agenda")}
}

// ForDate returns the single tasks due on day, completed or not, together
// with the recurring tasks that fire on it, ordered by priority then title.
func (s *AgendaService) ForDate(ctx context.Context, day model.Date) ([]model.Task, error) {
	singles, err := s.store.ListByDate(ctx, day)
	if err != nil {
		return nil, err
	}
	recurring, err := s.store.ListRecurring(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(singles))
	tasks := make([]model.Task, 0, len(singles))
	add := func(task model.Task) {
		if _, dup := seen[task.ID]; dup {
			return
		}
		seen[task.ID] = struct{}{}
		tasks = append(tasks, task)
	}

	for _, task := range singles {
		if due, ok := task.DueDate(); ok && due == day {
			add(task)
		}
	}
	for _, task := range recurring {
		if rule, ok := task.Recurring(); ok && rule.FiresOn(day) {
			add(task)
		}
	}

	sortTasks(tasks)
	s.log.Debug("day listed", zap.Stringer("day", day), zap.Int("tasks", len(tasks)))
	return tasks, nil
}

// PendingForDate is ForDate without completed single tasks.
func (s *AgendaService) PendingForDate(ctx context.Context, day model.Date) ([]model.Task, error) {
	tasks, err := s.ForDate(ctx, day)
	if err != nil {
		return nil, err
	}
	pending := tasks[:0]
	for _, task := range tasks {
		if task.Kind() == model.KindSingle && task.Completed {
			continue
		}
		pending = append(pending, task)
	}
	return pending, nil
}

func sortTasks(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})
}
