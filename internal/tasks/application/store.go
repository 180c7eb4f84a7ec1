package application

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/felixgeelhaar/todo/internal/tasks/domain/task"
	"github.com/felixgeelhaar/todo/internal/tasks/domain/value_objects"
)

// Store owns the task list and persists a full snapshot after every mutation.
//
// Store is not safe for concurrent use.
type Store struct {
	repo    task.Repository
	logger  *slog.Logger
	tasks   []task.Task
	nextID  int
	saveErr error
}

// NewStore creates a store and loads the persisted snapshot from repo.
// Load failures never fail construction; the store starts empty instead.
func NewStore(ctx context.Context, repo task.Repository, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		repo:   repo,
		logger: logger,
		nextID: 1,
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	snap, err := s.repo.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, task.ErrSnapshotNotFound):
		s.logger.DebugContext(ctx, "no saved tasks, starting empty")
		return
	case errors.Is(err, task.ErrSnapshotCorrupt):
		s.logger.WarnContext(ctx, "saved tasks are unreadable, starting empty", "error", err)
		if q, ok := s.repo.(task.Quarantiner); ok {
			location, qerr := q.Quarantine(ctx)
			switch {
			case errors.Is(qerr, task.ErrQuarantineUnsupported):
				s.logger.DebugContext(ctx, "storage cannot preserve unreadable snapshot")
			case qerr != nil:
				s.logger.ErrorContext(ctx, "failed to preserve unreadable snapshot", "error", qerr)
			default:
				s.logger.WarnContext(ctx, "unreadable snapshot preserved", "location", location)
			}
		}
		return
	default:
		s.logger.ErrorContext(ctx, "failed to load tasks, starting empty", "error", err)
		return
	}

	s.tasks = make([]task.Task, len(snap.Tasks))
	copy(s.tasks, snap.Tasks)
	s.nextID = snap.NextID
	if maxID := snap.MaxID(); s.nextID <= maxID {
		s.logger.WarnContext(ctx, "id counter behind stored tasks, repairing",
			"next_id", s.nextID,
			"max_id", maxID,
		)
		s.nextID = maxID + 1
	}
	if s.nextID < 1 {
		s.nextID = 1
	}
	s.logger.DebugContext(ctx, "tasks loaded", "count", len(s.tasks), "next_id", s.nextID)
}

func (s *Store) save(ctx context.Context, operation string) {
	err := s.repo.Save(ctx, task.NewSnapshot(s.nextID, s.tasks))
	s.saveErr = err
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to save tasks",
			"operation", operation,
			"error", err,
		)
	}
}

// LastSaveError returns the error of the most recent save, or nil.
func (s *Store) LastSaveError() error {
	return s.saveErr
}

// NextID returns the id the next added task will receive.
func (s *Store) NextID() int {
	return s.nextID
}

// Add appends a new task and returns a copy of it. Inputs are stored as given.
func (s *Store) Add(ctx context.Context, title, description string, priority value_objects.Priority, dueDate, category string) task.Task {
	t := task.New(s.nextID, title, description, priority, dueDate, category)
	s.nextID++
	s.tasks = append(s.tasks, t)
	s.save(ctx, "add")
	return t
}

// Remove deletes the task with the given id.
func (s *Store) Remove(ctx context.Context, id int) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.save(ctx, "remove")
	return true
}

// ToggleCompletion flips the completion flag of the task with the given id.
func (s *Store) ToggleCompletion(ctx context.Context, id int) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks[i].ToggleCompleted()
	s.save(ctx, "toggle")
	return true
}

// Update overwrites every mutable field of the task with the given id.
func (s *Store) Update(ctx context.Context, id int, title, description string, priority value_objects.Priority, dueDate, category string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks[i].Update(title, description, priority, dueDate, category)
	s.save(ctx, "update")
	return true
}

// Clear removes every task. The id counter keeps counting.
func (s *Store) Clear(ctx context.Context) {
	s.tasks = nil
	s.save(ctx, "clear")
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id int) (task.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, false
	}
	return s.tasks[i], true
}

// All returns copies of every task in insertion order.
func (s *Store) All() []task.Task {
	return s.filter(func(task.Task) bool { return true })
}

// ByStatus returns tasks whose completion flag equals completed.
func (s *Store) ByStatus(completed bool) []task.Task {
	return s.filter(func(t task.Task) bool { return t.IsCompleted() == completed })
}

// ByCategory returns tasks in category, ignoring case.
func (s *Store) ByCategory(category string) []task.Task {
	return s.filter(func(t task.Task) bool { return strings.EqualFold(t.Category(), category) })
}

// ByPriority returns tasks with the given priority.
func (s *Store) ByPriority(priority value_objects.Priority) []task.Task {
	return s.filter(func(t task.Task) bool { return t.Priority() == priority })
}

// Search returns tasks whose title or description contains term, ignoring case.
func (s *Store) Search(term string) []task.Task {
	needle := strings.ToLower(term)
	return s.filter(func(t task.Task) bool {
		return strings.Contains(strings.ToLower(t.Title()), needle) ||
			strings.Contains(strings.ToLower(t.Description()), needle)
	})
}

// Categories returns the distinct categories in use, sorted.
func (s *Store) Categories() []string {
	seen := make(map[string]struct{}, len(s.tasks))
	categories := make([]string, 0, len(s.tasks))
	for _, t := range s.tasks {
		if _, ok := seen[t.Category()]; ok {
			continue
		}
		seen[t.Category()] = struct{}{}
		categories = append(categories, t.Category())
	}
	sort.Strings(categories)
	return categories
}

// Statistics counts tasks by status and priority.
func (s *Store) Statistics() Statistics {
	var stats Statistics
	for _, t := range s.tasks {
		stats.Total++
		if t.IsCompleted() {
			stats.Completed++
		} else {
			stats.Pending++
		}
		switch t.Priority() {
		case value_objects.PriorityHigh:
			stats.High++
		case value_objects.PriorityMedium:
			stats.Medium++
		case value_objects.PriorityLow:
			stats.Low++
		}
	}
	return stats
}

func (s *Store) indexOf(id int) int {
	for i, t := range s.tasks {
		if t.ID() == id {
			return i
		}
	}
	return -1
}

func (s *Store) filter(keep func(task.Task) bool) []task.Task {
	result := make([]task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if keep(t) {
			result = append(result, t)
		}
	}
	return result
}

// Statistics summarizes the task list.
type Statistics struct {
	Total     int
	Completed int
	Pending   int
	High      int
	Medium    int
	Low       int
}

// Map returns the statistics keyed by name.
func (s Statistics) Map() map[string]int {
	return map[string]int{
		"total":     s.Total,
		"completed": s.Completed,
		"pending":   s.Pending,
		"high":      s.High,
		"medium":    s.Medium,
		"low":       s.Low,
	}
}
