package engine

import "time"

// TaskStore is the registry of live tasks and their categorized views.
//
// It does no locking of its own: the Service's single-writer lock guards it.
type TaskStore struct {
	loc   *time.Location
	order []string
	byID  map[string]*Task
	views map[string]View
}

func NewTaskStore(loc *time.Location) *TaskStore {
	if loc == nil {
		loc = time.Local
	}
	return &TaskStore{
		loc:   loc,
		byID:  map[string]*Task{},
		views: map[string]View{},
	}
}

// Add inserts the task and files it under at most one view.
func (s *TaskStore) Add(t *Task, now time.Time) {
	if _, ok := s.byID[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	s.byID[t.ID] = t
	s.categorize(t, now)
}

// Remove drops the task from the collection and every view. Unknown ids are ignored.
func (s *TaskStore) Remove(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	delete(s.views, id)
	for i, cur := range s.order {
		if cur == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Update re-files a task after a mutation, inserting it when absent.
// Stale view membership is dropped before categorizing again.
func (s *TaskStore) Update(t *Task, now time.Time) {
	s.Add(t, now)
}

func (s *TaskStore) categorize(t *Task, now time.Time) {
	delete(s.views, t.ID)
	if t.Status.IsTerminal() {
		return
	}
	switch t.Type {
	case TaskTypeTodo, TaskTypeDailyActivity:
		// Only quests created today show up in the today view; older ones stay
		// in the collection without a view.
		if SameDay(t.CreatedAt, now, s.loc) {
			s.views[t.ID] = ViewToday
		}
	case TaskTypeHabit:
		s.views[t.ID] = ViewHabit
	case TaskTypePlanning:
		s.views[t.ID] = ViewPlanning
	}
}

func (s *TaskStore) Get(id string) (*Task, bool) {
	t, ok := s.byID[id]
	return t, ok
}

func (s *TaskStore) Len() int {
	return len(s.order)
}

// All returns every live task in insertion order.
func (s *TaskStore) All() []*Task {
	out := make([]*Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// View returns the tasks filed under v in insertion order.
func (s *TaskStore) View(v View) []*Task {
	var out []*Task
	for _, id := range s.order {
		if s.views[id] == v {
			out = append(out, s.byID[id])
		}
	}
	return out
}

// ViewOf reports which view the task is filed under.
func (s *TaskStore) ViewOf(id string) (View, bool) {
	v, ok := s.views[id]
	return v, ok
}

// Pending returns the PENDING tasks in insertion order.
func (s *TaskStore) Pending() []*Task {
	var out []*Task
	for _, id := range s.order {
		if t := s.byID[id]; t.Status == TaskStatusPending {
			out = append(out, t)
		}
	}
	return out
}
