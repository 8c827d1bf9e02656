package configurator

// Task is a timed unit of animation. Tick advances it by dt seconds and
// reports whether it has finished.
type Task interface {
	Tick(dt float64) bool
}

// Scheduler runs tasks from the frame loop. Each task occupies a named
// slot; starting a task in an occupied slot drops the previous one, which
// is how animations are redirected rather than queued.
type Scheduler struct {
	order []string
	tasks map[string]Task
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{tasks: make(map[string]Task)}
}

// Start places t in slot key, replacing whatever ran there.
func (s *Scheduler) Start(key string, t Task) {
	if _, ok := s.tasks[key]; !ok {
		s.order = append(s.order, key)
	}
	s.tasks[key] = t
}

// Cancel drops the task in slot key without finishing it.
func (s *Scheduler) Cancel(key string) {
	if _, ok := s.tasks[key]; !ok {
		return
	}
	delete(s.tasks, key)
	s.compact()
}

// Active reports whether slot key holds a running task.
func (s *Scheduler) Active(key string) bool {
	_, ok := s.tasks[key]
	return ok
}

// Len returns the number of running tasks.
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// Tick advances every task in start order and removes the finished ones.
// A task started from inside another task's completion runs from the next
// Tick.
func (s *Scheduler) Tick(dt float64) {
	keys := append([]string(nil), s.order...)
	for _, k := range keys {
		t, ok := s.tasks[k]
		if !ok {
			continue
		}
		if t.Tick(dt) && s.tasks[k] == t {
			delete(s.tasks, k)
		}
	}
	s.compact()
}

func (s *Scheduler) compact() {
	kept := s.order[:0]
	for _, k := range s.order {
		if _, ok := s.tasks[k]; ok {
			kept = append(kept, k)
		}
	}
	s.order = kept
}
