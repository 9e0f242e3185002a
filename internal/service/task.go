package service

import (
	"sync"

	"github.com/Wilfred007/ink-project/internal/model"
	"github.com/Wilfred007/ink-project/internal/store"
)

// TaskService owns the single TaskStore instance for the life of the
// process and serializes every call into it. The store itself is
// lock-free and expects exactly this kind of host in front of it.
//
// Store outcomes pass through unchanged: ids, bools and ok-flags, never
// errors. A mutation marks the state dirty so the snapshot writer knows
// there is something to flush.
type TaskService struct {
	mu    sync.Mutex
	store *store.TaskStore
	dirty bool
}

func NewTaskService(st *store.TaskStore) *TaskService {
	return &TaskService{store: st}
}

func (s *TaskService) Add(description string) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.store.Add(description)
	s.dirty = true
	return id
}

func (s *TaskService) Complete(id uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.store.Complete(id)
	if ok {
		s.dirty = true
	}
	return ok
}

func (s *TaskService) Remove(id uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.store.Remove(id)
	if ok {
		s.dirty = true
	}
	return ok
}

func (s *TaskService) List() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.List()
}

func (s *TaskService) Get(id uint32) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Get(id)
}

// Snapshot returns a copy of the current state and whether it changed
// since the last call. The dirty flag is cleared, so the caller is now
// responsible for persisting the returned state.
func (s *TaskService) Snapshot() (store.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dirty := s.dirty
	s.dirty = false
	return s.store.State(), dirty
}

// Restore reinstalls a previously persisted state, e.g. at startup.
func (s *TaskService) Restore(st store.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Restore(st)
	s.dirty = false
}
