package store

import (
	"math"

	"github.com/Wilfred007/ink-project/internal/model"
)

// TaskStore owns the full task collection and the next-id counter. It
// performs no locking: callers must serialize access (the service layer
// does this with a mutex). None of its operations can fail; a missing
// id is reported through the bool result, not an error.
type TaskStore struct {
	tasks  []model.Task
	nextID uint32
}

// State is the complete persistable state of a TaskStore.
type State struct {
	Tasks  []model.Task `json:"tasks"`
	NextID uint32       `json:"next_id"`
}

func New() *TaskStore {
	return &TaskStore{}
}

// Add appends a new task and returns its id. Ids come from a strictly
// advancing counter and are never reused, even after Remove. The
// counter saturates at math.MaxUint32 instead of wrapping; once
// saturated, further adds reuse the maximum id and uniqueness is gone.
// The id space is assumed large enough that this never happens.
func (s *TaskStore) Add(description string) uint32 {
	id := s.nextID
	s.tasks = append(s.tasks, model.Task{
		ID:          id,
		Description: description,
	})
	if s.nextID < math.MaxUint32 {
		s.nextID++
	}
	return id
}

// Complete marks the task with the given id as completed. Returns false
// if no such task exists. Completing an already-completed task is a
// no-op that still returns true.
func (s *TaskStore) Complete(id uint32) bool {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = true
			return true
		}
	}
	return false
}

// Remove deletes the task with the given id; later tasks shift left,
// keeping insertion order. Returns false if no such task exists. The
// counter is untouched, so the removed id is never issued again.
func (s *TaskStore) Remove(id uint32) bool {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// List returns a copy of all tasks in insertion order.
func (s *TaskStore) List() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns a copy of the task with the given id.
func (s *TaskStore) Get(id uint32) (model.Task, bool) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return s.tasks[i], true
		}
	}
	return model.Task{}, false
}

// State returns a copy of the full store state for persistence.
func (s *TaskStore) State() State {
	tasks := make([]model.Task, len(s.tasks))
	copy(tasks, s.tasks)
	return State{Tasks: tasks, NextID: s.nextID}
}

// Restore replaces the store's contents with a previously captured
// state.
func (s *TaskStore) Restore(st State) {
	s.tasks = make([]model.Task, len(st.Tasks))
	copy(s.tasks, st.Tasks)
	s.nextID = st.NextID
}
