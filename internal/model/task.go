package model

// Task is a single record in the store. The id is assigned once at
// creation and never changes; the description is opaque text, stored
// exactly as given.
type Task struct {
	ID          uint32 `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}
