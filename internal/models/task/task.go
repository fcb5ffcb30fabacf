package task

import (
	"strings"
	"time"
)

type Task struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Completed bool      `json:"completed" db:"completed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Patch - частичное обновление: nil означает "поле не передано".
type Patch struct {
	Title     *string
	Completed *bool
}

func NewPatch(options ...PatchOption) Patch {
	var p Patch
	for _, opt := range options {
		if opt != nil {
			opt(&p)
		}
	}
	return p
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}

// Apply применяет переданные поля к задаче.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

func NormalizeTitle(title string) string {
	return strings.TrimSpace(title)
}
