package dto

import (
	"taskboard/internal/models/task"
)

// Поля без типа: дашборд может прислать что угодно, решаем по фактическому типу.
type CreateTaskRequest struct {
	Title     any `json:"title"`
	Completed any `json:"completed"`
}

type UpdateTaskRequest struct {
	Title     any `json:"title"`
	Completed any `json:"completed"`
}

// TitleValue возвращает title, только если это непустая строка.
func (r CreateTaskRequest) TitleValue() (string, bool) {
	title, ok := r.Title.(string)
	if !ok || title == "" {
		return "", false
	}
	return title, true
}

// CompletedValue приводит completed к bool по правилам JS Boolean():
// false, 0, "" и null дают false, всё остальное true.
func (r CreateTaskRequest) CompletedValue() bool {
	switch v := r.Completed.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}

// ToPatch берёт только поля правильного типа, остальные молча отбрасываются.
func (r UpdateTaskRequest) ToPatch() task.Patch {
	var options []task.PatchOption

	if title, ok := r.Title.(string); ok {
		options = append(options, task.WithTitle(title))
	}
	if completed, ok := r.Completed.(bool); ok {
		options = append(options, task.WithCompleted(completed))
	}

	return task.NewPatch(options...)
}

type ErrorResponse struct {
	Error string `json:"error"`
}
