package repository

import "errors"

// ErrNotFound возвращается, когда запрос не затронул ни одной строки.
var ErrNotFound = errors.New("task not found")

// ErrNothingToUpdate - в частичном обновлении нет ни одного поля.
var ErrNothingToUpdate = errors.New("nothing to update")
