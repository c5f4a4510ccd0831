package repositories

import "errors"

// ErrNotFound is returned when a requested row does not exist. Callers check
// it with errors.Is; implementations wrap it with the entity and id.
var ErrNotFound = errors.New("not found")
