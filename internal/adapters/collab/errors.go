package collab

import "errors"

// Sentinel kinds for collaborator errors.
var (
	ErrNotFound = errors.New("not found")
)
