package repository

import "errors"

// Sentinel kinds for projection errors.
var (
	ErrNotFound = errors.New("projection entry not found")
)
