package service

import "errors"

// ErrValidation marks malformed or incomplete requests. Callers map it to
// a 400-class response.
var ErrValidation = errors.New("validation failed")
