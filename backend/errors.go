package backend

import "errors"

// ErrProbeFailed is returned by Create when no backend satisfying the
// configured fallback policy is available.
var ErrProbeFailed = errors.New("backend: probe failed")
