package arena

import "errors"

// ErrInvalidState marks malformed input: a missing orientation, an unknown
// content type, a wrongly shaped arena or raw coordinates out of range.
// Callers test for it with errors.Is.
var ErrInvalidState = errors.New("invalid state")
