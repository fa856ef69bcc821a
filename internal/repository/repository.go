package repository

import "errors"

// ErrNotFound is returned by Update/Delete when the target record is gone.
// Lookup methods return (nil, nil) for missing records instead.
var ErrNotFound = errors.New("record not found")
