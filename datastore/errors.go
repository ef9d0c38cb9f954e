package datastore

import "errors"

// ErrVersionConflict is returned when a guarded update finds that the row's
// version no longer matches the caller's token, i.e. another writer got
// there first.
var ErrVersionConflict = errors.New("version conflict: record was modified concurrently")
