package errors

import "errors"

// ErrOptimisticLock the record was modified by another request since it was read
var ErrOptimisticLock = errors.New("record was modified by another request, reload and retry")
