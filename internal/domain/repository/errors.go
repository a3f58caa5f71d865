package repository

import "errors"

// ErrNotFound is returned by lookups when no row matches. Implementations
// map their driver-specific no-rows condition to this sentinel so services
// can tell absence apart from infrastructure failures.
var ErrNotFound = errors.New("not found")
