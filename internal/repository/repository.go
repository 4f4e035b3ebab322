// Package repository holds the in-memory entity store. Each repository
// owns its collection outright: every read hands back a defensive copy,
// so callers can never mutate store state except through the write
// operations. Create prepends, matching the surface's newest-first
// listing convention; "store order" everywhere else in the module means
// the order List returns.
package repository

import "errors"

// ErrNotFound is returned when an identifier does not match any stored
// record. Callers treat it as recoverable, never fatal.
var ErrNotFound = errors.New("record not found")
