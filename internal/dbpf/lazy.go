package dbpf

import (
	"fmt"
	"io"
)

// Lazy defers parsing a region of a seekable stream until first use. The
// region is parsed at most once; resolving never moves the caller's cursor.
// Offsets are absolute, callers with format-relative pointers fold their
// base in at construction.
type Lazy[T any] struct {
	offset int64
	parse  func(r io.ReadSeeker) (T, error)
	value  T
	done   bool
}

// NewLazy records a pointer to stream data at offset, to be parsed on first
// Resolve. The parse function is called with the cursor at offset.
func NewLazy[T any](offset int64, parse func(r io.ReadSeeker) (T, error)) *Lazy[T] {
	return &Lazy[T]{offset: offset, parse: parse}
}

// Resolved wraps an already-materialized value so that Resolve never touches
// the stream.
func Resolved[T any](value T) *Lazy[T] {
	return &Lazy[T]{value: value, done: true}
}

// Resolve returns the cached value, or seeks to the target, parses it and
// restores the stream position. Parse failures are not cached and a later
// Resolve will retry.
func (l *Lazy[T]) Resolve(r io.ReadSeeker) (T, error) {
	var zero T
	if l.done {
		return l.value, nil
	}

	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return zero, fmt.Errorf("saving stream position: %w", err)
	}
	if _, err := r.Seek(l.offset, io.SeekStart); err != nil {
		return zero, fmt.Errorf("seeking to deferred data at 0x%X: %w", l.offset, err)
	}

	value, perr := l.parse(r)

	if _, err := r.Seek(pos, io.SeekStart); err != nil {
		return zero, fmt.Errorf("restoring stream position: %w", err)
	}
	if perr != nil {
		return zero, perr
	}

	l.value = value
	l.done = true
	return value, nil
}

// IsResolved reports whether the value has been materialized.
func (l *Lazy[T]) IsResolved() bool { return l.done }

// Set replaces the value, dropping any pending stream reference.
func (l *Lazy[T]) Set(value T) {
	l.value = value
	l.done = true
}

// Offset returns the stream position the pointer targets.
func (l *Lazy[T]) Offset() int64 { return l.offset }
