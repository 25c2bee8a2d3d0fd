package treefs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a path, or one of its parents, does not
	// resolve to an entry of the expected kind
	ErrNotFound = errors.New("not found")

	// ErrInvalidPath is returned for empty, malformed or root paths where a
	// named entry is required
	ErrInvalidPath = errors.New("invalid path")

	// ErrConflict matches any [ConflictError]
	ErrConflict = errors.New("file/directory conflict")

	// ErrExists is returned when a tree operation would replace an existing entry
	ErrExists = errors.New("already exists")

	// ErrUnsupported is returned for operations the store does not implement
	// for the given entry kind, i.e. Move on a Directory
	ErrUnsupported = errors.New("unsupported operation")
)

// ConflictError reports a path segment that names an entry of the wrong kind,
// such as a File where a Directory is required
type ConflictError struct {
	Path string    // path up to and including the conflicting segment
	Want EntryKind // kind the operation needed
	Got  EntryKind // kind found in the tree
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict at %q: want %s, found %s", e.Path, e.Want, e.Got)
}

// Is makes errors.Is(err, ErrConflict) true for every ConflictError
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
