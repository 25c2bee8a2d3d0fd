// Package treefs contains core domain types and interfaces for the in-memory tree store
package treefs

import "context"

// EntryKind tags a tree entry as either a File or a Directory
type EntryKind uint8

const (
	FileKind EntryKind = iota + 1
	DirKind
)

func (k EntryKind) String() string {
	switch k {
	case FileKind:
		return "file"
	case DirKind:
		return "dir"
	default:
		return "unknown"
	}
}

// DirEntry is a single listing result: the child's name and its kind
type DirEntry struct {
	Name string
	Kind EntryKind
}

// IsDir reports whether the entry is a directory
func (e DirEntry) IsDir() bool {
	return e.Kind == DirKind
}

// Store is the operation set of a path-addressed tree of text files.
//
// Paths use "/" as separator. A single leading and trailing "/" are optional.
// The root is addressed by "" or "/" and may only be listed or stat'ed.
type Store interface {
	// CreateFile writes content at path, creating any missing parent directories.
	// An existing File at path is overwritten.
	CreateFile(path, content string) error

	// ReadFile returns the content of the File at path or [ErrNotFound]
	ReadFile(path string) (string, error)

	// List returns the sorted names of the immediate children of the Directory at path
	List(path string) ([]string, error)

	// ListEntries is List with the kind of every child
	ListEntries(path string) ([]DirEntry, error)

	// Delete removes the File or Directory subtree at path. Deleting a
	// missing entry is not an error.
	Delete(path string) error

	// Rename is an alias of Move
	Rename(oldPath, newPath string) error

	// Move relocates the File at oldPath to newPath
	Move(oldPath, newPath string) error

	// Copy duplicates the File at path to newPath
	Copy(path, newPath string) error

	// Search returns the full paths of every File named name
	Search(name string) []string

	MakeDir(path string) error
	Stat(path string) (EntryKind, error)
}

// ContentProvider resolves a file's text content from an external source
// described by a raw JSON source config. Providers are only used while seeding
// a store; the store itself never performs I/O.
type ContentProvider interface {
	Load(ctx context.Context, config []byte) (string, error)
}
