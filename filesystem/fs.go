package filesystem

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/brettbedarf/treefs"
	"github.com/brettbedarf/treefs/config"
	"github.com/brettbedarf/treefs/internal/util"
	"github.com/google/uuid"
)

var _ treefs.Store = (*FileSystem)(nil)

// FileSystem is an in-memory tree of text files and directories.
//
// Every public method holds mu for its full duration so compound operations
// (mkdir -p followed by insert, read followed by create and delete) observe and
// leave a consistent tree.
type FileSystem struct {
	cfg  *config.Config
	id   string
	root *Node // Root of node tree; always a Directory
	mu   sync.RWMutex
}

func NewFS(cfg *config.Config) *FileSystem {
	if cfg == nil {
		cfg = config.NewConfig(nil)
	}
	fs := &FileSystem{
		cfg:  cfg,
		id:   uuid.NewString(),
		root: NewDirNode(""),
	}
	logger := util.GetLogger("FS")
	logger.Debug().Str("id", fs.id).Msg("Created tree store")
	return fs
}

// ID returns the unique identifier of this store instance
func (fs *FileSystem) ID() string {
	return fs.id
}

// CreateFile writes content to the File at path, creating any missing parent
// directories like `mkdir -p`. An existing File is overwritten.
//
// A parent segment naming a File, or a path naming an existing Directory, is
// reported as a [*treefs.ConflictError]. The whole path is validated before
// anything is created so a failed call leaves the tree unchanged.
func (fs *FileSystem) CreateFile(path, content string) error {
	logger := util.GetLogger("FS.CreateFile")

	dirs, name, err := splitLeafPath(path)
	if err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.createFileLocked(dirs, name, content); err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Failed to create file")
		return err
	}
	logger.Trace().Str("path", path).Int("size", len(content)).Msg("Wrote file")
	return nil
}

// ReadFile returns the content of the File at path.
// Missing entries, Directories and paths through a File are all [treefs.ErrNotFound].
func (fs *FileSystem) ReadFile(path string) (string, error) {
	dirs, name, err := splitLeafPath(path)
	if err != nil {
		return "", err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	node := fs.find(append(dirs, name))
	if node == nil || node.IsDir() {
		return "", fmt.Errorf("%w: %s", treefs.ErrNotFound, path)
	}
	return node.content, nil
}

// List returns the sorted names of the immediate children of the Directory at path.
// Use "" or "/" for the root.
func (fs *FileSystem) List(path string) ([]string, error) {
	entries, err := fs.ListEntries(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names, nil
}

// ListEntries returns the children of the Directory at path sorted by name.
// A missing path is [treefs.ErrNotFound]; a path through or to a File is a
// [*treefs.ConflictError].
func (fs *FileSystem) ListEntries(path string) ([]treefs.DirEntry, error) {
	segs, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	dir, err := fs.resolveDir(segs)
	if err != nil {
		return nil, err
	}

	children := dir.Children()
	entries := make([]treefs.DirEntry, len(children))
	for i, ch := range children {
		entries[i] = treefs.DirEntry{Name: ch.name, Kind: ch.kind}
	}
	return entries, nil
}

// Stat returns the kind of the entry at path. The root is a Directory.
func (fs *FileSystem) Stat(path string) (treefs.EntryKind, error) {
	segs, err := splitPath(path)
	if err != nil {
		return 0, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	node := fs.find(segs)
	if node == nil {
		return 0, fmt.Errorf("%w: %s", treefs.ErrNotFound, path)
	}
	return node.kind, nil
}

// Delete removes the entry at path, including the whole subtree of a Directory.
// Deleting an entry that does not exist is a no-op.
func (fs *FileSystem) Delete(path string) error {
	logger := util.GetLogger("FS.Delete")

	dirs, name, err := splitLeafPath(path)
	if err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.deleteLocked(dirs, name) {
		logger.Trace().Str("path", path).Msg("Deleted entry")
	}
	return nil
}

// MakeDir creates the Directory at path and any missing parents. It is
// equivalent to calling `mkdir -p` from a shell and will not error if the
// Directory already exists.
func (fs *FileSystem) MakeDir(path string) error {
	logger := util.GetLogger("FS.MakeDir")

	segs, err := splitPath(path)
	if err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.checkDirs(segs); err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Failed to create directory")
		return err
	}
	_, newCnt := fs.ensureDirs(segs)
	if newCnt > 0 {
		logger.Debug().Str("path", path).Msg(fmt.Sprintf("Created %d new dir(s)", newCnt))
	}
	return nil
}

// Rename is an alias of [FileSystem.Move]
func (fs *FileSystem) Rename(oldPath, newPath string) error {
	return fs.Move(oldPath, newPath)
}

// Move relocates the File at oldPath to newPath, overwriting any File there.
//
// It is a no-op when oldPath does not name a File or when both paths are the
// same. Directories cannot be moved with Move and return
// [treefs.ErrUnsupported]; see [FileSystem.MoveTree].
func (fs *FileSystem) Move(oldPath, newPath string) error {
	return fs.transferFile("FS.Move", oldPath, newPath, true)
}

// Copy duplicates the File at path to newPath, overwriting any File there.
// Same rules as [FileSystem.Move] except the source is kept.
func (fs *FileSystem) Copy(path, newPath string) error {
	return fs.transferFile("FS.Copy", path, newPath, false)
}

func (fs *FileSystem) transferFile(component, srcPath, dstPath string, removeSrc bool) error {
	logger := util.GetLogger(component)

	srcDirs, srcName, err := splitLeafPath(srcPath)
	if err != nil {
		return err
	}
	dstDirs, dstName, err := splitLeafPath(dstPath)
	if err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	src := fs.find(append(srcDirs, srcName))
	if src == nil {
		logger.Trace().Str("src", srcPath).Msg("Source not found; nothing to do")
		return nil
	}
	if src.IsDir() {
		return fmt.Errorf("%w: %s is a directory", treefs.ErrUnsupported, srcPath)
	}
	if joinPath(append(srcDirs, srcName)...) == joinPath(append(dstDirs, dstName)...) {
		return nil
	}

	if err := fs.createFileLocked(dstDirs, dstName, src.content); err != nil {
		logger.Debug().Err(err).Str("src", srcPath).Str("dst", dstPath).Msg("Failed to write destination")
		return err
	}
	if removeSrc {
		fs.deleteLocked(srcDirs, srcName)
	}
	logger.Trace().Str("src", srcPath).Str("dst", dstPath).Msg("Transferred file")
	return nil
}

// MoveTree relocates the File or Directory subtree at oldPath to newPath.
//
// Unlike Move it fails loudly: a missing source is [treefs.ErrNotFound], an
// existing destination is [treefs.ErrExists] and a destination inside the source
// is [treefs.ErrInvalidPath]. Missing destination parents are created.
func (fs *FileSystem) MoveTree(oldPath, newPath string) error {
	return fs.transferTree("FS.MoveTree", oldPath, newPath, true)
}

// CopyTree deep copies the File or Directory subtree at path to newPath with
// the same rules as [FileSystem.MoveTree].
func (fs *FileSystem) CopyTree(path, newPath string) error {
	return fs.transferTree("FS.CopyTree", path, newPath, false)
}

func (fs *FileSystem) transferTree(component, srcPath, dstPath string, removeSrc bool) error {
	logger := util.GetLogger(component)

	srcDirs, srcName, err := splitLeafPath(srcPath)
	if err != nil {
		return err
	}
	dstDirs, dstName, err := splitLeafPath(dstPath)
	if err != nil {
		return err
	}
	srcSegs := append(srcDirs[:len(srcDirs):len(srcDirs)], srcName)
	dstSegs := append(dstDirs[:len(dstDirs):len(dstDirs)], dstName)
	if hasPrefix(dstSegs, srcSegs) {
		return fmt.Errorf("%w: %s is inside %s", treefs.ErrInvalidPath, dstPath, srcPath)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	src := fs.find(srcSegs)
	if src == nil {
		return fmt.Errorf("%w: %s", treefs.ErrNotFound, srcPath)
	}
	if err := fs.checkDirs(dstDirs); err != nil {
		return err
	}
	if parent := fs.find(dstDirs); parent != nil {
		if _, ok := parent.GetChild(dstName); ok {
			return fmt.Errorf("%w: %s", treefs.ErrExists, dstPath)
		}
	}

	parent, _ := fs.ensureDirs(dstDirs)
	if removeSrc {
		src.parent.RemoveChild(src.name)
		src.name = dstName
		parent.AddChild(src)
	} else {
		parent.AddChild(src.clone(dstName))
	}
	logger.Debug().Str("src", srcPath).Str("dst", dstPath).Stringer("kind", src.kind).Msg("Transferred tree")
	return nil
}

// Search returns the full path, without a leading slash, of every File named
// name. Directories never match. Children are visited depth-first in name order.
func (fs *FileSystem) Search(name string) []string {
	if name == "" || strings.Contains(name, "/") {
		return nil
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var res []string
	_ = walk(fs.root, "", func(path string, n *Node) error {
		if !n.IsDir() && n.name == name {
			res = append(res, path)
		}
		return nil
	})
	return res
}

// SkipDir can be returned from a [WalkFunc] to skip the current Directory's children
var SkipDir = errors.New("skip this directory")

// WalkFunc is called for every entry visited by [FileSystem.Walk].
// Returning SkipDir on a Directory skips its children; any other error stops the walk.
type WalkFunc func(path string, kind treefs.EntryKind) error

// Walk visits every entry below the root depth-first in name order.
// fn runs under the store's read lock and must not call back into the store.
func (fs *FileSystem) Walk(fn WalkFunc) error {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return walk(fs.root, "", func(path string, n *Node) error {
		return fn(path, n.kind)
	})
}

func walk(dir *Node, prefix string, fn func(path string, n *Node) error) error {
	for _, ch := range dir.Children() {
		p := ch.name
		if prefix != "" {
			p = prefix + "/" + ch.name
		}
		err := fn(p, ch)
		if errors.Is(err, SkipDir) {
			continue
		}
		if err != nil {
			return err
		}
		if ch.IsDir() {
			if err := walk(ch, p, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

/* Lock-held helpers */

// find resolves segs from the root, returning nil when any segment is missing
// or a non-final segment is a File
func (fs *FileSystem) find(segs []string) *Node {
	cur := fs.root
	for _, seg := range segs {
		child, ok := cur.GetChild(seg)
		if !ok {
			return nil
		}
		cur = child
	}
	return cur
}

// resolveDir resolves segs to an existing Directory
func (fs *FileSystem) resolveDir(segs []string) (*Node, error) {
	cur := fs.root
	for i, seg := range segs {
		child, ok := cur.GetChild(seg)
		if !ok {
			return nil, fmt.Errorf("%w: %s", treefs.ErrNotFound, joinPath(segs[:i+1]...))
		}
		if !child.IsDir() {
			return nil, &treefs.ConflictError{Path: joinPath(segs[:i+1]...), Want: treefs.DirKind, Got: treefs.FileKind}
		}
		cur = child
	}
	return cur, nil
}

// checkDirs verifies ensureDirs(segs) would succeed without mutating the tree
func (fs *FileSystem) checkDirs(segs []string) error {
	cur := fs.root
	for i, seg := range segs {
		child, ok := cur.GetChild(seg)
		if !ok {
			return nil // everything below will be created
		}
		if !child.IsDir() {
			return &treefs.ConflictError{Path: joinPath(segs[:i+1]...), Want: treefs.DirKind, Got: treefs.FileKind}
		}
		cur = child
	}
	return nil
}

// ensureDirs walks segs creating any missing Directory and returns the leaf
// plus the number created. Callers must run checkDirs first.
func (fs *FileSystem) ensureDirs(segs []string) (leaf *Node, newCnt int) {
	cur := fs.root
	for _, seg := range segs {
		if child, ok := cur.GetChild(seg); ok {
			cur = child
			continue
		}
		node := NewDirNode(seg)
		cur.AddChild(node)
		newCnt++
		cur = node
	}
	return cur, newCnt
}

func (fs *FileSystem) createFileLocked(dirs []string, name, content string) error {
	if err := fs.checkDirs(dirs); err != nil {
		return err
	}
	if parent := fs.find(dirs); parent != nil {
		if existing, ok := parent.GetChild(name); ok && existing.IsDir() {
			return &treefs.ConflictError{Path: joinPath(append(dirs, name)...), Want: treefs.FileKind, Got: treefs.DirKind}
		}
	}

	parent, _ := fs.ensureDirs(dirs)
	parent.AddChild(NewFileNode(name, content))
	return nil
}

// deleteLocked removes name from the Directory at dirs, reporting whether
// anything was removed
func (fs *FileSystem) deleteLocked(dirs []string, name string) bool {
	parent := fs.find(dirs)
	if parent == nil {
		return false
	}
	return parent.RemoveChild(name)
}
