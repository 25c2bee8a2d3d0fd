// Package mount exposes a [treefs.Store] as a read-only FUSE filesystem.
package mount

import (
	"context"
	"errors"
	"path"
	"syscall"
	"time"

	"github.com/brettbedarf/treefs"
	"github.com/brettbedarf/treefs/config"
	"github.com/brettbedarf/treefs/internal/util"
	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

const (
	dirMode  = syscall.S_IFDIR | 0o555
	fileMode = syscall.S_IFREG | 0o444
)

// Node bridges one store path to the kernel. The store stays the source of
// truth: every callback re-resolves the path, so changes made through the
// store API show up in the mount.
type Node struct {
	fs.Inode
	store treefs.Store
	path  string // store path without leading slash; "" for the root
	kind  treefs.EntryKind
}

var (
	_ = (fs.NodeLookuper)((*Node)(nil))
	_ = (fs.NodeReaddirer)((*Node)(nil))
	_ = (fs.NodeGetattrer)((*Node)(nil))
	_ = (fs.NodeOpener)((*Node)(nil))
	_ = (fs.NodeReader)((*Node)(nil))
)

// NewRoot returns the root node for store
func NewRoot(store treefs.Store) *Node {
	return &Node{store: store, kind: treefs.DirKind}
}

func (n *Node) child(name string) string {
	if n.path == "" {
		return name
	}
	return path.Join(n.path, name)
}

// Lookup is called by the kernel when the VFS wants to know
// about a file inside a directory.
func (n *Node) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	logger := util.GetLogger("Fuse.Lookup")
	logger.Trace().Str("parent", n.path).Str("name", name).Msg("Lookup called")

	childPath := n.child(name)
	kind, err := n.store.Stat(childPath)
	if err != nil {
		return nil, toErrno(err)
	}

	child := &Node{store: n.store, path: childPath, kind: kind}
	if errno := child.fillAttr(&out.Attr); errno != fs.OK {
		return nil, errno
	}
	return n.NewInode(ctx, child, fs.StableAttr{Mode: modeOf(kind) & syscall.S_IFMT}), fs.OK
}

func (n *Node) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	logger := util.GetLogger("Fuse.Readdir")
	logger.Trace().Str("path", n.path).Msg("Readdir called")

	entries, err := n.store.ListEntries(n.path)
	if err != nil {
		return nil, toErrno(err)
	}
	list := make([]fuse.DirEntry, len(entries))
	for i, e := range entries {
		list[i] = fuse.DirEntry{Name: e.Name, Mode: modeOf(e.Kind)}
	}
	return fs.NewListDirStream(list), fs.OK
}

func (n *Node) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	if h, ok := fh.(*contentHandle); ok {
		out.Mode = fileMode
		out.Size = uint64(len(h.data))
		out.Nlink = 1
		return fs.OK
	}
	return n.fillAttr(&out.Attr)
}

// Open snapshots the file content; later writes through the store are
// visible to the next Open.
func (n *Node) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	if flags&(syscall.O_WRONLY|syscall.O_RDWR) != 0 {
		return nil, 0, syscall.EROFS
	}
	if n.kind == treefs.DirKind {
		return nil, 0, syscall.EISDIR
	}
	content, err := n.store.ReadFile(n.path)
	if err != nil {
		return nil, 0, toErrno(err)
	}
	return &contentHandle{data: []byte(content)}, fuse.FOPEN_DIRECT_IO, fs.OK
}

func (n *Node) Read(ctx context.Context, fh fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	h, ok := fh.(*contentHandle)
	if !ok {
		return nil, syscall.EBADF
	}
	return fuse.ReadResultData(h.slice(off, len(dest))), fs.OK
}

func (n *Node) fillAttr(attr *fuse.Attr) syscall.Errno {
	attr.Mode = modeOf(n.kind)
	attr.Nlink = 1
	if n.kind == treefs.DirKind {
		return fs.OK
	}
	content, err := n.store.ReadFile(n.path)
	if err != nil {
		return toErrno(err)
	}
	attr.Size = uint64(len(content))
	return fs.OK
}

// contentHandle holds the content snapshot taken at Open
type contentHandle struct {
	data []byte
}

func (h *contentHandle) slice(off int64, size int) []byte {
	if off < 0 || off >= int64(len(h.data)) {
		return nil
	}
	end := min(off+int64(size), int64(len(h.data)))
	return h.data[off:end]
}

func modeOf(kind treefs.EntryKind) uint32 {
	if kind == treefs.DirKind {
		return dirMode
	}
	return fileMode
}

func toErrno(err error) syscall.Errno {
	switch {
	case errors.Is(err, treefs.ErrNotFound):
		return syscall.ENOENT
	case errors.Is(err, treefs.ErrConflict):
		return syscall.ENOTDIR
	case errors.Is(err, treefs.ErrInvalidPath):
		return syscall.EINVAL
	default:
		return syscall.EIO
	}
}

// Mount mounts store at mountPoint read-only according to cfg.
// The returned server is already serving; call Unmount to stop.
func Mount(store treefs.Store, mountPoint string, cfg *config.Config) (*fuse.Server, error) {
	attrTimeout := time.Duration(cfg.AttrTimeout * float64(time.Second))
	entryTimeout := time.Duration(cfg.EntryTimeout * float64(time.Second))

	opts := &fs.Options{
		MountOptions: fuse.MountOptions{
			Name:   cfg.Name,
			FsName: cfg.FsName,
			Debug:  cfg.Debug || cfg.LogLvl == util.TraceLevel,
			Logger: util.NewLogLogger("FuseServer", util.DebugLevel),
		},
		AttrTimeout:  &attrTimeout,
		EntryTimeout: &entryTimeout,
	}
	return fs.Mount(mountPoint, NewRoot(store), opts)
}
