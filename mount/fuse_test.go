package mount

import (
	"context"
	"syscall"
	"testing"

	"github.com/brettbedarf/treefs"
	"github.com/brettbedarf/treefs/config"
	"github.com/brettbedarf/treefs/filesystem"
	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *filesystem.FileSystem {
	t.Helper()
	store := filesystem.NewFS(config.NewConfig(nil))
	require.NoError(t, store.CreateFile("dir/a.txt", "Hello"))
	require.NoError(t, store.CreateFile("dir/sub/b.txt", "World"))
	require.NoError(t, store.CreateFile("top.txt", "0123456789"))
	return store
}

func TestNode_Readdir(t *testing.T) {
	t.Parallel()

	root := NewRoot(newTestStore(t))

	stream, errno := root.Readdir(context.Background())
	require.Equal(t, fs.OK, errno)

	var got []fuse.DirEntry
	for stream.HasNext() {
		e, errno := stream.Next()
		require.Equal(t, fs.OK, errno)
		got = append(got, e)
	}
	assert.Equal(t, []fuse.DirEntry{
		{Name: "dir", Mode: dirMode},
		{Name: "top.txt", Mode: fileMode},
	}, got)
}

func TestNode_Readdir_Missing(t *testing.T) {
	t.Parallel()

	n := &Node{store: newTestStore(t), path: "gone", kind: treefs.DirKind}

	_, errno := n.Readdir(context.Background())
	assert.Equal(t, syscall.ENOENT, errno)
}

func TestNode_Getattr(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	t.Run("file", func(t *testing.T) {
		t.Parallel()
		n := &Node{store: store, path: "top.txt", kind: treefs.FileKind}
		var out fuse.AttrOut
		require.Equal(t, fs.OK, n.Getattr(context.Background(), nil, &out))
		assert.Equal(t, uint64(10), out.Size)
		assert.Equal(t, uint32(fileMode), out.Mode)
	})

	t.Run("dir", func(t *testing.T) {
		t.Parallel()
		n := &Node{store: store, path: "dir", kind: treefs.DirKind}
		var out fuse.AttrOut
		require.Equal(t, fs.OK, n.Getattr(context.Background(), nil, &out))
		assert.Equal(t, uint32(dirMode), out.Mode)
	})

	t.Run("deleted file", func(t *testing.T) {
		t.Parallel()
		n := &Node{store: store, path: "dir/nope.txt", kind: treefs.FileKind}
		var out fuse.AttrOut
		assert.Equal(t, syscall.ENOENT, n.Getattr(context.Background(), nil, &out))
	})
}

func TestNode_OpenRead(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	n := &Node{store: store, path: "top.txt", kind: treefs.FileKind}

	fh, flags, errno := n.Open(context.Background(), syscall.O_RDONLY)
	require.Equal(t, fs.OK, errno)
	assert.Equal(t, uint32(fuse.FOPEN_DIRECT_IO), flags)

	// the handle is a snapshot
	require.NoError(t, store.CreateFile("top.txt", "changed"))

	tests := []struct {
		name string
		off  int64
		size int
		want string
	}{
		{"head", 0, 4, "0123"},
		{"middle", 3, 3, "345"},
		{"past end truncates", 8, 10, "89"},
		{"beyond end", 20, 4, ""},
	}
	for _, tt := range tests {
		res, errno := n.Read(context.Background(), fh, make([]byte, tt.size), tt.off)
		require.Equal(t, fs.OK, errno, tt.name)
		data, status := res.Bytes(make([]byte, tt.size))
		require.Equal(t, fuse.OK, status)
		assert.Equal(t, tt.want, string(data), tt.name)
	}

	var out fuse.AttrOut
	require.Equal(t, fs.OK, n.Getattr(context.Background(), fh, &out))
	assert.Equal(t, uint64(10), out.Size, "attrs follow the open handle")
}

func TestNode_Open_Errors(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	file := &Node{store: store, path: "top.txt", kind: treefs.FileKind}
	_, _, errno := file.Open(context.Background(), syscall.O_RDWR)
	assert.Equal(t, syscall.EROFS, errno)

	dir := &Node{store: store, path: "dir", kind: treefs.DirKind}
	_, _, errno = dir.Open(context.Background(), syscall.O_RDONLY)
	assert.Equal(t, syscall.EISDIR, errno)

	missing := &Node{store: store, path: "missing", kind: treefs.FileKind}
	_, _, errno = missing.Open(context.Background(), syscall.O_RDONLY)
	assert.Equal(t, syscall.ENOENT, errno)
}

func TestToErrno(t *testing.T) {
	t.Parallel()

	assert.Equal(t, syscall.ENOENT, toErrno(treefs.ErrNotFound))
	assert.Equal(t, syscall.ENOTDIR, toErrno(&treefs.ConflictError{Path: "x"}))
	assert.Equal(t, syscall.EINVAL, toErrno(treefs.ErrInvalidPath))
	assert.Equal(t, syscall.EIO, toErrno(assert.AnError))
}

func TestNode_ChildPath(t *testing.T) {
	t.Parallel()

	root := NewRoot(nil)
	assert.Equal(t, "a", root.child("a"))
	sub := &Node{path: "a/b"}
	assert.Equal(t, "a/b/c", sub.child("c"))
}
