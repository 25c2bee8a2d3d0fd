package filesystem

import (
	"testing"

	"github.com/brettbedarf/treefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileNode(t *testing.T) {
	t.Parallel()

	n := NewFileNode("a.txt", "hello")

	assert.Equal(t, "a.txt", n.Name())
	assert.Equal(t, treefs.FileKind, n.Kind())
	assert.False(t, n.IsDir())
	assert.Equal(t, "hello", n.Content())
	assert.Nil(t, n.Children())
}

func TestNode_AddChild(t *testing.T) {
	t.Parallel()

	parent := NewDirNode("parent")
	child := NewFileNode("child.txt", "")

	parent.AddChild(child)

	retrieved, exists := parent.GetChild("child.txt")
	require.True(t, exists)
	assert.Equal(t, child, retrieved)
	assert.Equal(t, parent, child.parent)
}

func TestNode_AddChild_Overwrite(t *testing.T) {
	t.Parallel()

	parent := NewDirNode("parent")
	first := NewFileNode("same.txt", "one")
	second := NewFileNode("same.txt", "two")

	parent.AddChild(first)
	parent.AddChild(second)

	got, ok := parent.GetChild("same.txt")
	require.True(t, ok)
	assert.Equal(t, "two", got.Content())
	assert.Nil(t, first.parent, "replaced node must be detached")
	assert.Len(t, parent.Children(), 1)
}

func TestNode_GetChild_OnFile(t *testing.T) {
	t.Parallel()

	file := NewFileNode("f", "")

	_, ok := file.GetChild("anything")
	assert.False(t, ok)
	assert.False(t, file.RemoveChild("anything"))
}

func TestNode_RemoveChild(t *testing.T) {
	t.Parallel()

	parent := NewDirNode("parent")
	child := NewFileNode("child.txt", "")
	parent.AddChild(child)

	assert.True(t, parent.RemoveChild("child.txt"))
	assert.Nil(t, child.parent)
	_, exists := parent.GetChild("child.txt")
	assert.False(t, exists)

	assert.False(t, parent.RemoveChild("child.txt"), "second removal is a miss")
}

func TestNode_Children_Sorted(t *testing.T) {
	t.Parallel()

	parent := NewDirNode("p")
	for _, name := range []string{"c", "a", "b"} {
		parent.AddChild(NewFileNode(name, ""))
	}

	var names []string
	for _, ch := range parent.Children() {
		names = append(names, ch.Name())
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestNode_Path(t *testing.T) {
	t.Parallel()

	root := NewDirNode("")
	dir := NewDirNode("dir")
	sub := NewDirNode("sub")
	file := NewFileNode("f.txt", "")
	root.AddChild(dir)
	dir.AddChild(sub)
	sub.AddChild(file)

	assert.Equal(t, "", root.Path())
	assert.Equal(t, "dir", dir.Path())
	assert.Equal(t, "dir/sub/f.txt", file.Path())

	detached := NewFileNode("lonely", "")
	assert.Equal(t, "lonely", detached.Path())
}

func TestNode_Clone(t *testing.T) {
	t.Parallel()

	src := NewDirNode("src")
	sub := NewDirNode("sub")
	src.AddChild(sub)
	sub.AddChild(NewFileNode("a.txt", "A"))
	src.AddChild(NewDirNode("empty"))

	cp := src.clone("dst")

	assert.Equal(t, "dst", cp.Name())
	assert.Nil(t, cp.parent)
	cpSub, ok := cp.GetChild("sub")
	require.True(t, ok)
	assert.NotSame(t, sub, cpSub)
	a, ok := cpSub.GetChild("a.txt")
	require.True(t, ok)
	assert.Equal(t, "A", a.Content())
	empty, ok := cp.GetChild("empty")
	require.True(t, ok)
	assert.True(t, empty.IsDir())

	// mutating the copy leaves the source alone
	cpSub.RemoveChild("a.txt")
	_, ok = sub.GetChild("a.txt")
	assert.True(t, ok)
}
