package filesystem

import (
	"slices"
	"strings"

	"github.com/brettbedarf/treefs"
	"github.com/puzpuzpuz/xsync/v4"
)

// Node is a single tree entry: a File holding content or a Directory
// holding children. Nodes carry no locks of their own; every access happens
// under the owning [FileSystem] lock.
type Node struct {
	name     string                    // Name of the node (last part of the path)
	parent   *Node                     // nil for the root and for detached nodes
	kind     treefs.EntryKind          // Immutable once created
	content  string                    // File content; always "" for directories
	children *xsync.Map[string, *Node] // Child nodes by name; nil for files
}

// NewFileNode creates a detached File node
func NewFileNode(name, content string) *Node {
	return &Node{name: name, kind: treefs.FileKind, content: content}
}

// NewDirNode creates a detached, empty Directory node
//
// NOTE: Parent node is responsible for adding itself to the returned Node's
// parent ref when linking as its child
func NewDirNode(name string) *Node {
	return &Node{
		name:     name,
		kind:     treefs.DirKind,
		children: xsync.NewMap[string, *Node](),
	}
}

func (n *Node) Name() string {
	return n.name
}

func (n *Node) Kind() treefs.EntryKind {
	return n.kind
}

func (n *Node) IsDir() bool {
	return n.kind == treefs.DirKind
}

func (n *Node) Content() string {
	return n.content
}

// Path returns the path of the node relative from root without a leading slash.
// The root, and any node detached from it, has no ancestors to contribute so the
// root returns "".
func (n *Node) Path() string {
	if n.parent == nil {
		return n.name
	}
	parts := make([]string, 0, 4)
	for cur := n; cur.parent != nil; cur = cur.parent {
		parts = append(parts, cur.name)
	}
	slices.Reverse(parts)
	return strings.Join(parts, "/")
}

// AddChild adds (or replaces) a child node in the node's children map
// and sets the child's parent to this node
func (n *Node) AddChild(child *Node) {
	if prev, ok := n.children.Load(child.name); ok && prev != child {
		prev.parent = nil
	}
	n.children.Store(child.name, child)
	child.parent = n
}

// GetChild returns a child node. Always misses on a File.
func (n *Node) GetChild(name string) (child *Node, ok bool) {
	if n.children == nil {
		return nil, false
	}
	return n.children.Load(name)
}

// RemoveChild detaches the named child and reports whether it existed
func (n *Node) RemoveChild(name string) bool {
	if n.children == nil {
		return false
	}
	if child, exists := n.children.LoadAndDelete(name); exists {
		child.parent = nil
		return true
	}
	return false
}

// Children returns the node's children sorted by name
func (n *Node) Children() []*Node {
	if n.children == nil {
		return nil
	}
	children := make([]*Node, 0, n.children.Size())
	n.children.Range(func(_ string, ch *Node) bool {
		children = append(children, ch)
		return true
	})
	slices.SortFunc(children, func(a, b *Node) int {
		return strings.Compare(a.name, b.name)
	})
	return children
}

// clone deep copies the subtree rooted at n under a new name. The copy is detached.
func (n *Node) clone(name string) *Node {
	if !n.IsDir() {
		return NewFileNode(name, n.content)
	}
	cp := NewDirNode(name)
	n.children.Range(func(childName string, ch *Node) bool {
		cp.AddChild(ch.clone(childName))
		return true
	})
	return cp
}

