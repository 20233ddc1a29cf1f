package category

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Category is a node of the catalog tree. A category without parent is a
// root: LevelDepth 0 and IsRootCategory true.
type Category struct {
	ID              uuid.UUID
	Name            string
	Description     string
	Slug            string
	ParentID        *uuid.UUID
	LevelDepth      int
	Position        int
	Active          bool
	IsRootCategory  bool
	MetaTitle       string
	MetaDescription string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AttachTo sets the parent link and the derived depth and root flag.
// A nil parent makes the category a root.
func (c *Category) AttachTo(parent *Category) {
	if parent == nil {
		c.ParentID = nil
		c.LevelDepth = 0
		c.IsRootCategory = true
		return
	}
	id := parent.ID
	c.ParentID = &id
	c.LevelDepth = parent.LevelDepth + 1
	c.IsRootCategory = false
}

// Tree is an arena of categories addressed by id, with a children index
// kept next to it instead of parent/child pointers.
type Tree struct {
	nodes    map[uuid.UUID]*Category
	children map[uuid.UUID][]uuid.UUID
	roots    []uuid.UUID
}

// NewTree indexes categories. Siblings are ordered by position, then name.
// A category whose parent is missing from the input is treated as a root.
func NewTree(categories []Category) *Tree {
	t := &Tree{
		nodes:    make(map[uuid.UUID]*Category, len(categories)),
		children: make(map[uuid.UUID][]uuid.UUID),
	}
	for i := range categories {
		c := categories[i]
		t.nodes[c.ID] = &c
	}
	for _, c := range categories {
		if c.ParentID != nil {
			if _, ok := t.nodes[*c.ParentID]; ok {
				t.children[*c.ParentID] = append(t.children[*c.ParentID], c.ID)
				continue
			}
		}
		t.roots = append(t.roots, c.ID)
	}

	t.sortIDs(t.roots)
	for _, ids := range t.children {
		t.sortIDs(ids)
	}
	return t
}

func (t *Tree) sortIDs(ids []uuid.UUID) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := t.nodes[ids[i]], t.nodes[ids[j]]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.Name < b.Name
	})
}

func (t *Tree) Len() int { return len(t.nodes) }

func (t *Tree) Get(id uuid.UUID) (*Category, bool) {
	c, ok := t.nodes[id]
	return c, ok
}

func (t *Tree) Roots() []*Category {
	return t.resolve(t.roots)
}

func (t *Tree) Children(id uuid.UUID) []*Category {
	return t.resolve(t.children[id])
}

func (t *Tree) resolve(ids []uuid.UUID) []*Category {
	out := make([]*Category, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.nodes[id])
	}
	return out
}

// Chain returns the category followed by its ancestors, leaf first.
func (t *Tree) Chain(id uuid.UUID) []Category {
	var chain []Category
	current, ok := t.nodes[id]
	for ok && len(chain) <= len(t.nodes) {
		chain = append(chain, *current)
		if current.ParentID == nil {
			break
		}
		current, ok = t.nodes[*current.ParentID]
	}
	return chain
}

// Descendants lists every category below id, breadth first.
func (t *Tree) Descendants(id uuid.UUID) []*Category {
	var out []*Category
	seen := map[uuid.UUID]bool{id: true}
	queue := append([]uuid.UUID(nil), t.children[id]...)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true
		out = append(out, t.nodes[next])
		queue = append(queue, t.children[next]...)
	}
	return out
}

// IsInSubtree reports whether candidate is root itself or one of its
// descendants.
func (t *Tree) IsInSubtree(root, candidate uuid.UUID) bool {
	if root == candidate {
		return true
	}
	for _, d := range t.Descendants(root) {
		if d.ID == candidate {
			return true
		}
	}
	return false
}

// Node is a category with its nested children.
type Node struct {
	Category
	Children []Node
}

// Nested builds the forest from the roots down. With activeOnly an
// inactive category is dropped together with its whole subtree.
func (t *Tree) Nested(activeOnly bool) []Node {
	return t.nest(t.roots, activeOnly, 0)
}

func (t *Tree) nest(ids []uuid.UUID, activeOnly bool, depth int) []Node {
	if depth > len(t.nodes) {
		return nil
	}
	nodes := make([]Node, 0, len(ids))
	for _, id := range ids {
		c := t.nodes[id]
		if activeOnly && !c.Active {
			continue
		}
		nodes = append(nodes, Node{
			Category: *c,
			Children: t.nest(t.children[id], activeOnly, depth+1),
		})
	}
	return nodes
}

// Breadcrumb turns a leaf-first ancestor chain into the root-to-leaf
// path, stopping before the root category.
func Breadcrumb(chain []Category) []Category {
	var crumbs []Category
	for _, c := range chain {
		if c.IsRootCategory {
			break
		}
		crumbs = append(crumbs, c)
	}
	for i, j := 0, len(crumbs)-1; i < j; i, j = i+1, j-1 {
		crumbs[i], crumbs[j] = crumbs[j], crumbs[i]
	}
	return crumbs
}
