package tree

// Node is an entity that points at its parent in the same collection.
// NodeParentID returns "" for roots.
type Node interface {
	NodeID() string
	NodeParentID() string
}

// Descender lists every transitive descendant of a node.
type Descender interface {
	DescendantIDs(id string) []string
}

// Forest indexes a collection of nodes by id and by parent. Children keep collection order.
type Forest[T Node] struct {
	items    []T
	byID     map[string]int
	children map[string][]int
}

func NewForest[T Node](items []T) *Forest[T] {
	f := &Forest[T]{
		items:    items,
		byID:     make(map[string]int, len(items)),
		children: map[string][]int{},
	}
	for i, it := range items {
		if _, dup := f.byID[it.NodeID()]; !dup {
			f.byID[it.NodeID()] = i
		}
	}
	for i, it := range items {
		if p := it.NodeParentID(); p != "" {
			f.children[p] = append(f.children[p], i)
		}
	}
	return f
}

func (f *Forest[T]) Items() []T { return f.items }

func (f *Forest[T]) Len() int { return len(f.items) }

func (f *Forest[T]) Get(id string) (T, bool) {
	i, ok := f.byID[id]
	if !ok {
		var zero T
		return zero, false
	}
	return f.items[i], true
}

func (f *Forest[T]) Children(id string) []T {
	idx := f.children[id]
	out := make([]T, 0, len(idx))
	for _, i := range idx {
		out = append(out, f.items[i])
	}
	return out
}

func (f *Forest[T]) HasChildren(id string) bool { return len(f.children[id]) > 0 }

// DescendantIDs returns every transitive child of id, breadth first. id itself is excluded.
func (f *Forest[T]) DescendantIDs(id string) []string {
	seen := map[string]bool{id: true}
	var out []string
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, i := range f.children[cur] {
			cid := f.items[i].NodeID()
			if seen[cid] {
				continue
			}
			seen[cid] = true
			out = append(out, cid)
			queue = append(queue, cid)
		}
	}
	return out
}

// Ancestors returns the parents of id, nearest first. The walk stops at a root, at a parent
// missing from the collection, or on a repeated id.
func (f *Forest[T]) Ancestors(id string) []T {
	var out []T
	seen := map[string]bool{id: true}
	cur, ok := f.Get(id)
	for ok {
		pid := cur.NodeParentID()
		if pid == "" || seen[pid] {
			break
		}
		seen[pid] = true
		cur, ok = f.Get(pid)
		if ok {
			out = append(out, cur)
		}
	}
	return out
}

// Root returns the topmost reachable ancestor of id (id itself when it is a root).
// A node whose parent is missing from the collection is its own root.
func (f *Forest[T]) Root(id string) (T, bool) {
	n, ok := f.Get(id)
	if !ok {
		return n, false
	}
	if anc := f.Ancestors(id); len(anc) > 0 {
		return anc[len(anc)-1], true
	}
	return n, true
}

// Closure returns matches plus every ancestor of each match, deduplicated by id.
// Order: each match followed by its ancestors, nearest first.
func (f *Forest[T]) Closure(matches []T) []T {
	seen := map[string]bool{}
	var out []T
	add := func(n T) {
		if seen[n.NodeID()] {
			return
		}
		seen[n.NodeID()] = true
		out = append(out, n)
	}
	for _, m := range matches {
		add(m)
		for _, a := range f.Ancestors(m.NodeID()) {
			add(a)
		}
	}
	return out
}

// Roots maps each member to its root in f and deduplicates, keeping first appearance.
func (f *Forest[T]) Roots(members []T) []T {
	seen := map[string]bool{}
	var out []T
	for _, m := range members {
		r, ok := f.Root(m.NodeID())
		if !ok || seen[r.NodeID()] {
			continue
		}
		seen[r.NodeID()] = true
		out = append(out, r)
	}
	return out
}
