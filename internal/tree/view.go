package tree

// View is a derived forest: the closure of the matched nodes, sorted, with its roots.
type View[T Node] struct {
	Roots   []T
	closure *Forest[T]
}

// Build runs the derivation pipeline over all:
// match -> closure (matches plus ancestors) -> sort closure -> roots -> sort roots.
// Children inside the view are limited to closure members and keep the sorted closure order.
func Build[T Node](all []T, match func(T) bool, sorts Sorts[T]) View[T] {
	full := NewForest(all)

	var matches []T
	for _, it := range all {
		if match == nil || match(it) {
			matches = append(matches, it)
		}
	}

	closure := full.Closure(matches)
	sorts.Apply(closure)

	roots := full.Roots(closure)
	sorts.Apply(roots)

	return View[T]{Roots: roots, closure: NewForest(closure)}
}

// Nodes returns every closure member in sorted order.
func (v View[T]) Nodes() []T {
	if v.closure == nil {
		return nil
	}
	return v.closure.Items()
}

func (v View[T]) Len() int {
	if v.closure == nil {
		return 0
	}
	return v.closure.Len()
}

func (v View[T]) Children(id string) []T {
	if v.closure == nil {
		return nil
	}
	return v.closure.Children(id)
}

func (v View[T]) HasChildren(id string) bool {
	return v.closure != nil && v.closure.HasChildren(id)
}

// DescendantIDs lists the descendants of id that are part of the view.
func (v View[T]) DescendantIDs(id string) []string {
	if v.closure == nil {
		return nil
	}
	return v.closure.DescendantIDs(id)
}

// Line is one visible row of a flattened view.
type Line[T Node] struct {
	Node        T
	Depth       int
	HasChildren bool
	State       NodeState
}

// Flatten walks roots depth first, descending only into expanded nodes.
func Flatten[T Node](v View[T], roots []T, ui *UIState) []Line[T] {
	var out []Line[T]
	seen := map[string]bool{}
	var walk func(n T, depth int)
	walk = func(n T, depth int) {
		id := n.NodeID()
		if seen[id] {
			return
		}
		seen[id] = true
		st := ui.Get(id)
		out = append(out, Line[T]{Node: n, Depth: depth, HasChildren: v.HasChildren(id), State: st})
		if !st.Expanded {
			return
		}
		for _, ch := range v.Children(id) {
			walk(ch, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
	return out
}
