package container

import "iter"

type treeNode[T any] struct {
	value T
	left  *treeNode[T]
	right *treeNode[T]
}

// BST is an unbalanced binary search tree. Operations are O(log n) on
// random input and degrade to O(n) on sorted input, where the tree becomes a
// right spine of height n. Keys are unique: inserting a key already present
// leaves the tree unchanged.
//
// All traversals are iterative so a degenerate tree of any height is safe.
type BST[T any] struct {
	root *treeNode[T]
	n    int
	cmp  func(a, b T) int
	g    guard
}

func NewBST[T any](cmp func(a, b T) int) *BST[T] {
	return &BST[T]{cmp: cmp}
}

func (t *BST[T]) Len() int { return t.n }

// Insert adds v. Duplicate keys are ignored.
func (t *BST[T]) Insert(v T) error {
	link := &t.root
	for *link != nil {
		c := t.cmp(v, (*link).value)
		switch {
		case c < 0:
			link = &(*link).left
		case c > 0:
			link = &(*link).right
		default:
			return nil
		}
	}

	*link = &treeNode[T]{value: v}
	t.n++
	t.g.touch()

	return nil
}

// Remove deletes the node holding key and returns its payload. A node with
// two children is replaced by its in-order successor.
func (t *BST[T]) Remove(key T) (T, bool) {
	link := t.search(key)
	if *link == nil {
		var zero T
		return zero, false
	}

	nd := *link
	v := nd.value

	switch {
	case nd.left == nil:
		*link = nd.right
	case nd.right == nil:
		*link = nd.left
	default:
		succ := &nd.right
		for (*succ).left != nil {
			succ = &(*succ).left
		}

		s := *succ
		*succ = s.right
		s.left = nd.left
		s.right = nd.right
		*link = s
	}

	nd.left = nil
	nd.right = nil

	t.n--
	t.g.touch()

	return v, true
}

func (t *BST[T]) Lookup(key T) (T, bool) {
	if nd := *t.search(key); nd != nil {
		return nd.value, true
	}

	var zero T
	return zero, false
}

func (t *BST[T]) Contains(key T) bool {
	return *t.search(key) != nil
}

// Depth returns the number of nodes visited when looking up key, whether or
// not it is found.
func (t *BST[T]) Depth(key T) int {
	depth := 0
	for nd := t.root; nd != nil; {
		depth++
		c := t.cmp(key, nd.value)
		switch {
		case c < 0:
			nd = nd.left
		case c > 0:
			nd = nd.right
		default:
			return depth
		}
	}

	return depth
}

func (t *BST[T]) Min() (T, bool) {
	var zero T
	if t.root == nil {
		return zero, false
	}

	nd := t.root
	for nd.left != nil {
		nd = nd.left
	}

	return nd.value, true
}

func (t *BST[T]) Max() (T, bool) {
	var zero T
	if t.root == nil {
		return zero, false
	}

	nd := t.root
	for nd.right != nil {
		nd = nd.right
	}

	return nd.value, true
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *BST[T]) Height() int {
	if t.root == nil {
		return 0
	}

	height := 0
	level := []*treeNode[T]{t.root}
	for len(level) > 0 {
		height++

		var next []*treeNode[T]
		for _, nd := range level {
			if nd.left != nil {
				next = append(next, nd.left)
			}
			if nd.right != nil {
				next = append(next, nd.right)
			}
		}

		level = next
	}

	return height
}

// All iterates in ascending order.
func (t *BST[T]) All() iter.Seq[T] { return t.InOrder() }

func (t *BST[T]) InOrder() iter.Seq[T] {
	return func(yield func(T) bool) {
		start := t.g.mods

		var stack []*treeNode[T]
		nd := t.root
		for nd != nil || len(stack) > 0 {
			for nd != nil {
				stack = append(stack, nd)
				nd = nd.left
			}

			nd = stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !yield(nd.value) {
				return
			}
			t.g.check(start)

			nd = nd.right
		}
	}
}

func (t *BST[T]) PreOrder() iter.Seq[T] {
	return func(yield func(T) bool) {
		if t.root == nil {
			return
		}

		start := t.g.mods
		stack := []*treeNode[T]{t.root}
		for len(stack) > 0 {
			nd := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !yield(nd.value) {
				return
			}
			t.g.check(start)

			if nd.right != nil {
				stack = append(stack, nd.right)
			}
			if nd.left != nil {
				stack = append(stack, nd.left)
			}
		}
	}
}

func (t *BST[T]) PostOrder() iter.Seq[T] {
	return func(yield func(T) bool) {
		start := t.g.mods

		var (
			stack []*treeNode[T]
			last  *treeNode[T]
		)

		nd := t.root
		for nd != nil || len(stack) > 0 {
			for nd != nil {
				stack = append(stack, nd)
				nd = nd.left
			}

			top := stack[len(stack)-1]
			if top.right != nil && top.right != last {
				nd = top.right
				continue
			}

			stack = stack[:len(stack)-1]
			last = top

			if !yield(top.value) {
				return
			}
			t.g.check(start)
		}
	}
}

// search returns the link that holds key, or the nil link where it would be
// attached.
func (t *BST[T]) search(key T) **treeNode[T] {
	link := &t.root
	for *link != nil {
		c := t.cmp(key, (*link).value)
		switch {
		case c < 0:
			link = &(*link).left
		case c > 0:
			link = &(*link).right
		default:
			return link
		}
	}

	return link
}
