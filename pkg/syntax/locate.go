package syntax

// SmallestNodeAt resolves a byte position to the syntactically smallest
// enclosing node. Positions in the gap between two tokens resolve to the
// node enclosing the gap. Returns ErrNoNode when the tree is empty and
// ErrStaleTree on an invalidated snapshot.
func SmallestNodeAt(tree Tree, offset uint) (Node, error) {
	if tree.Stale() {
		return nil, ErrStaleTree
	}

	node := tree.Root()
	if node == nil {
		return nil, ErrNoNode
	}

	for {
		child := containingChild(node, offset)
		if child == nil {
			return node, nil
		}

		node = child
	}
}

func containingChild(node Node, offset uint) Node {
	for i := range node.ChildCount() {
		child := node.Child(i)
		if child.StartByte() <= offset && offset < child.EndByte() {
			return child
		}
	}

	return nil
}

// FirstNodeAfter returns the first leaf starting at or after offset in
// document order, or nil when nothing follows. Used to indent blank lines:
// the line inherits the shape of the token that would follow an insertion.
func FirstNodeAfter(tree Tree, offset uint) Node {
	var found Node

	Walk(tree.Root(), ByteRange{}, func(n Node) bool {
		if found != nil {
			return false
		}

		if n.EndByte() <= offset {
			return false
		}

		if n.ChildCount() == 0 && n.StartByte() >= offset {
			found = n

			return false
		}

		return true
	})

	return found
}
