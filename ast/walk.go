package ast

// WalkStatus controls how Walk proceeds after a visit, mirroring
// goldmark's ast.Walk contract (WalkContinue / WalkSkipChildren / WalkStop)
// so callers familiar with that API need no retraining.
type WalkStatus int

const (
	WalkContinue WalkStatus = iota
	WalkSkipChildren
	WalkStop
)

// Walker is called twice per node: once entering (entering=true) and once
// leaving (entering=false). When WalkSkipChildren is returned on entry the
// children are skipped but the leaving call is still made; when WalkStop
// is returned the leaving call is skipped and the walk ends.
type Walker func(n *Node, entering bool) (WalkStatus, error)

// Walk traverses n and its descendants in depth-first pre/post order.
func Walk(n *Node, walker Walker) error {
	_, err := walk(n, walker)
	return err
}

func walk(n *Node, walker Walker) (WalkStatus, error) {
	status, err := walker(n, true)
	if err != nil {
		return WalkStop, err
	}
	if status == WalkStop {
		return WalkStop, nil
	}
	if status == WalkSkipChildren {
		_, err := walker(n, false)
		return WalkContinue, err
	}

	for c := n.firstChild; c != nil; c = c.next {
		childStatus, err := walk(c, walker)
		if err != nil {
			return WalkStop, err
		}
		if childStatus == WalkStop {
			return WalkStop, nil
		}
	}

	_, err = walker(n, false)
	return WalkContinue, err
}

// WalkPreOrder is a convenience wrapper over Walk for callers that only
// care about the entering visit (the common case for renderers and
// highlight providers, both of which are required by spec to emit in
// depth-first pre-order).
func WalkPreOrder(n *Node, visit func(n *Node) (WalkStatus, error)) error {
	return Walk(n, func(n *Node, entering bool) (WalkStatus, error) {
		if !entering {
			return WalkContinue, nil
		}
		return visit(n)
	})
}
