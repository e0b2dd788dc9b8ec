package htmlsanitizer

import "golang.org/x/net/html"

// unwrap removes e from the tree, splicing its children into its former
// position among its siblings, in order, and returns those children (now
// promoted to e's former parent) so a caller walking the tree can continue
// into them. If e has no parent it is simply detached (a no-op on
// siblings' order). If e has no children, unwrap degrades to a plain
// detach. Children retain their own descendants.
func unwrap(e *html.Node) []*html.Node {
	parent := e.Parent
	if parent == nil {
		return nil
	}
	if e.FirstChild == nil {
		parent.RemoveChild(e)
		return nil
	}

	next := e.NextSibling
	moved := childSlice(e)
	for _, c := range moved {
		e.RemoveChild(c)
		if next != nil {
			parent.InsertBefore(c, next)
		} else {
			parent.AppendChild(c)
		}
	}
	parent.RemoveChild(e)
	return moved
}
