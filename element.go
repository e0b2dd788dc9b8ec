package htmlsanitizer

import "golang.org/x/net/html"

// nodeElement adapts a *html.Node element to the elementLike interface that
// errors.go's handlers operate against.
type nodeElement struct {
	n *html.Node
}

func (e nodeElement) discard() {
	if e.n.Parent != nil {
		e.n.Parent.RemoveChild(e.n)
	}
}

func (e nodeElement) unwrap() []*html.Node {
	return unwrap(e.n)
}

// discardChildren detaches enough children to bring the count down to
// limit, taking the excess from the front (dropFromFront=true, i.e.
// discardFirsts — keeps the last limit children) or from the back
// (dropFromFront=false, i.e. discardLasts — keeps the first limit
// children).
func (e nodeElement) discardChildren(limit int, dropFromFront bool) {
	children := childSlice(e.n)
	if limit >= len(children) {
		return
	}
	var victims []*html.Node
	if dropFromFront {
		victims = children[:len(children)-limit]
	} else {
		victims = children[limit:]
	}
	for _, c := range victims {
		e.n.RemoveChild(c)
	}
}

func (e nodeElement) removeAttr(name string) {
	attrs := e.n.Attr[:0]
	for _, a := range e.n.Attr {
		if a.Key != name {
			attrs = append(attrs, a)
		}
	}
	e.n.Attr = attrs
}

func (e nodeElement) setAttr(name, value string) {
	for i, a := range e.n.Attr {
		if a.Key == name {
			e.n.Attr[i].Val = value
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: value})
}

func (e nodeElement) getAttr(name string) string {
	for _, a := range e.n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func (e nodeElement) hasAttr(name string) bool {
	for _, a := range e.n.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}

// childSlice snapshots n's children in order. Callers that mutate the tree
// while iterating (detach, unwrap) must snapshot first — a live walk over
// NextSibling pointers would skip or re-visit nodes as siblings reshape.
func childSlice(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// discardExtraStrings and discardExtraPairs truncate a token or pair slice
// to its first keep entries (applied by the callers in attrs.go to the keep
// count the collectionTooMany handler returns).
func discardExtraStrings(tokens []string, keep int) []string {
	if keep >= len(tokens) {
		return tokens
	}
	if keep < 0 {
		keep = 0
	}
	return tokens[:keep]
}

func discardExtraPairs(pairs []kvPair, keep int) []kvPair {
	if keep >= len(pairs) {
		return pairs
	}
	if keep < 0 {
		keep = 0
	}
	return pairs[:keep]
}
