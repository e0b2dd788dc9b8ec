package htmlsanitizer

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// tagFrame is one ancestor record used to enforce per-tag nesting limits:
// count is how many element levels lie beneath that ancestor on the current
// path (each descendant element increments it, whatever its tag).
type tagFrame struct {
	tagName string
	count   int
}

// walkState is the mutable-by-copy state threaded down one traversal
// branch. rootNesting is the depth from the fragment root of the nearest
// ancestor element; tagNesting is the ancestor chain, outermost first.
type walkState struct {
	rootNesting int
	tagNesting  []tagFrame
}

// run binds one Policy (and its derived handler set) to a single Sanitize
// invocation.
type run struct {
	policy *Policy
	h      *handlers
}

// Sanitize parses htmlStr, applies p, and returns the sanitized HTML
// fragment. If p is nil, DefaultPolicy is used. Empty input returns empty
// output. On a throwError-class terminal strategy, the returned
// *SanitizationError names the violating tag and, when an attribute-level
// violation escalated to it, the attribute and its value; the tree sanitize
// mutated must then be treated as garbage.
func Sanitize(htmlStr string, p *Policy) (string, error) {
	return SanitizeReader(strings.NewReader(htmlStr), p)
}

// SanitizeReader reads HTML from r, applies p, and returns the sanitized
// HTML fragment.
func SanitizeReader(r io.Reader, p *Policy) (string, error) {
	if p == nil {
		p = DefaultPolicy()
	}

	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	roots := findBody(doc)
	if roots == nil {
		roots = doc
	}

	rn := &run{policy: p, h: newHandlers(p.ErrorHandling)}

	children := childSlice(roots)
	if len(children) == 0 {
		return "", nil
	}

	if p.TopLevelLimits.hasChildren() && len(children) > p.TopLevelLimits.Children {
		proceed, err := rn.h.handleTagChildren(nodeElement{roots}, "", p.TopLevelLimits.Children)
		if err != nil {
			return "", err
		}
		rn.h.lastUnwrapped = nil // tagChildren never unwraps; defensive clear
		if !proceed {
			return "", nil
		}
		children = childSlice(roots)
	}

	for _, c := range children {
		if err := rn.walkNode(c, walkState{rootNesting: 0, tagNesting: nil}); err != nil {
			return "", err
		}
	}

	var buf strings.Builder
	for _, c := range childSlice(roots) {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}

	out := buf.String()
	if p.CompactOutput {
		out, err = compactHTML(out)
		if err != nil {
			return "", err
		}
	}
	return out, nil
}

// walkNode is spec.md §4.7's walkNode: admits the node by type, dispatching
// element nodes to walkElement with incremented rootNesting, dropping
// comments unless PreserveComments, and leaving text nodes untouched. When
// n gets unwrapped (rather than discarded or kept), walkNode continues
// walking the nodes promoted into n's former position using n's own
// incoming state — unwrapping collapses n's nesting level entirely, so its
// former children are no deeper than n's siblings were.
func (rn *run) walkNode(n *html.Node, state walkState) error {
	switch n.Type {
	case html.ElementNode:
		if rn.policy.TopLevelLimits.hasNesting() && state.rootNesting > rn.policy.TopLevelLimits.Nesting {
			_, err := rn.h.handleTagNesting(nodeElement{n}, n.Data)
			rn.h.lastUnwrapped = nil // tagNesting never unwraps; defensive clear
			return err
		}

		err := rn.walkElement(n, walkState{rootNesting: state.rootNesting + 1, tagNesting: state.tagNesting})
		promoted := rn.h.lastUnwrapped
		rn.h.lastUnwrapped = nil
		if err != nil {
			return err
		}
		for _, p := range promoted {
			if err := rn.walkNode(p, state); err != nil {
				return err
			}
		}
		return nil

	case html.CommentNode:
		if !rn.policy.PreserveComments {
			nodeElement{n}.discard()
		}
		return nil

	default:
		return nil
	}
}

// walkElement is spec.md §4.7's walkElement. Detection order is fixed: tag
// admission, then attributes, then children count, then ancestor-tag
// nesting, then recursion into surviving children.
func (rn *run) walkElement(n *html.Node, state walkState) error {
	tag := strings.ToLower(n.Data)
	e := nodeElement{n}

	rule, ok := rn.policy.Tags[tag]
	if !ok {
		_, err := rn.h.handleTag(e, tag)
		return err
	}

	proceed, err := sanitizeAttributes(e, tag, rule.Attributes, rn.h)
	if err != nil {
		return err
	}
	if !proceed {
		return nil
	}

	if rule.Limits.hasChildren() {
		count := len(childSlice(n))
		if count > rule.Limits.Children {
			proceed, err := rn.h.handleTagChildren(e, tag, rule.Limits.Children)
			rn.h.lastUnwrapped = nil // tagChildren never unwraps; defensive clear
			if err != nil {
				return err
			}
			if !proceed {
				return nil
			}
		}
	}

	newTagNesting := append(append([]tagFrame(nil), state.tagNesting...), tagFrame{tagName: tag, count: 0})
	for i := len(newTagNesting) - 2; i >= 0; i-- {
		frame := &newTagNesting[i]
		frame.count++
		if ancestorRule, ok := rn.policy.Tags[frame.tagName]; ok && ancestorRule.Limits.hasNesting() {
			if frame.count > ancestorRule.Limits.Nesting {
				proceed, err := rn.h.handleTagNesting(e, tag)
				rn.h.lastUnwrapped = nil // tagNesting never unwraps; defensive clear
				if err != nil {
					return err
				}
				if !proceed {
					return nil
				}
			}
		}
	}

	for _, c := range childSlice(n) {
		if err := rn.walkNode(c, walkState{rootNesting: state.rootNesting, tagNesting: newTagNesting}); err != nil {
			return err
		}
	}
	return nil
}

func findBody(doc *html.Node) *html.Node {
	var find func(*html.Node) *html.Node
	find = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && n.Data == "body" {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if r := find(c); r != nil {
				return r
			}
		}
		return nil
	}
	return find(doc)
}
