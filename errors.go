package htmlsanitizer

import (
	"fmt"

	"golang.org/x/net/html"
)

// Strategy enums, one per violation class. The zero value of each ("")
// means "unset" and causes the handler for that level to fall back to the
// next-broader level, per the table in spec.md §4.4.
type (
	CollectionTooManyStrategy string
	RecordDuplicateStrategy   string
	RecordValueStrategy       string
	SetValueStrategy          string
	ValueTooLongStrategy      string
	AttributeValueStrategy    string
	AttributeStrategy         string
	TagStrategy               string
	TagChildrenStrategy       string
	TagNestingStrategy        string
)

const (
	DropExtra CollectionTooManyStrategy = "dropExtra"

	DropDuplicates RecordDuplicateStrategy = "dropDuplicates"
	KeepDuplicates RecordDuplicateStrategy = "keepDuplicates"
	KeepFirst      RecordDuplicateStrategy = "keepFirst"
	KeepLast       RecordDuplicateStrategy = "keepLast"

	DropPair RecordValueStrategy = "dropPair"

	DropValue SetValueStrategy = "dropValue"

	TrimExcess ValueTooLongStrategy = "trimExcess"

	ApplyDefaultValue AttributeValueStrategy = "applyDefaultValue"

	DiscardAttribute AttributeStrategy = "discardAttribute"

	DiscardElementTag TagStrategy = "discardElement"
	UnwrapElementTag   TagStrategy = "unwrapElement"
	ThrowErrorTag      TagStrategy = "throwError"

	DiscardElementChildren TagChildrenStrategy = "discardElement"
	DiscardFirsts          TagChildrenStrategy = "discardFirsts"
	DiscardLasts           TagChildrenStrategy = "discardLasts"
	ThrowErrorChildren     TagChildrenStrategy = "throwError"

	DiscardElementNesting TagNestingStrategy = "discardElement"
	ThrowErrorNesting     TagNestingStrategy = "throwError"
)

// SanitizationError is raised by a throwError-class terminal strategy. The
// tree it was raised against must be treated as garbage by the caller — a
// raised error aborts the entire run, unlike a handler returning proceed=false
// which only aborts the current element's subtree.
type SanitizationError struct {
	Tag   string
	Attr  string
	Key   string
	Value string
	msg   string
}

func (e *SanitizationError) Error() string {
	return e.msg
}

func newTagError(tag string) *SanitizationError {
	return &SanitizationError{Tag: tag, msg: fmt.Sprintf("sanitize: tag %q is not permitted", tag)}
}

func newTagChildrenError(tag string) *SanitizationError {
	return &SanitizationError{Tag: tag, msg: fmt.Sprintf("sanitize: tag %q exceeds its children limit", tag)}
}

func newTagNestingError(tag string) *SanitizationError {
	return &SanitizationError{Tag: tag, msg: fmt.Sprintf("sanitize: tag %q exceeds its nesting limit", tag)}
}

// handlers binds one Policy's ErrorHandling selections to the methods that
// apply them, implementing the fallback chain of spec.md §4.4 by direct
// delegation from each narrow handler to its next-broader neighbor.
//
// lastUnwrapped is a single-run-scoped side channel: unwrapElement is the
// only strategy in the whole fallback chain that splices an element's
// children into its parent instead of simply detaching it, and every level
// above "tag" can fall all the way down to it (e.g. setValue →
// attributeValue → attribute → tag). Rather than threading a "here are the promoted nodes"
// return value through every intermediate handler and sanitizeXxx call, the
// handleTag method that actually performs the unwrap records the promoted
// nodes here; the walker (the only caller that needs them, to keep walking
// into the nodes that used to be the unwrapped element's children) reads
// and clears it immediately after any call that could have reached
// handleTag. Safe because a single handlers value is never shared across
// concurrent runs (see doc.go's Thread Safety note).
type handlers struct {
	eh            ErrorHandling
	lastUnwrapped []*html.Node
}

func newHandlers(eh ErrorHandling) *handlers {
	return &handlers{eh: eh}
}

// --- element-level handlers (one bool: false means element is gone) -------

// handleTag applies the tag-admission strategy for a tag absent from
// policy.Tags. Default (unset) is throwError.
func (h *handlers) handleTag(e elementLike, tag string) (proceed bool, err error) {
	h.lastUnwrapped = nil
	switch h.eh.Tag {
	case DiscardElementTag:
		e.discard()
		return false, nil
	case UnwrapElementTag:
		h.lastUnwrapped = e.unwrap()
		return false, nil
	default:
		return false, newTagError(tag)
	}
}

// handleTagChildren applies the children-count-exceeded strategy.
func (h *handlers) handleTagChildren(e elementLike, tag string, limit int) (proceed bool, err error) {
	switch h.eh.TagChildren {
	case DiscardElementChildren:
		e.discard()
		return false, nil
	case DiscardFirsts:
		e.discardChildren(limit, true)
		return true, nil
	case DiscardLasts:
		e.discardChildren(limit, false)
		return true, nil
	default:
		return false, newTagChildrenError(tag)
	}
}

// handleTagNesting applies the ancestor-nesting-exceeded strategy.
func (h *handlers) handleTagNesting(e elementLike, tag string) (proceed bool, err error) {
	switch h.eh.TagNesting {
	case DiscardElementNesting:
		e.discard()
		return false, nil
	default:
		return false, newTagNestingError(tag)
	}
}

// --- attribute-level handlers (two bools: global aborts the element,
// local just moves on to the next attribute) ------------------------------

// handleAttribute applies the strategy for an attribute with no resolvable
// rule (no exact match, no "*" fallback). Unset falls back to the tag level.
func (h *handlers) handleAttribute(e elementLike, tag, attr string) (globalProceed, localProceed bool, err error) {
	switch h.eh.Attribute {
	case DiscardAttribute:
		e.removeAttr(attr)
		return true, true, nil
	default:
		proceed, err := h.handleTag(e, tag)
		if sErr, ok := err.(*SanitizationError); ok {
			sErr.Attr = attr
			sErr.Value = e.getAttr(attr)
			sErr.msg = fmt.Sprintf("sanitize: attribute %q with value %q on tag %q is not permitted", attr, sErr.Value, tag)
		}
		return proceed, proceed, err
	}
}

// handleAttributeValue applies the strategy for a simple-mode value
// mismatch, or for an absent required attribute (value=""). Unset falls
// back to the attribute level (discardAttribute, or further to tag).
func (h *handlers) handleAttributeValue(e elementLike, tag, attr string, rule AttrRule) (globalProceed, localProceed bool, err error) {
	switch h.eh.AttributeValue {
	case ApplyDefaultValue:
		if rule.DefaultValue != "" {
			e.setAttr(attr, rule.DefaultValue)
		} else {
			e.removeAttr(attr)
		}
		return true, true, nil
	default:
		return h.handleAttribute(e, tag, attr)
	}
}

// handleValueTooLong applies the strategy for a value exceeding MaxLength.
// Unset falls back to the attributeValue level.
func (h *handlers) handleValueTooLong(e elementLike, tag, attr string, rule AttrRule, maxLen int) (globalProceed, localProceed bool, err error) {
	switch h.eh.ValueTooLong {
	case TrimExcess:
		v := e.getAttr(attr)
		if len(v) > maxLen {
			e.setAttr(attr, v[:maxLen])
		}
		return true, true, nil
	default:
		return h.handleAttributeValue(e, tag, attr, rule)
	}
}

// handleSetValue applies the strategy for one set-mode token failing its
// membership Matcher. Unset falls back to the attributeValue level. When
// escalated is true, the attributeValue handler has already rewritten (or
// removed) the whole attribute directly — the caller must stop building its
// own token-by-token replacement and must not write it back over that.
func (h *handlers) handleSetValue(e elementLike, tag, attr string, rule AttrRule) (globalProceed, localProceed, escalated bool, err error) {
	switch h.eh.SetValue {
	case DropValue:
		return true, false, false, nil
	default:
		g, l, err := h.handleAttributeValue(e, tag, attr, rule)
		return g, l, true, err
	}
}

// handleRecordValue applies the strategy for one record-mode pair whose key
// is unknown or whose value fails its per-key Matcher. Unset falls back to
// the attributeValue level; see handleSetValue's escalated note.
func (h *handlers) handleRecordValue(e elementLike, tag, attr string, rule AttrRule) (globalProceed, localProceed, escalated bool, err error) {
	switch h.eh.RecordValue {
	case DropPair:
		return true, false, false, nil
	default:
		g, l, err := h.handleAttributeValue(e, tag, attr, rule)
		return g, l, true, err
	}
}

// --- indirect handlers (return an adjusted collection alongside proceed) --

// handleCollectionTooMany applies the strategy for a set/record collection
// exceeding MaxEntries. dropExtra returns keep = rule.MaxEntries, the number
// of leading entries the caller keeps; on escalation keep is the supplied
// size. Unset falls back to the attributeValue level; see
// handleSetValue's escalated note.
func (h *handlers) handleCollectionTooMany(e elementLike, tag, attr string, rule AttrRule, size int) (keep int, globalProceed, localProceed, escalated bool, err error) {
	switch h.eh.CollectionTooMany {
	case DropExtra:
		return rule.MaxEntries, true, true, false, nil
	default:
		g, l, err := h.handleAttributeValue(e, tag, attr, rule)
		return size, g, l, true, err
	}
}

// handleRecordDuplicate applies the strategy for a record key seen more
// than once. output is the pairs accumulated so far (excluding the current
// duplicate); dupKey is the repeated key. It returns the adjusted output
// and whether to go on to add the current pair (localProceed) / keep the
// element at all (globalProceed). Unset falls back to the attributeValue level; see
// handleSetValue's escalated note.
func (h *handlers) handleRecordDuplicate(e elementLike, tag, attr string, rule AttrRule, output []kvPair, dupKey string) (adjusted []kvPair, globalProceed, localProceed, escalated bool, err error) {
	switch h.eh.RecordDuplicate {
	case DropDuplicates:
		adjusted = adjusted[:0]
		for _, p := range output {
			if p.key != dupKey {
				adjusted = append(adjusted, p)
			}
		}
		return adjusted, true, false, false, nil
	case KeepDuplicates:
		return output, true, true, false, nil
	case KeepFirst:
		return output, true, false, false, nil
	case KeepLast:
		adjusted = adjusted[:0]
		for _, p := range output {
			if p.key != dupKey {
				adjusted = append(adjusted, p)
			}
		}
		return adjusted, true, true, false, nil
	default:
		g, l, err := h.handleAttributeValue(e, tag, attr, rule)
		return output, g, l, true, err
	}
}

// elementLike is the narrow surface errors.go needs from an element to
// apply a strategy, kept separate from *html.Node so the handler logic
// stays testable without constructing real parse trees.
type elementLike interface {
	discard()
	// unwrap splices the element's children into its parent and detaches
	// the element, returning the promoted nodes (now direct children of
	// the former parent) in order so the caller can keep walking them.
	unwrap() []*html.Node
	discardChildren(limit int, dropFromFront bool)
	removeAttr(name string)
	setAttr(name, value string)
	getAttr(name string) string
}
