// Package htmlsanitizer provides a fast, policy-driven HTML sanitizer
// for Go applications.
//
// # Overview
//
// htmlsanitizer parses an HTML string (or io.Reader) using the standard
// golang.org/x/net/html tokenizer, walks the resulting node tree, and
// produces a new HTML string that contains only the tags, attributes, and
// attribute values permitted by a [Policy].
//
// # Policies
//
// A [Policy] is declarative data, not code: it enumerates
//   - Which element tags are admitted, and the rule governing each
//     ([Policy.Tags], a map of tag name to [TagRule])
//   - Per tag, which attributes are admitted and how their values are
//     validated ([TagRule.Attributes], a map of attribute name to
//     [AttrRule] — simple value, space/comma-delimited set, or
//     semicolon/colon-delimited record, per [AttrRule.Mode])
//   - Structural limits on an element's direct children and on how many
//     levels of elements may be nested beneath an element of a given tag
//     or beneath the fragment root ([TagRule.Limits], [Policy.TopLevelLimits])
//   - Whether comment nodes survive ([Policy.PreserveComments])
//   - How each of ten violation classes is recovered from
//     ([Policy.ErrorHandling]) — discard the element, unwrap it and keep
//     its children, drop just the offending attribute or value, apply a
//     default, or raise an error, per the fallback chain in errors.go
//
// Two built-in policies are provided:
//   - [DefaultPolicy] — a permissive but safe policy covering common
//     content tags. Good starting point for blog posts, articles, etc.
//   - [StrictPolicy] — a minimal policy allowing only basic inline
//     formatting with no attributes. Good for comment sections.
//
// A Policy can also be loaded from YAML or JSON via [LoadPolicyYAML] /
// [LoadPolicyJSON], for applications that want to configure sanitization
// without recompiling.
//
// # Security
//
// htmlsanitizer defends against common XSS vectors including:
//   - Script injection via disallowed tags
//   - Event handler and other attributes absent from a tag's rule
//   - javascript: and data: URL schemes (including entity-encoded forms),
//     via the [urlmatch] subpackage's scheme/host matchers
//
// It does NOT provide a Content Security Policy header; pair with proper
// HTTP headers for defence in depth.
//
// # Thread Safety
//
// Sanitize and SanitizeReader are safe for concurrent use across distinct
// (html, Policy) pairs. Policy values should not be mutated after first
// use, including ones loaded from YAML/JSON.
//
// # Example
//
//	p := htmlsanitizer.DefaultPolicy()
//	clean, err := htmlsanitizer.Sanitize(userInput, p)
package htmlsanitizer
