package htmlsanitizer

import (
	"github.com/dlclark/regexp2"

	"github.com/RampantDespair/sanitize-html/urlmatch"
)

var (
	identifierRegex = regexp2.MustCompile(`^[A-Za-z][\w:.-]*$`, regexp2.None)
	digitsRegex     = regexp2.MustCompile(`^[0-9]+%?$`, regexp2.None)
)

// DefaultPolicy returns a Policy allowing a common safe subset of
// content-formatting HTML — headings, paragraphs, inline formatting,
// lists, tables, links, images, code, blockquotes — while admitting no
// script, style, or other active-content tags. Links must be relative or
// scheme://host URLs with scheme http, https, or mailto; image sources must
// be relative or http/https. A mailto:address href has no "//" and does not
// match, so it is dropped like any other disallowed value. Disallowed tags
// are discarded rather than unwrapped; disallowed attributes are dropped.
func DefaultPolicy() *Policy {
	linkValue := mustURLMatcher([]string{"http", "https", "mailto"}, nil, true)
	imgValue := mustURLMatcher([]string{"http", "https"}, nil, true)

	global := map[string]AttrRule{
		"id":    {Mode: ModeSimple, Value: MatchRegex(identifierRegex)},
		"class": {Mode: ModeSet, Delimiter: " ", Values: MatchRegex(identifierRegex)},
		"lang":  {Mode: ModeSimple, Value: MatchRegex(identifierRegex)},
		"dir":   {Mode: ModeSimple, Value: MatchList([]string{"ltr", "rtl", "auto"})},
	}

	simpleTags := []string{
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "hr",
		"b", "i", "em", "strong", "u", "s", "strike", "del", "ins",
		"ul", "ol", "li",
		"thead", "tbody", "tfoot", "tr",
		"code", "pre", "kbd", "samp",
		"figure", "figcaption",
		"div", "span", "section", "article", "header", "footer",
		"details", "summary",
		"acronym", "address",
		"sup", "sub",
	}

	tags := make(map[string]TagRule, len(simpleTags)+6)
	for _, t := range simpleTags {
		tags[t] = TagRule{Attributes: global}
	}

	tags["a"] = TagRule{Attributes: mergeAttrs(global, map[string]AttrRule{
		"href":   {Mode: ModeSimple, Value: linkValue},
		"title":  {Mode: ModeSimple, Value: MatchAny()},
		"target": {Mode: ModeSimple, Value: MatchList([]string{"_blank", "_self", "_parent", "_top"})},
		"rel":    {Mode: ModeSet, Delimiter: " ", Values: MatchList([]string{"nofollow", "noopener", "noreferrer"})},
	})}

	tags["img"] = TagRule{Attributes: mergeAttrs(global, map[string]AttrRule{
		"src":     {Mode: ModeSimple, Required: true, Value: imgValue},
		"alt":     {Mode: ModeSimple, Value: MatchAny()},
		"title":   {Mode: ModeSimple, Value: MatchAny()},
		"width":   {Mode: ModeSimple, Value: MatchRegex(digitsRegex)},
		"height":  {Mode: ModeSimple, Value: MatchRegex(digitsRegex)},
		"loading": {Mode: ModeSimple, Value: MatchList([]string{"eager", "lazy"})},
	})}

	tags["table"] = TagRule{Attributes: global}
	cellAttrs := mergeAttrs(global, map[string]AttrRule{
		"colspan": {Mode: ModeSimple, Value: MatchRegex(digitsRegex)},
		"rowspan": {Mode: ModeSimple, Value: MatchRegex(digitsRegex)},
		"align":   {Mode: ModeSimple, Value: MatchList([]string{"left", "right", "center", "justify"})},
		"valign":  {Mode: ModeSimple, Value: MatchList([]string{"top", "middle", "bottom"})},
	})
	tags["td"] = TagRule{Attributes: cellAttrs}
	tags["th"] = TagRule{Attributes: mergeAttrs(cellAttrs, map[string]AttrRule{
		"scope": {Mode: ModeSimple, Value: MatchList([]string{"row", "col", "rowgroup", "colgroup"})},
	})}

	tags["blockquote"] = TagRule{Attributes: mergeAttrs(global, map[string]AttrRule{
		"cite": {Mode: ModeSimple, Value: linkValue},
	})}
	tags["q"] = TagRule{Attributes: mergeAttrs(global, map[string]AttrRule{
		"cite": {Mode: ModeSimple, Value: linkValue},
	})}
	tags["abbr"] = TagRule{Attributes: mergeAttrs(global, map[string]AttrRule{
		"title": {Mode: ModeSimple, Value: MatchAny()},
	})}

	return &Policy{
		Tags: tags,
		ErrorHandling: ErrorHandling{
			Tag:       DiscardElementTag,
			Attribute: DiscardAttribute,
		},
	}
}

// StrictPolicy returns a Policy allowing only the most basic inline
// formatting tags, no attributes at all, and discarding (rather than
// escaping or unwrapping) anything else — suitable for comment sections
// and other minimal user-generated content surfaces.
func StrictPolicy() *Policy {
	tags := map[string]TagRule{}
	for _, t := range []string{"b", "i", "em", "strong", "br", "p", "ul", "ol", "li"} {
		tags[t] = TagRule{}
	}
	return &Policy{
		Tags: tags,
		ErrorHandling: ErrorHandling{
			Tag:       DiscardElementTag,
			Attribute: DiscardAttribute,
		},
	}
}

func mergeAttrs(base map[string]AttrRule, extra map[string]AttrRule) map[string]AttrRule {
	out := make(map[string]AttrRule, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// mustURLMatcher adapts a urlmatch-built stdlib regexp into a Matcher via
// MatchFunc; presets are built once at init/call time with fixed,
// known-valid protocol/host lists, so a build failure here is a
// programming error rather than a runtime condition to recover from.
func mustURLMatcher(protocols, hosts []string, allowRelative bool) Matcher {
	re, err := urlmatch.BuildAllowedURLRegex(protocols, hosts, allowRelative)
	if err != nil {
		panic("htmlsanitizer: preset URL pattern: " + err.Error())
	}
	return MatchFunc(re.MatchString)
}
