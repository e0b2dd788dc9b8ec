package htmlsanitizer

// Policy defines what HTML a [Sanitize] call considers safe, and how to
// react when it isn't. It is read-only for the duration of a run: build one
// with [DefaultPolicy], [StrictPolicy], [LoadPolicyYAML], or by hand,
// and do not mutate it while a Sanitize call may be using it concurrently.
type Policy struct {
	// Tags maps tag name to the rule admitting it. A tag absent from this
	// map is not admitted; "*" is not consulted at the tag level.
	Tags map[string]TagRule

	// TopLevelLimits bounds the fragment root's direct children and the
	// overall nesting depth from the root. Zero value means unlimited.
	TopLevelLimits Limits

	// PreserveComments keeps comment nodes in the output when true.
	// Default false.
	PreserveComments bool

	// ErrorHandling selects a recovery strategy per violation class. Any
	// zero-value (unset) slot falls back to the next-broader level per the
	// fallback chain in errors.go.
	ErrorHandling ErrorHandling

	// CompactOutput runs the serialized fragment through an HTML minifier
	// after sanitization completes. It never changes what is admitted, only
	// how the admitted output is formatted. Default false. See minify.go.
	CompactOutput bool
}

// Limits bounds an element's (or the fragment root's) direct children count
// and nesting depth. A zero field means unlimited.
type Limits struct {
	Children int
	Nesting  int
}

// hasChildren and hasNesting report whether the respective bound is set.
func (l Limits) hasChildren() bool { return l.Children > 0 }
func (l Limits) hasNesting() bool  { return l.Nesting > 0 }

// TagRule governs one admitted tag: which attributes it may carry, and
// structural limits on its children and per-tag ancestor nesting.
type TagRule struct {
	// Attributes maps attribute name to the rule validating its value. Key
	// "*" is a catch-all fallback consulted when no exact name matches; it
	// is never itself subject to required-attribute enforcement.
	Attributes map[string]AttrRule

	// Limits bounds this tag's direct children count and, via Nesting, how
	// many levels of descendant elements (of any tag) may lie beneath an
	// element of this tag.
	Limits Limits
}

// AttrMode tags which of the three value shapes an AttrRule validates.
type AttrMode string

const (
	ModeSimple AttrMode = "simple"
	ModeSet    AttrMode = "set"
	ModeRecord AttrMode = "record"
)

// AttrRule validates one attribute's value. Mode selects which of Value,
// Values (set), or KeyValues (record) applies; the other shape-specific
// fields are ignored.
type AttrRule struct {
	Mode AttrMode

	// DefaultValue is injected by the applyDefaultValue strategy, either to
	// replace an over-long/invalid value or to satisfy Required when the
	// attribute is absent.
	DefaultValue string
	// MaxLength bounds the raw attribute value's length in code units,
	// enforced before mode-specific parsing. Zero means unlimited.
	MaxLength int
	// Required, when true, causes an absent attribute to be routed through
	// the attributeValue handler (with an empty value) so DefaultValue (if
	// any) can be injected.
	Required bool

	// Value is the Matcher used in ModeSimple.
	Value Matcher

	// Delimiter splits a ModeSet value into tokens (e.g. " " for class).
	Delimiter string
	// MaxEntries bounds the token/pair count after parsing, for both set
	// and record modes. Zero means unlimited.
	MaxEntries int
	// Values is the per-token Matcher used in ModeSet.
	Values Matcher

	// EntrySeparator splits a ModeRecord value into key/value pair tokens
	// (e.g. ";" for a style-like attribute).
	EntrySeparator string
	// KeyValueSeparator splits a pair token into key and value (e.g. ":").
	KeyValueSeparator string
	// KeyValues maps each permitted record key to the Matcher validating
	// its value, used in ModeRecord.
	KeyValues map[string]Matcher
}

// ErrorHandling selects one strategy per violation class. An empty string
// means "unset"; the handler for that level falls back to the next-broader
// level per the table in errors.go.
type ErrorHandling struct {
	CollectionTooMany CollectionTooManyStrategy
	RecordDuplicate   RecordDuplicateStrategy
	RecordValue       RecordValueStrategy
	SetValue          SetValueStrategy
	ValueTooLong      ValueTooLongStrategy
	AttributeValue    AttributeValueStrategy
	Attribute         AttributeStrategy
	Tag               TagStrategy
	TagChildren       TagChildrenStrategy
	TagNesting        TagNestingStrategy
}
