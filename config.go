package htmlsanitizer

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/dlclark/regexp2"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// wirePolicy is the JSON/YAML-serializable shape of a Policy, per spec.md
// §6's "wire/JSON-serializable equivalents required for testing". It exists
// because Matcher and the strategy enums are not themselves friendly
// unmarshal targets (Matcher is a tagged struct with an unexported kind;
// the strategies are typed strings but the zero value carries meaning).
type wirePolicy struct {
	Tags             map[string]wireTagRule `yaml:"tags,omitempty" json:"tags,omitempty" validate:"dive"`
	TopLevelLimits   wireLimits             `yaml:"topLevelLimits,omitempty" json:"topLevelLimits,omitempty"`
	PreserveComments bool                   `yaml:"preserveComments,omitempty" json:"preserveComments,omitempty"`
	ErrorHandling    wireErrorHandling      `yaml:"errorHandling,omitempty" json:"errorHandling,omitempty"`
	CompactOutput    bool                   `yaml:"compactOutput,omitempty" json:"compactOutput,omitempty"`
}

type wireLimits struct {
	Children int `yaml:"children,omitempty" json:"children,omitempty" validate:"gte=0"`
	Nesting  int `yaml:"nesting,omitempty" json:"nesting,omitempty" validate:"gte=0"`
}

type wireTagRule struct {
	Attributes map[string]wireAttrRule `yaml:"attributes,omitempty" json:"attributes,omitempty" validate:"dive"`
	Limits     wireLimits              `yaml:"limits,omitempty" json:"limits,omitempty"`
}

type wireMatcher struct {
	Kind  string   `yaml:"kind,omitempty" json:"kind,omitempty" validate:"omitempty,oneof=any string list regex bool"`
	Str   string   `yaml:"str,omitempty" json:"str,omitempty"`
	List  []string `yaml:"list,omitempty" json:"list,omitempty"`
	Regex string   `yaml:"regex,omitempty" json:"regex,omitempty"`
	Bool  bool     `yaml:"bool,omitempty" json:"bool,omitempty"`
}

type wireAttrRule struct {
	Mode              string                 `yaml:"mode" json:"mode" validate:"required,oneof=simple set record"`
	DefaultValue      string                 `yaml:"defaultValue,omitempty" json:"defaultValue,omitempty"`
	MaxLength         int                    `yaml:"maxLength,omitempty" json:"maxLength,omitempty" validate:"gte=0"`
	Required          bool                   `yaml:"required,omitempty" json:"required,omitempty"`
	Value             wireMatcher            `yaml:"value,omitempty" json:"value,omitempty"`
	Delimiter         string                 `yaml:"delimiter,omitempty" json:"delimiter,omitempty"`
	MaxEntries        int                    `yaml:"maxEntries,omitempty" json:"maxEntries,omitempty" validate:"gte=0"`
	Values            wireMatcher            `yaml:"values,omitempty" json:"values,omitempty"`
	EntrySeparator    string                 `yaml:"entrySeparator,omitempty" json:"entrySeparator,omitempty"`
	KeyValueSeparator string                 `yaml:"keyValueSeparator,omitempty" json:"keyValueSeparator,omitempty"`
	KeyValues         map[string]wireMatcher `yaml:"keyValues,omitempty" json:"keyValues,omitempty" validate:"dive"`
}

type wireErrorHandling struct {
	CollectionTooMany string `yaml:"collectionTooMany,omitempty" json:"collectionTooMany,omitempty"`
	RecordDuplicate   string `yaml:"recordDuplicate,omitempty" json:"recordDuplicate,omitempty"`
	RecordValue       string `yaml:"recordValue,omitempty" json:"recordValue,omitempty"`
	SetValue          string `yaml:"setValue,omitempty" json:"setValue,omitempty"`
	ValueTooLong      string `yaml:"valueTooLong,omitempty" json:"valueTooLong,omitempty"`
	AttributeValue    string `yaml:"attributeValue,omitempty" json:"attributeValue,omitempty"`
	Attribute         string `yaml:"attribute,omitempty" json:"attribute,omitempty"`
	Tag               string `yaml:"tag,omitempty" json:"tag,omitempty"`
	TagChildren       string `yaml:"tagChildren,omitempty" json:"tagChildren,omitempty"`
	TagNesting        string `yaml:"tagNesting,omitempty" json:"tagNesting,omitempty"`
}

var policyValidator = validator.New()

// LoadPolicyYAML decodes a Policy from YAML read from r, validating its
// structural constraints (non-negative limits, a recognized mode per
// attribute rule) before converting it to the runtime Policy shape.
func LoadPolicyYAML(r io.Reader) (*Policy, error) {
	var w wirePolicy
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("htmlsanitizer: decode policy yaml: %w", err)
	}
	return loadWirePolicy(&w)
}

// LoadPolicyJSON decodes a Policy from JSON read from r, applying the same
// validation and conversion as LoadPolicyYAML.
func LoadPolicyJSON(r io.Reader) (*Policy, error) {
	var w wirePolicy
	dec := json.NewDecoder(r)
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("htmlsanitizer: decode policy json: %w", err)
	}
	return loadWirePolicy(&w)
}

func loadWirePolicy(w *wirePolicy) (*Policy, error) {
	if err := policyValidator.Struct(w); err != nil {
		return nil, fmt.Errorf("htmlsanitizer: invalid policy: %w", err)
	}

	tags := make(map[string]TagRule, len(w.Tags))
	for name, wt := range w.Tags {
		attrs := make(map[string]AttrRule, len(wt.Attributes))
		for attrName, wa := range wt.Attributes {
			ar, err := wa.toAttrRule()
			if err != nil {
				return nil, fmt.Errorf("htmlsanitizer: tag %q attribute %q: %w", name, attrName, err)
			}
			attrs[attrName] = ar
		}
		tags[name] = TagRule{
			Attributes: attrs,
			Limits:     Limits{Children: wt.Limits.Children, Nesting: wt.Limits.Nesting},
		}
	}

	p := &Policy{
		Tags:             tags,
		TopLevelLimits:   Limits{Children: w.TopLevelLimits.Children, Nesting: w.TopLevelLimits.Nesting},
		PreserveComments: w.PreserveComments,
		CompactOutput:    w.CompactOutput,
		ErrorHandling: ErrorHandling{
			CollectionTooMany: CollectionTooManyStrategy(w.ErrorHandling.CollectionTooMany),
			RecordDuplicate:   RecordDuplicateStrategy(w.ErrorHandling.RecordDuplicate),
			RecordValue:       RecordValueStrategy(w.ErrorHandling.RecordValue),
			SetValue:          SetValueStrategy(w.ErrorHandling.SetValue),
			ValueTooLong:      ValueTooLongStrategy(w.ErrorHandling.ValueTooLong),
			AttributeValue:    AttributeValueStrategy(w.ErrorHandling.AttributeValue),
			Attribute:         AttributeStrategy(w.ErrorHandling.Attribute),
			Tag:               TagStrategy(w.ErrorHandling.Tag),
			TagChildren:       TagChildrenStrategy(w.ErrorHandling.TagChildren),
			TagNesting:        TagNestingStrategy(w.ErrorHandling.TagNesting),
		},
	}

	if p.ErrorHandling.Tag == "" {
		slog.Warn("htmlsanitizer: policy has no tag-level error strategy, defaulting to throwError")
	}

	return p, nil
}

func (wa wireAttrRule) toAttrRule() (AttrRule, error) {
	ar := AttrRule{
		Mode:              AttrMode(wa.Mode),
		DefaultValue:      wa.DefaultValue,
		MaxLength:         wa.MaxLength,
		Required:          wa.Required,
		Delimiter:         wa.Delimiter,
		MaxEntries:        wa.MaxEntries,
		EntrySeparator:    wa.EntrySeparator,
		KeyValueSeparator: wa.KeyValueSeparator,
	}

	switch ar.Mode {
	case ModeSimple:
		m, err := wa.Value.toMatcher()
		if err != nil {
			return AttrRule{}, err
		}
		ar.Value = m
	case ModeSet:
		m, err := wa.Values.toMatcher()
		if err != nil {
			return AttrRule{}, err
		}
		ar.Values = m
	case ModeRecord:
		ar.KeyValues = make(map[string]Matcher, len(wa.KeyValues))
		for k, wm := range wa.KeyValues {
			m, err := wm.toMatcher()
			if err != nil {
				return AttrRule{}, fmt.Errorf("key %q: %w", k, err)
			}
			ar.KeyValues[k] = m
		}
	default:
		return AttrRule{}, fmt.Errorf("unknown attribute mode %q", wa.Mode)
	}

	return ar, nil
}

func (wm wireMatcher) toMatcher() (Matcher, error) {
	switch wm.Kind {
	case "", "any":
		return MatchAny(), nil
	case "string":
		return MatchString(wm.Str), nil
	case "list":
		return MatchList(wm.List), nil
	case "regex":
		re, err := regexp2.Compile(wm.Regex, regexp2.None)
		if err != nil {
			return Matcher{}, fmt.Errorf("invalid regex %q: %w", wm.Regex, err)
		}
		return MatchRegex(re), nil
	case "bool":
		return MatchBool(wm.Bool), nil
	default:
		return Matcher{}, fmt.Errorf("unknown matcher kind %q", wm.Kind)
	}
}
