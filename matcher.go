package htmlsanitizer

import "github.com/dlclark/regexp2"

// matcherKind tags which payload field of a Matcher is active.
type matcherKind int

const (
	matcherNone matcherKind = iota
	matcherAny
	matcherString
	matcherList
	matcherRegex
	matcherFunc
	matcherBool
)

// Matcher is a declarative predicate over a single string value: wildcard,
// an exact string, a list of strings (membership), a compiled regular
// expression, a user predicate, or a boolean matching emptiness. The zero
// Matcher matches nothing, so a rule left uninitialized fails closed.
type Matcher struct {
	kind matcherKind

	str     string
	list    []string
	regex   *regexp2.Regexp
	fn      func(string) bool
	boolVal bool
}

// MatchAny returns a Matcher that accepts every value.
func MatchAny() Matcher { return Matcher{kind: matcherAny} }

// MatchString returns a Matcher that accepts only values equal to s.
func MatchString(s string) Matcher { return Matcher{kind: matcherString, str: s} }

// MatchList returns a Matcher that accepts any value present in list.
func MatchList(list []string) Matcher {
	return Matcher{kind: matcherList, list: append([]string(nil), list...)}
}

// MatchRegex returns a Matcher that accepts values re.MatchString matches.
func MatchRegex(re *regexp2.Regexp) Matcher { return Matcher{kind: matcherRegex, regex: re} }

// MatchFunc returns a Matcher that delegates to a user predicate.
func MatchFunc(fn func(string) bool) Matcher { return Matcher{kind: matcherFunc, fn: fn} }

// MatchBool returns a Matcher that accepts the empty string when want is
// true, or any non-empty string when want is false.
func MatchBool(want bool) Matcher { return Matcher{kind: matcherBool, boolVal: want} }

// Matches evaluates m against value. It is total: any Matcher outside the
// declared kinds (including the zero Matcher) returns false. Evaluation
// order is fixed — wildcard, then user function, then regex, then exact
// string, then list membership, then boolean-emptiness — and has no side
// effects beyond whatever the user function itself performs.
func Matches(m Matcher, value string) bool {
	switch m.kind {
	case matcherAny:
		return true
	case matcherFunc:
		if m.fn == nil {
			return false
		}
		return m.fn(value)
	case matcherRegex:
		if m.regex == nil {
			return false
		}
		ok, err := m.regex.MatchString(value)
		return err == nil && ok
	case matcherString:
		return value == m.str
	case matcherList:
		for _, s := range m.list {
			if s == value {
				return true
			}
		}
		return false
	case matcherBool:
		if m.boolVal {
			return value == ""
		}
		return value != ""
	default:
		return false
	}
}
