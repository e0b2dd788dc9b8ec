package htmlsanitizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize_TopLevelNestingBoundaryAllowsOneDeeper(t *testing.T) {
	// Documented open-question decision (see DESIGN.md): rootNesting starts
	// at 0 and is incremented before recursing, compared with strict ">",
	// so a configured limit of N allows elements at root-nesting depth up
	// to N+1 to survive.
	p := &Policy{
		Tags:           map[string]TagRule{"div": {}, "b": {}},
		TopLevelLimits: Limits{Nesting: 2},
		ErrorHandling:  ErrorHandling{TagNesting: DiscardElementNesting},
	}
	got, err := Sanitize(`<div><div><b>ok</b></div></div>`, p)
	require.NoError(t, err)
	assert.Contains(t, got, "ok")
}

func TestSanitize_TopLevelNestingDiscardsBeyondLimit(t *testing.T) {
	p := &Policy{
		Tags:           map[string]TagRule{"div": {}, "b": {}},
		TopLevelLimits: Limits{Nesting: 1},
		ErrorHandling:  ErrorHandling{TagNesting: DiscardElementNesting},
	}
	got, err := Sanitize(`<div><div><b>toodeep</b></div></div>`, p)
	require.NoError(t, err)
	assert.NotContains(t, got, "toodeep")
}

func TestSanitize_PerTagNestingLimit(t *testing.T) {
	p := &Policy{
		Tags: map[string]TagRule{
			"blockquote": {Limits: Limits{Nesting: 1}},
			"p":          {},
		},
		ErrorHandling: ErrorHandling{TagNesting: DiscardElementNesting},
	}
	got, err := Sanitize(`<blockquote><blockquote><p>nested too deep</p></blockquote></blockquote>`, p)
	require.NoError(t, err)
	assert.NotContains(t, got, "nested too deep")
}

func TestSanitize_TagChildrenLimitDiscardFirsts(t *testing.T) {
	p := &Policy{
		Tags: map[string]TagRule{
			"ul": {Limits: Limits{Children: 2}},
			"li": {},
		},
		ErrorHandling: ErrorHandling{TagChildren: DiscardFirsts},
	}
	got, err := Sanitize(`<ul><li>1</li><li>2</li><li>3</li></ul>`, p)
	require.NoError(t, err)
	assert.NotContains(t, got, ">1<")
	assert.Contains(t, got, ">2<")
	assert.Contains(t, got, ">3<")
}

func TestSanitize_ThrowErrorAbortsRun(t *testing.T) {
	p := &Policy{Tags: map[string]TagRule{"p": {}}}
	_, err := Sanitize(`<p>ok</p><script>bad</script>`, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script")
}

func TestSanitize_NilPolicyUsesDefault(t *testing.T) {
	got, err := Sanitize(`<b>hi</b><script>bad</script>`, nil)
	require.NoError(t, err)
	assert.NotContains(t, got, "script")
	assert.Contains(t, got, "hi")
}

func TestSanitize_CompactOutputRunsMinifier(t *testing.T) {
	p := &Policy{
		Tags:          map[string]TagRule{"div": {}, "p": {}},
		CompactOutput: true,
	}
	got, err := Sanitize("<div>\n  <p>  hi  </p>\n</div>", p)
	require.NoError(t, err)
	assert.False(t, strings.Contains(got, "\n  "), "expected whitespace compacted, got %q", got)
}
