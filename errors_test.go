package htmlsanitizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseFragment(t *testing.T, fragment string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader("<body>" + fragment + "</body>"))
	require.NoError(t, err)
	body := findBody(doc)
	require.NotNil(t, body)
	return body.FirstChild
}

func TestHandleTag_ThrowErrorIsDefault(t *testing.T) {
	n := parseFragment(t, "<bogus>x</bogus>")
	h := newHandlers(ErrorHandling{})
	proceed, err := h.handleTag(nodeElement{n}, "bogus")
	assert.False(t, proceed)
	require.Error(t, err)
	var sErr *SanitizationError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, "bogus", sErr.Tag)
}

func TestHandleTag_DiscardElement(t *testing.T) {
	n := parseFragment(t, "<bogus>x</bogus>")
	h := newHandlers(ErrorHandling{Tag: DiscardElementTag})
	proceed, err := h.handleTag(nodeElement{n}, "bogus")
	require.NoError(t, err)
	assert.False(t, proceed)
	assert.Nil(t, n.Parent)
}

func TestHandleTag_UnwrapElementRecordsPromotedChildren(t *testing.T) {
	root := parseFragment(t, "<bogus><b>a</b><i>b</i></bogus>")
	h := newHandlers(ErrorHandling{Tag: UnwrapElementTag})
	_, err := h.handleTag(nodeElement{root}, "bogus")
	require.NoError(t, err)
	require.Len(t, h.lastUnwrapped, 2)
	assert.Equal(t, "b", h.lastUnwrapped[0].Data)
	assert.Equal(t, "i", h.lastUnwrapped[1].Data)
}

func TestHandleAttribute_FallsBackToTag(t *testing.T) {
	n := parseFragment(t, `<div onclick="x">hi</div>`)
	h := newHandlers(ErrorHandling{Tag: DiscardElementTag})
	global, local, err := h.handleAttribute(nodeElement{n}, "div", "onclick")
	require.NoError(t, err)
	assert.False(t, global)
	assert.False(t, local)
	assert.Nil(t, n.Parent)
}

func TestHandleAttributeValue_ApplyDefault(t *testing.T) {
	n := parseFragment(t, `<div id="toolong">hi</div>`)
	rule := AttrRule{DefaultValue: "fallback"}
	h := newHandlers(ErrorHandling{AttributeValue: ApplyDefaultValue})
	global, local, err := h.handleAttributeValue(nodeElement{n}, "div", "id", rule)
	require.NoError(t, err)
	assert.True(t, global)
	assert.True(t, local)
	assert.Equal(t, "fallback", nodeElement{n}.getAttr("id"))
}

func TestHandleAttributeValue_ApplyDefaultRemovesWhenNoDefault(t *testing.T) {
	n := parseFragment(t, `<div id="toolong">hi</div>`)
	rule := AttrRule{}
	h := newHandlers(ErrorHandling{AttributeValue: ApplyDefaultValue})
	_, _, err := h.handleAttributeValue(nodeElement{n}, "div", "id", rule)
	require.NoError(t, err)
	assert.False(t, nodeElement{n}.hasAttr("id"))
}

func TestHandleRecordDuplicate_KeepFirstDropsOnlyCurrent(t *testing.T) {
	h := newHandlers(ErrorHandling{RecordDuplicate: KeepFirst})
	n := parseFragment(t, `<div>hi</div>`)
	existing := []kvPair{{key: "a", val: "1"}}
	adjusted, global, local, escalated, err := h.handleRecordDuplicate(nodeElement{n}, "div", "style", AttrRule{}, existing, "a")
	require.NoError(t, err)
	assert.True(t, global)
	assert.False(t, local)
	assert.False(t, escalated)
	assert.Equal(t, existing, adjusted)
}

func TestHandleRecordDuplicate_DropDuplicatesRemovesAll(t *testing.T) {
	h := newHandlers(ErrorHandling{RecordDuplicate: DropDuplicates})
	n := parseFragment(t, `<div>hi</div>`)
	existing := []kvPair{{key: "a", val: "1"}, {key: "b", val: "2"}}
	adjusted, global, local, escalated, err := h.handleRecordDuplicate(nodeElement{n}, "div", "style", AttrRule{}, existing, "a")
	require.NoError(t, err)
	assert.True(t, global)
	assert.False(t, local)
	assert.False(t, escalated)
	assert.Equal(t, []kvPair{{key: "b", val: "2"}}, adjusted)
}

func TestHandleSetValue_EscalatesToAttributeValueWhenUnset(t *testing.T) {
	n := parseFragment(t, `<div class="a b">hi</div>`)
	rule := AttrRule{DefaultValue: "safe"}
	h := newHandlers(ErrorHandling{AttributeValue: ApplyDefaultValue})
	global, local, escalated, err := h.handleSetValue(nodeElement{n}, "div", "class", rule)
	require.NoError(t, err)
	assert.True(t, global)
	assert.True(t, local)
	assert.True(t, escalated)
	assert.Equal(t, "safe", nodeElement{n}.getAttr("class"))
}

func TestHandleCollectionTooMany_DropExtraKeepsPrefix(t *testing.T) {
	n := parseFragment(t, `<div class="a b c">hi</div>`)
	rule := AttrRule{MaxEntries: 2}
	h := newHandlers(ErrorHandling{CollectionTooMany: DropExtra})
	keep, global, local, escalated, err := h.handleCollectionTooMany(nodeElement{n}, "div", "class", rule, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, keep)
	assert.True(t, global)
	assert.True(t, local)
	assert.False(t, escalated)
}
