package douceuradapter

import (
	"strings"
	"testing"

	"github.com/npillmayer/cascade/dom/style"
	"github.com/npillmayer/cascade/ruletree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

var myhtml = `
<html><head>
<style>
  body { border-color: red; }
</style>
</head><body>
  <p>The quick brown fox jumps over the lazy dog.</p>
  <p id="world">Hello <b>World</b>!</p>
  <style>
    p { padding: 3px 6px !important }
    @media print { p { color: black } }
  </style>
</body>
`

func TestExtractStyleElements(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.cssom")
	defer teardown()
	//
	doc, err := html.Parse(strings.NewReader(myhtml))
	require.NoError(t, err)
	lock := style.NewSharedLock("author")
	sheets, err := ExtractStyleElements(doc, lock)
	require.NoError(t, err)
	require.Len(t, sheets, 2)
	assert.Equal(t, ruletree.OriginAuthor, sheets[0].Origin())
	require.Len(t, sheets[1].Rules(), 1, "at-rules are skipped")
	r := sheets[1].Rules()[0]
	assert.Equal(t, "p", r.Selector())
	g := lock.Read()
	defer g.Release()
	decls := r.Declarations().ReadWith(g)
	assert.True(t, decls.AnyImportant())
	assert.False(t, decls.AnyNormal())
	d, ok := decls.Get("padding-left")
	require.True(t, ok)
	assert.Equal(t, style.Property("6px"), d.Value)
	assert.True(t, d.Important)
}

func TestRuleIdentityIsStable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.cssom")
	defer teardown()
	//
	sheet, err := Parse("p { color: red } p { color: red }", ruletree.OriginAuthor, nil)
	require.NoError(t, err)
	rules := sheet.Rules()
	require.Len(t, rules, 2)
	assert.Same(t, rules[0].Declarations(), sheet.Rules()[0].Declarations())
	assert.False(t, rules[0].Declarations().SameAs(rules[1].Declarations()))
	assert.True(t, rules[0].Declarations().Equal(rules[1].Declarations()))
}

func TestAppendRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.cssom")
	defer teardown()
	//
	lock := style.NewSharedLock("author")
	s1, err := Parse("p { color: red }", ruletree.OriginAuthor, lock)
	require.NoError(t, err)
	s2, err := Parse("div { color: blue }", ruletree.OriginAuthor, lock)
	require.NoError(t, err)
	s1.AppendRules(s2)
	assert.Len(t, s1.Rules(), 2)
	other, err := Parse("div { color: blue }", ruletree.OriginAuthor, style.NewSharedLock("other"))
	require.NoError(t, err)
	s1.AppendRules(other)
	assert.Len(t, s1.Rules(), 2, "rules under a different lock are not appended")
}

func TestParseInlineStyle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.cssom")
	defer teardown()
	//
	block, err := ParseInlineStyle("margin: 1px 2px; color: green !important", nil)
	require.NoError(t, err)
	decls := block.ReadWith(nil)
	assert.Equal(t, 5, decls.Len())
	d, ok := decls.Get("color")
	require.True(t, ok)
	assert.True(t, d.Important)
	d, _ = decls.Get("margin-right")
	assert.Equal(t, style.Property("2px"), d.Value)
}

func TestUserAgentStyles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.cssom")
	defer teardown()
	//
	ua, err := UserAgentStyles("", nil)
	require.NoError(t, err)
	assert.Equal(t, ruletree.OriginUserAgent, ua.Origin())
	assert.False(t, ua.Empty())
}
