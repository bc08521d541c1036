package styledtree

import (
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/cascade/dom/style"
	"github.com/npillmayer/cascade/dom/style/cssom"
	"github.com/npillmayer/cascade/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/cascade/ruletree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

var myhtml = `<html><head>
<style>
p { color: red; padding: 2px }
p.note { color: blue !important }
#x { background-color: yellow }
p::before { content: "*" }
</style>
</head><body>
<p id="x" class="note" style="color: green">one</p>
<p id="y" style="color: green !important">two</p>
<div id="z"><span id="s">three</span></div>
<button id="b">four</button>
</body></html>
`

type fixture struct {
	styler  *Styler
	htmldoc *html.Node
	guards  *style.Guards
}

func setup(t *testing.T, text string, workers int) *fixture {
	t.Helper()
	htmldoc, err := html.Parse(strings.NewReader(text))
	require.NoError(t, err)
	uaLock, authorLock := style.NewSharedLock("ua"), style.NewSharedLock("author")
	ua, err := douceuradapter.UserAgentStyles("", uaLock)
	require.NoError(t, err)
	sheets := []cssom.StyleSheet{ua}
	authors, err := douceuradapter.ExtractStyleElements(htmldoc, authorLock)
	require.NoError(t, err)
	for _, a := range authors {
		sheets = append(sheets, a)
	}
	matcher, err := cssom.NewMatcher(sheets...)
	require.NoError(t, err)
	guards := &style.Guards{Author: authorLock.Read(), UAOrUser: uaLock.Read()}
	t.Cleanup(guards.Release)
	return &fixture{
		styler:  NewStyler(ruletree.New(), matcher, authorLock, workers),
		htmldoc: htmldoc,
		guards:  guards,
	}
}

func findByID(root *StyNode, id string) *StyNode {
	var found *StyNode
	root.Walk(func(sn *StyNode) {
		if v, ok := attribute(sn.HTMLNode(), "id"); ok && v == id {
			found = sn
		}
	})
	return found
}

func TestBuild(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.dom")
	defer teardown()
	//
	f := setup(t, myhtml, 4)
	doc, err := f.styler.Build(f.htmldoc, f.guards)
	require.NoError(t, err)
	assert.Equal(t, "<html>", doc.String())
	x, y, s := findByID(doc, "x"), findByID(doc, "y"), findByID(doc, "s")
	require.NotNil(t, x)
	require.NotNil(t, y)
	require.NotNil(t, s)
	assert.Equal(t, style.Property("blue"), x.GetPropertyValue("color", f.guards),
		"important author rule beats style attribute")
	assert.Equal(t, style.Property("green"), y.GetPropertyValue("color", f.guards))
	assert.Equal(t, style.Property("2px"), x.GetPropertyValue("padding-left", f.guards))
	assert.Equal(t, style.Property("block"), x.GetPropertyValue("display", f.guards))
	assert.Equal(t, style.Property("inline"), s.GetPropertyValue("display", f.guards))
	assert.Equal(t, style.Property("0"), s.GetPropertyValue("padding-top", f.guards), "initial value")
	body := Node(x.Parent())
	assert.Equal(t, style.Property("8px"), body.GetPropertyValue("margin-top", f.guards))
	assert.NotNil(t, x.RuleNode(ruletree.PseudoBefore))
	assert.Nil(t, s.RuleNode(ruletree.PseudoBefore))
	assert.Same(t, x.PrimaryRuleNode(), x.RuleNode(ruletree.PseudoNone))
}

func TestBuildWithoutElements(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.dom")
	defer teardown()
	//
	f := setup(t, myhtml, 1)
	_, err := f.styler.Build(&html.Node{Type: html.DocumentNode}, f.guards)
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestCascadingProperty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.dom")
	defer teardown()
	//
	f := setup(t, `<html><body style="color: navy"><div><span id="s">x</span></div></body></html>`, 2)
	doc, err := f.styler.Build(f.htmldoc, f.guards)
	require.NoError(t, err)
	s := findByID(doc, "s")
	assert.Equal(t, style.Property("navy"), s.GetPropertyValue("color", f.guards))
	assert.Equal(t, style.Property("0"), s.GetPropertyValue("margin-top", f.guards))
}

func TestAuthorSpecifiedRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.dom")
	defer teardown()
	//
	f := setup(t, myhtml, 4)
	doc, err := f.styler.Build(f.htmldoc, f.guards)
	require.NoError(t, err)
	x, s, b := findByID(doc, "x"), findByID(doc, "s"), findByID(doc, "b")
	assert.True(t, x.HasAuthorSpecifiedRules(ruletree.PseudoNone, f.guards, ruletree.AuthorSpecifiedPadding, true))
	assert.True(t, x.HasAuthorSpecifiedRules(ruletree.PseudoNone, f.guards, ruletree.AuthorSpecifiedBackground, true))
	assert.False(t, x.HasAuthorSpecifiedRules(ruletree.PseudoNone, f.guards, ruletree.AuthorSpecifiedBorder, true))
	assert.False(t, s.HasAuthorSpecifiedRules(ruletree.PseudoNone, f.guards, ruletree.AuthorSpecifiedPadding, true))
	assert.False(t, b.HasAuthorSpecifiedRules(ruletree.PseudoNone, f.guards,
		ruletree.AuthorSpecifiedPadding|ruletree.AuthorSpecifiedBorder, true), "user-agent padding only")
	assert.False(t, s.HasAuthorSpecifiedRules(ruletree.PseudoBefore, f.guards, ruletree.AuthorSpecifiedPadding, true))
}

func TestSetStyleAttribute(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.dom")
	defer teardown()
	//
	f := setup(t, myhtml, 4)
	doc, err := f.styler.Build(f.htmldoc, f.guards)
	require.NoError(t, err)
	y := findByID(doc, "y")
	require.NoError(t, f.styler.SetStyleAttribute(y, "color: purple", f.guards))
	assert.Equal(t, style.Property("purple"), y.GetPropertyValue("color", f.guards))
	assert.NotNil(t, y.StyleAttribute())
	require.NoError(t, f.styler.SetStyleAttribute(y, "color: orange !important", f.guards))
	assert.Equal(t, style.Property("orange"), y.GetPropertyValue("color", f.guards))
	assert.True(t, y.PrimaryRuleNode().Level().IsImportant())
	require.NoError(t, f.styler.SetStyleAttribute(y, "", f.guards))
	assert.Equal(t, style.Property("red"), y.GetPropertyValue("color", f.guards))
	assert.Nil(t, y.StyleAttribute())
	// restyling yields the node a fresh computation would give
	require.NoError(t, f.styler.SetStyleAttribute(y, "color: purple", f.guards))
	assert.Same(t, f.styler.computePrimary(y, f.guards), y.PrimaryRuleNode())
}

func TestAnimationsAndTransitions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.dom")
	defer teardown()
	//
	f := setup(t, myhtml, 4)
	doc, err := f.styler.Build(f.htmldoc, f.guards)
	require.NoError(t, err)
	s := findByID(doc, "s")
	plain := s.PrimaryRuleNode()
	f.styler.SetAnimation(s, f.styler.AnimationValues(style.Declaration{Key: "opacity", Value: "0.5"}), f.guards)
	assert.Equal(t, style.Property("0.5"), s.GetPropertyValue("opacity", f.guards))
	assert.True(t, s.PrimaryRuleNode().HasAnimationOrTransitionRules())
	f.styler.SetTransition(s, f.styler.AnimationValues(style.Declaration{Key: "color", Value: "black"}), f.guards)
	assert.Equal(t, ruletree.Transitions, s.PrimaryRuleNode().Level())
	assert.Equal(t, style.Property("black"), s.GetPropertyValue("color", f.guards))
	f.styler.SetTransition(s, nil, f.guards)
	assert.Equal(t, ruletree.Animations, s.PrimaryRuleNode().Level())
	f.styler.ClearAnimations(s)
	assert.Same(t, plain, s.PrimaryRuleNode())
	assert.Equal(t, style.Property("default"), s.GetPropertyValue("color", f.guards))
	f.styler.SetAnimation(s, nil, f.guards)
	assert.Same(t, plain, s.PrimaryRuleNode())
}

func TestConcurrentBuildSharesRuleNodes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.dom")
	defer teardown()
	//
	var b strings.Builder
	b.WriteString(`<html><head><style>
div { padding: 1px } .a { color: red } .b { color: blue !important } p { margin: 0 }
</style></head><body>`)
	for i := range 300 {
		fmt.Fprintf(&b, `<div class="%s"><p style="margin-top: %dpx">x</p><p class="a b">y</p></div>`,
			[]string{"a", "b", "a b"}[i%3], i%7)
	}
	b.WriteString(`</body></html>`)
	f := setup(t, b.String(), 16)
	doc1, err := f.styler.Build(f.htmldoc, f.guards)
	require.NoError(t, err)
	serial := NewStyler(f.styler.Tree(), f.styler.matcher, f.styler.lock, 1)
	doc2, err := serial.Build(f.htmldoc, f.guards)
	require.NoError(t, err)
	// style attributes are parsed into fresh declaration blocks by every build
	collect := func(doc *StyNode) []*ruletree.RuleNode {
		var nodes []*ruletree.RuleNode
		doc.Walk(func(sn *StyNode) {
			if sn.StyleAttribute() == nil {
				nodes = append(nodes, sn.PrimaryRuleNode())
			}
		})
		return nodes
	}
	nodes1, nodes2 := collect(doc1), collect(doc2)
	require.Greater(t, len(nodes1), 600)
	require.Len(t, nodes2, len(nodes1))
	for i := range nodes1 {
		require.Same(t, nodes1[i], nodes2[i], "element #%d", i)
	}
}

func TestImportantStyleAttributeKeepsAnimations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.dom")
	defer teardown()
	//
	f := setup(t, myhtml, 4)
	doc, err := f.styler.Build(f.htmldoc, f.guards)
	require.NoError(t, err)
	s := findByID(doc, "s")
	f.styler.SetAnimation(s, f.styler.AnimationValues(style.Declaration{Key: "opacity", Value: "0.5"}), f.guards)
	f.styler.SetTransition(s, f.styler.AnimationValues(style.Declaration{Key: "color", Value: "black"}), f.guards)
	require.NoError(t, f.styler.SetStyleAttribute(s, "color: red !important; padding: 1px", f.guards))
	path := s.PrimaryRuleNode()
	assert.True(t, path.HasAnimationOrTransitionRules())
	assert.Equal(t, ruletree.Transitions, path.Level(), "transition stays last")
	assert.Equal(t, ruletree.StyleAttributeImportant, path.Parent().Level())
	assert.Equal(t, style.Property("0.5"), s.GetPropertyValue("opacity", f.guards))
	assert.Equal(t, style.Property("black"), s.GetPropertyValue("color", f.guards))
	assert.Equal(t, style.Property("1px"), s.GetPropertyValue("padding-top", f.guards))
	levels := []ruletree.CascadeLevel{}
	for n := range path.SelfAndAncestors() {
		if !n.IsRoot() {
			levels = append(levels, n.Level())
		}
	}
	assert.Contains(t, levels, ruletree.Animations)
	// removing the important declaration re-computes again, animations included
	require.NoError(t, f.styler.SetStyleAttribute(s, "", f.guards))
	assert.True(t, s.PrimaryRuleNode().HasAnimationOrTransitionRules())
	assert.Equal(t, style.Property("black"), s.GetPropertyValue("color", f.guards))
	f.styler.ClearAnimations(s)
	assert.False(t, s.PrimaryRuleNode().HasAnimationOrTransitionRules())
}
