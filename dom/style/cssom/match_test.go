package cssom

import (
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/cascade/dom/style"
	"github.com/npillmayer/cascade/ruletree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

type testRule struct {
	selector string
	block    *style.DeclarationBlock
}

func (r testRule) Selector() string                      { return r.selector }
func (r testRule) Declarations() *style.DeclarationBlock { return r.block }

type testSheet struct {
	origin ruletree.Origin
	rules  []Rule
}

func (s *testSheet) Origin() ruletree.Origin { return s.origin }
func (s *testSheet) Lock() *style.SharedLock { return nil }
func (s *testSheet) Empty() bool             { return len(s.rules) == 0 }
func (s *testSheet) Rules() []Rule           { return s.rules }
func (s *testSheet) AppendRules(other StyleSheet) {
	s.rules = append(s.rules, other.Rules()...)
}

func sheet(origin ruletree.Origin, selectors ...string) *testSheet {
	s := &testSheet{origin: origin}
	for _, sel := range selectors {
		block := style.NewDeclarationBlock(nil, style.Declaration{Key: "color", Value: "red"})
		s.rules = append(s.rules, testRule{sel, block})
	}
	return s
}

func findByID(n *html.Node, id string) *html.Node {
	for _, a := range n.Attr {
		if a.Key == "id" && a.Val == id {
			return n
		}
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if found := findByID(ch, id); found != nil {
			return found
		}
	}
	return nil
}

func TestMatchOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.cssom")
	defer teardown()
	//
	doc, err := html.Parse(strings.NewReader(`<body><p id="x" class="c">text</p></body>`))
	require.NoError(t, err)
	p := findByID(doc, "x")
	require.NotNil(t, p)
	author := sheet(ruletree.OriginAuthor, "#x", "p.c", "p", "div", "p")
	ua := sheet(ruletree.OriginUserAgent, "p")
	m, err := NewMatcher(author, ua)
	require.NoError(t, err)
	decls := m.Match(p, ruletree.PseudoNone)
	require.Len(t, decls, 5)
	assert.Equal(t, ruletree.UANormal, decls[0].Level, "user-agent rules come first")
	assert.Equal(t, "p", decls[1].Source.Selector())
	assert.Equal(t, "p", decls[2].Source.Selector())
	assert.Less(t, decls[1].SourceOrder, decls[2].SourceOrder, "equal specificity keeps source order")
	assert.Equal(t, "p.c", decls[3].Source.Selector())
	assert.Equal(t, "#x", decls[4].Source.Selector())
}

func TestMatchPseudoElements(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.cssom")
	defer teardown()
	//
	doc, err := html.Parse(strings.NewReader(`<body><p id="x">text</p></body>`))
	require.NoError(t, err)
	p := findByID(doc, "x")
	m, err := NewMatcher(sheet(ruletree.OriginAuthor, "p::before", "p, p::after"))
	require.NoError(t, err)
	assert.Len(t, m.Match(p, ruletree.PseudoNone), 1)
	assert.Len(t, m.Match(p, ruletree.PseudoBefore), 1)
	assert.Len(t, m.Match(p, ruletree.PseudoAfter), 1)
	assert.Empty(t, m.Match(p, ruletree.PseudoMarker))
}

func TestMatchRuleOnceWithHighestSpecificity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.cssom")
	defer teardown()
	//
	doc, err := html.Parse(strings.NewReader(`<body><p id="x">text</p></body>`))
	require.NoError(t, err)
	m, err := NewMatcher(sheet(ruletree.OriginAuthor, "p, #x"))
	require.NoError(t, err)
	decls := m.Match(findByID(doc, "x"), ruletree.PseudoNone)
	require.Len(t, decls, 1)
	assert.Equal(t, PackSpecificity(cascadia.Specificity{1, 0, 0}), decls[0].Specificity)
}

func TestInvalidSelectorIsSkipped(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.cssom")
	defer teardown()
	//
	m, err := NewMatcher(sheet(ruletree.OriginAuthor, "p", "p[[", "div"))
	assert.ErrorIs(t, err, ErrInvalidSelector)
	require.NotNil(t, m)
	assert.Equal(t, 2, m.Size())
}

func TestPackSpecificity(t *testing.T) {
	assert.Less(t, PackSpecificity(cascadia.Specificity{0, 5, 9}), PackSpecificity(cascadia.Specificity{1, 0, 0}))
	assert.Less(t, PackSpecificity(cascadia.Specificity{0, 0, 9}), PackSpecificity(cascadia.Specificity{0, 1, 0}))
	assert.Equal(t, uint32(1<<20|2<<10|3), PackSpecificity(cascadia.Specificity{1, 2, 3}))
}

func TestNormalLevel(t *testing.T) {
	assert.Equal(t, ruletree.UANormal, NormalLevel(ruletree.OriginUserAgent))
	assert.Equal(t, ruletree.UserNormal, NormalLevel(ruletree.OriginUser))
	assert.Equal(t, ruletree.AuthorNormal(0), NormalLevel(ruletree.OriginAuthor))
}
