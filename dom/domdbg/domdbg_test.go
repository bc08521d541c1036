package domdbg

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/npillmayer/cascade/dom/style"
	"github.com/npillmayer/cascade/dom/style/cssom"
	"github.com/npillmayer/cascade/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/cascade/dom/styledtree"
	"github.com/npillmayer/cascade/ruletree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

var myhtml = `<html><head><style>
p { color: red }
p.em { color: blue !important }
</style></head><body><p class="em">Hello</p></body></html>`

func TestGraphViz(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.dom")
	defer teardown()
	//
	htmldoc, err := html.Parse(strings.NewReader(myhtml))
	require.NoError(t, err)
	lock := style.NewSharedLock("all")
	sheets, err := douceuradapter.ExtractStyleElements(htmldoc, lock)
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	matcher, err := cssom.NewMatcher(sheets[0])
	require.NoError(t, err)
	tree := ruletree.New()
	guards := style.SameGuards(lock.Read())
	defer guards.Release()
	doc, err := styledtree.NewStyler(tree, matcher, lock, 2).Build(htmldoc, guards)
	require.NoError(t, err)
	//
	var buf bytes.Buffer
	require.NoError(t, ToGraphViz(tree, &buf, guards, nil))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "digraph g {"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, `label="root" shape=circle`)
	assert.Contains(t, out, "fillcolor=salmon")
	assert.Contains(t, out, "color: blue !important")
	assert.NotContains(t, out, "elem00001")
	//
	buf.Reset()
	require.NoError(t, ToGraphViz(tree, &buf, guards, doc))
	out = buf.String()
	assert.Contains(t, out, `elem00001	[ label="<html>"`)
	assert.Contains(t, out, `style="dashed" label=""`)
}

func TestShortText(t *testing.T) {
	assert.Equal(t, `"a \"b\" c"`, shortText("a \"b\"\tc"))
	long := strings.Repeat("ä", 199) + `"x`
	s := shortText(long)
	assert.True(t, utf8.ValidString(s))
	assert.Equal(t, `"`+strings.Repeat("ä", 199)+`\"..."`, s)
}

func TestDotty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cascade.dom")
	defer teardown()
	//
	if _, err := exec.LookPath("dot"); err != nil {
		t.Skip("GraphViz dot not installed")
	}
	t.Chdir(t.TempDir())
	tree := ruletree.New()
	source := ruletree.FromRule("p", style.NewDeclarationBlock(nil,
		style.Declaration{Key: "color", Value: "red"}))
	tree.InsertOrderedRules([]ruletree.Rule{ruletree.R(source, ruletree.AuthorNormal(0))})
	Dotty(tree, nil, nil, t)
	svgs, err := filepath.Glob("ruletree.*.dot.svg")
	require.NoError(t, err)
	assert.Len(t, svgs, 1)
}
