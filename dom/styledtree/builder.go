package styledtree

import (
	"errors"
	"runtime"
	"slices"

	"github.com/npillmayer/cascade/dom/style"
	"github.com/npillmayer/cascade/dom/style/cssom"
	"github.com/npillmayer/cascade/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/cascade/ruletree"
	"github.com/npillmayer/cascade/tree"
	"golang.org/x/net/html"
)

// ErrNoDocument is returned by Build if the HTML tree contains no element.
var ErrNoDocument = errors.New("no HTML element to style")

// Styler computes rule nodes for the elements of a document.
type Styler struct {
	tree    *ruletree.RuleTree
	matcher *cssom.Matcher
	lock    *style.SharedLock // protects style attributes and animation values
	workers int               // workers per tree walker stage
}

// NewStyler creates a styler, matching rules with matcher and inserting rule
// nodes into tree. Declaration blocks created for style attributes are
// protected by authorLock, which will usually be the lock of the author
// stylesheets. workers limits the number of concurrent goroutines; n ≤ 0
// uses GOMAXPROCS.
func NewStyler(tree *ruletree.RuleTree, matcher *cssom.Matcher, authorLock *style.SharedLock,
	workers int) *Styler {
	//
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Styler{tree: tree, matcher: matcher, lock: authorLock, workers: workers}
}

// Tree returns the rule tree of the styler.
func (s *Styler) Tree() *ruletree.RuleTree {
	return s.tree
}

// Build creates a styled tree for the elements of an HTML parse tree and
// computes their rule nodes. Elements are styled concurrently by a
// tree.Walker, parents before children. guards have to stay valid until
// Build returns.
//
// Malformed style attributes are ignored.
func (s *Styler) Build(doc *html.Node, guards *style.Guards) (*StyNode, error) {
	root := firstElement(doc)
	if root == nil {
		return nil, ErrNoDocument
	}
	sn := NewNodeForHTMLNode(root)
	mirror(sn)
	action := func(n *tree.Node[*StyNode], parent *tree.Node[*StyNode], position int) (*tree.Node[*StyNode], error) {
		s.styleElement(n.Payload, guards)
		return nil, nil
	}
	if _, err := tree.NewWalker(&sn.Node).WithWorkers(s.workers).TopDown(action).Promise()(); err != nil {
		return nil, err
	}
	tracer().Debugf("styled document, rule tree has %d live nodes", s.tree.Stats().Live())
	s.tree.MaybeGC()
	return sn, nil
}

// mirror creates styled nodes for the element children of sn, recursively.
func mirror(sn *StyNode) {
	for h := sn.htmlNode.FirstChild; h != nil; h = h.NextSibling {
		if h.Type == html.ElementNode {
			ch := NewNodeForHTMLNode(h)
			sn.AddChild(&ch.Node)
			mirror(ch)
		}
	}
}

var stylablePseudos = []ruletree.PseudoElement{
	ruletree.PseudoBefore, ruletree.PseudoAfter, ruletree.PseudoMarker,
	ruletree.PseudoFirstLine, ruletree.PseudoFirstLetter, ruletree.PseudoBackdrop,
}

// styleElement computes the rule nodes for an element and its pseudo-elements.
func (s *Styler) styleElement(sn *StyNode, guards *style.Guards) {
	if attr, ok := attribute(sn.htmlNode, "style"); ok {
		block, err := douceuradapter.ParseInlineStyle(attr, s.lock)
		if err != nil {
			tracer().Infof("ignoring style attribute of %s: %v", sn, err)
		} else {
			sn.mu.Lock()
			sn.styleAttr = block
			sn.mu.Unlock()
		}
	}
	sn.setRuleNode(ruletree.PseudoNone, s.computePrimary(sn, guards))
	for _, pseudo := range stylablePseudos {
		decls := s.matcher.Match(sn.htmlNode, pseudo)
		if len(decls) == 0 {
			continue
		}
		sn.setRuleNode(pseudo, s.tree.ComputeRuleNode(&decls, guards))
	}
}

// computePrimary matches the rules for an element and computes its rule node.
// animations are rules at animation levels, in cascade order, which
// complete the list of matched rules.
func (s *Styler) computePrimary(sn *StyNode, guards *style.Guards, animations ...ruletree.Rule) *ruletree.RuleNode {
	decls := s.matcher.Match(sn.htmlNode, ruletree.PseudoNone)
	if attr := sn.StyleAttribute(); attr != nil {
		decls = append(decls, ruletree.ApplicableDeclaration{
			Source: ruletree.FromDeclarations(attr),
			Level:  ruletree.StyleAttributeNormal,
		})
	}
	for _, r := range animations {
		decls = append(decls, ruletree.ApplicableDeclaration{Source: r.Source, Level: r.Level})
	}
	return s.tree.ComputeRuleNode(&decls, guards)
}

// animationRules collects the rules at animation levels from a path, in
// cascade order.
func animationRules(path *ruletree.RuleNode) []ruletree.Rule {
	var rules []ruletree.Rule
	for n := range path.SelfAndAncestors() {
		if !n.IsRoot() && n.Level().IsAnimation() {
			rules = append(rules, ruletree.R(n.Source(), n.Level()))
		}
	}
	slices.Reverse(rules)
	return rules
}

// --- Incremental restyling -------------------------------------------------

// SetStyleAttribute replaces the style attribute of an element and updates
// its rule node. If the change affects important declarations, the rule node
// is re-computed from scratch.
func (s *Styler) SetStyleAttribute(sn *StyNode, text string, guards *style.Guards) error {
	var source *ruletree.StyleSource
	var block *style.DeclarationBlock
	if text != "" {
		var err error
		if block, err = douceuradapter.ParseInlineStyle(text, s.lock); err != nil {
			return err
		}
		src := ruletree.FromDeclarations(block)
		source = &src
	}
	sn.mu.Lock()
	sn.styleAttr = block
	sn.mu.Unlock()
	path := sn.PrimaryRuleNode()
	animations := animationRules(path)
	path, _, _ = s.tree.UpdateRuleAtLevel(ruletree.StyleAttributeNormal, source, path, guards)
	path, _, importantChanged := s.tree.UpdateRuleAtLevel(ruletree.StyleAttributeImportant, source, path, guards)
	if importantChanged {
		tracer().Debugf("important rules of %s changed, re-computing rule node", sn)
		path = s.computePrimary(sn, guards, animations...)
	}
	sn.setRuleNode(ruletree.PseudoNone, path)
	return nil
}

// SetAnimation places animation values at the animation level of an
// element. A nil block removes the animation values.
func (s *Styler) SetAnimation(sn *StyNode, block *style.DeclarationBlock, guards *style.Guards) {
	var source *ruletree.StyleSource
	if block != nil {
		src := ruletree.FromDeclarations(block)
		source = &src
	}
	if path, replaced, _ := s.tree.UpdateRuleAtLevel(ruletree.Animations, source, sn.PrimaryRuleNode(), guards); replaced {
		sn.setRuleNode(ruletree.PseudoNone, path)
	}
}

// SetTransition places transition values at the transition level of an
// element, replacing former transition values. A nil block removes them.
func (s *Styler) SetTransition(sn *StyNode, block *style.DeclarationBlock, guards *style.Guards) {
	path := sn.PrimaryRuleNode()
	if block == nil {
		path = s.tree.RemoveTransitionRuleIfApplicable(path)
	} else {
		path = s.tree.AddAnimationRulesAtTransitionLevel(path, block, guards)
	}
	sn.setRuleNode(ruletree.PseudoNone, path)
}

// ClearAnimations removes all animation and transition values from an element.
func (s *Styler) ClearAnimations(sn *StyNode) {
	sn.setRuleNode(ruletree.PseudoNone, s.tree.RemoveAnimationRules(sn.PrimaryRuleNode()))
}

// AnimationValues creates a declaration block for animation or transition
// values, protected by the styler's lock.
func (s *Styler) AnimationValues(decls ...style.Declaration) *style.DeclarationBlock {
	return style.NewDeclarationBlock(s.lock, decls...)
}

// --- Helpers ---------------------------------------------------------------

func firstElement(h *html.Node) *html.Node {
	if h == nil {
		return nil
	}
	if h.Type == html.ElementNode {
		return h
	}
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		if el := firstElement(ch); el != nil {
			return el
		}
	}
	return nil
}

func attribute(h *html.Node, key string) (string, bool) {
	for _, a := range h.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
