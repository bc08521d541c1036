package cssom

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/cascade/ruletree"
	"golang.org/x/net/html"
)

// ErrInvalidSelector is wrapped by errors for rules whose selectors cannot
// be compiled. Such rules are skipped.
var ErrInvalidSelector = errors.New("invalid selector")

// compiledRule is a single selector out of a rule's selector list.
type compiledRule struct {
	sel    cascadia.Sel
	pseudo ruletree.PseudoElement
	source ruletree.StyleSource
	level  ruletree.CascadeLevel
	order  uint32 // position of the rule over all stylesheets
}

// Matcher finds the rules applying to an element. A matcher is immutable
// after creation and may be used by concurrent style resolution workers.
type Matcher struct {
	rules []compiledRule
}

// NewMatcher compiles the selectors of the rules of sheets. Stylesheets are
// expected in document order. Rules with invalid selectors are skipped; the
// returned error lists them, but the matcher is usable nevertheless.
func NewMatcher(sheets ...StyleSheet) (*Matcher, error) {
	m := &Matcher{}
	var errs []error
	var order uint32
	for _, sheet := range sheets {
		if sheet == nil || sheet.Empty() {
			continue
		}
		level := NormalLevel(sheet.Origin())
		for _, r := range sheet.Rules() {
			order++
			group, err := cascadia.ParseGroupWithPseudoElements(r.Selector())
			if err != nil {
				tracer().Infof("skipping rule %q: %v", r.Selector(), err)
				errs = append(errs, fmt.Errorf("%w %q: %v", ErrInvalidSelector, r.Selector(), err))
				continue
			}
			source := ruletree.FromRule(r.Selector(), r.Declarations())
			for _, sel := range group {
				pseudo, ok := PseudoElementFromName(sel.PseudoElement())
				if !ok {
					tracer().Debugf("ignoring unsupported pseudo-element in %q", sel.String())
					continue
				}
				m.rules = append(m.rules, compiledRule{
					sel:    sel,
					pseudo: pseudo,
					source: source,
					level:  level,
					order:  order,
				})
			}
		}
	}
	tracer().Debugf("matcher compiled %d selectors", len(m.rules))
	return m, errors.Join(errs...)
}

// Size returns the number of compiled selectors.
func (m *Matcher) Size() int {
	return len(m.rules)
}

// Match returns the rules applying to element el (pseudo == PseudoNone) or
// to one of its pseudo-elements. The result is in normal cascade order,
// ready to be handed to ruletree.ComputeRuleNode. A rule with more than one
// matching selector is listed once, with the highest specificity.
func (m *Matcher) Match(el *html.Node, pseudo ruletree.PseudoElement) []ruletree.ApplicableDeclaration {
	if el == nil || el.Type != html.ElementNode {
		return nil
	}
	var decls []ruletree.ApplicableDeclaration
	seen := make(map[uint32]int)
	for _, r := range m.rules {
		if r.pseudo != pseudo || !r.sel.Match(el) {
			continue
		}
		spec := PackSpecificity(r.sel.Specificity())
		if i, ok := seen[r.order]; ok {
			decls[i].Specificity = max(decls[i].Specificity, spec)
			continue
		}
		seen[r.order] = len(decls)
		decls = append(decls, ruletree.ApplicableDeclaration{
			Source:      r.source,
			Level:       r.level,
			Specificity: spec,
			SourceOrder: r.order,
		})
	}
	SortApplicable(decls)
	return decls
}

// SortApplicable sorts declarations into normal cascade order: by cascade
// level, then by specificity, then by source order.
func SortApplicable(decls []ruletree.ApplicableDeclaration) {
	slices.SortStableFunc(decls, func(a, b ruletree.ApplicableDeclaration) int {
		if c := a.Level.Compare(b.Level); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Specificity, b.Specificity); c != 0 {
			return c
		}
		return cmp.Compare(a.SourceOrder, b.SourceOrder)
	})
}

// PackSpecificity folds a selector specificity (a, b, c) into a single
// integer, preserving its order. Components are capped at 1023.
func PackSpecificity(s cascadia.Specificity) uint32 {
	var packed uint32
	for _, v := range s {
		packed = packed<<10 | uint32(min(max(v, 0), 1023))
	}
	return packed
}

// PseudoElementFromName maps a pseudo-element name as reported by cascadia
// ("before", "first-line", …) to a PseudoElement. The empty name denotes the
// element itself.
func PseudoElementFromName(name string) (ruletree.PseudoElement, bool) {
	switch name {
	case "":
		return ruletree.PseudoNone, true
	case "before":
		return ruletree.PseudoBefore, true
	case "after":
		return ruletree.PseudoAfter, true
	case "first-line":
		return ruletree.PseudoFirstLine, true
	case "first-letter":
		return ruletree.PseudoFirstLetter, true
	case "marker":
		return ruletree.PseudoMarker, true
	case "selection":
		return ruletree.PseudoSelection, true
	case "backdrop":
		return ruletree.PseudoBackdrop, true
	}
	return ruletree.PseudoNone, false
}
