/*
Package douceuradapter is a concrete implementation of interface cssom.StyleSheet.

CSS parsing is delegated to github.com/aymerick/douceur. Every qualified rule
is converted to a style.DeclarationBlock once, when the stylesheet is
wrapped, so that rule identity is stable for the rule tree.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package douceuradapter

import (
	"fmt"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/cascade/dom/style"
	"github.com/npillmayer/cascade/dom/style/cssom"
	"github.com/npillmayer/cascade/ruletree"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// tracer traces with key 'cascade.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("cascade.cssom")
}

// CSSStyles is an adapter for interface cssom.StyleSheet.
// For an explanation of the motivation behind this design, please refer
// to documentation for interface cssom.StyleSheet.
type CSSStyles struct {
	origin ruletree.Origin
	lock   *style.SharedLock
	rules  []*Rule
}

// Wrap a douceur.css.Stylesheet into CSSStyles, creating the declaration
// blocks under lock. At-rules are not supported and will be skipped.
func Wrap(sheet *css.Stylesheet, origin ruletree.Origin, lock *style.SharedLock) *CSSStyles {
	styles := &CSSStyles{origin: origin, lock: lock}
	if sheet == nil {
		return styles
	}
	for _, r := range sheet.Rules {
		if r.Kind != css.QualifiedRule {
			tracer().Debugf("skipping at-rule %s", r.Name)
			continue
		}
		styles.rules = append(styles.rules, &Rule{
			prelude: r.Prelude,
			block:   style.NewDeclarationBlock(lock, declarations(r.Declarations)...),
		})
	}
	return styles
}

// Parse parses CSS text and wraps the result.
func Parse(text string, origin ruletree.Origin, lock *style.SharedLock) (*CSSStyles, error) {
	sheet, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing %s stylesheet: %w", origin, err)
	}
	return Wrap(sheet, origin, lock), nil
}

// ParseInlineStyle parses the value of a style attribute into a declaration
// block, protected by lock. The block has no selector and is meant to be used
// at the style attribute cascade levels.
func ParseInlineStyle(text string, lock *style.SharedLock) (*style.DeclarationBlock, error) {
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		return nil, fmt.Errorf("parsing style attribute: %w", err)
	}
	return style.NewDeclarationBlock(lock, declarations(decls)...), nil
}

func declarations(decls []*css.Declaration) []style.Declaration {
	ds := make([]style.Declaration, 0, len(decls))
	for _, d := range decls {
		ds = append(ds, style.Declaration{
			Key:       d.Property,
			Value:     style.Property(strings.TrimSpace(d.Value)),
			Important: d.Important,
		})
	}
	return ds
}

// Origin returns the cascade origin of the stylesheet.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) Origin() ruletree.Origin {
	return sheet.origin
}

// Lock returns the lock protecting the declaration blocks of the stylesheet.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) Lock() *style.SharedLock {
	return sheet.lock
}

// Empty checks if this stylesheet contains any rules.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) Empty() bool {
	return len(sheet.rules) == 0
}

// AppendRules appends rules from another stylesheet. Both stylesheets have to
// share a lock.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) AppendRules(other cssom.StyleSheet) {
	if other == nil || other.Empty() {
		return
	}
	if other.Lock() != sheet.lock {
		tracer().Errorf("cannot append rules of stylesheet protected by another lock")
		return
	}
	for _, r := range other.Rules() { // append every rule from other
		sheet.rules = append(sheet.rules, &Rule{prelude: r.Selector(), block: r.Declarations()})
	}
}

// Rules returns all the rules of a stylesheet.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) Rules() []cssom.Rule {
	rules := make([]cssom.Rule, len(sheet.rules))
	for i, r := range sheet.rules {
		rules[i] = r
	}
	return rules
}

var _ cssom.StyleSheet = &CSSStyles{}

// Rule is an adapter for interface cssom.Rule.
type Rule struct {
	prelude string
	block   *style.DeclarationBlock
}

// Selector returns the prelude / selectors of the rule.
func (r *Rule) Selector() string {
	return r.prelude
}

// Declarations returns the body of the rule.
func (r *Rule) Declarations() *style.DeclarationBlock {
	return r.block
}

var _ cssom.Rule = &Rule{}

// ExtractStyleElements visits <head> and <body> elements in an HTML parse
// tree and searches for embedded <style>s. It returns the content of
// style-elements as author style sheets.
func ExtractStyleElements(htmldoc *html.Node, lock *style.SharedLock) ([]*CSSStyles, error) {
	head := findElement(atom.Head, htmldoc)
	body := findElement(atom.Body, htmldoc)
	css, err := extractStyles(head, lock)
	if err != nil {
		return css, err
	}
	css2, err := extractStyles(body, lock)
	return append(css, css2...), err
}

func extractStyles(h *html.Node, lock *style.SharedLock) ([]*CSSStyles, error) {
	if h == nil {
		return nil, nil
	}
	var css []*CSSStyles
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.DataAtom != atom.Style || ch.FirstChild == nil {
			continue
		}
		c, err := Parse(ch.FirstChild.Data, ruletree.OriginAuthor, lock)
		if err != nil {
			return css, err
		}
		css = append(css, c)
	}
	return css, nil
}

func findElement(a atom.Atom, h *html.Node) *html.Node {
	if h == nil {
		return nil
	}
	if h.DataAtom == a {
		return h
	}
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		if r := findElement(a, ch); r != nil {
			return r
		}
	}
	return nil
}
