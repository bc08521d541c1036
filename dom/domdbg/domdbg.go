/*
Package domdbg implements helpers to debug a rule tree and the styled
document referencing it.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package domdbg

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"
	"text/template"
	"unicode/utf8"

	"github.com/npillmayer/cascade/dom/style"
	"github.com/npillmayer/cascade/dom/styledtree"
	"github.com/npillmayer/cascade/ruletree"
)

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname     string
	Guards       *style.Guards
	NodeTmpl     *template.Template
	EdgeTmpl     *template.Template
	ElementTmpl  *template.Template
	ElemEdgeTmpl *template.Template
}

// ToGraphViz outputs a diagram for a rule tree. The diagram is in
// GraphViz (DOT) format. Clients have to provide the rule tree, a Writer,
// the guards to read declaration blocks, and an optional styled document.
// If a document is given, its elements are included in the diagram, with
// dashed edges pointing to the rule nodes they reference.
func ToGraphViz(tree *ruletree.RuleTree, w io.Writer, guards *style.Guards, doc *styledtree.StyNode) error {
	tmpl, err := template.New("ruletree").Parse(graphHeadTmpl)
	if err != nil {
		return err
	}
	gparams := graphParamsType{Fontname: "Helvetica", Guards: guards}
	gparams.NodeTmpl = template.Must(template.New("rulenode").Funcs(
		template.FuncMap{
			"shortstring": shortText,
			"label":       func(n *ruletree.RuleNode) string { return nodeLabel(n, guards) },
		}).Parse(ruleNodeTmpl))
	gparams.EdgeTmpl = template.Must(template.New("ruleedge").Parse(ruleEdgeTmpl))
	gparams.ElementTmpl = template.Must(template.New("element").Parse(elementTmpl))
	gparams.ElemEdgeTmpl = template.Must(template.New("elemedge").Parse(elementEdgeTmpl))
	if err = tmpl.Execute(w, gparams); err != nil {
		return err
	}
	dict := make(map[*ruletree.RuleNode]string, 4096)
	if err = nodes(tree.Root(), w, dict, &gparams); err != nil {
		return err
	}
	if doc != nil {
		if err = elements(doc, w, dict, &gparams); err != nil {
			return err
		}
	}
	_, err = w.Write([]byte("}\n"))
	return err
}

// Dotty is a helper for testing. Given a rule tree and a testing.T, it will
// create a Graphiviz image of the tree and write it to a file in the current
// folder, choosing a unique file name.
// The image is in SVG format.
//
// If an error occurs, t.Error(…) will be set, causing the test to fail.
func Dotty(tree *ruletree.RuleTree, guards *style.Guards, doc *styledtree.StyNode, t *testing.T) {
	tmpfile, err := os.CreateTemp(".", "ruletree.*.dot")
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name()) // clean up
	}()
	t.Logf("writing rule tree digraph to %s\n", tmpfile.Name())
	if err := ToGraphViz(tree, tmpfile, guards, doc); err != nil {
		t.Error(err)
		return
	}
	outOption := fmt.Sprintf("-o%s.svg", tmpfile.Name())
	cmd := exec.Command("dot", "-Tsvg", outOption, tmpfile.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	t.Logf("writing rule tree image to %s.svg\n", tmpfile.Name())
	if err := cmd.Run(); err != nil {
		t.Error(err.Error())
	}
}

type node struct {
	N    *ruletree.RuleNode
	Name string
}

func nodes(n *ruletree.RuleNode, w io.Writer, dict map[*ruletree.RuleNode]string,
	gparams *graphParamsType) error {
	//
	if err := ruleNode(n, w, dict, gparams); err != nil {
		return err
	}
	for _, ch := range n.Children() {
		if err := nodes(ch, w, dict, gparams); err != nil {
			return err
		}
		e := edge{node{n, dict[n]}, node{ch, dict[ch]}}
		if err := gparams.EdgeTmpl.Execute(w, e); err != nil {
			return err
		}
	}
	return nil
}

func ruleNode(n *ruletree.RuleNode, w io.Writer, dict map[*ruletree.RuleNode]string,
	gparams *graphParamsType) error {
	//
	name := dict[n]
	if name == "" {
		name = fmt.Sprintf("node%05d", len(dict)+1)
		dict[n] = name
	}
	return gparams.NodeTmpl.Execute(w, &node{n, name})
}

type edge struct {
	N1, N2 node
}

type element struct {
	Name  string
	Label string
}

type elemEdge struct {
	Element string
	Rule    string
	Pseudo  string
}

func elements(doc *styledtree.StyNode, w io.Writer, dict map[*ruletree.RuleNode]string,
	gparams *graphParamsType) error {
	//
	var err error
	count := 0
	doc.Walk(func(sn *styledtree.StyNode) {
		if err != nil {
			return
		}
		count++
		name := fmt.Sprintf("elem%05d", count)
		if err = gparams.ElementTmpl.Execute(w, element{name, sn.String()}); err != nil {
			return
		}
		for _, pseudo := range allPseudos {
			rules := sn.RuleNode(pseudo)
			if rules == nil || dict[rules] == "" {
				continue
			}
			err = gparams.ElemEdgeTmpl.Execute(w, elemEdge{name, dict[rules], pseudo.String()})
			if err != nil {
				return
			}
		}
	})
	return err
}

var allPseudos = []ruletree.PseudoElement{
	ruletree.PseudoNone, ruletree.PseudoBefore, ruletree.PseudoAfter, ruletree.PseudoMarker,
	ruletree.PseudoFirstLine, ruletree.PseudoFirstLetter, ruletree.PseudoBackdrop,
}

func nodeLabel(n *ruletree.RuleNode, guards *style.Guards) string {
	if n.IsRoot() {
		return "root"
	}
	var b strings.Builder
	b.WriteString(n.Level().String())
	if sel := n.Source().Selector(); sel != "" {
		b.WriteString("\\n")
		b.WriteString(sel)
	}
	for _, d := range n.Source().Read(n.Level().Guard(guards)).All() {
		b.WriteString("\\l")
		b.WriteString(d.String())
	}
	return b.String()
}

// shortText quotes a label for DOT, cutting it after maxLabelRunes runes.
func shortText(s string) string {
	if utf8.RuneCountInString(s) > maxLabelRunes {
		s = string([]rune(s)[:maxLabelRunes]) + "..."
	}
	s = strings.ReplaceAll(s, "\"", `\"`)
	s = strings.ReplaceAll(s, "\t", ` `)
	return "\"" + s + "\""
}

const maxLabelRunes = 200

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=14] ;
   node [fontname = "{{ .Fontname }}" fontsize=14] ;
   edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const ruleNodeTmpl = `{{ if .N.IsRoot }}
{{ .Name }}	[ label="root" shape=circle style=filled fillcolor=grey95 ] ;
{{ else if .N.Level.IsImportant }}
{{ .Name }}	[ label={{ label .N | shortstring }} shape=box style=filled fillcolor=salmon fontname="Courier" fontsize=11.0 ] ;
{{ else }}
{{ .Name }}	[ label={{ label .N | shortstring }} shape=box style=filled fillcolor=lightblue3 fontname="Courier" fontsize=11.0 ] ;
{{ end }}
`

const ruleEdgeTmpl = `{{ .N1.Name }} -> {{ .N2.Name }} [weight=1] ;
`

const elementTmpl = `{{ .Name }}	[ label={{ printf "%q" .Label }} shape=ellipse style=filled fillcolor=ivory3 ] ;
`

const elementEdgeTmpl = `{{ .Element }} -> {{ .Rule }} [dir=none weight=0 style="dashed" label={{ printf "%q" .Pseudo }}] ;
`
