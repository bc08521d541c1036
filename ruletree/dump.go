package ruletree

import (
	"fmt"
	"io"
	"os"

	"github.com/npillmayer/cascade/dom/style"
	tp "github.com/xlab/treeprint"
)

// Dump writes the tree to w, one line per node, indented by depth.
// Every node shows its cascade level and its declarations, read using guards.
func (tree *RuleTree) Dump(w io.Writer, guards *style.Guards) error {
	p := tp.NewWithRoot(fmt.Sprintf("RuleTree(created=%d live=%d)",
		tree.created.Load(), tree.Stats().Live()))
	for _, child := range tree.root.Children() {
		dumpNode(p, child, guards)
	}
	_, err := io.WriteString(w, p.String())
	return err
}

// DumpStdout prints the tree to stdout.
func (tree *RuleTree) DumpStdout(guards *style.Guards) {
	if err := tree.Dump(os.Stdout, guards); err != nil {
		tracer().Errorf("cannot dump rule tree: %v", err)
	}
}

func dumpNode(p tp.Tree, node *RuleNode, guards *style.Guards) {
	label := nodeLabel(node, guards)
	children := node.Children()
	if len(children) == 0 {
		p.AddNode(label)
		return
	}
	branch := p.AddBranch(label)
	for _, ch := range children {
		dumpNode(branch, ch, guards)
	}
}

func nodeLabel(node *RuleNode, guards *style.Guards) string {
	decls := node.source.Read(node.level.Guard(guards))
	summary := ""
	for i, d := range decls.All() {
		if i > 0 {
			summary += "; "
		}
		summary += d.String()
	}
	if sel := node.source.Selector(); sel != "" {
		return fmt.Sprintf("%s %s {%s}", node.level, sel, summary)
	}
	return fmt.Sprintf("%s {%s}", node.level, summary)
}
