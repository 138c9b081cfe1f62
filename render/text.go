// Package render turns a graph.ResultGraph into an indented text tree or a
// Graphviz DOT document, the two output formats cmd/depquery exposes.
package render

import (
	"fmt"
	"io"

	"fortio.org/log"

	"github.com/ldemailly/depquery/graph"
)

// Text writes an indented tree of result starting from root to w. Indirect
// (synthetic) children are printed after direct children, marked with "...".
// A FALSE-expanded child (a cycle back-edge or a leaf stub) is printed with
// its key and target marker only, never descended into. Every key in result has at most one
// Expanded=true incoming edge, so this recursion always terminates without
// needing its own visited set.
func Text(w io.Writer, result graph.ResultGraph, root graph.ModuleKey) {
	log.LogVf("rendering text tree: %d nodes from %s", len(result), root)
	printNode(w, result, root, "")
}

func printNode(w io.Writer, result graph.ResultGraph, key graph.ModuleKey, indent string) {
	node, ok := result[key]
	if !ok {
		log.Warnf("render: %s referenced but missing from result graph", key)
		fmt.Fprintf(w, "%s%s (missing)\n", indent, key)
		return
	}
	fmt.Fprintf(w, "%s%s%s\n", indent, key, marker(node))

	childIndent := indent + "  "
	for _, c := range node.SortedChildren() {
		expanded, _ := node.ChildExpanded(c)
		if !expanded {
			cn, ok := result[c]
			fmt.Fprintf(w, "%s%s%s\n", childIndent, c, markerOrBlank(cn, ok))
			continue
		}
		printNode(w, result, c, childIndent)
	}
	for _, c := range node.SortedIndirectChildren() {
		expanded, _ := node.IndirectChildExpanded(c)
		fmt.Fprintf(w, "%s...%s%s\n", childIndent, c, blankOr(expanded, "", " (unexpanded)"))
		if expanded {
			printNode(w, result, c, childIndent+"  ")
		}
	}
}

func marker(n *graph.ResultNode) string {
	switch {
	case n.IsTarget:
		return " [target]"
	case n.IsTargetParent:
		return " [target-parent]"
	default:
		return ""
	}
}

func markerOrBlank(n *graph.ResultNode, ok bool) string {
	if !ok {
		return ""
	}
	return marker(n)
}

func blankOr(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
