package render

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/log"

	"github.com/ldemailly/depquery/graph"
)

var (
	targetColor       = "lightsalmon"
	targetParentColor = "lightgoldenrodyellow"
	plainColor        = "lightblue"
	indirectColor     = "grey"
)

// Dot writes result as a Graphviz digraph to w. Expanded direct edges are
// solid, indirect (elided-ancestor) edges are dashed, and FALSE-expanded
// direct edges (cycle back-edges, leaf stubs) are dotted and point at a node
// already defined elsewhere in the document so Graphviz still renders a
// single shared box.
func Dot(w io.Writer, result graph.ResultGraph) {
	log.LogVf("rendering dot graph: %d nodes", len(result))
	fmt.Fprintln(w, "digraph depquery {")
	fmt.Fprintln(w, "  rankdir=\"TB\";")
	fmt.Fprintln(w, "  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\"];")
	fmt.Fprintln(w, "  edge [fontname=\"Helvetica\", fontsize=10];")

	fmt.Fprintln(w, "\n  // nodes")
	for _, key := range result.SortedKeys() {
		node := result[key]
		color := plainColor
		switch {
		case node.IsTarget:
			color = targetColor
		case node.IsTargetParent:
			color = targetParentColor
		}
		fmt.Fprintf(w, "  %q [label=%q, fillcolor=%q];\n", key.String(), key.String(), color)
	}

	fmt.Fprintln(w, "\n  // edges")
	for _, key := range result.SortedKeys() {
		node := result[key]
		for _, c := range node.SortedChildren() {
			expanded, _ := node.ChildExpanded(c)
			edgeAttrs := []string{}
			if !expanded {
				edgeAttrs = append(edgeAttrs, "style=\"dotted\"")
			}
			fmt.Fprintf(w, "  %q -> %q [%s];\n", key.String(), c.String(), strings.Join(edgeAttrs, ", "))
		}
		for _, c := range node.SortedIndirectChildren() {
			fmt.Fprintf(w, "  %q -> %q [style=\"dashed\", color=%q];\n", key.String(), c.String(), indirectColor)
		}
	}

	fmt.Fprintln(w, "}")
}
