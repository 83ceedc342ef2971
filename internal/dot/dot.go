// Package dot renders a bptree.DumpNode snapshot to a Graphviz diagram,
// walking the in-memory node snapshot rather than paged storage on disk.
package dot

import (
	"cmp"
	"fmt"
	"os"
	"os/exec"

	"github.com/btreeindex/bptree/bptree"
)

// Export writes root as a Graphviz DOT file to path.
func Export[K cmp.Ordered](root *bptree.DumpNode[K], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintln(f, "digraph BPlusTree {")
	fmt.Fprintln(f, "  graph [ranksep=0.8, nodesep=0.5, bgcolor=\"#ffffff\", rankdir=TB];")
	fmt.Fprintln(f, "  node [shape=none, fontname=\"Helvetica\", fontsize=10];")
	fmt.Fprintln(f, "  edge [arrowsize=0.8, color=\"#444444\"];")

	counter := 0
	var leafNames []string

	var walk func(n *bptree.DumpNode[K]) string
	walk = func(n *bptree.DumpNode[K]) string {
		name := fmt.Sprintf("node%d", counter)
		counter++

		if n.Leaf {
			label := fmt.Sprintf(`<<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0" CELLPADDING="4">
				<TR><TD BGCOLOR="#D5E8D4"><B>LEAF</B></TD></TR>
				<TR><TD BGCOLOR="#F5F5F5" ALIGN="LEFT">`)
			for _, k := range n.Keys {
				label += fmt.Sprintf("<B>%v</B><BR/>", k)
			}
			label += "</TD></TR></TABLE>>"
			fmt.Fprintf(f, "  %s [label=%s];\n", name, label)
			leafNames = append(leafNames, name)
			return name
		}

		label := fmt.Sprintf(`<<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0" CELLPADDING="4">
			<TR><TD COLSPAN="%d" BGCOLOR="#DAE8FC"><B>INTERNAL</B></TD></TR><TR>`, maxInt(len(n.Keys), 1))
		for _, k := range n.Keys {
			label += fmt.Sprintf(`<TD BGCOLOR="#FFFFFF"><B>%v</B></TD>`, k)
		}
		label += "</TR></TABLE>>"
		fmt.Fprintf(f, "  %s [label=%s];\n", name, label)

		for _, c := range n.Children {
			childName := walk(c)
			fmt.Fprintf(f, "  %s -> %s;\n", name, childName)
		}
		return name
	}

	if root != nil {
		walk(root)
	}

	if len(leafNames) > 1 {
		fmt.Fprintln(f, "  { rank=same;")
		for _, n := range leafNames {
			fmt.Fprintf(f, "    %s;\n", n)
		}
		fmt.Fprintln(f, "  }")
	}

	fmt.Fprintln(f, "}")
	return nil
}

// Render calls Export and then shells out to Graphviz's dot binary to
// produce a PNG alongside it.
func Render[K cmp.Ordered](root *bptree.DumpNode[K], dotPath, pngPath string) error {
	if err := Export(root, dotPath); err != nil {
		return fmt.Errorf("dot: export: %w", err)
	}
	cmd := exec.Command("dot", "-Tpng", dotPath, "-o", pngPath)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("dot: graphviz render (is 'dot' installed?): %w", err)
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
