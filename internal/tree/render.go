package tree

import (
	"bufio"
	"fmt"
	"io"
)

const (
	branchMid  = "├── "
	branchLast = "└── "
	indentMid  = "│   "
	indentLast = "    "
)

// Render writes an indented drawing of t, one node per line:
//
//	0
//	├── 1
//	│   └── 3
//	└── 2
//
// Nodes at depth maxDepth that have descendants are printed with a
// "(+N)" suffix counting the hidden nodes. maxDepth <= 0 renders the whole
// tree.
func Render(w io.Writer, t *Tree, maxDepth int) error {
	bw := bufio.NewWriter(w)
	r := renderer{w: bw, t: t, maxDepth: maxDepth}
	r.node(0, "", "")
	if r.err != nil {
		return r.err
	}
	return bw.Flush()
}

type renderer struct {
	w        *bufio.Writer
	t        *Tree
	maxDepth int
	err      error
}

func (r *renderer) node(i int, branch, indent string) {
	if r.err != nil {
		return
	}

	label := r.t.nodes[i].ID
	kids := r.t.children[i]
	if r.maxDepth > 0 && r.t.depth[i] >= r.maxDepth && len(kids) > 0 {
		label = fmt.Sprintf("%s (+%d)", label, r.t.size[i]-1)
		kids = nil
	}
	if _, err := fmt.Fprintf(r.w, "%s%s\n", branch, label); err != nil {
		r.err = err
		return
	}

	for j, c := range kids {
		if j == len(kids)-1 {
			r.node(c, indent+branchLast, indent+indentLast)
		} else {
			r.node(c, indent+branchMid, indent+indentMid)
		}
	}
}
