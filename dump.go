package idlist

import (
	"bytes"
	"fmt"
	"strings"
)

// dumper renders a tree for debugging in a box-drawing style.
//
// For a 2-leaf tree it outputs something like:
//
//	─── InnerLeaf
//	     size: 7 known: 7
//	    ├── Leaf "b"
//	    │    range: [0,6) present: 6
//	    └── Leaf "m"
//	         range: [0,1) present: 1
type dumper struct {
	root        node
	buf         *bytes.Buffer
	nChildStack []int
}

func dump(n node) string {
	d := &dumper{root: n, buf: bytes.NewBufferString("")}
	d.dumpNode(n)
	return d.buf.String()
}

func (d *dumper) padding() (string, string) {
	depth := len(d.nChildStack)
	if depth == 0 {
		return "───", "    "
	}
	pad := "    " + strings.Repeat("│   ", depth-1)

	left := d.nChildStack[len(d.nChildStack)-1]
	head, finalPad := "├──", "│   "
	if left == 1 {
		head, finalPad = "└──", "    "
	}
	return pad + head, pad + finalPad
}

func (d *dumper) pushNChildren(n int) { d.nChildStack = append(d.nChildStack, n) }

func (d *dumper) decNChildren() {
	if len(d.nChildStack) > 0 {
		d.nChildStack[len(d.nChildStack)-1]--
	}
}

func (d *dumper) popNChildren() {
	if depth := len(d.nChildStack); depth > 0 {
		d.nChildStack = d.nChildStack[:depth-1]
	}
}

func (d *dumper) dumpNode(n node) {
	headerPad, pad := d.padding()

	switch t := n.(type) {
	case *Leaf:
		fmt.Fprintf(d.buf, "%s Leaf %q\n", headerPad, t.BunchID)
		fmt.Fprintf(d.buf, "%s range: [%d,%d) present: %d\n", pad, t.StartCounter, t.endCounter(), t.Present.Count())
	case *InnerLeaf:
		fmt.Fprintf(d.buf, "%s InnerLeaf\n", headerPad)
		fmt.Fprintf(d.buf, "%s size: %d known: %d\n", pad, t.size(), t.knownSize())

		d.pushNChildren(len(t.Children))
		for _, c := range t.Children {
			d.dumpNode(c)
			d.decNChildren()
		}
		d.popNChildren()
	case *InnerInner:
		fmt.Fprintf(d.buf, "%s InnerInner height=%d\n", headerPad, t.height())
		fmt.Fprintf(d.buf, "%s size: %d known: %d\n", pad, t.size(), t.knownSize())

		d.pushNChildren(len(t.Children))
		for _, c := range t.Children {
			d.dumpNode(c)
			d.decNChildren()
		}
		d.popNChildren()
	}
}

// Dump renders l's tree structure for debugging. Its exact format is not
// part of the public contract and may change.
func (l *IdentifierList) Dump() string {
	return dump(l.root)
}
