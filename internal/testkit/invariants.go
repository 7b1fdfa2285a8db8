package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"waccc/internal/parsetree"
	"waccc/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parse tree:
// 1) the root span is non-empty and within file content bounds
// 2) every node span lies in the same file and inside its parent's span
// 3) every parent span covers the union of its children's spans
func CheckSpanInvariants(root *parsetree.Node, sf *source.File) error {
	if root == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	if root.Span.End <= root.Span.Start {
		return fmt.Errorf("root span is empty: %v", root.Span)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if root.Span.End > lenContent {
		return fmt.Errorf("root span end beyond content: %d > %d", root.Span.End, lenContent)
	}
	return checkNode(root, sf.ID)
}

func checkNode(n *parsetree.Node, file source.FileID) error {
	if n.Span.File != file {
		return fmt.Errorf("%s span file mismatch: got=%d want=%d", n.Kind, n.Span.File, file)
	}
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		// child inside parent
		if !n.Span.Contains(c.Span) {
			return fmt.Errorf("%s span %v is outside %s span %v", c.Kind, c.Span, n.Kind, n.Span)
		}
		if err := checkNode(c, file); err != nil {
			return err
		}
	}
	return nil
}
