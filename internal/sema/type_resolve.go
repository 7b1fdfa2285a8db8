package sema

import (
	"waccc/internal/diag"
	"waccc/internal/parsetree"
	"waccc/internal/types"
)

// resolveType converts a syntactic type. The parser only produces well-formed
// type trees, so anything else is a defect.
func resolveType(n *parsetree.Node) *types.Type {
	switch n.Kind {
	case parsetree.BaseType:
		switch n.Text {
		case "int":
			return types.Int
		case "bool":
			return types.Bool
		case "char":
			return types.Char
		case "string":
			return types.String
		}
	case parsetree.ArrayType:
		return types.MakeArray(resolveType(n.Child(0)))
	case parsetree.PairType:
		return types.MakePair(resolveType(n.Child(0)), resolveType(n.Child(1)))
	case parsetree.BarePair:
		return types.AnyPair
	}
	diag.Invariantf("sema.resolveType", "unexpected type node %s %q", n.Kind, n.Text)
	return nil
}
