package assertion

import (
	"fmt"

	"github.com/glyphlang/glint/internal/ast"
)

// PlaceKey renders expr as the canonical stringly-typed path spec.md's
// GLOSSARY defines: "$a->b[$c]". Only variable reads, property accesses,
// and array accesses with a literal or variable-shaped key form a place;
// everything else (calls, literals, arithmetic) has no stable place and
// ok is false.
func PlaceKey(expr ast.Expression) (string, bool) {
	switch e := expr.(type) {
	case *ast.Variable:
		return "$" + e.Name, true
	case *ast.PropertyAccess:
		base, ok := PlaceKey(e.Object)
		if !ok {
			return "", false
		}
		return base + "->" + e.Property, true
	case *ast.ArrayAccess:
		if e.Key == nil {
			return "", false
		}
		base, ok := PlaceKey(e.Array)
		if !ok {
			return "", false
		}
		keyStr, ok := placeKeyFragment(e.Key)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%s[%s]", base, keyStr), true
	default:
		return "", false
	}
}

func placeKeyFragment(key ast.Expression) (string, bool) {
	switch k := key.(type) {
	case *ast.StringLiteral:
		return fmt.Sprintf("%q", k.Value), true
	case *ast.IntegerLiteral:
		return fmt.Sprintf("%d", k.Value), true
	case *ast.Variable:
		return "$" + k.Name, true
	default:
		return "", false
	}
}
