package analyzer

import (
	"github.com/glyphlang/glint/internal/artifacts"
	"github.com/glyphlang/glint/internal/assertion"
	"github.com/glyphlang/glint/internal/ast"
	"github.com/glyphlang/glint/internal/blockctx"
	"github.com/glyphlang/glint/internal/diagnostic"
	"github.com/glyphlang/glint/internal/types"
)

// analyzeAssign implements spec.md §4.7's Assignment highlight: evaluate
// rhs, then dispatch on the lhs shape.
func (a *Analyzer) analyzeAssign(e *ast.AssignExpr, ctx *blockctx.Context, art *artifacts.Artifacts) (types.Union, *diagnostic.InternalError) {
	wasAssignment := ctx.InsideAssignment
	ctx.InsideAssignment = true
	rhs, err := a.AnalyzeExpression(e.Rhs, ctx, art)
	ctx.InsideAssignment = wasAssignment
	if err != nil {
		return types.MixedUnion(), err
	}

	switch lhs := e.Lhs.(type) {
	case *ast.Variable:
		key := "$" + lhs.Name
		ctx.Set(key, rhs)
		ctx.AssignedVariableIDs[key]++
		ctx.PossiblyAssignedVariableIDs[key] = true
		return rhs, nil
	case *ast.PropertyAccess:
		if key, ok := assertion.PlaceKey(lhs); ok {
			ctx.Set(key, rhs)
			ctx.AssignedVariableIDs[key]++
			ctx.PossiblyAssignedVariableIDs[key] = true
		}
		if _, err := a.AnalyzeExpression(lhs.Object, ctx, art); err != nil {
			return types.MixedUnion(), err
		}
		return rhs, nil
	case *ast.ArrayAccess:
		return a.analyzeNestedArrayAssign(lhs, rhs, ctx, art)
	}
	return rhs, nil
}

// spineLevel is one array-access target in an lvalue's spine;
// analyzeNestedArrayAssign lists the levels outermost first (so index 0 is
// closest to the root variable).
type spineLevel struct {
	access *ast.ArrayAccess
	key    types.Union // zero Union (mixed shape irrelevant) when append-form
	hasKey bool
	place  string // best-effort place key for this level, "" if unknown
}

// analyzeNestedArrayAssign implements spec.md §4.7.1: an lvalue like
// `$a[$i]['k'][] = v` decomposes into a spine of array-access targets
// rooted at some base expression (almost always a Variable).
func (a *Analyzer) analyzeNestedArrayAssign(ac *ast.ArrayAccess, rhs types.Union, ctx *blockctx.Context, art *artifacts.Artifacts) (types.Union, *diagnostic.InternalError) {
	// Step 1: walk the spine outermost-to-innermost (i.e. collect from the
	// syntax tree, which nests innermost-access-last, then reverse so index
	// 0 is the outermost/first array-access after the root).
	var levels []spineLevel
	cur := ast.Expression(ac)
	for {
		access, ok := cur.(*ast.ArrayAccess)
		if !ok {
			break
		}
		levels = append(levels, spineLevel{access: access})
		cur = access.Array
	}
	root := cur
	// reverse so levels[0] is the outermost access (closest to root)
	for i, j := 0, len(levels)-1; i < j; i, j = i+1, j-1 {
		levels[i], levels[j] = levels[j], levels[i]
	}

	rootKey, rootHasPlace := assertion.PlaceKey(root)

	// Analyze each level's key expression and record its place key.
	for i := range levels {
		lv := &levels[i]
		if lv.access.Key != nil {
			kt, err := a.AnalyzeExpression(lv.access.Key, ctx, art)
			if err != nil {
				return types.MixedUnion(), err
			}
			lv.key = kt
			lv.hasKey = true
		}
		if place, ok := assertion.PlaceKey(lv.access); ok {
			lv.place = place
		}
	}

	// Step 2: analyze the root's current type; widen never to an empty
	// keyed array (unless inside a loop, where a later fixed-point pass
	// will see the real type).
	rootType, err := a.AnalyzeExpression(root, ctx, art)
	if err != nil {
		return types.MixedUnion(), err
	}
	if rootType.IsNever() && !ctx.InsideLoop {
		rootType = types.Single(types.Keyed{KnownItems: map[types.ArrayKey]types.KeyedElement{}})
	}

	// Step 3: compute the current inner type at each level by indexing the
	// parent type at that level's key; the final level's new type is rhs.
	innerTypes := make([]types.Union, len(levels)+1)
	innerTypes[0] = rootType
	for i, lv := range levels {
		if lv.hasKey {
			innerTypes[i+1] = indexInto(innerTypes[i], lv.key)
		} else {
			innerTypes[i+1] = types.MixedUnion() // append-form has no "current" value
		}
	}
	innerTypes[len(levels)] = rhs

	// Step 4: walk back from the innermost level to the root, rebuilding
	// parent types with update_type_with_key_values.
	rebuilt := make([]types.Union, len(levels)+1)
	rebuilt[len(levels)] = rhs
	for i := len(levels) - 1; i >= 0; i-- {
		rebuilt[i] = updateTypeWithKeyValue(innerTypes[i], levels[i].key, levels[i].hasKey, rebuilt[i+1])
	}

	// Step 5: record a dataflow edge for each level.
	if rootHasPlace {
		node := art.Graph.NewNode(rootKey, ac.Span())
		for _, lv := range levels {
			if lv.hasKey {
				if litKey, ok := literalArrayKey(lv.key); ok {
					art.Graph.AddArrayEdge(node, node, arrayValueKindFor(litKey), litKey.String())
					continue
				}
				art.Graph.AddUnknownArrayEdge(node, node, artifacts.ArrayValueKeyed)
				continue
			}
			art.Graph.AddUnknownArrayEdge(node, node, artifacts.ArrayValueList)
		}
	}

	// Step 6: write each rebuilt parent type back into locals under its
	// reconstructed path.
	if rootHasPlace {
		ctx.Set(rootKey, rebuilt[0])
		ctx.AssignedVariableIDs[rootKey]++
		ctx.PossiblyAssignedVariableIDs[rootKey] = true
	}
	for i, lv := range levels {
		if lv.place == "" {
			continue
		}
		ctx.Set(lv.place, rebuilt[i+1])
		ctx.AssignedVariableIDs[lv.place]++
		ctx.PossiblyAssignedVariableIDs[lv.place] = true
	}

	return rhs, nil
}

func arrayValueKindFor(key types.ArrayKey) artifacts.ArrayValueKind {
	if key.IsString {
		return artifacts.ArrayValueKeyed
	}
	return artifacts.ArrayValueList
}

// updateTypeWithKeyValue rebuilds parent at key with newValue: literal
// int/string keys land in known_elements/known_items (possibly_undefined
// cleared, non_empty set); an unknown key widens to parameters and drops
// known_items (spec.md §4.7.1 step 4).
func updateTypeWithKeyValue(parent types.Union, key types.Union, hasKey bool, newValue types.Union) types.Union {
	if parent.IsNever() || parent.IsMixed() {
		return widenedKeyedFor(key, hasKey, newValue)
	}

	var out types.Union
	first := true
	sawArray := false
	for _, atom := range parent.Atoms {
		var updated types.Atom
		switch v := atom.(type) {
		case types.List:
			sawArray = true
			updated = updateList(v, key, hasKey, newValue)
		case types.Keyed:
			sawArray = true
			updated = updateKeyed(v, key, hasKey, newValue)
		default:
			updated = v
		}
		part := types.Single(updated)
		if first {
			out = part
			first = false
		} else {
			out = types.Combine(out, part)
		}
	}
	if !sawArray {
		return widenedKeyedFor(key, hasKey, newValue)
	}
	return out
}

func widenedKeyedFor(key types.Union, hasKey bool, newValue types.Union) types.Union {
	if !hasKey {
		return types.Single(types.List{ElementType: newValue, NonEmpty: true})
	}
	if lit, ok := literalArrayKey(key); ok {
		return types.Single(types.Keyed{
			KnownItems: map[types.ArrayKey]types.KeyedElement{lit: {Type: newValue}},
			NonEmpty:   true,
		})
	}
	return types.Single(types.Keyed{
		Parameters: &types.KeyedParams{Key: key, Value: newValue},
		NonEmpty:   true,
	})
}

func updateList(v types.List, key types.Union, hasKey bool, newValue types.Union) types.Atom {
	v.NonEmpty = true
	if !hasKey {
		v.ElementType = types.Combine(v.ElementType, newValue)
		if v.KnownElements != nil {
			v.KnownElements[len(v.KnownElements)] = types.ListElement{Type: newValue}
		}
		if v.HasKnownCount {
			v.KnownCount++
		}
		return v
	}
	lit, ok := literalIntKey(key)
	if !ok || v.KnownElements == nil {
		v.KnownElements = nil
		v.ElementType = types.Combine(v.ElementType, newValue)
		return v
	}
	v.KnownElements[int(lit)] = types.ListElement{Type: newValue}
	v.ElementType = types.Combine(v.ElementType, newValue)
	return v
}

func updateKeyed(v types.Keyed, key types.Union, hasKey bool, newValue types.Union) types.Atom {
	v.NonEmpty = true
	if !hasKey {
		if v.Parameters != nil {
			v.Parameters.Value = types.Combine(v.Parameters.Value, newValue)
		}
		v.KnownItems = nil
		return v
	}
	lit, ok := literalArrayKey(key)
	if !ok || v.KnownItems == nil {
		v.KnownItems = nil
		if v.Parameters == nil {
			v.Parameters = &types.KeyedParams{Key: key, Value: newValue}
		} else {
			v.Parameters.Key = types.Combine(v.Parameters.Key, key)
			v.Parameters.Value = types.Combine(v.Parameters.Value, newValue)
		}
		return v
	}
	v.KnownItems[lit] = types.KeyedElement{Type: newValue}
	return v
}
