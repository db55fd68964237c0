package analyzer

import "github.com/nihei9/dil/tree"

// effectiveFirstUnit descends through modifiers, groups, and rule
// references to find the leading atom of a unit, per spec.md §4.4's
// table. It returns -1 ("null") when the unit's leading atom cannot be
// determined: an empty group/rule body, a reference to an undefined
// rule, or a reference already on the current descent path (checked
// breaks reference cycles).
func effectiveFirstUnit(t *tree.Tree, rules map[string]int, idx int, checked map[string]bool) int {
	switch t.At(idx).Symbol {
	case tree.Optional, tree.ZeroOrMore, tree.OneOrMore, tree.FixedTimes:
		return effectiveFirstUnit(t, rules, lastChild(t, idx), checked)

	case tree.Group:
		return firstUnitOfFirstAlternative(t, rules, idx, checked)

	case tree.Reference:
		identIdx, ok := childOfSymbol(t, idx, tree.Identifier)
		if !ok {
			return -1
		}
		name := t.Text(identIdx)
		if checked[name] {
			return -1
		}
		checked[name] = true
		ruleIdx, ok := rules[name]
		if !ok {
			return -1
		}
		return firstUnitOfFirstAlternative(t, rules, ruleIdx, checked)

	default:
		// Set, NotSet, String, or any other leaf: it is its own first unit.
		return idx
	}
}

// firstUnitOfFirstAlternative resolves the effective first unit of
// container's first alternative — container is a Group (whose Pattern
// is a direct child) or a Rule (same shape).
func firstUnitOfFirstAlternative(t *tree.Tree, rules map[string]int, container int, checked map[string]bool) int {
	patternIdx, ok := childOfSymbol(t, container, tree.Pattern)
	if !ok {
		return -1
	}
	alts := childrenOfSymbol(t, patternIdx, tree.Alternative)
	if len(alts) == 0 {
		return -1
	}
	units := unitsOfAlternative(t, alts[0])
	if len(units) == 0 {
		return -1
	}
	return effectiveFirstUnit(t, rules, units[0], checked)
}
