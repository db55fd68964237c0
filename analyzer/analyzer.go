// Package analyzer implements the two-pass semantic checker spec.md
// §4.4 describes: pass 1 collects rule definitions and their
// FIRST-position references while checking directive well-formedness;
// pass 2 walks the whole tree validating left recursion, left
// factoring, and reference resolution.
//
// Grounded on original_source/src/dil/analyzer.c's two-pass structure,
// translated from its pointer-keyed hash maps to Go's built-in maps
// keyed by rule name.
package analyzer

import (
	"github.com/nihei9/dil/analyzer/charclass"
	"github.com/nihei9/dil/source"
	"github.com/nihei9/dil/tree"
)

// firstRef is one FIRST-position reference recorded for a rule: the
// name it names and the Identifier node of the specific occurrence
// that introduced it, so a left-recursion diagnostic can point at the
// reference that closes the cycle rather than at the rule being
// checked.
type firstRef struct {
	name     string
	identIdx int
}

type analysis struct {
	src *source.Source
	t   *tree.Tree

	symbols         map[string]bool
	firstReferences map[string][]firstRef
	rules           map[string]int

	sawSkip  bool
	sawStart bool
	lastSkip int
}

// Analyze runs both passes over t, reporting diagnostics onto src. It
// never fails outright: every diagnostic is recorded as a warning or
// error on src, and the caller inspects src.Errors/src.Warnings
// afterward.
func Analyze(src *source.Source, t *tree.Tree) {
	a := &analysis{
		src:             src,
		t:               t,
		symbols:         map[string]bool{},
		firstReferences: map[string][]firstRef{},
		rules:           map[string]int{},
	}
	a.pass1()
	a.pass2()
}

// pass1 walks the root's direct statement children in tree order,
// collecting rule definitions and checking directive uniqueness and
// redundancy.
func (a *analysis) pass1() {
	root := 0
	n := a.t.At(root).Children
	for k := 0; k < n; k++ {
		idx := a.t.WalkChild(root, k)
		switch a.t.At(idx).Symbol {
		case tree.Skip:
			a.checkSkip(idx)
		case tree.Start:
			a.checkStart(idx)
		case tree.Rule:
			a.checkRule(idx)
		}
	}
	if !a.sawStart {
		a.src.Errorf(sliceOf(a.t, root), diagMissingStart)
	}
}

func (a *analysis) checkSkip(idx int) {
	_, hasPattern := childOfSymbol(a.t, idx, tree.Pattern)
	if !a.sawSkip {
		if !hasPattern {
			a.src.Report(sliceOf(a.t, idx), source.SeverityWarning, diagRedundantNoSkip)
		}
	} else if a.t.Equal(a.lastSkip, idx) {
		a.src.Report(sliceOf(a.t, idx), source.SeverityWarning, diagRedundantSkip)
	}
	a.sawSkip = true
	a.lastSkip = idx
}

func (a *analysis) checkStart(idx int) {
	if a.sawStart {
		a.src.Errorf(sliceOf(a.t, idx), diagMultipleStart)
		return
	}
	a.sawStart = true
}

func (a *analysis) checkRule(idx int) {
	nameIdx, ok := childOfSymbol(a.t, idx, tree.Identifier)
	if !ok {
		return
	}
	name := a.t.Text(nameIdx)
	if a.symbols[name] {
		a.src.Errorf(sliceOf(a.t, idx), diagRedefinition)
		return
	}

	patternIdx, ok := childOfSymbol(a.t, idx, tree.Pattern)
	if ok {
		seen := map[string]bool{}
		var refs []firstRef
		for _, altIdx := range childrenOfSymbol(a.t, patternIdx, tree.Alternative) {
			units := unitsOfAlternative(a.t, altIdx)
			if len(units) == 0 {
				continue
			}
			if a.t.At(units[0]).Symbol != tree.Reference {
				continue
			}
			identIdx, ok := childOfSymbol(a.t, units[0], tree.Identifier)
			if !ok {
				continue
			}
			refName := a.t.Text(identIdx)
			if !seen[refName] {
				seen[refName] = true
				refs = append(refs, firstRef{name: refName, identIdx: identIdx})
			}
		}
		a.firstReferences[name] = refs
	}

	a.symbols[name] = true
	a.rules[name] = idx
}

// pass2 walks every node in the flat tree once — the tree is already a
// pre-order sequence, so no recursive descent is needed — validating
// left recursion per rule, left factoring per pattern, and reference
// resolution per reference.
func (a *analysis) pass2() {
	size := a.t.Size()
	for i := 1; i < size; i++ {
		switch a.t.At(i).Symbol {
		case tree.Rule:
			a.checkLeftRecursion(i)
		case tree.Pattern:
			a.checkLeftFactoring(i)
		case tree.Reference:
			a.checkUndefinedReference(i)
		}
	}
}

func (a *analysis) checkLeftRecursion(ruleIdx int) {
	identIdx, ok := childOfSymbol(a.t, ruleIdx, tree.Identifier)
	if !ok {
		return
	}
	ruleName := a.t.Text(identIdx)
	checked := map[string]bool{ruleName: true}
	a.dfsFirstReferences(ruleName, ruleName, checked)
}

// dfsFirstReferences walks the FIRST-call graph starting at current,
// reporting a diagnostic against the specific reference occurrence
// that names ruleName again — not against the rule under analysis —
// matching original_source/src/dil/analyzer.c's
// dil_analyze_left_recursion, which reports against the occurrence
// slice passed down through the recursion rather than the rule's own
// definition site.
func (a *analysis) dfsFirstReferences(ruleName, current string, checked map[string]bool) {
	for _, callee := range a.firstReferences[current] {
		if callee.name == ruleName {
			a.src.Errorf(sliceOf(a.t, callee.identIdx), diagLeftRecursion)
			continue
		}
		if !checked[callee.name] {
			checked[callee.name] = true
			a.dfsFirstReferences(ruleName, callee.name, checked)
		}
	}
}

func (a *analysis) checkUndefinedReference(refIdx int) {
	identIdx, ok := childOfSymbol(a.t, refIdx, tree.Identifier)
	if !ok {
		return
	}
	name := a.t.Text(identIdx)
	if !a.symbols[name] {
		a.src.Errorf(sliceOf(a.t, identIdx), diagUndefinedReference)
	}
}

func (a *analysis) checkLeftFactoring(patternIdx int) {
	alts := childrenOfSymbol(a.t, patternIdx, tree.Alternative)
	for i := 0; i < len(alts); i++ {
		for j := i + 1; j < len(alts); j++ {
			unitsI := unitsOfAlternative(a.t, alts[i])
			unitsJ := unitsOfAlternative(a.t, alts[j])
			if len(unitsI) == 0 || len(unitsJ) == 0 {
				continue
			}
			u1 := effectiveFirstUnit(a.t, a.rules, unitsI[0], map[string]bool{})
			u2 := effectiveFirstUnit(a.t, a.rules, unitsJ[0], map[string]bool{})
			if u1 < 0 || u2 < 0 {
				continue
			}
			if a.firstUnitsEqual(u1, u2) {
				a.src.Errorf(sliceOf(a.t, alts[i]), diagLeftFactoring)
				a.src.Errorf(sliceOf(a.t, alts[j]), diagLeftFactoring)
			}
		}
	}
}

// firstUnitsEqual implements spec.md §4.4's first-unit equality:
// structurally equal subtrees, or both character-class-shaped with
// overlapping character sets.
func (a *analysis) firstUnitsEqual(u1, u2 int) bool {
	if a.t.Equal(u1, u2) {
		return true
	}
	c1, ok1 := a.classOf(u1)
	c2, ok2 := a.classOf(u2)
	if !ok1 || !ok2 {
		return false
	}
	return charclass.Overlap(c1, c2)
}

func (a *analysis) classOf(idx int) (charclass.Class, bool) {
	switch a.t.At(idx).Symbol {
	case tree.Set:
		return charclass.Set(a.t, idx), true
	case tree.NotSet:
		return charclass.NotSet(a.t, idx), true
	case tree.String:
		return charclass.String(a.t, idx)
	}
	return charclass.Class{}, false
}
