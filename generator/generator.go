// Package generator emits a standalone Go recursive-descent recognizer
// from a validated grammar description tree: one parseXxx function per
// rule, built by walking the already-produced parse tree rather than
// re-deriving anything from source text.
//
// Grounded on original_source's and this project's belief that a
// grammar good enough to pass analysis should also be runnable, and on
// _examples/nihei9-vartan/driver/template.go's approach of embedding a
// literal runtime source file, reparsing the concatenation of runtime
// and generated code as a single file, and renaming its package via
// go/ast before formatting the result with go/format.
package generator

import (
	"bytes"
	_ "embed"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/nihei9/dil/analyzer/charclass"
	"github.com/nihei9/dil/tree"
)

// runtimeSource is the literal content of runtime.go, re-parsed and
// prefixed onto every generated file so the emitted package is
// self-contained.
//go:embed runtime.go
var runtimeSource string

// Generate renders a Go source file defining one parseXxx(s *Scanner)
// bool function per rule in t, plus the Scanner runtime those
// functions call. The caller is responsible for having run the parser
// and analyzer first and confirming src.Errors == 0: Generate does not
// re-validate the grammar and will produce best-effort output if it
// hasn't been (an undefined reference becomes a call to a parseXxx
// function the output never defines).
func Generate(t *tree.Tree, pkgName string) ([]byte, error) {
	runtimeSrc, err := format.Source([]byte(runtimeSource))
	if err != nil {
		return nil, fmt.Errorf("reformat runtime source: %w", err)
	}

	var rules []ruleModel
	root := 0
	n := t.At(root).Children
	for k := 0; k < n; k++ {
		idx := t.WalkChild(root, k)
		if t.At(idx).Symbol != tree.Rule {
			continue
		}
		rules = append(rules, buildRule(t, idx))
	}

	genSrc, err := renderRules(rules)
	if err != nil {
		return nil, fmt.Errorf("render generated rules: %w", err)
	}

	combined := string(runtimeSrc) + "\n" + genSrc
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "", combined, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse combined source: %w", err)
	}
	f.Name = ast.NewIdent(pkgName)

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, f); err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return buf.Bytes(), nil
}

// ruleModel is the template-facing view of one Rule node: its
// generated function name and the Go boolean expression that
// recognizes it.
type ruleModel struct {
	Name string
	Expr string
}

func buildRule(t *tree.Tree, ruleIdx int) ruleModel {
	name := ""
	n := t.At(ruleIdx).Children
	patIdx := -1
	for k := 0; k < n; k++ {
		c := t.WalkChild(ruleIdx, k)
		switch t.At(c).Symbol {
		case tree.Identifier:
			name = t.Text(c)
		case tree.Pattern:
			patIdx = c
		}
	}
	expr := "false"
	if patIdx >= 0 {
		expr = genPattern(t, patIdx)
	}
	return ruleModel{Name: name, Expr: expr}
}

// genPattern renders a Pattern (alternation of Alternatives) as a
// short-circuiting disjunction, restoring the scanner position between
// failed alternatives.
func genPattern(t *tree.Tree, patIdx int) string {
	var alts []int
	n := t.At(patIdx).Children
	for k := 0; k < n; k++ {
		c := t.WalkChild(patIdx, k)
		if t.At(c).Symbol == tree.Alternative {
			alts = append(alts, c)
		}
	}
	if len(alts) == 0 {
		return "true"
	}
	var parts []string
	for _, alt := range alts {
		parts = append(parts, fmt.Sprintf("func() bool { start := s.Pos; if %s { return true }; s.Pos = start; return false }()", genAlternative(t, alt)))
	}
	return strings.Join(parts, " || ")
}

// genAlternative renders an Alternative (concatenation of units) as a
// short-circuiting conjunction.
func genAlternative(t *tree.Tree, altIdx int) string {
	n := t.At(altIdx).Children
	if n == 0 {
		return "true"
	}
	var parts []string
	for k := 0; k < n; k++ {
		parts = append(parts, genUnit(t, t.WalkChild(altIdx, k)))
	}
	return strings.Join(parts, " && ")
}

// genUnit renders a single unit node as a Go boolean expression over
// the scanner s.
func genUnit(t *tree.Tree, idx int) string {
	switch t.At(idx).Symbol {
	case tree.Set:
		return fmt.Sprintf("s.MatchSet(%s)", byteSliceLiteral(charclass.Set(t, idx).Chars))
	case tree.NotSet:
		return fmt.Sprintf("s.MatchNotSet(%s)", byteSliceLiteral(charclass.NotSet(t, idx).Chars))
	case tree.String:
		return fmt.Sprintf("s.MatchLiteral(%s)", stringLiteral(t, idx))
	case tree.Reference:
		identIdx, ok := firstChildOf(t, idx, tree.Identifier)
		if !ok {
			return "false"
		}
		return fmt.Sprintf("parse%s(s)", t.Text(identIdx))
	case tree.Group:
		patIdx, ok := firstChildOf(t, idx, tree.Pattern)
		if !ok {
			return "true"
		}
		return genPattern(t, patIdx)
	case tree.Optional:
		inner := lastChildOf(t, idx)
		return fmt.Sprintf("func() bool { start := s.Pos; if !(%s) { s.Pos = start }; return true }()", genUnit(t, inner))
	case tree.ZeroOrMore:
		inner := lastChildOf(t, idx)
		return fmt.Sprintf("func() bool { for %s { }; return true }()", genUnit(t, inner))
	case tree.OneOrMore:
		inner := lastChildOf(t, idx)
		return fmt.Sprintf("func() bool { if !(%s) { return false }; for %s { }; return true }()", genUnit(t, inner), genUnit(t, inner))
	case tree.FixedTimes:
		numIdx, inner := 0, lastChildOf(t, idx)
		if ni, ok := firstChildOf(t, idx, tree.Number); ok {
			numIdx = ni
		}
		count := t.Text(numIdx)
		if count == "" {
			count = "0"
		}
		return fmt.Sprintf("func() bool { for i := 0; i < %s; i++ { if !(%s) { return false } }; return true }()", count, genUnit(t, inner))
	}
	return "false"
}

func firstChildOf(t *tree.Tree, parent int, sym tree.Symbol) (int, bool) {
	n := t.At(parent).Children
	for k := 0; k < n; k++ {
		c := t.WalkChild(parent, k)
		if t.At(c).Symbol == sym {
			return c, true
		}
	}
	return 0, false
}

func lastChildOf(t *tree.Tree, parent int) int {
	n := t.At(parent).Children
	return t.WalkChild(parent, n-1)
}

// stringLiteral decodes a String node's Escaped children into the
// literal bytes it matches and quotes them as a Go string literal.
func stringLiteral(t *tree.Tree, stringIdx int) string {
	var b strings.Builder
	n := t.At(stringIdx).Children
	for k := 0; k < n; k++ {
		c := t.WalkChild(stringIdx, k)
		if t.At(c).Symbol != tree.Escaped {
			continue
		}
		b.WriteByte(charclass.DecodeEscaped(t.Text(c)))
	}
	return strconv.Quote(b.String())
}

// byteSliceLiteral renders a character set as a sorted []byte literal,
// sorted so output is deterministic across runs of the same grammar.
func byteSliceLiteral(chars map[byte]bool) string {
	bs := make([]byte, 0, len(chars))
	for c := range chars {
		bs = append(bs, c)
	}
	sort.Slice(bs, func(i, j int) bool { return bs[i] < bs[j] })
	var parts []string
	for _, c := range bs {
		parts = append(parts, strconv.Itoa(int(c)))
	}
	return "[]byte{" + strings.Join(parts, ", ") + "}"
}

var ruleTmpl = template.Must(template.New("rule").Parse(`
func parse{{ .Name }}(s *Scanner) bool {
	return {{ .Expr }}
}
`))

func renderRules(rules []ruleModel) (string, error) {
	var buf bytes.Buffer
	for _, r := range rules {
		if err := ruleTmpl.Execute(&buf, r); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
