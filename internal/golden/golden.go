// Package golden is an end-to-end fixture runner for the parser and
// analyzer together: each fixture is a `.case` file carrying a
// description, a `.dil` source, and the diagnostics it must produce.
//
// Grounded on _examples/nihei9-vartan/tester/tester.go's
// TestCase/TestCaseWithMetadata/Tester shape and its three-part,
// "---"-delimited fixture format (itself from
// _examples/nihei9-vartan/spec/test/parser.go's splitIntoParts),
// adapted from vartan's "compile a grammar, replay recorded token
// trees" pipeline to DIL's "parse and analyze a grammar, compare the
// diagnostics it reports" pipeline.
package golden

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nihei9/dil/analyzer"
	"github.com/nihei9/dil/parser"
	"github.com/nihei9/dil/source"
)

// Diagnostic is one expected diagnostic line: "error: <message>" or
// "warning: <message>".
type Diagnostic struct {
	Severity string
	Message  string
}

// TestCase is one fixture: a human-readable description, the grammar
// source to run through the parser and analyzer, and the diagnostics
// (in report order) the run must produce exactly.
type TestCase struct {
	Description string
	Source      []byte
	Expected    []Diagnostic
}

// TestCaseWithMetadata pairs a parsed TestCase with the file it came
// from, or the error that kept it from loading.
type TestCaseWithMetadata struct {
	TestCase *TestCase
	FilePath string
	Error    error
}

// ListTestCases reads every fixture under path (a single file or a
// directory, recursively).
func ListTestCases(path string) []*TestCaseWithMetadata {
	fi, err := os.Stat(path)
	if err != nil {
		return []*TestCaseWithMetadata{{FilePath: path, Error: err}}
	}
	if !fi.IsDir() {
		c, err := parseTestCaseFile(path)
		return []*TestCaseWithMetadata{{TestCase: c, FilePath: path, Error: err}}
	}

	es, err := os.ReadDir(path)
	if err != nil {
		return []*TestCaseWithMetadata{{FilePath: path, Error: err}}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		childPath := filepath.Join(path, e.Name())
		if e.IsDir() {
			cases = append(cases, ListTestCases(childPath)...)
			continue
		}
		if filepath.Ext(e.Name()) != ".case" {
			continue
		}
		c, err := parseTestCaseFile(childPath)
		cases = append(cases, &TestCaseWithMetadata{TestCase: c, FilePath: childPath, Error: err})
	}
	return cases
}

func parseTestCaseFile(path string) (*TestCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTestCase(f)
}

// ParseTestCase reads a fixture: three "---"-delimited parts —
// description, source, expected diagnostics (one "severity: message"
// per line, blank lines ignored).
func ParseTestCase(r io.Reader) (*TestCase, error) {
	bufs, err := splitIntoParts(r)
	if err != nil {
		return nil, err
	}
	if len(bufs) != 3 {
		return nil, fmt.Errorf("a fixture consists of exactly three parts (description, source, expected diagnostics): %d found", len(bufs))
	}

	expected, err := parseExpected(bufs[2])
	if err != nil {
		return nil, err
	}

	return &TestCase{
		Description: strings.TrimSpace(string(bufs[0])),
		Source:      bufs[1],
		Expected:    expected,
	}, nil
}

var reDelim = regexp.MustCompile(`^\s*---+\s*$`)

func splitIntoParts(r io.Reader) ([][]byte, error) {
	var bufs [][]byte
	s := bufio.NewScanner(r)
	for {
		buf, ok, err := readPart(s)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		bufs = append(bufs, buf)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return bufs, nil
}

func readPart(s *bufio.Scanner) ([]byte, bool, error) {
	if !s.Scan() {
		return nil, false, s.Err()
	}
	buf := &bytes.Buffer{}
	if reDelim.Match(s.Bytes()) {
		return buf.Bytes(), true, nil
	}
	buf.Write(s.Bytes())
	for s.Scan() {
		if reDelim.Match(s.Bytes()) {
			return buf.Bytes(), true, nil
		}
		buf.WriteByte('\n')
		buf.Write(s.Bytes())
	}
	return buf.Bytes(), true, s.Err()
}

var reDiagLine = regexp.MustCompile(`^(error|warning):\s(.+)$`)

func parseExpected(buf []byte) ([]Diagnostic, error) {
	var out []Diagnostic
	lines := strings.Split(string(buf), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := reDiagLine.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("malformed expected-diagnostic line %q, want \"error: ...\" or \"warning: ...\"", line)
		}
		out = append(out, Diagnostic{Severity: m[1], Message: m[2]})
	}
	return out, nil
}

// TestResult is the outcome of running one TestCase: nil Error on a
// match, otherwise a description of the mismatch.
type TestResult struct {
	TestCasePath string
	Error        error
}

func (r *TestResult) String() string {
	if r.Error != nil {
		return fmt.Sprintf("FAIL %s: %v", r.TestCasePath, r.Error)
	}
	return fmt.Sprintf("PASS %s", r.TestCasePath)
}

// Tester runs a batch of fixtures.
type Tester struct {
	Cases []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, runTestCase(c))
	}
	return rs
}

func runTestCase(c *TestCaseWithMetadata) *TestResult {
	if c.Error != nil {
		return &TestResult{TestCasePath: c.FilePath, Error: c.Error}
	}

	src := source.New(c.FilePath, c.TestCase.Source)
	tr := parser.Parse(src)
	analyzer.Analyze(src, tr)

	var got []Diagnostic
	for _, d := range src.Diagnostics {
		got = append(got, Diagnostic{Severity: d.Severity.String(), Message: d.Message})
	}

	if err := diffDiagnostics(c.TestCase.Expected, got); err != nil {
		return &TestResult{TestCasePath: c.FilePath, Error: err}
	}
	return &TestResult{TestCasePath: c.FilePath}
}

func diffDiagnostics(want, got []Diagnostic) error {
	if len(want) != len(got) {
		return fmt.Errorf("want %d diagnostics, got %d\nwant: %+v\ngot:  %+v", len(want), len(got), want, got)
	}
	for i := range want {
		if want[i] != got[i] {
			return fmt.Errorf("diagnostic %d: want %+v, got %+v", i, want[i], got[i])
		}
	}
	return nil
}
