package golden

import "testing"

// TestGolden runs every fixture under testdata/ through the parser and
// analyzer and checks its diagnostics against the fixture's expected list.
func TestGolden(t *testing.T) {
	cases := ListTestCases("testdata")
	if len(cases) == 0 {
		t.Fatal("no fixtures found under testdata")
	}

	tester := &Tester{Cases: cases}
	for _, r := range tester.Run() {
		if r.Error != nil {
			t.Errorf("%v", r)
		}
	}
}
