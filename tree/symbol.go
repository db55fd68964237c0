package tree

// Symbol is the closed enumeration of tree-node kinds. The zero value is
// Root, the synthetic node every tree carries at index 0.
type Symbol uint8

const (
	Root Symbol = iota

	// Statement kinds. These only ever occur as direct children of Root.
	Output
	Start
	Skip
	Rule

	// Pattern kinds.
	Pattern     // alternation
	Alternative // concatenation

	// Unit modifiers.
	Optional
	ZeroOrMore
	OneOrMore
	FixedTimes
	Group

	// Leaf pattern kinds.
	Number
	Literal
	Set
	NotSet
	String
	Reference
	Escaped
	Identifier

	// Low-level kinds.
	Whitespace
	Comment
	Terminal
)

var symbolNames = [...]string{
	Root:        "__Root__",
	Output:      "Output",
	Start:       "Start",
	Skip:        "Skip",
	Rule:        "Rule",
	Pattern:     "Pattern",
	Alternative: "Alternative",
	Optional:    "Optional",
	ZeroOrMore:  "ZeroOrMore",
	OneOrMore:   "OneOrMore",
	FixedTimes:  "FixedTimes",
	Group:       "Group",
	Number:      "Number",
	Literal:     "Literal",
	Set:         "Set",
	NotSet:      "NotSet",
	String:      "String",
	Reference:   "Reference",
	Escaped:     "Escaped",
	Identifier:  "Identifier",
	Whitespace:  "Whitespace",
	Comment:     "Comment",
	Terminal:    "Terminal",
}

// String renders the symbol the way diagnostics quote it, e.g. in
// "Expected `;` in `Rule`!".
func (s Symbol) String() string {
	if int(s) < len(symbolNames) {
		if n := symbolNames[s]; n != "" {
			return n
		}
	}
	return "Unknown"
}
