package analyzer

// The fixed diagnostic vocabulary spec.md §6 requires. Named the way
// the teacher names its semantic-error sentinels
// (grammar/semantic_error.go's semErrXxx), as plain message strings
// since none of these carry format verbs.
const (
	diagRedundantNoSkip    = "Redundant no skip directive!"
	diagRedundantSkip      = "Redundant skip directive!"
	diagMultipleStart      = "Multiple start symbol directives!"
	diagMissingStart       = "Missing start symbol directive!"
	diagRedefinition       = "Redefinition of the symbol!"
	diagUndefinedReference = "Reference to an undefined symbol!"
	diagLeftRecursion      = "Rule has left recursion!"
	diagLeftFactoring      = "Alternatives need left factoring!"
)
