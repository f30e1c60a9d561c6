package abp2dnr

import "regexp/syntax"

// RegexChecker decides whether the declarative engine can represent the
// given regular expression.  The engine compiles regexFilter conditions with
// RE2 under a small memory budget, so a pattern that is perfectly valid in
// the filter list may still be unrepresentable.
//
// The check may be a slow out-of-process call; it is invoked at most once
// per regex filter.  A nil checker makes the converter reject every regex
// filter.
type RegexChecker interface {
	// CheckSupported reports whether the engine supports pattern under the
	// requested case sensitivity.  An error means the checker itself failed,
	// not that the pattern is unsupported.
	CheckSupported(pattern string, caseSensitive bool) (supported bool, err error)
}

// maxRegexProgramSize approximates the engine's 2 KiB regex memory budget in
// compiled program instructions.
const maxRegexProgramSize = 512

// RE2Checker validates patterns against the RE2 syntax that the declarative
// engine uses, including its tight memory budget.  Go's regexp package is an
// RE2 implementation, so an in-process compile mirrors the engine's own
// acceptance check closely enough for conversion purposes.
type RE2Checker struct{}

// type check
var _ RegexChecker = RE2Checker{}

// CheckSupported implements the [RegexChecker] interface for RE2Checker.
func (RE2Checker) CheckSupported(pattern string, caseSensitive bool) (supported bool, err error) {
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}

	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return false, nil
	}

	prog, err := syntax.Compile(re.Simplify())
	if err != nil || len(prog.Inst) > maxRegexProgramSize {
		return false, nil
	}

	return true, nil
}
