// Package filterlist provides a line-oriented reader for filter list text.
package filterlist

import (
	"bufio"
	"io"

	"github.com/kzar/abp2dnr/rules"
)

// RuleScanner implements an interface similar to bufio.Scanner for reading a
// list of filtering rules, one line at a time.  Empty lines, comments, and
// lines that fail to parse are skipped.
type RuleScanner struct {
	scanner *bufio.Scanner

	// currentRule is the most recently scanned rule.
	currentRule rules.Rule

	// currentLine is the 1-based line number of the current rule.
	currentLine int

	// line is the number of the last line read.
	line int
}

// NewRuleScanner returns a scanner that reads the filter list from reader.
func NewRuleScanner(reader io.Reader) (s *RuleScanner) {
	return &RuleScanner{
		scanner: bufio.NewScanner(reader),
	}
}

// Scan advances the scanner to the next filtering rule.  It returns false
// when the scan stops, either by reaching the end of the input or an error.
func (s *RuleScanner) Scan() (ok bool) {
	for s.scanner.Scan() {
		line := s.scanner.Text()
		s.line++

		rule, err := rules.NewRule(line)
		if err != nil || rule == nil {
			continue
		}

		s.currentRule = rule
		s.currentLine = s.line

		return true
	}

	return false
}

// Rule returns the most recent rule generated by a call to Scan, and the
// line number it was read from.
func (s *RuleScanner) Rule() (r rules.Rule, lineNo int) {
	return s.currentRule, s.currentLine
}

// Err returns the first non-EOF error encountered by the underlying reader.
func (s *RuleScanner) Err() (err error) {
	return s.scanner.Err()
}
