// Package rules contains the Adblock-Plus-style filter parser: it classifies
// a single line of filter text and extracts everything the converter needs
// from it.
package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/kzar/abp2dnr/internal/ufnet"
	"golang.org/x/net/publicsuffix"
)

// RuleSyntaxError represents an error while parsing a filtering rule.
type RuleSyntaxError struct {
	msg      string
	ruleText string
}

func (e *RuleSyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s, rule: %s", e.msg, e.ruleText)
}

// ErrUnsupportedRule signals that this might be a valid rule type, but it is
// not supported by this library.
const ErrUnsupportedRule errors.Error = "this type of rules is unsupported"

var cosmeticRulesMarkers = []string{
	// HTML filtering
	"$$", "$@$",
	// Script rules
	"#%#", "#@%#",
	// Element hiding rules
	"##", "#@#",
	// CSS injection
	"#$#", "#@$#",
	// ExtCSS hiding rules
	"#?#", "#@?#",
	// ExtCSS injection rules
	"#$?#", "#@$?#",
}

func init() {
	// This is important for "findRuleMarker" function to sort markers in this order
	sort.Sort(sort.Reverse(byLength(cosmeticRulesMarkers)))
}

// Rule is a base interface for all filtering rules.
type Rule interface {
	// Text returns the original rule text.
	Text() string
}

// NewRule creates a new filtering rule from the specified line.  It returns
// nil if the line is empty or if it is a comment.
func NewRule(line string) (Rule, error) {
	line = strings.TrimSpace(line)

	if line == "" || isComment(line) {
		return nil, nil
	}

	if isCosmetic(line) {
		return NewCosmeticRule(line)
	}

	return NewNetworkRule(line)
}

// isComment checks if the line is a comment.
func isComment(line string) bool {
	if len(line) == 0 {
		return false
	}

	if line[0] == '!' {
		return true
	}

	if line[0] == '#' {
		if len(line) == 1 {
			return true
		}

		// Now we should check that this is not a cosmetic rule
		for _, marker := range cosmeticRulesMarkers {
			if startsAtIndexWith(line, 0, marker) {
				return false
			}
		}

		return true
	}

	return false
}

// isCosmetic checks if this is a cosmetic filtering rule.
func isCosmetic(line string) bool {
	return findRuleMarker(line, cosmeticRulesMarkers, '#') != "" ||
		findRuleMarker(line, cosmeticRulesMarkers, '$') != ""
}

// findRuleMarker looks for a cosmetic rule marker in the rule text and
// returns the marker found or empty string if nothing found.
// markers must be sorted by length desc, firstMarkerChar is the first
// character of the markers we're looking for.
func findRuleMarker(ruleText string, markers []string, firstMarkerChar byte) string {
	startIndex := strings.IndexByte(ruleText, firstMarkerChar)
	if startIndex == -1 {
		return ""
	}

	for _, marker := range markers {
		if startsAtIndexWith(ruleText, startIndex, marker) {
			return marker
		}
	}

	return ""
}

// startsAtIndexWith checks if the specified string starts with a substr at
// the specified index.
func startsAtIndexWith(str string, startIndex int, substr string) bool {
	if len(str)-startIndex < len(substr) {
		return false
	}

	for i := 0; i < len(substr); i++ {
		if str[startIndex+i] != substr[i] {
			return false
		}
	}

	return true
}

// loadDomains loads the $domain modifier value.  domains is the list of
// domains, sep is the separator character ('|' for network rules).
func loadDomains(domains, sep string) (permittedDomains, restrictedDomains []string, err error) {
	if domains == "" {
		return nil, nil, errors.Error("no domains specified")
	}

	list := strings.Split(domains, sep)
	for i := 0; i < len(list); i++ {
		d := strings.ToLower(list[i])
		restricted := false
		if strings.HasPrefix(d, "~") {
			restricted = true
			d = d[1:]
		}

		if !ufnet.IsDomainName(d) && !strings.HasSuffix(d, ".*") {
			return nil, nil, fmt.Errorf("invalid domain specified: %s", domains)
		}

		if restricted {
			restrictedDomains = append(restrictedDomains, d)
		} else {
			permittedDomains = append(permittedDomains, d)
		}
	}

	return permittedDomains, restrictedDomains, nil
}

// IsDomainOrSubdomainOfAny checks if "domain" is domain or subdomain of any
// of the "domains".
func IsDomainOrSubdomainOfAny(domain string, domains []string) bool {
	for _, d := range domains {
		if strings.HasSuffix(d, ".*") {
			// A pattern like "google.*" will match any "google.TLD" domain or subdomain
			withoutWildcard := d[0 : len(d)-1]

			if strings.HasPrefix(domain, withoutWildcard) ||
				(strings.Index(domain, withoutWildcard) > 0 &&
					strings.Index(domain, "."+withoutWildcard) > 0) {
				tld, icann := publicsuffix.PublicSuffix(domain)

				// Let's check that the domain's TLD is one of the public suffixes
				if tld != "" && icann &&
					strings.HasSuffix(domain, withoutWildcard+tld) {
					return true
				}
			}
		} else {
			if domain == d ||
				(strings.HasSuffix(domain, d) &&
					strings.HasSuffix(domain, "."+d)) {
				return true
			}
		}
	}

	return false
}

// splitWithEscapeCharacter splits string by the specified separator if it is
// not escaped.
func splitWithEscapeCharacter(str string, sep, escapeCharacter byte, preserveAllTokens bool) []string {
	parts := make([]string, 0)

	if str == "" {
		return parts
	}

	var sb strings.Builder
	escaped := false
	for i := range str {
		c := str[i]

		if c == escapeCharacter {
			escaped = true
		} else if c == sep {
			if escaped {
				sb.WriteByte(c)
				escaped = false
			} else {
				if preserveAllTokens || sb.Len() > 0 {
					parts = append(parts, sb.String())
					sb.Reset()
				}
			}
		} else {
			if escaped {
				escaped = false
				sb.WriteByte(escapeCharacter)
			}
			sb.WriteByte(c)
		}
	}

	if preserveAllTokens || sb.Len() > 0 {
		parts = append(parts, sb.String())
	}

	return parts
}

// sort.Interface
type byLength []string

func (s byLength) Len() int {
	return len(s)
}

func (s byLength) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

func (s byLength) Less(i, j int) bool {
	return len(s[i]) < len(s[j])
}
