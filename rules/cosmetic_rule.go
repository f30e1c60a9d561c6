package rules

import "strings"

// CosmeticRule is an element hiding, CSS injection, or scriptlet rule.  The
// declarative converter cannot express these, so the rule only carries enough
// structure for a caller to recognize and skip it.
type CosmeticRule struct {
	// RuleText is the original rule text.
	RuleText string

	// Marker is the cosmetic marker found in the rule text ("##", "#@#",
	// and so on).
	Marker string

	// Content is the rule part after the marker (a CSS selector or a
	// script snippet).
	Content string

	// Whitelist is true for exception markers ("#@#" and friends).
	Whitelist bool

	permittedDomains  []string
	restrictedDomains []string
}

// NewCosmeticRule parses the cosmetic rule text.
func NewCosmeticRule(ruleText string) (*CosmeticRule, error) {
	marker := findRuleMarker(ruleText, cosmeticRulesMarkers, '#')
	if marker == "" {
		marker = findRuleMarker(ruleText, cosmeticRulesMarkers, '$')
	}
	if marker == "" {
		return nil, &RuleSyntaxError{msg: "cannot find cosmetic marker", ruleText: ruleText}
	}

	index := strings.Index(ruleText, marker)
	f := &CosmeticRule{
		RuleText:  ruleText,
		Marker:    marker,
		Content:   strings.TrimSpace(ruleText[index+len(marker):]),
		Whitelist: strings.Contains(marker, "@"),
	}

	if f.Content == "" {
		return nil, &RuleSyntaxError{msg: "empty rule content", ruleText: ruleText}
	}

	if index > 0 {
		permitted, restricted, err := loadDomains(ruleText[:index], ",")
		if err != nil {
			return nil, &RuleSyntaxError{msg: err.Error(), ruleText: ruleText}
		}

		f.permittedDomains = permitted
		f.restrictedDomains = restricted
	}

	return f, nil
}

// Text returns the original rule text.  Implements the [Rule] interface.
func (f *CosmeticRule) Text() string {
	return f.RuleText
}

// String returns original rule text.
func (f *CosmeticRule) String() string {
	return f.RuleText
}
