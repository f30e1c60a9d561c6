package abp2dnr

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/kzar/abp2dnr/resources"
	"github.com/kzar/abp2dnr/rules"
)

// abpResourcePrefix marks a $rewrite target that refers to a bundled
// replacement resource instead of an URL.
const abpResourcePrefix = "abp-resource:"

// reBackreference matches a "$1" or "\1" style placeholder in a rewrite
// target.  The declarative engine performs plain redirects and cannot
// substitute captured groups.
var reBackreference = regexp.MustCompile(`[$\\]\d`)

// AddFilterText parses one line of filter text and adds the resulting
// filter to the ruleset.  Unparseable lines count as filters that produce
// zero rules, like any other unconvertible filter.
func (rs *Ruleset) AddFilterText(line string) (added int, handled bool, err error) {
	if rs.finalized {
		return 0, false, ErrFinalized
	}

	r, perr := rules.NewRule(line)
	if perr != nil {
		rs.logger.Debug("skipping invalid filter", "line", line, slogutil.KeyError, perr)

		return 0, false, nil
	}

	return rs.AddFilter(r)
}

// AddFilter converts one parsed filter and appends the resulting rules, if
// any, to the ruleset.  added is the number of rules the filter contributed.
// handled distinguishes "converted, possibly into zero rules but with side
// effects recorded" from "dropped as unrepresentable"; both are normal
// outcomes, never errors.  An error means the ruleset was already finalized
// or a collaborator failed, not that the filter was unconvertible.
func (rs *Ruleset) AddFilter(r rules.Rule) (added int, handled bool, err error) {
	if rs.finalized {
		return 0, false, ErrFinalized
	}

	f, ok := r.(*rules.NetworkRule)
	if !ok || f == nil {
		// Comments and cosmetic rules have no URL-level condition to lower.
		return 0, false, nil
	}

	// Domains are expected to arrive punycode-encoded; a filter that still
	// contains non-ASCII text is unconvertible rather than ours to
	// transcode.
	if !isASCII(f.RuleText) {
		return 0, false, nil
	}

	// The condition language has no notion of sitekeys.
	if len(f.Sitekeys()) > 0 {
		return 0, false, nil
	}

	return rs.convertFilter(f)
}

// convertFilter is the lowering stage: it dispatches on the filter shape and
// synthesizes zero or more declarative rules.
func (rs *Ruleset) convertFilter(f *rules.NetworkRule) (added int, handled bool, err error) {
	matchCase := f.IsOptionEnabled(rules.OptionMatchCase)

	var pat *parsedPattern
	var base Condition

	if f.IsRegexRule() {
		if rs.regexChecker == nil {
			return 0, false, nil
		}

		source := f.RegexSource()
		supported, cerr := rs.regexChecker.CheckSupported(source, matchCase)
		if cerr != nil {
			return 0, false, errors.Annotate(cerr, "checking regex support: %w")
		}

		if !supported {
			return 0, false, nil
		}

		// The source is carried verbatim; case sensitivity is expressed
		// through the flag, never by rewriting the expression.
		base.RegexFilter = source
		if !matchCase {
			base.IsURLFilterCaseSensitive = newBool(false)
		}
	} else {
		pat = parsePattern(f.Pattern(), matchCase)
		if pat.urlFilter != "" && pat.urlFilter != "*" {
			base.URLFilter = pat.urlFilter
		}

		if !pat.matchCase {
			base.IsURLFilterCaseSensitive = newBool(false)
		}
	}

	switch {
	case f.IsOptionEnabled(rules.OptionThirdParty):
		base.DomainType = DomainTypeThirdParty
	case f.IsOptionDisabled(rules.OptionThirdParty):
		base.DomainType = DomainTypeFirstParty
	}

	included := f.GetPermittedDomains()
	excluded := f.GetRestrictedDomains()

	switch {
	case f.IsOptionEnabled(rules.OptionCsp):
		added = rs.addCSPRules(f, base, included, excluded)

		return added, true, nil
	case f.Whitelist:
		return rs.addAllowingRules(f, pat, base, included, excluded)
	case f.IsOptionEnabled(rules.OptionRewrite):
		added = rs.addRedirectRules(f, base, included, excluded)

		return added, added > 0, nil
	default:
		added = rs.addBlockingRules(f, base, included, excluded)

		return added, added > 0, nil
	}
}

// addCSPRules handles $csp filters, both blocking and exception ones.  CSP
// only makes sense on documents, so the conditions are pinned to the two
// frame types regardless of the filter's own type set.
func (rs *Ruleset) addCSPRules(f *rules.NetworkRule, base Condition, included, excluded []string) (added int) {
	var action Action
	var priority int

	if f.Whitelist {
		// The condition of a CSP exception cannot be told apart from a
		// frame-blocking exception, so this allow rule may incidentally
		// override frame-blocking rules it was not written against.  That
		// imprecision is accepted: the alternative would be dropping the
		// exception and over-blocking.
		action = Action{Type: ActionTypeAllow}
		if f.IsOptionEnabled(rules.OptionGenericblock) {
			priority = GenericPriority
		} else {
			priority = SpecificPriority
		}
	} else {
		action = newCSPAction(f.CSPValue())
		if len(included) == 0 {
			priority = GenericPriority
		} else {
			priority = SpecificPriority
		}
	}

	for _, cond := range frameConditions(base, included, excluded) {
		rs.rules = append(rs.rules, Rule{
			Priority:  priority,
			Condition: cond,
			Action:    action,
		})
		added++
	}

	return added
}

// addAllowingRules handles exception filters.  A $document exception turns
// into an allowAllRequests rule over both frame types; whatever resource
// types remain after that are covered by a plain allow rule.
func (rs *Ruleset) addAllowingRules(f *rules.NetworkRule, pat *parsedPattern, base Condition, included, excluded []string) (added int, handled bool, err error) {
	types := f.EffectiveRequestTypes()
	genericBlock := f.IsOptionEnabled(rules.OptionGenericblock)

	if types&rules.TypeDocument != 0 || genericBlock {
		// The allowAllRequests rule already covers nested frames, so the
		// subdocument type must not be counted a second time below.
		types &^= rules.TypeSubdocument

		priority := SpecificAllowAllPriority
		if genericBlock {
			priority = GenericAllowAllPriority
		}

		for _, cond := range frameConditions(base, included, excluded) {
			rs.rules = append(rs.rules, Rule{
				Priority:  priority,
				Condition: cond,
				Action:    Action{Type: ActionTypeAllowAllRequests},
			})
			added++
		}

		handled = true
	}

	if genericBlock && pat != nil && pat.hostname != "" {
		rs.specificOnlyDomains = append(rs.specificOnlyDomains, pat.hostname)
		handled = true
	}

	tags, omit := resourceTypes(types)
	if omit || len(tags) > 0 {
		priority := GenericPriority
		if len(included) > 0 {
			priority = SpecificPriority
		}

		rs.rules = append(rs.rules, Rule{
			Priority:  priority,
			Condition: resourceCondition(base, tags, included, excluded),
			Action:    Action{Type: ActionTypeAllow},
		})
		added++
	}

	return added, handled || added > 0, nil
}

// addRedirectRules handles $rewrite filters.  A target that cannot be
// resolved into an absolute URL produces no rules: a wrong redirect is worse
// than a missing one.
func (rs *Ruleset) addRedirectRules(f *rules.NetworkRule, base Condition, included, excluded []string) (added int) {
	target := f.RewriteTarget()

	var redirectURL string
	if name, isResource := strings.CutPrefix(target, abpResourcePrefix); isResource {
		var found bool
		redirectURL, found = resources.Lookup(name)
		if !found {
			rs.logger.Debug("skipping unknown rewrite resource", "name", name)

			return 0
		}
	} else {
		if reBackreference.MatchString(target) {
			return 0
		}

		u, uerr := url.Parse(target)
		if uerr != nil || !u.IsAbs() {
			return 0
		}

		redirectURL = target
	}

	tags, omit := resourceTypes(f.EffectiveRequestTypes())
	if !omit && len(tags) == 0 {
		return 0
	}

	priority := GenericPriority
	if len(included) > 0 {
		priority = SpecificPriority
	}

	rs.rules = append(rs.rules, Rule{
		Priority:  priority,
		Condition: resourceCondition(base, tags, included, excluded),
		Action: Action{
			Type:     ActionTypeRedirect,
			Redirect: &Redirect{URL: redirectURL},
		},
	})

	return 1
}

// addBlockingRules handles plain blocking filters.
func (rs *Ruleset) addBlockingRules(f *rules.NetworkRule, base Condition, included, excluded []string) (added int) {
	tags, omit := resourceTypes(f.EffectiveRequestTypes())
	if !omit && len(tags) == 0 {
		// No supported resource type left, e.g. "foo$document": no request
		// could ever match.
		return 0
	}

	priority := GenericPriority
	if len(included) > 0 {
		priority = SpecificPriority
	}

	rs.rules = append(rs.rules, Rule{
		Priority:  priority,
		Condition: resourceCondition(base, tags, included, excluded),
		Action:    Action{Type: ActionTypeBlock},
	})

	return 1
}

// isASCII reports whether s contains only ASCII characters.
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}

	return true
}

// newBool returns a pointer to b.
func newBool(b bool) (p *bool) {
	return &b
}
