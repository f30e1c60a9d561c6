package abp2dnr

import (
	"encoding/json"
	"regexp"

	"golang.org/x/exp/slices"
)

// reHostnameOnlyURLFilter matches urlFilters that are logically nothing but
// a hostname match: "||hostname^".
var reHostnameOnlyURLFilter = regexp.MustCompile(`^\|\|([a-z0-9-][a-z0-9.-]*)\^$`)

// compressGroup collects the merge candidates that share everything except
// their hostname.
type compressGroup struct {
	// template is the shared rule shape with the urlFilter cleared.
	template Rule

	// hostnames extracted from the candidates, in input order.
	hostnames []string

	// first is the first candidate as it arrived, used when the group ends
	// up with a single member and merging would buy nothing.
	first Rule
}

// compressRules merges rules that differ only in a single hostname into one
// rule carrying a request-domain list, trading rule count for condition
// complexity.  The output is semantically equivalent to the input: rule
// precedence is governed by priorities, which every merged rule shares with
// its group, so the reordering is invisible to the engine.
//
// It must only run after generic-exclusion finalization, and before IDs are
// assigned, since it changes rule cardinality.
func compressRules(in []Rule) (out []Rule) {
	groups := map[string]*compressGroup{}
	var order []string

	for _, r := range in {
		host := mergeCandidateHostname(r)
		if host == "" {
			out = append(out, r)

			continue
		}

		template := r
		template.Condition.URLFilter = ""

		// The grouping key is the exact serialized shape of everything but
		// the hostname.
		keyBytes, err := json.Marshal(template)
		if err != nil {
			// Rule contains nothing a JSON encoder can reject.
			panic(err)
		}

		key := string(keyBytes)
		g, ok := groups[key]
		if !ok {
			g = &compressGroup{template: template, first: r}
			groups[key] = g
			order = append(order, key)
		}

		if !slices.Contains(g.hostnames, host) {
			g.hostnames = append(g.hostnames, host)
		}
	}

	for _, key := range order {
		g := groups[key]
		if len(g.hostnames) == 1 {
			out = append(out, g.first)

			continue
		}

		merged := g.template
		merged.Condition.RequestDomains = g.hostnames
		out = append(out, merged)
	}

	return out
}

// mergeCandidateHostname returns the hostname of a merge candidate, or an
// empty string when the rule must be passed through unchanged.  A candidate
// matches exactly one hostname through its urlFilter and carries no domain
// list that a merge would clash with.
func mergeCandidateHostname(r Rule) (host string) {
	c := r.Condition
	if c.RegexFilter != "" ||
		len(c.RequestDomains) != 0 || len(c.ExcludedRequestDomains) != 0 ||
		len(c.InitiatorDomains) != 0 || len(c.ExcludedInitiatorDomains) != 0 {
		return ""
	}

	m := reHostnameOnlyURLFilter.FindStringSubmatch(c.URLFilter)
	if m == nil {
		return ""
	}

	return m[1]
}
