package abp2dnr

// frameConditions produces the conditions of a rule whose action applies to
// whole frames, top-level and nested alike.  The declarative engine matches
// the two differently: a top-level document load has no initiator, so it can
// only be restricted through request domains, while nested frames and
// subresources are restricted through initiator domains.  A domain-restricted
// rule therefore has to be split into two sibling conditions; without domain
// restrictions one condition listing both resource types suffices.
func frameConditions(base Condition, included, excluded []string) (conds []Condition) {
	if len(included) == 0 && len(excluded) == 0 {
		base.ResourceTypes = []string{ResourceTypeMainFrame, ResourceTypeSubFrame}

		return []Condition{base}
	}

	main := base
	main.ResourceTypes = []string{ResourceTypeMainFrame}
	main.RequestDomains = included
	main.ExcludedRequestDomains = excluded

	sub := base
	sub.ResourceTypes = []string{ResourceTypeSubFrame}
	sub.InitiatorDomains = included
	sub.ExcludedInitiatorDomains = excluded

	return []Condition{main, sub}
}

// resourceCondition produces the single condition of a rule that never
// applies to top-level document loads.  Such requests always have an
// initiator, so initiator domains capture the filter's $domain restrictions
// exactly.
func resourceCondition(base Condition, types, included, excluded []string) (cond Condition) {
	base.ResourceTypes = types
	base.InitiatorDomains = included
	base.ExcludedInitiatorDomains = excluded

	return base
}
