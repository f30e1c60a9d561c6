package abp2dnr

import (
	"log/slog"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/kzar/abp2dnr/rules"
	"golang.org/x/exp/slices"
)

// ErrFinalized is returned when filters are added to, or finalization is
// requested from, a ruleset that has already been finalized.
const ErrFinalized errors.Error = "ruleset is already finalized"

// ErrBadFirstID is returned when the first rule ID is not positive.
const ErrBadFirstID errors.Error = "first rule id must be positive"

// Config is the configuration of a conversion [Ruleset].
type Config struct {
	// Logger is used for debug output about skipped filters.  If nil,
	// [slog.Default] is used.
	Logger *slog.Logger

	// RegexChecker decides which regular expression filters are
	// representable.  If nil, all regex filters are rejected.
	RegexChecker RegexChecker
}

// Ruleset accumulates the declarative rules of one conversion run.  It is
// not safe for concurrent use; concurrent conversions must each own their
// instance.
type Ruleset struct {
	logger       *slog.Logger
	regexChecker RegexChecker

	// rules are only appended to until Finalize, which is the sole place
	// that mutates existing entries.
	rules []Rule

	// specificOnlyDomains collects the hostnames of $genericblock
	// exceptions.  They are excluded from every generic blocking rule
	// during finalization: an exception anywhere in the filter stream must
	// affect generic rules synthesized both before and after it.
	specificOnlyDomains []string

	finalized bool
}

// NewRuleset creates a ruleset for a single conversion run.
func NewRuleset(c *Config) (rs *Ruleset) {
	if c == nil {
		c = &Config{}
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Ruleset{
		logger:       logger,
		regexChecker: c.RegexChecker,
	}
}

// RuleCount returns the number of rules synthesized so far.  Compression may
// still shrink it during finalization.
func (rs *Ruleset) RuleCount() (n int) {
	return len(rs.rules)
}

// Finalize freezes the ruleset and returns the finished rule list.  It
// applies the collected $genericblock exclusions, optionally compresses the
// list, and assigns rule IDs sequentially starting from firstID.  The
// ruleset accepts no further filters afterwards.
func (rs *Ruleset) Finalize(firstID int, compress bool) (out []Rule, err error) {
	if rs.finalized {
		return nil, ErrFinalized
	}

	if firstID < 1 {
		return nil, ErrBadFirstID
	}

	rs.finalized = true

	rs.applyGenericExclusions()

	out = rs.rules
	if compress {
		out = compressRules(out)
	}

	for i := range out {
		out[i].ID = firstID + i
	}

	return out, nil
}

// applyGenericExclusions excludes the $genericblock domains from every
// generic blocking rule.  Blocking here includes redirects: a redirected
// request is as blocked as a cancelled one from the page's point of view.
func (rs *Ruleset) applyGenericExclusions() {
	if len(rs.specificOnlyDomains) == 0 {
		return
	}

	for i := range rs.rules {
		r := &rs.rules[i]
		if r.Priority != GenericPriority {
			continue
		}

		if r.Action.Type != ActionTypeBlock && r.Action.Type != ActionTypeRedirect {
			continue
		}

		r.Condition.ExcludedInitiatorDomains = unionDomains(
			r.Condition.ExcludedInitiatorDomains,
			rs.specificOnlyDomains,
		)
	}
}

// unionDomains returns existing extended with the domains from add that it
// does not already cover.  Domain exclusions apply to subdomains as well, so
// a domain whose parent is already excluded is skipped.
func unionDomains(existing, add []string) (out []string) {
	out = slices.Clone(existing)
	for _, d := range add {
		if rules.IsDomainOrSubdomainOfAny(d, out) {
			continue
		}

		out = append(out, d)
	}

	return out
}
