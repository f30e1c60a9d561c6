// Package abp2dnr converts Adblock-Plus-style filter text into
// declarativeNetRequest rules.
//
// The conversion is lossy on purpose: filters that the declarative rule
// schema cannot express are dropped, never approximated into something that
// blocks more or less than the filter author intended.
package abp2dnr

// Rule priorities.  Specific (domain-restricted) rules must override generic
// ones, and an "allow all requests on this frame" rule must override a plain
// allow rule of the same specificity.
const (
	// GenericPriority is the priority of rules without positive domain
	// restrictions.
	GenericPriority = 1000

	// GenericAllowAllPriority is the priority of allowAllRequests rules
	// produced by $genericblock exceptions.
	GenericAllowAllPriority = 1001

	// SpecificPriority is the priority of domain-restricted rules.
	SpecificPriority = 2000

	// SpecificAllowAllPriority is the priority of allowAllRequests rules
	// produced by $document exceptions.
	SpecificAllowAllPriority = 2001
)

// Action types.
const (
	ActionTypeBlock            = "block"
	ActionTypeAllow            = "allow"
	ActionTypeAllowAllRequests = "allowAllRequests"
	ActionTypeRedirect         = "redirect"
	ActionTypeModifyHeaders    = "modifyHeaders"
)

// Resource type names of the declarative rule schema.
const (
	ResourceTypeMainFrame = "main_frame"
	ResourceTypeSubFrame  = "sub_frame"
)

// Domain types.
const (
	DomainTypeFirstParty = "firstParty"
	DomainTypeThirdParty = "thirdParty"
)

// Rule is a single declarativeNetRequest rule.
//
// Field presence is semantically meaningful in the declarative schema, so
// every optional field must be omitted entirely when unset, never serialized
// as null or as a zero value.
type Rule struct {
	// ID is the rule identifier.  It is assigned by [Ruleset.Finalize] and
	// is zero before that.
	ID int `json:"id,omitempty"`

	// Priority is one of the priority tier constants.
	Priority int `json:"priority"`

	// Condition is the matching predicate of the rule.
	Condition Condition `json:"condition"`

	// Action is performed when the condition matches a request.
	Action Action `json:"action"`
}

// Condition is the matching predicate of a declarative rule.  URLFilter and
// RegexFilter are mutually exclusive; both may be empty for rules that match
// on domains alone.
type Condition struct {
	// URLFilter is the url pattern in the declarative urlFilter syntax.
	URLFilter string `json:"urlFilter,omitempty"`

	// RegexFilter is the regular expression source text, carried over from
	// the filter verbatim.
	RegexFilter string `json:"regexFilter,omitempty"`

	// IsURLFilterCaseSensitive is only set (to false) when the pattern must
	// be matched case-insensitively.  The engine default is case-sensitive
	// matching, so explicit true is redundant and never emitted.
	IsURLFilterCaseSensitive *bool `json:"isUrlFilterCaseSensitive,omitempty"`

	// ResourceTypes limits the rule to the listed resource types.  An
	// absent list means "all default types".
	ResourceTypes []string `json:"resourceTypes,omitempty"`

	// RequestDomains and ExcludedRequestDomains match the domain of the
	// requested resource itself.  They are the only domain fields that work
	// for top-level document loads, which have no initiator.
	RequestDomains         []string `json:"requestDomains,omitempty"`
	ExcludedRequestDomains []string `json:"excludedRequestDomains,omitempty"`

	// InitiatorDomains and ExcludedInitiatorDomains match the domain of the
	// frame the request originates from.
	InitiatorDomains         []string `json:"initiatorDomains,omitempty"`
	ExcludedInitiatorDomains []string `json:"excludedInitiatorDomains,omitempty"`

	// DomainType is "firstParty", "thirdParty", or empty for both.
	DomainType string `json:"domainType,omitempty"`
}

// Action describes what happens to a matched request.
type Action struct {
	// Type is one of the ActionType constants.
	Type string `json:"type"`

	// Redirect is only set for redirect actions.
	Redirect *Redirect `json:"redirect,omitempty"`

	// ResponseHeaders is only set for modifyHeaders actions.
	ResponseHeaders []HeaderInfo `json:"responseHeaders,omitempty"`
}

// Redirect is the target of a redirect action.
type Redirect struct {
	// URL is the absolute URL to redirect matched requests to.
	URL string `json:"url"`
}

// HeaderInfo is a single header modification of a modifyHeaders action.
type HeaderInfo struct {
	// Header is the header name.
	Header string `json:"header"`

	// Operation is "append", "set", or "remove".
	Operation string `json:"operation"`

	// Value is the header value for append and set operations.
	Value string `json:"value,omitempty"`
}

// cspHeaderName is the header injected by rules converted from $csp filters.
const cspHeaderName = "Content-Security-Policy"

// newCSPAction returns a modifyHeaders action appending the given
// Content-Security-Policy directive to matched responses.
func newCSPAction(directive string) (a Action) {
	return Action{
		Type: ActionTypeModifyHeaders,
		ResponseHeaders: []HeaderInfo{{
			Header:    cspHeaderName,
			Operation: "append",
			Value:     directive,
		}},
	}
}
