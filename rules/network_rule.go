package rules

import (
	"fmt"
	"strings"

	"github.com/AdguardTeam/golibs/errors"
)

const (
	maskWhiteList    = "@@"
	maskRegexRule    = "/"
	optionsDelimiter = '$'
	escapeCharacter  = '\\'
)

// MaskStartURL is the anchor matching the beginning of a domain name.
const MaskStartURL = "||"

// MaskPipe is the anchor matching the start or the end of an URL.
const MaskPipe = "|"

// MaskAnyCharacter matches any sequence of characters.
const MaskAnyCharacter = "*"

// ErrTooWideRule is returned if the rule matches all urls but has no domain
// restrictions and no meaningful pattern.
const ErrTooWideRule errors.Error = "the rule is too wide, add domain restrictions or make it more specific"

// NetworkRuleOption is the enumeration of various rule options.
// In order to save memory, we store some options as a flag.
type NetworkRuleOption uint32

// NetworkRuleOption enumeration.
const (
	OptionThirdParty NetworkRuleOption = 1 << iota // $third-party modifier
	OptionMatchCase                                // $match-case modifier
	OptionImportant                                // $important modifier

	// Whitelist rules modifiers
	// Each of them can disable part of the functionality

	OptionElemhide     // $elemhide modifier
	OptionGenerichide  // $generichide modifier
	OptionGenericblock // $genericblock modifier

	// Content-modifying
	OptionCsp     // $csp modifier
	OptionRewrite // $rewrite modifier

	// Blocking
	OptionPopup // $popup modifier

	// Whitelist-only options
	OptionWhitelistOnly = OptionElemhide | OptionGenerichide | OptionGenericblock

	// Blacklist-only options
	OptionBlacklistOnly = OptionPopup | OptionRewrite
)

// NetworkRule is a basic URL-pattern filtering rule.
// https://kb.adguard.com/en/general/how-to-create-your-own-ad-filters#basic-rules
type NetworkRule struct {
	RuleText  string // RuleText is the original rule text
	Whitelist bool   // true if this is an exception rule

	pattern string // the basic rule pattern, or a "/regex/" source

	permittedDomains  []string // a list of permitted domains from the $domain modifier
	restrictedDomains []string // a list of restricted domains from the $domain modifier

	sitekeys []string // public keys from the $sitekey modifier

	cspValue      string // the directive of the $csp modifier
	rewriteTarget string // the target of the $rewrite modifier

	enabledOptions  NetworkRuleOption // Flag with all enabled rule options
	disabledOptions NetworkRuleOption // Flag with all disabled rule options

	permittedRequestTypes  RequestType // Flag with all permitted request types. 0 means ALL.
	restrictedRequestTypes RequestType // Flag with all restricted request types. 0 means NONE.
}

// NewNetworkRule parses the rule text and returns a filter rule.
func NewNetworkRule(ruleText string) (r *NetworkRule, err error) {
	// split rule into pattern and options
	pattern, options, whitelist, err := parseRuleText(ruleText)
	if err != nil {
		return nil, err
	}

	r = &NetworkRule{
		RuleText:  ruleText,
		Whitelist: whitelist,
		pattern:   pattern,
	}

	// parse options
	err = r.loadOptions(options)
	if err != nil {
		return nil, err
	}

	// example.org/* -> example.org^
	if strings.HasSuffix(r.pattern, "/*") {
		r.pattern = r.pattern[:len(r.pattern)-len("/*")] + "^"
	}

	// validate rule
	if pattern == MaskStartURL || pattern == MaskPipe ||
		pattern == MaskAnyCharacter || pattern == "" ||
		len(pattern) < 3 {
		if len(r.permittedDomains) == 0 {
			// Rule matches too much and does not have any domain restrictions.
			// We should not allow this kind of rules.
			return nil, ErrTooWideRule
		}
	}

	return r, nil
}

// Text returns the original rule text.  Implements the [Rule] interface.
func (f *NetworkRule) Text() string {
	return f.RuleText
}

// String returns original rule text.
func (f *NetworkRule) String() string {
	return f.RuleText
}

// Pattern returns the rule's URL pattern, including the surrounding slashes
// for regex rules.
func (f *NetworkRule) Pattern() string {
	return f.pattern
}

// IsRegexRule returns true if rule's pattern is a regular expression.
func (f *NetworkRule) IsRegexRule() bool {
	return len(f.pattern) > 1 &&
		strings.HasPrefix(f.pattern, maskRegexRule) &&
		strings.HasSuffix(f.pattern, maskRegexRule)
}

// RegexSource returns the regular expression source text without the
// surrounding slashes.  It is only meaningful when IsRegexRule is true.
func (f *NetworkRule) RegexSource() string {
	if !f.IsRegexRule() {
		return ""
	}

	return f.pattern[1 : len(f.pattern)-1]
}

// IsOptionEnabled returns true if the specified option is enabled.
func (f *NetworkRule) IsOptionEnabled(option NetworkRuleOption) bool {
	return (f.enabledOptions & option) == option
}

// IsOptionDisabled returns true if the specified option is disabled.
func (f *NetworkRule) IsOptionDisabled(option NetworkRuleOption) bool {
	return (f.disabledOptions & option) == option
}

// GetPermittedDomains returns the domains this rule is allowed on.
func (f *NetworkRule) GetPermittedDomains() []string {
	return f.permittedDomains
}

// GetRestrictedDomains returns the domains this rule is forbidden on.
func (f *NetworkRule) GetRestrictedDomains() []string {
	return f.restrictedDomains
}

// Sitekeys returns the public keys from the $sitekey modifier.
func (f *NetworkRule) Sitekeys() []string {
	return f.sitekeys
}

// CSPValue returns the directive of the $csp modifier.
func (f *NetworkRule) CSPValue() string {
	return f.cspValue
}

// RewriteTarget returns the target of the $rewrite modifier.
func (f *NetworkRule) RewriteTarget() string {
	return f.rewriteTarget
}

// IsGeneric returns true if the rule is considered "generic".
// "generic" means that the rule is not restricted to a limited set of
// domains.  Please note that it might be forbidden on some domains, though.
func (f *NetworkRule) IsGeneric() bool {
	return len(f.permittedDomains) == 0
}

// EffectiveRequestTypes returns the set of request types the rule applies
// to.  An untyped rule applies to [TypeDefault]; restricted types are
// always masked off.
func (f *NetworkRule) EffectiveRequestTypes() RequestType {
	t := f.permittedRequestTypes
	if t == 0 {
		t = TypeDefault
	}

	return t &^ f.restrictedRequestTypes
}

// setRequestType permits or forbids the specified request type.
func (f *NetworkRule) setRequestType(requestType RequestType, permitted bool) {
	if permitted {
		f.permittedRequestTypes |= requestType
	} else {
		f.restrictedRequestTypes |= requestType
	}
}

// setOptionEnabled enables or disables the specified option.  It returns an
// error if the option cannot be used with this type of rules.
func (f *NetworkRule) setOptionEnabled(option NetworkRuleOption, enabled bool) error {
	if f.Whitelist && (option&OptionBlacklistOnly) == option {
		return fmt.Errorf("modifier cannot be used in a whitelist rule: %v", option)
	}

	if !f.Whitelist && (option&OptionWhitelistOnly) == option {
		return fmt.Errorf("modifier cannot be used in a blacklist rule: %v", option)
	}

	if enabled {
		f.enabledOptions |= option
	} else {
		f.disabledOptions |= option
	}

	return nil
}

// loadOptions loads all the filtering rule options.
// Read the details on each here:
// https://kb.adguard.com/en/general/how-to-create-your-own-ad-filters#basic-rules
func (f *NetworkRule) loadOptions(options string) error {
	if options == "" {
		return nil
	}

	optionsParts := splitWithEscapeCharacter(options, ',', escapeCharacter, false)
	for i := 0; i < len(optionsParts); i++ {
		option := optionsParts[i]
		valueIndex := strings.Index(option, "=")
		optionName := option
		optionValue := ""
		if valueIndex > 0 {
			optionName = option[:valueIndex]
			optionValue = option[valueIndex+1:]
		}

		err := f.loadOption(optionName, optionValue)
		if err != nil {
			return err
		}
	}

	return nil
}

// loadOption loads the specified option with its value (optional).
//
// nolint:gocyclo
func (f *NetworkRule) loadOption(name, value string) error {
	switch name {
	// General options
	case "third-party", "~first-party":
		return f.setOptionEnabled(OptionThirdParty, true)
	case "~third-party", "first-party":
		return f.setOptionEnabled(OptionThirdParty, false)
	case "match-case":
		return f.setOptionEnabled(OptionMatchCase, true)
	case "~match-case":
		return f.setOptionEnabled(OptionMatchCase, false)
	case "important":
		return f.setOptionEnabled(OptionImportant, true)

	// $domain -- limits the rule for selected source domains
	case "domain":
		permitted, restricted, err := loadDomains(value, "|")
		f.permittedDomains = permitted
		f.restrictedDomains = restricted
		return err

	// $sitekey -- limits the rule to pages signed with the listed public keys
	case "sitekey":
		if value == "" {
			return fmt.Errorf("no sitekey specified: %s", f.RuleText)
		}
		f.sitekeys = strings.Split(value, "|")
		return nil

	// $csp -- injects a Content-Security-Policy header into matching responses
	case "csp":
		if value == "" && !f.Whitelist {
			return fmt.Errorf("empty $csp directive in a blocking rule: %s", f.RuleText)
		}
		f.cspValue = value
		return f.setOptionEnabled(OptionCsp, true)

	// $rewrite -- redirects matching requests to a substitute resource
	case "rewrite":
		if value == "" {
			return fmt.Errorf("no rewrite target specified: %s", f.RuleText)
		}
		f.rewriteTarget = value
		return f.setOptionEnabled(OptionRewrite, true)

	// Document-level whitelist rules
	case "elemhide":
		f.setRequestType(TypeElemhide, true)
		return f.setOptionEnabled(OptionElemhide, true)
	case "generichide":
		f.setRequestType(TypeGenerichide, true)
		return f.setOptionEnabled(OptionGenerichide, true)
	case "genericblock":
		f.setRequestType(TypeGenericblock, true)
		return f.setOptionEnabled(OptionGenericblock, true)

	// $document
	case "document":
		f.setRequestType(TypeDocument, true)
		return nil
	case "~document":
		f.setRequestType(TypeDocument, false)
		return nil

	// $popup blocking option
	case "popup":
		f.setRequestType(TypePopup, true)
		return f.setOptionEnabled(OptionPopup, true)

	// Content type options
	case "script":
		f.setRequestType(TypeScript, true)
		return nil
	case "~script":
		f.setRequestType(TypeScript, false)
		return nil
	case "stylesheet":
		f.setRequestType(TypeStylesheet, true)
		return nil
	case "~stylesheet":
		f.setRequestType(TypeStylesheet, false)
		return nil
	case "subdocument":
		f.setRequestType(TypeSubdocument, true)
		return nil
	case "~subdocument":
		f.setRequestType(TypeSubdocument, false)
		return nil
	case "object":
		f.setRequestType(TypeObject, true)
		return nil
	case "~object":
		f.setRequestType(TypeObject, false)
		return nil
	case "image":
		f.setRequestType(TypeImage, true)
		return nil
	case "~image":
		f.setRequestType(TypeImage, false)
		return nil
	case "xmlhttprequest":
		f.setRequestType(TypeXmlhttprequest, true)
		return nil
	case "~xmlhttprequest":
		f.setRequestType(TypeXmlhttprequest, false)
		return nil
	case "media":
		f.setRequestType(TypeMedia, true)
		return nil
	case "~media":
		f.setRequestType(TypeMedia, false)
		return nil
	case "font":
		f.setRequestType(TypeFont, true)
		return nil
	case "~font":
		f.setRequestType(TypeFont, false)
		return nil
	case "websocket":
		f.setRequestType(TypeWebsocket, true)
		return nil
	case "~websocket":
		f.setRequestType(TypeWebsocket, false)
		return nil
	case "ping":
		f.setRequestType(TypePing, true)
		return nil
	case "~ping":
		f.setRequestType(TypePing, false)
		return nil
	case "other":
		f.setRequestType(TypeOther, true)
		return nil
	case "~other":
		f.setRequestType(TypeOther, false)
		return nil
	}

	return fmt.Errorf("unknown filter modifier: %s=%s", name, value)
}

// parseRuleText splits the rule text in multiple parts:
// pattern -- a basic rule pattern or a "/regex/" source,
// options -- a string with all rule options,
// whitelist -- indicates if rule is "whitelist" (e.g. it should unblock
// requests, not block them).
func parseRuleText(ruleText string) (pattern, options string, whitelist bool, err error) {
	startIndex := 0
	if strings.HasPrefix(ruleText, maskWhiteList) {
		whitelist = true
		startIndex = len(maskWhiteList)
	}

	if len(ruleText) <= startIndex {
		err = fmt.Errorf("the rule is too short: %s", ruleText)
		return
	}

	// Setting pattern to rule text (for the case of empty options)
	pattern = ruleText[startIndex:]

	// Avoid parsing options inside of a regex rule
	if strings.HasPrefix(pattern, maskRegexRule) &&
		strings.HasSuffix(pattern, maskRegexRule) {
		return
	}

	foundEscaped := false
	for i := len(ruleText) - 2; i >= startIndex; i-- {
		c := ruleText[i]

		if c == optionsDelimiter {
			if i > startIndex && ruleText[i-1] == escapeCharacter {
				foundEscaped = true
			} else {
				pattern = ruleText[startIndex:i]
				options = ruleText[i+1:]

				if foundEscaped {
					// Find and replace escaped options delimiter
					options = strings.ReplaceAll(options, string(escapeCharacter)+string(optionsDelimiter), string(optionsDelimiter))
				}

				// Options delimiter was found, exiting loop
				break
			}
		}
	}

	return
}
