package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNetworkRuleText(t *testing.T) {
	pattern, options, whitelist, err := parseRuleText("||example.org^")
	assert.Equal(t, "||example.org^", pattern)
	assert.Equal(t, "", options)
	assert.Equal(t, false, whitelist)
	assert.Nil(t, err)

	pattern, options, whitelist, err = parseRuleText("||example.org^$third-party")
	assert.Equal(t, "||example.org^", pattern)
	assert.Equal(t, "third-party", options)
	assert.Equal(t, false, whitelist)
	assert.Nil(t, err)

	pattern, options, whitelist, err = parseRuleText("@@||example.org^$third-party")
	assert.Equal(t, "||example.org^", pattern)
	assert.Equal(t, "third-party", options)
	assert.Equal(t, true, whitelist)
	assert.Nil(t, err)

	pattern, options, whitelist, err = parseRuleText("@@||example.org/this$is$path$third-party")
	assert.Equal(t, "||example.org/this$is$path", pattern)
	assert.Equal(t, "third-party", options)
	assert.Equal(t, true, whitelist)
	assert.Nil(t, err)

	pattern, options, whitelist, err = parseRuleText("/regex/")
	assert.Equal(t, "/regex/", pattern)
	assert.Equal(t, "", options)
	assert.Equal(t, false, whitelist)
	assert.Nil(t, err)

	pattern, options, whitelist, err = parseRuleText("@@/regex/")
	assert.Equal(t, "/regex/", pattern)
	assert.Equal(t, "", options)
	assert.Equal(t, true, whitelist)
	assert.Nil(t, err)

	_, _, _, err = parseRuleText("@@")
	assert.NotNil(t, err)
}

func TestNetworkRuleOptions(t *testing.T) {
	f, err := NewNetworkRule("||example.org^$third-party,match-case")
	require.NoError(t, err)
	assert.True(t, f.IsOptionEnabled(OptionThirdParty))
	assert.True(t, f.IsOptionEnabled(OptionMatchCase))

	f, err = NewNetworkRule("||example.org^$~third-party")
	require.NoError(t, err)
	assert.False(t, f.IsOptionEnabled(OptionThirdParty))
	assert.True(t, f.IsOptionDisabled(OptionThirdParty))

	f, err = NewNetworkRule("||example.org^$first-party")
	require.NoError(t, err)
	assert.True(t, f.IsOptionDisabled(OptionThirdParty))

	// Whitelist-only options must not work in blacklist rules.
	_, err = NewNetworkRule("||example.org^$genericblock")
	assert.Error(t, err)

	f, err = NewNetworkRule("@@||example.org^$genericblock")
	require.NoError(t, err)
	assert.True(t, f.IsOptionEnabled(OptionGenericblock))
	assert.True(t, f.Whitelist)

	// Blacklist-only options must not work in whitelist rules.
	_, err = NewNetworkRule("@@||example.org^$popup")
	assert.Error(t, err)

	// Unknown modifiers are parse errors.
	_, err = NewNetworkRule("||example.org^$unknown-modifier")
	assert.Error(t, err)
}

func TestNetworkRuleRequestTypes(t *testing.T) {
	f, err := NewNetworkRule("||example.org^")
	require.NoError(t, err)
	assert.Equal(t, TypeDefault, f.EffectiveRequestTypes())

	f, err = NewNetworkRule("||example.org^$script,image")
	require.NoError(t, err)
	assert.Equal(t, TypeScript|TypeImage, f.EffectiveRequestTypes())

	f, err = NewNetworkRule("||example.org^$~script")
	require.NoError(t, err)
	assert.Equal(t, TypeDefault&^TypeScript, f.EffectiveRequestTypes())

	f, err = NewNetworkRule("foo$document")
	require.NoError(t, err)
	assert.Equal(t, TypeDocument, f.EffectiveRequestTypes())

	f, err = NewNetworkRule("@@||example.org^$document,image")
	require.NoError(t, err)
	assert.Equal(t, TypeDocument|TypeImage, f.EffectiveRequestTypes())
}

func TestNetworkRuleDomains(t *testing.T) {
	f, err := NewNetworkRule("||example.org^$domain=example.com|~sub.example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com"}, f.GetPermittedDomains())
	assert.Equal(t, []string{"sub.example.com"}, f.GetRestrictedDomains())
	assert.False(t, f.IsGeneric())

	f, err = NewNetworkRule("||example.org^$domain=~example.com")
	require.NoError(t, err)
	assert.Empty(t, f.GetPermittedDomains())
	assert.Equal(t, []string{"example.com"}, f.GetRestrictedDomains())
	assert.True(t, f.IsGeneric())

	// Domains are lowercased.
	f, err = NewNetworkRule("||example.org^$domain=EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com"}, f.GetPermittedDomains())

	_, err = NewNetworkRule("||example.org^$domain=")
	assert.Error(t, err)

	_, err = NewNetworkRule("||example.org^$domain=not_a_domain!")
	assert.Error(t, err)
}

func TestNetworkRuleValueModifiers(t *testing.T) {
	f, err := NewNetworkRule("||example.org^$csp=script-src 'none'")
	require.NoError(t, err)
	assert.True(t, f.IsOptionEnabled(OptionCsp))
	assert.Equal(t, "script-src 'none'", f.CSPValue())

	// An empty $csp directive is only meaningful in exceptions.
	_, err = NewNetworkRule("||example.org^$csp")
	assert.Error(t, err)

	f, err = NewNetworkRule("@@||example.org^$csp")
	require.NoError(t, err)
	assert.True(t, f.IsOptionEnabled(OptionCsp))
	assert.Equal(t, "", f.CSPValue())

	f, err = NewNetworkRule("||example.org/script.js$rewrite=abp-resource:blank-js")
	require.NoError(t, err)
	assert.True(t, f.IsOptionEnabled(OptionRewrite))
	assert.Equal(t, "abp-resource:blank-js", f.RewriteTarget())

	f, err = NewNetworkRule("@@||example.org^$sitekey=abcdef|ghijkl")
	require.NoError(t, err)
	assert.Equal(t, []string{"abcdef", "ghijkl"}, f.Sitekeys())
}

func TestNetworkRuleRegex(t *testing.T) {
	f, err := NewNetworkRule("/banner\\d+/")
	require.NoError(t, err)
	assert.True(t, f.IsRegexRule())
	assert.Equal(t, "banner\\d+", f.RegexSource())

	f, err = NewNetworkRule("/banner/$image")
	require.NoError(t, err)
	assert.True(t, f.IsRegexRule())
	assert.Equal(t, "banner", f.RegexSource())
	assert.Equal(t, TypeImage, f.EffectiveRequestTypes())

	f, err = NewNetworkRule("||example.org^")
	require.NoError(t, err)
	assert.False(t, f.IsRegexRule())
	assert.Equal(t, "", f.RegexSource())
}

func TestNetworkRuleTooWide(t *testing.T) {
	_, err := NewNetworkRule("*")
	assert.ErrorIs(t, err, ErrTooWideRule)

	_, err = NewNetworkRule("||")
	assert.ErrorIs(t, err, ErrTooWideRule)

	_, err = NewNetworkRule("ad")
	assert.ErrorIs(t, err, ErrTooWideRule)

	// Domain restrictions make a wide pattern acceptable.
	f, err := NewNetworkRule("*$domain=example.org")
	require.NoError(t, err)
	assert.Equal(t, []string{"example.org"}, f.GetPermittedDomains())
}

func TestNetworkRulePatternShortcuts(t *testing.T) {
	// example.org/* -> example.org^
	f, err := NewNetworkRule("||example.org/*")
	require.NoError(t, err)
	assert.Equal(t, "||example.org^", f.Pattern())
}
