package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRuleClassification(t *testing.T) {
	r, err := NewRule("")
	assert.Nil(t, r)
	assert.Nil(t, err)

	r, err = NewRule("  ")
	assert.Nil(t, r)
	assert.Nil(t, err)

	r, err = NewRule("! this is a comment")
	assert.Nil(t, r)
	assert.Nil(t, err)

	r, err = NewRule("# this is a comment too")
	assert.Nil(t, r)
	assert.Nil(t, err)

	r, err = NewRule("||example.org^")
	require.NoError(t, err)
	_, ok := r.(*NetworkRule)
	assert.True(t, ok)
	assert.Equal(t, "||example.org^", r.Text())

	r, err = NewRule("example.org##.banner")
	require.NoError(t, err)
	_, ok = r.(*CosmeticRule)
	assert.True(t, ok)

	_, err = NewRule("@@")
	assert.Error(t, err)
}

func TestIsComment(t *testing.T) {
	assert.True(t, isComment("! comment"))
	assert.True(t, isComment("#"))
	assert.True(t, isComment("# comment"))

	assert.False(t, isComment("||example.org^"))
	assert.False(t, isComment("##.banner"))
	assert.False(t, isComment("#%#window.foo=1"))
}

func TestNewCosmeticRule(t *testing.T) {
	f, err := NewCosmeticRule("example.org##.banner")
	require.NoError(t, err)
	assert.Equal(t, "##", f.Marker)
	assert.Equal(t, ".banner", f.Content)
	assert.False(t, f.Whitelist)
	assert.Equal(t, []string{"example.org"}, f.permittedDomains)

	f, err = NewCosmeticRule("example.org,~sub.example.org#@#.banner")
	require.NoError(t, err)
	assert.Equal(t, "#@#", f.Marker)
	assert.True(t, f.Whitelist)
	assert.Equal(t, []string{"example.org"}, f.permittedDomains)
	assert.Equal(t, []string{"sub.example.org"}, f.restrictedDomains)

	_, err = NewCosmeticRule("example.org##")
	assert.Error(t, err)
}

func TestIsDomainOrSubdomainOfAny(t *testing.T) {
	assert.True(t, IsDomainOrSubdomainOfAny("example.org", []string{"example.org"}))
	assert.True(t, IsDomainOrSubdomainOfAny("sub.example.org", []string{"example.org"}))
	assert.False(t, IsDomainOrSubdomainOfAny("example.org", []string{"sub.example.org"}))
	assert.False(t, IsDomainOrSubdomainOfAny("nonexample.org", []string{"example.org"}))
	assert.False(t, IsDomainOrSubdomainOfAny("example.org", nil))

	// Wildcard TLD patterns.
	assert.True(t, IsDomainOrSubdomainOfAny("example.org", []string{"example.*"}))
	assert.True(t, IsDomainOrSubdomainOfAny("example.co.uk", []string{"example.*"}))
	assert.False(t, IsDomainOrSubdomainOfAny("example.unknowntld", []string{"example.*"}))
}

func TestSplitWithEscapeCharacter(t *testing.T) {
	parts := splitWithEscapeCharacter("one,two,three", ',', '\\', false)
	assert.Equal(t, []string{"one", "two", "three"}, parts)

	parts = splitWithEscapeCharacter("one\\,two,three", ',', '\\', false)
	assert.Equal(t, []string{"one,two", "three"}, parts)

	parts = splitWithEscapeCharacter("one,,three", ',', '\\', false)
	assert.Equal(t, []string{"one", "three"}, parts)

	parts = splitWithEscapeCharacter("one,,three", ',', '\\', true)
	assert.Equal(t, []string{"one", "", "three"}, parts)
}
