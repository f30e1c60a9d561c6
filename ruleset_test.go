package abp2dnr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesetIDs(t *testing.T) {
	rs := testRuleset()

	_, _, err := rs.AddFilterText("||a.com^")
	require.NoError(t, err)
	_, _, err = rs.AddFilterText("||b.com^")
	require.NoError(t, err)
	_, _, err = rs.AddFilterText("||c.com^")
	require.NoError(t, err)

	assert.Equal(t, 3, rs.RuleCount())

	out, err := rs.Finalize(1000, false)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, 1000, out[0].ID)
	assert.Equal(t, 1001, out[1].ID)
	assert.Equal(t, 1002, out[2].ID)
}

func TestRulesetFinalizedErrors(t *testing.T) {
	rs := testRuleset()

	_, err := rs.Finalize(0, false)
	assert.ErrorIs(t, err, ErrBadFirstID)

	_, err = rs.Finalize(1, false)
	require.NoError(t, err)

	// Frozen: no further filters, no second finalization.
	_, _, err = rs.AddFilterText("||a.com^")
	assert.ErrorIs(t, err, ErrFinalized)

	_, err = rs.Finalize(1, false)
	assert.ErrorIs(t, err, ErrFinalized)
}

func TestRulesetNilConfig(t *testing.T) {
	rs := NewRuleset(nil)

	// No regex checker: regex filters are rejected, everything else works.
	added, handled, err := rs.AddFilterText("||a.com^")
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.True(t, handled)

	added, handled, err = rs.AddFilterText("/banner/")
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.False(t, handled)
}

func TestUnionDomains(t *testing.T) {
	out := unionDomains([]string{"a.com"}, []string{"b.com", "a.com", "sub.a.com"})
	assert.Equal(t, []string{"a.com", "b.com"}, out)

	out = unionDomains(nil, []string{"a.com"})
	assert.Equal(t, []string{"a.com"}, out)

	out = unionDomains([]string{"a.com"}, nil)
	assert.Equal(t, []string{"a.com"}, out)
}
