package filterlist

import (
	"strings"
	"testing"

	"github.com/kzar/abp2dnr/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleScanner(t *testing.T) {
	filterList := `! comment
||example.org^

example.org##.banner
not a valid $rule$
@@||example.com^$document`

	scanner := NewRuleScanner(strings.NewReader(filterList))

	require.True(t, scanner.Scan())
	rule, lineNo := scanner.Rule()
	assert.Equal(t, "||example.org^", rule.Text())
	assert.Equal(t, 2, lineNo)
	_, ok := rule.(*rules.NetworkRule)
	assert.True(t, ok)

	require.True(t, scanner.Scan())
	rule, lineNo = scanner.Rule()
	assert.Equal(t, "example.org##.banner", rule.Text())
	assert.Equal(t, 4, lineNo)
	_, ok = rule.(*rules.CosmeticRule)
	assert.True(t, ok)

	require.True(t, scanner.Scan())
	rule, lineNo = scanner.Rule()
	assert.Equal(t, "@@||example.com^$document", rule.Text())
	assert.Equal(t, 6, lineNo)

	assert.False(t, scanner.Scan())
	assert.Nil(t, scanner.Err())
}

func TestRuleScannerEmpty(t *testing.T) {
	scanner := NewRuleScanner(strings.NewReader(""))
	assert.False(t, scanner.Scan())
	assert.Nil(t, scanner.Err())
}
