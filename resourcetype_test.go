package abp2dnr

import (
	"testing"

	"github.com/kzar/abp2dnr/rules"
	"github.com/stretchr/testify/assert"
)

func TestResourceTypes(t *testing.T) {
	// Full default coverage: the condition field should be omitted.
	tags, omit := resourceTypes(rules.TypeDefault)
	assert.Nil(t, tags)
	assert.True(t, omit)

	tags, omit = resourceTypes(rules.TypeScript | rules.TypeImage)
	assert.False(t, omit)
	assert.Equal(t, []string{"script", "image"}, tags)

	// $other folds in CSP reports, which have their own declarative type.
	tags, omit = resourceTypes(rules.TypeOther)
	assert.False(t, omit)
	assert.Equal(t, []string{"other", "csp_report"}, tags)

	tags, omit = resourceTypes(rules.TypeSubdocument)
	assert.False(t, omit)
	assert.Equal(t, []string{"sub_frame"}, tags)

	// Top-level documents have no blockable resource type.
	tags, omit = resourceTypes(rules.TypeDocument)
	assert.False(t, omit)
	assert.Empty(t, tags)

	tags, omit = resourceTypes(rules.TypeDocument | rules.TypeImage)
	assert.False(t, omit)
	assert.Equal(t, []string{"image"}, tags)

	// Extra marker types do not break full coverage.
	tags, omit = resourceTypes(rules.TypeDefault | rules.TypeDocument)
	assert.Nil(t, tags)
	assert.True(t, omit)
}
