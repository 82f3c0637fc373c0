package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnMapping_Validate(t *testing.T) {
	require.NoError(t, DefaultColumnMapping().Validate())

	partial := DefaultColumnMapping()
	delete(partial.Metrics, MetricHeadOffice)
	err := partial.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(MetricHeadOffice))

	dup := DefaultColumnMapping()
	dup.Category = dup.Store
	assert.Error(t, dup.Validate())

	blank := DefaultColumnMapping()
	blank.Owner = "  "
	assert.Error(t, blank.Validate())
}
