package typeid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDsCarryPrefix(t *testing.T) {
	id := NewStickyID()
	assert.True(t, strings.HasPrefix(id, PrefixSticky+"_"))
	require.NoError(t, Validate(id, PrefixSticky))
	assert.Error(t, Validate(id, PrefixText))
}

func TestNewIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 200 {
		id := NewShapeID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	assert.Error(t, Validate("not an id", PrefixShape))
}
