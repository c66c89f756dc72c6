package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberMarshalsNonFiniteAsNull(t *testing.T) {
	raw, err := json.Marshal([]Number{1.5, Number(math.Inf(1)), Number(math.NaN()), 0})
	require.NoError(t, err)
	assert.JSONEq(t, `[1.5, null, null, 0]`, string(raw))
}
