package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakePageSpan(t *testing.T) {
	assert.Equal(t, "3", MakePageSpan(3, 3))
	assert.Equal(t, "3-5", MakePageSpan(3, 5))
}

func TestParsePageSpan_SinglePage(t *testing.T) {
	pages, err := ParsePageSpan("7")
	require.NoError(t, err)
	assert.Equal(t, []int{7}, pages)
}

func TestParsePageSpan_Range(t *testing.T) {
	pages, err := ParsePageSpan("2-5")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4, 5}, pages)
}

func TestParsePageSpan_Invalid(t *testing.T) {
	invalid := []string{"", "abc", "1-x", "x-3", "0", "-1", "5-2", "3-0"}
	for _, span := range invalid {
		_, err := ParsePageSpan(span)
		assert.ErrorIs(t, err, ErrInvalidPageSpan, "span %q", span)
	}
}

func TestParsePageSpan_RoundTrip(t *testing.T) {
	pages, err := ParsePageSpan(MakePageSpan(4, 6))
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5, 6}, pages)
}

func TestContentDigest_Deterministic(t *testing.T) {
	a := ContentDigest("fire extinguisher spacing")
	b := ContentDigest("fire extinguisher spacing")
	c := ContentDigest("fire extinguisher placement")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32) // 16 bytes hex encoded
}
