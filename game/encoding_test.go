package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeShapeAndPawnPlanes(t *testing.T) {
	s := NewCorridors(9, 10)
	enc := Encode(s)
	require.NotNil(t, enc)
	shape := enc.Shape()
	assert.Equal(t, []int{encodingFeatures, 9, 9}, []int(shape))

	heroIdx := int(s.heroPos.Y)*9 + int(s.heroPos.X)
	v, err := enc.At(0, int(s.heroPos.Y), int(s.heroPos.X))
	require.NoError(t, err)
	assert.Equal(t, float32(1), v)
	_ = heroIdx
}

func TestEncodeNonCorridorsReturnsNil(t *testing.T) {
	assert.Nil(t, Encode(nil))
}
