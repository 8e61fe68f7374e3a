package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, uint32(1), Clamp[uint32](0, 1, 4096))
	assert.Equal(t, uint32(4096), Clamp[uint32](10000, 1, 4096))
	assert.Equal(t, uint32(800), Clamp[uint32](800, 1, 4096))
	assert.Equal(t, float32(1), Clamp[float32](1.5, 0, 1))
	assert.Equal(t, -2, Clamp(-5, -2, 2))
}
