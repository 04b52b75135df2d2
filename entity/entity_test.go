package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDValid(t *testing.T) {
	assert.False(t, Invalid.Valid())
	assert.False(t, ID(-3).Valid())
	assert.True(t, ID(1).Valid())
	assert.Equal(t, "#42", ID(42).String())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "texture", KindTexture.String())
	assert.Equal(t, "static mesh", KindStaticMesh.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
