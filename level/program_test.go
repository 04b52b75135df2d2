package level

import (
	"testing"

	"github.com/richinsley/goscene/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramRejectsRepeatedTexture(t *testing.T) {
	p := NewProgram(nil)
	require.NoError(t, p.AddInputTexture(1))
	require.NoError(t, p.AddOutputTexture(2))

	assert.ErrorIs(t, p.AddInputTexture(1), ErrInvalidProgram)
	assert.ErrorIs(t, p.AddOutputTexture(1), ErrInvalidProgram)
	assert.ErrorIs(t, p.AddInputTexture(2), ErrInvalidProgram)
	assert.ErrorIs(t, p.AddOutputTexture(entity.Invalid), ErrInvalidProgram)

	assert.Equal(t, []entity.ID{1}, p.InputTextureIDs())
	assert.Equal(t, []entity.ID{2}, p.OutputTextureIDs())
}

func TestProgramListsAreCopies(t *testing.T) {
	p := NewProgram(nil)
	require.NoError(t, p.AddInputTexture(3))
	in := p.InputTextureIDs()
	in[0] = 99
	assert.Equal(t, []entity.ID{3}, p.InputTextureIDs())
}
