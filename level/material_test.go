package level

import (
	"testing"

	"github.com/richinsley/goscene/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotFirstFit(t *testing.T) {
	m := NewMaterial()
	s0, err := m.AcquireSlot(10)
	require.NoError(t, err)
	s1, err := m.AcquireSlot(11)
	require.NoError(t, err)
	assert.Equal(t, 0, s0)
	assert.Equal(t, 1, s1)

	m.ReleaseSlot(s0)
	s, err := m.AcquireSlot(12)
	require.NoError(t, err)
	assert.Equal(t, 0, s, "freed slot is reused first")
	assert.Equal(t, 2, m.SlotsInUse())
}

func TestSlotExhausted(t *testing.T) {
	m := NewMaterial()
	for i := 0; i < MaxTextureSlots; i++ {
		_, err := m.AcquireSlot(entity.ID(i + 1))
		require.NoError(t, err)
	}
	_, err := m.AcquireSlot(100)
	assert.ErrorIs(t, err, ErrSlotExhausted)

	m.ReleaseSlot(-1)
	m.ReleaseSlot(MaxTextureSlots)
	assert.Equal(t, MaxTextureSlots, m.SlotsInUse())
}

func TestSlotRejectsInvalidTexture(t *testing.T) {
	m := NewMaterial()
	_, err := m.AcquireSlot(entity.Invalid)
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.Equal(t, 0, m.SlotsInUse())
}
