package level

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goscene/entity"
)

// MaxTextureSlots is the size of the slot table, matching the texture units
// every GL 4.1 implementation guarantees per stage.
const MaxTextureSlots = 16

// MaterialTexture binds a texture to a named sampler uniform.
type MaterialTexture struct {
	Sampler string
	Texture entity.ID
}

// Material carries surface parameters and the texture slot table used to
// bind sampled textures to numbered units.
type Material struct {
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
	Shininess float32
	Textures  []MaterialTexture

	slots [MaxTextureSlots]entity.ID
}

func NewMaterial() *Material {
	return &Material{Diffuse: mgl32.Vec3{1, 1, 1}}
}

// AcquireSlot reserves the first free slot for tex.
func (m *Material) AcquireSlot(tex entity.ID) (int, error) {
	if !tex.Valid() {
		return -1, fmt.Errorf("%w: texture %s", entity.ErrNotFound, tex)
	}
	for i, held := range m.slots {
		if held == entity.Invalid {
			m.slots[i] = tex
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: all %d slots bound, cannot bind texture %s", ErrSlotExhausted, MaxTextureSlots, tex)
}

// ReleaseSlot frees slot. Releasing a free or out of range slot is a no-op.
func (m *Material) ReleaseSlot(slot int) {
	if slot < 0 || slot >= MaxTextureSlots {
		return
	}
	m.slots[slot] = entity.Invalid
}

// SlotsInUse returns how many slots are currently bound.
func (m *Material) SlotsInUse() int {
	n := 0
	for _, held := range m.slots {
		if held != entity.Invalid {
			n++
		}
	}
	return n
}
