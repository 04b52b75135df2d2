package level

import (
	"fmt"

	"github.com/richinsley/goscene/entity"
)

// Program is one render pass: a shader plus the textures it samples and the
// textures it writes. The scheduler orders programs from these two lists
// alone.
type Program struct {
	Shader    Shader
	DepthTest bool
	// SceneRoot is the node subtree or single static mesh drawn by the
	// pass. Invalid means the pass draws the default quad.
	SceneRoot entity.ID

	inputs  []entity.ID
	outputs []entity.ID
}

func NewProgram(shader Shader) *Program {
	return &Program{Shader: shader}
}

// AddInputTexture declares a texture sampled by the program.
func (p *Program) AddInputTexture(id entity.ID) error {
	if err := p.checkNew(id); err != nil {
		return err
	}
	p.inputs = append(p.inputs, id)
	return nil
}

// AddOutputTexture declares a texture written by the program.
func (p *Program) AddOutputTexture(id entity.ID) error {
	if err := p.checkNew(id); err != nil {
		return err
	}
	p.outputs = append(p.outputs, id)
	return nil
}

func (p *Program) checkNew(id entity.ID) error {
	if !id.Valid() {
		return fmt.Errorf("%w: invalid texture id %s", ErrInvalidProgram, id)
	}
	for _, have := range p.inputs {
		if have == id {
			return fmt.Errorf("%w: texture %s already declared as input", ErrInvalidProgram, id)
		}
	}
	for _, have := range p.outputs {
		if have == id {
			return fmt.Errorf("%w: texture %s already declared as output", ErrInvalidProgram, id)
		}
	}
	return nil
}

// InputTextureIDs returns a copy of the declared inputs in declaration order.
func (p *Program) InputTextureIDs() []entity.ID {
	return append([]entity.ID(nil), p.inputs...)
}

// OutputTextureIDs returns a copy of the declared outputs in declaration order.
func (p *Program) OutputTextureIDs() []entity.ID {
	return append([]entity.ID(nil), p.outputs...)
}

func (p *Program) Destroy() {
	if p.Shader != nil {
		p.Shader.Destroy()
	}
}
