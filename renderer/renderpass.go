package renderer

import (
	"github.com/richinsley/goscene/entity"
	"github.com/richinsley/goscene/level"
	"github.com/richinsley/goscene/shader"
)

// RenderPass is one program resolved against the level for a single
// execution. It is rebuilt every frame and never cached.
type RenderPass struct {
	ID      entity.ID
	Name    string
	Program *level.Program
	Outputs []level.Texture
	Inputs  []binding
}

// binding pairs a sampler uniform with the texture it reads.
type binding struct {
	sampler string
	texture entity.ID
}

func resolvePass(lvl *level.Level, id entity.ID) (*RenderPass, error) {
	name, err := lvl.NameFromID(id)
	if err != nil {
		return nil, err
	}
	p, err := lvl.Program(id)
	if err != nil {
		return nil, err
	}
	pass := &RenderPass{ID: id, Name: name, Program: p}
	for _, out := range p.OutputTextureIDs() {
		tex, err := lvl.Texture(out)
		if err != nil {
			return pass, err
		}
		pass.Outputs = append(pass.Outputs, tex)
	}
	if len(pass.Outputs) == 0 {
		return pass, ErrNoOutputs
	}
	for i, in := range p.InputTextureIDs() {
		pass.Inputs = append(pass.Inputs, binding{sampler: shader.ChannelSampler(i), texture: in})
	}
	return pass, nil
}
