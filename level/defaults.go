package level

import (
	"fmt"

	"github.com/richinsley/goscene/entity"
	"github.com/richinsley/goscene/scene"
)

// DefaultSlot names one of the level-wide default entities.
type DefaultSlot int

const (
	DefaultOutput DefaultSlot = iota // texture presented on screen
	DefaultRoot                      // root scene node
	DefaultCamera                    // node carrying the active camera
	DefaultQuad                      // full screen quad mesh
	DefaultCube                      // unit cube mesh
)

func (s DefaultSlot) String() string {
	switch s {
	case DefaultOutput:
		return "output"
	case DefaultRoot:
		return "root"
	case DefaultCamera:
		return "camera"
	case DefaultQuad:
		return "quad"
	case DefaultCube:
		return "cube"
	}
	return "unknown"
}

func (s DefaultSlot) kind() entity.Kind {
	switch s {
	case DefaultOutput:
		return entity.KindTexture
	case DefaultRoot, DefaultCamera:
		return entity.KindNode
	default:
		return entity.KindStaticMesh
	}
}

// SetDefault points slot at the entity registered under name.
func (l *Level) SetDefault(slot DefaultSlot, name string) error {
	id, err := l.IDFromName(name)
	if err != nil {
		return fmt.Errorf("default %s: %w", slot, err)
	}
	if err := l.expectKind(id, slot.kind()); err != nil {
		return fmt.Errorf("default %s: %w", slot, err)
	}
	if slot == DefaultCamera {
		if _, ok := l.nodes[id].Camera(); !ok {
			return fmt.Errorf("default %s: %w: node %q has no camera", slot, ErrKindMismatch, name)
		}
	}
	l.defaults[slot] = name
	return nil
}

// Default resolves slot through the name registry.
func (l *Level) Default(slot DefaultSlot) (entity.ID, error) {
	name, ok := l.defaults[slot]
	if !ok {
		return entity.Invalid, fmt.Errorf("%w: %s", ErrDefaultUnset, slot)
	}
	id, err := l.IDFromName(name)
	if err != nil {
		return entity.Invalid, fmt.Errorf("default %s: %w", slot, err)
	}
	return id, nil
}

func (l *Level) DefaultOutputTexture() (Texture, error) {
	id, err := l.Default(DefaultOutput)
	if err != nil {
		return nil, err
	}
	return l.Texture(id)
}

func (l *Level) DefaultRootNode() (*scene.Node, error) {
	id, err := l.Default(DefaultRoot)
	if err != nil {
		return nil, err
	}
	return l.Node(id)
}

func (l *Level) DefaultCameraNode() (*scene.Node, error) {
	id, err := l.Default(DefaultCamera)
	if err != nil {
		return nil, err
	}
	return l.Node(id)
}

func (l *Level) DefaultQuad() (StaticMesh, error) {
	id, err := l.Default(DefaultQuad)
	if err != nil {
		return nil, err
	}
	return l.StaticMesh(id)
}

func (l *Level) DefaultCube() (StaticMesh, error) {
	id, err := l.Default(DefaultCube)
	if err != nil {
		return nil, err
	}
	return l.StaticMesh(id)
}
