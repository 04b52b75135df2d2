// Package entity holds the identifier and kind types shared by the store,
// the scene graph and the pass scheduler.
package entity

import (
	"errors"
	"strconv"
)

// ID identifies one entity inside a level. IDs are unique across all kinds
// and are never reused.
type ID int64

// Invalid is the sentinel for an absent entity.
const Invalid ID = 0

// Valid reports whether the id can refer to an entity.
func (id ID) Valid() bool { return id > Invalid }

func (id ID) String() string { return "#" + strconv.FormatInt(int64(id), 10) }

// Kind tags the concrete type stored under an ID.
type Kind int

const (
	KindUnknown Kind = iota
	KindNode
	KindTexture
	KindProgram
	KindMaterial
	KindBuffer
	KindStaticMesh
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindTexture:
		return "texture"
	case KindProgram:
		return "program"
	case KindMaterial:
		return "material"
	case KindBuffer:
		return "buffer"
	case KindStaticMesh:
		return "static mesh"
	default:
		return "unknown"
	}
}

var (
	ErrDuplicateName = errors.New("name already registered")
	ErrNotFound      = errors.New("entity not found")
	ErrNilInstance   = errors.New("nil instance")
)
