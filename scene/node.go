// Package scene implements the node hierarchy of a level. Nodes name their
// parent instead of pointing at it; the Graph resolves those names into
// arena indices so world transforms are computed with a plain array walk.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goscene/camera"
	"github.com/richinsley/goscene/entity"
)

// Kind selects which payload a node carries.
type Kind int

const (
	KindGroup Kind = iota
	KindMatrix
	KindTransform
	KindMesh
	KindLight
	KindCamera
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindMatrix:
		return "matrix"
	case KindTransform:
		return "transform"
	case KindMesh:
		return "mesh"
	case KindLight:
		return "light"
	case KindCamera:
		return "camera"
	}
	return "unknown"
}

// MeshRef points a mesh node at store entities.
type MeshRef struct {
	Mesh     entity.ID
	Material entity.ID // optional
}

type LightType int

const (
	LightAmbient LightType = iota
	LightDirectional
	LightPoint
)

type Light struct {
	Type      LightType
	Color     mgl32.Vec3
	Intensity float32
	Direction mgl32.Vec3 // directional lights only
}

// Node is one entry of the scene hierarchy. Only the parent link may change
// after the node has been added to a graph, and only through Graph.Reparent.
type Node struct {
	Name string

	parent    string
	kind      Kind
	matrix    mgl32.Mat4
	transform Transform
	mesh      MeshRef
	light     Light
	camera    *camera.Camera
}

// NewGroup returns a pure container node.
func NewGroup(name, parent string) *Node {
	return &Node{Name: name, parent: parent, kind: KindGroup}
}

// NewMatrix returns a node contributing a fixed matrix.
func NewMatrix(name, parent string, m mgl32.Mat4) *Node {
	return &Node{Name: name, parent: parent, kind: KindMatrix, matrix: m}
}

// NewTransform returns a node whose contribution is driven by tr.
func NewTransform(name, parent string, tr Transform) *Node {
	return &Node{Name: name, parent: parent, kind: KindTransform, transform: tr}
}

func NewMesh(name, parent string, ref MeshRef) *Node {
	return &Node{Name: name, parent: parent, kind: KindMesh, mesh: ref}
}

func NewLight(name, parent string, l Light) *Node {
	return &Node{Name: name, parent: parent, kind: KindLight, light: l}
}

func NewCamera(name, parent string, c *camera.Camera) *Node {
	if c == nil {
		c = camera.New()
	}
	return &Node{Name: name, parent: parent, kind: KindCamera, camera: c}
}

func (n *Node) Kind() Kind { return n.kind }

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.parent == "" }

// Parent returns the name of the parent node, empty for a root.
func (n *Node) Parent() string { return n.parent }

// Contribution returns the node's own local transform at time t. Payload
// nodes contribute identity and expose their payload through accessors.
func (n *Node) Contribution(t float64) mgl32.Mat4 {
	switch n.kind {
	case KindMatrix:
		return n.matrix
	case KindTransform:
		return n.transform.Matrix(t)
	}
	return mgl32.Ident4()
}

// Mesh returns the mesh payload of a mesh node.
func (n *Node) Mesh() (MeshRef, bool) {
	if n.kind != KindMesh {
		return MeshRef{}, false
	}
	return n.mesh, true
}

func (n *Node) Light() (Light, bool) {
	if n.kind != KindLight {
		return Light{}, false
	}
	return n.light, true
}

func (n *Node) Camera() (*camera.Camera, bool) {
	if n.kind != KindCamera {
		return nil, false
	}
	return n.camera, true
}
