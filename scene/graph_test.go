package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goscene/camera"
	"github.com/richinsley/goscene/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGraph(t *testing.T, nodes ...*Node) *Graph {
	t.Helper()
	g := NewGraph()
	for _, n := range nodes {
		require.NoError(t, g.Add(n))
	}
	return g
}

func TestAddRejectsDuplicateName(t *testing.T) {
	g := buildGraph(t, NewGroup("root", ""))
	err := g.Add(NewGroup("root", ""))
	assert.ErrorIs(t, err, entity.ErrDuplicateName)
	assert.Equal(t, 1, g.Len())

	assert.ErrorIs(t, g.Add(nil), entity.ErrNilInstance)
}

func TestLocalModelRootIsOwnContribution(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3)
	g := buildGraph(t, NewMatrix("root", "", m))

	got, err := g.LocalModel("root", 0)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestLocalModelComposesParents(t *testing.T) {
	// Children are added before their parents on purpose: links resolve lazily.
	g := buildGraph(t,
		NewMesh("box", "arm", MeshRef{Mesh: 9}),
		NewMatrix("arm", "root", mgl32.Scale3D(2, 2, 2)),
		NewMatrix("root", "", mgl32.Translate3D(10, 0, 0)),
	)
	require.NoError(t, g.Validate())

	got, err := g.LocalModel("box", 0)
	require.NoError(t, err)
	want := mgl32.Translate3D(10, 0, 0).Mul4(mgl32.Scale3D(2, 2, 2))
	assert.True(t, want.ApproxEqual(got))

	p := got.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.True(t, p.ApproxEqual(mgl32.Vec4{12, 0, 0, 1}))
}

func TestLocalModelBrokenLink(t *testing.T) {
	g := buildGraph(t,
		NewGroup("root", ""),
		NewGroup("orphan", "nowhere"),
	)
	_, err := g.LocalModel("orphan", 0)
	assert.ErrorIs(t, err, ErrBrokenLink)

	_, err = g.LocalModel("root", 0)
	assert.NoError(t, err)

	_, err = g.LocalModel("missing", 0)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestLocalModelTerminatesOnCycle(t *testing.T) {
	g := buildGraph(t,
		NewGroup("root", ""),
		NewGroup("a", "b"),
		NewGroup("b", "a"),
	)
	_, err := g.LocalModel("a", 0)
	assert.ErrorIs(t, err, ErrMalformedGraph)
	assert.ErrorIs(t, g.Validate(), ErrMalformedGraph)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		nodes []*Node
		err   error
	}{
		{"single root", []*Node{NewGroup("root", ""), NewGroup("a", "root")}, nil},
		{"no root", []*Node{NewGroup("a", "b"), NewGroup("b", "a")}, ErrMalformedGraph},
		{"two roots", []*Node{NewGroup("r1", ""), NewGroup("r2", "")}, ErrMalformedGraph},
		{"empty", nil, ErrMalformedGraph},
		{"dangling", []*Node{NewGroup("root", ""), NewGroup("a", "ghost")}, ErrBrokenLink},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, tt.nodes...)
			err := g.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestRootAndChildren(t *testing.T) {
	g := buildGraph(t,
		NewGroup("root", ""),
		NewGroup("a", "root"),
		NewGroup("b", "root"),
		NewGroup("c", "a"),
	)
	root, err := g.Root()
	require.NoError(t, err)
	assert.Equal(t, "root", root.Name)

	names := func(ns []*Node) []string {
		out := make([]string, len(ns))
		for i, n := range ns {
			out[i] = n.Name
		}
		return out
	}
	assert.Equal(t, []string{"a", "b"}, names(g.Children("root")))
	assert.Empty(t, g.Children("c"))

	all, err := g.Descendants("root")
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "a", "c", "b"}, names(all))
}

func TestRemoveAndReparent(t *testing.T) {
	g := buildGraph(t,
		NewGroup("root", ""),
		NewGroup("a", "root"),
		NewGroup("b", "a"),
	)
	require.True(t, g.Remove("a"))
	assert.False(t, g.Remove("a"))
	assert.ErrorIs(t, g.Validate(), ErrBrokenLink)

	require.NoError(t, g.Reparent("b", "root"))
	assert.NoError(t, g.Validate())
	_, ok := g.Lookup("b")
	assert.True(t, ok)
}

func TestPayloadAccessors(t *testing.T) {
	cam := camera.New()
	n := NewCamera("cam", "root", cam)
	got, ok := n.Camera()
	assert.True(t, ok)
	assert.Same(t, cam, got)
	_, ok = n.Mesh()
	assert.False(t, ok)
	assert.Equal(t, mgl32.Ident4(), n.Contribution(3))

	m := NewMesh("m", "root", MeshRef{Mesh: 4, Material: 5})
	ref, ok := m.Mesh()
	assert.True(t, ok)
	assert.Equal(t, entity.ID(4), ref.Mesh)

	l := NewLight("sun", "root", Light{Type: LightDirectional, Intensity: 2})
	light, ok := l.Light()
	assert.True(t, ok)
	assert.Equal(t, LightDirectional, light.Type)
	assert.Equal(t, KindLight, l.Kind())
}
