package scheduler

import (
	"testing"

	"github.com/richinsley/goscene/entity"
	"github.com/richinsley/goscene/level"
	"github.com/richinsley/goscene/level/leveltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fixture builds a level from compact program declarations.
type fixture struct {
	t   *testing.T
	lvl *level.Level
}

func newFixture(t *testing.T, textures ...string) *fixture {
	f := &fixture{t: t, lvl: level.New(zaptest.NewLogger(t))}
	for _, name := range textures {
		_, err := f.lvl.AddTexture(name, leveltest.NewTexture(4, 4))
		require.NoError(t, err)
	}
	return f
}

func (f *fixture) tex(name string) entity.ID {
	id, err := f.lvl.IDFromName(name)
	require.NoError(f.t, err)
	return id
}

func (f *fixture) program(name string, inputs, outputs []string) entity.ID {
	p := level.NewProgram(nil)
	for _, in := range inputs {
		require.NoError(f.t, p.AddInputTexture(f.tex(in)))
	}
	for _, out := range outputs {
		require.NoError(f.t, p.AddOutputTexture(f.tex(out)))
	}
	id, err := f.lvl.AddProgram(name, p)
	require.NoError(f.t, err)
	return id
}

func (f *fixture) scheduler(opts ...Option) *Scheduler {
	return New(f.lvl, zaptest.NewLogger(f.t), opts...)
}

func position(order []entity.ID, id entity.ID) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}
	return -1
}

// assertTopological checks that no pass produces a texture consumed by an
// earlier pass.
func assertTopological(t *testing.T, lvl *level.Level, order []entity.ID) {
	t.Helper()
	for i, early := range order {
		ep, err := lvl.Program(early)
		require.NoError(t, err)
		for _, late := range order[i+1:] {
			lp, err := lvl.Program(late)
			require.NoError(t, err)
			for _, out := range lp.OutputTextureIDs() {
				assert.NotContains(t, ep.InputTextureIDs(), out,
					"pass %s runs before %s which produces its input %s", early, late, out)
			}
		}
	}
}

func TestResolveChain(t *testing.T) {
	f := newFixture(t, "T1", "T2", "screen")
	// Declared out of order so id order does not hide mistakes.
	c := f.program("C", []string{"T2"}, []string{"screen"})
	b := f.program("B", []string{"T1"}, []string{"T2"})
	a := f.program("A", nil, []string{"T1"})

	order, err := f.scheduler().Resolve(c)
	require.NoError(t, err)
	assert.Equal(t, []entity.ID{a, b, c}, order)
}

func TestResolveEndsWithTarget(t *testing.T) {
	f := newFixture(t, "T1")
	a := f.program("A", nil, []string{"T1"})
	order, err := f.scheduler().Resolve(a)
	require.NoError(t, err)
	assert.Equal(t, []entity.ID{a}, order)
}

func TestResolveUnsatisfiable(t *testing.T) {
	f := newFixture(t, "T1", "T2")
	c := f.program("C", []string{"T1"}, []string{"T2"})
	_, err := f.scheduler().Resolve(c)
	assert.ErrorIs(t, err, ErrUnsatisfiableDependency)
	assert.Contains(t, err.Error(), `"C"`)
}

func TestResolvePartiallySatisfied(t *testing.T) {
	f := newFixture(t, "T1", "T2", "out")
	f.program("A", nil, []string{"T1"})
	c := f.program("C", []string{"T1", "T2"}, []string{"out"})
	_, err := f.scheduler().Resolve(c)
	assert.ErrorIs(t, err, ErrUnsatisfiableDependency)
}

func TestResolveAcceptsMultipleProducers(t *testing.T) {
	f := newFixture(t, "T1", "out")
	p1 := f.program("P1", nil, []string{"T1"})
	p2 := f.program("P2", nil, []string{"T1"})
	c := f.program("C", []string{"T1"}, []string{"out"})

	order, err := f.scheduler().Resolve(c)
	require.NoError(t, err)
	require.Len(t, order, 3)
	assert.Equal(t, c, order[2])
	assert.Less(t, position(order, p1), position(order, c))
	assert.Less(t, position(order, p2), position(order, c))

	// Strict validation flags the same level at assembly time.
	assert.NoError(t, f.scheduler().Validate())
	assert.ErrorIs(t, f.scheduler(WithStrictProducers(true)).Validate(), ErrAmbiguousProducer)
}

func TestResolveDeduplicatesDiamond(t *testing.T) {
	//      A
	//     / \
	//    B   C
	//     \ /
	//      D
	f := newFixture(t, "ta", "tb", "tc", "out")
	a := f.program("A", nil, []string{"ta"})
	b := f.program("B", []string{"ta"}, []string{"tb"})
	c := f.program("C", []string{"ta"}, []string{"tc"})
	d := f.program("D", []string{"tb", "tc"}, []string{"out"})

	order, err := f.scheduler().Resolve(d)
	require.NoError(t, err)
	assert.Equal(t, []entity.ID{a, b, c, d}, order)
	assertTopological(t, f.lvl, order)
}

func TestResolveDetectsCycle(t *testing.T) {
	f := newFixture(t, "x", "y", "out")
	f.program("P", []string{"y"}, []string{"x"})
	f.program("Q", []string{"x"}, []string{"y"})
	r := f.program("R", []string{"x"}, []string{"out"})

	_, err := f.scheduler().Resolve(r)
	assert.ErrorIs(t, err, ErrDependencyCycle)
}

func TestResolveLongerGraphIsTopological(t *testing.T) {
	f := newFixture(t, "gbuf", "depth", "ssao", "light", "bloom", "screen")
	f.program("composite", []string{"light", "bloom"}, []string{"screen"})
	f.program("blur", []string{"light"}, []string{"bloom"})
	f.program("lighting", []string{"gbuf", "ssao", "depth"}, []string{"light"})
	f.program("occlusion", []string{"depth"}, []string{"ssao"})
	f.program("geometry", nil, []string{"gbuf", "depth"})
	f.program("unused", []string{"screen"}, nil)

	order, err := f.scheduler().ResolveOutput(f.tex("screen"))
	require.NoError(t, err)
	assert.Len(t, order, 5)
	assertTopological(t, f.lvl, order)

	composite, err := f.lvl.IDFromName("composite")
	require.NoError(t, err)
	assert.Equal(t, composite, order[len(order)-1])
	unused, err := f.lvl.IDFromName("unused")
	require.NoError(t, err)
	assert.Equal(t, -1, position(order, unused))
}

func TestResolveOutput(t *testing.T) {
	f := newFixture(t, "a", "b", "orphan")
	f.program("P1", nil, []string{"a"})
	f.program("P2", nil, []string{"a"})
	q := f.program("Q", []string{"a"}, []string{"b"})
	s := f.scheduler()

	_, err := s.ResolveOutput(f.tex("orphan"))
	assert.ErrorIs(t, err, ErrUnsatisfiableDependency)

	_, err = s.ResolveOutput(f.tex("a"))
	assert.ErrorIs(t, err, ErrAmbiguousProducer)

	order, err := s.ResolveOutput(f.tex("b"))
	require.NoError(t, err)
	assert.Equal(t, q, order[len(order)-1])

	producers, err := s.Producers(f.tex("a"))
	require.NoError(t, err)
	assert.Len(t, producers, 2)
}

func TestResolveUnknownProgram(t *testing.T) {
	f := newFixture(t)
	_, err := f.scheduler().Resolve(42)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestSetHelpers(t *testing.T) {
	a := []entity.ID{1, 3, 5, 7}
	b := []entity.ID{3, 4, 7}
	assert.Equal(t, []entity.ID{3, 7}, intersect(a, b))
	assert.Equal(t, []entity.ID{1, 5}, difference(a, b))
	assert.Empty(t, intersect(a, nil))
	assert.Equal(t, a, difference(a, nil))
}
