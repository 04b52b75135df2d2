package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goscene/entity"
)

var (
	// ErrBrokenLink is returned when a node names a parent that is not in
	// the graph.
	ErrBrokenLink = errors.New("broken parent link")
	// ErrMalformedGraph is returned for a graph without exactly one root or
	// with a parent cycle.
	ErrMalformedGraph = errors.New("malformed scene graph")
)

const (
	noParent       = -1
	danglingParent = -2
)

// Graph owns the node arena. Parent names are resolved into indices the
// first time the graph is walked after a structural change.
type Graph struct {
	nodes   []*Node
	index   map[string]int
	parents []int
	linked  bool
}

func NewGraph() *Graph {
	return &Graph{index: make(map[string]int)}
}

// Add appends n to the arena. The parent does not have to exist yet.
func (g *Graph) Add(n *Node) error {
	if n == nil {
		return entity.ErrNilInstance
	}
	if n.Name == "" {
		return fmt.Errorf("%w: node without a name", ErrMalformedGraph)
	}
	if _, ok := g.index[n.Name]; ok {
		return fmt.Errorf("%w: node %q", entity.ErrDuplicateName, n.Name)
	}
	g.index[n.Name] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.linked = false
	return nil
}

// Remove drops the named node. Children keep their parent name and become
// dangling until re-parented.
func (g *Graph) Remove(name string) bool {
	i, ok := g.index[name]
	if !ok {
		return false
	}
	g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
	delete(g.index, name)
	for j := i; j < len(g.nodes); j++ {
		g.index[g.nodes[j].Name] = j
	}
	g.linked = false
	return true
}

// Reparent changes the parent link of an attached node.
func (g *Graph) Reparent(name, parent string) error {
	i, ok := g.index[name]
	if !ok {
		return fmt.Errorf("%w: node %q", entity.ErrNotFound, name)
	}
	g.nodes[i].parent = parent
	g.linked = false
	return nil
}

func (g *Graph) Len() int { return len(g.nodes) }

func (g *Graph) Lookup(name string) (*Node, bool) {
	i, ok := g.index[name]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

func (g *Graph) link() {
	if g.linked {
		return
	}
	g.parents = make([]int, len(g.nodes))
	for i, n := range g.nodes {
		switch p, ok := g.index[n.parent]; {
		case n.IsRoot():
			g.parents[i] = noParent
		case ok:
			g.parents[i] = p
		default:
			g.parents[i] = danglingParent
		}
	}
	g.linked = true
}

// Validate checks the assembly-time invariants: exactly one root, every
// parent name resolvable and no parent cycles.
func (g *Graph) Validate() error {
	g.link()
	var roots []string
	for i, n := range g.nodes {
		switch g.parents[i] {
		case noParent:
			roots = append(roots, n.Name)
		case danglingParent:
			return fmt.Errorf("%w: node %q names missing parent %q", ErrBrokenLink, n.Name, n.parent)
		}
	}
	switch len(roots) {
	case 0:
		return fmt.Errorf("%w: no root node", ErrMalformedGraph)
	case 1:
	default:
		return fmt.Errorf("%w: multiple roots %s", ErrMalformedGraph, strings.Join(roots, ", "))
	}
	for i := range g.nodes {
		if _, err := g.chain(i); err != nil {
			return err
		}
	}
	return nil
}

// Root returns the single root node.
func (g *Graph) Root() (*Node, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	for i, p := range g.parents {
		if p == noParent {
			return g.nodes[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no root node", ErrMalformedGraph)
}

// chain returns the arena indices from i up to its root, i first.
func (g *Graph) chain(i int) ([]int, error) {
	out := make([]int, 0, 4)
	for steps := 0; ; steps++ {
		if steps > len(g.nodes) {
			return nil, fmt.Errorf("%w: parent cycle through %q", ErrMalformedGraph, g.nodes[i].Name)
		}
		out = append(out, i)
		switch p := g.parents[i]; p {
		case noParent:
			return out, nil
		case danglingParent:
			n := g.nodes[i]
			return nil, fmt.Errorf("%w: node %q names missing parent %q", ErrBrokenLink, n.Name, n.parent)
		default:
			i = p
		}
	}
}

// LocalModel returns the node's transform composed with every ancestor's:
// parent.LocalModel(t) * own contribution(t).
func (g *Graph) LocalModel(name string, t float64) (mgl32.Mat4, error) {
	i, ok := g.index[name]
	if !ok {
		return mgl32.Ident4(), fmt.Errorf("%w: node %q", entity.ErrNotFound, name)
	}
	g.link()
	chain, err := g.chain(i)
	if err != nil {
		return mgl32.Ident4(), err
	}
	m := mgl32.Ident4()
	for j := len(chain) - 1; j >= 0; j-- {
		m = m.Mul4(g.nodes[chain[j]].Contribution(t))
	}
	return m, nil
}

// Children returns the direct children of the named node in arena order.
func (g *Graph) Children(name string) []*Node {
	i, ok := g.index[name]
	if !ok {
		return nil
	}
	g.link()
	var out []*Node
	for j, p := range g.parents {
		if p == i {
			out = append(out, g.nodes[j])
		}
	}
	return out
}

// Descendants returns name and everything below it in pre-order.
func (g *Graph) Descendants(name string) ([]*Node, error) {
	start, ok := g.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: node %q", entity.ErrNotFound, name)
	}
	g.link()
	children := make([][]int, len(g.nodes))
	for j, p := range g.parents {
		if p >= 0 {
			children[p] = append(children[p], j)
		}
	}
	visited := make([]bool, len(g.nodes))
	var out []*Node
	stack := []int{start}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[i] {
			return nil, fmt.Errorf("%w: parent cycle through %q", ErrMalformedGraph, g.nodes[i].Name)
		}
		visited[i] = true
		out = append(out, g.nodes[i])
		kids := children[i]
		for k := len(kids) - 1; k >= 0; k-- {
			stack = append(stack, kids[k])
		}
	}
	return out, nil
}
