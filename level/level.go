// Package level is the entity store of a scene. It owns every renderable
// resource, hands out identifiers and translates between names and ids.
// Everything else in the renderer refers to resources by id only and
// resolves them through the level on each access.
package level

import (
	"fmt"
	"sort"

	"github.com/richinsley/goscene/entity"
	"github.com/richinsley/goscene/scene"
	"go.uber.org/zap"
)

// Level is mutated during scene assembly only and read during rendering.
// It is not safe for concurrent use.
type Level struct {
	log    *zap.Logger
	lastID entity.ID

	names map[string]entity.ID
	ids   map[entity.ID]string
	kinds map[entity.ID]entity.Kind

	textures  map[entity.ID]Texture
	programs  map[entity.ID]*Program
	materials map[entity.ID]*Material
	buffers   map[entity.ID]Buffer
	meshes    map[entity.ID]StaticMesh
	nodes     map[entity.ID]*scene.Node
	graph     *scene.Graph

	defaults map[DefaultSlot]string
}

func New(log *zap.Logger) *Level {
	if log == nil {
		log = zap.NewNop()
	}
	return &Level{
		log:       log,
		names:     make(map[string]entity.ID),
		ids:       make(map[entity.ID]string),
		kinds:     make(map[entity.ID]entity.Kind),
		textures:  make(map[entity.ID]Texture),
		programs:  make(map[entity.ID]*Program),
		materials: make(map[entity.ID]*Material),
		buffers:   make(map[entity.ID]Buffer),
		meshes:    make(map[entity.ID]StaticMesh),
		nodes:     make(map[entity.ID]*scene.Node),
		graph:     scene.NewGraph(),
		defaults:  make(map[DefaultSlot]string),
	}
}

// checkName reports whether name can be registered.
func (l *Level) checkName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if _, ok := l.names[name]; ok {
		return fmt.Errorf("%w: %q", entity.ErrDuplicateName, name)
	}
	return nil
}

// register allocates the next id. Callers validate everything first so a
// failed Add never leaves a partial entry behind.
func (l *Level) register(name string, kind entity.Kind) entity.ID {
	l.lastID++
	id := l.lastID
	l.names[name] = id
	l.ids[id] = name
	l.kinds[id] = kind
	l.log.Debug("registered entity", zap.String("name", name), zap.Stringer("id", id), zap.Stringer("kind", kind))
	return id
}

func (l *Level) AddTexture(name string, tex Texture) (entity.ID, error) {
	if err := l.checkName(name); err != nil {
		return entity.Invalid, err
	}
	if tex == nil {
		return entity.Invalid, fmt.Errorf("%w: texture %q", entity.ErrNilInstance, name)
	}
	id := l.register(name, entity.KindTexture)
	l.textures[id] = tex
	return id, nil
}

// AddProgram registers p. Every declared input and output must already be a
// texture of this level, and the scene root, if set, a node or static mesh.
func (l *Level) AddProgram(name string, p *Program) (entity.ID, error) {
	if err := l.checkName(name); err != nil {
		return entity.Invalid, err
	}
	if p == nil {
		return entity.Invalid, fmt.Errorf("%w: program %q", entity.ErrNilInstance, name)
	}
	for _, tex := range append(p.InputTextureIDs(), p.OutputTextureIDs()...) {
		if err := l.expectKind(tex, entity.KindTexture); err != nil {
			return entity.Invalid, fmt.Errorf("program %q: %w", name, err)
		}
	}
	if p.SceneRoot.Valid() {
		if err := l.expectKind(p.SceneRoot, entity.KindNode, entity.KindStaticMesh); err != nil {
			return entity.Invalid, fmt.Errorf("program %q scene root: %w", name, err)
		}
	}
	id := l.register(name, entity.KindProgram)
	l.programs[id] = p
	return id, nil
}

func (l *Level) AddMaterial(name string, m *Material) (entity.ID, error) {
	if err := l.checkName(name); err != nil {
		return entity.Invalid, err
	}
	if m == nil {
		return entity.Invalid, fmt.Errorf("%w: material %q", entity.ErrNilInstance, name)
	}
	for _, mt := range m.Textures {
		if err := l.expectKind(mt.Texture, entity.KindTexture); err != nil {
			return entity.Invalid, fmt.Errorf("material %q sampler %q: %w", name, mt.Sampler, err)
		}
	}
	id := l.register(name, entity.KindMaterial)
	l.materials[id] = m
	return id, nil
}

func (l *Level) AddBuffer(name string, b Buffer) (entity.ID, error) {
	if err := l.checkName(name); err != nil {
		return entity.Invalid, err
	}
	if b == nil {
		return entity.Invalid, fmt.Errorf("%w: buffer %q", entity.ErrNilInstance, name)
	}
	id := l.register(name, entity.KindBuffer)
	l.buffers[id] = b
	return id, nil
}

func (l *Level) AddStaticMesh(name string, m StaticMesh) (entity.ID, error) {
	if err := l.checkName(name); err != nil {
		return entity.Invalid, err
	}
	if m == nil {
		return entity.Invalid, fmt.Errorf("%w: static mesh %q", entity.ErrNilInstance, name)
	}
	id := l.register(name, entity.KindStaticMesh)
	l.meshes[id] = m
	return id, nil
}

// AddNode registers n and attaches it to the level's scene graph. A node
// without a name takes the registration name.
func (l *Level) AddNode(name string, n *scene.Node) (entity.ID, error) {
	if err := l.checkName(name); err != nil {
		return entity.Invalid, err
	}
	if n == nil {
		return entity.Invalid, fmt.Errorf("%w: node %q", entity.ErrNilInstance, name)
	}
	if n.Name != "" && n.Name != name {
		return entity.Invalid, fmt.Errorf("%w: node %q registered as %q", ErrNameMismatch, n.Name, name)
	}
	if ref, ok := n.Mesh(); ok {
		if err := l.expectKind(ref.Mesh, entity.KindStaticMesh); err != nil {
			return entity.Invalid, fmt.Errorf("node %q mesh: %w", name, err)
		}
		if ref.Material.Valid() {
			if err := l.expectKind(ref.Material, entity.KindMaterial); err != nil {
				return entity.Invalid, fmt.Errorf("node %q material: %w", name, err)
			}
		}
	}
	prev := n.Name
	n.Name = name
	if err := l.graph.Add(n); err != nil {
		n.Name = prev
		return entity.Invalid, err
	}
	id := l.register(name, entity.KindNode)
	l.nodes[id] = n
	return id, nil
}

func (l *Level) expectKind(id entity.ID, kinds ...entity.Kind) error {
	have, ok := l.kinds[id]
	if !ok {
		return fmt.Errorf("%w: %s", entity.ErrNotFound, id)
	}
	for _, k := range kinds {
		if have == k {
			return nil
		}
	}
	return fmt.Errorf("%w: %s is a %s", ErrKindMismatch, id, have)
}

func notFound(kind entity.Kind, id entity.ID) error {
	return fmt.Errorf("%w: %s %s", entity.ErrNotFound, kind, id)
}

func (l *Level) Texture(id entity.ID) (Texture, error) {
	t, ok := l.textures[id]
	if !ok {
		return nil, notFound(entity.KindTexture, id)
	}
	return t, nil
}

func (l *Level) Program(id entity.ID) (*Program, error) {
	p, ok := l.programs[id]
	if !ok {
		return nil, notFound(entity.KindProgram, id)
	}
	return p, nil
}

func (l *Level) Material(id entity.ID) (*Material, error) {
	m, ok := l.materials[id]
	if !ok {
		return nil, notFound(entity.KindMaterial, id)
	}
	return m, nil
}

func (l *Level) Buffer(id entity.ID) (Buffer, error) {
	b, ok := l.buffers[id]
	if !ok {
		return nil, notFound(entity.KindBuffer, id)
	}
	return b, nil
}

func (l *Level) StaticMesh(id entity.ID) (StaticMesh, error) {
	m, ok := l.meshes[id]
	if !ok {
		return nil, notFound(entity.KindStaticMesh, id)
	}
	return m, nil
}

func (l *Level) Node(id entity.ID) (*scene.Node, error) {
	n, ok := l.nodes[id]
	if !ok {
		return nil, notFound(entity.KindNode, id)
	}
	return n, nil
}

// IDFromName returns the id registered under name.
func (l *Level) IDFromName(name string) (entity.ID, error) {
	id, ok := l.names[name]
	if !ok {
		return entity.Invalid, fmt.Errorf("%w: name %q", entity.ErrNotFound, name)
	}
	return id, nil
}

// NameFromID returns the name id was registered under.
func (l *Level) NameFromID(id entity.ID) (string, error) {
	name, ok := l.ids[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", entity.ErrNotFound, id)
	}
	return name, nil
}

func (l *Level) KindOf(id entity.ID) (entity.Kind, error) {
	k, ok := l.kinds[id]
	if !ok {
		return entity.KindUnknown, fmt.Errorf("%w: %s", entity.ErrNotFound, id)
	}
	return k, nil
}

// ChildList returns every node whose parent is node id, in id order.
func (l *Level) ChildList(id entity.ID) ([]entity.ID, error) {
	n, err := l.Node(id)
	if err != nil {
		return nil, err
	}
	var out []entity.ID
	for _, c := range l.graph.Children(n.Name) {
		out = append(out, l.names[c.Name])
	}
	sortIDs(out)
	return out, nil
}

// ParentID returns the id of node id's parent, or entity.Invalid for a root.
func (l *Level) ParentID(id entity.ID) (entity.ID, error) {
	n, err := l.Node(id)
	if err != nil {
		return entity.Invalid, err
	}
	if n.IsRoot() {
		return entity.Invalid, nil
	}
	pid, ok := l.names[n.Parent()]
	if !ok || l.kinds[pid] != entity.KindNode {
		return entity.Invalid, fmt.Errorf("%w: node %q names missing parent %q", scene.ErrBrokenLink, n.Name, n.Parent())
	}
	return pid, nil
}

// Reparent moves node id under the node named parent. An empty parent makes
// it a root. The link is resolved lazily like any other.
func (l *Level) Reparent(id entity.ID, parent string) error {
	n, err := l.Node(id)
	if err != nil {
		return err
	}
	if parent == n.Name {
		return fmt.Errorf("%w: node %q cannot be its own parent", scene.ErrMalformedGraph, n.Name)
	}
	if err := l.graph.Reparent(n.Name, parent); err != nil {
		return err
	}
	l.log.Debug("reparented node", zap.String("node", n.Name), zap.String("parent", parent))
	return nil
}

// Graph returns the scene graph holding the level's nodes.
func (l *Level) Graph() *scene.Graph { return l.graph }

// Len returns the number of registered entities.
func (l *Level) Len() int { return len(l.kinds) }

func (l *Level) ProgramIDs() []entity.ID { return l.idsOf(entity.KindProgram) }
func (l *Level) TextureIDs() []entity.ID { return l.idsOf(entity.KindTexture) }
func (l *Level) NodeIDs() []entity.ID    { return l.idsOf(entity.KindNode) }

func (l *Level) idsOf(kind entity.Kind) []entity.ID {
	var out []entity.ID
	for id, k := range l.kinds {
		if k == kind {
			out = append(out, id)
		}
	}
	sortIDs(out)
	return out
}

// Remove destroys the entity and forgets its name. The id is never handed
// out again.
func (l *Level) Remove(id entity.ID) error {
	kind, err := l.KindOf(id)
	if err != nil {
		return err
	}
	name := l.ids[id]
	switch kind {
	case entity.KindTexture:
		l.textures[id].Destroy()
		delete(l.textures, id)
	case entity.KindProgram:
		l.programs[id].Destroy()
		delete(l.programs, id)
	case entity.KindMaterial:
		delete(l.materials, id)
	case entity.KindBuffer:
		l.buffers[id].Destroy()
		delete(l.buffers, id)
	case entity.KindStaticMesh:
		l.meshes[id].Destroy()
		delete(l.meshes, id)
	case entity.KindNode:
		l.graph.Remove(name)
		delete(l.nodes, id)
	}
	delete(l.names, name)
	delete(l.ids, id)
	delete(l.kinds, id)
	l.log.Debug("removed entity", zap.String("name", name), zap.Stringer("id", id), zap.Stringer("kind", kind))
	return nil
}

// Validate checks the assembly-time invariants of the level: a well formed
// scene graph whose root is the default root, if one is set. A level with
// no nodes at all is valid, since passes without a scene root draw the
// default quad; a non-empty graph without a root is still malformed.
func (l *Level) Validate() error {
	if l.graph.Len() == 0 {
		return nil
	}
	root, err := l.graph.Root()
	if err != nil {
		return err
	}
	if name, ok := l.defaults[DefaultRoot]; ok && name != root.Name {
		return fmt.Errorf("%w: default root %q is not the graph root %q", scene.ErrMalformedGraph, name, root.Name)
	}
	return nil
}

// Destroy releases every GPU resource held by the level.
func (l *Level) Destroy() {
	for _, p := range l.programs {
		p.Destroy()
	}
	for _, t := range l.textures {
		t.Destroy()
	}
	for _, b := range l.buffers {
		b.Destroy()
	}
	for _, m := range l.meshes {
		m.Destroy()
	}
	l.log.Info("level destroyed", zap.Int("entities", len(l.kinds)))
}

func sortIDs(ids []entity.ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
