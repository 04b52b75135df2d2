package scenefile

import (
	"fmt"
	"image"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/richinsley/goscene/camera"
	"github.com/richinsley/goscene/entity"
	"github.com/richinsley/goscene/level"
	"github.com/richinsley/goscene/scene"
)

// BuiltinQuad names the full-screen quad Build creates when the
// description sets no default quad.
const BuiltinQuad = "quad"

// Options control how a description becomes level entities.
type Options struct {
	// Width and Height size render targets that declare no size.
	Width, Height int
	Log           *zap.Logger
}

type builder struct {
	desc    *Description
	lvl     *level.Level
	factory Factory
	opts    Options
	log     *zap.Logger
}

// Build creates every resource of d through f and registers it in lvl.
// Resources are added in dependency order: textures, meshes, buffers,
// materials, nodes, programs, then the default slots.
func Build(d *Description, lvl *level.Level, f Factory, opts Options) error {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	b := &builder{desc: d, lvl: lvl, factory: f, opts: opts, log: log}
	steps := []func() error{
		b.textures,
		b.meshes,
		b.buffers,
		b.materials,
		b.nodes,
		b.programs,
		b.defaults,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	log.Info("scene built",
		zap.String("title", d.Title),
		zap.Int("entities", lvl.Len()),
		zap.Int("programs", len(d.Programs)))
	return nil
}

func (b *builder) id(kind, name string) (entity.ID, error) {
	id, err := b.lvl.IDFromName(name)
	if err != nil {
		return entity.Invalid, fmt.Errorf("%s %q: %w", kind, name, err)
	}
	return id, nil
}

func (b *builder) textures() error {
	for _, t := range b.desc.Textures {
		var tex level.Texture
		var err error
		if t.Image == "" {
			w, h := t.Width, t.Height
			if w == 0 {
				w = b.opts.Width
			}
			if h == 0 {
				h = b.opts.Height
			}
			tex, err = b.factory.NewRenderTexture(w, h)
		} else {
			var img image.Image
			img, err = loadImage(b.desc.resolve(t.Image), t.Width, t.Height)
			if err == nil {
				tex, err = b.factory.NewImageTexture(img, t.Sampler)
			}
		}
		if err != nil {
			return fmt.Errorf("texture %q: %w", t.Name, err)
		}
		if _, err := b.lvl.AddTexture(t.Name, tex); err != nil {
			tex.Destroy()
			return err
		}
	}
	return nil
}

func (b *builder) addMesh(name string, vertices []float32) error {
	mesh, err := b.factory.NewMesh(vertices)
	if err != nil {
		return fmt.Errorf("mesh %q: %w", name, err)
	}
	if _, err := b.lvl.AddStaticMesh(name, mesh); err != nil {
		mesh.Destroy()
		return err
	}
	return nil
}

func (b *builder) meshes() error {
	for _, m := range b.desc.Meshes {
		vertices := m.Vertices
		switch m.Primitive {
		case "quad":
			vertices = QuadVertices()
		case "cube":
			vertices = CubeVertices()
		}
		if err := b.addMesh(m.Name, vertices); err != nil {
			return err
		}
	}
	if b.desc.Defaults.Quad == "" {
		return b.addMesh(BuiltinQuad, QuadVertices())
	}
	return nil
}

func (b *builder) buffers() error {
	for _, d := range b.desc.Buffers {
		buf, err := b.factory.NewBuffer(d.Size)
		if err != nil {
			return fmt.Errorf("buffer %q: %w", d.Name, err)
		}
		if _, err := b.lvl.AddBuffer(d.Name, buf); err != nil {
			buf.Destroy()
			return err
		}
	}
	return nil
}

func (b *builder) materials() error {
	for _, d := range b.desc.Materials {
		m := level.NewMaterial()
		m.Ambient = vec3(d.Ambient, m.Ambient)
		m.Diffuse = vec3(d.Diffuse, m.Diffuse)
		m.Specular = vec3(d.Specular, m.Specular)
		m.Shininess = d.Shininess
		samplers := make([]string, 0, len(d.Textures))
		for s := range d.Textures {
			samplers = append(samplers, s)
		}
		sort.Strings(samplers)
		for _, s := range samplers {
			id, err := b.id("texture", d.Textures[s])
			if err != nil {
				return fmt.Errorf("material %q: %w", d.Name, err)
			}
			m.Textures = append(m.Textures, level.MaterialTexture{Sampler: s, Texture: id})
		}
		if _, err := b.lvl.AddMaterial(d.Name, m); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) nodes() error {
	for _, d := range b.desc.Nodes {
		n, err := b.node(d)
		if err != nil {
			return fmt.Errorf("node %q: %w", d.Name, err)
		}
		if _, err := b.lvl.AddNode(d.Name, n); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) node(d Node) (*scene.Node, error) {
	switch {
	case len(d.Matrix) > 0:
		var m mgl32.Mat4
		copy(m[:], d.Matrix)
		return scene.NewMatrix(d.Name, d.Parent, m), nil
	case d.Transform != nil:
		return scene.NewTransform(d.Name, d.Parent, transform(d.Transform)), nil
	case d.Mesh != "":
		ref := scene.MeshRef{}
		var err error
		if ref.Mesh, err = b.id("mesh", d.Mesh); err != nil {
			return nil, err
		}
		if d.Material != "" {
			if ref.Material, err = b.id("material", d.Material); err != nil {
				return nil, err
			}
		}
		return scene.NewMesh(d.Name, d.Parent, ref), nil
	case d.Light != nil:
		return scene.NewLight(d.Name, d.Parent, light(d.Light)), nil
	case d.Camera != nil:
		return scene.NewCamera(d.Name, d.Parent, cam(d.Camera)), nil
	}
	return scene.NewGroup(d.Name, d.Parent), nil
}

func (b *builder) programs() error {
	for _, d := range b.desc.Programs {
		id, err := b.program(d)
		if err != nil {
			return fmt.Errorf("program %q: %w", d.Name, err)
		}
		b.log.Debug("program added", zap.String("name", d.Name), zap.Stringer("id", id))
	}
	return nil
}

func (b *builder) program(d Program) (entity.ID, error) {
	var root entity.ID
	var samplers []string
	if d.Scene != "" {
		var err error
		if root, err = b.id("scene", d.Scene); err != nil {
			return entity.Invalid, err
		}
		if samplers, err = b.materialSamplers(root); err != nil {
			return entity.Invalid, err
		}
	}

	fragment := d.Fragment
	if d.FragmentFile != "" {
		data, err := os.ReadFile(b.desc.resolve(d.FragmentFile))
		if err != nil {
			return entity.Invalid, err
		}
		fragment = string(data)
	}
	sh, err := b.factory.NewShader(ShaderSource{
		Common:   b.desc.Common,
		Fragment: fragment,
		Inputs:   len(d.Inputs),
		Samplers: samplers,
	})
	if err != nil {
		return entity.Invalid, err
	}

	p := level.NewProgram(sh)
	p.DepthTest = d.DepthTest
	p.SceneRoot = root
	if err := b.declare(p, d); err != nil {
		sh.Destroy()
		return entity.Invalid, err
	}
	id, err := b.lvl.AddProgram(d.Name, p)
	if err != nil {
		sh.Destroy()
		return entity.Invalid, err
	}
	return id, nil
}

func (b *builder) declare(p *level.Program, d Program) error {
	for _, name := range d.Inputs {
		id, err := b.id("input texture", name)
		if err != nil {
			return err
		}
		if err := p.AddInputTexture(id); err != nil {
			return fmt.Errorf("input %q: %w", name, err)
		}
	}
	for _, name := range d.Outputs {
		id, err := b.id("output texture", name)
		if err != nil {
			return err
		}
		if err := p.AddOutputTexture(id); err != nil {
			return fmt.Errorf("output %q: %w", name, err)
		}
	}
	return nil
}

// materialSamplers lists the sampler names of every material drawn below
// root, so the program declares them.
func (b *builder) materialSamplers(root entity.ID) ([]string, error) {
	kind, err := b.lvl.KindOf(root)
	if err != nil || kind != entity.KindNode {
		return nil, err
	}
	node, err := b.lvl.Node(root)
	if err != nil {
		return nil, err
	}
	nodes, err := b.lvl.Graph().Descendants(node.Name)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, n := range nodes {
		ref, ok := n.Mesh()
		if !ok || !ref.Material.Valid() {
			continue
		}
		m, err := b.lvl.Material(ref.Material)
		if err != nil {
			return nil, err
		}
		for _, mt := range m.Textures {
			if !seen[mt.Sampler] {
				seen[mt.Sampler] = true
				out = append(out, mt.Sampler)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (b *builder) defaults() error {
	d := b.desc.Defaults
	quad := d.Quad
	if quad == "" {
		quad = BuiltinQuad
	}
	slots := []struct {
		slot level.DefaultSlot
		name string
	}{
		{level.DefaultOutput, d.Output},
		{level.DefaultRoot, d.Root},
		{level.DefaultCamera, d.Camera},
		{level.DefaultQuad, quad},
		{level.DefaultCube, d.Cube},
	}
	for _, s := range slots {
		if s.name == "" {
			continue
		}
		if err := b.lvl.SetDefault(s.slot, s.name); err != nil {
			return fmt.Errorf("default %s: %w", s.slot, err)
		}
	}
	return nil
}

func vec3(v []float32, def mgl32.Vec3) mgl32.Vec3 {
	if len(v) != 3 {
		return def
	}
	return mgl32.Vec3{v[0], v[1], v[2]}
}

func transform(d *Transform) scene.Transform {
	tr := scene.Transform{
		Translation: vec3(d.Translation, mgl32.Vec3{}),
		Scale:       vec3(d.Scale, mgl32.Vec3{1, 1, 1}),
		From:        vec3(d.From, mgl32.Vec3{}),
		Period:      d.Period,
	}
	tr.To = vec3(d.To, tr.From)
	if d.Mode == "quaternion" {
		tr.Mode = scene.RotateQuaternion
	}
	return tr
}

var lightTypes = map[string]scene.LightType{
	"ambient":     scene.LightAmbient,
	"directional": scene.LightDirectional,
	"point":       scene.LightPoint,
}

func light(d *Light) scene.Light {
	l := scene.Light{
		Type:      lightTypes[d.Type],
		Color:     vec3(d.Color, mgl32.Vec3{1, 1, 1}),
		Intensity: d.Intensity,
		Direction: vec3(d.Direction, mgl32.Vec3{0, -1, 0}),
	}
	if l.Intensity == 0 {
		l.Intensity = 1
	}
	return l
}

func cam(d *Camera) *camera.Camera {
	c := camera.New()
	c.Position = vec3(d.Position, c.Position)
	if d.Yaw != 0 || d.Pitch != 0 {
		c.Orient(d.Yaw, d.Pitch)
	}
	if d.Fov > 0 {
		c.FovY = d.Fov
	}
	if d.Near > 0 {
		c.Near = d.Near
	}
	if d.Far > 0 {
		c.Far = d.Far
	}
	return c
}
