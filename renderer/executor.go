package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goscene/camera"
	"github.com/richinsley/goscene/entity"
	"github.com/richinsley/goscene/level"
	"go.uber.org/zap"
)

var (
	ErrNoOutputs     = errors.New("pass declares no output textures")
	ErrNotConfigured = errors.New("renderer is not configured")
	ErrNotDrawable   = errors.New("scene root is neither a node nor a static mesh")
)

// Executor runs resolved passes against a Surface. Texture units are
// handed out from a single slot table shared by every pass and material.
type Executor struct {
	lvl     *level.Level
	surface Surface
	slots   *level.Material
	plain   *level.Material // uploaded for mesh nodes without a material
	log     *zap.Logger
}

func NewExecutor(lvl *level.Level, surface Surface, log *zap.Logger) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{
		lvl:     lvl,
		surface: surface,
		slots:   level.NewMaterial(),
		plain:   level.NewMaterial(),
		log:     log,
	}
}

// Execute runs every pass of order at scene time t. The first failure
// aborts the frame.
func (e *Executor) Execute(order []entity.ID, t float64, u *camera.Uniforms) error {
	for _, id := range order {
		if err := e.ExecutePass(id, t, u); err != nil {
			return err
		}
	}
	return nil
}

// ExecutePass binds, draws and unbinds a single pass.
func (e *Executor) ExecutePass(id entity.ID, t float64, u *camera.Uniforms) error {
	pass, err := resolvePass(e.lvl, id)
	if err != nil {
		return e.passError(id, pass, err)
	}
	err = e.withOutputTarget(pass.Outputs, func() error {
		e.surface.SetDepthTest(pass.Program.DepthTest)
		e.surface.UseShader(pass.Program.Shader)
		e.surface.SetUniforms(u)
		return e.withInputs(pass.Inputs, func() error {
			return e.drawRoot(pass, t, u)
		})
	})
	if err != nil {
		return e.passError(id, pass, err)
	}
	return nil
}

func (e *Executor) passError(id entity.ID, pass *RenderPass, err error) error {
	name := id.String()
	if pass != nil {
		name = fmt.Sprintf("%q", pass.Name)
	}
	e.log.Error("pass failed", zap.String("pass", name), zap.Error(err))
	return fmt.Errorf("pass %s: %w", name, err)
}

// withOutputTarget keeps the off-screen target bound for the duration of fn.
func (e *Executor) withOutputTarget(targets []level.Texture, fn func() error) error {
	if err := e.surface.BindOutputTarget(targets); err != nil {
		return err
	}
	defer e.surface.UnbindOutputTarget()
	return fn()
}

// withInputs binds every texture to a free slot for the duration of fn.
// Slots acquired before a failure are released as well.
func (e *Executor) withInputs(bindings []binding, fn func() error) error {
	var bound []int
	defer func() {
		for i := len(bound) - 1; i >= 0; i-- {
			e.surface.UnbindInputSlot(bound[i])
			e.slots.ReleaseSlot(bound[i])
		}
	}()
	for _, b := range bindings {
		tex, err := e.lvl.Texture(b.texture)
		if err != nil {
			return fmt.Errorf("sampler %s: %w", b.sampler, err)
		}
		slot, err := e.slots.AcquireSlot(b.texture)
		if err != nil {
			return fmt.Errorf("sampler %s: %w", b.sampler, err)
		}
		bound = append(bound, slot)
		e.surface.BindInputSlot(b.sampler, tex, slot)
	}
	return fn()
}

func (e *Executor) drawRoot(pass *RenderPass, t float64, u *camera.Uniforms) error {
	root := pass.Program.SceneRoot
	if !root.Valid() {
		quad, err := e.lvl.DefaultQuad()
		if err != nil {
			return err
		}
		return e.surface.Draw(quad)
	}
	kind, err := e.lvl.KindOf(root)
	if err != nil {
		return err
	}
	switch kind {
	case entity.KindStaticMesh:
		mesh, err := e.lvl.StaticMesh(root)
		if err != nil {
			return err
		}
		e.surface.SetUniforms(u.WithModel(mgl32.Ident4()))
		return e.surface.Draw(mesh)
	case entity.KindNode:
		return e.drawTree(root, t, u)
	}
	return fmt.Errorf("%w: %s is a %s", ErrNotDrawable, root, kind)
}

// drawTree draws every mesh node at or below root with its world transform
// at time t. Each mesh gets its own material uploaded, the plain one if it
// has none.
func (e *Executor) drawTree(root entity.ID, t float64, u *camera.Uniforms) error {
	node, err := e.lvl.Node(root)
	if err != nil {
		return err
	}
	graph := e.lvl.Graph()
	nodes, err := graph.Descendants(node.Name)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		ref, ok := n.Mesh()
		if !ok {
			continue
		}
		mesh, err := e.lvl.StaticMesh(ref.Mesh)
		if err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
		model, err := graph.LocalModel(n.Name, t)
		if err != nil {
			return err
		}
		mat := e.plain
		if ref.Material.Valid() {
			if mat, err = e.lvl.Material(ref.Material); err != nil {
				return fmt.Errorf("node %q: %w", n.Name, err)
			}
		}
		e.surface.SetMaterial(mat)
		var bindings []binding
		for _, mt := range mat.Textures {
			bindings = append(bindings, binding{sampler: mt.Sampler, texture: mt.Texture})
		}
		err = e.withInputs(bindings, func() error {
			e.surface.SetUniforms(u.WithModel(model))
			return e.surface.Draw(mesh)
		})
		if err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
	}
	return nil
}
