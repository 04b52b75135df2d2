package scenefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Description is the YAML form of a scene: every resource, the node
// hierarchy, the passes and the default slots.
type Description struct {
	Title     string     `yaml:"title"`
	Common    string     `yaml:"common"` // GLSL shared by every program
	Textures  []Texture  `yaml:"textures"`
	Meshes    []Mesh     `yaml:"meshes"`
	Buffers   []Buffer   `yaml:"buffers"`
	Materials []Material `yaml:"materials"`
	Nodes     []Node     `yaml:"nodes"`
	Programs  []Program  `yaml:"programs"`
	Defaults  Defaults   `yaml:"defaults"`

	baseDir string
}

// Texture is either a render target (no image) or an image file.
type Texture struct {
	Name    string  `yaml:"name"`
	Image   string  `yaml:"image,omitempty"`
	Width   int     `yaml:"width,omitempty"`  // render targets default to the output size
	Height  int     `yaml:"height,omitempty"` // images are rescaled when both are set
	Sampler Sampler `yaml:",inline"`
}

type Mesh struct {
	Name      string    `yaml:"name"`
	Primitive string    `yaml:"primitive,omitempty"` // "quad" or "cube"
	Vertices  []float32 `yaml:"vertices,omitempty"`  // interleaved position, normal, uv
}

type Buffer struct {
	Name string `yaml:"name"`
	Size int    `yaml:"size"`
}

type Material struct {
	Name      string            `yaml:"name"`
	Ambient   []float32         `yaml:"ambient,omitempty"`
	Diffuse   []float32         `yaml:"diffuse,omitempty"`
	Specular  []float32         `yaml:"specular,omitempty"`
	Shininess float32           `yaml:"shininess,omitempty"`
	Textures  map[string]string `yaml:"textures,omitempty"` // sampler name to texture name
}

// Node carries at most one payload. A node without one is a group.
type Node struct {
	Name      string     `yaml:"name"`
	Parent    string     `yaml:"parent,omitempty"`
	Matrix    []float32  `yaml:"matrix,omitempty"` // column major
	Transform *Transform `yaml:"transform,omitempty"`
	Mesh      string     `yaml:"mesh,omitempty"`
	Material  string     `yaml:"material,omitempty"`
	Light     *Light     `yaml:"light,omitempty"`
	Camera    *Camera    `yaml:"camera,omitempty"`
}

type Transform struct {
	Translation []float32 `yaml:"translation,omitempty"`
	Scale       []float32 `yaml:"scale,omitempty"`
	From        []float32 `yaml:"from,omitempty"` // Euler XYZ degrees
	To          []float32 `yaml:"to,omitempty"`
	Mode        string    `yaml:"mode,omitempty"` // "euler" or "quaternion"
	Period      float64   `yaml:"period,omitempty"`
}

type Light struct {
	Type      string    `yaml:"type"` // "ambient", "directional" or "point"
	Color     []float32 `yaml:"color,omitempty"`
	Intensity float32   `yaml:"intensity,omitempty"`
	Direction []float32 `yaml:"direction,omitempty"`
}

// Camera angles are in degrees. Leaving both at zero keeps the default
// front of -Z.
type Camera struct {
	Position []float32 `yaml:"position,omitempty"`
	Yaw      float32   `yaml:"yaw,omitempty"`
	Pitch    float32   `yaml:"pitch,omitempty"`
	Fov      float32   `yaml:"fov,omitempty"`
	Near     float32   `yaml:"near,omitempty"`
	Far      float32   `yaml:"far,omitempty"`
}

type Program struct {
	Name         string   `yaml:"name"`
	Fragment     string   `yaml:"fragment,omitempty"`
	FragmentFile string   `yaml:"fragment_file,omitempty"`
	Inputs       []string `yaml:"inputs,omitempty"`
	Outputs      []string `yaml:"outputs"`
	DepthTest    bool     `yaml:"depth_test,omitempty"`
	Scene        string   `yaml:"scene,omitempty"` // node or mesh drawn by the pass
}

type Defaults struct {
	Output string `yaml:"output"`
	Root   string `yaml:"root,omitempty"`
	Camera string `yaml:"camera,omitempty"`
	Quad   string `yaml:"quad,omitempty"`
	Cube   string `yaml:"cube,omitempty"`
}

// Parse decodes a YAML description. Relative file references resolve
// against the working directory.
func Parse(r io.Reader) (*Description, error) {
	var d Description
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty scene description")
		}
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Load parses the file at path. Relative file references resolve against
// the file's directory.
func Load(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	d, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	d.baseDir = filepath.Dir(path)
	return d, nil
}

func (d *Description) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || d.baseDir == "" {
		return path
	}
	return filepath.Join(d.baseDir, path)
}

// Validate checks what can be checked without building: names, payloads
// and vector sizes. References between entries are checked by Build.
func (d *Description) Validate() error {
	var errs []error
	check := func(what, name string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s %q: %w", what, name, err))
		}
	}
	for _, t := range d.Textures {
		check("texture", t.Name, t.validate())
	}
	for _, m := range d.Meshes {
		check("mesh", m.Name, m.validate())
	}
	for _, b := range d.Buffers {
		check("buffer", b.Name, b.validate())
	}
	for _, m := range d.Materials {
		check("material", m.Name, m.validate())
	}
	for _, n := range d.Nodes {
		check("node", n.Name, n.validate())
	}
	for _, p := range d.Programs {
		check("program", p.Name, p.validate())
	}
	if d.Defaults.Output == "" {
		errs = append(errs, errors.New("defaults: output is required"))
	}
	return errors.Join(errs...)
}

var errNoName = errors.New("missing name")

func (t Texture) validate() error {
	if t.Name == "" {
		return errNoName
	}
	if t.Width < 0 || t.Height < 0 {
		return fmt.Errorf("negative size %dx%d", t.Width, t.Height)
	}
	return nil
}

func (m Mesh) validate() error {
	if m.Name == "" {
		return errNoName
	}
	switch {
	case m.Primitive != "" && len(m.Vertices) > 0:
		return errors.New("primitive and vertices are exclusive")
	case m.Primitive == "" && len(m.Vertices) == 0:
		return errors.New("needs a primitive or vertices")
	case m.Primitive != "" && m.Primitive != "quad" && m.Primitive != "cube":
		return fmt.Errorf("unknown primitive %q", m.Primitive)
	case len(m.Vertices)%VertexStride != 0:
		return fmt.Errorf("%d floats is not a whole number of %d-float vertices", len(m.Vertices), VertexStride)
	}
	return nil
}

func (b Buffer) validate() error {
	if b.Name == "" {
		return errNoName
	}
	if b.Size <= 0 {
		return fmt.Errorf("size %d must be positive", b.Size)
	}
	return nil
}

func (m Material) validate() error {
	if m.Name == "" {
		return errNoName
	}
	return errors.Join(checkVec("ambient", m.Ambient, 3), checkVec("diffuse", m.Diffuse, 3), checkVec("specular", m.Specular, 3))
}

func (n Node) validate() error {
	if n.Name == "" {
		return errNoName
	}
	payloads := 0
	for _, set := range []bool{len(n.Matrix) > 0, n.Transform != nil, n.Mesh != "", n.Light != nil, n.Camera != nil} {
		if set {
			payloads++
		}
	}
	if payloads > 1 {
		return errors.New("more than one payload")
	}
	if n.Material != "" && n.Mesh == "" {
		return errors.New("material without mesh")
	}
	var errs []error
	errs = append(errs, checkVec("matrix", n.Matrix, 16))
	if tr := n.Transform; tr != nil {
		errs = append(errs,
			checkVec("translation", tr.Translation, 3),
			checkVec("scale", tr.Scale, 3),
			checkVec("from", tr.From, 3),
			checkVec("to", tr.To, 3))
		if tr.Mode != "" && tr.Mode != "euler" && tr.Mode != "quaternion" {
			errs = append(errs, fmt.Errorf("unknown rotation mode %q", tr.Mode))
		}
	}
	if l := n.Light; l != nil {
		errs = append(errs, checkVec("color", l.Color, 3), checkVec("direction", l.Direction, 3))
		if _, ok := lightTypes[l.Type]; !ok {
			errs = append(errs, fmt.Errorf("unknown light type %q", l.Type))
		}
	}
	if c := n.Camera; c != nil {
		errs = append(errs, checkVec("position", c.Position, 3))
	}
	return errors.Join(errs...)
}

func (p Program) validate() error {
	if p.Name == "" {
		return errNoName
	}
	if (p.Fragment == "") == (p.FragmentFile == "") {
		return errors.New("needs exactly one of fragment and fragment_file")
	}
	return nil
}

func checkVec(field string, v []float32, n int) error {
	if len(v) != 0 && len(v) != n {
		return fmt.Errorf("%s has %d components, want %d", field, len(v), n)
	}
	return nil
}
