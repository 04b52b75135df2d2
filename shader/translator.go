package shader

import (
	"context"
	"fmt"

	gst "github.com/richinsley/goshadertranslator"
)

// Translated is a shader stage rewritten for desktop GL, with the mapping
// from source uniform names to the names the compiler will see.
type Translated struct {
	Code  string
	names map[string]string
}

// Mapped returns the translated name of a source uniform.
func (t *Translated) Mapped(name string) (string, bool) {
	m, ok := t.names[name]
	return m, ok
}

// Translator turns GLSL ES 3.00 into GLSL 4.10.
type Translator struct {
	gst *gst.ShaderTranslator
}

func NewTranslator(ctx context.Context) (*Translator, error) {
	t, err := gst.NewShaderTranslator(ctx)
	if err != nil {
		return nil, fmt.Errorf("shader translator: %w", err)
	}
	return &Translator{gst: t}, nil
}

func (t *Translator) translate(source, stage string) (*Translated, error) {
	out, err := t.gst.TranslateShader(source, stage, gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	names := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		names[name] = v.MappedName
	}
	return &Translated{Code: out.Code, names: names}, nil
}

func (t *Translator) Vertex(source string) (*Translated, error) {
	return t.translate(source, "vertex")
}

func (t *Translator) Fragment(source string) (*Translated, error) {
	return t.translate(source, "fragment")
}

// NewTranslated wraps already native code whose names are used unchanged.
func NewTranslated(code string, names ...string) *Translated {
	m := make(map[string]string, len(names))
	for _, n := range names {
		m[n] = n
	}
	return &Translated{Code: code, names: m}
}

// Merge returns the union of the name maps of both stages.
func Merge(stages ...*Translated) map[string]string {
	out := make(map[string]string)
	for _, s := range stages {
		for k, v := range s.names {
			out[k] = v
		}
	}
	return out
}
