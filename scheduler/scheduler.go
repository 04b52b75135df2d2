// Package scheduler orders render passes from the textures they declare.
// A program depends on every other program that writes one of its inputs;
// the resolved order lists producers before their consumers.
package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/richinsley/goscene/entity"
	"github.com/richinsley/goscene/level"
	"go.uber.org/zap"
)

var (
	ErrUnsatisfiableDependency = errors.New("no program produces required texture")
	ErrDependencyCycle         = errors.New("texture dependency cycle")
	ErrAmbiguousProducer       = errors.New("texture has more than one producer")
)

// Source enumerates the programs the scheduler may order.
type Source interface {
	ProgramIDs() []entity.ID
	Program(id entity.ID) (*level.Program, error)
	NameFromID(id entity.ID) (string, error)
}

type Option func(*Scheduler)

// WithStrictProducers makes Validate reject textures written by more than
// one program.
func WithStrictProducers(strict bool) Option {
	return func(s *Scheduler) { s.strict = strict }
}

type Scheduler struct {
	src    Source
	log    *zap.Logger
	strict bool
}

func New(src Source, log *zap.Logger, opts ...Option) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scheduler{src: src, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resolution is the state of one Resolve call.
type resolution struct {
	order   []entity.ID
	done    map[entity.ID]bool
	active  map[entity.ID]bool
	path    []entity.ID
	all     []entity.ID
	outputs map[entity.ID][]entity.ID
}

// Resolve returns an execution order ending in id in which every program
// comes after all programs producing textures it reads. A program reachable
// along several paths is listed once, at its first position.
func (s *Scheduler) Resolve(id entity.ID) ([]entity.ID, error) {
	r := &resolution{
		done:    make(map[entity.ID]bool),
		active:  make(map[entity.ID]bool),
		all:     s.src.ProgramIDs(),
		outputs: make(map[entity.ID][]entity.ID),
	}
	for _, pid := range r.all {
		p, err := s.src.Program(pid)
		if err != nil {
			return nil, err
		}
		r.outputs[pid] = sorted(p.OutputTextureIDs())
	}
	if err := s.visit(r, id); err != nil {
		return nil, err
	}
	s.log.Debug("resolved pass order", zap.Stringer("target", id), zap.String("order", s.describePath(r.order)))
	return r.order, nil
}

func (s *Scheduler) visit(r *resolution, id entity.ID) error {
	if r.done[id] {
		return nil
	}
	if r.active[id] {
		return fmt.Errorf("%w: %s", ErrDependencyCycle, s.describePath(append(r.path, id)))
	}
	p, err := s.src.Program(id)
	if err != nil {
		return err
	}
	r.active[id] = true
	r.path = append(r.path, id)

	inputs := sorted(p.InputTextureIDs())
	needed := inputs
	var deps []entity.ID
	for _, other := range r.all {
		if other == id {
			continue
		}
		if len(intersect(r.outputs[other], inputs)) == 0 {
			continue
		}
		deps = append(deps, other)
		needed = difference(needed, r.outputs[other])
	}
	if len(needed) > 0 {
		return fmt.Errorf("%w: program %s needs %v", ErrUnsatisfiableDependency, s.name(id), needed)
	}
	for _, dep := range deps {
		if err := s.visit(r, dep); err != nil {
			return err
		}
	}

	r.path = r.path[:len(r.path)-1]
	r.active[id] = false
	r.done[id] = true
	r.order = append(r.order, id)
	return nil
}

// Producers returns every program writing tex, in id order.
func (s *Scheduler) Producers(tex entity.ID) ([]entity.ID, error) {
	var out []entity.ID
	for _, pid := range s.src.ProgramIDs() {
		p, err := s.src.Program(pid)
		if err != nil {
			return nil, err
		}
		for _, o := range p.OutputTextureIDs() {
			if o == tex {
				out = append(out, pid)
				break
			}
		}
	}
	return out, nil
}

// ResolveOutput resolves the order for the single program writing tex,
// normally the level's display texture.
func (s *Scheduler) ResolveOutput(tex entity.ID) ([]entity.ID, error) {
	producers, err := s.Producers(tex)
	if err != nil {
		return nil, err
	}
	switch len(producers) {
	case 0:
		return nil, fmt.Errorf("%w: output texture %s", ErrUnsatisfiableDependency, tex)
	case 1:
		return s.Resolve(producers[0])
	default:
		return nil, fmt.Errorf("%w: output texture %s written by %s", ErrAmbiguousProducer, tex, s.describePath(producers))
	}
}

// Validate runs the assembly-time checks. In strict mode a texture written
// by more than one program is rejected.
func (s *Scheduler) Validate() error {
	if !s.strict {
		return nil
	}
	writers := make(map[entity.ID][]entity.ID)
	for _, pid := range s.src.ProgramIDs() {
		p, err := s.src.Program(pid)
		if err != nil {
			return err
		}
		for _, o := range p.OutputTextureIDs() {
			writers[o] = append(writers[o], pid)
		}
	}
	texs := make([]entity.ID, 0, len(writers))
	for tex := range writers {
		texs = append(texs, tex)
	}
	sortIDs(texs)
	for _, tex := range texs {
		if w := writers[tex]; len(w) > 1 {
			return fmt.Errorf("%w: texture %s written by %s", ErrAmbiguousProducer, tex, s.describePath(w))
		}
	}
	return nil
}

func (s *Scheduler) name(id entity.ID) string {
	if n, err := s.src.NameFromID(id); err == nil {
		return fmt.Sprintf("%q", n)
	}
	return id.String()
}

func (s *Scheduler) describePath(ids []entity.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = s.name(id)
	}
	return strings.Join(parts, " -> ")
}

func sortIDs(ids []entity.ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func sorted(ids []entity.ID) []entity.ID {
	sortIDs(ids)
	return ids
}

// intersect returns the common elements of two sorted slices.
func intersect(a, b []entity.ID) []entity.ID {
	var out []entity.ID
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// difference returns the elements of sorted a that are not in sorted b.
func difference(a, b []entity.ID) []entity.ID {
	var out []entity.ID
	j := 0
	for _, v := range a {
		for j < len(b) && b[j] < v {
			j++
		}
		if j < len(b) && b[j] == v {
			continue
		}
		out = append(out, v)
	}
	return out
}
