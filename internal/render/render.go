// Package render turns an analyzed model.Result into source text for a target
// language. Output is a fixed header followed by one class block per class,
// root first.
package render

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/matthewbaird/schemagen/internal/dialect"
	"github.com/matthewbaird/schemagen/internal/model"
)

var (
	// ErrUnknownTarget is returned by Lookup for an unregistered target.
	ErrUnknownTarget = errors.New("unknown render target")
	// ErrUnsupportedDefault is returned when an attribute carries a default
	// other than null.
	ErrUnsupportedDefault = errors.New("unsupported default value")
)

// DefaultTarget is used when no target is named.
const DefaultTarget = "python"

// Renderer produces source text for one target language.
type Renderer interface {
	Name() string
	// Dialect is the type syntax the analyzer must use for this target.
	Dialect() dialect.Dialect
	Render(r *model.Result) (string, error)
}

// Options configure a renderer. Package only applies to targets that have
// one.
type Options struct {
	Package string
}

var targets = map[string]func(Options) Renderer{
	"python": func(Options) Renderer { return Python{} },
	"go":     func(o Options) Renderer { return NewGo(o.Package) },
}

// Lookup returns the renderer registered under name. An empty name selects
// DefaultTarget.
func Lookup(name string, opts Options) (Renderer, error) {
	if name == "" {
		name = DefaultTarget
	}
	mk, ok := targets[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownTarget, name, strings.Join(Names(), ", "))
	}
	return mk(opts), nil
}

// Names lists the registered targets in sorted order.
func Names() []string {
	names := make([]string, 0, len(targets))
	for n := range targets {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func checkDefaults(r *model.Result) error {
	null := *model.Null()
	for _, c := range r.Classes() {
		for _, a := range c.Optional() {
			if !a.Default.Equal(null) {
				return fmt.Errorf("%s.%s: %w", c.Name, a.Name, ErrUnsupportedDefault)
			}
		}
	}
	return nil
}

// uniqueNames maps each attribute name to an identifier produced by ident,
// adding a trailing underscore until it collides with neither an earlier field
// nor a reserved name.
func uniqueNames(attrs []model.Attribute, ident func(string) string, reserved ...string) map[string]string {
	taken := make(map[string]bool, len(attrs)+len(reserved))
	for _, r := range reserved {
		taken[r] = true
	}
	out := make(map[string]string, len(attrs))
	for _, a := range attrs {
		id := ident(a.Name)
		for taken[id] {
			id += "_"
		}
		taken[id] = true
		out[a.Name] = id
	}
	return out
}

// fields builds one view per attribute, then the required and optional
// groups, each in field order.
func fields[F any](c model.Class, view func(model.Attribute) (F, error)) (all, required, optional []F, err error) {
	build := func(attrs []model.Attribute) ([]F, error) {
		out := make([]F, 0, len(attrs))
		for _, a := range attrs {
			f, err := view(a)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
		return out, nil
	}
	if all, err = build(c.Attributes); err != nil {
		return nil, nil, nil, err
	}
	if required, err = build(c.Required()); err != nil {
		return nil, nil, nil, err
	}
	optional, err = build(c.Optional())
	return all, required, optional, err
}
