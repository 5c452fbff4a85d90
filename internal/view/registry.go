package view

import (
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

var ErrUnknownPreset = errors.New("unknown preset")

// Registry maps preset names to presets. Presets are copied on the way in and
// on the way out, so callers can't reach each other's stylesheets.
type Registry struct {
	mu      *sync.RWMutex
	presets map[string]Preset
}

// NewRegistry returns a registry holding the force, circle and haystack presets.
func NewRegistry() *Registry {
	r := &Registry{
		mu:      &sync.RWMutex{},
		presets: make(map[string]Preset),
	}
	for _, p := range []Preset{ForcePreset(), CirclePreset(), HaystackPreset()} {
		r.presets[p.Name] = p
	}
	return r
}

// Register adds p, replacing any preset with the same name.
func (r *Registry) Register(p Preset) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("preset needs a name")
	}
	if _, err := ParseLayout(string(p.Layout.Name)); err != nil {
		return errors.Wrapf(err, "preset %q", p.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.presets[p.Name] = p.clone()
	return nil
}

func (r *Registry) Lookup(name string) (Preset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.presets[name]
	if !ok {
		return Preset{}, errors.WithHintf(
			errors.Wrapf(ErrUnknownPreset, "%q", name),
			"known presets: %s", strings.Join(r.namesLocked(), ", "),
		)
	}
	return p.clone(), nil
}

// Names returns the registered preset names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
