// Package config reads the zkgraph TOML configuration file.
package config

import (
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"

	"github.com/psidex/zkgraph/internal/lib"
	"github.com/psidex/zkgraph/internal/style"
	"github.com/psidex/zkgraph/internal/view"
)

var ErrUnknownKey = errors.New("unknown config key")

type Config struct {
	View     ViewConfig     `toml:"view"`
	Server   ServerConfig   `toml:"server"`
	RPC      RPCConfig      `toml:"rpc"`
	Snapshot SnapshotConfig `toml:"snapshot"`
	Presets  []PresetConfig `toml:"presets"`
}

type ViewConfig struct {
	Preset    string `toml:"preset"`
	Container string `toml:"container"`
	Title     string `toml:"title"`
	// CDN overrides where pages load Cytoscape.js from.
	CDN string `toml:"cdn"`
	// Elements is the dataset file or URL.
	Elements string `toml:"elements"`
	NotesDir string `toml:"notes_dir"`
	// Script is an existing graph.js whose elements line generate rewrites.
	Script string `toml:"script"`
	// Host is an HTML page whose ids are the valid containers. Empty means a
	// page holding only the default container.
	Host string `toml:"host"`
}

type ServerConfig struct {
	Addr         string       `toml:"addr"`
	Watch        bool         `toml:"watch"`
	Debounce     lib.Duration `toml:"debounce"`
	WriteTimeout lib.Duration `toml:"write_timeout"`
}

type RPCConfig struct {
	Addr string `toml:"addr"`
	// Containers lists the container ids clients may configure.
	Containers []string `toml:"containers"`
}

type SnapshotConfig struct {
	Width   int64        `toml:"width"`
	Height  int64        `toml:"height"`
	Timeout lib.Duration `toml:"timeout"`
	Settle  lib.Duration `toml:"settle"`
}

type PresetConfig struct {
	Name            string       `toml:"name"`
	Layout          string       `toml:"layout"`
	IdealEdgeLength int          `toml:"ideal_edge_length"`
	BoxSelection    bool         `toml:"box_selection"`
	Autounselectify bool         `toml:"autounselectify"`
	Style           []RuleConfig `toml:"style"`
}

type RuleConfig struct {
	Selector string         `toml:"selector"`
	CSS      map[string]any `toml:"css"`
}

func Default() Config {
	return Config{
		View: ViewConfig{
			Preset:    view.PresetForce,
			Container: view.DefaultContainerID,
			Title:     "zkgraph",
			Elements:  "elements.json",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			Debounce:     lib.DurationFrom(250 * time.Millisecond),
			WriteTimeout: lib.DurationFrom(10 * time.Second),
		},
		RPC: RPCConfig{
			Addr:       "127.0.0.1:50051",
			Containers: []string{view.DefaultContainerID},
		},
		Snapshot: SnapshotConfig{
			Width:   1280,
			Height:  800,
			Timeout: lib.DurationFrom(30 * time.Second),
			Settle:  lib.DurationFrom(time.Second),
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// Keys that do not map to a field are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	return Parse(string(data))
}

// Parse decodes a TOML document over the defaults.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return cfg, errors.Wrap(err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return cfg, errors.Wrapf(ErrUnknownKey, "%s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Preset converts a configured preset.
func (p PresetConfig) Preset() (view.Preset, error) {
	layout, err := view.ParseLayout(p.Layout)
	if err != nil {
		return view.Preset{}, errors.Wrapf(err, "preset %q", p.Name)
	}

	sheet := style.New()
	for _, rule := range p.Style {
		if strings.TrimSpace(rule.Selector) == "" {
			return view.Preset{}, errors.Newf("preset %q: style rule without selector", p.Name)
		}
		props := make([]string, 0, len(rule.CSS))
		for prop := range rule.CSS {
			props = append(props, prop)
		}
		slices.Sort(props)

		decls := make([]style.Declaration, 0, len(props))
		for _, prop := range props {
			v, err := style.Of(rule.CSS[prop])
			if err != nil {
				return view.Preset{}, errors.Wrapf(err, "preset %q: %s %s", p.Name, rule.Selector, prop)
			}
			decls = append(decls, style.Declaration{Property: prop, Value: v})
		}
		sheet.Selector(rule.Selector).CSS(decls...)
	}

	return view.Preset{
		Name:    p.Name,
		Layout:  view.Layout{Name: layout, IdealEdgeLength: p.IdealEdgeLength},
		Options: view.Options{BoxSelectionEnabled: p.BoxSelection, Autounselectify: p.Autounselectify},
		Style:   sheet,
	}, nil
}

// Registry returns the built-in presets plus the configured ones. A configured
// preset with a built-in name replaces it.
func (c Config) Registry() (*view.Registry, error) {
	reg := view.NewRegistry()
	for _, pc := range c.Presets {
		p, err := pc.Preset()
		if err != nil {
			return nil, err
		}
		if err := reg.Register(p); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Surface resolves container ids against the configured host page, or the
// default single-container page.
func (c Config) Surface() (view.Surface, error) {
	if c.View.Host == "" {
		return view.DefaultDocument(), nil
	}
	return view.LoadDocument(c.View.Host)
}
